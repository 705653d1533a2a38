package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func newTestConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "http://example.com/auth",
			TokenURL: tokenURL,
		},
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("exchanges the code and delivers the token", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.FormValue("code"); got != "auth-code-123" {
				t.Errorf("unexpected code: %s", got)
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"granted-token","token_type":"Bearer"}`)
		}))
		defer tokenServer.Close()

		handler := NewOAuthHandler(newTestConfig(tokenServer.URL), "state-abc")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state-abc&code=auth-code-123", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("unexpected status: %d", rec.Code)
		}

		result := <-handler.Result()
		if err := result.Error(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Token == nil || result.Token.AccessToken != "granted-token" {
			t.Errorf("unexpected token: %+v", result.Token)
		}
	})

	t.Run("rejects a mismatched state", func(t *testing.T) {
		handler := NewOAuthHandler(newTestConfig("http://example.com/token"), "state-abc")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=auth-code-123", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("unexpected status: %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected an error for a mismatched state")
		}
	})

	t.Run("reports a denied authorization", func(t *testing.T) {
		handler := NewOAuthHandler(newTestConfig("http://example.com/token"), "state-abc")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state-abc&error=access_denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected an error when the user denies access")
		}
	})

	t.Run("ignores a second callback", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"granted-token","token_type":"Bearer"}`)
		}))
		defer tokenServer.Close()

		handler := NewOAuthHandler(newTestConfig(tokenServer.URL), "state-abc")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?state=state-abc&code=c1", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?state=state-abc&code=c2", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("second callback should be rejected, got %d", second.Code)
		}
	})
}

func TestRouter(t *testing.T) {
	t.Run("applies middleware in registration order", func(t *testing.T) {
		var order []string

		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewRouter()
		router.Use(mw("first"), mw("second"))
		router.Handler(&pingHandler{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("unexpected middleware order: %v", order)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("unexpected status: %d", rec.Code)
		}
	})
}

type pingHandler struct{}

func (pingHandler) Routes() []string { return []string{"/ping"} }

func (pingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
