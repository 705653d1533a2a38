package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/tndlist/internal/shared"
	"golang.org/x/oauth2"
)

func newTestYouTubeService(t *testing.T, baseURL string) *YouTubeService {
	t.Helper()

	svc, err := NewYouTubeService(map[string]string{
		"client_id":     "test-client",
		"client_secret": "test-secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	svc.baseURL = baseURL
	svc.token = &oauth2.Token{AccessToken: "test-token"}
	return svc
}

func TestNewYouTubeService(t *testing.T) {
	t.Run("requires client credentials", func(t *testing.T) {
		if _, err := NewYouTubeService(map[string]string{"client_secret": "x"}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
		if _, err := NewYouTubeService(map[string]string{"client_id": "x"}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("defaults the redirect uri", func(t *testing.T) {
		svc, err := NewYouTubeService(map[string]string{"client_id": "a", "client_secret": "b"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.config.RedirectURL != "http://localhost:8080/callback" {
			t.Errorf("unexpected redirect: %s", svc.config.RedirectURL)
		}
	})
}

func TestResolveUploadsID(t *testing.T) {
	t.Run("resolves a handle", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/channels" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("forUsername"); got != "theneedledrop" {
				t.Errorf("unexpected handle: %s", got)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
				t.Errorf("unexpected auth header: %s", auth)
			}
			fmt.Fprint(w, `{"items":[{"contentDetails":{"relatedPlaylists":{"uploads":"UUt7fwAhXDy3oNFTAzF2o8Pw"}}}]}`)
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)

		uploadsID, err := svc.ResolveUploadsID(context.Background(), "theneedledrop")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if uploadsID != "UUt7fwAhXDy3oNFTAzF2o8Pw" {
			t.Errorf("unexpected uploads id: %s", uploadsID)
		}
	})

	t.Run("unknown channel", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items":[]}`)
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)

		if _, err := svc.ResolveUploadsID(context.Background(), "nobody"); !errors.Is(err, shared.ErrChannelNotFound) {
			t.Errorf("expected ErrChannelNotFound, got %v", err)
		}
	})

	t.Run("requires a token", func(t *testing.T) {
		svc, err := NewYouTubeService(map[string]string{"client_id": "a", "client_secret": "b"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := svc.ResolveUploadsID(context.Background(), "theneedledrop"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestListUploads(t *testing.T) {
	t.Run("parses a page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlistItems" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("playlistId"); got != "UU123" {
				t.Errorf("unexpected playlist id: %s", got)
			}
			if got := r.URL.Query().Get("maxResults"); got != "50" {
				t.Errorf("unexpected page size: %s", got)
			}
			fmt.Fprint(w, `{
				"items": [
					{
						"id": "vid1",
						"snippet": {"title": "Swans - The Beggar ALBUM REVIEW", "description": "Swans - The Beggar / Young God / 2023 / Drone\n\n8/10"},
						"contentDetails": {"videoPublishedAt": "2026-05-03T16:00:00Z"}
					}
				],
				"nextPageToken": "page2"
			}`)
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)

		page, err := svc.ListUploads(context.Background(), "UU123", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(page.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(page.Items))
		}
		if page.NextPageToken != "page2" {
			t.Errorf("unexpected next page token: %s", page.NextPageToken)
		}

		item := page.Items[0]
		if item.ID != "vid1" || item.Title != "Swans - The Beggar ALBUM REVIEW" {
			t.Errorf("unexpected item: %+v", item)
		}
		if item.PublishedAt.Year() != 2026 || item.PublishedAt.Month() != 5 {
			t.Errorf("unexpected publish time: %v", item.PublishedAt)
		}
	})

	t.Run("forwards the page token", func(t *testing.T) {
		var gotToken string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotToken = r.URL.Query().Get("pageToken")
			fmt.Fprint(w, `{"items":[]}`)
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)

		if _, err := svc.ListUploads(context.Background(), "UU123", "page2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotToken != "page2" {
			t.Errorf("expected pageToken page2, got %q", gotToken)
		}
	})

	t.Run("api errors wrap ErrAPIRequest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)

		if _, err := svc.ListUploads(context.Background(), "UU123", ""); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
