package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/tndlist/internal/shared"
	"golang.org/x/oauth2"
)

func newTestSpotifyService(t *testing.T, baseURL string) *SpotifyService {
	t.Helper()

	svc, err := NewSpotifyService(map[string]string{
		"client_id":     "test-client",
		"client_secret": "test-secret",
		"user_id":       "fantano",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	svc.baseURL = baseURL
	svc.token = &oauth2.Token{AccessToken: "test-token"}
	return svc
}

func TestSearchAlbum(t *testing.T) {
	t.Run("returns the first result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("q"); got != "The Beggar Swans" {
				t.Errorf("unexpected query: %q", got)
			}
			if got := r.URL.Query().Get("type"); got != "album" {
				t.Errorf("unexpected type: %q", got)
			}
			fmt.Fprint(w, `{"albums":{"items":[
				{"id":"album1","name":"The Beggar"},
				{"id":"album2","name":"The Beggar (Deluxe)"}
			]}}`)
		}))
		defer server.Close()

		svc := newTestSpotifyService(t, server.URL)

		ref, err := svc.SearchAlbum(context.Background(), "The Beggar Swans")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ref == nil || ref.ID != "album1" || ref.Name != "The Beggar" {
			t.Errorf("expected first result, got %+v", ref)
		}
	})

	t.Run("no results means no match, not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"albums":{"items":[]}}`)
		}))
		defer server.Close()

		svc := newTestSpotifyService(t, server.URL)

		ref, err := svc.SearchAlbum(context.Background(), "nonexistent album")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ref != nil {
			t.Errorf("expected nil ref, got %+v", ref)
		}
	})

	t.Run("empty query skips the request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected for an empty query")
		}))
		defer server.Close()

		svc := newTestSpotifyService(t, server.URL)

		ref, err := svc.SearchAlbum(context.Background(), "")
		if err != nil || ref != nil {
			t.Errorf("expected (nil, nil), got (%+v, %v)", ref, err)
		}
	})
}

func TestAlbumTracks(t *testing.T) {
	t.Run("filters non-track entries and reports capping", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/albums/album1/tracks" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("limit"); got != "20" {
				t.Errorf("unexpected limit: %s", got)
			}
			fmt.Fprint(w, `{
				"items": [
					{"type":"track","uri":"spotify:track:t1"},
					{"type":"episode","uri":"spotify:episode:e1"},
					{"type":"track","uri":"spotify:track:t2"}
				],
				"total": 25
			}`)
		}))
		defer server.Close()

		svc := newTestSpotifyService(t, server.URL)

		listing, err := svc.AlbumTracks(context.Background(), "album1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(listing.URIs) != 2 {
			t.Fatalf("expected 2 track uris, got %d", len(listing.URIs))
		}
		if listing.URIs[0] != "spotify:track:t1" || listing.URIs[1] != "spotify:track:t2" {
			t.Errorf("unexpected uris: %v", listing.URIs)
		}
		if !listing.Capped {
			t.Error("expected capped listing when total exceeds the page")
		}
	})

	t.Run("full listing is not capped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items":[{"type":"track","uri":"spotify:track:t1"}],"total":1}`)
		}))
		defer server.Close()

		svc := newTestSpotifyService(t, server.URL)

		listing, err := svc.AlbumTracks(context.Background(), "album1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if listing.Capped {
			t.Error("expected uncapped listing")
		}
	})
}

func TestUserPlaylists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/playlists" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"items":[
			{"id":"pl1","name":"TND List Maker: 05/01/2026 - 05/08/2026","description":"Score: All. Genre: All","public":false}
		]}`)
	}))
	defer server.Close()

	svc := newTestSpotifyService(t, server.URL)

	playlists, err := svc.UserPlaylists(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(playlists) != 1 {
		t.Fatalf("expected 1 playlist, got %d", len(playlists))
	}
	if playlists[0].Name != "TND List Maker: 05/01/2026 - 05/08/2026" {
		t.Errorf("unexpected playlist: %+v", playlists[0])
	}
}

func TestCreatePlaylist(t *testing.T) {
	t.Run("posts the spec to the user's playlists", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method: %s", r.Method)
			}
			if r.URL.Path != "/users/fantano/playlists" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}

			var body createPlaylistRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Name != "My Playlist" || body.Public {
				t.Errorf("unexpected body: %+v", body)
			}

			fmt.Fprint(w, `{"id":"pl-new","external_urls":{"spotify":"https://open.spotify.com/playlist/pl-new"}}`)
		}))
		defer server.Close()

		svc := newTestSpotifyService(t, server.URL)

		created, err := svc.CreatePlaylist(context.Background(), PlaylistSpec{
			Name:        "My Playlist",
			Description: "Score: All. Genre: All",
			Public:      false,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.ID != "pl-new" || created.URL != "https://open.spotify.com/playlist/pl-new" {
			t.Errorf("unexpected result: %+v", created)
		}
	})

	t.Run("requires a user id", func(t *testing.T) {
		svc, err := NewSpotifyService(map[string]string{"client_id": "a", "client_secret": "b"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		svc.token = &oauth2.Token{AccessToken: "test-token"}

		if _, err := svc.CreatePlaylist(context.Background(), PlaylistSpec{Name: "x"}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestAddTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlists/pl1/tracks" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var body addTracksRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(body.URIs) != 2 || body.URIs[0] != "spotify:track:t1" {
			t.Errorf("unexpected uris: %v", body.URIs)
		}

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	svc := newTestSpotifyService(t, server.URL)

	if err := svc.AddTracks(context.Background(), "pl1", []string{"spotify:track:t1", "spotify:track:t2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
