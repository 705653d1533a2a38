// Spotify Web API implementation of [Catalog]
//
// Response shapes follow https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/tndlist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// albumTrackLimit is the page size for album track listings. Only the
	// first page is fetched; longer albums are reported as capped rather
	// than paginated.
	albumTrackLimit = 20

	spotifyRequestsPerSecond = 8
)

type searchResponse struct {
	Albums struct {
		Items []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"items"`
	} `json:"albums"`
}

type albumTracksResponse struct {
	Items []struct {
		Type string `json:"type"`
		URI  string `json:"uri"`
	} `json:"items"`
	Total int `json:"total"`
}

type userPlaylistsResponse struct {
	Items []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Public      bool   `json:"public"`
	} `json:"items"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type createPlaylistResponse struct {
	ID           string `json:"id"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

// SpotifyService implements [Catalog] against the Spotify Web API.
// Uses [oauth2] for authentication with playlist-modify scopes.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userID     string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2
// credentials. The "user_id" credential names the playlist owner for
// playlist creation.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"playlist-modify-public",
			"playlist-modify-private",
			"playlist-read-collaborative",
			"playlist-read-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(spotifyRequestsPerSecond), 1),
		baseURL:    spotifyBaseURL,
		userID:     credentials["user_id"],
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig exposes the OAuth2 config for the callback server.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// UseToken installs a previously obtained OAuth2 token.
func (s *SpotifyService) UseToken(ctx context.Context, token *oauth2.Token) {
	s.token = token
	s.httpClient = s.config.Client(ctx, token)
}

// Authenticate performs OAuth2 authentication. Expects either an
// "access_token" or "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.UseToken(ctx, &oauth2.Token{AccessToken: accessToken})
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		s.UseToken(ctx, token)
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

// doRequest performs an authenticated HTTP request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchAlbum issues an album search for the literal query and accepts the
// first result as authoritative. No ranking or disambiguation is applied.
func (s *SpotifyService) SearchAlbum(ctx context.Context, query string) (*AlbumRef, error) {
	if query == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=album", url.QueryEscape(query))

	var response searchResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	if len(response.Albums.Items) == 0 {
		return nil, nil
	}

	first := response.Albums.Items[0]
	return &AlbumRef{ID: first.ID, Name: first.Name}, nil
}

// AlbumTracks fetches the first page of an album's track listing and
// returns the URIs of entries whose type is "track", in listing order.
func (s *SpotifyService) AlbumTracks(ctx context.Context, albumID string) (*TrackListing, error) {
	endpoint := fmt.Sprintf("/albums/%s/tracks?limit=%d", albumID, albumTrackLimit)

	var response albumTracksResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	listing := &TrackListing{
		Capped: response.Total > len(response.Items),
	}

	for _, item := range response.Items {
		if item.Type == "track" {
			listing.URIs = append(listing.URIs, item.URI)
		}
	}

	return listing, nil
}

// UserPlaylists lists the authenticated user's playlists. Only the
// provider's default first page is fetched, so callers checking for an
// existing playlist can miss entries beyond it; the same single-page
// posture as [SpotifyService.AlbumTracks], minus the capped flag since
// the response carries no usable total here.
func (s *SpotifyService) UserPlaylists(ctx context.Context) ([]Playlist, error) {
	var response userPlaylistsResponse
	if err := s.doRequest(ctx, http.MethodGet, "/me/playlists", nil, &response); err != nil {
		return nil, err
	}

	playlists := make([]Playlist, len(response.Items))
	for i, item := range response.Items {
		playlists[i] = Playlist{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Public:      item.Public,
		}
	}

	return playlists, nil
}

// CreatePlaylist creates an empty playlist owned by the configured user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, spec PlaylistSpec) (*PlaylistResult, error) {
	if s.userID == "" {
		return nil, fmt.Errorf("%w: missing user_id", shared.ErrMissingCredentials)
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(s.userID))
	body := createPlaylistRequest{
		Name:        spec.Name,
		Description: spec.Description,
		Public:      spec.Public,
	}

	var response createPlaylistResponse
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &response); err != nil {
		return nil, err
	}

	return &PlaylistResult{
		ID:  response.ID,
		URL: response.ExternalURLs.Spotify,
	}, nil
}

// AddTracks appends track URIs to a playlist, preserving order. Callers
// are responsible for batching; the endpoint accepts at most 100 URIs.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	return s.doRequest(ctx, http.MethodPost, endpoint, addTracksRequest{URIs: uris}, nil)
}
