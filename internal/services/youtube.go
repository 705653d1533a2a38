// YouTube Data API v3 implementation of [UploadSource]
//
// Response shapes follow https://developers.google.com/youtube/v3/docs/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/tndlist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
	youtubeBaseURL = "https://www.googleapis.com/youtube/v3"

	// uploadPageSize is the provider maximum for playlistItems.list.
	uploadPageSize = 50

	// youtubeRequestsPerSecond keeps full-history pagination under quota.
	youtubeRequestsPerSecond = 8
)

type channelListResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"snippet"`
		ContentDetails struct {
			VideoPublishedAt string `json:"videoPublishedAt"`
		} `json:"contentDetails"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// YouTubeService implements [UploadSource] against the YouTube Data API.
// Uses [oauth2] for authentication (readonly scope).
type YouTubeService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewYouTubeService creates a new YouTube service with the given OAuth2 credentials.
func NewYouTubeService(credentials map[string]string) (*YouTubeService, error) {
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
		Scopes:       []string{"https://www.googleapis.com/auth/youtube.readonly"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: googleTokenURL,
		},
	}

	return &YouTubeService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(youtubeRequestsPerSecond), 1),
		baseURL:    youtubeBaseURL,
	}, nil
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (y *YouTubeService) GetAuthURL(state string) string {
	return y.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig exposes the OAuth2 config for the callback server.
func (y *YouTubeService) OAuthConfig() *oauth2.Config {
	return y.config
}

// UseToken installs a previously obtained OAuth2 token.
func (y *YouTubeService) UseToken(ctx context.Context, token *oauth2.Token) {
	y.token = token
	y.httpClient = y.config.Client(ctx, token)
}

// Authenticate performs OAuth2 authentication. Expects either an
// "access_token" or "auth_code" in credentials.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		y.UseToken(ctx, &oauth2.Token{AccessToken: accessToken})
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := y.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		y.UseToken(ctx, token)
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

// doRequest performs an authenticated GET against the YouTube Data API.
func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, result any) error {
	if y.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+y.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: youtube API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ResolveUploadsID resolves a channel handle to its uploads playlist ID.
func (y *YouTubeService) ResolveUploadsID(ctx context.Context, handle string) (string, error) {
	endpoint := fmt.Sprintf("/channels?part=contentDetails&forUsername=%s", url.QueryEscape(handle))

	var response channelListResponse
	if err := y.doRequest(ctx, endpoint, &response); err != nil {
		return "", err
	}

	if len(response.Items) == 0 {
		return "", fmt.Errorf("%w: %s", shared.ErrChannelNotFound, handle)
	}

	uploadsID := response.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploadsID == "" {
		return "", fmt.Errorf("%w: channel %s has no uploads playlist", shared.ErrChannelNotFound, handle)
	}

	return uploadsID, nil
}

// ListUploads fetches one page of the uploads playlist.
//
// Items arrive in the provider's native order, reverse-chronological by
// convention only; callers must not rely on it.
func (y *YouTubeService) ListUploads(ctx context.Context, uploadsID, pageToken string) (*UploadPage, error) {
	endpoint := fmt.Sprintf("/playlistItems?part=snippet,contentDetails&playlistId=%s&maxResults=%d",
		url.QueryEscape(uploadsID), uploadPageSize)
	if pageToken != "" {
		endpoint += "&pageToken=" + url.QueryEscape(pageToken)
	}

	var response playlistItemsResponse
	if err := y.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	page := &UploadPage{
		Items:         make([]UploadItem, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}

	for _, item := range response.Items {
		publishedAt, err := time.Parse(time.RFC3339, item.ContentDetails.VideoPublishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse publish time %q: %w",
				item.ContentDetails.VideoPublishedAt, err)
		}

		page.Items = append(page.Items, UploadItem{
			ID:          item.ID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			PublishedAt: publishedAt,
		})
	}

	return page, nil
}
