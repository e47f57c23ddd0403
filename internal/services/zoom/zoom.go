// Package zoom is the client for the Zoom OAuth and REST surfaces this
// service consumes
package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	perr "meetscribe/internal/platform/errors"

	"golang.org/x/oauth2"
)

// Config carries the provider endpoints and app credentials.
// AuthURL/TokenURL/APIBaseURL are overridable so tests can point the client
// at an httptest server
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
}

// Defaults for the real provider
const (
	DefaultAuthURL    = "https://zoom.us/oauth/authorize"
	DefaultTokenURL   = "https://zoom.us/oauth/token"
	DefaultAPIBaseURL = "https://api.zoom.us/v2"
)

// Token is the result of a completed authorization-code exchange
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// RecordingFile is one entry of a meeting's recording listing
type RecordingFile struct {
	RecordingType string `json:"recording_type"`
	DownloadURL   string `json:"download_url"`
}

// Client talks to the provider with bearer-token auth
type Client struct {
	cfg  Config
	http *http.Client
}

// New constructs a Client; a nil httpClient falls back to a 30s-timeout default
func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// OAuthConfig builds the oauth2 config for the authorization-code flow.
// AuthStyleInHeader sends client id/secret as basic auth on the token
// endpoint, which is what the provider requires
func (c *Client) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		RedirectURL:  c.cfg.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.cfg.AuthURL,
			TokenURL:  c.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// AuthCodeURL returns the provider authorize URL carrying the state token
func (c *Client) AuthCodeURL(state string) string {
	return c.OAuthConfig().AuthCodeURL(state)
}

// Exchange swaps the authorization code for tokens
func (c *Client) Exchange(ctx context.Context, code string) (Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.OAuthConfig().Exchange(ctx, code)
	if err != nil {
		return Token{}, perr.Wrap(err, perr.ErrorCodeTokenExchange, "token exchange rejected")
	}
	return Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}, nil
}

// AccountID resolves the account identifier of the token's principal
func (c *Client) AccountID(ctx context.Context, accessToken string) (string, error) {
	var out struct {
		AccountID string `json:"account_id"`
	}
	if err := c.getJSON(ctx, accessToken, c.cfg.APIBaseURL+"/users/me", &out); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeWebhookRegistration, "resolve provider account")
	}
	if out.AccountID == "" {
		return "", perr.Newf(perr.ErrorCodeWebhookRegistration, "provider returned empty account id")
	}
	return out.AccountID, nil
}

// CreateWebhook subscribes endpointURL to recording.completed events for accountID
func (c *Client) CreateWebhook(ctx context.Context, accessToken, endpointURL, accountID string) (string, error) {
	body, _ := json.Marshal(map[string]any{
		"url":        endpointURL,
		"events":     []string{"recording.completed"},
		"account_id": accountID,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBaseURL+"/webhooks", bytes.NewReader(body))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeWebhookRegistration, "build webhook request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeWebhookRegistration, "create webhook")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", perr.Newf(perr.ErrorCodeWebhookRegistration, "create webhook: provider returned %d", resp.StatusCode)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeWebhookRegistration, "decode webhook response")
	}
	return out.ID, nil
}

// ListRecordings fetches the recording-file listing for a meeting
func (c *Client) ListRecordings(ctx context.Context, accessToken, meetingID string) ([]RecordingFile, error) {
	var out struct {
		RecordingFiles []RecordingFile `json:"recording_files"`
	}
	url := fmt.Sprintf("%s/meetings/%s/recordings", c.cfg.APIBaseURL, meetingID)
	if err := c.getJSON(ctx, accessToken, url, &out); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDownload, "list recordings")
	}
	return out.RecordingFiles, nil
}

// Download fetches a recording file body with bearer authorization.
// Single attempt; any non-2xx surfaces as a download error
func (c *Client) Download(ctx context.Context, accessToken, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDownload, "build download request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDownload, "download recording")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, perr.Newf(perr.ErrorCodeDownload, "download recording: provider returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDownload, "read recording body")
	}
	return body, nil
}

// getJSON does an authorized GET and decodes the 2xx body into out
func (c *Client) getJSON(ctx context.Context, accessToken, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("provider returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
