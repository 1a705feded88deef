package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/kendall-kelly/repair-ticket-api/config"
)

// LineToken is the token response from LINE Login
type LineToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	Scope        string `json:"scope"`
}

// LineProfile is the profile returned by the LINE /v2/profile endpoint
type LineProfile struct {
	UserID        string `json:"userId"` // LINE user id
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}

// LineOAuth is the LINE Login collaborator used by AuthService
type LineOAuth interface {
	GenerateAuthURL(state string) string
	ExchangeCodeForToken(ctx context.Context, code string) (*LineToken, error)
	GetUserProfile(ctx context.Context, accessToken string) (*LineProfile, error)
}

// LineOAuthClient talks to LINE Login over HTTP
type LineOAuthClient struct {
	channelID     string
	channelSecret string
	redirectURI   string
	authBaseURL   string
	apiBaseURL    string
	httpClient    *http.Client
}

// NewLineOAuthClient creates a LINE Login client from configuration
func NewLineOAuthClient(cfg *config.Config) *LineOAuthClient {
	return &LineOAuthClient{
		channelID:     cfg.LineChannelID,
		channelSecret: cfg.LineChannelSecret,
		redirectURI:   cfg.LineRedirectURI,
		authBaseURL:   strings.TrimRight(cfg.LineAuthBaseURL, "/"),
		apiBaseURL:    strings.TrimRight(cfg.LineAPIBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GenerateAuthURL builds the authorize URL the browser is redirected to
func (c *LineOAuthClient) GenerateAuthURL(state string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", c.channelID)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("state", state)
	params.Set("scope", "profile openid")
	return c.authBaseURL + "/oauth2/v2.1/authorize?" + params.Encode()
}

// ExchangeCodeForToken trades an authorization code for an access token
func (c *LineOAuthClient) ExchangeCodeForToken(ctx context.Context, code string) (*LineToken, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)
	form.Set("client_id", c.channelID)
	form.Set("client_secret", c.channelSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+"/oauth2/v2.1/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token LineToken
	if err := c.do(req, "token", &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access token")
	}
	return &token, nil
}

// GetUserProfile fetches the profile for an access token
func (c *LineOAuthClient) GetUserProfile(ctx context.Context, accessToken string) (*LineProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/v2/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var profile LineProfile
	if err := c.do(req, "profile", &profile); err != nil {
		return nil, err
	}
	if profile.UserID == "" {
		return nil, fmt.Errorf("profile endpoint returned no user id")
	}
	return &profile, nil
}

func (c *LineOAuthClient) do(req *http.Request, endpoint string, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s endpoint: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s endpoint returned status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
