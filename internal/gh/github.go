// Package gh talks to GitHub: personal token exchange through the REST API,
// release lookups, and the gh CLI as a token source.
package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const userAgent = "Runnable CLI"

var (
	ErrNoToken    = errors.New("No github token received")
	ErrNoReleases = errors.New("no releases published")
)

// Credentials are a GitHub username and password.
type Credentials struct {
	Username string
	Password string
}

// Client is a minimal GitHub REST client.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient returns a client for the GitHub API at apiURL
// (https://api.github.com or an enterprise /api/v3 root).
func NewClient(apiURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(apiURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub URL %q: %w", apiURL, err)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type authorizationRequest struct {
	Scopes []string `json:"scopes"`
	Note   string   `json:"note"`
}

type authorizationResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Authorize creates a personal access token for creds. When GitHub asks for
// a two-factor code, otp is called once and the request is retried with it.
func (c *Client) Authorize(ctx context.Context, creds Credentials, otp func() (string, error)) (string, error) {
	status, header, body, err := c.createAuthorization(ctx, creds, "")
	if err != nil {
		return "", err
	}

	if strings.Contains(header.Get("X-GitHub-OTP"), "required") {
		code, err := otp()
		if err != nil {
			return "", err
		}
		status, _, body, err = c.createAuthorization(ctx, creds, code)
		if err != nil {
			return "", err
		}
	}

	if status != http.StatusCreated {
		return "", fmt.Errorf("(from GitHub) %s", body.Message)
	}
	if body.Token == "" {
		return "", ErrNoToken
	}
	return body.Token, nil
}

func (c *Client) createAuthorization(ctx context.Context, creds Credentials, otp string) (int, http.Header, *authorizationResponse, error) {
	hostname, _ := os.Hostname()
	payload, err := json.Marshal(authorizationRequest{
		Scopes: []string{"repo", "user:email"},
		Note:   "Runnable CLI for " + hostname,
	})
	if err != nil {
		return 0, nil, nil, err
	}

	u := c.baseURL.JoinPath("/authorizations")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return 0, nil, nil, err
	}
	req.SetBasicAuth(creds.Username, creds.Password)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if otp != "" {
		req.Header.Set("X-GitHub-OTP", otp)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to reach GitHub: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	log.Debug("github authorization", "status", resp.StatusCode, "otp", otp != "")

	var body authorizationResponse
	if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			body.Message = strings.TrimSpace(string(data))
		}
	}
	return resp.StatusCode, resp.Header, &body, nil
}

// LatestRelease returns the tag of the latest published release of repo
// ("owner/name").
func (c *Client) LatestRelease(ctx context.Context, repo string) (string, error) {
	u := c.baseURL.JoinPath("repos", repo, "releases", "latest")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach GitHub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNoReleases
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub returned %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("failed to parse release: %w", err)
	}
	if release.TagName == "" {
		return "", ErrNoReleases
	}
	return release.TagName, nil
}
