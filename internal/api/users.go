package api

import (
	"context"
	"fmt"
	"net/http"
)

// FetchMe returns the logged in user. It fails with ErrUnauthorized when the
// cookie session is missing or expired.
func (c *Client) FetchMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GithubLogin exchanges a GitHub access token for a platform session. The
// session cookie lands in the client's jar.
func (c *Client) GithubLogin(ctx context.Context, accessToken string) error {
	body := map[string]string{"accessToken": accessToken}
	if err := c.do(ctx, http.MethodPost, "/auth/github/token", nil, body, nil); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	return nil
}

// FetchGithubOrgs lists the GitHub organizations of the logged in user.
func (c *Client) FetchGithubOrgs(ctx context.Context) ([]GithubOrg, error) {
	var orgs []GithubOrg
	if err := c.do(ctx, http.MethodGet, "/github/user/orgs", nil, nil, &orgs); err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}
	return orgs, nil
}
