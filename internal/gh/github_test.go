package gh

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newGithub(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	return c
}

func noOTP() (string, error) { return "", errors.New("otp should not be requested") }

func TestAuthorize(t *testing.T) {
	c := newGithub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/authorizations" || r.Method != http.MethodPost {
			t.Errorf("%s %s, want POST /authorizations", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "bkendall" || pass != "hunter2" {
			t.Errorf("basic auth = %q/%q", user, pass)
		}
		var body authorizationRequest
		json.NewDecoder(r.Body).Decode(&body)
		if strings.Join(body.Scopes, ",") != "repo,user:email" {
			t.Errorf("scopes = %v", body.Scopes)
		}
		if !strings.HasPrefix(body.Note, "Runnable CLI for ") {
			t.Errorf("note = %q", body.Note)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"deadbeef"}`))
	})

	token, err := c.Authorize(context.Background(), Credentials{"bkendall", "hunter2"}, noOTP)
	if err != nil {
		t.Fatalf("Authorize() failed: %v", err)
	}
	if token != "deadbeef" {
		t.Errorf("token = %q, want deadbeef", token)
	}
}

func TestAuthorizeTwoFactor(t *testing.T) {
	calls := 0
	c := newGithub(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("X-GitHub-OTP") == "" {
			w.Header().Set("X-GitHub-OTP", "required; sms")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Must specify two-factor authentication OTP code."}`))
			return
		}
		if got := r.Header.Get("X-GitHub-OTP"); got != "123456" {
			t.Errorf("otp header = %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"withotp"}`))
	})

	prompted := 0
	token, err := c.Authorize(context.Background(), Credentials{"u", "p"}, func() (string, error) {
		prompted++
		return "123456", nil
	})
	if err != nil {
		t.Fatalf("Authorize() failed: %v", err)
	}
	if token != "withotp" {
		t.Errorf("token = %q", token)
	}
	if calls != 2 || prompted != 1 {
		t.Errorf("calls = %d, prompted = %d, want 2 and 1", calls, prompted)
	}
}

func TestAuthorizeErrors(t *testing.T) {
	t.Run("bad credentials", func(t *testing.T) {
		c := newGithub(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Bad credentials"}`))
		})
		_, err := c.Authorize(context.Background(), Credentials{"u", "p"}, noOTP)
		if err == nil || err.Error() != "(from GitHub) Bad credentials" {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("no token", func(t *testing.T) {
		c := newGithub(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		})
		_, err := c.Authorize(context.Background(), Credentials{"u", "p"}, noOTP)
		if !errors.Is(err, ErrNoToken) {
			t.Errorf("err = %v, want ErrNoToken", err)
		}
	})
}

func TestLatestRelease(t *testing.T) {
	c := newGithub(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/Runnable/cli/releases/latest":
			w.Write([]byte(`{"tag_name":"v2.1.0"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	tag, err := c.LatestRelease(context.Background(), "Runnable/cli")
	if err != nil {
		t.Fatalf("LatestRelease() failed: %v", err)
	}
	if tag != "v2.1.0" {
		t.Errorf("tag = %q", tag)
	}

	if _, err := c.LatestRelease(context.Background(), "Runnable/none"); !errors.Is(err, ErrNoReleases) {
		t.Errorf("missing repo: err = %v, want ErrNoReleases", err)
	}
}

func TestTokenHost(t *testing.T) {
	tests := map[string]string{
		"https://api.github.com":             "github.com",
		"https://github.example.com/api/v3": "github.example.com",
		"not a url":                          "",
	}
	for in, want := range tests {
		if got := tokenHost(in); got != want {
			t.Errorf("tokenHost(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWrapError(t *testing.T) {
	base := errors.New("exit status 1")

	err := wrapError([]string{"auth", "token"}, base, "  no oauth token found for github.com\n")
	if !errors.Is(err, base) {
		t.Errorf("wrapError() should wrap the exec error")
	}
	if want := "gh auth failed: exit status 1\nno oauth token found for github.com"; err.Error() != want {
		t.Errorf("wrapError() = %q, want %q", err.Error(), want)
	}

	if got := wrapError([]string{"auth"}, base, " ").Error(); got != "gh auth failed: exit status 1" {
		t.Errorf("wrapError() without stderr = %q", got)
	}
}
