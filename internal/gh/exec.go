package gh

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

// ErrNoGhToken is returned when gh is installed but not logged in.
var ErrNoGhToken = errors.New("gh returned no token (run 'gh auth login' first)")

// run executes gh and returns its stdout. On failure the error carries
// whatever gh printed on stderr.
func run(args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command("gh", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, wrapError(args, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// AuthToken returns the token gh is logged in with for the GitHub instance
// behind apiURL. api.github.com maps to github.com; enterprise API URLs map
// to their own hostname.
func AuthToken(apiURL string) (string, error) {
	args := []string{"auth", "token"}
	if host := tokenHost(apiURL); host != "" && host != "github.com" {
		args = append(args, "--hostname", host)
	}

	out, err := run(args...)
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", ErrNoGhToken
	}
	return token, nil
}

func tokenHost(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "api.")
}

// wrapError creates a formatted error that includes stderr content if available.
func wrapError(args []string, err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		return fmt.Errorf("gh %s failed: %w\n%s", args[0], err, stderr)
	}
	return fmt.Errorf("gh %s failed: %w", args[0], err)
}
