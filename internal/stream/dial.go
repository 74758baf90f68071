package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/luanzeba/runnable-cli/internal/api"
)

// Options configure Dial.
type Options struct {
	// Host is the platform API URL (http or https).
	Host string
	// Cookie is sent as the Cookie header of the handshake.
	Cookie string
	// Retries is the number of connection attempts; values below 1 mean 1.
	Retries    int
	RetryDelay time.Duration
	// ErrOut receives error payloads the server sends on the socket.
	ErrOut io.Writer
	Dialer *websocket.Dialer
}

// SocketURL derives the websocket endpoint from the platform URL.
func SocketURL(host string) (string, error) {
	u, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("invalid host %q: %w", host, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid host %q: unsupported scheme %q", host, u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/primus"
	u.RawQuery = ""
	return u.String(), nil
}

// Dial opens a session, retrying failed handshakes after a fixed delay.
func Dial(ctx context.Context, opts Options) (*Session, error) {
	target, err := SocketURL(opts.Host)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("User-Agent", api.UserAgent)
	if opts.Cookie != "" {
		header.Set("Cookie", opts.Cookie)
	}

	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	attempts := opts.Retries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, resp, err := dialer.DialContext(ctx, target, header)
		if err == nil {
			log.Debug("stream connected", "url", target, "attempt", attempt)
			return NewSession(conn, opts.ErrOut), nil
		}
		if resp != nil {
			err = fmt.Errorf("%w (%s)", err, resp.Status)
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		log.Debug("stream connection failed, retrying", "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to %s after %d attempts: %w", target, attempts, lastErr)
}
