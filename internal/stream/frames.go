package stream

import (
	"encoding/json"
	"errors"
	"strings"
)

// Events that open a stream on the platform.
const (
	EventLogStream      = "log-stream"
	EventBuildStream    = "build-stream"
	EventTerminalStream = "terminal-stream"
)

const (
	pingPrefix = "primus::ping::"
	pongPrefix = "primus::pong::"

	argData  = "data"
	argEnd   = "end"
	argError = "error"
)

// Envelope asks the platform to start a stream.
type Envelope struct {
	ID    int    `json:"id"`
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// LogStreamData opens the container log stream.
type LogStreamData struct {
	SubstreamID string `json:"substreamId"`
	DockHost    string `json:"dockHost"`
	ContainerID string `json:"containerId"`
}

// BuildStreamData opens the build log stream of a context version.
type BuildStreamData struct {
	StreamID string `json:"streamId"`
	ID       string `json:"id"`
}

// TerminalStreamData opens an interactive terminal in a container.
type TerminalStreamData struct {
	DockHost         string `json:"dockHost"`
	Type             string `json:"type"`
	ContainerID      string `json:"containerId"`
	TerminalStreamID string `json:"terminalStreamId"`
	EventStreamID    string `json:"eventStreamId"`
}

// packet is a frame on a substream: args is ["data", payload] or ["end"].
type packet struct {
	Substream string            `json:"substream"`
	Args      []json.RawMessage `json:"args"`
}

// frame is any object frame read off the socket.
type frame struct {
	Substream *string           `json:"substream"`
	Args      []json.RawMessage `json:"args"`
	Error     json.RawMessage   `json:"error"`
}

func encodePacket(id string, args ...any) ([]byte, error) {
	raw := make([]json.RawMessage, len(args))
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		raw[i] = b
	}
	return json.Marshal(packet{Substream: id, Args: raw})
}

// payloadBytes unwraps a substream payload. JSON strings become their text
// and serialized node Buffers ({"type":"Buffer","data":[...]}) their bytes;
// any other value is passed through as JSON.
func payloadBytes(raw json.RawMessage) []byte {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []byte(s)
	}

	var buf struct {
		Type string `json:"type"`
		Data []int  `json:"data"`
	}
	if err := json.Unmarshal(raw, &buf); err == nil && buf.Type == "Buffer" {
		out := make([]byte, len(buf.Data))
		for i, b := range buf.Data {
			out[i] = byte(b)
		}
		return out
	}
	return []byte(raw)
}

// errorText renders the error field of a frame for printing.
func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "false"
}

func argName(raw json.RawMessage) (string, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", errors.New("substream event name is not a string")
	}
	return name, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
