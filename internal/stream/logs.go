package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/luanzeba/runnable-cli/internal/api"
)

var ErrNoContainer = errors.New("container is not running (no docker container)")

// ContainerLogs streams the stdout and stderr of inst's container to stdout
// until the server ends the stream.
func ContainerLogs(ctx context.Context, sess *Session, inst *api.Instance, stdout io.Writer) error {
	defer sess.Close()

	containerID := inst.ContainerID()
	if containerID == "" {
		return ErrNoContainer
	}

	dec := newFrameDecoder(stdout)
	ss := sess.Substream(containerID, func(p []byte) {
		if _, err := dec.Write(p); err != nil {
			log.Warn("dropping log chunk", "err", err)
		}
	})

	err := sess.Write(Envelope{
		ID:    1,
		Event: EventLogStream,
		Data: LogStreamData{
			SubstreamID: containerID,
			DockHost:    inst.DockerHost(),
			ContainerID: containerID,
		},
	})
	if err == nil {
		err = wait(ctx, sess, ss)
	}

	if decErr := dec.Close(); decErr != nil && err == nil {
		err = fmt.Errorf("failed to decode logs: %w", decErr)
	}
	return err
}

// BuildLogEntry is one line of build output. Content is only a string for
// printable entries; other types may carry any JSON value.
type BuildLogEntry struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

func (e BuildLogEntry) printable() bool {
	return e.Type == "log" || e.Type == "docker"
}

// BuildLogs streams the build output of inst's context version to stdout.
// newID supplies the unique suffix of the stream id.
func BuildLogs(ctx context.Context, sess *Session, inst *api.Instance, stdout io.Writer, newID func() string) error {
	defer sess.Close()

	cvID := inst.ContextVersion.ID
	if cvID == "" {
		return errors.New("container has no build")
	}

	streamID := cvID + "-" + newID()
	ss := sess.Substream(streamID, func(p []byte) {
		if err := writeBuildPayload(stdout, p); err != nil {
			log.Debug("dropping build payload", "err", err)
		}
	})

	if err := sess.Write(Envelope{
		ID:    1,
		Event: EventBuildStream,
		Data:  BuildStreamData{StreamID: streamID, ID: cvID},
	}); err != nil {
		return err
	}
	return wait(ctx, sess, ss)
}

// writeBuildPayload prints the printable entries of a payload holding either
// one entry or a list of them. Malformed entries are skipped without dropping
// the rest of the payload.
func writeBuildPayload(w io.Writer, payload []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		raw = []json.RawMessage{payload}
	}

	for _, r := range raw {
		var e BuildLogEntry
		if err := json.Unmarshal(r, &e); err != nil {
			log.Debug("skipping build entry", "err", err)
			continue
		}
		if !e.printable() {
			continue
		}
		var text string
		if err := json.Unmarshal(e.Content, &text); err != nil {
			log.Debug("skipping build entry", "type", e.Type, "err", err)
			continue
		}
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}
	return nil
}
