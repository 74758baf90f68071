package stream

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/luanzeba/runnable-cli/internal/api"
)

const terminalType = "filibuster"

// Terminal opens an interactive terminal in inst's container. Input read from
// stdin is forwarded as it arrives and output is copied to stdout. It returns
// when the server ends the terminal, the session drops or ctx is cancelled.
func Terminal(ctx context.Context, sess *Session, inst *api.Instance, stdin io.Reader, stdout io.Writer, newID func() string) error {
	defer sess.Close()

	containerID := inst.ContainerID()
	if containerID == "" {
		return ErrNoContainer
	}

	terminalID := containerID + "-" + newID()
	ss := sess.Substream(terminalID, func(p []byte) {
		if _, err := stdout.Write(p); err != nil {
			log.Debug("failed to write terminal output", "err", err)
		}
	})

	if err := sess.Write(Envelope{
		ID:    1,
		Event: EventTerminalStream,
		Data: TerminalStreamData{
			DockHost:         inst.DockerHost(),
			Type:             terminalType,
			ContainerID:      containerID,
			TerminalStreamID: terminalID,
			EventStreamID:    terminalID + "-events",
		},
	}); err != nil {
		return err
	}

	pumpDone := make(chan error, 1)
	go func() {
		_, err := io.Copy(ss, stdin)
		if err == nil {
			err = ss.End()
		}
		pumpDone <- err
	}()

	for {
		select {
		case <-ss.Ended():
			return nil
		case <-sess.Done():
			select {
			case <-ss.Ended():
				return nil
			default:
			}
			return sess.Err()
		case <-ctx.Done():
			log.Debug("terminal interrupted")
			return nil
		case err := <-pumpDone:
			// Local input is finished; keep printing until the remote side ends.
			if err != nil && !errors.Is(err, ErrClosed) {
				log.Debug("stopped forwarding input", "err", err)
			}
			pumpDone = nil
		}
	}
}
