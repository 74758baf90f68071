package stream

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/docker/docker/pkg/stdcopy"
)

// frameDecoder turns hex-encoded chunks of a multiplexed docker log stream
// back into raw output. Chunks may split both hex pairs and docker frames.
type frameDecoder struct {
	pw      *io.PipeWriter
	pending []byte
	done    chan error
}

// newFrameDecoder writes decoded stdout and stderr frames to out.
func newFrameDecoder(out io.Writer) *frameDecoder {
	pr, pw := io.Pipe()
	d := &frameDecoder{pw: pw, done: make(chan error, 1)}
	go func() {
		_, err := stdcopy.StdCopy(out, out, pr)
		if err != nil {
			pr.CloseWithError(err)
		}
		d.done <- err
	}()
	return d
}

// Write consumes hex text. An odd trailing digit is held for the next chunk.
func (d *frameDecoder) Write(hexText []byte) (int, error) {
	buf := append(d.pending, hexText...)
	even := len(buf) &^ 1

	raw := make([]byte, hex.DecodedLen(even))
	if _, err := hex.Decode(raw, buf[:even]); err != nil {
		return 0, fmt.Errorf("invalid log chunk: %w", err)
	}
	d.pending = append([]byte(nil), buf[even:]...)
	if len(raw) == 0 {
		return len(hexText), nil
	}

	if _, err := d.pw.Write(raw); err != nil {
		return 0, err
	}
	return len(hexText), nil
}

// Close flushes the decoder and reports any framing error.
func (d *frameDecoder) Close() error {
	d.pw.Close()
	return <-d.done
}
