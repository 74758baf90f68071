package terminal

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/cancelreader"
)

// Input wraps f so a blocked Read can be abandoned with cancel, leaving
// later input for the next reader. Files that cannot be polled, such as a
// regular file redirected to stdin, are returned as is with a no-op cancel.
func Input(f *os.File) (r io.Reader, cancel func()) {
	cr, err := cancelreader.NewReader(f)
	if err != nil {
		log.Debug("Input is not cancelable", "name", f.Name(), "err", err)
		return f, func() {}
	}
	return cr, func() {
		cr.Cancel()
		_ = cr.Close()
	}
}
