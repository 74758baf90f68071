package terminal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creack/pty"
	"golang.org/x/term"
)

func TestMakeRawNotATerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Fatal("a regular file is not a terminal")
	}
	restore, err := MakeRaw(f)
	if err != nil {
		t.Fatalf("MakeRaw() failed: %v", err)
	}
	restore()
}

func TestMakeRawRestores(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if !IsTerminal(tty) {
		t.Fatal("pty slave should be a terminal")
	}
	restore, err := MakeRaw(tty)
	if err != nil {
		t.Fatalf("MakeRaw() failed: %v", err)
	}
	restore()

	if _, err := term.GetState(int(tty.Fd())); err != nil {
		t.Errorf("terminal unusable after restore: %v", err)
	}
}
