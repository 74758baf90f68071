package terminal

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInputFromRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.sh")
	if err := os.WriteFile(path, []byte("ls -la\nexit\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r, cancel := Input(f)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if string(got) != "ls -la\nexit\n" {
		t.Errorf("read %q", got)
	}
	cancel()
}

func TestInputFromPipeCancels(t *testing.T) {
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer pr.Close()
	defer pw.Close()

	r, cancel := Input(pr)
	if _, err := pw.Write([]byte("a")); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil || buf[0] != 'a' {
		t.Fatalf("Read() = %q, %v", buf, err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.Read(buf)
		done <- err
	}()
	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Error("Read() should fail once cancelled")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Read() still blocked after cancel")
	}
}
