// Package upload copies a local file into the container of an instance,
// creating the destination directories on the way.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/luanzeba/runnable-cli/internal/api"
)

// FileCreator creates files and directories inside a container.
type FileCreator interface {
	CreateFile(ctx context.Context, instanceID, containerID string, file api.ContainerFile) error
}

// Outcome is the result of one directory creation attempt.
type Outcome int

const (
	Created Outcome = iota
	AlreadyExists
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already exists"
	default:
		return "failed"
	}
}

// DirAttempt records the creation of directory Name inside Path.
type DirAttempt struct {
	Path    string
	Name    string
	Outcome Outcome
	Err     error
}

// Result describes a finished upload.
type Result struct {
	Name        string
	Path        string
	Directories []DirAttempt
}

// Uploader uploads files through Files.
type Uploader struct {
	Files FileCreator
	// ReadFile defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// Destination works out where dest lives inside the container. Absolute
// destinations are rooted at "/", relative ones at the working directory
// ("/" when the container reports none).
func Destination(workingDir, dest string) (base, full string) {
	if strings.HasPrefix(dest, "/") {
		return "/", dest
	}
	if workingDir == "" {
		workingDir = "/"
	}
	return workingDir, path.Join(workingDir, dest)
}

// Upload copies localPath into the directory dest of inst's container.
// Directory creation failures are recorded but do not stop the upload; a
// failure to create the file itself is returned.
func (u *Uploader) Upload(ctx context.Context, inst *api.Instance, localPath, dest string) (*Result, error) {
	readFile := u.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	abs, err := filepath.Abs(localPath)
	if err != nil {
		return nil, err
	}
	content, err := readFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", localPath, err)
	}

	containerID := inst.ContainerID()
	if containerID == "" {
		return nil, errors.New("container is not running (no docker container)")
	}

	base, full := Destination(inst.WorkingDir(), dest)
	result := &Result{
		Name: filepath.Base(abs),
		Path: full,
	}
	result.Directories = u.CreateDirectories(ctx, inst.ID, containerID, base, dest)

	err = u.Files.CreateFile(ctx, inst.ID, containerID, api.ContainerFile{
		Name:    result.Name,
		Path:    full,
		IsDir:   false,
		Content: string(content),
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// CreateDirectories creates every segment of dest below base, in order. Each
// segment is attempted even when an earlier one failed.
func (u *Uploader) CreateDirectories(ctx context.Context, instanceID, containerID, base, dest string) []DirAttempt {
	var segments []string
	for _, s := range strings.Split(dest, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	attempts := make([]DirAttempt, 0, len(segments))
	for i, name := range segments {
		parent := path.Join(append([]string{base}, segments[:i]...)...)
		attempt := DirAttempt{Path: parent, Name: name}

		err := u.Files.CreateFile(ctx, instanceID, containerID, api.ContainerFile{
			Name:  name,
			Path:  parent,
			IsDir: true,
		})
		switch {
		case err == nil:
			attempt.Outcome = Created
		case errors.Is(err, api.ErrAlreadyExists):
			attempt.Outcome = AlreadyExists
		default:
			attempt.Outcome = Failed
			attempt.Err = err
		}
		log.Debug("create directory", "path", parent, "name", name, "outcome", attempt.Outcome)
		attempts = append(attempts, attempt)
	}
	return attempts
}
