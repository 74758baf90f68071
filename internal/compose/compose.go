// Package compose turns an instance and its dependency tree into a Docker
// Compose document.
package compose

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/luanzeba/runnable-cli/internal/api"
)

const (
	// Version is the compose file format emitted.
	Version = "2"

	placeholderImage   = "alpine"
	placeholderCommand = "sleep 15"
)

// InstanceSource fetches instances and their dependencies.
type InstanceSource interface {
	FetchInstance(ctx context.Context, id string) (*api.Instance, error)
	FetchDependencies(ctx context.Context, id string) ([]api.Instance, error)
}

// Service is one compose service.
type Service struct {
	Image     string   `json:"image" yaml:"image"`
	Command   string   `json:"command" yaml:"command"`
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// Document is a compose file.
type Document struct {
	Version  string              `json:"version" yaml:"version"`
	Services map[string]*Service `json:"services" yaml:"services"`
}

// Generate walks the dependency tree of root depth-first. Each instance
// becomes a service named by its lower-case name; a dependency already in the
// tree when its parent is visited is not listed in the parent's depends_on.
func Generate(ctx context.Context, src InstanceSource, root *api.Instance) (*Document, error) {
	doc := &Document{Version: Version, Services: map[string]*Service{}}
	if err := visit(ctx, src, doc, root.ID, root.LowerName); err != nil {
		return nil, err
	}
	return doc, nil
}

func visit(ctx context.Context, src InstanceSource, doc *Document, id, lowerName string) error {
	log.Debug("Looking at instance", "name", lowerName)
	if _, seen := doc.Services[lowerName]; seen {
		log.Debug("Instance already in tree", "name", lowerName)
		return nil
	}

	inst, err := src.FetchInstance(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch instance %s: %w", lowerName, err)
	}
	svc := &Service{Image: placeholderImage, Command: placeholderCommand}
	doc.Services[inst.LowerName] = svc

	deps, err := src.FetchDependencies(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch dependencies of %s: %w", inst.LowerName, err)
	}
	if len(deps) == 0 {
		return nil
	}

	svc.DependsOn = []string{}
	for _, d := range deps {
		if _, seen := doc.Services[d.LowerName]; !seen {
			svc.DependsOn = append(svc.DependsOn, d.LowerName)
		}
	}
	for _, d := range deps {
		if err := visit(ctx, src, doc, d.ID, d.LowerName); err != nil {
			return err
		}
	}
	return nil
}

// YAML renders the document as YAML.
func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// JSON renders the document as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
