// Package isolation lists, creates and destroys auto-isolation configs of
// master pod instances.
package isolation

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/luanzeba/runnable-cli/internal/api"
)

// Client is the subset of the platform API isolation needs.
type Client interface {
	FetchInstances(ctx context.Context, q api.InstanceQuery) ([]api.Instance, error)
	FetchAutoIsolationConfigs(ctx context.Context, instanceID string) ([]api.AutoIsolationConfig, error)
	CreateAutoIsolationConfig(ctx context.Context, cfg api.AutoIsolationConfig) (*api.AutoIsolationConfig, error)
	DestroyAutoIsolationConfig(ctx context.Context, id string) error
}

// Asker reads answers from the user.
type Asker interface {
	Ask(label string) (string, error)
	AskDefault(label, def string) (string, error)
}

// Manager runs isolation commands for one organization.
type Manager struct {
	Client Client
	Org    string
	Out    io.Writer
}

func (m *Manager) masterPods(ctx context.Context, name string) ([]api.Instance, error) {
	masterPod := true
	return m.Client.FetchInstances(ctx, api.InstanceQuery{
		GithubUsername: strings.ToLower(m.Org),
		Name:           name,
		MasterPod:      &masterPod,
	})
}

// List prints the isolation state of every master pod, or only of name when
// it is set.
func (m *Manager) List(ctx context.Context, name string) error {
	instances, err := m.masterPods(ctx, name)
	if err != nil {
		return err
	}
	for _, inst := range instances {
		configs, err := m.Client.FetchAutoIsolationConfigs(ctx, inst.ID)
		if err != nil {
			return fmt.Errorf("failed to fetch isolation configs for %s: %w", inst.LowerName, err)
		}
		state := "not isolated"
		if len(configs) > 0 {
			state = fmt.Sprintf("is isolated with %d dependencies", len(configs[0].RequestedDependencies))
		}
		fmt.Fprintf(m.Out, "%s %s.\n", inst.LowerName, state)
	}
	return nil
}

// Enable asks which master pods target should get isolated copies of and
// creates the config. Repository instances are pinned by branch, services by
// instance id.
func (m *Manager) Enable(ctx context.Context, target *api.Instance, ask Asker) (*api.AutoIsolationConfig, error) {
	instances, err := m.masterPods(ctx, "")
	if err != nil {
		return nil, err
	}

	var candidates []api.Instance
	for _, inst := range instances {
		if inst.LowerName != target.LowerName {
			candidates = append(candidates, inst)
		}
	}
	log.Debug("Isolation candidates", "count", len(candidates))

	var list strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&list, "  %d) %s\n", i+1, c.LowerName)
	}
	question := "Select via NUMBER which repository you would like to include:\n\n" + list.String() + "\n(`q` to stop) >"

	deps := []api.RequestedDependency{}
	for {
		answer, err := ask.Ask(question)
		if err != nil {
			return nil, err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" || strings.EqualFold(answer, "q") {
			break
		}

		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(candidates) {
			fmt.Fprintln(m.Out, "Could not parse your selection. Try again?")
			continue
		}
		chosen := candidates[n-1]

		cv := chosen.CodeVersion()
		if cv == nil || cv.LowerBranch == "" {
			deps = append(deps, api.RequestedDependency{Instance: chosen.ID})
			fmt.Fprintf(m.Out, "%s added.\n", chosen.LowerName)
			continue
		}

		branch, err := ask.AskDefault("What branch would you like isolated:", "master")
		if err != nil {
			return nil, err
		}
		dep := api.RequestedDependency{
			Org:    strings.ToLower(m.Org),
			Repo:   strings.ToLower(lastSegment(cv.LowerRepo)),
			Branch: strings.ToLower(branch),
		}
		deps = append(deps, dep)
		fmt.Fprintf(m.Out, "%s/%s@%s added.\n", dep.Org, dep.Repo, dep.Branch)
	}

	log.Debug("Creating isolation config", "instance", target.ID, "dependencies", len(deps))
	cfg, err := m.Client.CreateAutoIsolationConfig(ctx, api.AutoIsolationConfig{
		Instance:              target.ID,
		RequestedDependencies: deps,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create isolation config: %w", err)
	}
	fmt.Fprintln(m.Out, "Configuration created.")
	return cfg, nil
}

// Disable destroys the isolation config of target, if there is one.
func (m *Manager) Disable(ctx context.Context, target *api.Instance, repository string) error {
	configs, err := m.Client.FetchAutoIsolationConfigs(ctx, target.ID)
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		fmt.Fprintf(m.Out, "No configurations exist for %s.\n", repository)
		return nil
	}
	if err := m.Client.DestroyAutoIsolationConfig(ctx, configs[0].ID); err != nil {
		return fmt.Errorf("failed to destroy isolation config: %w", err)
	}
	fmt.Fprintln(m.Out, "Configuration destroyed.")
	return nil
}

func lastSegment(s string) string {
	return s[strings.LastIndex(s, "/")+1:]
}
