package api

import (
	"encoding/json"

	"github.com/docker/docker/api/types/container"
)

// Owner is the GitHub account owning an instance.
type Owner struct {
	Github   int    `json:"github"`
	Username string `json:"username"`
}

// AppCodeVersion ties an instance build to a repository and branch.
type AppCodeVersion struct {
	Repo          string  `json:"repo"`
	LowerRepo     string  `json:"lowerRepo"`
	Branch        string  `json:"branch"`
	LowerBranch   string  `json:"lowerBranch"`
	DefaultBranch *string `json:"defaultBranch,omitempty"`
	Commit        string  `json:"commit"`
}

// ContextVersion is the build an instance runs.
type ContextVersion struct {
	ID              string           `json:"_id"`
	AppCodeVersions []AppCodeVersion `json:"appCodeVersions"`
}

// Container is the running docker container of an instance.
type Container struct {
	DockerContainer string                     `json:"dockerContainer"`
	DockerHost      string                     `json:"dockerHost"`
	Inspect         *container.InspectResponse `json:"inspect,omitempty"`
}

// Instance is a deployed container (repository branch or service).
type Instance struct {
	ID             string         `json:"_id"`
	ShortHash      string         `json:"shortHash"`
	Name           string         `json:"name"`
	LowerName      string         `json:"lowerName"`
	Owner          Owner          `json:"owner"`
	MasterPod      bool           `json:"masterPod"`
	ContextVersion ContextVersion `json:"contextVersion"`
	Container      *Container     `json:"container,omitempty"`
}

// CodeVersion returns the first app code version, or nil for services that
// are not built from a repository.
func (i *Instance) CodeVersion() *AppCodeVersion {
	if len(i.ContextVersion.AppCodeVersions) == 0 {
		return nil
	}
	return &i.ContextVersion.AppCodeVersions[0]
}

// ContainerID returns the docker container id, or "" when not deployed.
func (i *Instance) ContainerID() string {
	if i.Container == nil {
		return ""
	}
	return i.Container.DockerContainer
}

// DockerHost returns the docker host of the container, or "".
func (i *Instance) DockerHost() string {
	if i.Container == nil {
		return ""
	}
	return i.Container.DockerHost
}

// WorkingDir returns the container's configured working directory, or "".
func (i *Instance) WorkingDir() string {
	if i.Container == nil || i.Container.Inspect == nil || i.Container.Inspect.Config == nil {
		return ""
	}
	return i.Container.Inspect.Config.WorkingDir
}

// Status returns the docker state of the container ("running", "exited"...),
// or "" when it is unknown.
func (i *Instance) Status() string {
	if i.Container == nil || i.Container.Inspect == nil ||
		i.Container.Inspect.ContainerJSONBase == nil || i.Container.Inspect.State == nil {
		return ""
	}
	return string(i.Container.Inspect.State.Status)
}

// GithubOrg is an organization the logged in user belongs to.
type GithubOrg struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
}

// User is the logged in platform user.
type User struct {
	ID       string `json:"_id"`
	Accounts struct {
		Github struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		} `json:"github"`
	} `json:"accounts"`
}

// ContainerFile is a file or directory created inside a container. Files
// always carry content, even when empty; directories never do.
type ContainerFile struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	IsDir   bool   `json:"isDir"`
	Content string `json:"content"`
}

func (f ContainerFile) MarshalJSON() ([]byte, error) {
	type file ContainerFile
	if !f.IsDir {
		return json.Marshal(file(f))
	}
	return json.Marshal(struct {
		file
		Content string `json:"content,omitempty"`
	}{file: file(f)})
}

// RequestedDependency is a dependency pinned by an isolation config. Either
// Instance or Repo/Branch is set.
type RequestedDependency struct {
	Instance string `json:"instance,omitempty"`
	Org      string `json:"org,omitempty"`
	Repo     string `json:"repo,omitempty"`
	Branch   string `json:"branch,omitempty"`
}

// AutoIsolationConfig describes which dependencies an isolated instance gets.
type AutoIsolationConfig struct {
	ID                    string                `json:"_id,omitempty"`
	Instance              string                `json:"instance"`
	RequestedDependencies []RequestedDependency `json:"requestedDependencies"`
}
