package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// InstanceQuery filters GET /instances. Empty fields are not sent.
type InstanceQuery struct {
	GithubUsername string
	// Repo is the "org/repo" full name of the backing repository.
	Repo      string
	Name      string
	MasterPod *bool
}

// Values encodes the query the way the platform expects it.
func (q InstanceQuery) Values() url.Values {
	v := url.Values{}
	if q.GithubUsername != "" {
		v.Set("githubUsername", q.GithubUsername)
	}
	if q.Repo != "" {
		v.Set("contextVersion.appCodeVersions.repo", q.Repo)
	}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.MasterPod != nil {
		v.Set("masterPod", strconv.FormatBool(*q.MasterPod))
	}
	return v
}

// FetchInstances lists the instances matching q.
func (c *Client) FetchInstances(ctx context.Context, q InstanceQuery) ([]Instance, error) {
	var instances []Instance
	if err := c.do(ctx, http.MethodGet, "/instances", q.Values(), nil, &instances); err != nil {
		return nil, fmt.Errorf("failed to fetch instances: %w", err)
	}
	return instances, nil
}

// FetchInstance fetches one instance by id.
func (c *Client) FetchInstance(ctx context.Context, id string) (*Instance, error) {
	var inst Instance
	if err := c.do(ctx, http.MethodGet, "/instances/"+url.PathEscape(id), nil, nil, &inst); err != nil {
		return nil, fmt.Errorf("failed to fetch instance %s: %w", id, err)
	}
	return &inst, nil
}

// FetchDependencies lists the instances id depends on.
func (c *Client) FetchDependencies(ctx context.Context, id string) ([]Instance, error) {
	var deps []Instance
	if err := c.do(ctx, http.MethodGet, "/instances/"+url.PathEscape(id)+"/dependencies", nil, nil, &deps); err != nil {
		return nil, fmt.Errorf("failed to fetch dependencies of %s: %w", id, err)
	}
	return deps, nil
}

// CreateFile creates a file or directory inside the container of an
// instance. A path that already exists fails with ErrAlreadyExists.
func (c *Client) CreateFile(ctx context.Context, instanceID, containerID string, file ContainerFile) error {
	path := "/instances/" + url.PathEscape(instanceID) + "/containers/" + url.PathEscape(containerID) + "/files"
	if err := c.do(ctx, http.MethodPost, path, nil, file, nil); err != nil {
		return fmt.Errorf("failed to create %s: %w", file.Name, err)
	}
	return nil
}
