// Package resolve maps a repository expression ("repo", "repo/branch" or a
// service name) onto the platform instance it names.
package resolve

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/luanzeba/runnable-cli/internal/api"
)

var ErrInstanceNotFound = errors.New("Could not find Container.")

// InstanceFetcher lists instances matching a query.
type InstanceFetcher interface {
	FetchInstances(ctx context.Context, q api.InstanceQuery) ([]api.Instance, error)
}

// Resolver finds instances within one organization.
type Resolver struct {
	Instances InstanceFetcher
	Org       string
	// CurrentRepository reports the "repo/branch" of the working directory.
	// It is only called when no repository is given.
	CurrentRepository func() (string, error)
}

// InstanceForRepository returns the instance for repository, or nil when
// nothing matches.
//
// "repo/branch" matches the repository instance on that branch. A bare name
// matches the repository instance on its default branch. Either way, when no
// repository instance matches, the original input is looked up once more as
// an instance name so services resolve too.
func (r *Resolver) InstanceForRepository(ctx context.Context, repository string) (*api.Instance, error) {
	repo, branch := repository, ""
	if strings.Contains(repository, "/") {
		parts := strings.Split(repository, "/")
		repo, branch = parts[0], parts[len(parts)-1]
	}

	fullRepo := r.Org + "/" + repo
	log.Debug("fetching instances for repository", "repo", fullRepo)
	instances, err := r.Instances.FetchInstances(ctx, api.InstanceQuery{
		GithubUsername: r.Org,
		Repo:           fullRepo,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("found instances for repository", "count", len(instances))

	if inst := matchBranch(instances, branch); inst != nil {
		return inst, nil
	}

	log.Debug("looking for a non-repository container", "name", repository)
	instances, err = r.Instances.FetchInstances(ctx, api.InstanceQuery{
		GithubUsername: r.Org,
		Name:           repository,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("found instances for non-repository", "count", len(instances))
	if len(instances) > 0 {
		return &instances[0], nil
	}
	return nil, nil
}

// matchBranch picks the instance on branch. With no branch it picks the
// instance whose checked out branch is its repository's default branch;
// instances that predate defaultBranch never match.
func matchBranch(instances []api.Instance, branch string) *api.Instance {
	lowerBranch := strings.ToLower(branch)
	for i := range instances {
		cv := instances[i].CodeVersion()
		if cv == nil {
			continue
		}
		if branch != "" {
			if cv.LowerBranch == lowerBranch {
				return &instances[i]
			}
			continue
		}
		if cv.DefaultBranch == nil {
			continue
		}
		if strings.ToLower(*cv.DefaultBranch) == cv.LowerBranch {
			return &instances[i]
		}
	}
	return nil
}

// RepositoryAndInstance resolves repository, falling back to the working
// directory's repository when it is empty. It returns the repository that
// was resolved along with its instance.
func (r *Resolver) RepositoryAndInstance(ctx context.Context, repository string) (string, *api.Instance, error) {
	if repository == "" {
		if r.CurrentRepository == nil {
			return "", nil, errors.New("no repository given")
		}
		current, err := r.CurrentRepository()
		if err != nil {
			return "", nil, err
		}
		repository = current
	}

	inst, err := r.InstanceForRepository(ctx, repository)
	if err != nil {
		return repository, nil, err
	}
	if inst == nil {
		return repository, nil, ErrInstanceNotFound
	}
	return repository, inst, nil
}
