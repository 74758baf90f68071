// Package listing builds the rows printed by `runnable list`.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/luanzeba/runnable-cli/internal/api"
)

var ErrRepositoryRequired = errors.New("<repository> is required")

// InstanceFetcher lists instances matching a query.
type InstanceFetcher interface {
	FetchInstances(ctx context.Context, q api.InstanceQuery) ([]api.Instance, error)
}

// ContainerRow is one branch container of a repository.
type ContainerRow struct {
	Container string
	Status    string
	URL       string
}

// CountRow is a repository or service with its container count.
type CountRow struct {
	Name  string
	Count string
}

// Summary groups the organization's containers.
type Summary struct {
	Repositories []CountRow
	Services     []CountRow
}

// Containers lists the containers of repository (matched case-insensitively
// on the repository name, without owner).
func Containers(ctx context.Context, f InstanceFetcher, org, repository string) ([]ContainerRow, error) {
	if repository == "" {
		return nil, ErrRepositoryRequired
	}

	instances, err := f.FetchInstances(ctx, api.InstanceQuery{GithubUsername: org})
	if err != nil {
		return nil, err
	}

	lowerRepo := strings.ToLower(repository)
	var rows []ContainerRow
	for i := range instances {
		inst := &instances[i]
		cv := inst.CodeVersion()
		if cv == nil || cv.LowerRepo == "" {
			continue
		}
		repo := lastSegment(cv.LowerRepo)
		if repo != lowerRepo {
			continue
		}

		status := inst.Status()
		if status == "" {
			status = "-"
		}
		rows = append(rows, ContainerRow{
			Container: repo + "/" + cv.LowerBranch,
			Status:    Capitalize(status),
			URL:       StagingURL(inst.ShortHash, repo, org),
		})
	}
	return rows, nil
}

// Summarize counts the organization's containers per repository, in the
// order repositories are first seen, and lists its services.
func Summarize(ctx context.Context, f InstanceFetcher, org string) (*Summary, error) {
	instances, err := f.FetchInstances(ctx, api.InstanceQuery{GithubUsername: org})
	if err != nil {
		return nil, err
	}

	var repoOrder, serviceOrder []string
	repoCounts := map[string]int{}
	services := map[string]bool{}
	for i := range instances {
		inst := &instances[i]
		if cv := inst.CodeVersion(); cv != nil && cv.LowerRepo != "" {
			if repoCounts[cv.LowerRepo] == 0 {
				repoOrder = append(repoOrder, cv.LowerRepo)
			}
			repoCounts[cv.LowerRepo]++
			continue
		}
		// Every service counts as a single container for now.
		if !services[inst.LowerName] {
			services[inst.LowerName] = true
			serviceOrder = append(serviceOrder, inst.LowerName)
		}
	}

	s := &Summary{}
	for _, fullRepo := range repoOrder {
		s.Repositories = append(s.Repositories, CountRow{
			Name:  lastSegment(fullRepo),
			Count: containerCount(repoCounts[fullRepo]),
		})
	}
	for _, name := range serviceOrder {
		s.Services = append(s.Services, CountRow{Name: name, Count: containerCount(1)})
	}
	return s, nil
}

// StagingURL is the public hostname of a branch container.
func StagingURL(shortHash, repo, org string) string {
	return fmt.Sprintf("%s-%s-staging-%s.runnableapp.com", shortHash, repo, strings.ToLower(org))
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func containerCount(n int) string {
	if n > 1 {
		return fmt.Sprintf("%d containers", n)
	}
	return fmt.Sprintf("%d container", n)
}

func lastSegment(s string) string {
	return s[strings.LastIndex(s, "/")+1:]
}
