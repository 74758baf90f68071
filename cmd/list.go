package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luanzeba/runnable-cli/internal/listing"
	"github.com/luanzeba/runnable-cli/internal/table"
)

var listCmd = &cobra.Command{
	Use:   "list [repository]",
	Short: "List repositories, services and containers",
	Long: `Lists all repositories and services of the selected organization.

Specify a repository to list its containers, one per branch, with their
status and URL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, true)
	if err != nil {
		return err
	}
	org, err := s.org()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		rows, err := listing.Containers(ctx, s.client, org, s.cfg.ResolveAlias(args[0]))
		if err != nil {
			return err
		}
		t := table.New("Container", "Status", "Container URL")
		for _, r := range rows {
			t.AddRow(r.Container, r.Status, r.URL)
		}
		return t.Render(os.Stdout)
	}

	summary, err := listing.Summarize(ctx, s.client, org)
	if err != nil {
		return err
	}

	repos := table.New("Repositories", "")
	for _, r := range summary.Repositories {
		repos.AddRow(r.Name, r.Count)
	}
	if err := repos.Render(os.Stdout); err != nil {
		return err
	}

	if repos.Len() > 0 {
		fmt.Println()
	}

	services := table.New("Services", "")
	for _, r := range summary.Services {
		services.AddRow(r.Name, r.Count)
	}
	return services.Render(os.Stdout)
}
