package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/luanzeba/runnable-cli/internal/prompt"
	"github.com/luanzeba/runnable-cli/internal/terminal"
)

const orgQuestion = "Choose a GitHub organization to use with Runnable"

var orgCurrent bool

var selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Choose a GitHub organization",
	Long: `Choose a GitHub organization to use with Runnable.

On a terminal the organizations are shown as a list to pick from; otherwise
type the number or the name of the organization. The choice is stored in
settings.json inside the Runnable store (~/.runnable).

Use --current to print the selected organization. This is useful for
scripts and shell prompts.`,
	Args: cobra.NoArgs,
	RunE: runOrg,
}

func init() {
	orgCmd.Flags().BoolVar(&orgCurrent, "current", false, "Print the selected organization")
	rootCmd.AddCommand(orgCmd)
}

func runOrg(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context(), !orgCurrent)
	if err != nil {
		return err
	}

	if orgCurrent {
		org, err := s.org()
		if err != nil {
			return err
		}
		fmt.Println(org)
		return nil
	}

	return chooseOrg(cmd, s, prompt.New(os.Stdin, os.Stdout))
}

// chooseOrg asks for one of the user's GitHub organizations and saves it.
func chooseOrg(cmd *cobra.Command, s *session, p *prompt.Prompter) error {
	orgs, err := s.client.FetchGithubOrgs(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch organizations: %w", err)
	}
	logins := make([]string, 0, len(orgs))
	for _, o := range orgs {
		logins = append(logins, o.Login)
	}
	sort.Strings(logins)

	var org string
	if p.Interactive() && terminal.IsTerminal(os.Stdout) {
		org, err = prompt.Pick(orgQuestion, logins, os.Stdin, os.Stdout)
	} else {
		org, err = p.Choose(orgQuestion, logins)
	}
	if err != nil {
		return err
	}

	if err := s.store.SetOrganization(org); err != nil {
		return fmt.Errorf("failed to save organization: %w", err)
	}
	fmt.Println(selectedStyle.Render("Selected organization:"), org)
	return nil
}
