package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/luanzeba/runnable-cli/internal/gh"
	"github.com/luanzeba/runnable-cli/internal/prompt"
)

var loginGh bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Runnable",
	Long: `Authenticate with the Runnable CLI.

Prompts for your GitHub username and password (and two-factor code when
needed) and exchanges the resulting GitHub token for a Runnable session.
Use --gh to reuse the token of an authenticated gh CLI instead.

After logging in you choose the GitHub organization to work with.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&loginGh, "gh", false, "Use the token from 'gh auth token'")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, false)
	if err != nil {
		return err
	}

	p := prompt.New(os.Stdin, os.Stdout)
	var token string
	if loginGh {
		token, err = gh.AuthToken(s.env.GithubURL)
		if err != nil {
			return err
		}
	} else {
		username, err := p.Ask("GitHub username:")
		if err != nil {
			return err
		}
		password, err := p.AskSecret("GitHub password:")
		if err != nil {
			return err
		}

		client, err := gh.NewClient(s.env.GithubURL)
		if err != nil {
			return err
		}
		token, err = client.Authorize(ctx, gh.Credentials{Username: username, Password: password}, func() (string, error) {
			return p.AskSecret("Two-factor code:")
		})
		if err != nil {
			return err
		}
	}

	if err := s.client.GithubLogin(ctx, token); err != nil {
		return fmt.Errorf("failed to log in to Runnable: %w", err)
	}
	if err := s.jar.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	log.Debug("Saved session cookies", "path", s.store.CookiePath())
	fmt.Println("Authenticated!")

	return chooseOrg(cmd, s, p)
}
