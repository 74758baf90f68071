package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/luanzeba/runnable-cli/internal/gh"
	"github.com/luanzeba/runnable-cli/internal/state"
)

// Set with -ldflags "-X github.com/luanzeba/runnable-cli/cmd.version=..."
var (
	version     = "0.0.0-dev"
	releaseRepo = "Runnable/runnable-cli"
)

var (
	boldStyle     = lipgloss.NewStyle().Bold(true)
	outdatedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	upToDateStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and check for updates",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Println(boldStyle.Render("Current version:"), strings.TrimPrefix(canonicalVersion(version), "v"))

	env, err := state.LoadEnv(settings)
	if err != nil {
		return err
	}
	client, err := gh.NewClient(env.GithubURL)
	if err != nil {
		return err
	}
	latest, err := client.LatestRelease(cmd.Context(), releaseRepo)
	if err != nil {
		return fmt.Errorf("could not determine remote available version: %w", err)
	}
	fmt.Println(boldStyle.Render("Remote version (latest):"), strings.TrimPrefix(canonicalVersion(latest), "v"))

	outdated, err := isOutdated(version, latest)
	if err != nil {
		return err
	}
	if outdated {
		fmt.Println(outdatedStyle.Render("You are out of date!"))
		fmt.Printf("To update, download the latest release from https://github.com/%s/releases/latest\n", releaseRepo)
	} else {
		fmt.Println(upToDateStyle.Render("You are up to date!"))
	}
	return nil
}

// canonicalVersion adds the "v" prefix semver expects.
func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// isOutdated reports whether current is older than latest.
func isOutdated(current, latest string) (bool, error) {
	c, l := canonicalVersion(current), canonicalVersion(latest)
	if !semver.IsValid(c) {
		return false, fmt.Errorf("invalid version %q", current)
	}
	if !semver.IsValid(l) {
		return false, fmt.Errorf("invalid remote version %q", latest)
	}
	return semver.Compare(c, l) < 0, nil
}
