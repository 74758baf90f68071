package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luanzeba/runnable-cli/internal/isolation"
	"github.com/luanzeba/runnable-cli/internal/prompt"
)

var (
	isolationEnable  bool
	isolationDisable bool
)

var isolationCmd = &cobra.Command{
	Use:   "isolation [repository]",
	Short: "List or toggle auto-isolation (experimental)",
	Long: `List or toggle Auto Isolation for a repository.

Without flags, prints whether each master pod (or only repository) is
isolated. --enable asks which other containers to isolate alongside
repository and creates the configuration; --disable removes it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIsolation,
}

func init() {
	isolationCmd.Flags().BoolVarP(&isolationEnable, "enable", "e", false, "Enable Auto Isolation")
	isolationCmd.Flags().BoolVarP(&isolationDisable, "disable", "d", false, "Disable Auto Isolation")
	isolationCmd.MarkFlagsMutuallyExclusive("enable", "disable")
	rootCmd.AddCommand(isolationCmd)
}

func runIsolation(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(os.Stderr, "[WARN] auto-isolation is an experimental feature.")

	ctx := cmd.Context()
	s, err := newSession(ctx, true)
	if err != nil {
		return err
	}
	org, err := s.org()
	if err != nil {
		return err
	}

	var repository string
	if len(args) > 0 {
		repository = s.cfg.ResolveAlias(args[0])
	}
	m := &isolation.Manager{Client: s.client, Org: org, Out: os.Stdout}

	if !isolationEnable && !isolationDisable {
		return m.List(ctx, repository)
	}

	repository, inst, err := s.resolve(ctx, repository)
	if err != nil {
		return err
	}
	repository = strings.ToLower(repository)
	fmt.Printf("Going to toggle isolation for: %s\n", repository)

	if isolationDisable {
		return m.Disable(ctx, inst, repository)
	}
	_, err = m.Enable(ctx, inst, prompt.New(os.Stdin, os.Stdout))
	return err
}
