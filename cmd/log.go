package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/luanzeba/runnable-cli/internal/config"
	"github.com/luanzeba/runnable-cli/internal/stream"
)

var (
	logBuild bool
	logCmd   bool
)

var exitHint = lipgloss.NewStyle().Bold(true).Render("[Control + C to EXIT]")

var logCommand = &cobra.Command{
	Use:     "log [repository]",
	Aliases: []string{"logs"},
	Short:   "View the logs of a container",
	Long: `View the logs of the container for your local branch, or of the given
repository ("repo", "repo/branch", an alias or a service name).

By default the container's command output is streamed. Use --build to
stream the build logs instead. The default can be changed with
defaults.log_mode in the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLog,
}

func init() {
	logCommand.Flags().BoolVarP(&logBuild, "build", "b", false, "View build logs only")
	logCommand.Flags().BoolVarP(&logCmd, "cmd", "c", false, "View command logs only (default)")
	logCommand.MarkFlagsMutuallyExclusive("build", "cmd")
	rootCmd.AddCommand(logCommand)
}

func runLog(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(exitHint)

	s, err := newSession(ctx, true)
	if err != nil {
		return err
	}

	build := logBuild
	if !logBuild && !logCmd {
		build = s.cfg.Defaults.LogMode == config.LogModeBuild
	}

	var repository string
	if len(args) > 0 {
		repository = args[0]
	}
	repository, inst, err := s.resolve(ctx, repository)
	if err != nil {
		return err
	}
	log.Debug("Streaming logs", "repository", repository, "instance", inst.ID, "build", build)

	sess, err := s.dial(ctx)
	if err != nil {
		return err
	}

	if build {
		err = stream.BuildLogs(ctx, sess, inst, os.Stdout, uuid.NewString)
	} else {
		err = stream.ContainerLogs(ctx, sess, inst, os.Stdout)
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}
