package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/luanzeba/runnable-cli/internal/api"
	"github.com/luanzeba/runnable-cli/internal/config"
	"github.com/luanzeba/runnable-cli/internal/stream"
	"github.com/luanzeba/runnable-cli/internal/terminal"
)

var (
	sshRetry      bool
	sshRetryDelay int
	sshMaxRetries int
)

var sshCmd = &cobra.Command{
	Use:   "ssh [repository]",
	Short: "Start a terminal session on a container",
	Long: `Starts a terminal session on the container for your local branch, or on
the container of the given repository.

Use --retry to automatically reconnect when the session drops.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSSH,
}

func init() {
	sshCmd.Flags().BoolVar(&sshRetry, "retry", false, "Automatically reconnect on disconnect")
	sshCmd.Flags().IntVar(&sshRetryDelay, "retry-delay", 3, "Seconds to wait before reconnecting")
	sshCmd.Flags().IntVar(&sshMaxRetries, "max-retries", 0, "Maximum reconnection attempts (0 = unlimited)")
	rootCmd.AddCommand(sshCmd)
}

func runSSH(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx, true)
	if err != nil {
		return err
	}

	var repository string
	if len(args) > 0 {
		repository = args[0]
	}
	repository, inst, err := s.resolve(ctx, repository)
	if err != nil {
		return err
	}
	if inst.ContainerID() == "" {
		return stream.ErrNoContainer
	}

	org, _ := s.org()
	fmt.Printf("Connecting to %s (%s)...\n", repository, inst.LowerName)

	if sshRetry {
		return sshWithRetry(ctx, s, org, repository, inst)
	}
	setTabTitleForInstance(s.cfg, org, repository, inst)
	return sshOnce(ctx, s, inst)
}

// sshOnce runs one terminal session with stdin in raw mode.
func sshOnce(ctx context.Context, s *session, inst *api.Instance) error {
	// A cancelable stdin lets the next attempt read input once this session
	// is over.
	stdin, cancel := terminal.Input(os.Stdin)
	defer cancel()

	restore, err := terminal.MakeRaw(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to put terminal in raw mode: %w", err)
	}
	defer restore()

	sess, err := s.dial(ctx)
	if err != nil {
		return err
	}
	return stream.Terminal(ctx, sess, inst, stdin, os.Stdout, uuid.NewString)
}

func sshWithRetry(ctx context.Context, s *session, org, repository string, inst *api.Instance) error {
	retries := 0

	for {
		// Refresh tab title on reconnect
		setTabTitleForInstance(s.cfg, org, repository, inst)

		err := sshOnce(ctx, s, inst)

		if ctx.Err() != nil {
			fmt.Println("\nDisconnected.")
			return nil
		}
		if err == nil {
			fmt.Println("Terminal session ended normally.")
			return nil
		}
		log.Debug("Terminal session dropped", "err", err)

		retries++
		if sshMaxRetries > 0 && retries >= sshMaxRetries {
			return fmt.Errorf("max retries (%d) reached, giving up: %w", sshMaxRetries, err)
		}

		fmt.Printf("\nConnection lost. Reconnecting in %d seconds... (attempt %d", sshRetryDelay, retries+1)
		if sshMaxRetries > 0 {
			fmt.Printf("/%d", sshMaxRetries)
		}
		fmt.Println(")")

		select {
		case <-ctx.Done():
			fmt.Println("\nReconnection cancelled.")
			return nil
		case <-time.After(time.Duration(sshRetryDelay) * time.Second):
		}
	}
}

func setTabTitleForInstance(cfg *config.Config, org, repository string, inst *api.Instance) {
	if !cfg.Terminal.SetTabTitle {
		return
	}

	if !terminal.IsSupportedTerminal() {
		return
	}

	fields := terminal.TitleFields{Org: org, Repo: repository, Name: inst.Name}
	if cv := inst.CodeVersion(); cv != nil {
		fields.Repo = cv.Repo
		fields.Branch = cv.Branch
	}
	terminal.SetTabTitle(os.Stdout, terminal.Title(cfg.Terminal.TitleFormat, fields))
}
