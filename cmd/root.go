package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	cookiejar "github.com/juju/persistent-cookiejar"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luanzeba/runnable-cli/internal/api"
	"github.com/luanzeba/runnable-cli/internal/config"
	"github.com/luanzeba/runnable-cli/internal/gitctx"
	"github.com/luanzeba/runnable-cli/internal/resolve"
	"github.com/luanzeba/runnable-cli/internal/state"
	"github.com/luanzeba/runnable-cli/internal/stream"
)

var ErrNotAuthorized = errors.New("Not authorized. Please login.")

// settings holds RUNNABLE_* environment variables and the global flags.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "runnable",
	Short: "Command line interface for Runnable",
	Long: `runnable works with the containers Runnable runs for your repositories.

It provides commands to:
- List repositories, services and branch containers
- Stream container and build logs
- Open a terminal in a container
- Upload files into a container

Commands that take a [repository] default to the repository and branch
checked out in the current directory.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	state.BindEnv(settings)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("host", "", "Runnable API URL (default $RUNNABLE_HOST or "+state.DefaultHost+")")
	_ = settings.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = settings.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
}

func Execute() error {
	return rootCmd.Execute()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	log.SetOutput(os.Stderr)
	level := log.WarnLevel
	if cfg, err := config.Load(); err == nil {
		if l, err := log.ParseLevel(cfg.Defaults.LogLevel); err == nil {
			level = l
		}
	}
	if settings.GetBool("debug") {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	return nil
}

// session is everything a command needs to talk to the platform.
type session struct {
	env    *state.Env
	store  *state.Store
	jar    *cookiejar.Jar
	client *api.Client
	cfg    *config.Config
}

// newSession opens the store and builds the API client. With requireAuth it
// also checks the saved cookies still identify a user.
func newSession(ctx context.Context, requireAuth bool) (*session, error) {
	env, err := state.LoadEnv(settings)
	if err != nil {
		return nil, err
	}
	store, err := state.Open(env.StoreDir)
	if err != nil {
		return nil, err
	}
	jar, err := store.CookieJar(env.NoCookiePersist)
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(env.Host, jar)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		log.Warn("Failed to load config, using defaults", "err", err)
		cfg = config.DefaultConfig()
	}
	log.Debug("Session", "host", env.Host, "store", env.StoreDir)

	s := &session{env: env, store: store, jar: jar, client: client, cfg: cfg}
	if requireAuth {
		if _, err := client.FetchMe(ctx); err != nil {
			log.Debug("Session check failed", "err", err)
			return nil, ErrNotAuthorized
		}
	}
	return s, nil
}

func (s *session) org() (string, error) {
	org, err := s.store.Organization()
	if errors.Is(err, state.ErrNoOrganization) {
		return "", fmt.Errorf("no organization selected (use 'runnable org' to choose one)")
	}
	return org, err
}

// resolve finds the instance for repository (an alias, "repo/branch", a
// bare repo or a service name), defaulting to the current directory.
func (s *session) resolve(ctx context.Context, repository string) (string, *api.Instance, error) {
	org, err := s.org()
	if err != nil {
		return "", nil, err
	}
	r := &resolve.Resolver{
		Instances:         s.client,
		Org:               org,
		CurrentRepository: currentRepository,
	}
	if repository != "" {
		repository = s.cfg.ResolveAlias(repository)
	}
	return r.RepositoryAndInstance(ctx, repository)
}

func currentRepository() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	id, err := gitctx.Current(wd)
	if err != nil {
		return "", err
	}
	return id.Repository(), nil
}

// dial opens the websocket session with the saved cookies.
func (s *session) dial(ctx context.Context) (*stream.Session, error) {
	return stream.Dial(ctx, stream.Options{
		Host:       s.env.Host,
		Cookie:     s.client.CookieHeader(),
		Retries:    s.cfg.Stream.DialRetries,
		RetryDelay: time.Duration(s.cfg.Stream.DialRetryDelay) * time.Second,
		ErrOut:     os.Stderr,
	})
}
