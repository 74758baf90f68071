package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/luanzeba/runnable-cli/internal/config"
	"github.com/luanzeba/runnable-cli/internal/state"
)

var (
	configEdit bool
	configInit bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or edit configuration",
	Long: `View or edit the runnable configuration file.

Without flags, prints the current configuration followed by the environment
(API host and store) commands run against.
Use --edit to open the file in $EDITOR.
Use --init to create a default config file.

Config location: $XDG_CONFIG_HOME/runnable/config.yaml (~/.config/runnable)`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVarP(&configEdit, "edit", "e", false, "Open config in $EDITOR")
	configCmd.Flags().BoolVar(&configInit, "init", false, "Create default config file")
	configCmd.MarkFlagsMutuallyExclusive("edit", "init")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	switch {
	case configInit:
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s", path)
		}
		if err := config.Save(config.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		fmt.Printf("Created config at %s\n", path)
		return nil

	case configEdit:
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := config.Save(config.DefaultConfig()); err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
		}
		return openEditor(path)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	env, err := state.LoadEnv(settings)
	if err != nil {
		return err
	}

	fmt.Printf("# Config file: %s\n", path)
	fmt.Printf("# Host: %s\n", env.Host)
	fmt.Printf("# Store: %s\n\n", env.StoreDir)
	fmt.Print(string(data))
	return nil
}

func openEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
