package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luanzeba/runnable-cli/internal/compose"
)

var composeJSON bool

var composeCmd = &cobra.Command{
	Use:   "compose <repository>",
	Short: "Print a Docker Compose file for a container",
	Long: `Print a Docker Compose file describing the container of repository and,
recursively, the containers it depends on.

Output is YAML; use --json for JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().BoolVar(&composeJSON, "json", false, "Print JSON instead of YAML")
	rootCmd.AddCommand(composeCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, true)
	if err != nil {
		return err
	}
	_, inst, err := s.resolve(ctx, args[0])
	if err != nil {
		return err
	}

	doc, err := compose.Generate(ctx, s.client, inst)
	if err != nil {
		return err
	}

	var out []byte
	if composeJSON {
		out, err = doc.JSON()
	} else {
		out, err = doc.YAML()
	}
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
