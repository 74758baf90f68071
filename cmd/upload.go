package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/luanzeba/runnable-cli/internal/upload"
)

var (
	uploadRepository string
	uploadPath       string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file> [dest]",
	Short: "Upload a file to a container",
	Long: `Upload a file to the container for your local branch.

dest is a directory inside the container. Relative paths are created under
the container's working directory, absolute paths under /. Missing
directories are created. Without dest, repos.<repo>.destination from the
config file is used, then the working directory.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadRepository, "repository", "r", "", "Repository to upload to (default: current directory)")
	uploadCmd.Flags().StringVar(&uploadPath, "path", "", "Destination directory (same as dest)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	file := args[0]
	dest := uploadPath
	if len(args) > 1 {
		dest = args[1]
	}

	s, err := newSession(ctx, true)
	if err != nil {
		return err
	}
	repository, inst, err := s.resolve(ctx, uploadRepository)
	if err != nil {
		return err
	}
	if dest == "" {
		if rc := s.cfg.GetRepoConfig(repository); rc != nil {
			dest = rc.Destination
		}
	}

	u := &upload.Uploader{Files: s.client}
	res, err := u.Upload(ctx, inst, file, dest)
	if err != nil {
		return err
	}
	for _, d := range res.Directories {
		if d.Outcome == upload.Failed {
			log.Warn("Failed to create directory", "path", d.Path, "name", d.Name, "err", d.Err)
		}
	}
	log.Debug("Uploaded", "repository", repository, "name", res.Name, "path", res.Path)

	fmt.Println("Uploaded file.")
	return nil
}
