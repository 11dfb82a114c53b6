package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitesource/internal/adapters/driven/config/file"
)

var initCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a default sitesource.toml",
	Long:        `Writes a configuration file with every setting at its default value.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE:        runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	path := opts.ConfigPath
	if path == "" {
		path = filepath.Join(opts.SiteDir, file.FileName)
	}
	if err := file.WriteDefault(path); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}
