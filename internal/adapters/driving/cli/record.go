package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Save the current item checksums",
	Long: `Collects the items and saves their checksums as the manifest that
"sitesource status" compares against.`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, _ []string) error {
	site, err := siteSource()
	if err != nil {
		return err
	}

	n, err := site.Record(cmd.Context())
	if err != nil {
		return fmt.Errorf("record failed: %w", err)
	}

	cmd.Printf("Recorded %d items.\n", n)
	return nil
}
