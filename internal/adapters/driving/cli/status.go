package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitesource/internal/core/domain"
)

var statusAll bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show items changed since the last record",
	Long: `Collects the items and compares their checksums with the manifest saved
by "sitesource record". Attribute and content changes are reported apart.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusAll, "all", "a", false, "include unchanged items")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	site, err := siteSource()
	if err != nil {
		return err
	}

	statuses, err := site.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	w := cmd.OutOrStdout()
	st := newStyles(w)
	changed := 0
	for _, item := range statuses {
		if item.State != domain.StateUnchanged {
			changed++
		} else if !statusAll {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", st.State(item.State), item.Key)
	}
	if changed == 0 {
		cmd.Println("No changes.")
	}
	return nil
}
