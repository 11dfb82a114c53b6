package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitesource/internal/core/domain"
)

var collectCmd = &cobra.Command{
	Use:   "collect [items|layouts]",
	Short: "List the items or layouts of the site",
	Long: `Walks the content (or layouts) directory, parses every file pair and
prints one line per item with its extension and checksums.
Any parse error aborts the whole collection.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"items", "layouts"},
	RunE:      runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	site, err := siteSource()
	if err != nil {
		return err
	}
	kind, err := parseRootKind(args)
	if err != nil {
		return err
	}

	var items []domain.Item
	if kind == domain.RootLayouts {
		items, err = site.LoadLayouts(cmd.Context())
	} else {
		items, err = site.LoadItems(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("collect failed: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tEXT\tATTRIBUTES\tCONTENT")
	for _, item := range items {
		ext := item.Extension
		if ext == "" {
			ext = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.Key, ext, item.AttributesChecksum, item.ContentChecksum)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", len(items), kind)
	return nil
}

// parseRootKind reads an optional items/layouts argument.
func parseRootKind(args []string) (domain.RootKind, error) {
	if len(args) == 0 {
		return domain.RootItems, nil
	}
	switch args[0] {
	case "items":
		return domain.RootItems, nil
	case "layouts":
		return domain.RootLayouts, nil
	default:
		return domain.RootOther, fmt.Errorf("unknown root %q (expected items or layouts)", args[0])
	}
}
