package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitesource/internal/adapters/driven/metadata/yaml"
	"github.com/custodia-labs/sitesource/internal/core/domain"
)

var parseMetaOnly bool

var parseCmd = &cobra.Command{
	Use:   "parse FILE [META]",
	Short: "Split a file into attributes and content",
	Long: `Parses a single file, or a content file and its metadata file, and prints
the attributes as YAML followed by the content.

With --meta, FILE is read as a metadata-only file.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseMetaOnly, "meta", false, "treat FILE as a metadata-only file")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if services == nil || services.Parser == nil {
		return errors.New("parser not configured")
	}

	var pair domain.FilePair
	switch {
	case parseMetaOnly && len(args) == 2:
		return errors.New("--meta takes a single file")
	case parseMetaOnly:
		pair.MetaPath = args[0]
	default:
		pair.ContentPath = args[0]
		if len(args) == 2 {
			pair.MetaPath = args[1]
		}
	}

	doc, err := services.Parser.Parse(pair)
	if err != nil {
		return err
	}

	out, err := yaml.Encode(doc.Attributes)
	if err != nil {
		return fmt.Errorf("encoding attributes: %w", err)
	}
	w := cmd.OutOrStdout()
	fmt.Fprint(w, "---\n", string(out), "---\n")
	fmt.Fprint(w, doc.Content)
	return nil
}
