// Package cli provides the sitesource command line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
	"github.com/custodia-labs/sitesource/internal/core/ports/driving"
	"github.com/custodia-labs/sitesource/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=1.2.3".
var version = "dev"

// Services are the dependencies commands run against.
type Services struct {
	Site     driving.SiteSource
	Parser   driven.DocumentParser
	Settings domain.Settings

	// Close releases resources such as the manifest database.
	Close func() error
}

// Options are the global flags passed to the bootstrap function.
type Options struct {
	SiteDir    string
	ConfigPath string
	Verbose    bool
}

// BootstrapFunc builds Services from the global flags.
type BootstrapFunc func(Options) (*Services, error)

var (
	bootstrap BootstrapFunc
	services  *Services
	opts      Options
)

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

var rootCmd = &cobra.Command{
	Use:   "sitesource",
	Short: "Collect and watch static site sources",
	Long: `sitesource reads the content and layouts of a static site: it pairs
content files with their metadata files, splits front matter from content,
computes change checksums and watches the source directories for changes.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.SiteDir, "site", "s", ".", "site directory")
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "",
		"configuration file (default <site>/sitesource.toml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
}

// SetBootstrap sets the function that builds services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetVersion sets the version reported by "sitesource version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	if opts.Verbose {
		logger.SetVerbose(true)
	}
	if cmd.Annotations[skipBootstrap] == "true" || services != nil || bootstrap == nil {
		return nil
	}

	s, err := bootstrap(opts)
	if err != nil {
		return err
	}
	services = s
	return nil
}

func teardown() error {
	if services == nil || services.Close == nil || bootstrap == nil {
		return nil
	}
	err := services.Close()
	services = nil
	return err
}

func siteSource() (driving.SiteSource, error) {
	if services == nil || services.Site == nil {
		return nil, errors.New("site source not configured")
	}
	return services.Site, nil
}
