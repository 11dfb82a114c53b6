// Package main is the entry point for the sitesource command.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/sitesource/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sitesource/internal/adapters/driven/metadata"
	"github.com/custodia-labs/sitesource/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sitesource/internal/adapters/driving/cli"
	"github.com/custodia-labs/sitesource/internal/checksum"
	"github.com/custodia-labs/sitesource/internal/connectors/filesystem"
	"github.com/custodia-labs/sitesource/internal/core/services"
	"github.com/custodia-labs/sitesource/internal/logger"
	"github.com/custodia-labs/sitesource/internal/normalisers/frontmatter"
	"github.com/custodia-labs/sitesource/internal/normalisers/plaintext"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)
	cli.SetBootstrap(newServices)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newServices wires the adapters named by the site configuration.
func newServices(o cli.Options) (*cli.Services, error) {
	configPath := o.ConfigPath
	if configPath == "" {
		configPath = o.SiteDir
	}
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, err
	}
	settings, err := file.LoadSettings(store, o.SiteDir)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", store.Path(), err)
	}

	level, _ := logger.ParseLevel(settings.LogLevel)
	logger.SetLevel(level)
	if settings.Verbose || o.Verbose {
		logger.SetVerbose(true)
	}
	logger.Debug("config: %s", store.Path())

	decoders, err := metadata.NewDefaultRegistry(settings.MetadataExtensions)
	if err != nil {
		return nil, err
	}
	text, err := plaintext.New(settings.Encoding)
	if err != nil {
		return nil, err
	}
	parser := frontmatter.New(decoders,
		frontmatter.WithSeparatorMinLength(settings.SeparatorMinLength),
		frontmatter.WithNormaliser(text),
	)

	collector := filesystem.NewCollector(parser, checksum.New(),
		filesystem.WithWorkers(settings.Workers),
		filesystem.WithMetadataExtensions(settings.MetadataExtensions),
		filesystem.WithIgnore(settings.Ignore),
		filesystem.WithAllowPeriodsInIdentifiers(settings.AllowPeriodsInIdentifiers),
	)
	registry := filesystem.NewRegistry(settings.Debounce)

	db, err := sqlite.NewStore(settings.DataRoot())
	if err != nil {
		return nil, err
	}

	site := services.NewSiteSource(collector, filesystem.NewWatcher(registry), db.ManifestStore(), settings)

	return &cli.Services{
		Site:     site,
		Parser:   parser,
		Settings: settings,
		Close: func() error {
			return errors.Join(registry.Close(), db.Close())
		},
	}, nil
}
