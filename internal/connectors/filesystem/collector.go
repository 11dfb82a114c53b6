package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
	"github.com/custodia-labs/sitesource/internal/logger"
)

// Ensure Collector implements the interface.
var _ driven.Collector = (*Collector)(nil)

// DefaultWorkers is the number of pairs parsed in parallel.
const DefaultWorkers = 4

// itemNamespace seeds item IDs so the same key always yields the same ID.
var itemNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sitesource:item"))

// Collector walks a directory tree and turns it into items.
type Collector struct {
	parser  driven.DocumentParser
	sums    driven.Checksummer
	names   namer
	ignore  []string
	workers int
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithWorkers bounds the number of pairs parsed in parallel.
func WithWorkers(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMetadataExtensions sets the extensions (without period) that mark
// metadata files.
func WithMetadataExtensions(exts []string) CollectorOption {
	return func(c *Collector) {
		c.names.metaExts = make(map[string]bool, len(exts))
		for _, ext := range exts {
			c.names.metaExts[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
		}
	}
}

// WithIgnore sets glob patterns of file and directory names to skip.
func WithIgnore(patterns []string) CollectorOption {
	return func(c *Collector) {
		c.ignore = patterns
	}
}

// WithAllowPeriodsInIdentifiers strips only the last extension when
// grouping, so "foo.min.js" keeps the identifier "foo.min".
func WithAllowPeriodsInIdentifiers(allow bool) CollectorOption {
	return func(c *Collector) {
		c.names.allowPeriods = allow
	}
}

// NewCollector creates a collector that parses with parser and digests
// with sums.
func NewCollector(parser driven.DocumentParser, sums driven.Checksummer, opts ...CollectorOption) *Collector {
	c := &Collector{
		parser:  parser,
		sums:    sums,
		workers: DefaultWorkers,
		names: namer{
			metaExts: map[string]bool{"yaml": true, "yml": true},
		},
		ignore: []string{"*~", "*.orig", "*.rej", "*.bak"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect walks root and returns one item per file pair.
// A missing root yields no items. The first parse failure aborts the
// whole collection and no items are returned.
func (c *Collector) Collect(ctx context.Context, root string) ([]domain.Item, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Root %s does not exist, nothing to collect", absRoot)
			return []domain.Item{}, nil
		}
		return nil, fmt.Errorf("stat root %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory: %w", absRoot, domain.ErrInvalidInput)
	}

	files, err := c.walk(ctx, absRoot)
	if err != nil {
		return nil, err
	}

	pairs, err := c.names.pairFiles(absRoot, files)
	if err != nil {
		return nil, err
	}
	logger.Debug("Found %d files in %d pairs under %s", len(files), len(pairs), absRoot)

	items := make([]domain.Item, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, err := c.build(p)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}

// walk lists regular files under root, skipping hidden and ignored names.
func (c *Collector) walk(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == root {
			return nil
		}

		if isHidden(d.Name()) || c.ignored(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			// Follow links to files, not to directories.
			target, err := os.Stat(p)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func (c *Collector) ignored(name string) bool {
	for _, pattern := range c.ignore {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// build parses one pair and attaches filesystem data and checksums.
func (c *Collector) build(p pairedFile) (domain.Item, error) {
	doc, err := c.parser.Parse(p.pair)
	if err != nil {
		return domain.Item{}, err
	}

	attrsSum, err := c.sums.Attributes(layoutAttributes(p, doc.Attributes))
	if err != nil {
		return domain.Item{}, fmt.Errorf("%s: %w", p.key, err)
	}

	stamped := p.pair.MetaPath
	var ext string
	if p.pair.HasContent() {
		stamped = p.pair.ContentPath
		ext = c.names.extension(filepath.Base(p.pair.ContentPath))
	}
	mtime, err := modTime(stamped)
	if err != nil {
		return domain.Item{}, err
	}

	return domain.Item{
		ParsedDocument:     *doc,
		ID:                 uuid.NewSHA1(itemNamespace, []byte(p.key)).String(),
		Key:                p.key,
		Pair:               p.pair,
		Extension:          ext,
		MTime:              mtime,
		AttributesChecksum: attrsSum,
		ContentChecksum:    c.sums.Content(doc.Content),
	}, nil
}

// layoutAttributes wraps attrs with the names of the files they came from.
// An item split into content and metadata files therefore digests
// differently from the same item in one combined file.
func layoutAttributes(p pairedFile, attrs domain.Attributes) domain.Attributes {
	return domain.Attributes{
		{Key: "attributes", Value: attrs},
		{Key: "content_filename", Value: p.relContent},
		{Key: "meta_filename", Value: p.relMeta},
	}
}

func modTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.ModTime(), nil
}

// isHidden reports whether a file or directory name starts with a period.
func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}
