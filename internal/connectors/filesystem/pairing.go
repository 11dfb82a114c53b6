package filesystem

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/sitesource/internal/core/domain"
)

// pairedFile is one group of files that make up a single item.
type pairedFile struct {
	key  string
	pair domain.FilePair

	// Root-relative slash paths of the pair, empty when absent.
	relContent string
	relMeta    string
}

// namer splits file names into the parts used for grouping.
type namer struct {
	metaExts     map[string]bool
	allowPeriods bool
}

// base returns the grouping name: everything before the first period, or
// before the last one when periods are allowed in identifiers.
func (n namer) base(name string) string {
	i := n.extIndex(name)
	if i < 0 {
		return name
	}
	return name[:i]
}

// extension returns what follows the grouping name, without the period.
func (n namer) extension(name string) string {
	i := n.extIndex(name)
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

func (n namer) extIndex(name string) int {
	var i int
	if n.allowPeriods {
		i = strings.LastIndexByte(name, '.')
	} else {
		i = strings.IndexByte(name, '.')
	}
	if i <= 0 {
		return -1
	}
	return i
}

// isMeta reports whether name is a metadata file. Only the last extension
// is considered, so "foo.html.yaml" is metadata for "foo".
func (n namer) isMeta(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return false
	}
	return n.metaExts[strings.ToLower(name[i+1:])]
}

type group struct {
	content []string
	meta    []string
}

// pairFiles groups files under root by directory and basename.
// files holds absolute paths. The result is sorted by key.
func (n namer) pairFiles(root string, files []string) ([]pairedFile, error) {
	groups := make(map[string]*group)
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			return nil, err
		}
		dir, name := path.Split(filepath.ToSlash(rel))
		key := "/" + dir + n.base(name)

		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
		}
		if n.isMeta(name) {
			g.meta = append(g.meta, f)
		} else {
			g.content = append(g.content, f)
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]pairedFile, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		if len(g.content) > 1 {
			sort.Strings(g.content)
			return nil, &domain.PairError{Paths: g.content, Reason: "multiple content files for " + key}
		}
		if len(g.meta) > 1 {
			sort.Strings(g.meta)
			return nil, &domain.PairError{Paths: g.meta, Reason: "multiple metadata files for " + key}
		}

		pf := pairedFile{key: key}
		if len(g.content) == 1 {
			pf.pair.ContentPath = g.content[0]
			pf.relContent = relSlash(root, g.content[0])
		}
		if len(g.meta) == 1 {
			pf.pair.MetaPath = g.meta[0]
			pf.relMeta = relSlash(root, g.meta[0])
		}
		pairs = append(pairs, pf)
	}
	return pairs, nil
}

func relSlash(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
