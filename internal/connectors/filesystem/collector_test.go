package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitesource/internal/adapters/driven/metadata"
	"github.com/custodia-labs/sitesource/internal/checksum"
	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/normalisers/frontmatter"
)

func newTestCollector(t *testing.T, opts ...CollectorOption) *Collector {
	t.Helper()
	decoders, err := metadata.NewDefaultRegistry([]string{"yaml", "yml"})
	require.NoError(t, err)
	return NewCollector(frontmatter.New(decoders), checksum.New(), opts...)
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func itemsByKey(items []domain.Item) map[string]domain.Item {
	m := make(map[string]domain.Item, len(items))
	for _, item := range items {
		m[item.Key] = item
	}
	return m
}

func TestCollector_Collect(t *testing.T) {
	t.Run("collects content, split and metadata-only items", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "index.html", "-----\ntitle: Home\n-----\n\n<h1>Home</h1>\n")
		writeFile(t, root, "about.md", "About us\n")
		writeFile(t, root, "about.yaml", "title: About\n")
		writeFile(t, root, "blog/first-post.html", "first\n")
		writeFile(t, root, "config.yml", "menu: main\n")

		items, err := newTestCollector(t).Collect(context.Background(), root)
		require.NoError(t, err)
		require.Len(t, items, 4)

		byKey := itemsByKey(items)

		home := byKey["/index"]
		title, _ := home.Attributes.Get("title")
		assert.Equal(t, "Home", title)
		assert.Equal(t, "<h1>Home</h1>\n", home.Content)
		assert.Equal(t, "html", home.Extension)

		about := byKey["/about"]
		title, _ = about.Attributes.Get("title")
		assert.Equal(t, "About", title)
		assert.Equal(t, "About us\n", about.Content)
		assert.Equal(t, "md", about.Extension)
		assert.Equal(t, filepath.Join(root, "about.yaml"), about.Pair.MetaPath)

		post := byKey["/blog/first-post"]
		assert.Equal(t, 0, post.Attributes.Len())
		assert.Equal(t, "first\n", post.Content)

		conf := byKey["/config"]
		assert.Equal(t, "", conf.Content)
		assert.Equal(t, "", conf.Extension)
		assert.False(t, conf.Pair.HasContent())
	})

	t.Run("output is sorted by key", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "b.html", "b")
		writeFile(t, root, "a.html", "a")
		writeFile(t, root, "c/a.html", "ca")

		items, err := newTestCollector(t).Collect(context.Background(), root)
		require.NoError(t, err)

		keys := make([]string, len(items))
		for i, item := range items {
			keys[i] = item.Key
		}
		assert.Equal(t, []string{"/a", "/b", "/c/a"}, keys)
	})

	t.Run("skips hidden and ignored files", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "page.html", "page")
		writeFile(t, root, ".hidden.html", "hidden")
		writeFile(t, root, ".git/config", "git")
		writeFile(t, root, "page.html~", "backup")
		writeFile(t, root, "other.orig", "orig")
		writeFile(t, root, "other.rej", "rej")
		writeFile(t, root, "other.bak", "bak")

		items, err := newTestCollector(t).Collect(context.Background(), root)
		require.NoError(t, err)

		require.Len(t, items, 1)
		assert.Equal(t, "/page", items[0].Key)
	})

	t.Run("custom ignore patterns", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "page.html", "page")
		writeFile(t, root, "draft.tmp", "tmp")
		writeFile(t, root, "drafts/one.html", "one")

		items, err := newTestCollector(t, WithIgnore([]string{"*.tmp", "drafts"})).Collect(context.Background(), root)
		require.NoError(t, err)

		require.Len(t, items, 1)
		assert.Equal(t, "/page", items[0].Key)
	})

	t.Run("missing root yields no items", func(t *testing.T) {
		items, err := newTestCollector(t).Collect(context.Background(), filepath.Join(t.TempDir(), "missing"))

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("root that is a file is rejected", func(t *testing.T) {
		root := t.TempDir()
		file := writeFile(t, root, "file.html", "x")

		_, err := newTestCollector(t).Collect(context.Background(), file)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("every call walks afresh", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "one.html", "1")
		c := newTestCollector(t)

		first, err := c.Collect(context.Background(), root)
		require.NoError(t, err)
		require.Len(t, first, 1)

		writeFile(t, root, "two.html", "2")
		second, err := c.Collect(context.Background(), root)
		require.NoError(t, err)
		assert.Len(t, second, 2)
	})

	t.Run("cancelled context", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "one.html", "1")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		items, err := newTestCollector(t).Collect(ctx, root)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, items)
	})
}

func TestCollector_Collect_AllOrNothing(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  error
	}{
		{
			name: "metadata that is not a mapping",
			files: map[string]string{
				"good.html": "fine",
				"bad.yaml":  "- stuff\n",
			},
			want: domain.ErrInvalidMetadata,
		},
		{
			name: "unterminated front matter",
			files: map[string]string{
				"good.html": "fine",
				"bad.html":  "-----\ntitle: x\nbody\n",
			},
			want: domain.ErrInvalidFormat,
		},
		{
			name: "ambiguous pair",
			files: map[string]string{
				"foo.html": "a",
				"foo.md":   "b",
			},
			want: domain.ErrAmbiguousPair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for rel, content := range tt.files {
				writeFile(t, root, rel, content)
			}

			items, err := newTestCollector(t, WithWorkers(1)).Collect(context.Background(), root)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Nil(t, items)
		})
	}

	t.Run("error names the offending file", func(t *testing.T) {
		root := t.TempDir()
		bad := writeFile(t, root, "bad.yaml", "- stuff\n")

		_, err := newTestCollector(t).Collect(context.Background(), root)

		require.Error(t, err)
		assert.Contains(t, err.Error(), bad)
		assert.Contains(t, err.Error(), "Array")
	})
}

func TestCollector_Collect_Checksums(t *testing.T) {
	t.Run("splitting a combined file changes only the attributes checksum", func(t *testing.T) {
		combinedRoot := t.TempDir()
		writeFile(t, combinedRoot, "page.html", "-----\ntitle: Hello\n-----\nbody text\n")

		splitRoot := t.TempDir()
		writeFile(t, splitRoot, "page.html", "body text\n")
		writeFile(t, splitRoot, "page.yaml", "title: Hello\n")

		c := newTestCollector(t)
		combined, err := c.Collect(context.Background(), combinedRoot)
		require.NoError(t, err)
		split, err := c.Collect(context.Background(), splitRoot)
		require.NoError(t, err)

		require.Len(t, combined, 1)
		require.Len(t, split, 1)
		assert.Equal(t, combined[0].Attributes, split[0].Attributes)
		assert.Equal(t, combined[0].Content, split[0].Content)
		assert.Equal(t, combined[0].ContentChecksum, split[0].ContentChecksum)
		assert.NotEqual(t, combined[0].AttributesChecksum, split[0].AttributesChecksum)
	})

	t.Run("editing metadata leaves the content checksum alone", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "page.html", "body\n")
		meta := writeFile(t, root, "page.yaml", "title: One\n")
		c := newTestCollector(t)

		before, err := c.Collect(context.Background(), root)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(meta, []byte("title: Two\n"), 0644))
		after, err := c.Collect(context.Background(), root)
		require.NoError(t, err)

		assert.Equal(t, before[0].ContentChecksum, after[0].ContentChecksum)
		assert.NotEqual(t, before[0].AttributesChecksum, after[0].AttributesChecksum)
	})

	t.Run("checksums have fixed length", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "page.html", "body\n")

		items, err := newTestCollector(t).Collect(context.Background(), root)
		require.NoError(t, err)

		assert.Len(t, items[0].ContentChecksum, checksum.Size)
		assert.Len(t, items[0].AttributesChecksum, checksum.Size)
	})
}

func TestCollector_Collect_FileData(t *testing.T) {
	t.Run("mtime comes from the content file", func(t *testing.T) {
		root := t.TempDir()
		content := writeFile(t, root, "page.html", "body")
		meta := writeFile(t, root, "page.yaml", "title: x")

		contentTime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
		metaTime := time.Date(2021, 6, 7, 8, 9, 10, 0, time.UTC)
		require.NoError(t, os.Chtimes(content, contentTime, contentTime))
		require.NoError(t, os.Chtimes(meta, metaTime, metaTime))

		items, err := newTestCollector(t).Collect(context.Background(), root)
		require.NoError(t, err)

		assert.True(t, items[0].MTime.Equal(contentTime), "got %v", items[0].MTime)
	})

	t.Run("mtime of a metadata-only item comes from the metadata file", func(t *testing.T) {
		root := t.TempDir()
		meta := writeFile(t, root, "data.yaml", "title: x")
		metaTime := time.Date(2021, 6, 7, 8, 9, 10, 0, time.UTC)
		require.NoError(t, os.Chtimes(meta, metaTime, metaTime))

		items, err := newTestCollector(t).Collect(context.Background(), root)
		require.NoError(t, err)

		assert.True(t, items[0].MTime.Equal(metaTime))
	})

	t.Run("extension keeps every part after the first period", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "page.html.erb", "body")

		items, err := newTestCollector(t).Collect(context.Background(), root)
		require.NoError(t, err)

		assert.Equal(t, "/page", items[0].Key)
		assert.Equal(t, "html.erb", items[0].Extension)
	})

	t.Run("periods allowed in identifiers", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "jquery.min.js", "js")

		items, err := newTestCollector(t, WithAllowPeriodsInIdentifiers(true)).Collect(context.Background(), root)
		require.NoError(t, err)

		assert.Equal(t, "/jquery.min", items[0].Key)
		assert.Equal(t, "js", items[0].Extension)
	})

	t.Run("item IDs are stable across calls", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "page.html", "body")
		c := newTestCollector(t)

		first, err := c.Collect(context.Background(), root)
		require.NoError(t, err)
		second, err := c.Collect(context.Background(), root)
		require.NoError(t, err)

		assert.NotEmpty(t, first[0].ID)
		assert.Equal(t, first[0].ID, second[0].ID)
	})

	t.Run("custom metadata extensions", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "page.html", "body")
		writeFile(t, root, "page.yaml", "title: x")

		items, err := newTestCollector(t, WithMetadataExtensions([]string{"yml"})).Collect(context.Background(), root)

		// page.yaml is now a second content file for /page.
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAmbiguousPair)
		assert.Nil(t, items)
	})
}
