package cli

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
)

// mockSiteSource implements driving.SiteSource for testing.
type mockSiteSource struct {
	items    []domain.Item
	layouts  []domain.Item
	statuses []domain.ItemStatus
	err      error
	recorded bool

	streams []*mockStream
}

func (m *mockSiteSource) LoadItems(_ context.Context) ([]domain.Item, error) {
	return m.items, m.err
}

func (m *mockSiteSource) LoadLayouts(_ context.Context) ([]domain.Item, error) {
	return m.layouts, m.err
}

func (m *mockSiteSource) ItemChanges() (driven.ChangeStream, error) {
	return m.stream(domain.RootItems)
}

func (m *mockSiteSource) LayoutChanges() (driven.ChangeStream, error) {
	return m.stream(domain.RootLayouts)
}

func (m *mockSiteSource) stream(kind domain.RootKind) (driven.ChangeStream, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := &mockStream{ch: make(chan domain.ChangeEvent, 1)}
	s.ch <- domain.ChangeEvent{Root: kind}
	m.streams = append(m.streams, s)
	return s, nil
}

func (m *mockSiteSource) Status(_ context.Context) ([]domain.ItemStatus, error) {
	return m.statuses, m.err
}

func (m *mockSiteSource) Record(_ context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.recorded = true
	return len(m.items), nil
}

// mockStream holds one pending event.
type mockStream struct {
	ch      chan domain.ChangeEvent
	stopped bool
}

func (s *mockStream) Next() (domain.ChangeEvent, bool) {
	ev, ok := <-s.ch
	return ev, ok
}
func (s *mockStream) Events() <-chan domain.ChangeEvent { return s.ch }
func (s *mockStream) All() iter.Seq[domain.ChangeEvent] {
	return func(func(domain.ChangeEvent) bool) {}
}
func (s *mockStream) Stop() {
	if !s.stopped {
		s.stopped = true
		close(s.ch)
	}
}

// mockParser returns a fixed document and records the pair it was given.
type mockParser struct {
	doc  *domain.ParsedDocument
	err  error
	pair domain.FilePair
}

func (m *mockParser) Parse(pair domain.FilePair) (*domain.ParsedDocument, error) {
	m.pair = pair
	return m.doc, m.err
}

// execute runs the root command with svc injected and returns its output.
func execute(t *testing.T, svc *Services, args ...string) (string, error) {
	t.Helper()

	oldServices, oldOpts := services, opts
	services = svc
	watchOnce, parseMetaOnly, statusAll = false, false, false
	t.Cleanup(func() {
		services, opts = oldServices, oldOpts
		watchOnce, parseMetaOnly, statusAll = false, false, false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCollectCmd(t *testing.T) {
	site := &mockSiteSource{
		items: []domain.Item{
			{Key: "/index", Extension: "html", AttributesChecksum: "aaaa", ContentChecksum: "cccc"},
			{Key: "/data", AttributesChecksum: "bbbb", ContentChecksum: "dddd"},
		},
		layouts: []domain.Item{{Key: "/default", Extension: "erb"}},
	}

	t.Run("items by default", func(t *testing.T) {
		out, err := execute(t, &Services{Site: site}, "collect")

		require.NoError(t, err)
		assert.Contains(t, out, "KEY")
		assert.Regexp(t, `/index\s+html\s+aaaa\s+cccc`, out)
		assert.Regexp(t, `/data\s+-\s+bbbb\s+dddd`, out)
		assert.Contains(t, out, "2 items")
	})

	t.Run("layouts", func(t *testing.T) {
		out, err := execute(t, &Services{Site: site}, "collect", "layouts")

		require.NoError(t, err)
		assert.Contains(t, out, "/default")
		assert.Contains(t, out, "1 layouts")
	})

	t.Run("unknown root", func(t *testing.T) {
		_, err := execute(t, &Services{Site: site}, "collect", "assets")
		assert.Error(t, err)
	})

	t.Run("collection error", func(t *testing.T) {
		_, err := execute(t, &Services{Site: &mockSiteSource{err: domain.ErrInvalidMetadata}}, "collect")

		assert.ErrorIs(t, err, domain.ErrInvalidMetadata)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := execute(t, nil, "collect")
		assert.Error(t, err)
	})
}

func TestParseCmd(t *testing.T) {
	doc := &domain.ParsedDocument{
		Attributes: domain.Attributes{{Key: "title", Value: "Hello"}},
		Content:    "body text\n",
	}

	t.Run("combined file", func(t *testing.T) {
		p := &mockParser{doc: doc}
		out, err := execute(t, &Services{Parser: p}, "parse", "page.html")

		require.NoError(t, err)
		assert.Equal(t, domain.FilePair{ContentPath: "page.html"}, p.pair)
		assert.Equal(t, "---\ntitle: Hello\n---\nbody text\n", out)
	})

	t.Run("external metadata", func(t *testing.T) {
		p := &mockParser{doc: doc}
		_, err := execute(t, &Services{Parser: p}, "parse", "page.html", "page.yaml")

		require.NoError(t, err)
		assert.Equal(t, domain.FilePair{ContentPath: "page.html", MetaPath: "page.yaml"}, p.pair)
	})

	t.Run("metadata only", func(t *testing.T) {
		p := &mockParser{doc: &domain.ParsedDocument{Attributes: domain.Attributes{}}}
		out, err := execute(t, &Services{Parser: p}, "parse", "--meta", "data.yaml")

		require.NoError(t, err)
		assert.Equal(t, domain.FilePair{MetaPath: "data.yaml"}, p.pair)
		assert.Equal(t, "---\n{}\n---\n", out)
	})

	t.Run("metadata only takes one file", func(t *testing.T) {
		_, err := execute(t, &Services{Parser: &mockParser{doc: doc}}, "parse", "--meta", "a.yaml", "b.yaml")
		assert.Error(t, err)
	})

	t.Run("parse error", func(t *testing.T) {
		p := &mockParser{err: &domain.FormatError{Path: "page.html", Reason: "unterminated front matter"}}
		_, err := execute(t, &Services{Parser: p}, "parse", "page.html")

		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	})
}

func TestWatchCmd(t *testing.T) {
	t.Run("prints the first change and exits", func(t *testing.T) {
		site := &mockSiteSource{}
		out, err := execute(t, &Services{Site: site}, "watch", "layouts", "--once")

		require.NoError(t, err)
		assert.Contains(t, out, "changed: layouts")
		require.Len(t, site.streams, 1)
		assert.True(t, site.streams[0].stopped)
	})

	t.Run("stops every stream", func(t *testing.T) {
		site := &mockSiteSource{}
		_, err := execute(t, &Services{Site: site}, "watch", "--once")

		require.NoError(t, err)
		require.Len(t, site.streams, 2)
		for _, s := range site.streams {
			assert.True(t, s.stopped)
		}
	})

	t.Run("ends when every stream ends", func(t *testing.T) {
		s := &mockStream{ch: make(chan domain.ChangeEvent)}
		s.Stop()

		err := watchLoop(context.Background(), watchCmd, []driven.ChangeStream{s})
		assert.NoError(t, err)
	})

	t.Run("start error", func(t *testing.T) {
		_, err := execute(t, &Services{Site: &mockSiteSource{err: domain.ErrNotFound}}, "watch")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStatusCmd(t *testing.T) {
	site := &mockSiteSource{statuses: []domain.ItemStatus{
		{Key: "/a", State: domain.StateUnchanged},
		{Key: "/b", State: domain.StateContentChanged},
		{Key: "/c", State: domain.StateAdded},
	}}

	t.Run("changed items only", func(t *testing.T) {
		out, err := execute(t, &Services{Site: site}, "status")

		require.NoError(t, err)
		assert.NotContains(t, out, "/a")
		assert.Regexp(t, `content changed\s+/b`, out)
		assert.Regexp(t, `added\s+/c`, out)
	})

	t.Run("all items", func(t *testing.T) {
		out, err := execute(t, &Services{Site: site}, "status", "--all")

		require.NoError(t, err)
		assert.Regexp(t, `unchanged\s+/a`, out)
	})

	t.Run("nothing changed", func(t *testing.T) {
		clean := &mockSiteSource{statuses: []domain.ItemStatus{{Key: "/a", State: domain.StateUnchanged}}}
		out, err := execute(t, &Services{Site: clean}, "status")

		require.NoError(t, err)
		assert.Contains(t, out, "No changes.")
	})
}

func TestRecordCmd(t *testing.T) {
	t.Run("records items", func(t *testing.T) {
		site := &mockSiteSource{items: []domain.Item{{Key: "/a"}, {Key: "/b"}}}
		out, err := execute(t, &Services{Site: site}, "record")

		require.NoError(t, err)
		assert.True(t, site.recorded)
		assert.Contains(t, out, "Recorded 2 items.")
	})

	t.Run("error", func(t *testing.T) {
		_, err := execute(t, &Services{Site: &mockSiteSource{err: errors.New("disk full")}}, "record")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "record failed")
	})
}

func TestInitCmd(t *testing.T) {
	t.Run("writes the default configuration", func(t *testing.T) {
		dir := t.TempDir()
		out, err := execute(t, nil, "init", "--site", dir)

		require.NoError(t, err)
		path := filepath.Join(dir, "sitesource.toml")
		assert.FileExists(t, path)
		assert.Contains(t, out, path)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		require.NoError(t, os.WriteFile(path, []byte("workers = 2\n"), 0644))

		_, err := execute(t, nil, "init", "--config", path)
		assert.Error(t, err)
	})
}

func TestRoot_Bootstrap(t *testing.T) {
	oldBootstrap := bootstrap
	defer func() { bootstrap = oldBootstrap }()

	var got Options
	closed := false
	site := &mockSiteSource{items: []domain.Item{{Key: "/a"}}}
	SetBootstrap(func(o Options) (*Services, error) {
		got = o
		return &Services{Site: site, Close: func() error {
			closed = true
			return nil
		}}, nil
	})

	dir := t.TempDir()
	_, err := execute(t, nil, "record", "--site", dir)

	require.NoError(t, err)
	assert.Equal(t, dir, got.SiteDir)
	assert.True(t, site.recorded)
	assert.True(t, closed)
}

func TestRoot_BootstrapError(t *testing.T) {
	oldBootstrap := bootstrap
	defer func() { bootstrap = oldBootstrap }()
	SetBootstrap(func(Options) (*Services, error) {
		return nil, domain.ErrInvalidInput
	})

	_, err := execute(t, nil, "status")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseRootKind(t *testing.T) {
	kind, err := parseRootKind(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RootItems, kind)

	kind, err = parseRootKind([]string{"layouts"})
	require.NoError(t, err)
	assert.Equal(t, domain.RootLayouts, kind)

	_, err = parseRootKind([]string{"other"})
	assert.Error(t, err)
}

func TestStyles_State(t *testing.T) {
	var buf bytes.Buffer
	st := newStyles(&buf)

	for _, state := range []domain.ItemState{
		domain.StateUnchanged, domain.StateAdded, domain.StateRemoved,
		domain.StateContentChanged, domain.StateAttributesChanged, domain.StateChanged,
	} {
		got := st.State(state)
		assert.Len(t, got, stateWidth, state.String())
		assert.Contains(t, got, state.String())
	}
}
