package frontmatter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
	"github.com/custodia-labs/sitesource/internal/logger"
	"github.com/custodia-labs/sitesource/internal/normalisers/plaintext"
)

// DefaultSeparatorMinLength is the minimum number of dashes in a separator line.
const DefaultSeparatorMinLength = 4

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Parser splits file pairs into attributes and content.
// A Parser holds no mutable state and is safe for concurrent use.
type Parser struct {
	decoders     driven.DecoderRegistry
	text         *plaintext.Normaliser
	minSeparator int
}

// Option configures a Parser.
type Option func(*Parser)

// WithSeparatorMinLength sets the minimum number of dashes in a separator.
// Values below 1 are ignored.
func WithSeparatorMinLength(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.minSeparator = n
		}
	}
}

// WithNormaliser sets the text normaliser used to decode files.
func WithNormaliser(n *plaintext.Normaliser) Option {
	return func(p *Parser) {
		if n != nil {
			p.text = n
		}
	}
}

// New creates a parser that decodes metadata with decoders.
func New(decoders driven.DecoderRegistry, opts ...Option) *Parser {
	p := &Parser{
		decoders:     decoders,
		minSeparator: DefaultSeparatorMinLength,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.text == nil {
		// UTF-8 is always available.
		p.text, _ = plaintext.New("utf-8")
	}
	return p
}

// Parse reads the files in pair and splits them into attributes and content.
func (p *Parser) Parse(pair domain.FilePair) (*domain.ParsedDocument, error) {
	if err := pair.Validate(); err != nil {
		return nil, fmt.Errorf("parse: %w: no content or metadata path", err)
	}

	var (
		doc *domain.ParsedDocument
		err error
	)
	switch {
	case !pair.HasContent():
		doc, err = p.parseMetaOnly(pair.MetaPath)
	case pair.HasMeta() && !samePath(pair.ContentPath, pair.MetaPath):
		doc, err = p.parseExternal(pair.ContentPath, pair.MetaPath)
	default:
		doc, err = p.parseCombined(pair.ContentPath)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Parsed %s: %d attributes, %d bytes of content",
		strings.Join(pair.Paths(), " + "), doc.Attributes.Len(), len(doc.Content))
	return doc, nil
}

// ParseBytes splits already-read combined file data. path is used for
// error reporting only.
func (p *Parser) ParseBytes(data []byte, path string) (*domain.ParsedDocument, error) {
	text, err := p.text.Normalise(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.split(text, path)
}

func (p *Parser) parseMetaOnly(metaPath string) (*domain.ParsedDocument, error) {
	meta, err := p.read(metaPath)
	if err != nil {
		return nil, err
	}
	attrs, err := p.decodeMetaFile(metaPath, meta)
	if err != nil {
		return nil, err
	}
	return &domain.ParsedDocument{Attributes: attrs, Content: ""}, nil
}

func (p *Parser) parseExternal(contentPath, metaPath string) (*domain.ParsedDocument, error) {
	content, err := p.read(contentPath)
	if err != nil {
		return nil, err
	}
	meta, err := p.read(metaPath)
	if err != nil {
		return nil, err
	}
	attrs, err := p.decodeMetaFile(metaPath, meta)
	if err != nil {
		return nil, err
	}
	return &domain.ParsedDocument{Attributes: attrs, Content: content}, nil
}

func (p *Parser) parseCombined(contentPath string) (*domain.ParsedDocument, error) {
	text, err := p.read(contentPath)
	if err != nil {
		return nil, err
	}
	return p.split(text, contentPath)
}

// split separates embedded front matter from content. A file whose first
// line is not a separator has no metadata.
func (p *Parser) split(text, path string) (*domain.ParsedDocument, error) {
	first, rest, _ := strings.Cut(text, "\n")
	sep, ok := p.separator(first)
	if !ok {
		return &domain.ParsedDocument{Attributes: domain.Attributes{}, Content: text}, nil
	}

	metaEnd := 0
	remaining := rest
	for {
		line, after, found := strings.Cut(remaining, "\n")
		if s, ok := p.separator(line); ok && s == sep {
			attrs, err := p.decoders.Default().Decode([]byte(rest[:metaEnd]), path)
			if err != nil {
				return nil, err
			}
			return &domain.ParsedDocument{
				Attributes: attrs,
				Content:    strings.TrimPrefix(after, "\n"),
			}, nil
		}
		if !found {
			return nil, &domain.FormatError{
				Path:   path,
				Reason: fmt.Sprintf("front matter opened with %q is never closed", sep),
			}
		}
		metaEnd += len(line) + 1
		remaining = after
	}
}

// separator reports whether line is a separator and returns its dash run.
// Trailing spaces and tabs are ignored.
func (p *Parser) separator(line string) (string, bool) {
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) < p.minSeparator {
		return "", false
	}
	if strings.Trim(trimmed, "-") != "" {
		return "", false
	}
	return trimmed, true
}

func (p *Parser) decodeMetaFile(path, data string) (domain.Attributes, error) {
	decoder, ok := p.decoders.ForExtension(filepath.Ext(path))
	if !ok {
		decoder = p.decoders.Default()
	}
	return decoder.Decode([]byte(data), path)
}

func (p *Parser) read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	text, err := p.text.Normalise(data)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return text, nil
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
