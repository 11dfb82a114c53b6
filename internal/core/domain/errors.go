package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent ingestion failures.
// Typed errors below unwrap to one of these sentinels.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidMetadata indicates metadata that is malformed or not a mapping.
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrInvalidFormat indicates unterminated or ambiguous embedded front matter.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrAmbiguousPair indicates several content or metadata files share a basename.
	ErrAmbiguousPair = errors.New("ambiguous file pair")

	// ErrWatcherClosed indicates the watcher registry has been closed.
	ErrWatcherClosed = errors.New("watcher closed")

	// ErrUnsupportedType indicates an unknown metadata format or encoding.
	ErrUnsupportedType = errors.New("unsupported type")
)

// MetadataError reports metadata that could not be decoded into a mapping.
type MetadataError struct {
	// Path is the file the metadata came from.
	Path string

	// Kind is the shape that was found instead of a mapping, e.g. "Array".
	// Empty when the decoder itself rejected the data.
	Kind string

	// Err is the underlying decoder error, if any.
	Err error
}

func (e *MetadataError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s has invalid metadata (expected key-value pairs, found %s instead)", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s has invalid metadata: %v", e.Path, e.Err)
}

// Unwrap returns both the sentinel and the decoder error.
func (e *MetadataError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidMetadata}
	}
	return []error{ErrInvalidMetadata, e.Err}
}

// FormatError reports embedded front matter that cannot be split.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s has an invalid format: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidFormat.
func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

// PairError reports files that cannot be grouped into a single FilePair.
type PairError struct {
	Paths  []string
	Reason string
}

func (e *PairError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Paths, ", "))
}

// Unwrap returns ErrAmbiguousPair.
func (e *PairError) Unwrap() error {
	return ErrAmbiguousPair
}
