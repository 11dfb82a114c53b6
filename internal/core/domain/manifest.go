package domain

import "time"

// ManifestEntry is the recorded checksum state of one item.
type ManifestEntry struct {
	Key                string
	AttributesChecksum string
	ContentChecksum    string
	MTime              time.Time
}

// EntryFromItem builds a manifest entry for an item.
func EntryFromItem(item Item) ManifestEntry {
	return ManifestEntry{
		Key:                item.Key,
		AttributesChecksum: item.AttributesChecksum,
		ContentChecksum:    item.ContentChecksum,
		MTime:              item.MTime,
	}
}

// ItemState describes how an item differs from the recorded manifest.
type ItemState int

const (
	// StateUnchanged means both checksums match the manifest.
	StateUnchanged ItemState = iota

	// StateAdded means the item is not in the manifest.
	StateAdded

	// StateRemoved means the manifest has an entry with no current item.
	StateRemoved

	// StateContentChanged means only the content checksum differs.
	StateContentChanged

	// StateAttributesChanged means only the attributes checksum differs.
	StateAttributesChanged

	// StateChanged means both checksums differ.
	StateChanged
)

// String returns a human-readable representation of the state.
func (s ItemState) String() string {
	switch s {
	case StateUnchanged:
		return "unchanged"
	case StateAdded:
		return "added"
	case StateRemoved:
		return "removed"
	case StateContentChanged:
		return "content changed"
	case StateAttributesChanged:
		return "attributes changed"
	case StateChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// ItemStatus pairs an item key with its state.
type ItemStatus struct {
	Key   string
	State ItemState
}

// CompareEntry classifies a current entry against a recorded one.
func CompareEntry(current, recorded ManifestEntry) ItemState {
	contentSame := current.ContentChecksum == recorded.ContentChecksum
	attrsSame := current.AttributesChecksum == recorded.AttributesChecksum
	switch {
	case contentSame && attrsSame:
		return StateUnchanged
	case contentSame:
		return StateAttributesChanged
	case attrsSame:
		return StateContentChanged
	default:
		return StateChanged
	}
}
