package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryFromItem(t *testing.T) {
	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	item := Item{
		Key:                "/post",
		MTime:              mtime,
		AttributesChecksum: "attrs",
		ContentChecksum:    "content",
	}

	assert.Equal(t, ManifestEntry{
		Key:                "/post",
		AttributesChecksum: "attrs",
		ContentChecksum:    "content",
		MTime:              mtime,
	}, EntryFromItem(item))
}

func TestCompareEntry(t *testing.T) {
	recorded := ManifestEntry{Key: "/a", AttributesChecksum: "A", ContentChecksum: "C"}

	tests := []struct {
		name    string
		current ManifestEntry
		want    ItemState
	}{
		{"same", ManifestEntry{AttributesChecksum: "A", ContentChecksum: "C"}, StateUnchanged},
		{"content", ManifestEntry{AttributesChecksum: "A", ContentChecksum: "X"}, StateContentChanged},
		{"attributes", ManifestEntry{AttributesChecksum: "X", ContentChecksum: "C"}, StateAttributesChanged},
		{"both", ManifestEntry{AttributesChecksum: "X", ContentChecksum: "Y"}, StateChanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareEntry(tt.current, recorded))
		})
	}
}

func TestCompareEntry_IgnoresMTime(t *testing.T) {
	a := ManifestEntry{AttributesChecksum: "A", ContentChecksum: "C", MTime: time.Unix(1, 0)}
	b := ManifestEntry{AttributesChecksum: "A", ContentChecksum: "C", MTime: time.Unix(2, 0)}

	assert.Equal(t, StateUnchanged, CompareEntry(a, b))
}

func TestItemState_String(t *testing.T) {
	assert.Equal(t, "unchanged", StateUnchanged.String())
	assert.Equal(t, "added", StateAdded.String())
	assert.Equal(t, "removed", StateRemoved.String())
	assert.Equal(t, "content changed", StateContentChanged.String())
	assert.Equal(t, "attributes changed", StateAttributesChanged.String())
	assert.Equal(t, "changed", StateChanged.String())
	assert.Equal(t, "unknown", ItemState(99).String())
}
