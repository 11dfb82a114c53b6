package domain

// ChangeKind classifies a change event.
type ChangeKind int

const (
	// ChangeUnknown means something changed under the root; the watcher
	// does not distinguish additions, modifications and removals.
	ChangeUnknown ChangeKind = iota
)

// String returns a human-readable representation of the kind.
func (k ChangeKind) String() string {
	return "unknown"
}

// RootKind identifies which site root a stream watches.
type RootKind int

const (
	// RootOther is a root with no special meaning.
	RootOther RootKind = iota

	// RootItems is the content root.
	RootItems

	// RootLayouts is the layouts root.
	RootLayouts
)

// String returns a human-readable representation of the root kind.
func (r RootKind) String() string {
	switch r {
	case RootItems:
		return "items"
	case RootLayouts:
		return "layouts"
	default:
		return "other"
	}
}

// ChangeEvent signals that something under a watched root changed.
// Consumers re-scan the root; the event carries no file name.
type ChangeEvent struct {
	Kind ChangeKind
	Root RootKind
}
