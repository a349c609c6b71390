// Package watching implements a lazy, restartable filesystem event source:
// a recursive native watcher backed by fsnotify, and a no-op source for
// missing roots or tests that don't need real filesystem activity.
package watching

// Kind identifies the category of a filesystem event.
type Kind uint8

const (
	// Created indicates a new file or directory appeared at Path.
	Created Kind = iota
	// Changed indicates the content or metadata of Path was modified.
	Changed
	// Deleted indicates Path no longer exists.
	Deleted
	// Renamed indicates OldPath was renamed to Path.
	Renamed
	// RescanRequired indicates the watcher lost track of state (an error or
	// overflow condition) and the subscriber must perform a full rescan.
	RescanRequired
)

// String returns a human-readable event kind name, for logging.
func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Changed:
		return "changed"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	case RescanRequired:
		return "rescan-required"
	default:
		return "unknown"
	}
}

// Event is a single filesystem notification. OldPath is populated only for
// Renamed; Path is empty for RescanRequired.
type Event struct {
	Kind    Kind
	Path    string
	OldPath string
}

// Source is a lazy, restartable sequence of filesystem events. It is safe
// for the Events channel to be polled from a single goroutine; Source
// implementations are not required to support concurrent calls to Stop.
type Source interface {
	// Events returns the channel on which events are delivered. The channel
	// is closed when the source is stopped.
	Events() <-chan Event
	// Stop terminates the source and releases any underlying resources. It
	// is safe to call Stop more than once.
	Stop()
}
