package watcher

import (
	"time"
)

type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

type FileEvent struct {
	Path      string
	Type      EventType
	Timestamp time.Time
}

// Batch is one debounced flush, split by what the change invalidates.
// Manifest edits change project structure and require a workspace reload;
// source edits only make the loaded snapshot stale.
type Batch struct {
	Manifests []string
	Sources   []string
}

func (b Batch) Empty() bool {
	return len(b.Manifests) == 0 && len(b.Sources) == 0
}
