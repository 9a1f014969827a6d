package types

import "time"

// ChangeLogEntry is an immutable snapshot of an entity taken by an explicit
// save. Version is a semantic version derived from the structural difference
// to the previous entry.
type ChangeLogEntry struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
	Version   string    `json:"version,omitempty"`
	Snapshot  Entity    `json:"snapshot"`
}
