package types

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Status is the lifecycle status of an entity definition.
type Status string

// Entity statuses.
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusRetired   Status = "retired"
)

// ParseStatus converts s to a Status.
// Returns ErrInvalidStatus if s is not draft, published, or retired.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusDraft, StatusPublished, StatusRetired:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Entity is an authored master-data type, for example "Product".
type Entity struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Type          string           `json:"type"`
	Status        Status           `json:"status"`
	Description   string           `json:"description,omitempty"`
	ExternalIDs   []string         `json:"externalIds,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	Fields        []Field          `json:"fields"`
	Relationships []Relationship   `json:"relationships"`
	ChangeLog     []ChangeLogEntry `json:"changeLog"`
}

// Key returns the key the entity's schema is exported under: the type tag,
// or the ID when the type tag is empty. Entities sharing a type tag share a key.
func (e *Entity) Key() string {
	if e.Type != "" {
		return e.Type
	}
	return e.ID
}

// ValidateKey checks that a schema key can name per-entity export files.
// The key must be a single local path element.
// Returns ErrInvalidName for empty keys, keys with a path separator, or
// keys that would leave the export directory.
func ValidateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || !filepath.IsLocal(key) {
		return fmt.Errorf("%w: schema key %q is not a plain file name", ErrInvalidName, key)
	}
	return nil
}

// SetStatus sets the lifecycle status.
// Returns ErrInvalidStatus if the status is not recognized.
func (e *Entity) SetStatus(s Status) error {
	if _, err := ParseStatus(string(s)); err != nil {
		return err
	}
	e.Status = s
	return nil
}

// FieldByName returns the first field with the given name.
func (e *Entity) FieldByName(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldIndex returns the position of the field with the given ID, or -1.
func (e *Entity) FieldIndex(id string) int {
	for i, f := range e.Fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// RelationshipIndex returns the position of the relationship with the given ID, or -1.
func (e *Entity) RelationshipIndex(id string) int {
	for i, r := range e.Relationships {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Normalize replaces nil collections with empty ones so the entity
// serializes with explicit [] lists.
func (e *Entity) Normalize() {
	if e.Fields == nil {
		e.Fields = []Field{}
	}
	if e.Relationships == nil {
		e.Relationships = []Relationship{}
	}
	if e.ChangeLog == nil {
		e.ChangeLog = []ChangeLogEntry{}
	}
}

// Clone returns a deep copy of the entity, including its change log.
func (e Entity) Clone() Entity {
	out := e
	if e.ExternalIDs != nil {
		out.ExternalIDs = append([]string{}, e.ExternalIDs...)
	}
	if e.Fields != nil {
		out.Fields = make([]Field, len(e.Fields))
		for i, f := range e.Fields {
			out.Fields[i] = f.Clone()
		}
	}
	if e.Relationships != nil {
		out.Relationships = append([]Relationship{}, e.Relationships...)
	}
	if e.ChangeLog != nil {
		out.ChangeLog = make([]ChangeLogEntry, len(e.ChangeLog))
		for i, c := range e.ChangeLog {
			c.Snapshot = c.Snapshot.Clone()
			out.ChangeLog[i] = c
		}
	}
	return out
}
