package registry

import (
	"fmt"

	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

// IssueKind classifies an integrity finding.
type IssueKind string

// Integrity finding kinds. Dangling references are found by the query
// index (index.Dangling); Check reports the rest.
const (
	IssueDanglingRelationship IssueKind = "dangling_relationship"
	IssueDanglingRelation     IssueKind = "dangling_relation_field"
	IssueDuplicateField       IssueKind = "duplicate_field"
	IssueDuplicateKey         IssueKind = "duplicate_schema_key"
	IssueUnsafeKey            IssueKind = "unsafe_schema_key"
)

// Issue is one integrity finding. ItemID names the field or relationship
// involved, when there is one.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	EntityID string    `json:"entityId"`
	ItemID   string    `json:"itemId,omitempty"`
	Message  string    `json:"message"`
}

// Check reports field names repeated within an entity, type tags shared by
// several entities, and schema keys that cannot name export files. It never
// modifies anything; the registry accepts all of these states.
func Check(entities []types.Entity) []Issue {
	var issues []Issue
	keyOwner := make(map[string]string, len(entities))
	for _, e := range entities {
		names := make(map[string]bool, len(e.Fields))
		for _, f := range e.Fields {
			if names[f.Name] {
				issues = append(issues, Issue{
					Kind:     IssueDuplicateField,
					EntityID: e.ID,
					ItemID:   f.ID,
					Message:  fmt.Sprintf("field name %q is used more than once", f.Name),
				})
			}
			names[f.Name] = true
		}

		key := e.Key()
		if err := types.ValidateKey(key); err != nil {
			issues = append(issues, Issue{
				Kind:     IssueUnsafeKey,
				EntityID: e.ID,
				Message:  fmt.Sprintf("schema key %q cannot name export files", key),
			})
		}
		if owner, ok := keyOwner[key]; ok {
			issues = append(issues, Issue{
				Kind:     IssueDuplicateKey,
				EntityID: e.ID,
				Message:  fmt.Sprintf("schema key %q is shared with entity %q; the later schema replaces the earlier", key, owner),
			})
		} else {
			keyOwner[key] = e.ID
		}
	}
	return issues
}

// Check runs Check over the store's current entities.
func (s *Store) Check() []Issue {
	return Check(s.Entities())
}
