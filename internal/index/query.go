package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

// Filter narrows ListEntities. Zero members match everything. Name matches
// case-insensitively as a substring.
type Filter struct {
	Status     types.Status
	Type       string
	Name       string
	ExternalID string
}

// EntityRow summarizes one entity.
type EntityRow struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Type          string       `json:"type"`
	Status        types.Status `json:"status"`
	Fields        int          `json:"fields"`
	Relationships int          `json:"relationships"`
}

// Reference is one place an entity id is referred to.
type Reference struct {
	EntityID   string `json:"entityId"`
	EntityName string `json:"entityName"`
	Kind       string `json:"kind"` // "relationship" or "field"
	ItemID     string `json:"itemId"`
	ItemName   string `json:"itemName"`
	Target     string `json:"target,omitempty"` // set by Dangling
}

// Reference kinds.
const (
	RefRelationship = "relationship"
	RefField        = "field"
)

// FieldRow locates one field within the registry.
type FieldRow struct {
	EntityID   string `json:"entityId"`
	EntityType string `json:"entityType"`
	FieldID    string `json:"fieldId"`
	FieldName  string `json:"fieldName"`
	Required   bool   `json:"required"`
	Multi      bool   `json:"multi"`
}

// ListEntities returns the entities matching f in registry order.
func (ix *Index) ListEntities(ctx context.Context, f Filter) ([]EntityRow, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "e.status = ?")
		args = append(args, string(f.Status))
	}
	if f.Type != "" {
		where = append(where, "e.type = ?")
		args = append(args, f.Type)
	}
	if f.Name != "" {
		where = append(where, "instr(lower(e.name), lower(?)) > 0")
		args = append(args, f.Name)
	}
	if f.ExternalID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM external_ids x WHERE x.entity_ordinal = e.ordinal AND x.external_id = ?)")
		args = append(args, f.ExternalID)
	}

	q := `SELECT e.entity_id, e.name, e.type, e.status,
    (SELECT count(*) FROM fields f WHERE f.entity_ordinal = e.ordinal),
    (SELECT count(*) FROM relationships r WHERE r.entity_ordinal = e.ordinal)
FROM entities e`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY e.ordinal"

	rows, err := ix.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var out []EntityRow
	for rows.Next() {
		var r EntityRow
		var status string
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &status, &r.Fields, &r.Relationships); err != nil {
			return nil, fmt.Errorf("scanning entity row: %w", err)
		}
		r.Status = types.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Referrers returns every relationship and relation field whose target is
// id, ordered by referring entity and then by position.
func (ix *Index) Referrers(ctx context.Context, id string) ([]Reference, error) {
	const q = `SELECT e.entity_id, e.name, ?, r.relationship_id, r.name, e.ordinal, 0, r.ordinal
FROM relationships r JOIN entities e ON e.ordinal = r.entity_ordinal
WHERE r.target = ?
UNION ALL
SELECT e.entity_id, e.name, ?, f.field_id, f.name, e.ordinal, 1, f.ordinal
FROM fields f JOIN entities e ON e.ordinal = f.entity_ordinal
WHERE f.field_type = ? AND f.target = ?
ORDER BY 6, 7, 8`

	rows, err := ix.db.QueryContext(ctx, q, RefRelationship, id, RefField, string(types.FieldRelation), id)
	if err != nil {
		return nil, fmt.Errorf("finding referrers of %s: %w", id, err)
	}
	defer rows.Close()

	var out []Reference
	for rows.Next() {
		var (
			r            Reference
			eo, grp, pos int
		)
		if err := rows.Scan(&r.EntityID, &r.EntityName, &r.Kind, &r.ItemID, &r.ItemName, &eo, &grp, &pos); err != nil {
			return nil, fmt.Errorf("scanning reference row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FieldsOfType returns every field of type ft across the registry.
func (ix *Index) FieldsOfType(ctx context.Context, ft types.FieldType) ([]FieldRow, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT e.entity_id, e.type, f.field_id, f.name, f.required, f.multi
FROM fields f JOIN entities e ON e.ordinal = f.entity_ordinal
WHERE f.field_type = ?
ORDER BY e.ordinal, f.ordinal`, string(ft))
	if err != nil {
		return nil, fmt.Errorf("listing %s fields: %w", ft, err)
	}
	defer rows.Close()

	var out []FieldRow
	for rows.Next() {
		var r FieldRow
		if err := rows.Scan(&r.EntityID, &r.EntityType, &r.FieldID, &r.FieldName, &r.Required, &r.Multi); err != nil {
			return nil, fmt.Errorf("scanning field row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountByStatus returns how many entities carry each status.
func (ix *Index) CountByStatus(ctx context.Context) (map[types.Status]int, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT status, count(*) FROM entities GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting statuses: %w", err)
	}
	defer rows.Close()

	out := make(map[types.Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		out[types.Status(status)] = n
	}
	return out, rows.Err()
}

// Dangling returns every relationship and relation field whose non-empty
// target names no entity in the snapshot.
func (ix *Index) Dangling(ctx context.Context) ([]Reference, error) {
	const q = `SELECT e.entity_id, e.name, ?, r.relationship_id, r.name, r.target, e.ordinal, 0, r.ordinal
FROM relationships r JOIN entities e ON e.ordinal = r.entity_ordinal
WHERE r.target <> '' AND NOT EXISTS (SELECT 1 FROM entities t WHERE t.entity_id = r.target)
UNION ALL
SELECT e.entity_id, e.name, ?, f.field_id, f.name, f.target, e.ordinal, 1, f.ordinal
FROM fields f JOIN entities e ON e.ordinal = f.entity_ordinal
WHERE f.field_type = ? AND f.target <> '' AND NOT EXISTS (SELECT 1 FROM entities t WHERE t.entity_id = f.target)
ORDER BY 7, 8, 9`

	rows, err := ix.db.QueryContext(ctx, q, RefRelationship, RefField, string(types.FieldRelation))
	if err != nil {
		return nil, fmt.Errorf("finding dangling references: %w", err)
	}
	defer rows.Close()

	var out []Reference
	for rows.Next() {
		var (
			r            Reference
			eo, grp, pos int
		)
		if err := rows.Scan(&r.EntityID, &r.EntityName, &r.Kind, &r.ItemID, &r.ItemName, &r.Target, &eo, &grp, &pos); err != nil {
			return nil, fmt.Errorf("scanning reference row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
