// Package registry holds the authored entity-relationship model in memory:
// the Store of committed entities and the Session that tracks the draft and
// the current selection.
package registry

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

// Store holds the ordered list of entities. Operations that name an unknown
// identifier leave the store unchanged and return types.ErrNotFound.
// Returned entities are deep copies.
type Store struct {
	mu       sync.RWMutex
	entities []*types.Entity

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// EntityPatch carries the attributes to overwrite in UpdateEntity. Nil
// members are left unchanged. Fields and Relationships replace the whole list.
type EntityPatch struct {
	Name          *string
	Type          *string
	Status        *types.Status
	Description   *string
	ExternalIDs   *[]string
	Fields        *[]types.Field
	Relationships *[]types.Relationship
}

// FieldPatch carries the attributes to overwrite in UpdateField.
type FieldPatch struct {
	Name        *string
	Type        *types.FieldType
	Required    *bool
	Multi       *bool
	Description *string
	Options     *[]string
	Target      *string
}

// RelationshipPatch carries the attributes to overwrite in UpdateRelationship.
type RelationshipPatch struct {
	Name        *string
	Target      *string
	Cardinality *types.Cardinality
	Required    *bool
	Description *string
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		newID: generateUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// find returns the entity with the given ID. The caller must hold s.mu.
func (s *Store) find(id string) (int, *types.Entity) {
	for i, e := range s.entities {
		if e.ID == id {
			return i, e
		}
	}
	return -1, nil
}

func (s *Store) notFound(op, id string) error {
	s.debug("unknown entity, no-op", "op", op, "id", id)
	return fmt.Errorf("%s %q: %w", op, id, types.ErrNotFound)
}

// CreateEntity commits a draft as a new entity with a fresh ID and creation
// timestamp. Missing lists default to empty and a missing status to draft.
func (s *Store) CreateEntity(d types.Draft) types.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := d.Status
	if status == "" {
		status = types.StatusDraft
	}
	e := types.Entity{
		ID:            s.newID(),
		Name:          d.Name,
		Type:          d.Type,
		Status:        status,
		Description:   d.Description,
		ExternalIDs:   d.ExternalIDs,
		CreatedAt:     s.now().UTC(),
		Fields:        d.Fields,
		Relationships: d.Relationships,
	}
	e = e.Clone()
	e.Normalize()
	s.entities = append(s.entities, &e)

	s.debug("entity created", "id", e.ID, "type", e.Type)
	return e.Clone()
}

// UpdateEntity shallow-merges patch into the entity with the given ID.
func (s *Store) UpdateEntity(id string, patch EntityPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, e := s.find(id)
	if e == nil {
		return s.notFound("update entity", id)
	}
	applyPatch(e, patch)

	s.debug("entity updated", "id", id)
	return nil
}

// editEntity runs a read-copy-replace of one entity under a single write
// lock: edit receives a copy and returns the patch to apply.
func (s *Store) editEntity(op, id string, edit func(e *types.Entity) (EntityPatch, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, e := s.find(id)
	if e == nil {
		return s.notFound(op, id)
	}
	cp := e.Clone()
	patch, err := edit(&cp)
	if err != nil {
		return err
	}
	applyPatch(e, patch)

	s.debug("entity updated", "id", id, "op", op)
	return nil
}

func applyPatch(e *types.Entity, patch EntityPatch) {
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Type != nil {
		e.Type = *patch.Type
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.ExternalIDs != nil {
		e.ExternalIDs = append([]string{}, (*patch.ExternalIDs)...)
	}
	if patch.Fields != nil {
		fields := make([]types.Field, len(*patch.Fields))
		for i, f := range *patch.Fields {
			fields[i] = f.Clone()
		}
		e.Fields = fields
	}
	if patch.Relationships != nil {
		e.Relationships = append([]types.Relationship{}, (*patch.Relationships)...)
	}
}

// RemoveEntity deletes the entity with the given ID. Relationships in other
// entities that target it are left as they are.
func (s *Store) RemoveEntity(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, _ := s.find(id)
	if i < 0 {
		return s.notFound("remove entity", id)
	}
	s.entities = append(s.entities[:i], s.entities[i+1:]...)

	s.debug("entity removed", "id", id)
	return nil
}

// AddField appends a default field (type string, optional, single-valued) to
// the entity and returns it.
func (s *Store) AddField(entityID string) (types.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, e := s.find(entityID)
	if e == nil {
		return types.Field{}, s.notFound("add field", entityID)
	}
	f := types.Field{
		ID:   s.newID(),
		Name: fmt.Sprintf("field%d", len(e.Fields)+1),
		Type: types.FieldString,
	}
	e.Fields = append(e.Fields, f)

	s.debug("field added", "entity", entityID, "field", f.ID)
	return f, nil
}

// AddRelationship appends a default 1:n relationship without a target to the
// entity and returns it.
func (s *Store) AddRelationship(entityID string) (types.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, e := s.find(entityID)
	if e == nil {
		return types.Relationship{}, s.notFound("add relationship", entityID)
	}
	r := types.Relationship{
		ID:          s.newID(),
		Name:        fmt.Sprintf("relationship%d", len(e.Relationships)+1),
		Cardinality: types.OneToMany,
	}
	e.Relationships = append(e.Relationships, r)

	s.debug("relationship added", "entity", entityID, "relationship", r.ID)
	return r, nil
}

// SaveVersion appends a change-log entry holding a deep copy of the entity's
// current state. The snapshot does not nest the earlier change log.
func (s *Store) SaveVersion(entityID, author, note string) (types.ChangeLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, e := s.find(entityID)
	if e == nil {
		return types.ChangeLogEntry{}, s.notFound("save version", entityID)
	}

	snapshot := e.Clone()
	snapshot.ChangeLog = nil

	var prev *types.ChangeLogEntry
	if n := len(e.ChangeLog); n > 0 {
		prev = &e.ChangeLog[n-1]
	}
	entry := types.ChangeLogEntry{
		ID:        s.newID(),
		Author:    author,
		Timestamp: s.now().UTC(),
		Note:      note,
		Version:   nextVersion(prev, snapshot),
		Snapshot:  snapshot,
	}
	e.ChangeLog = append(e.ChangeLog, entry)

	s.debug("version saved", "entity", entityID, "version", entry.Version)
	return entry, nil
}

// Entities returns a copy of all entities in insertion order.
func (s *Store) Entities() []types.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Entity, len(s.entities))
	for i, e := range s.entities {
		out[i] = e.Clone()
	}
	return out
}

// Entity returns a copy of the entity with the given ID.
func (s *Store) Entity(id string) (types.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, e := s.find(id)
	if e == nil {
		return types.Entity{}, false
	}
	return e.Clone(), true
}

// Len returns the number of entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Replace swaps the whole entity list, as done by an import.
func (s *Store) Replace(entities []types.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entities = make([]*types.Entity, len(entities))
	for i := range entities {
		e := entities[i].Clone()
		e.Normalize()
		s.entities[i] = &e
	}
	s.debug("entities replaced", "count", len(entities))
}

// UpdateField patches one field by editing a copy of the entity's field
// list and writing the whole list back, all under one lock.
func (s *Store) UpdateField(entityID, fieldID string, patch FieldPatch) error {
	return s.editEntity("update field", entityID, func(e *types.Entity) (EntityPatch, error) {
		i := e.FieldIndex(fieldID)
		if i < 0 {
			return EntityPatch{}, fmt.Errorf("update field %q: %w", fieldID, types.ErrFieldNotFound)
		}
		f := &e.Fields[i]
		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.Type != nil {
			f.Type = *patch.Type
		}
		if patch.Required != nil {
			f.Required = *patch.Required
		}
		if patch.Multi != nil {
			f.Multi = *patch.Multi
		}
		if patch.Description != nil {
			f.Description = *patch.Description
		}
		if patch.Options != nil {
			f.Options = append([]string{}, (*patch.Options)...)
		}
		if patch.Target != nil {
			f.Target = *patch.Target
		}
		return EntityPatch{Fields: &e.Fields}, nil
	})
}

// RemoveField drops one field from the entity.
func (s *Store) RemoveField(entityID, fieldID string) error {
	return s.editEntity("remove field", entityID, func(e *types.Entity) (EntityPatch, error) {
		i := e.FieldIndex(fieldID)
		if i < 0 {
			return EntityPatch{}, fmt.Errorf("remove field %q: %w", fieldID, types.ErrFieldNotFound)
		}
		fields := append(e.Fields[:i], e.Fields[i+1:]...)
		return EntityPatch{Fields: &fields}, nil
	})
}

// UpdateRelationship patches one relationship of the entity.
func (s *Store) UpdateRelationship(entityID, relID string, patch RelationshipPatch) error {
	return s.editEntity("update relationship", entityID, func(e *types.Entity) (EntityPatch, error) {
		i := e.RelationshipIndex(relID)
		if i < 0 {
			return EntityPatch{}, fmt.Errorf("update relationship %q: %w", relID, types.ErrRelNotFound)
		}
		r := &e.Relationships[i]
		if patch.Name != nil {
			r.Name = *patch.Name
		}
		if patch.Target != nil {
			r.Target = *patch.Target
		}
		if patch.Cardinality != nil {
			r.Cardinality = *patch.Cardinality
		}
		if patch.Required != nil {
			r.Required = *patch.Required
		}
		if patch.Description != nil {
			r.Description = *patch.Description
		}
		return EntityPatch{Relationships: &e.Relationships}, nil
	})
}

// RemoveRelationship drops one relationship from the entity.
func (s *Store) RemoveRelationship(entityID, relID string) error {
	return s.editEntity("remove relationship", entityID, func(e *types.Entity) (EntityPatch, error) {
		i := e.RelationshipIndex(relID)
		if i < 0 {
			return EntityPatch{}, fmt.Errorf("remove relationship %q: %w", relID, types.ErrRelNotFound)
		}
		rels := append(e.Relationships[:i], e.Relationships[i+1:]...)
		return EntityPatch{Relationships: &rels}, nil
	})
}
