package registry

import (
	"sync"

	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

// Session is one authoring session over a Store: the draft of the entity
// being created and the identifier of the entity selected for editing.
type Session struct {
	store *Store

	mu       sync.Mutex
	draft    types.Draft
	selected string
}

// NewSession creates a session over store with an empty draft and no selection.
func NewSession(store *Store) *Session {
	return &Session{store: store}
}

// Store returns the underlying store.
func (s *Session) Store() *Store {
	return s.store
}

// Draft returns the current draft.
func (s *Session) Draft() types.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft replaces the draft.
func (s *Session) SetDraft(d types.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
}

// ClearDraft resets the draft to empty.
func (s *Session) ClearDraft() {
	s.SetDraft(types.Draft{})
}

// Commit creates an entity from the draft, clears the draft, and selects the
// new entity.
func (s *Session) Commit() types.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.store.CreateEntity(s.draft)
	s.draft = types.Draft{}
	s.selected = e.ID
	return e
}

// Select marks id as the entity being edited. An unknown id is accepted and
// reads as no selection.
func (s *Session) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// Selected returns the selected entity, or false when nothing is selected or
// the selected id no longer exists.
func (s *Session) Selected() (types.Entity, bool) {
	s.mu.Lock()
	id := s.selected
	s.mu.Unlock()

	if id == "" {
		return types.Entity{}, false
	}
	return s.store.Entity(id)
}

// Remove deletes the entity and clears the selection if it was selected.
func (s *Session) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.RemoveEntity(id); err != nil {
		return err
	}
	if s.selected == id {
		s.selected = ""
	}
	return nil
}
