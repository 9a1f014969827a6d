package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

func TestSessionCommit(t *testing.T) {
	sess := NewSession(newTestStore(t))
	sess.SetDraft(types.Draft{Name: "Widget", Type: "widget"})
	assert.Equal(t, "Widget", sess.Draft().Name)

	e := sess.Commit()

	assert.True(t, sess.Draft().IsZero(), "commit clears the draft")
	sel, ok := sess.Selected()
	require.True(t, ok)
	assert.Equal(t, e.ID, sel.ID)
	assert.Equal(t, 1, sess.Store().Len())
}

func TestSessionSelectUnknown(t *testing.T) {
	sess := NewSession(newTestStore(t))
	sess.Select("nope")
	_, ok := sess.Selected()
	assert.False(t, ok)

	sess.Select("")
	_, ok = sess.Selected()
	assert.False(t, ok)
}

func TestSessionRemoveClearsSelection(t *testing.T) {
	sess := NewSession(newTestStore(t))
	sess.SetDraft(types.Draft{Name: "A"})
	a := sess.Commit()
	sess.SetDraft(types.Draft{Name: "B"})
	b := sess.Commit()

	// Removing a non-selected entity keeps the selection.
	require.NoError(t, sess.Remove(a.ID))
	sel, ok := sess.Selected()
	require.True(t, ok)
	assert.Equal(t, b.ID, sel.ID)

	require.NoError(t, sess.Remove(b.ID))
	_, ok = sess.Selected()
	assert.False(t, ok)

	assert.ErrorIs(t, sess.Remove("missing"), types.ErrNotFound)
}

func TestSessionClearDraft(t *testing.T) {
	sess := NewSession(newTestStore(t))
	sess.SetDraft(types.Draft{Name: "Half done"})
	sess.ClearDraft()
	assert.True(t, sess.Draft().IsZero())
	assert.Equal(t, 0, sess.Store().Len())
}
