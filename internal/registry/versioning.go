package registry

import (
	"github.com/Masterminds/semver/v3"

	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

// initialVersion is assigned to the first change-log entry of an entity.
const initialVersion = "1.0.0"

// Change kinds, ordered by severity.
const (
	changeNone = iota
	changeAdditive
	changeBreaking
)

// nextVersion computes the version of a new snapshot relative to the previous
// change-log entry: major for removed or retyped members, minor for added
// members, patch otherwise. A previous entry without a parseable version
// restarts the sequence.
func nextVersion(prev *types.ChangeLogEntry, current types.Entity) string {
	if prev == nil {
		return initialVersion
	}
	v, err := semver.NewVersion(prev.Version)
	if err != nil {
		return initialVersion
	}
	switch diff(prev.Snapshot, current) {
	case changeBreaking:
		return v.IncMajor().String()
	case changeAdditive:
		return v.IncMinor().String()
	default:
		return v.IncPatch().String()
	}
}

// diff classifies the structural change from old to cur by member ID.
func diff(old, cur types.Entity) int {
	kind := changeNone

	curFields := make(map[string]types.Field, len(cur.Fields))
	for _, f := range cur.Fields {
		curFields[f.ID] = f
	}
	for _, f := range old.Fields {
		nf, ok := curFields[f.ID]
		if !ok || nf.Type != f.Type || nf.Multi != f.Multi || (nf.Required && !f.Required) || nf.Name != f.Name {
			return changeBreaking
		}
		delete(curFields, f.ID)
	}
	if len(curFields) > 0 {
		kind = changeAdditive
	}

	curRels := make(map[string]types.Relationship, len(cur.Relationships))
	for _, r := range cur.Relationships {
		curRels[r.ID] = r
	}
	for _, r := range old.Relationships {
		nr, ok := curRels[r.ID]
		if !ok || nr.Cardinality != r.Cardinality || nr.Target != r.Target {
			return changeBreaking
		}
		delete(curRels, r.ID)
	}
	if len(curRels) > 0 {
		kind = changeAdditive
	}
	return kind
}
