package types

// Draft is the in-progress form state for a new entity. Every field is
// optional; committing a draft fills the gaps with defaults.
type Draft struct {
	Name          string         `json:"name,omitempty"`
	Type          string         `json:"type,omitempty"`
	Status        Status         `json:"status,omitempty"`
	Description   string         `json:"description,omitempty"`
	ExternalIDs   []string       `json:"externalIds,omitempty"`
	Fields        []Field        `json:"fields,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// IsZero reports whether nothing has been entered into the draft.
func (d Draft) IsZero() bool {
	return d.Name == "" && d.Type == "" && d.Status == "" && d.Description == "" &&
		len(d.ExternalIDs) == 0 && len(d.Fields) == 0 && len(d.Relationships) == 0
}
