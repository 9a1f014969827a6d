package types

import "fmt"

// Cardinality of a relationship between two entities.
type Cardinality string

// Supported cardinalities.
const (
	OneToOne   Cardinality = "1:1"
	OneToMany  Cardinality = "1:n"
	ManyToMany Cardinality = "n:m"
)

// ParseCardinality converts s to a Cardinality.
// Returns ErrInvalidCardinality if s is not one of 1:1, 1:n, n:m.
func ParseCardinality(s string) (Cardinality, error) {
	switch c := Cardinality(s); c {
	case OneToOne, OneToMany, ManyToMany:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCardinality, s)
	}
}

// Relationship is a named, directed link from the owning entity to Target.
// Target may be empty while the author has not picked one yet, and it is
// not cleared when the target entity is removed.
type Relationship struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Target      string      `json:"target"`
	Cardinality Cardinality `json:"cardinality"`
	Required    bool        `json:"required"`
	Description string      `json:"description,omitempty"`
}
