package schema

import (
	"encoding/json"
	"regexp"
)

// hintsKey is the member that carries UI hints on a schema node.
const hintsKey = "x-ui"

// UI hint keys inside the x-ui object.
const (
	HintWidget      = "x-ui.widget"
	HintPlaceholder = "x-ui.placeholder"
	HintMulti       = "x-ui.multi"
	HintRequired    = "x-ui.required"
	HintReadOnly    = "x-ui.readOnly"
	HintGroup       = "x-ui.group"
	HintOrder       = "x-ui.order"
)

// Widgets.
const (
	WidgetText     = "text"
	WidgetTextarea = "textarea"
	WidgetNumber   = "number"
	WidgetDate     = "date"
	WidgetCheckbox = "checkbox"
	WidgetSelect   = "select"
	WidgetImage    = "image"
	WidgetDocument = "document"
	WidgetContact  = "contact"
	WidgetAddress  = "address"
	WidgetJSON     = "json"
)

// Semantic field groups.
const (
	GroupIdentity   = "identity"
	GroupContact    = "contact"
	GroupProduction = "production"
	GroupCompliance = "compliance"
)

// Hints is the x-ui object attached to a schema node. Placeholder is a
// pointer so that an empty placeholder can still be emitted.
type Hints struct {
	Widget      string
	Placeholder *string
	Multi       bool
	Required    bool
	ReadOnly    bool
	Group       string
	Order       int
}

func (h *Hints) MarshalJSON() ([]byte, error) {
	var out orderedObject
	if h.Widget != "" {
		out = append(out, member{HintWidget, h.Widget})
	}
	if h.Placeholder != nil {
		out = append(out, member{HintPlaceholder, *h.Placeholder})
	}
	if h.Multi {
		out = append(out, member{HintMulti, true})
	}
	if h.Required {
		out = append(out, member{HintRequired, true})
	}
	if h.ReadOnly {
		out = append(out, member{HintReadOnly, true})
	}
	if h.Group != "" {
		out = append(out, member{HintGroup, h.Group})
	}
	if h.Order > 0 {
		out = append(out, member{HintOrder, h.Order})
	}
	return out.MarshalJSON()
}

func (h *Hints) UnmarshalJSON(data []byte) error {
	var raw struct {
		Widget      string  `json:"x-ui.widget"`
		Placeholder *string `json:"x-ui.placeholder"`
		Multi       bool    `json:"x-ui.multi"`
		Required    bool    `json:"x-ui.required"`
		ReadOnly    bool    `json:"x-ui.readOnly"`
		Group       string  `json:"x-ui.group"`
		Order       int     `json:"x-ui.order"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*h = Hints(raw)
	return nil
}

var (
	dateNamePattern     = regexp.MustCompile(`(?i)date|createdAt|updatedAt`)
	readOnlyNamePattern = regexp.MustCompile(`createdAt|updatedAt|version`)
)

// groupRules are checked in order; a later match overwrites an earlier one.
var groupRules = []struct {
	pattern *regexp.Regexp
	group   string
}{
	{regexp.MustCompile(`(?i)^id$|name|code|sku|gtin|ean`), GroupIdentity},
	{regexp.MustCompile(`(?i)email|phone|contact|address|fax`), GroupContact},
	{regexp.MustCompile(`(?i)batch|lot|line|shift|machine|recipe|yield|capacity`), GroupProduction},
	{regexp.MustCompile(`(?i)haccp|allergen|cert|expir|audit|compliance|gmp`), GroupCompliance},
}

// groupFor returns the semantic group of a field name, or "".
func groupFor(name string) string {
	group := ""
	for _, r := range groupRules {
		if r.pattern.MatchString(name) {
			group = r.group
		}
	}
	return group
}

func ptr[T any](v T) *T { return &v }
