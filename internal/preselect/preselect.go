package preselect

import (
	"fmt"

	"skoview/internal/tpdb"
)

// Template is a named bundle of item selections and labels used to preset the statistics view.
type Template struct {
	Label string `json:"label"`
	// SimpleLabel replaces Label in the simple view when set.
	SimpleLabel string `json:"simpleLabel,omitempty"`
	// SelectedItems holds the ids to select per item type. Types not present select nothing.
	SelectedItems map[tpdb.ItemType][]int `json:"selectedItems"`
	// LabelMap is the heading shown for each item type while the template is active.
	LabelMap           map[tpdb.ItemType]string `json:"labelMap"`
	SimpleViewDisplay  tpdb.ItemType            `json:"simpleViewDisplay,omitempty"`
	ShowInSimpleView   bool                     `json:"showInSimpleView"`
	ShowInAdvancedView bool                     `json:"showInAdvancedView"`
}

// DisplayLabel picks the label to show for the given mode.
func (t Template) DisplayLabel(advancedMode bool) string {
	if !advancedMode && t.SimpleLabel != "" {
		return t.SimpleLabel
	}
	return t.Label
}

// Registry is an ordered, read-only set of templates keyed by label.
type Registry struct {
	order     []string
	templates map[string]Template
}

// NewRegistry builds a registry from templates. The first template is the default.
func NewRegistry(templates ...Template) (*Registry, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("preselect registry needs at least one template")
	}
	r := &Registry{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if _, dup := r.templates[t.Label]; dup {
			return nil, fmt.Errorf("duplicate preselect label %q", t.Label)
		}
		r.order = append(r.order, t.Label)
		r.templates[t.Label] = t
	}
	return r, nil
}

// Default returns the template that resets all selections.
func (r *Registry) Default() Template {
	return r.templates[r.order[0]]
}

// Get looks up a template by its label.
func (r *Registry) Get(label string) (Template, bool) {
	t, ok := r.templates[label]
	return t, ok
}

// All returns the templates in registration order.
func (r *Registry) All() []Template {
	out := make([]Template, 0, len(r.order))
	for _, l := range r.order {
		out = append(out, r.templates[l])
	}
	return out
}

// Visible returns the templates shown in the given mode.
func (r *Registry) Visible(advancedMode bool) []Template {
	var out []Template
	for _, t := range r.All() {
		if (advancedMode && t.ShowInAdvancedView) || (!advancedMode && t.ShowInSimpleView) {
			out = append(out, t)
		}
	}
	return out
}
