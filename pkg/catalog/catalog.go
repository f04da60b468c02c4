// Package catalog holds the ordered list of chat models the user can pick
// from. Order is significant: menu digits map to 1-based positions.
package catalog

import "fmt"

// Model describes one selectable chat model.
type Model struct {
	// ID is the provider-side model identifier.
	ID string
	// Name is the short display name without the pricing tier.
	Name string
	// Free is true when the provider charges nothing for this model.
	Free bool
}

// Label returns the menu label, e.g. "Llama 3.2 (Free)".
func (m Model) Label() string {
	if m.Free {
		return m.Name + " (Free)"
	}

	return m.Name + " (Paid)"
}

// Catalog is an ordered, immutable list of models.
type Catalog struct {
	models []Model
}

// New builds a Catalog from the given models. It rejects empty lists,
// blank IDs or names, and duplicate IDs.
func New(models ...Model) (Catalog, error) {
	if len(models) == 0 {
		return Catalog{}, fmt.Errorf("catalog: no models given")
	}

	seen := make(map[string]struct{}, len(models))

	for i, m := range models {
		if m.ID == "" {
			return Catalog{}, fmt.Errorf("catalog: model %d has no id", i+1)
		}

		if m.Name == "" {
			return Catalog{}, fmt.Errorf("catalog: model %q has no name", m.ID)
		}

		if _, dup := seen[m.ID]; dup {
			return Catalog{}, fmt.Errorf("catalog: duplicate model id %q", m.ID)
		}

		seen[m.ID] = struct{}{}
	}

	cp := make([]Model, len(models))
	copy(cp, models)

	return Catalog{models: cp}, nil
}

// Default returns the built-in catalog. The free models come first so a
// fresh install works without billing set up.
func Default() Catalog {
	c, err := New(
		Model{ID: "meta-llama/llama-3.2-3b-instruct:free", Name: "Llama 3.2", Free: true},
		Model{ID: "microsoft/phi-3-mini-128k-instruct:free", Name: "Phi-3 Mini", Free: true},
		Model{ID: "google/gemma-2-9b-it:free", Name: "Gemma 2", Free: true},
		Model{ID: "openai/gpt-3.5-turbo", Name: "GPT-3.5", Free: false},
	)
	if err != nil {
		panic(err) // built-in list is static, cannot fail
	}

	return c
}

// Len returns the number of models.
func (c Catalog) Len() int {
	return len(c.models)
}

// Models returns a copy of the model list in menu order.
func (c Catalog) Models() []Model {
	cp := make([]Model, len(c.models))
	copy(cp, c.models)

	return cp
}

// First returns the first model. It is the selection used when the user
// skips the picker. The bool is false for the zero Catalog.
func (c Catalog) First() (Model, bool) {
	if len(c.models) == 0 {
		return Model{}, false
	}

	return c.models[0], true
}

// ByOrdinal returns the model at the given 1-based menu position.
// The bool is false when the position is out of range.
func (c Catalog) ByOrdinal(n int) (Model, bool) {
	if n < 1 || n > len(c.models) {
		return Model{}, false
	}

	return c.models[n-1], true
}

// ByID returns the model with the given provider identifier.
// The bool is false when no model matches.
func (c Catalog) ByID(id string) (Model, bool) {
	for _, m := range c.models {
		if m.ID == id {
			return m, true
		}
	}

	return Model{}, false
}

// FirstFree returns the first free model, used for cheap connectivity
// checks. The bool is false when the catalog has no free models.
func (c Catalog) FirstFree() (Model, bool) {
	for _, m := range c.models {
		if m.Free {
			return m, true
		}
	}

	return Model{}, false
}
