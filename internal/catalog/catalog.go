// Package catalog holds the static employee attribute taxonomy and the
// common action templates built from it.
package catalog

import "github.com/anthropics/bulkchange-engine/internal/domain"

// Category groups related attributes for selection UIs.
type Category struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Attributes []domain.AttributeDef `json:"attributes"`
}

// ActionTemplate scopes a common action type to the attributes it edits.
type ActionTemplate struct {
	Type              domain.ActionType `json:"type"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Attributes        []string          `json:"attributes"`
	DerivedAttributes []string          `json:"derived_attributes,omitempty"`
}

// Catalog is an immutable view over the attribute taxonomy.
type Catalog struct {
	categories []Category
	templates  []ActionTemplate
	byID       map[string]domain.AttributeDef
}

// New builds the catalog from the built-in taxonomy.
func New() *Catalog {
	c := &Catalog{
		categories: categories,
		templates:  commonActions,
		byID:       make(map[string]domain.AttributeDef),
	}
	for _, cat := range c.categories {
		for _, attr := range cat.Attributes {
			c.byID[attr.ID] = attr
		}
	}
	return c
}

// Categories returns every attribute category in display order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Templates returns the common action templates.
func (c *Catalog) Templates() []ActionTemplate {
	return c.templates
}

// ByID looks up a single attribute definition.
func (c *Catalog) ByID(id string) (domain.AttributeDef, error) {
	attr, ok := c.byID[id]
	if !ok {
		return domain.AttributeDef{}, domain.ErrUnknownAttribute
	}
	return attr, nil
}

// ListByCategory returns the attributes of one category.
func (c *Catalog) ListByCategory(categoryID string) []domain.AttributeDef {
	for _, cat := range c.categories {
		if cat.ID == categoryID {
			return cat.Attributes
		}
	}
	return nil
}

// Template returns the template for a common action type, if one exists.
func (c *Catalog) Template(t domain.ActionType) (ActionTemplate, bool) {
	for _, tmpl := range c.templates {
		if tmpl.Type == t {
			return tmpl, true
		}
	}
	return ActionTemplate{}, false
}

// Editable reports whether an attribute may be used as an edit target.
// Unknown ids and derived or read-only attributes are rejected.
func (c *Catalog) Editable(id string) error {
	attr, ok := c.byID[id]
	if !ok {
		return domain.ErrUnknownAttribute
	}
	if attr.Derived || !attr.Editable {
		return domain.ErrAttributeNotEditable
	}
	return nil
}

// Levels orders the company level bands from most junior to most senior.
var Levels = []string{"L1", "L2", "L3", "L4", "L5", "L6", "L7"}

// LevelOrdinal returns a level's position in the band, or -1 when unknown.
func LevelOrdinal(level string) int {
	for i, l := range Levels {
		if l == level {
			return i
		}
	}
	return -1
}
