package ops

import (
	"strings"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/errors"
	"github.com/capstudio/capstudio/internal/platform"
	"github.com/capstudio/capstudio/internal/registry"
)

// CatalogListInput contains parameters for the CatalogList operation.
type CatalogListInput struct {
	Category string
	Tag      string
	Platform string // filter to capsules with a template for this platform
}

// CatalogEntry is a catalog listing row.
type CatalogEntry struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Category    string              `json:"category"`
	Description string              `json:"description,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Platforms   []platform.Platform `json:"platforms"`
}

// CatalogListOutput contains the result of the CatalogList operation.
type CatalogListOutput struct {
	Items []CatalogEntry `json:"items"`
	Total int            `json:"total"`
}

// CatalogList returns the registered capsule definitions, optionally filtered.
func CatalogList(reg *registry.Registry, input CatalogListInput) (*CatalogListOutput, error) {
	filter := registry.Filter{
		Category: strings.TrimSpace(input.Category),
		Tag:      strings.TrimSpace(input.Tag),
	}
	if p := strings.TrimSpace(input.Platform); p != "" {
		parsed, err := platform.Parse(p)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		filter.Platform = parsed
	}

	defs := reg.List(filter)
	items := make([]CatalogEntry, 0, len(defs))
	for _, def := range defs {
		items = append(items, CatalogEntry{
			ID:          def.ID,
			Name:        def.Name,
			Category:    def.Category,
			Description: def.Description,
			Tags:        def.Tags,
			Platforms:   reg.SupportedPlatforms(def.ID),
		})
	}

	return &CatalogListOutput{
		Items: items,
		Total: len(items),
	}, nil
}

// CatalogGetInput contains parameters for the CatalogGet operation.
type CatalogGetInput struct {
	ID string
}

// CatalogGetOutput contains the result of the CatalogGet operation.
type CatalogGetOutput struct {
	Definition *capsule.CapsuleDefinition `json:"definition"`
	Platforms  []platform.Platform        `json:"platforms"`
}

// CatalogGet returns one capsule definition with its full prop schema.
func CatalogGet(reg *registry.Registry, input CatalogGetInput) (*CatalogGetOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	def, ok := reg.Get(id)
	if !ok {
		return nil, errors.NewNotFound("capsule", id)
	}

	return &CatalogGetOutput{
		Definition: def,
		Platforms:  reg.SupportedPlatforms(id),
	}, nil
}
