package capsule

import (
	"github.com/capstudio/capstudio/internal/platform"
)

// PropType enumerates the value kinds a capsule prop may declare.
type PropType string

const (
	PropString  PropType = "string"
	PropNumber  PropType = "number"
	PropBoolean PropType = "boolean"
	PropColor   PropType = "color"
	PropSize    PropType = "size"
	PropSpacing PropType = "spacing"
	PropIcon    PropType = "icon"
	PropImage   PropType = "image"
	PropAction  PropType = "action"
	PropArray   PropType = "array"
	PropObject  PropType = "object"
	PropEnum    PropType = "enum"
	PropSlot    PropType = "slot"
)

// Valid reports whether t is a known prop type.
func (t PropType) Valid() bool {
	switch t {
	case PropString, PropNumber, PropBoolean, PropColor, PropSize, PropSpacing,
		PropIcon, PropImage, PropAction, PropArray, PropObject, PropEnum, PropSlot:
		return true
	default:
		return false
	}
}

// PropSpec declares one prop of a capsule: its type, whether it is required,
// its default, and any constraints. Specs are immutable once the definition is
// registered.
type PropSpec struct {
	// Name is the prop's schema name as authored (may contain spaces/punctuation;
	// identifier derivation sanitizes it per target).
	Name string `json:"name"`

	// Type is the declared prop type.
	Type PropType `json:"type"`

	// Required marks the prop as mandatory. Binding fails for the instance if
	// neither a value nor a default resolves it.
	Required bool `json:"required,omitempty"`

	// Default is used when the instance supplies no value. Defaults are applied
	// by the binder and only the binder.
	Default any `json:"default,omitempty"`

	// Min/Max bound numeric props (number, size, spacing).
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// Pattern is an optional regular expression string values must match.
	Pattern string `json:"pattern,omitempty"`

	// Options lists the legal values for enum props.
	Options []string `json:"options,omitempty"`
}

// PlatformTemplate is one target's source-code skeleton for a capsule.
type PlatformTemplate struct {
	// RawSource is the template text with {{kind.name}} placeholders.
	RawSource string `json:"raw_source"`

	// FileNameTemplate names the emitted component file. Empty means derive
	// from the capsule name using the platform's file conventions.
	FileNameTemplate string `json:"file_name_template,omitempty"`

	// DeclaredDependencies lists import/package dependencies the emitted file
	// needs, recorded in result metadata for the packaging collaborator.
	DeclaredDependencies []string `json:"declared_dependencies,omitempty"`
}

// CapsuleDefinition is a reusable UI building block: an id, a prop schema, and
// one template per supported target platform.
type CapsuleDefinition struct {
	// ID uniquely keys the definition in the registry.
	ID string `json:"id"`

	// Name is the human-readable display name (also the seed for derived
	// component identifiers).
	Name string `json:"name"`

	// Category groups capsules for catalog browsing (e.g. "inputs", "layout").
	Category string `json:"category,omitempty"`

	// Description is markdown shown in the catalog UI.
	Description string `json:"description,omitempty"`

	// Tags is a list of tags for catalog filtering.
	Tags []string `json:"tags,omitempty"`

	// PropSpecs declares the capsule's prop schema.
	PropSpecs []PropSpec `json:"prop_specs"`

	// PlatformTemplates maps each supported target to its template.
	PlatformTemplates map[platform.Platform]PlatformTemplate `json:"platform_templates"`
}

// Spec returns the PropSpec with the given name, or nil.
func (d *CapsuleDefinition) Spec(name string) *PropSpec {
	for i := range d.PropSpecs {
		if d.PropSpecs[i].Name == name {
			return &d.PropSpecs[i]
		}
	}
	return nil
}

// SupportsPlatform reports whether the definition declares a template for p.
func (d *CapsuleDefinition) SupportsPlatform(p platform.Platform) bool {
	_, ok := d.PlatformTemplates[p]
	return ok
}

// CapsuleInstance is one placed occurrence of a capsule inside a composition.
// Instances are created and mutated by the project editor; the synthesis core
// only reads them.
type CapsuleInstance struct {
	// ID uniquely identifies the instance within its composition.
	ID string `json:"id"`

	// CapsuleID references a CapsuleDefinition in the registry.
	CapsuleID string `json:"capsule_id"`

	// Props holds the raw, unvalidated prop values keyed by spec name.
	Props map[string]any `json:"props,omitempty"`

	// Children are instances rendered in the capsule's default slot.
	Children []*CapsuleInstance `json:"children,omitempty"`

	// Slots maps named slots to the instances rendered inside them.
	Slots map[string][]*CapsuleInstance `json:"slots,omitempty"`
}

// ProjectComposition is the full description of one project: theme, selected
// targets, and the instance tree. Supplied whole per export call; never
// mutated by the core.
type ProjectComposition struct {
	Name            string              `json:"name"`
	Description     string              `json:"description,omitempty"`
	Theme           Theme               `json:"theme"`
	TargetPlatforms []platform.Platform `json:"target_platforms"`
	Root            *CapsuleInstance    `json:"root"`
}
