// Package registry holds the capsule catalog. A Registry is constructed
// explicitly and injected into the orchestrator and the catalog-browsing
// surfaces; there is no package-level store.
package registry

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/codegen"
	"github.com/capstudio/capstudio/internal/platform"
)

// entry pairs a registered definition with its parsed templates. Template
// parsing happens exactly once, here; a malformed template is recorded as a
// registration-time error and surfaces as a stubbed file at export.
type entry struct {
	def       *capsule.CapsuleDefinition
	templates map[platform.Platform]*codegen.Template
	parseErrs map[platform.Platform]error
}

// Registry is the catalog of capsule definitions. Registration happens at
// process start; reads are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register validates and stores a definition, parsing every platform
// template once. Re-registration under an existing id replaces the previous
// definition and logs a warning; it never merges.
//
// The returned error covers malformed definitions (empty id, bad prop
// specs). Template syntax errors do not fail registration: they are recorded
// per platform and reported at export, where only that capsule's file is
// affected.
func (r *Registry) Register(def *capsule.CapsuleDefinition) error {
	if def == nil {
		return fmt.Errorf("nil definition")
	}
	if strings.TrimSpace(def.ID) == "" {
		return fmt.Errorf("capsule definition has no id")
	}
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("capsule %q has no name", def.ID)
	}
	if err := validateSpecs(def); err != nil {
		return err
	}

	e := &entry{
		def:       def,
		templates: make(map[platform.Platform]*codegen.Template, len(def.PlatformTemplates)),
		parseErrs: make(map[platform.Platform]error),
	}
	for p, tpl := range def.PlatformTemplates {
		if !p.Valid() {
			return fmt.Errorf("capsule %q declares template for unknown platform %q", def.ID, p)
		}
		parsed, err := codegen.ParseTemplate(tpl, def)
		if err != nil {
			e.parseErrs[p] = err
			continue
		}
		e.templates[p] = parsed
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[def.ID]; exists {
		log.Printf("WARNING: capsule %q re-registered; previous definition replaced", def.ID)
	}
	r.entries[def.ID] = e
	return nil
}

func validateSpecs(def *capsule.CapsuleDefinition) error {
	seen := make(map[string]bool, len(def.PropSpecs))
	idents := make(map[string]string, len(def.PropSpecs))
	for _, spec := range def.PropSpecs {
		if strings.TrimSpace(spec.Name) == "" {
			return fmt.Errorf("capsule %q has a prop spec with no name", def.ID)
		}
		if seen[spec.Name] {
			return fmt.Errorf("capsule %q declares prop %q twice", def.ID, spec.Name)
		}
		seen[spec.Name] = true
		ident := codegen.Sanitize(spec.Name, platform.CamelCase)
		if other, ok := idents[ident]; ok {
			return fmt.Errorf("capsule %q props %q and %q collide as identifier %q", def.ID, other, spec.Name, ident)
		}
		idents[ident] = spec.Name
		if !spec.Type.Valid() {
			return fmt.Errorf("capsule %q prop %q has unknown type %q", def.ID, spec.Name, spec.Type)
		}
		if spec.Type == capsule.PropEnum && len(spec.Options) == 0 {
			return fmt.Errorf("capsule %q enum prop %q declares no options", def.ID, spec.Name)
		}
		if spec.Min != nil && spec.Max != nil && *spec.Min > *spec.Max {
			return fmt.Errorf("capsule %q prop %q: min %v exceeds max %v", def.ID, spec.Name, *spec.Min, *spec.Max)
		}
	}
	return nil
}

// Get returns the definition for id.
func (r *Registry) Get(id string) (*capsule.CapsuleDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.def, true
}

// Filter narrows List results. Zero value matches everything.
type Filter struct {
	Category string
	Tag      string
	Platform platform.Platform
}

// List returns registered definitions matching the filter, sorted by id.
func (r *Registry) List(f Filter) []*capsule.CapsuleDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var defs []*capsule.CapsuleDefinition
	for _, e := range r.entries {
		if f.Category != "" && e.def.Category != f.Category {
			continue
		}
		if f.Tag != "" && !hasTag(e.def, f.Tag) {
			continue
		}
		if f.Platform != "" && !e.def.SupportsPlatform(f.Platform) {
			continue
		}
		defs = append(defs, e.def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// SupportsPlatform reports whether capsule id declares a template for p.
func (r *Registry) SupportsPlatform(id string, p platform.Platform) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return ok && e.def.SupportsPlatform(p)
}

// SupportedPlatforms returns the platforms capsule id declares templates
// for, in canonical order.
func (r *Registry) SupportedPlatforms(id string) []platform.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil
	}
	var out []platform.Platform
	for _, p := range platform.All() {
		if e.def.SupportsPlatform(p) {
			out = append(out, p)
		}
	}
	return out
}

// Definition implements codegen.DefinitionSource.
func (r *Registry) Definition(id string) (*capsule.CapsuleDefinition, bool) {
	return r.Get(id)
}

// ParsedTemplate implements codegen.DefinitionSource. ok=false means the
// capsule declares no template for p; a non-nil error is the template's
// registration-time syntax error.
func (r *Registry) ParsedTemplate(id string, p platform.Platform) (*codegen.Template, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false, nil
	}
	if err, bad := e.parseErrs[p]; bad {
		return nil, true, err
	}
	tpl, ok := e.templates[p]
	if !ok {
		return nil, false, nil
	}
	return tpl, true, nil
}

func hasTag(def *capsule.CapsuleDefinition, tag string) bool {
	for _, t := range def.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
