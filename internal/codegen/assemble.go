package codegen

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/platform"
)

// DefinitionSource supplies capsule definitions and their registration-time
// parsed templates. The registry implements it; tests supply fakes.
type DefinitionSource interface {
	// Definition returns the definition for id, if registered.
	Definition(id string) (*capsule.CapsuleDefinition, bool)

	// ParsedTemplate returns the parsed template for (id, p).
	// ok=false means the capsule declares no template for p (a capability
	// gap). A non-nil error is the template's registration-time syntax error.
	ParsedTemplate(id string, p platform.Platform) (*Template, bool, error)
}

// ProgressFunc reports emission progress for one target: files done out of
// the planned total.
type ProgressFunc func(p platform.Platform, done, total int)

// assembler owns all per-target mutable state: the capsule-id deduplication
// set, the identifier scope, and the accumulating file list and diagnostics.
// A single goroutine drives one assembler per target (single-writer
// discipline); nothing here is shared across targets.
type assembler struct {
	src      DefinitionSource
	platform platform.Platform
	comp     *capsule.ProjectComposition
	progress ProgressFunc

	typeScope  *Scope
	components map[string]*componentInfo
	order      []string // capsule ids in first-seen pre-order

	componentFiles map[string]capsule.GeneratedFile
	extraFiles     []capsule.GeneratedFile
	errors         []capsule.Diagnostic
	warnings       []capsule.Diagnostic
	deps           map[string]bool

	total int
	done  int
}

// componentInfo is the per-capsule emission record for one target.
type componentInfo struct {
	ident    string
	fileName string
	stubbed  bool
}

// Assemble generates the complete file tree for (composition, target).
// The error return is non-nil only for cooperative cancellation (ctx.Err());
// every other failure becomes a diagnostic on the result. The file list order
// is deterministic: component files in tree pre-order (first-seen wins for
// deduplication), then the entry file, then the desktop shell file.
func Assemble(ctx context.Context, src DefinitionSource, comp *capsule.ProjectComposition, p platform.Platform, progress ProgressFunc) (*capsule.CompilationResult, error) {
	a := &assembler{
		src:            src,
		platform:       p,
		comp:           comp,
		progress:       progress,
		typeScope:      NewScope(),
		components:     make(map[string]*componentInfo),
		componentFiles: make(map[string]capsule.GeneratedFile),
		deps:           make(map[string]bool),
	}

	// Total counts only the files that will actually be emitted: unknown
	// capsule ids become inline comments, not files.
	a.total = 1 // entry
	for _, id := range capsule.DistinctCapsuleIDs(comp.Root) {
		if _, ok := src.Definition(id); ok {
			a.total++
		}
	}
	if p == platform.Desktop {
		a.total++ // shell file
	}

	rootUsage, err := a.renderUsage(ctx, comp.Root, 1)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.addExtra(a.entryFile(rootUsage))

	if p == platform.Desktop {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.addExtra(a.shellFile())
	}

	return a.result(), nil
}

// renderUsage renders the usage expression for one instance. The instance's
// capsule is claimed in pre-order on first sighting; its component file is
// built once the instance's children have rendered.
func (a *assembler) renderUsage(ctx context.Context, inst *capsule.CapsuleInstance, depth int) (string, error) {
	def, ok := a.src.Definition(inst.CapsuleID)
	if !ok {
		a.errors = append(a.errors, capsule.Diagnostic{
			Code:       capsule.DiagUnknownCapsule,
			Severity:   capsule.SeverityError,
			Message:    fmt.Sprintf("instance %q references unregistered capsule %q", inst.ID, inst.CapsuleID),
			InstanceID: inst.ID,
			CapsuleID:  inst.CapsuleID,
		})
		return a.commentNode(fmt.Sprintf("unknown capsule %q", inst.CapsuleID), depth), nil
	}

	info, first := a.claimComponent(def)

	children, err := a.renderChildren(ctx, inst, depth)
	if err != nil {
		return "", err
	}

	bound, diags := Bind(inst, def, a.comp.Theme)
	a.record(diags)
	bindFailed := hasError(diags)

	if first {
		if err := a.buildComponentFile(ctx, inst, def, info, bound, bindFailed, children); err != nil {
			return "", err
		}
	}

	if bindFailed {
		// The instance's own props are unusable; reference the component with
		// no arguments so the surrounding tree still holds together.
		return a.usageExpression(info.ident, nil, children[defaultSlot], depth), nil
	}

	args, aerr := a.usageArguments(bound)
	if aerr != nil {
		a.errors = append(a.errors, capsule.Diagnostic{
			Code:       capsule.DiagInvalidPropType,
			Severity:   capsule.SeverityError,
			Message:    aerr.Error(),
			InstanceID: inst.ID,
			CapsuleID:  def.ID,
		})
		return a.usageExpression(info.ident, nil, children[defaultSlot], depth), nil
	}
	return a.usageExpression(info.ident, args, children[defaultSlot], depth), nil
}

// claimComponent reserves the capsule's component identity in pre-order on
// first sighting. Deduplication is keyed by capsule id.
func (a *assembler) claimComponent(def *capsule.CapsuleDefinition) (*componentInfo, bool) {
	if info, ok := a.components[def.ID]; ok {
		return info, false
	}
	ident, guid := a.typeScope.Claim(def.Name, a.platform.TypeCasing())
	if guid {
		a.warnings = append(a.warnings, capsule.Diagnostic{
			Code:      capsule.DiagIdentifierCollision,
			Severity:  capsule.SeverityWarning,
			Message:   fmt.Sprintf("capsule %q: identifier collision unresolvable by numeric suffix; using %q", def.ID, ident),
			CapsuleID: def.ID,
		})
	}
	info := &componentInfo{ident: ident, fileName: a.platform.ComponentFileName(ident)}
	a.components[def.ID] = info
	a.order = append(a.order, def.ID)
	return info, true
}

// buildComponentFile emits the capsule's component file from the first-seen
// instance's bound props and pre-rendered slot content. First-seen wins:
// later instances of the same capsule contribute usage sites only.
func (a *assembler) buildComponentFile(ctx context.Context, inst *capsule.CapsuleInstance, def *capsule.CapsuleDefinition, info *componentInfo, bound *BoundProps, bindFailed bool, slots map[string]string) error {
	// Cancellation is checked between capsule-file emissions; a cancelled
	// target must never carry a half-built file list upward.
	if err := ctx.Err(); err != nil {
		return err
	}

	tpl, hasTemplate, tplErr := a.src.ParsedTemplate(def.ID, a.platform)
	switch {
	case tplErr != nil:
		// Fatal for this capsule's file only: replace it with an explanatory
		// stub and keep going.
		a.errors = append(a.errors, capsule.Diagnostic{
			Code:      capsule.DiagTemplateSyntax,
			Severity:  capsule.SeverityError,
			Message:   fmt.Sprintf("capsule %q: %v", def.ID, tplErr),
			CapsuleID: def.ID,
		})
		a.emitStub(def, info, fmt.Sprintf("template rejected at registration: %v", tplErr))
		return nil

	case !hasTemplate:
		a.errors = append(a.errors, capsule.Diagnostic{
			Code:       capsule.DiagCapability,
			Severity:   capsule.SeverityError,
			Message:    fmt.Sprintf("capsule %q has no template for platform %q", def.ID, a.platform),
			InstanceID: inst.ID,
			CapsuleID:  def.ID,
		})
		a.emitStub(def, info, fmt.Sprintf("capsule %q is not available on %s", def.ID, a.platform))
		return nil
	}

	if name := tpl.FileNameTemplate(); name != "" {
		info.fileName = name
	}
	for _, dep := range tpl.DeclaredDependencies() {
		a.deps[dep] = true
	}

	if bindFailed {
		a.emitStub(def, info, "prop binding failed; see diagnostics")
		return nil
	}

	literals, err := a.propLiterals(bound)
	if err != nil {
		a.errors = append(a.errors, capsule.Diagnostic{
			Code:       capsule.DiagInvalidPropType,
			Severity:   capsule.SeverityError,
			Message:    err.Error(),
			InstanceID: inst.ID,
			CapsuleID:  def.ID,
		})
		a.emitStub(def, info, "prop serialization failed; see diagnostics")
		return nil
	}

	content, rerr := tpl.Render(RenderInput{
		ComponentName: info.ident,
		PropLiterals:  literals,
		Theme:         a.comp.Theme,
		Slots:         slots,
	})
	if rerr != nil {
		a.errors = append(a.errors, capsule.Diagnostic{
			Code:      capsule.DiagTemplateSyntax,
			Severity:  capsule.SeverityError,
			Message:   fmt.Sprintf("capsule %q: %v", def.ID, rerr),
			CapsuleID: def.ID,
		})
		a.emitStub(def, info, fmt.Sprintf("render failed: %v", rerr))
		return nil
	}

	a.emitComponent(def.ID, capsule.GeneratedFile{
		Path:     info.fileName,
		Content:  content,
		Language: a.platform.Language(),
	})
	return nil
}

func (a *assembler) emitStub(def *capsule.CapsuleDefinition, info *componentInfo, reason string) {
	info.stubbed = true
	a.emitComponent(def.ID, a.stubFile(info, reason))
}

// renderChildren renders the default-slot children plus named slots, keyed by
// slot name ("children" for the default slot).
func (a *assembler) renderChildren(ctx context.Context, inst *capsule.CapsuleInstance, depth int) (map[string]string, error) {
	out := make(map[string]string)
	if len(inst.Children) > 0 {
		rendered, err := a.renderSiblings(ctx, inst.Children, depth+1)
		if err != nil {
			return nil, err
		}
		out[defaultSlot] = rendered
	}
	for _, slot := range sortedSlotNames(inst) {
		rendered, err := a.renderSiblings(ctx, inst.Slots[slot], depth+1)
		if err != nil {
			return nil, err
		}
		out[slot] = rendered
	}
	return out, nil
}

func (a *assembler) renderSiblings(ctx context.Context, siblings []*capsule.CapsuleInstance, depth int) (string, error) {
	var parts []string
	for _, child := range siblings {
		usage, err := a.renderUsage(ctx, child, depth)
		if err != nil {
			return "", err
		}
		parts = append(parts, usage)
	}
	return joinLines(parts), nil
}

// propLiterals serializes every bound prop for the current platform.
func (a *assembler) propLiterals(bound *BoundProps) (map[string]string, error) {
	out := make(map[string]string, bound.Len())
	for _, name := range bound.Names() {
		v, _ := bound.Get(name)
		lit, err := Literal(v, a.platform)
		if err != nil {
			return nil, err
		}
		out[name] = lit
	}
	return out, nil
}

func (a *assembler) record(diags []capsule.Diagnostic) {
	for _, d := range diags {
		if d.Severity == capsule.SeverityError {
			a.errors = append(a.errors, d)
		} else {
			a.warnings = append(a.warnings, d)
		}
	}
}

func (a *assembler) emitComponent(capsuleID string, f capsule.GeneratedFile) {
	a.componentFiles[capsuleID] = f
	a.done++
	if a.progress != nil {
		a.progress(a.platform, a.done, a.total)
	}
}

func (a *assembler) addExtra(f capsule.GeneratedFile) {
	a.extraFiles = append(a.extraFiles, f)
	a.done++
	if a.progress != nil {
		a.progress(a.platform, a.done, a.total)
	}
}

func (a *assembler) result() *capsule.CompilationResult {
	files := make([]capsule.GeneratedFile, 0, len(a.order)+len(a.extraFiles))
	for _, id := range a.order {
		if f, ok := a.componentFiles[id]; ok {
			files = append(files, f)
		}
	}
	files = append(files, a.extraFiles...)

	deps := make([]string, 0, len(a.deps))
	for d := range a.deps {
		deps = append(deps, d)
	}
	sort.Strings(deps)

	size := 0
	for _, f := range files {
		size += len(f.Content)
	}

	success := len(a.errors) == 0
	status := capsule.StatusCompleted
	if !success {
		status = capsule.StatusFailed
	}

	return &capsule.CompilationResult{
		Platform: a.platform,
		Status:   status,
		Success:  success,
		Files:    files,
		Errors:   a.errors,
		Warnings: a.warnings,
		Metadata: capsule.ResultMetadata{
			CapsuleCount: len(a.order),
			TotalFiles:   len(files),
			TotalSize:    size,
			CompiledAt:   time.Now().Unix(),
			Dependencies: deps,
		},
	}
}

func sortedSlotNames(inst *capsule.CapsuleInstance) []string {
	names := make([]string, 0, len(inst.Slots))
	for name := range inst.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
