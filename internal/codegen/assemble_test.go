package codegen

import (
	"context"
	"strings"
	"testing"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/platform"
)

// fakeSource implements DefinitionSource over a fixed definition set,
// parsing templates eagerly the way registration does.
type fakeSource struct {
	defs map[string]*capsule.CapsuleDefinition
	tpls map[string]map[platform.Platform]*Template
	errs map[string]map[platform.Platform]error
}

func newFakeSource(t *testing.T, defs ...*capsule.CapsuleDefinition) *fakeSource {
	t.Helper()
	src := &fakeSource{
		defs: make(map[string]*capsule.CapsuleDefinition),
		tpls: make(map[string]map[platform.Platform]*Template),
		errs: make(map[string]map[platform.Platform]error),
	}
	for _, def := range defs {
		src.defs[def.ID] = def
		src.tpls[def.ID] = make(map[platform.Platform]*Template)
		src.errs[def.ID] = make(map[platform.Platform]error)
		for p, raw := range def.PlatformTemplates {
			parsed, err := ParseTemplate(raw, def)
			if err != nil {
				src.errs[def.ID][p] = err
				continue
			}
			src.tpls[def.ID][p] = parsed
		}
	}
	return src
}

func (s *fakeSource) Definition(id string) (*capsule.CapsuleDefinition, bool) {
	def, ok := s.defs[id]
	return def, ok
}

func (s *fakeSource) ParsedTemplate(id string, p platform.Platform) (*Template, bool, error) {
	if err, bad := s.errs[id][p]; bad {
		return nil, true, err
	}
	tpl, ok := s.tpls[id][p]
	if !ok {
		return nil, false, nil
	}
	return tpl, true, nil
}

const buttonJSX = `export default function {{component.name}}({ label = {{prop.label}} }) {
  return <button>{label}</button>;
}
`

const buttonSwift = `import SwiftUI

struct {{component.name}}: View {
    var label: String = {{prop.label}}
    var body: some View {
        Button(label) { }
    }
}
`

const cardJSX = `export default function {{component.name}}({ children }) {
  return <div className="card">{children}</div>;
}
`

func assembleButtonDef() *capsule.CapsuleDefinition {
	return &capsule.CapsuleDefinition{
		ID:   "ui.button",
		Name: "Button",
		PropSpecs: []capsule.PropSpec{
			{Name: "label", Type: capsule.PropString, Required: true},
		},
		PlatformTemplates: map[platform.Platform]capsule.PlatformTemplate{
			platform.Web:     {RawSource: buttonJSX},
			platform.IOS:     {RawSource: buttonSwift},
			platform.Desktop: {RawSource: buttonJSX},
		},
	}
}

func assembleCardDef() *capsule.CapsuleDefinition {
	return &capsule.CapsuleDefinition{
		ID:   "ui.card",
		Name: "Card",
		PropSpecs: []capsule.PropSpec{
			{Name: "children", Type: capsule.PropSlot},
		},
		PlatformTemplates: map[platform.Platform]capsule.PlatformTemplate{
			platform.Web:     {RawSource: cardJSX},
			platform.Desktop: {RawSource: cardJSX},
		},
	}
}

func assembleComp(root *capsule.CapsuleInstance) *capsule.ProjectComposition {
	return &capsule.ProjectComposition{
		Name:            "Demo App",
		Theme:           capsule.DefaultTheme(),
		TargetPlatforms: []platform.Platform{platform.Web},
		Root:            root,
	}
}

func filePaths(files []capsule.GeneratedFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

func TestAssemble_Web(t *testing.T) {
	src := newFakeSource(t, assembleButtonDef(), assembleCardDef())
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.card",
		Children: []*capsule.CapsuleInstance{
			{ID: "b1", CapsuleID: "ui.button", Props: map[string]any{"label": "Go"}},
			{ID: "b2", CapsuleID: "ui.button", Props: map[string]any{"label": "Stop"}},
		},
	})

	result, err := Assemble(context.Background(), src, comp, platform.Web, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if !result.Success {
		t.Fatalf("Success = false, errors: %v", result.Errors)
	}
	if result.Status != capsule.StatusCompleted {
		t.Errorf("Status = %q, want completed", result.Status)
	}

	// Component files in first-seen pre-order, deduplicated, then the entry.
	want := []string{"Card.jsx", "Button.jsx", "App.jsx"}
	got := filePaths(result.Files)
	if len(got) != len(want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	entry := result.Files[2]
	if !strings.Contains(entry.Content, `import Card from "./Card";`) {
		t.Errorf("entry is missing Card import:\n%s", entry.Content)
	}
	if !strings.Contains(entry.Content, `import Button from "./Button";`) {
		t.Errorf("entry is missing Button import:\n%s", entry.Content)
	}
	// Both usage sites survive even though the component file is emitted once.
	if !strings.Contains(entry.Content, `<Button label={"Go"} />`) ||
		!strings.Contains(entry.Content, `<Button label={"Stop"} />`) {
		t.Errorf("entry is missing button usage sites:\n%s", entry.Content)
	}
	if !strings.Contains(entry.Content, "export const theme =") {
		t.Errorf("entry is missing theme constants:\n%s", entry.Content)
	}

	if result.Metadata.CapsuleCount != 2 {
		t.Errorf("CapsuleCount = %d, want 2", result.Metadata.CapsuleCount)
	}
	if result.Metadata.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", result.Metadata.TotalFiles)
	}
	wantSize := 0
	for _, f := range result.Files {
		wantSize += len(f.Content)
	}
	if result.Metadata.TotalSize != wantSize {
		t.Errorf("TotalSize = %d, want %d", result.Metadata.TotalSize, wantSize)
	}
}

func TestAssemble_ComponentFileUsesFirstSeenProps(t *testing.T) {
	src := newFakeSource(t, assembleButtonDef(), assembleCardDef())
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.card",
		Children: []*capsule.CapsuleInstance{
			{ID: "b1", CapsuleID: "ui.button", Props: map[string]any{"label": "First"}},
			{ID: "b2", CapsuleID: "ui.button", Props: map[string]any{"label": "Second"}},
		},
	})

	result, err := Assemble(context.Background(), src, comp, platform.Web, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	var buttonFile *capsule.GeneratedFile
	for i := range result.Files {
		if result.Files[i].Path == "Button.jsx" {
			buttonFile = &result.Files[i]
		}
	}
	if buttonFile == nil {
		t.Fatalf("Button.jsx not emitted: %v", filePaths(result.Files))
	}
	if !strings.Contains(buttonFile.Content, `"First"`) {
		t.Errorf("component file should come from the first-seen instance:\n%s", buttonFile.Content)
	}
	if strings.Contains(buttonFile.Content, `"Second"`) {
		t.Errorf("later instance leaked into the component file:\n%s", buttonFile.Content)
	}
}

func TestAssemble_CapabilityGap(t *testing.T) {
	// Card declares no iOS template: its file is stubbed, the target fails,
	// but the button still renders normally.
	src := newFakeSource(t, assembleButtonDef(), assembleCardDef())
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.card",
		Children: []*capsule.CapsuleInstance{
			{ID: "b1", CapsuleID: "ui.button", Props: map[string]any{"label": "Go"}},
		},
	})

	result, err := Assemble(context.Background(), src, comp, platform.IOS, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if result.Success {
		t.Error("Success = true, want false")
	}
	if result.Status != capsule.StatusFailed {
		t.Errorf("Status = %q, want failed", result.Status)
	}

	found := false
	for _, d := range result.Errors {
		if d.Code == capsule.DiagCapability && d.CapsuleID == "ui.card" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing capability diagnostic: %v", result.Errors)
	}

	got := filePaths(result.Files)
	want := []string{"Card.swift", "Button.swift", "ContentView.swift"}
	if len(got) != len(want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	if !strings.Contains(result.Files[0].Content, "EmptyView") {
		t.Errorf("stub file should be a compilable placeholder:\n%s", result.Files[0].Content)
	}
	if !strings.Contains(result.Files[1].Content, `"Go"`) {
		t.Errorf("sibling capsule should render normally:\n%s", result.Files[1].Content)
	}
}

func TestAssemble_UnknownCapsule(t *testing.T) {
	src := newFakeSource(t, assembleCardDef())
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.card",
		Children: []*capsule.CapsuleInstance{
			{ID: "x", CapsuleID: "ui.ghost"},
		},
	})

	result, err := Assemble(context.Background(), src, comp, platform.Web, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if result.Success {
		t.Error("Success = true, want false")
	}

	found := false
	for _, d := range result.Errors {
		if d.Code == capsule.DiagUnknownCapsule && d.InstanceID == "x" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing unknown-capsule diagnostic: %v", result.Errors)
	}

	// The gap is marked in place so the tree is never silently shortened.
	entry := result.Files[len(result.Files)-1]
	if !strings.Contains(entry.Content, `unknown capsule "ui.ghost"`) {
		t.Errorf("entry does not mark the unknown capsule:\n%s", entry.Content)
	}
}

func TestAssemble_TemplateSyntaxError(t *testing.T) {
	def := assembleButtonDef()
	def.PlatformTemplates[platform.Web] = capsule.PlatformTemplate{RawSource: "{{prop.label"}
	src := newFakeSource(t, def)
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.button",
		Props:     map[string]any{"label": "Go"},
	})

	result, err := Assemble(context.Background(), src, comp, platform.Web, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if result.Success {
		t.Error("Success = true, want false")
	}
	found := false
	for _, d := range result.Errors {
		if d.Code == capsule.DiagTemplateSyntax {
			found = true
		}
	}
	if !found {
		t.Errorf("missing template-syntax diagnostic: %v", result.Errors)
	}
	if !strings.Contains(result.Files[0].Content, "return null") {
		t.Errorf("broken template should yield a stub:\n%s", result.Files[0].Content)
	}
}

func TestAssemble_BindFailureStubsFile(t *testing.T) {
	src := newFakeSource(t, assembleButtonDef())
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.button",
		// Required label absent.
	})

	result, err := Assemble(context.Background(), src, comp, platform.Web, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if result.Success {
		t.Error("Success = true, want false")
	}
	if !strings.Contains(result.Files[0].Content, "binding failed") {
		t.Errorf("bind failure should yield a stub:\n%s", result.Files[0].Content)
	}
	// The usage site references the component with no arguments.
	entry := result.Files[len(result.Files)-1]
	if !strings.Contains(entry.Content, "<Button />") {
		t.Errorf("entry should still reference the component:\n%s", entry.Content)
	}
}

func TestAssemble_DesktopShell(t *testing.T) {
	src := newFakeSource(t, assembleButtonDef(), assembleCardDef())
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.card",
		Children: []*capsule.CapsuleInstance{
			{ID: "b1", CapsuleID: "ui.button", Props: map[string]any{"label": "Go"}},
		},
	})

	result, err := Assemble(context.Background(), src, comp, platform.Desktop, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("Success = false, errors: %v", result.Errors)
	}

	got := filePaths(result.Files)
	want := []string{"Card.jsx", "Button.jsx", "App.jsx", "src-tauri/main.rs"}
	if len(got) != len(want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	shell := result.Files[3]
	if shell.Language != "rust" {
		t.Errorf("shell Language = %q, want rust", shell.Language)
	}
	if !strings.Contains(shell.Content, `const APP_NAME: &str = "Demo App";`) {
		t.Errorf("shell is missing the app name:\n%s", shell.Content)
	}
	if !strings.Contains(shell.Content, "tauri::Builder::default()") {
		t.Errorf("shell is missing the builder:\n%s", shell.Content)
	}
	// The command identifier is the snake_cased composition name.
	if !strings.Contains(shell.Content, "fn demo_app_info()") {
		t.Errorf("shell is missing the info command:\n%s", shell.Content)
	}
}

func TestAssemble_DesktopUsageMatchesWebCasing(t *testing.T) {
	def := assembleButtonDef()
	def.PropSpecs = append(def.PropSpecs, capsule.PropSpec{Name: "onPress", Type: capsule.PropAction})
	src := newFakeSource(t, def)
	root := &capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.button",
		Props:     map[string]any{"label": "Go", "onPress": "handle press"},
	}

	for _, p := range []platform.Platform{platform.Web, platform.Desktop} {
		result, err := Assemble(context.Background(), src, assembleComp(root), p, nil)
		if err != nil {
			t.Fatalf("%s: Assemble failed: %v", p, err)
		}
		entry := entryByPath(t, result.Files, "App.jsx")
		// Both targets share the web convention at usage sites.
		if !strings.Contains(entry.Content, "onPress={handlePress}") {
			t.Errorf("%s: entry does not camelCase the usage args:\n%s", p, entry.Content)
		}
		if strings.Contains(entry.Content, "on_press") {
			t.Errorf("%s: entry snake_cases a UI-layer prop:\n%s", p, entry.Content)
		}
	}
}

func TestAssemble_CollidingUsageArgsStayUnique(t *testing.T) {
	def := assembleButtonDef()
	def.PropSpecs = []capsule.PropSpec{
		{Name: "label", Type: capsule.PropString, Required: true},
		{Name: "onPress", Type: capsule.PropAction},
		{Name: "on-press", Type: capsule.PropAction},
	}
	src := newFakeSource(t, def)
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.button",
		Props:     map[string]any{"label": "Go", "onPress": "doFirst", "on-press": "doSecond"},
	})

	result, err := Assemble(context.Background(), src, comp, platform.Web, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	entry := entryByPath(t, result.Files, "App.jsx")
	// Both props sanitize to onPress; the second is disambiguated instead of
	// emitting a duplicate attribute.
	if !strings.Contains(entry.Content, "onPress={doFirst}") {
		t.Errorf("entry is missing the first argument:\n%s", entry.Content)
	}
	if !strings.Contains(entry.Content, "onPress2={doSecond}") {
		t.Errorf("entry does not disambiguate the colliding argument:\n%s", entry.Content)
	}
	if strings.Count(entry.Content, "onPress={") != 1 {
		t.Errorf("entry emits a duplicate attribute:\n%s", entry.Content)
	}
}

func entryByPath(t *testing.T, files []capsule.GeneratedFile, path string) capsule.GeneratedFile {
	t.Helper()
	for _, f := range files {
		if f.Path == path {
			return f
		}
	}
	t.Fatalf("no file %q in %v", path, filePaths(files))
	return capsule.GeneratedFile{}
}

func TestAssemble_Cancellation(t *testing.T) {
	src := newFakeSource(t, assembleButtonDef())
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.button",
		Props:     map[string]any{"label": "Go"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Assemble(ctx, src, comp, platform.Web, nil)
	if err == nil {
		t.Fatal("Assemble should return the context error when cancelled")
	}
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAssemble_DeterministicOutput(t *testing.T) {
	src := newFakeSource(t, assembleButtonDef(), assembleCardDef())
	build := func() *capsule.CompilationResult {
		comp := assembleComp(&capsule.CapsuleInstance{
			ID:        "root",
			CapsuleID: "ui.card",
			Children: []*capsule.CapsuleInstance{
				{ID: "b1", CapsuleID: "ui.button", Props: map[string]any{"label": "Go"}},
			},
		})
		result, err := Assemble(context.Background(), src, comp, platform.Web, nil)
		if err != nil {
			t.Fatalf("Assemble failed: %v", err)
		}
		return result
	}

	first := build()
	for i := 0; i < 3; i++ {
		again := build()
		if len(again.Files) != len(first.Files) {
			t.Fatalf("file count changed between runs")
		}
		for j := range first.Files {
			if again.Files[j].Path != first.Files[j].Path || again.Files[j].Content != first.Files[j].Content {
				t.Fatalf("run %d: file %q differs between identical inputs", i, first.Files[j].Path)
			}
		}
	}
}

func TestAssemble_Progress(t *testing.T) {
	src := newFakeSource(t, assembleButtonDef())
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.button",
		Props:     map[string]any{"label": "Go"},
	})

	var calls []int
	total := 0
	progress := func(p platform.Platform, done, tot int) {
		calls = append(calls, done)
		total = tot
	}

	if _, err := Assemble(context.Background(), src, comp, platform.Web, progress); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2 (component + entry)", total)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("progress calls = %v, want [1 2]", calls)
	}
}

func TestAssemble_ProgressSkipsUnknownCapsules(t *testing.T) {
	src := newFakeSource(t, assembleCardDef())
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.card",
		Children: []*capsule.CapsuleInstance{
			{ID: "x", CapsuleID: "ui.ghost"},
		},
	})

	var lastDone, lastTotal int
	progress := func(p platform.Platform, done, tot int) {
		lastDone, lastTotal = done, tot
	}

	if _, err := Assemble(context.Background(), src, comp, platform.Web, progress); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// Unknown capsules never emit a file, so they are not counted.
	if lastTotal != 2 {
		t.Errorf("total = %d, want 2 (card + entry)", lastTotal)
	}
	if lastDone != lastTotal {
		t.Errorf("done = %d, want %d", lastDone, lastTotal)
	}
}

func TestAssemble_DeclaredDependenciesAggregated(t *testing.T) {
	button := assembleButtonDef()
	button.PlatformTemplates[platform.Web] = capsule.PlatformTemplate{
		RawSource:            buttonJSX,
		DeclaredDependencies: []string{"react", "clsx"},
	}
	card := assembleCardDef()
	card.PlatformTemplates[platform.Web] = capsule.PlatformTemplate{
		RawSource:            cardJSX,
		DeclaredDependencies: []string{"react"},
	}
	src := newFakeSource(t, button, card)
	comp := assembleComp(&capsule.CapsuleInstance{
		ID:        "root",
		CapsuleID: "ui.card",
		Children: []*capsule.CapsuleInstance{
			{ID: "b1", CapsuleID: "ui.button", Props: map[string]any{"label": "Go"}},
		},
	})

	result, err := Assemble(context.Background(), src, comp, platform.Web, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	deps := result.Metadata.Dependencies
	want := []string{"clsx", "react"}
	if len(deps) != len(want) {
		t.Fatalf("Dependencies = %v, want %v", deps, want)
	}
	for i := range want {
		if deps[i] != want[i] {
			t.Errorf("Dependencies[%d] = %q, want %q", i, deps[i], want[i])
		}
	}
}
