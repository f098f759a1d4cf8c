// Package builtins supplies the built-in capsule catalog. It is the startup
// collaborator that populates a registry before any surface starts serving.
package builtins

import (
	"fmt"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/platform"
	"github.com/capstudio/capstudio/internal/registry"
)

// RegisterAll registers every built-in capsule definition. Called once at
// process start, before the CLI, web, or MCP surface begins serving.
func RegisterAll(reg *registry.Registry) error {
	for _, def := range Definitions() {
		if err := reg.Register(def); err != nil {
			return fmt.Errorf("register builtin %q: %w", def.ID, err)
		}
	}
	return nil
}

// Definitions returns the built-in capsule definitions in catalog order.
func Definitions() []*capsule.CapsuleDefinition {
	return []*capsule.CapsuleDefinition{
		buttonDef(),
		textInputDef(),
		cardDef(),
		navBarDef(),
		authScreenDef(),
		dataTableDef(),
		chartDef(),
	}
}

func f64(v float64) *float64 { return &v }

func buttonDef() *capsule.CapsuleDefinition {
	return &capsule.CapsuleDefinition{
		ID:       "core.button",
		Name:     "Button",
		Category: "inputs",
		Tags:     []string{"input", "action"},
		Description: `A pressable button with a label and an action handler.

Supports **primary** and **secondary** variants tied to the theme's color
tokens.`,
		PropSpecs: []capsule.PropSpec{
			{Name: "label", Type: capsule.PropString, Required: true},
			{Name: "variant", Type: capsule.PropEnum, Options: []string{"primary", "secondary"}, Default: "primary"},
			{Name: "onPress", Type: capsule.PropAction, Default: "handlePress"},
			{Name: "disabled", Type: capsule.PropBoolean, Default: false},
		},
		PlatformTemplates: map[platform.Platform]capsule.PlatformTemplate{
			platform.Web:     {RawSource: buttonWeb},
			platform.IOS:     {RawSource: buttonIOS},
			platform.Android: {RawSource: buttonAndroid, DeclaredDependencies: []string{"androidx.compose.material3"}},
			platform.Desktop: {RawSource: buttonWeb},
		},
	}
}

func textInputDef() *capsule.CapsuleDefinition {
	return &capsule.CapsuleDefinition{
		ID:       "core.text-input",
		Name:     "Text Input",
		Category: "inputs",
		Tags:     []string{"input", "form"},
		Description: `A single-line text field with a placeholder and change handler.`,
		PropSpecs: []capsule.PropSpec{
			{Name: "placeholder", Type: capsule.PropString, Default: ""},
			{Name: "secure", Type: capsule.PropBoolean, Default: false},
			{Name: "onChange", Type: capsule.PropAction, Default: "handleChange"},
		},
		PlatformTemplates: map[platform.Platform]capsule.PlatformTemplate{
			platform.Web:     {RawSource: textInputWeb},
			platform.IOS:     {RawSource: textInputIOS},
			platform.Android: {RawSource: textInputAndroid, DeclaredDependencies: []string{"androidx.compose.material3"}},
			platform.Desktop: {RawSource: textInputWeb},
		},
	}
}

func cardDef() *capsule.CapsuleDefinition {
	return &capsule.CapsuleDefinition{
		ID:       "core.card",
		Name:     "Card",
		Category: "layout",
		Tags:     []string{"layout", "container"},
		Description: `A surface container with themed background, padding, and corner radius.
Nested capsules render inside its default slot.`,
		PropSpecs: []capsule.PropSpec{
			{Name: "title", Type: capsule.PropString, Default: ""},
			{Name: "elevation", Type: capsule.PropNumber, Default: 1.0, Min: f64(0), Max: f64(24)},
			{Name: "children", Type: capsule.PropSlot},
		},
		PlatformTemplates: map[platform.Platform]capsule.PlatformTemplate{
			platform.Web:     {RawSource: cardWeb},
			platform.IOS:     {RawSource: cardIOS},
			platform.Android: {RawSource: cardAndroid, DeclaredDependencies: []string{"androidx.compose.material3"}},
			platform.Desktop: {RawSource: cardWeb},
		},
	}
}

func navBarDef() *capsule.CapsuleDefinition {
	return &capsule.CapsuleDefinition{
		ID:       "core.nav-bar",
		Name:     "Nav Bar",
		Category: "navigation",
		Tags:     []string{"navigation", "layout"},
		Description: `A top navigation bar with a title and a list of link labels.`,
		PropSpecs: []capsule.PropSpec{
			{Name: "title", Type: capsule.PropString, Required: true},
			{Name: "links", Type: capsule.PropArray, Default: []any{}},
		},
		PlatformTemplates: map[platform.Platform]capsule.PlatformTemplate{
			platform.Web:     {RawSource: navBarWeb},
			platform.IOS:     {RawSource: navBarIOS},
			platform.Android: {RawSource: navBarAndroid, DeclaredDependencies: []string{"androidx.compose.material3"}},
			platform.Desktop: {RawSource: navBarWeb},
		},
	}
}

func authScreenDef() *capsule.CapsuleDefinition {
	return &capsule.CapsuleDefinition{
		ID:       "core.auth-screen",
		Name:     "Auth Screen",
		Category: "screens",
		Tags:     []string{"screen", "auth", "form"},
		Description: `A complete sign-in / sign-up screen.

The ` + "`mode`" + ` prop selects the initial form; the submit handler is a named
action bound by the host application.`,
		PropSpecs: []capsule.PropSpec{
			{Name: "heading", Type: capsule.PropString, Required: true},
			{Name: "mode", Type: capsule.PropEnum, Options: []string{"login", "signup"}, Default: "login"},
			{Name: "onSubmit", Type: capsule.PropAction, Default: "handleSubmit"},
			{Name: "accentColor", Type: capsule.PropColor, Default: "theme.colors.primary"},
		},
		PlatformTemplates: map[platform.Platform]capsule.PlatformTemplate{
			platform.Web:     {RawSource: authScreenWeb},
			platform.IOS:     {RawSource: authScreenIOS},
			platform.Android: {RawSource: authScreenAndroid, DeclaredDependencies: []string{"androidx.compose.material3"}},
			platform.Desktop: {RawSource: authScreenWeb},
		},
	}
}

func dataTableDef() *capsule.CapsuleDefinition {
	return &capsule.CapsuleDefinition{
		ID:       "core.data-table",
		Name:     "Data Table",
		Category: "data",
		Tags:     []string{"data", "table"},
		Description: `A column-configurable data table with themed header styling.`,
		PropSpecs: []capsule.PropSpec{
			{Name: "columns", Type: capsule.PropArray, Required: true},
			{Name: "striped", Type: capsule.PropBoolean, Default: true},
			{Name: "pageSize", Type: capsule.PropNumber, Default: 25.0, Min: f64(1), Max: f64(500)},
		},
		PlatformTemplates: map[platform.Platform]capsule.PlatformTemplate{
			platform.Web:     {RawSource: dataTableWeb},
			platform.IOS:     {RawSource: dataTableIOS},
			platform.Android: {RawSource: dataTableAndroid, DeclaredDependencies: []string{"androidx.compose.material3"}},
			platform.Desktop: {RawSource: dataTableWeb},
		},
	}
}

// chartDef deliberately covers only web and android: exporting it to ios or
// desktop exercises the capability-gap stubbing path with a real catalog
// entry.
func chartDef() *capsule.CapsuleDefinition {
	return &capsule.CapsuleDefinition{
		ID:       "core.chart",
		Name:     "Chart",
		Category: "data",
		Tags:     []string{"data", "visualization"},
		Description: `A simple bar/line chart. Currently available on web and Android only.`,
		PropSpecs: []capsule.PropSpec{
			{Name: "kind", Type: capsule.PropEnum, Options: []string{"bar", "line"}, Default: "bar"},
			{Name: "series", Type: capsule.PropArray, Required: true},
		},
		PlatformTemplates: map[platform.Platform]capsule.PlatformTemplate{
			platform.Web:     {RawSource: chartWeb},
			platform.Android: {RawSource: chartAndroid, DeclaredDependencies: []string{"androidx.compose.foundation"}},
		},
	}
}
