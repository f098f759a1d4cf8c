package codegen

import (
	"fmt"
	"strings"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/platform"
)

// usageArg is one serialized argument at a usage site.
type usageArg struct {
	name    string
	literal string
}

// usageArguments serializes the props an instance supplied explicitly.
// Defaults stay out of usage sites: the binder already baked them into the
// component file. Each usage site is its own identifier scope, so prop names
// that sanitize to the same identifier still emit unique arguments.
func (a *assembler) usageArguments(bound *BoundProps) ([]usageArg, error) {
	var args []usageArg
	scope := NewScope()
	for _, name := range bound.Names() {
		v, _ := bound.Get(name)
		if v.FromDefault {
			continue
		}
		lit, err := Literal(v, a.platform)
		if err != nil {
			return nil, err
		}
		ident, _ := scope.Claim(name, a.platform.VariableCasing())
		args = append(args, usageArg{name: ident, literal: lit})
	}
	return args, nil
}

// usageExpression renders one instance reference for the entry file (or a
// parent's slot), in the target convention's syntax, indented for depth.
func (a *assembler) usageExpression(ident string, args []usageArg, children string, depth int) string {
	ind := indent(depth)
	switch a.platform {
	case platform.Web, platform.Desktop:
		var attrs strings.Builder
		for _, arg := range args {
			attrs.WriteString(fmt.Sprintf(" %s={%s}", arg.name, arg.literal))
		}
		if children == "" {
			return fmt.Sprintf("%s<%s%s />", ind, ident, attrs.String())
		}
		return fmt.Sprintf("%s<%s%s>\n%s\n%s</%s>", ind, ident, attrs.String(), children, ind, ident)

	case platform.IOS:
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = fmt.Sprintf("%s: %s", arg.name, arg.literal)
		}
		call := fmt.Sprintf("%s%s(%s)", ind, ident, strings.Join(parts, ", "))
		if children == "" {
			return call
		}
		return fmt.Sprintf("%s {\n%s\n%s}", call, children, ind)

	case platform.Android:
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = fmt.Sprintf("%s = %s", arg.name, arg.literal)
		}
		call := fmt.Sprintf("%s%s(%s)", ind, ident, strings.Join(parts, ", "))
		if children == "" {
			return call
		}
		return fmt.Sprintf("%s {\n%s\n%s}", call, children, ind)

	default:
		return ind + ident
	}
}

// commentNode renders a comment placeholder where a usage expression could
// not be produced, so the surrounding tree is never silently shortened.
func (a *assembler) commentNode(msg string, depth int) string {
	ind := indent(depth)
	switch a.platform {
	case platform.Web, platform.Desktop:
		return fmt.Sprintf("%s{/* %s */}", ind, msg)
	case platform.IOS, platform.Android:
		return fmt.Sprintf("%s// %s", ind, msg)
	default:
		return fmt.Sprintf("%s// %s", ind, msg)
	}
}

// stubFile builds a structurally compilable placeholder component.
func (a *assembler) stubFile(info *componentInfo, reason string) capsule.GeneratedFile {
	var content string
	switch a.platform {
	case platform.Web, platform.Desktop:
		content = fmt.Sprintf(`// %s
export default function %s() {
  return null;
}
`, reason, info.ident)
	case platform.IOS:
		content = fmt.Sprintf(`import SwiftUI

/// %s
struct %s: View {
    var body: some View {
        EmptyView()
    }
}
`, reason, info.ident)
	case platform.Android:
		content = fmt.Sprintf(`import androidx.compose.runtime.Composable

// %s
@Composable
fun %s() {
}
`, reason, info.ident)
	}
	return capsule.GeneratedFile{
		Path:     info.fileName,
		Content:  content,
		Language: a.platform.Language(),
	}
}

// entryFile assembles the top-level app file: imports (or a component
// manifest where the convention has no per-file imports), theme constants
// resolved from the composition, and the root instance's rendered usage tree.
func (a *assembler) entryFile(rootUsage string) capsule.GeneratedFile {
	switch a.platform {
	case platform.Web, platform.Desktop:
		return a.webEntry(rootUsage)
	case platform.IOS:
		return a.iosEntry(rootUsage)
	case platform.Android:
		return a.androidEntry(rootUsage)
	default:
		return capsule.GeneratedFile{}
	}
}

func (a *assembler) webEntry(rootUsage string) capsule.GeneratedFile {
	var b strings.Builder
	b.WriteString("import React from \"react\";\n")
	for _, id := range a.order {
		info := a.components[id]
		b.WriteString(fmt.Sprintf("import %s from \"./%s\";\n", info.ident, strings.TrimSuffix(info.fileName, ".jsx")))
	}
	b.WriteString("\n")
	b.WriteString("export const theme = " + a.themeObjectJS() + ";\n\n")
	b.WriteString("export default function App() {\n")
	b.WriteString("  return (\n")
	b.WriteString(rootUsage)
	b.WriteString("\n  );\n}\n")
	return capsule.GeneratedFile{
		Path:     a.platform.EntryFileName(),
		Content:  b.String(),
		Language: a.platform.Language(),
	}
}

func (a *assembler) iosEntry(rootUsage string) capsule.GeneratedFile {
	var b strings.Builder
	b.WriteString("import SwiftUI\n\n")
	if len(a.order) > 0 {
		b.WriteString("// Components: ")
		b.WriteString(strings.Join(a.componentFileNames(), ", "))
		b.WriteString("\n\n")
	}
	b.WriteString("enum AppTheme {\n")
	b.WriteString("    static let colors: [String: String] = " + a.themeMapSwift(stringTokens(a.comp.Theme.Colors, a.comp.Theme.ColorNames())) + "\n")
	b.WriteString("    static let typography: [String: String] = " + a.themeMapSwift(stringTokens(a.comp.Theme.Typography, a.comp.Theme.TypographyNames())) + "\n")
	b.WriteString("    static let spacing: [String: Double] = " + a.themeMapSwift(numberTokens(a.comp.Theme.Spacing, a.comp.Theme.SpacingNames())) + "\n")
	b.WriteString("    static let radius: [String: Double] = " + a.themeMapSwift(numberTokens(a.comp.Theme.Radius, a.comp.Theme.RadiusNames())) + "\n")
	b.WriteString("}\n\n")
	b.WriteString("struct ContentView: View {\n")
	b.WriteString("    var body: some View {\n")
	b.WriteString(rootUsage)
	b.WriteString("\n    }\n}\n")
	return capsule.GeneratedFile{
		Path:     a.platform.EntryFileName(),
		Content:  b.String(),
		Language: a.platform.Language(),
	}
}

func (a *assembler) androidEntry(rootUsage string) capsule.GeneratedFile {
	var b strings.Builder
	b.WriteString("import android.os.Bundle\n")
	b.WriteString("import androidx.activity.ComponentActivity\n")
	b.WriteString("import androidx.activity.compose.setContent\n\n")
	if len(a.order) > 0 {
		b.WriteString("// Components: ")
		b.WriteString(strings.Join(a.componentFileNames(), ", "))
		b.WriteString("\n\n")
	}
	b.WriteString("object AppTheme {\n")
	b.WriteString("    val colors = " + a.themeMapKotlin(stringTokens(a.comp.Theme.Colors, a.comp.Theme.ColorNames())) + "\n")
	b.WriteString("    val typography = " + a.themeMapKotlin(stringTokens(a.comp.Theme.Typography, a.comp.Theme.TypographyNames())) + "\n")
	b.WriteString("    val spacing = " + a.themeMapKotlin(numberTokens(a.comp.Theme.Spacing, a.comp.Theme.SpacingNames())) + "\n")
	b.WriteString("    val radius = " + a.themeMapKotlin(numberTokens(a.comp.Theme.Radius, a.comp.Theme.RadiusNames())) + "\n")
	b.WriteString("}\n\n")
	b.WriteString("class MainActivity : ComponentActivity() {\n")
	b.WriteString("    override fun onCreate(savedInstanceState: Bundle?) {\n")
	b.WriteString("        super.onCreate(savedInstanceState)\n")
	b.WriteString("        setContent {\n")
	b.WriteString(rootUsage)
	b.WriteString("\n        }\n    }\n}\n")
	return capsule.GeneratedFile{
		Path:     a.platform.EntryFileName(),
		Content:  b.String(),
		Language: a.platform.Language(),
	}
}

// shellFile emits the desktop target's Rust shell layer alongside the
// web-convention UI files it reuses.
func (a *assembler) shellFile() capsule.GeneratedFile {
	var b strings.Builder
	b.WriteString("// Desktop shell for " + a.comp.Name + "\n\n")
	b.WriteString("const APP_NAME: &str = " + RustStringLiteral(a.comp.Name) + ";\n")
	b.WriteString("const WINDOW_TITLE: &str = " + RustStringLiteral(a.comp.Name) + ";\n\n")

	colors := a.comp.Theme.ColorNames()
	b.WriteString(fmt.Sprintf("const THEME_COLORS: [(&str, &str); %d] = [\n", len(colors)))
	for _, name := range colors {
		b.WriteString("    (" + RustStringLiteral(name) + ", " + RustStringLiteral(a.comp.Theme.Colors[name]) + "),\n")
	}
	b.WriteString("];\n\n")

	command := Sanitize(a.comp.Name, a.platform.ShellVariableCasing()) + "_info"
	b.WriteString("#[tauri::command]\n")
	b.WriteString("fn " + command + "() -> (&'static str, usize) {\n")
	b.WriteString(fmt.Sprintf("    (APP_NAME, %d)\n", len(a.order)))
	b.WriteString("}\n\n")

	b.WriteString("fn main() {\n")
	b.WriteString("    tauri::Builder::default()\n")
	b.WriteString("        .invoke_handler(tauri::generate_handler![" + command + "])\n")
	b.WriteString("        .run(tauri::generate_context!())\n")
	b.WriteString("        .expect(\"error while running application\");\n")
	b.WriteString("}\n")
	return capsule.GeneratedFile{
		Path:     a.platform.ShellFileName(),
		Content:  b.String(),
		Language: a.platform.ShellLanguage(),
	}
}

func (a *assembler) componentFileNames() []string {
	names := make([]string, 0, len(a.order))
	for _, id := range a.order {
		names = append(names, a.components[id].fileName)
	}
	return names
}

// themeObjectJS renders the whole theme as a nested JS object literal.
func (a *assembler) themeObjectJS() string {
	groups := map[string]any{
		"colors":     anyMap(a.comp.Theme.Colors),
		"typography": anyMap(a.comp.Theme.Typography),
		"spacing":    anyMap(a.comp.Theme.Spacing),
		"radius":     anyMap(a.comp.Theme.Radius),
	}
	lit, err := objectLiteral(groups, styleJS)
	if err != nil {
		return "{}"
	}
	return lit
}

func (a *assembler) themeMapSwift(pairs []themePair) string {
	if len(pairs) == 0 {
		return "[:]"
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = `"` + escapeSwift(p.name) + `": ` + p.literal(styleSwift)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *assembler) themeMapKotlin(pairs []themePair) string {
	if len(pairs) == 0 {
		return "mapOf<String, String>()"
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = `"` + escapeKotlin(p.name) + `" to ` + p.literal(styleKotlin)
	}
	return "mapOf(" + strings.Join(parts, ", ") + ")"
}

// themePair carries one theme token for entry-file emission.
type themePair struct {
	name string
	str  *string
	num  *float64
}

func (p themePair) literal(style literalStyle) string {
	if p.str != nil {
		return stringLiteral(*p.str, style)
	}
	return numberLiteral(*p.num)
}

func stringTokens(m map[string]string, names []string) []themePair {
	pairs := make([]themePair, len(names))
	for i, n := range names {
		v := m[n]
		pairs[i] = themePair{name: n, str: &v}
	}
	return pairs
}

func numberTokens(m map[string]float64, names []string) []themePair {
	pairs := make([]themePair, len(names))
	for i, n := range names {
		v := m[n]
		pairs[i] = themePair{name: n, num: &v}
	}
	return pairs
}

func anyMap[V any](m map[string]V) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func joinLines(parts []string) string {
	return strings.Join(parts, "\n")
}
