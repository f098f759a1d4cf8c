package codegen

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/platform"
)

// literalStyle selects a target language's literal grammar. Desktop reuses
// the web style for its UI files; its Rust shell layer uses the rust helpers
// directly from the assembler.
type literalStyle int

const (
	styleJS literalStyle = iota
	styleSwift
	styleKotlin
)

func styleFor(p platform.Platform) (literalStyle, error) {
	switch p {
	case platform.Web, platform.Desktop:
		return styleJS, nil
	case platform.IOS:
		return styleSwift, nil
	case platform.Android:
		return styleKotlin, nil
	default:
		return 0, fmt.Errorf("unsupported platform %q", p)
	}
}

// Literal converts a bound prop value into syntactically valid literal text
// for the platform's convention. The value has already been validated by the
// binder; Literal trusts the spec type and never re-validates.
func Literal(v BoundValue, p platform.Platform) (string, error) {
	style, err := styleFor(p)
	if err != nil {
		return "", err
	}

	switch v.Spec.Type {
	case capsule.PropString, capsule.PropColor, capsule.PropIcon, capsule.PropImage:
		return stringLiteral(v.Value.(string), style), nil

	case capsule.PropNumber, capsule.PropSize, capsule.PropSpacing:
		return numberLiteral(v.Value.(float64)), nil

	case capsule.PropBoolean:
		return boolLiteral(v.Value.(bool), style), nil

	case capsule.PropEnum:
		return enumLiteral(v.Value.(string), style), nil

	case capsule.PropAction:
		// Actions are opaque handler references bound by the enclosing
		// composition, never inlined as executable text.
		return actionReference(v.Value.(string), p), nil

	case capsule.PropArray:
		return collectionLiteral(v.Value.([]any), style)

	case capsule.PropObject:
		return objectLiteral(v.Value.(map[string]any), style)

	default:
		return "", fmt.Errorf("prop %q: type %q has no literal form", v.Spec.Name, v.Spec.Type)
	}
}

// ActionReference derives the handler identifier for an action prop.
func actionReference(handler string, p platform.Platform) string {
	return Sanitize(handler, p.VariableCasing())
}

func stringLiteral(s string, style literalStyle) string {
	switch style {
	case styleJS:
		return `"` + escapeJS(s) + `"`
	case styleSwift:
		return `"` + escapeSwift(s) + `"`
	case styleKotlin:
		return `"` + escapeKotlin(s) + `"`
	}
	return strconv.Quote(s)
}

// numberLiteral renders a number using the shortest exact decimal form,
// shared by every convention's numeric grammar.
func numberLiteral(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func boolLiteral(b bool, _ literalStyle) string {
	// All four conventions spell booleans the same way; routing through the
	// style keeps the dispatch exhaustive if that ever changes.
	if b {
		return "true"
	}
	return "false"
}

// enumLiteral renders a validated enum option: quoted string on the
// JS/Kotlin conventions, a leading-dot member on Swift.
func enumLiteral(option string, style literalStyle) string {
	switch style {
	case styleSwift:
		return "." + Sanitize(option, platform.CamelCase)
	case styleJS:
		return `"` + escapeJS(option) + `"`
	case styleKotlin:
		return `"` + escapeKotlin(option) + `"`
	}
	return strconv.Quote(option)
}

// collectionLiteral renders an ordered sequence using the convention's native
// syntax, recursively serializing elements.
func collectionLiteral(items []any, style literalStyle) (string, error) {
	parts := make([]string, len(items))
	for i, item := range items {
		lit, err := anyLiteral(item, style)
		if err != nil {
			return "", err
		}
		parts[i] = lit
	}
	joined := strings.Join(parts, ", ")
	switch style {
	case styleJS, styleSwift:
		return "[" + joined + "]", nil
	case styleKotlin:
		return "listOf(" + joined + ")", nil
	}
	return "", fmt.Errorf("unhandled literal style %d", style)
}

// jsIdentRegex matches keys that may appear unquoted in a JS object literal.
var jsIdentRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// objectLiteral renders a keyed map using the convention's native syntax.
// Keys are emitted in sorted order so output is deterministic.
func objectLiteral(m map[string]any, style literalStyle) (string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		lit, err := anyLiteral(m[k], style)
		if err != nil {
			return "", err
		}
		switch style {
		case styleJS:
			key := k
			if !jsIdentRegex.MatchString(k) {
				key = `"` + escapeJS(k) + `"`
			}
			parts[i] = key + ": " + lit
		case styleSwift:
			parts[i] = `"` + escapeSwift(k) + `": ` + lit
		case styleKotlin:
			parts[i] = `"` + escapeKotlin(k) + `" to ` + lit
		}
	}
	joined := strings.Join(parts, ", ")

	switch style {
	case styleJS:
		return "{ " + joined + " }", nil
	case styleSwift:
		if len(keys) == 0 {
			return "[:]", nil
		}
		return "[" + joined + "]", nil
	case styleKotlin:
		return "mapOf(" + joined + ")", nil
	}
	return "", fmt.Errorf("unhandled literal style %d", style)
}

// anyLiteral serializes an untyped collection element.
func anyLiteral(v any, style literalStyle) (string, error) {
	switch value := v.(type) {
	case string:
		return stringLiteral(value, style), nil
	case bool:
		return boolLiteral(value, style), nil
	case []any:
		return collectionLiteral(value, style)
	case map[string]any:
		return objectLiteral(value, style)
	case nil:
		if style == styleSwift {
			return "nil", nil
		}
		return "null", nil
	default:
		if n, ok := asNumber(v); ok {
			return numberLiteral(n), nil
		}
		return "", fmt.Errorf("value of type %T has no literal form", v)
	}
}

// escapeJS escapes metacharacters so the emitted literal cannot break out of
// a double-quoted JS string or a template interpolation context.
func escapeJS(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"`", "\\`",
		"${", "\\${",
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}

// escapeSwift escapes Swift string metacharacters, including the \( )
// interpolation opener.
func escapeSwift(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}

// escapeKotlin escapes Kotlin string metacharacters, including the $
// interpolation sigil.
func escapeKotlin(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		`$`, `\$`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}

// escapeRust escapes Rust string metacharacters for the desktop shell file.
func escapeRust(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}

// RustStringLiteral renders a quoted Rust string literal for shell-layer
// emission.
func RustStringLiteral(s string) string {
	return `"` + escapeRust(s) + `"`
}
