// Package codegen implements the platform-agnostic synthesis core: prop
// binding, literal serialization, template rendering, and per-target file
// tree assembly. Everything in this package is pure text generation — no
// filesystem, network, or persistence I/O.
package codegen

import (
	"fmt"
	"strings"

	"github.com/capstudio/capstudio/internal/capsule"
)

// placeholderKind classifies a template placeholder.
type placeholderKind int

const (
	tokenLiteral placeholderKind = iota
	tokenProp
	tokenTheme
	tokenSlot
	tokenComponentName
)

// token is one parsed segment of a template: either literal text or a
// placeholder reference.
type token struct {
	kind placeholderKind
	text string // literal text, or the placeholder's name/path
}

// Template is a platform template parsed into an ordered token list.
// Parsing happens once, at capsule registration; rendering is substitution
// over the token list and never re-parses.
type Template struct {
	tokens   []token
	fileName string
	deps     []string
}

// SyntaxError reports a malformed placeholder in a template. It is detected
// at registration time and is fatal for that capsule's file only: the file is
// stubbed at export, siblings are unaffected.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template syntax error at offset %d: %s", e.Offset, e.Message)
}

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// ParseTemplate parses a platform template's raw source against the owning
// capsule's prop schema. Placeholder grammar:
//
//	{{prop.<name>}}      a bound prop literal
//	{{theme.<group>.<name>}}  a resolved theme token
//	{{slot.<name>}}      pre-rendered child output ("children" is the default slot)
//	{{component.name}}   the sanitized component identifier
//
// Prop and slot names are validated against the schema here so a typo is a
// registration-time error, not an export-time surprise.
func ParseTemplate(tpl capsule.PlatformTemplate, def *capsule.CapsuleDefinition) (*Template, error) {
	tokens, err := tokenize(tpl.RawSource, def)
	if err != nil {
		return nil, err
	}
	return &Template{
		tokens:   tokens,
		fileName: tpl.FileNameTemplate,
		deps:     tpl.DeclaredDependencies,
	}, nil
}

func tokenize(raw string, def *capsule.CapsuleDefinition) ([]token, error) {
	var tokens []token
	pos := 0
	for {
		rest := raw[pos:]
		open := strings.Index(rest, openDelim)
		if open < 0 {
			if len(rest) > 0 {
				tokens = append(tokens, token{kind: tokenLiteral, text: rest})
			}
			return tokens, nil
		}
		if open > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, text: rest[:open]})
		}
		start := pos + open
		end := strings.Index(raw[start+len(openDelim):], closeDelim)
		if end < 0 {
			return nil, &SyntaxError{Offset: start, Message: "unclosed placeholder"}
		}
		ref := raw[start+len(openDelim) : start+len(openDelim)+end]
		tok, err := parseRef(ref, start, def)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		pos = start + len(openDelim) + end + len(closeDelim)
	}
}

func parseRef(ref string, offset int, def *capsule.CapsuleDefinition) (token, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return token{}, &SyntaxError{Offset: offset, Message: "empty placeholder"}
	}
	if strings.Contains(ref, openDelim) {
		return token{}, &SyntaxError{Offset: offset, Message: "nested placeholder delimiter"}
	}
	kind, name, ok := strings.Cut(ref, ".")
	if !ok {
		return token{}, &SyntaxError{Offset: offset, Message: fmt.Sprintf("placeholder %q: expected <kind>.<name>", ref)}
	}
	switch kind {
	case "prop":
		spec := def.Spec(name)
		if spec == nil {
			return token{}, &SyntaxError{Offset: offset, Message: fmt.Sprintf("placeholder references unknown prop %q", name)}
		}
		if spec.Type == capsule.PropSlot {
			return token{}, &SyntaxError{Offset: offset, Message: fmt.Sprintf("prop %q is a slot; use {{slot.%s}}", name, name)}
		}
		return token{kind: tokenProp, text: name}, nil
	case "theme":
		group, _, ok := strings.Cut(name, ".")
		if !ok {
			return token{}, &SyntaxError{Offset: offset, Message: fmt.Sprintf("theme placeholder %q: expected theme.<group>.<name>", ref)}
		}
		switch group {
		case "colors", "typography", "spacing", "radius":
			return token{kind: tokenTheme, text: name}, nil
		default:
			return token{}, &SyntaxError{Offset: offset, Message: fmt.Sprintf("theme placeholder %q: unknown group %q", ref, group)}
		}
	case "slot":
		if name != defaultSlot {
			spec := def.Spec(name)
			if spec == nil || spec.Type != capsule.PropSlot {
				return token{}, &SyntaxError{Offset: offset, Message: fmt.Sprintf("placeholder references unknown slot %q", name)}
			}
		}
		return token{kind: tokenSlot, text: name}, nil
	case "component":
		if name != "name" {
			return token{}, &SyntaxError{Offset: offset, Message: fmt.Sprintf("unknown component placeholder %q", ref)}
		}
		return token{kind: tokenComponentName, text: name}, nil
	default:
		return token{}, &SyntaxError{Offset: offset, Message: fmt.Sprintf("unknown placeholder kind %q", kind)}
	}
}

// defaultSlot is the implicit slot that receives an instance's Children.
const defaultSlot = "children"

// RenderInput carries everything a render substitutes: serialized prop
// literals, the composition theme, pre-rendered slot output, and the
// component's sanitized identifier. Rendering is a pure function of this
// input: identical inputs always yield identical text.
type RenderInput struct {
	ComponentName string
	PropLiterals  map[string]string
	Theme         capsule.Theme
	Slots         map[string]string
}

// Render walks the token list and substitutes values. A prop with no literal
// (optional, absent, no default) renders as empty text; the binder has already
// reported anything that should have been an error.
func (t *Template) Render(in RenderInput) (string, error) {
	var b strings.Builder
	for _, tok := range t.tokens {
		switch tok.kind {
		case tokenLiteral:
			b.WriteString(tok.text)
		case tokenProp:
			b.WriteString(in.PropLiterals[tok.text])
		case tokenTheme:
			v, err := in.Theme.ResolveToken(tok.text)
			if err != nil {
				return "", err
			}
			b.WriteString(v)
		case tokenSlot:
			b.WriteString(in.Slots[tok.text])
		case tokenComponentName:
			b.WriteString(in.ComponentName)
		}
	}
	return b.String(), nil
}

// FileNameTemplate returns the template's declared file name, or "".
func (t *Template) FileNameTemplate() string { return t.fileName }

// DeclaredDependencies returns the template's declared dependencies.
func (t *Template) DeclaredDependencies() []string { return t.deps }
