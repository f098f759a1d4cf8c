package codegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/capstudio/capstudio/internal/capsule"
)

// hexColorRegex matches 3-, 4-, 6-, and 8-digit hex colors.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// themeTokenPrefix marks a prop value that references a theme token instead
// of carrying a literal, e.g. "theme.colors.primary".
const themeTokenPrefix = "theme."

// BoundValue is one validated prop value paired with its spec. Downstream
// serialization trusts it and never re-validates.
type BoundValue struct {
	Spec  capsule.PropSpec
	Value any

	// FromDefault records that the spec default filled an absent value.
	FromDefault bool
}

// BoundProps is the schema-validated bound record for one instance, produced
// only by Bind.
type BoundProps struct {
	values map[string]BoundValue
	order  []string
}

// Get returns the bound value for a prop name.
func (b *BoundProps) Get(name string) (BoundValue, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Names returns the bound prop names in spec-declaration order.
func (b *BoundProps) Names() []string {
	return b.order
}

// Len returns the number of bound props.
func (b *BoundProps) Len() int {
	return len(b.order)
}

func (b *BoundProps) put(name string, v BoundValue) {
	if b.values == nil {
		b.values = make(map[string]BoundValue)
	}
	if _, exists := b.values[name]; !exists {
		b.order = append(b.order, name)
	}
	b.values[name] = v
}

// Bind resolves an instance's raw prop values against its definition's
// schema: defaults, required checks, type validation, enum membership, and
// numeric bounds. Every spec is checked and diagnostics accumulate — a single
// bad instance surfaces all of its problems in one pass.
//
// Default and theme-token fallback resolution happens here and nowhere else;
// templates carry no inline fallbacks.
func Bind(inst *capsule.CapsuleInstance, def *capsule.CapsuleDefinition, theme capsule.Theme) (*BoundProps, []capsule.Diagnostic) {
	bound := &BoundProps{}
	var diags []capsule.Diagnostic

	for _, spec := range def.PropSpecs {
		if spec.Type == capsule.PropSlot {
			// Slot content comes from the instance tree, not prop values.
			continue
		}

		raw, supplied := lookupProp(inst, spec.Name)
		if !supplied {
			if spec.Default != nil {
				raw = spec.Default
			} else if spec.Required {
				diags = append(diags, capsule.Diagnostic{
					Code:       capsule.DiagMissingRequiredProp,
					Severity:   capsule.SeverityError,
					Message:    fmt.Sprintf("required prop %q has no value and no default", spec.Name),
					InstanceID: inst.ID,
					CapsuleID:  def.ID,
					Prop:       spec.Name,
				})
				continue
			} else {
				// Optional, absent, no default: skip.
				continue
			}
		}

		value, ds := checkValue(raw, spec, theme, inst.ID, def.ID)
		diags = append(diags, ds...)
		if hasError(ds) {
			continue
		}
		bound.put(spec.Name, BoundValue{Spec: spec, Value: value, FromDefault: !supplied})
	}

	return bound, diags
}

func lookupProp(inst *capsule.CapsuleInstance, name string) (any, bool) {
	if inst.Props == nil {
		return nil, false
	}
	v, ok := inst.Props[name]
	return v, ok
}

func hasError(ds []capsule.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == capsule.SeverityError {
			return true
		}
	}
	return false
}

// checkValue validates and coerces one raw value against its spec. The
// returned value is the canonical bound form (theme token refs resolved,
// numbers normalized to float64).
func checkValue(raw any, spec capsule.PropSpec, theme capsule.Theme, instanceID, capsuleID string) (any, []capsule.Diagnostic) {
	fail := func(code capsule.DiagnosticCode, format string, args ...any) (any, []capsule.Diagnostic) {
		return nil, []capsule.Diagnostic{{
			Code:       code,
			Severity:   capsule.SeverityError,
			Message:    fmt.Sprintf(format, args...),
			InstanceID: instanceID,
			CapsuleID:  capsuleID,
			Prop:       spec.Name,
		}}
	}

	switch spec.Type {
	case capsule.PropString, capsule.PropIcon, capsule.PropImage:
		s, ok := raw.(string)
		if !ok {
			return fail(capsule.DiagInvalidPropType, "prop %q: expected string, got %T", spec.Name, raw)
		}
		if spec.Pattern != "" {
			re, err := regexp.Compile(spec.Pattern)
			if err == nil && !re.MatchString(s) {
				return fail(capsule.DiagInvalidPropType, "prop %q: value %q does not match pattern %q", spec.Name, s, spec.Pattern)
			}
		}
		return s, nil

	case capsule.PropNumber, capsule.PropSize, capsule.PropSpacing:
		n, ok := asNumber(raw)
		if !ok {
			return fail(capsule.DiagInvalidPropType, "prop %q: expected number, got %T", spec.Name, raw)
		}
		if spec.Min != nil && n < *spec.Min {
			return fail(capsule.DiagOutOfRange, "prop %q: %v is below minimum %v", spec.Name, n, *spec.Min)
		}
		if spec.Max != nil && n > *spec.Max {
			return fail(capsule.DiagOutOfRange, "prop %q: %v is above maximum %v", spec.Name, n, *spec.Max)
		}
		return n, nil

	case capsule.PropBoolean:
		b, ok := raw.(bool)
		if !ok {
			return fail(capsule.DiagInvalidPropType, "prop %q: expected boolean, got %T", spec.Name, raw)
		}
		return b, nil

	case capsule.PropColor:
		s, ok := raw.(string)
		if !ok {
			return fail(capsule.DiagInvalidPropType, "prop %q: expected color string, got %T", spec.Name, raw)
		}
		if strings.HasPrefix(s, themeTokenPrefix) {
			resolved, err := theme.ResolveToken(strings.TrimPrefix(s, themeTokenPrefix))
			if err != nil {
				return fail(capsule.DiagInvalidPropType, "prop %q: %v", spec.Name, err)
			}
			return resolved, nil
		}
		if !hexColorRegex.MatchString(s) {
			return fail(capsule.DiagInvalidPropType, "prop %q: %q is neither a hex color nor a theme token", spec.Name, s)
		}
		return s, nil

	case capsule.PropAction:
		s, ok := raw.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return fail(capsule.DiagInvalidPropType, "prop %q: expected handler name, got %T", spec.Name, raw)
		}
		return s, nil

	case capsule.PropEnum:
		s, ok := raw.(string)
		if !ok {
			return fail(capsule.DiagInvalidPropType, "prop %q: expected enum string, got %T", spec.Name, raw)
		}
		for _, opt := range spec.Options {
			if s == opt {
				return s, nil
			}
		}
		return fail(capsule.DiagInvalidEnumValue, "prop %q: %q is not one of %v", spec.Name, s, spec.Options)

	case capsule.PropArray:
		arr, ok := raw.([]any)
		if !ok {
			return fail(capsule.DiagInvalidPropType, "prop %q: expected array, got %T", spec.Name, raw)
		}
		return arr, nil

	case capsule.PropObject:
		obj, ok := raw.(map[string]any)
		if !ok {
			return fail(capsule.DiagInvalidPropType, "prop %q: expected object, got %T", spec.Name, raw)
		}
		return obj, nil

	default:
		return fail(capsule.DiagInvalidPropType, "prop %q: unknown prop type %q", spec.Name, spec.Type)
	}
}

// asNumber normalizes the numeric types JSON decoding and Go literals
// produce into float64.
func asNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
