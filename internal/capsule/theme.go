package capsule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Theme holds the design tokens shared by every capsule in a composition.
type Theme struct {
	// Colors maps token names to hex color strings (e.g. "primary" → "#3B82F6").
	Colors map[string]string `json:"colors,omitempty"`

	// Typography maps token names to font descriptions (family, size...).
	Typography map[string]string `json:"typography,omitempty"`

	// Spacing maps scale names to point values (e.g. "md" → 16).
	Spacing map[string]float64 `json:"spacing,omitempty"`

	// Radius maps corner-radius scale names to point values.
	Radius map[string]float64 `json:"radius,omitempty"`
}

// DefaultTheme returns the starter theme every new project begins with. The
// built-in capsule templates rely on its token names being present.
func DefaultTheme() Theme {
	return Theme{
		Colors: map[string]string{
			"primary":    "#3B82F6",
			"secondary":  "#8B5CF6",
			"background": "#F8FAFC",
			"surface":    "#E2E8F0",
			"text":       "#0F172A",
		},
		Typography: map[string]string{
			"heading": "Inter, 24px, 600",
			"body":    "Inter, 16px, 400",
		},
		Spacing: map[string]float64{
			"xs": 4, "sm": 8, "md": 16, "lg": 24, "xl": 40,
		},
		Radius: map[string]float64{
			"sm": 4, "md": 8, "lg": 16,
		},
	}
}

// ResolveToken resolves a dotted token path such as "colors.primary" or
// "spacing.md" to its string form. Numeric tokens are rendered with
// strconv.FormatFloat so resolution is deterministic.
func (t Theme) ResolveToken(path string) (string, error) {
	group, name, ok := strings.Cut(path, ".")
	if !ok {
		return "", fmt.Errorf("theme token %q: expected <group>.<name>", path)
	}
	switch group {
	case "colors":
		if v, ok := t.Colors[name]; ok {
			return v, nil
		}
	case "typography":
		if v, ok := t.Typography[name]; ok {
			return v, nil
		}
	case "spacing":
		if v, ok := t.Spacing[name]; ok {
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
	case "radius":
		if v, ok := t.Radius[name]; ok {
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
	default:
		return "", fmt.Errorf("theme token %q: unknown group %q", path, group)
	}
	return "", fmt.Errorf("theme token %q: not defined", path)
}

// HasToken reports whether the dotted token path resolves.
func (t Theme) HasToken(path string) bool {
	_, err := t.ResolveToken(path)
	return err == nil
}

// ColorNames returns the color token names in sorted order, for deterministic
// emission of theme constant blocks.
func (t Theme) ColorNames() []string {
	return sortedKeys(t.Colors)
}

// SpacingNames returns the spacing scale names in sorted order.
func (t Theme) SpacingNames() []string {
	return sortedKeys(t.Spacing)
}

// RadiusNames returns the radius scale names in sorted order.
func (t Theme) RadiusNames() []string {
	return sortedKeys(t.Radius)
}

// TypographyNames returns the typography token names in sorted order.
func (t Theme) TypographyNames() []string {
	return sortedKeys(t.Typography)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
