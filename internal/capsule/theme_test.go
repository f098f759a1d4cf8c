package capsule

import (
	"testing"
)

func TestResolveToken(t *testing.T) {
	theme := DefaultTheme()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{
			name: "color token",
			path: "colors.primary",
			want: "#3B82F6",
		},
		{
			name: "typography token",
			path: "typography.body",
			want: "Inter, 16px, 400",
		},
		{
			name: "spacing token renders without trailing zeros",
			path: "spacing.md",
			want: "16",
		},
		{
			name: "radius token",
			path: "radius.lg",
			want: "16",
		},
		{
			name:    "unknown group",
			path:    "shadows.soft",
			wantErr: true,
		},
		{
			name:    "unknown name",
			path:    "colors.tertiary",
			wantErr: true,
		},
		{
			name:    "no dot",
			path:    "primary",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := theme.ResolveToken(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ResolveToken(%q) expected error, got %q", tt.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveToken(%q) failed: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("ResolveToken(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveToken_FractionalSpacing(t *testing.T) {
	theme := Theme{Spacing: map[string]float64{"half": 0.5}}
	got, err := theme.ResolveToken("spacing.half")
	if err != nil {
		t.Fatalf("ResolveToken failed: %v", err)
	}
	if got != "0.5" {
		t.Errorf("ResolveToken = %q, want %q", got, "0.5")
	}
}

func TestHasToken(t *testing.T) {
	theme := DefaultTheme()
	if !theme.HasToken("colors.primary") {
		t.Error("HasToken(colors.primary) = false, want true")
	}
	if theme.HasToken("colors.nope") {
		t.Error("HasToken(colors.nope) = true, want false")
	}
}

func TestTokenNamesSorted(t *testing.T) {
	theme := DefaultTheme()

	names := theme.ColorNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("ColorNames not sorted: %q before %q", names[i-1], names[i])
		}
	}

	spacing := theme.SpacingNames()
	want := []string{"lg", "md", "sm", "xl", "xs"}
	if len(spacing) != len(want) {
		t.Fatalf("SpacingNames returned %d names, want %d", len(spacing), len(want))
	}
	for i := range want {
		if spacing[i] != want[i] {
			t.Errorf("SpacingNames[%d] = %q, want %q", i, spacing[i], want[i])
		}
	}
}
