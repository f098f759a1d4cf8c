package ops

import (
	"testing"

	"github.com/capstudio/capstudio/internal/builtins"
	"github.com/capstudio/capstudio/internal/errors"
	"github.com/capstudio/capstudio/internal/platform"
)

func TestCatalogList(t *testing.T) {
	_, reg, _ := setupTest(t)

	out, err := CatalogList(reg, CatalogListInput{})
	if err != nil {
		t.Fatalf("CatalogList failed: %v", err)
	}
	if out.Total != len(builtins.Definitions()) {
		t.Errorf("Total = %d, want %d", out.Total, len(builtins.Definitions()))
	}
	// Sorted by id.
	for i := 1; i < len(out.Items); i++ {
		if out.Items[i-1].ID >= out.Items[i].ID {
			t.Errorf("items not sorted: %q before %q", out.Items[i-1].ID, out.Items[i].ID)
		}
	}
	for _, item := range out.Items {
		if len(item.Platforms) == 0 {
			t.Errorf("%s: no supported platforms reported", item.ID)
		}
	}
}

func TestCatalogList_Filters(t *testing.T) {
	_, reg, _ := setupTest(t)

	tests := []struct {
		name  string
		input CatalogListInput
		want  []string
	}{
		{
			name:  "by category",
			input: CatalogListInput{Category: "data"},
			want:  []string{"core.chart", "core.data-table"},
		},
		{
			name:  "by tag",
			input: CatalogListInput{Tag: "auth"},
			want:  []string{"core.auth-screen"},
		},
		{
			name:  "by platform excludes partial capsules",
			input: CatalogListInput{Category: "data", Platform: "ios"},
			want:  []string{"core.data-table"},
		},
		{
			name:  "no matches",
			input: CatalogListInput{Category: "nothing"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := CatalogList(reg, tt.input)
			if err != nil {
				t.Fatalf("CatalogList failed: %v", err)
			}
			if len(out.Items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(out.Items), len(tt.want))
			}
			for i := range tt.want {
				if out.Items[i].ID != tt.want[i] {
					t.Errorf("items[%d].ID = %q, want %q", i, out.Items[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestCatalogList_InvalidPlatform(t *testing.T) {
	_, reg, _ := setupTest(t)

	_, err := CatalogList(reg, CatalogListInput{Platform: "gameboy"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestCatalogGet(t *testing.T) {
	_, reg, _ := setupTest(t)

	out, err := CatalogGet(reg, CatalogGetInput{ID: "core.chart"})
	if err != nil {
		t.Fatalf("CatalogGet failed: %v", err)
	}
	if out.Definition.ID != "core.chart" {
		t.Errorf("Definition.ID = %q", out.Definition.ID)
	}
	if len(out.Definition.PropSpecs) == 0 {
		t.Error("prop schema missing from catalog detail")
	}
	want := []platform.Platform{platform.Web, platform.Android}
	if len(out.Platforms) != len(want) {
		t.Fatalf("Platforms = %v, want %v", out.Platforms, want)
	}
	for i := range want {
		if out.Platforms[i] != want[i] {
			t.Errorf("Platforms[%d] = %q, want %q", i, out.Platforms[i], want[i])
		}
	}
}

func TestCatalogGet_Errors(t *testing.T) {
	_, reg, _ := setupTest(t)

	if _, err := CatalogGet(reg, CatalogGetInput{ID: "core.ghost"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown id: err = %v, want NOT_FOUND", err)
	}
	if _, err := CatalogGet(reg, CatalogGetInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty id: err = %v, want INVALID_REQUEST", err)
	}
}
