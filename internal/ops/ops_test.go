package ops

import (
	"database/sql"
	"testing"

	"github.com/capstudio/capstudio/internal/builtins"
	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/config"
	"github.com/capstudio/capstudio/internal/db"
	"github.com/capstudio/capstudio/internal/errors"
	"github.com/capstudio/capstudio/internal/platform"
	"github.com/capstudio/capstudio/internal/registry"
)

func setupTest(t *testing.T) (*sql.DB, *registry.Registry, *config.Config) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	reg := registry.New()
	if err := builtins.RegisterAll(reg); err != nil {
		t.Fatalf("builtins.RegisterAll failed: %v", err)
	}

	return database, reg, config.DefaultConfig()
}

// sampleComposition builds a small two-capsule composition against the
// builtin catalog.
func sampleComposition(name string) *capsule.ProjectComposition {
	return &capsule.ProjectComposition{
		Name:            name,
		Theme:           capsule.DefaultTheme(),
		TargetPlatforms: []platform.Platform{platform.Web, platform.IOS},
		Root: &capsule.CapsuleInstance{
			ID:        "root",
			CapsuleID: "core.card",
			Children: []*capsule.CapsuleInstance{
				{ID: "b1", CapsuleID: "core.button", Props: map[string]any{"label": "Go"}},
			},
		},
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		addr     string
		wantCode errors.ErrorCode
		wantByID bool
		wantName string
	}{
		{
			name:     "by id",
			id:       "01X",
			wantByID: true,
		},
		{
			name:     "by name normalizes",
			addr:     "  My   App  ",
			wantName: "my app",
		},
		{
			name:     "both",
			id:       "01X",
			addr:     "My App",
			wantCode: errors.ErrAmbiguousAddressing,
		},
		{
			name:     "neither",
			wantCode: errors.ErrInvalidRequest,
		},
		{
			name:     "whitespace only id",
			id:       "   ",
			wantCode: errors.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ValidateAddress(tt.id, tt.addr)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAddress failed: %v", err)
			}
			if addr.ByID != tt.wantByID {
				t.Errorf("ByID = %v, want %v", addr.ByID, tt.wantByID)
			}
			if !tt.wantByID && addr.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", addr.Name, tt.wantName)
			}
		})
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultListLimit},
		{-5, DefaultListLimit},
		{7, 7},
		{MaxListLimit, MaxListLimit},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.limit, DefaultListLimit, MaxListLimit); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
		}
	}
}

func TestGenerateULID(t *testing.T) {
	a, err := generateULID()
	if err != nil {
		t.Fatalf("generateULID failed: %v", err)
	}
	b, err := generateULID()
	if err != nil {
		t.Fatalf("generateULID failed: %v", err)
	}
	if len(a) != 26 {
		t.Errorf("ULID length = %d, want 26", len(a))
	}
	if a == b {
		t.Error("consecutive ULIDs should differ")
	}
}
