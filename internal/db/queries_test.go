package db

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/errors"
	"github.com/capstudio/capstudio/internal/platform"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleProject(id, name string, at int64) *capsule.Project {
	return &capsule.Project{
		ID:       id,
		NameRaw:  name,
		NameNorm: capsule.Normalize(name),
		Composition: &capsule.ProjectComposition{
			Name:            name,
			Theme:           capsule.DefaultTheme(),
			TargetPlatforms: []platform.Platform{platform.Web},
			Root: &capsule.CapsuleInstance{
				ID:        "root",
				CapsuleID: "core.button",
				Props:     map[string]any{"label": "Go"},
			},
		},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestInsertAndGetProject(t *testing.T) {
	database := setupDB(t)

	p := sampleProject("01TEST", "My App", 1000)
	if err := InsertProject(database, p); err != nil {
		t.Fatalf("InsertProject failed: %v", err)
	}

	got, err := GetProjectByID(database, "01TEST", false)
	if err != nil {
		t.Fatalf("GetProjectByID failed: %v", err)
	}
	if got.NameRaw != "My App" || got.NameNorm != "my app" {
		t.Errorf("names = %q/%q", got.NameRaw, got.NameNorm)
	}
	if got.Composition == nil {
		t.Fatal("composition not round-tripped")
	}
	if got.Composition.Root.CapsuleID != "core.button" {
		t.Errorf("Root.CapsuleID = %q", got.Composition.Root.CapsuleID)
	}
	if got.Composition.Root.Props["label"] != "Go" {
		t.Errorf("Root.Props[label] = %v", got.Composition.Root.Props["label"])
	}
	if got.DeletedAt != nil {
		t.Error("DeletedAt should be nil for live projects")
	}
}

func TestInsertProject_UniqueName(t *testing.T) {
	database := setupDB(t)

	if err := InsertProject(database, sampleProject("01A", "My App", 1000)); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := InsertProject(database, sampleProject("01B", "My App", 1001))
	if err != ErrUniqueConstraint {
		t.Errorf("duplicate name: err = %v, want ErrUniqueConstraint", err)
	}
}

func TestInsertProject_NameFreedBySoftDelete(t *testing.T) {
	database := setupDB(t)

	if err := InsertProject(database, sampleProject("01A", "My App", 1000)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := SoftDeleteProject(database, "01A", 2000); err != nil {
		t.Fatalf("SoftDeleteProject failed: %v", err)
	}
	// The unique index is partial: a soft-deleted row does not block reuse.
	if err := InsertProject(database, sampleProject("01B", "My App", 3000)); err != nil {
		t.Errorf("reuse after soft delete failed: %v", err)
	}
}

func TestGetProjectByID_NotFound(t *testing.T) {
	database := setupDB(t)
	_, err := GetProjectByID(database, "nope", false)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestGetProjectByName(t *testing.T) {
	database := setupDB(t)
	if err := InsertProject(database, sampleProject("01A", "My App", 1000)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := GetProjectByName(database, "my app", false)
	if err != nil {
		t.Fatalf("GetProjectByName failed: %v", err)
	}
	if got.ID != "01A" {
		t.Errorf("ID = %q, want 01A", got.ID)
	}

	if _, err := GetProjectByName(database, "My App", false); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("lookup must use the normalized form, got err = %v", err)
	}
}

func TestGetProject_IncludeDeleted(t *testing.T) {
	database := setupDB(t)
	if err := InsertProject(database, sampleProject("01A", "My App", 1000)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := SoftDeleteProject(database, "01A", 2000); err != nil {
		t.Fatalf("SoftDeleteProject failed: %v", err)
	}

	if _, err := GetProjectByID(database, "01A", false); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("deleted project visible without includeDeleted: %v", err)
	}

	got, err := GetProjectByID(database, "01A", true)
	if err != nil {
		t.Fatalf("GetProjectByID(includeDeleted) failed: %v", err)
	}
	if got.DeletedAt == nil || *got.DeletedAt != 2000 {
		t.Errorf("DeletedAt = %v, want 2000", got.DeletedAt)
	}
}

func TestUpdateProject(t *testing.T) {
	database := setupDB(t)
	if err := InsertProject(database, sampleProject("01A", "My App", 1000)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	updated := sampleProject("01A", "My App", 1000)
	updated.Composition.Description = "now with description"
	updated.UpdatedAt = 5000
	if err := UpdateProject(database, updated); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}

	got, err := GetProjectByID(database, "01A", false)
	if err != nil {
		t.Fatalf("GetProjectByID failed: %v", err)
	}
	if got.Composition.Description != "now with description" {
		t.Errorf("Description = %q", got.Composition.Description)
	}
	if got.UpdatedAt != 5000 {
		t.Errorf("UpdatedAt = %d, want 5000", got.UpdatedAt)
	}
	if got.CreatedAt != 1000 {
		t.Errorf("CreatedAt = %d, want unchanged 1000", got.CreatedAt)
	}
}

func TestUpdateProject_NotFound(t *testing.T) {
	database := setupDB(t)
	err := UpdateProject(database, sampleProject("ghost", "Nope", 1))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestListProjects(t *testing.T) {
	database := setupDB(t)
	for i := 0; i < 5; i++ {
		p := sampleProject(fmt.Sprintf("01%d", i), fmt.Sprintf("App %d", i), int64(1000+i))
		if err := InsertProject(database, p); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}
	if err := SoftDeleteProject(database, "012", 9000); err != nil {
		t.Fatalf("SoftDeleteProject failed: %v", err)
	}

	projects, total, err := ListProjects(database, 10, 0, false)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(projects) != 4 {
		t.Fatalf("got %d projects, want 4", len(projects))
	}
	// Most recently updated first.
	if projects[0].ID != "014" {
		t.Errorf("projects[0].ID = %q, want 014", projects[0].ID)
	}

	// Pagination.
	page, total, err := ListProjects(database, 2, 2, false)
	if err != nil {
		t.Fatalf("ListProjects page failed: %v", err)
	}
	if total != 4 || len(page) != 2 {
		t.Errorf("page: total = %d len = %d, want 4 and 2", total, len(page))
	}

	// Deleted rows visible on request.
	all, total, err := ListProjects(database, 10, 0, true)
	if err != nil {
		t.Fatalf("ListProjects includeDeleted failed: %v", err)
	}
	if total != 5 || len(all) != 5 {
		t.Errorf("includeDeleted: total = %d len = %d, want 5 and 5", total, len(all))
	}
}

func TestSoftDeleteProject_Twice(t *testing.T) {
	database := setupDB(t)
	if err := InsertProject(database, sampleProject("01A", "My App", 1000)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := SoftDeleteProject(database, "01A", 2000); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := SoftDeleteProject(database, "01A", 3000); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second delete: err = %v, want NOT_FOUND", err)
	}
}

func TestExportRecords(t *testing.T) {
	database := setupDB(t)

	records := []*capsule.ExportRecord{
		{ID: "e1", ProjectID: "01A", Platform: "web", Status: "completed", Success: true, FileCount: 3, TotalSize: 900, CreatedAt: 100},
		{ID: "e2", ProjectID: "01A", Platform: "ios", Status: "failed", Success: false, Errors: 2, Warnings: 1, CreatedAt: 200},
		{ID: "e3", ProjectID: "01B", Platform: "web", Status: "completed", Success: true, FileCount: 1, CreatedAt: 300},
	}
	for _, r := range records {
		if err := InsertExportRecord(database, r); err != nil {
			t.Fatalf("InsertExportRecord %s failed: %v", r.ID, err)
		}
	}

	got, err := ListExportRecords(database, "01A", 10)
	if err != nil {
		t.Fatalf("ListExportRecords failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	// Newest first.
	if got[0].ID != "e2" || got[1].ID != "e1" {
		t.Errorf("order = %q, %q, want e2, e1", got[0].ID, got[1].ID)
	}
	if got[0].Success {
		t.Error("e2.Success should round-trip as false")
	}
	if !got[1].Success {
		t.Error("e1.Success should round-trip as true")
	}
	if got[1].FileCount != 3 || got[1].TotalSize != 900 {
		t.Errorf("e1 counts = %d/%d", got[1].FileCount, got[1].TotalSize)
	}
	if got[0].Errors != 2 || got[0].Warnings != 1 {
		t.Errorf("e2 diagnostics = %d/%d", got[0].Errors, got[0].Warnings)
	}

	limited, err := ListExportRecords(database, "01A", 1)
	if err != nil {
		t.Fatalf("ListExportRecords limited failed: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "e2" {
		t.Errorf("limit=1 should keep the newest record, got %v", limited)
	}
}
