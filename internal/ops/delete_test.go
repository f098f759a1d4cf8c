package ops

import (
	"testing"

	"github.com/capstudio/capstudio/internal/errors"
)

func TestDelete_ByID(t *testing.T) {
	database, reg, _ := setupTest(t)

	saved, err := Save(database, reg, SaveInput{Name: "My App", Composition: sampleComposition("My App")})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := Delete(database, DeleteInput{ID: saved.ID})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !out.Deleted || out.ID != saved.ID {
		t.Errorf("output = %+v", out)
	}

	if _, err := Fetch(database, FetchInput{ID: saved.ID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("project still fetchable after delete: %v", err)
	}
}

func TestDelete_ByName(t *testing.T) {
	database, reg, _ := setupTest(t)

	saved, err := Save(database, reg, SaveInput{Name: "My App", Composition: sampleComposition("My App")})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := Delete(database, DeleteInput{Name: "my app"})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if out.ID != saved.ID {
		t.Errorf("ID = %q, want %q", out.ID, saved.ID)
	}
}

func TestDelete_NotFound(t *testing.T) {
	database, _, _ := setupTest(t)

	if _, err := Delete(database, DeleteInput{ID: "ghost"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
	if _, err := Delete(database, DeleteInput{Name: "ghost"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("by name: err = %v, want NOT_FOUND", err)
	}
}

func TestDelete_Twice(t *testing.T) {
	database, reg, _ := setupTest(t)

	saved, err := Save(database, reg, SaveInput{Name: "My App", Composition: sampleComposition("My App")})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := Delete(database, DeleteInput{ID: saved.ID}); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if _, err := Delete(database, DeleteInput{ID: saved.ID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second Delete: err = %v, want NOT_FOUND", err)
	}
}

func TestDelete_FreesName(t *testing.T) {
	database, reg, _ := setupTest(t)

	saved, err := Save(database, reg, SaveInput{Name: "My App", Composition: sampleComposition("My App")})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := Delete(database, DeleteInput{ID: saved.ID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	again, err := Save(database, reg, SaveInput{Name: "My App", Composition: sampleComposition("My App")})
	if err != nil {
		t.Fatalf("Save after Delete failed: %v", err)
	}
	if again.ID == saved.ID {
		t.Error("re-saved project should get a new id")
	}
}
