package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/db"
	"github.com/capstudio/capstudio/internal/errors"
	"github.com/capstudio/capstudio/internal/registry"
)

// SaveMode controls collision behavior.
type SaveMode string

const (
	SaveModeError   SaveMode = "error"   // default: fail on name collision
	SaveModeReplace SaveMode = "replace" // overwrite existing
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	Name        string // required
	Composition *capsule.ProjectComposition
	Mode        SaveMode // default: SaveModeError
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Replaced bool   `json:"replaced"`
}

// Save creates or replaces a project.
func Save(database *sql.DB, reg *registry.Registry, input SaveInput) (*SaveOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}
	if input.Mode == "" {
		input.Mode = SaveModeError
	}
	if input.Mode != SaveModeError && input.Mode != SaveModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace")
	}

	if err := capsule.ValidateComposition(input.Composition); err != nil {
		return nil, errors.NewInvalidComposition(err)
	}
	if err := checkCapsuleIDs(reg, input.Composition); err != nil {
		return nil, err
	}

	nameNorm := capsule.Normalize(input.Name)
	if nameNorm == "" {
		return nil, errors.NewInvalidRequest("name must not be empty")
	}

	now := time.Now().Unix()

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	p := &capsule.Project{
		ID:          id,
		NameRaw:     input.Name,
		NameNorm:    nameNorm,
		Composition: input.Composition,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.Mode == SaveModeReplace {
		existing, err := db.GetProjectByName(database, nameNorm, false)
		if err == nil {
			existing.NameRaw = input.Name
			existing.Composition = input.Composition
			existing.UpdatedAt = now
			if err := db.UpdateProject(database, existing); err != nil {
				return nil, err
			}
			return &SaveOutput{ID: existing.ID, Name: input.Name, Replaced: true}, nil
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
	}

	if err := db.InsertProject(database, p); err != nil {
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewNameAlreadyExists(input.Name)
		}
		return nil, err
	}

	return &SaveOutput{ID: id, Name: input.Name, Replaced: false}, nil
}

// checkCapsuleIDs rejects compositions that reference capsules
// absent from the registry.
func checkCapsuleIDs(reg *registry.Registry, comp *capsule.ProjectComposition) error {
	for _, capsuleID := range capsule.DistinctCapsuleIDs(comp.Root) {
		if _, ok := reg.Get(capsuleID); !ok {
			return errors.NewInvalidRequest("unknown capsule id: " + capsuleID)
		}
	}
	return nil
}
