package ops

import (
	"database/sql"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/db"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	Name           string
	IncludeDeleted bool
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	capsule.Project // embedded (copy, not pointer)
}

// Fetch retrieves a project by ID or name.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	addr, err := ValidateAddress(input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	var p *capsule.Project
	if addr.ByID {
		p, err = db.GetProjectByID(database, addr.ID, input.IncludeDeleted)
	} else {
		p, err = db.GetProjectByName(database, addr.Name, input.IncludeDeleted)
	}
	if err != nil {
		return nil, err
	}

	return &FetchOutput{Project: *p}, nil
}
