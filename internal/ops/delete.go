package ops

import (
	"database/sql"
	"time"

	"github.com/capstudio/capstudio/internal/db"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID   string
	Name string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete soft-deletes a project.
func Delete(database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	addr, err := ValidateAddress(input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	// Resolve the ID if addressed by name (active only)
	var projectID string
	if addr.ByID {
		projectID = addr.ID
	} else {
		p, err := db.GetProjectByName(database, addr.Name, false)
		if err != nil {
			return nil, err
		}
		projectID = p.ID
	}

	if err := db.SoftDeleteProject(database, projectID, time.Now().Unix()); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: true,
		ID:      projectID,
	}, nil
}
