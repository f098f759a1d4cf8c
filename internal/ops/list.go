package ops

import (
	"database/sql"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/db"
	"github.com/capstudio/capstudio/internal/platform"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit          int // default: 20, max: 100
	Offset         int // default: 0
	IncludeDeleted bool
}

// ProjectSummary is a project listing row without the composition tree.
type ProjectSummary struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Targets      []platform.Platform `json:"targets"`
	CapsuleCount int                 `json:"capsule_count"`
	CreatedAt    int64               `json:"created_at"`
	UpdatedAt    int64               `json:"updated_at"`
	Deleted      bool                `json:"deleted,omitempty"`
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []ProjectSummary `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Sort       string           `json:"sort"`
}

// List retrieves project summaries with pagination.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)
	offset := max(input.Offset, 0)

	projects, total, err := db.ListProjects(database, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	items := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		items = append(items, summarize(p))
	}

	hasMore := offset+len(items) < total

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "updated_at_desc",
	}, nil
}

func summarize(p *capsule.Project) ProjectSummary {
	s := ProjectSummary{
		ID:        p.ID,
		Name:      p.NameRaw,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Deleted:   p.DeletedAt != nil,
	}
	if p.Composition != nil {
		s.Targets = p.Composition.TargetPlatforms
		s.CapsuleCount = capsule.CountInstances(p.Composition.Root)
	}
	return s
}
