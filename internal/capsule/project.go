package capsule

// Project is a stored composition: the persistence collaborator's record
// wrapping a ProjectComposition with identity and timestamps. The synthesis
// core never reads or writes these; they exist for the dashboard and CLI.
type Project struct {
	// ID is a ULID that uniquely identifies the project.
	ID string `json:"id"`

	// NameRaw is the project name as provided by the user.
	NameRaw string `json:"name_raw"`

	// NameNorm is the normalized name used for addressing.
	NameNorm string `json:"name_norm"`

	// Composition is the full project composition.
	Composition *ProjectComposition `json:"composition"`

	// CreatedAt is the Unix timestamp when the project was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the project was last updated.
	UpdatedAt int64 `json:"updated_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable).
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// ExportRecord is one row of export history: a single target's outcome for
// one export call, kept so the dashboard can show recent activity.
type ExportRecord struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Platform  string `json:"platform"`
	Status    string `json:"status"`
	Success   bool   `json:"success"`
	FileCount int    `json:"file_count"`
	TotalSize int    `json:"total_size"`
	Errors    int    `json:"errors"`
	Warnings  int    `json:"warnings"`
	CreatedAt int64  `json:"created_at"`
}
