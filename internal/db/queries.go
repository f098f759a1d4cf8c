package db

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/errors"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.StudioError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// InsertProject stores a new project.
func InsertProject(db *sql.DB, p *capsule.Project) error {
	compJSON, err := json.Marshal(p.Composition)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO projects (
			id, name_raw, name_norm, composition_json,
			created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, NULL)
	`
	_, err = db.Exec(query, p.ID, p.NameRaw, p.NameNorm, string(compJSON), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	return nil
}

// UpdateProject replaces an existing project's composition and timestamps.
func UpdateProject(db *sql.DB, p *capsule.Project) error {
	compJSON, err := json.Marshal(p.Composition)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		UPDATE projects
		SET name_raw = ?, name_norm = ?, composition_json = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`
	res, err := db.Exec(query, p.NameRaw, p.NameNorm, string(compJSON), p.UpdatedAt, p.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound("project", p.ID)
	}
	return nil
}

// GetProjectByID retrieves a project by its ULID.
func GetProjectByID(db *sql.DB, id string, includeDeleted bool) (*capsule.Project, error) {
	query := `
		SELECT id, name_raw, name_norm, composition_json,
			created_at, updated_at, deleted_at
		FROM projects
		WHERE id = ?
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	p, err := scanProject(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("project", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return p, nil
}

// GetProjectByName retrieves a project by normalized name.
func GetProjectByName(db *sql.DB, nameNorm string, includeDeleted bool) (*capsule.Project, error) {
	query := `
		SELECT id, name_raw, name_norm, composition_json,
			created_at, updated_at, deleted_at
		FROM projects
		WHERE name_norm = ?
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY updated_at DESC LIMIT 1"

	p, err := scanProject(db.QueryRow(query, nameNorm))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("project", nameNorm)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return p, nil
}

// ListProjects returns projects ordered by most recently updated.
func ListProjects(db *sql.DB, limit, offset int, includeDeleted bool) ([]*capsule.Project, int, error) {
	where := "WHERE deleted_at IS NULL"
	if includeDeleted {
		where = ""
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM projects " + where).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, name_raw, name_norm, composition_json,
			created_at, updated_at, deleted_at
		FROM projects ` + where + `
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var projects []*capsule.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return projects, total, nil
}

// SoftDeleteProject marks a project as deleted.
func SoftDeleteProject(db *sql.DB, id string, now int64) error {
	res, err := db.Exec(
		"UPDATE projects SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		now, id,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound("project", id)
	}
	return nil
}

// InsertExportRecord stores one target's export outcome.
func InsertExportRecord(db *sql.DB, r *capsule.ExportRecord) error {
	query := `
		INSERT INTO exports (
			id, project_id, platform, status, success,
			file_count, total_size, error_count, warning_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query,
		r.ID, r.ProjectID, r.Platform, r.Status, boolToInt(r.Success),
		r.FileCount, r.TotalSize, r.Errors, r.Warnings, r.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListExportRecords returns a project's export history, newest first.
func ListExportRecords(db *sql.DB, projectID string, limit int) ([]*capsule.ExportRecord, error) {
	query := `
		SELECT id, project_id, platform, status, success,
			file_count, total_size, error_count, warning_count, created_at
		FROM exports
		WHERE project_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := db.Query(query, projectID, limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var records []*capsule.ExportRecord
	for rows.Next() {
		r := &capsule.ExportRecord{}
		var success int
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.Platform, &r.Status, &success,
			&r.FileCount, &r.TotalSize, &r.Errors, &r.Warnings, &r.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		r.Success = success != 0
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

// scanner abstracts sql.Row and sql.Rows for scanProject.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*capsule.Project, error) {
	p := &capsule.Project{}
	var compJSON string
	var deletedAt sql.NullInt64

	err := s.Scan(&p.ID, &p.NameRaw, &p.NameNorm, &compJSON,
		&p.CreatedAt, &p.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Int64
	}
	if err := json.Unmarshal([]byte(compJSON), &p.Composition); err != nil {
		return nil, err
	}
	return p, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
