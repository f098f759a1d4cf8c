package ops

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/config"
	"github.com/capstudio/capstudio/internal/db"
	"github.com/capstudio/capstudio/internal/errors"
	"github.com/capstudio/capstudio/internal/export"
	"github.com/capstudio/capstudio/internal/platform"
	"github.com/capstudio/capstudio/internal/registry"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	ID          string                      // project addressing (id or name)
	Name        string                      //
	Composition *capsule.ProjectComposition // inline composition, bypasses the store
	Targets     []string                    // optional override of the composition's targets
	OutDir      string                      // optional, write generated trees under this directory
}

// TargetReport summarizes one platform's outcome.
type TargetReport struct {
	Platform  platform.Platform    `json:"platform"`
	Status    capsule.ResultStatus `json:"status"`
	Success   bool                 `json:"success"`
	Files     int                  `json:"files"`
	TotalSize int                  `json:"total_size"`
	Errors    []capsule.Diagnostic `json:"errors,omitempty"`
	Warnings  []capsule.Diagnostic `json:"warnings,omitempty"`
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	ProjectID  string                       `json:"project_id,omitempty"`
	Targets    []TargetReport               `json:"targets"`
	Results    []*capsule.CompilationResult `json:"-"`
	OutDir     string                       `json:"out_dir,omitempty"`
	ExportedAt int64                        `json:"exported_at"`
}

// Export generates source trees for a project or an inline composition.
//
// Addressed projects are loaded from the store; an inline composition skips
// the store entirely and no history rows are recorded for it. Each target
// platform produces an independent result, so one target failing never blocks
// the others.
func Export(ctx context.Context, database *sql.DB, reg *registry.Registry, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	comp := input.Composition
	projectID := ""

	if comp == nil {
		fetched, err := Fetch(database, FetchInput{ID: input.ID, Name: input.Name})
		if err != nil {
			return nil, err
		}
		comp = fetched.Composition
		projectID = fetched.Project.ID
	} else if input.ID != "" || input.Name != "" {
		return nil, errors.NewAmbiguousAddressing()
	}

	targets, err := resolveTargets(comp, input.Targets, cfg)
	if err != nil {
		return nil, err
	}

	exporter := export.New(reg, export.WithMaxParallel(cfg.MaxParallelTargets))
	results, _, err := exporter.Export(ctx, comp, targets)
	if err != nil {
		return nil, errors.NewInvalidComposition(err)
	}

	exportedAt := time.Now().Unix()

	if projectID != "" {
		if err := recordHistory(database, projectID, results, exportedAt); err != nil {
			return nil, err
		}
	}

	if input.OutDir != "" {
		if err := writeTrees(input.OutDir, results); err != nil {
			return nil, err
		}
	}

	out := &ExportOutput{
		ProjectID:  projectID,
		Results:    results,
		OutDir:     input.OutDir,
		ExportedAt: exportedAt,
	}
	for _, r := range results {
		out.Targets = append(out.Targets, TargetReport{
			Platform:  r.Platform,
			Status:    r.Status,
			Success:   r.Success,
			Files:     len(r.Files),
			TotalSize: r.Metadata.TotalSize,
			Errors:    r.Errors,
			Warnings:  r.Warnings,
		})
	}
	return out, nil
}

// resolveTargets picks the platform list: explicit override, then the
// composition's own targets, then the configured defaults.
func resolveTargets(comp *capsule.ProjectComposition, override []string, cfg *config.Config) ([]platform.Platform, error) {
	if len(override) > 0 {
		targets, err := platform.ParseList(override)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		return targets, nil
	}
	if comp != nil && len(comp.TargetPlatforms) > 0 {
		return comp.TargetPlatforms, nil
	}
	targets, err := platform.ParseList(cfg.DefaultTargets)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return targets, nil
}

// recordHistory writes one export row per target result.
func recordHistory(database *sql.DB, projectID string, results []*capsule.CompilationResult, at int64) error {
	for _, r := range results {
		id, err := generateULID()
		if err != nil {
			return errors.NewInternal(err)
		}
		rec := &capsule.ExportRecord{
			ID:        id,
			ProjectID: projectID,
			Platform:  string(r.Platform),
			Status:    string(r.Status),
			Success:   r.Success,
			FileCount: len(r.Files),
			TotalSize: r.Metadata.TotalSize,
			Errors:    len(r.Errors),
			Warnings:  len(r.Warnings),
			CreatedAt: at,
		}
		if err := db.InsertExportRecord(database, rec); err != nil {
			return err
		}
	}
	return nil
}

// writeTrees materializes generated files under dir/<platform>/.
// Generated paths are relative by construction; anything that still
// escapes the target directory is rejected.
func writeTrees(dir string, results []*capsule.CompilationResult) error {
	for _, r := range results {
		for _, f := range r.Files {
			if !filepath.IsLocal(filepath.FromSlash(f.Path)) {
				return errors.NewInvalidRequest(fmt.Sprintf("unsafe generated path: %s", f.Path))
			}
			dest := filepath.Join(dir, string(r.Platform), filepath.FromSlash(f.Path))
			if err := os.MkdirAll(filepath.Dir(dest), 0700); err != nil {
				return errors.NewInternal(fmt.Errorf("failed to create output directory: %w", err))
			}
			if err := os.WriteFile(dest, []byte(f.Content), 0600); err != nil {
				return errors.NewInternal(fmt.Errorf("failed to write %s: %w", dest, err))
			}
		}
	}
	return nil
}

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	ID    string
	Name  string
	Limit int // default: 50
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	ProjectID string                  `json:"project_id"`
	Records   []*capsule.ExportRecord `json:"records"`
}

// History lists a project's past export outcomes, newest first.
func History(database *sql.DB, input HistoryInput) (*HistoryOutput, error) {
	fetched, err := Fetch(database, FetchInput{ID: input.ID, Name: input.Name})
	if err != nil {
		return nil, err
	}

	limit := clampLimit(input.Limit, DefaultHistoryLimit, MaxListLimit)
	records, err := db.ListExportRecords(database, fetched.Project.ID, limit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*capsule.ExportRecord{}
	}

	return &HistoryOutput{
		ProjectID: fetched.Project.ID,
		Records:   records,
	}, nil
}
