package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/capstudio/capstudio/internal/capsule"
	"github.com/capstudio/capstudio/internal/config"
	"github.com/capstudio/capstudio/internal/errors"
	"github.com/capstudio/capstudio/internal/ops"
	"github.com/capstudio/capstudio/internal/registry"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	reg *registry.Registry
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, reg *registry.Registry, cfg *config.Config) *Handlers {
	return &Handlers{db: db, reg: reg, cfg: cfg}
}

// Request types for each tool

// CatalogListRequest represents the arguments for catalog_list.
type CatalogListRequest struct {
	Category string `json:"category,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// CatalogGetRequest represents the arguments for catalog_get.
type CatalogGetRequest struct {
	ID string `json:"id"`
}

// ProjectSaveRequest represents the arguments for project_save.
type ProjectSaveRequest struct {
	Name        string                      `json:"name"`
	Composition *capsule.ProjectComposition `json:"composition"`
	Mode        string                      `json:"mode,omitempty"`
}

// ProjectFetchRequest represents the arguments for project_fetch.
type ProjectFetchRequest struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// ProjectListRequest represents the arguments for project_list.
type ProjectListRequest struct {
	Limit          int  `json:"limit,omitempty"`
	Offset         int  `json:"offset,omitempty"`
	IncludeDeleted bool `json:"include_deleted,omitempty"`
}

// ProjectDeleteRequest represents the arguments for project_delete.
type ProjectDeleteRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// ProjectExportRequest represents the arguments for project_export.
type ProjectExportRequest struct {
	ID           string                      `json:"id,omitempty"`
	Name         string                      `json:"name,omitempty"`
	Composition  *capsule.ProjectComposition `json:"composition,omitempty"`
	Targets      []string                    `json:"targets,omitempty"`
	OutDir       string                      `json:"out_dir,omitempty"`
	IncludeFiles *bool                       `json:"include_files,omitempty"`
}

// ProjectHistoryRequest represents the arguments for project_history.
type ProjectHistoryRequest struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// exportFileOut is a generated file in a project_export response.
type exportFileOut struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

// exportTargetOut is one target's outcome in a project_export response.
type exportTargetOut struct {
	ops.TargetReport
	GeneratedFiles []exportFileOut `json:"generated_files,omitempty"`
}

// exportOut is the full project_export response payload.
type exportOut struct {
	ProjectID  string            `json:"project_id,omitempty"`
	Targets    []exportTargetOut `json:"targets"`
	OutDir     string            `json:"out_dir,omitempty"`
	ExportedAt int64             `json:"exported_at"`
}

// Handler implementations

// HandleCatalogList handles the catalog_list tool call.
func (h *Handlers) HandleCatalogList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CatalogListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CatalogList(h.reg, ops.CatalogListInput{
		Category: input.Category,
		Tag:      input.Tag,
		Platform: input.Platform,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCatalogGet handles the catalog_get tool call.
func (h *Handlers) HandleCatalogGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CatalogGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CatalogGet(h.reg, ops.CatalogGetInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleProjectSave handles the project_save tool call.
func (h *Handlers) HandleProjectSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProjectSaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	mode := ops.SaveModeError
	if input.Mode == "replace" {
		mode = ops.SaveModeReplace
	}

	result, err := ops.Save(h.db, h.reg, ops.SaveInput{
		Name:        input.Name,
		Composition: input.Composition,
		Mode:        mode,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleProjectFetch handles the project_fetch tool call.
func (h *Handlers) HandleProjectFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProjectFetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             input.ID,
		Name:           input.Name,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleProjectList handles the project_list tool call.
func (h *Handlers) HandleProjectList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProjectListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleProjectDelete handles the project_delete tool call.
func (h *Handlers) HandleProjectDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProjectDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{
		ID:   input.ID,
		Name: input.Name,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleProjectExport handles the project_export tool call.
func (h *Handlers) HandleProjectExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProjectExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.reg, h.cfg, ops.ExportInput{
		ID:          input.ID,
		Name:        input.Name,
		Composition: input.Composition,
		Targets:     input.Targets,
		OutDir:      input.OutDir,
	})
	if err != nil {
		return errorResult(err), nil
	}

	// File contents are returned inline unless the caller wrote them to
	// disk or asked for a summary only.
	includeFiles := input.OutDir == ""
	if input.IncludeFiles != nil {
		includeFiles = *input.IncludeFiles
	}

	out := exportOut{
		ProjectID:  result.ProjectID,
		OutDir:     result.OutDir,
		ExportedAt: result.ExportedAt,
	}
	for i, report := range result.Targets {
		target := exportTargetOut{TargetReport: report}
		if includeFiles {
			for _, f := range result.Results[i].Files {
				target.GeneratedFiles = append(target.GeneratedFiles, exportFileOut{
					Path:     f.Path,
					Language: f.Language,
					Content:  f.Content,
				})
			}
		}
		out.Targets = append(out.Targets, target)
	}

	return successResult(out)
}

// HandleProjectHistory handles the project_history tool call.
func (h *Handlers) HandleProjectHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProjectHistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.History(h.db, ops.HistoryInput{
		ID:    input.ID,
		Name:  input.Name,
		Limit: input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.StudioError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
