package web

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/capstudio/capstudio/internal/config"
	"github.com/capstudio/capstudio/internal/errors"
	"github.com/capstudio/capstudio/internal/ops"
	"github.com/capstudio/capstudio/internal/registry"
)

// Handlers contains HTTP route handlers for the dashboard.
type Handlers struct {
	db       *sql.DB
	reg      *registry.Registry
	cfg      *config.Config
	renderer *Renderer
}

// HandleCatalog handles GET /catalog — list registered capsule definitions.
func (h *Handlers) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	tag := r.URL.Query().Get("tag")
	plat := r.URL.Query().Get("platform")

	result, err := ops.CatalogList(h.reg, ops.CatalogListInput{
		Category: category,
		Tag:      tag,
		Platform: plat,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "catalog", CatalogPageData{
		PageData: PageData{
			Title:   "Catalog",
			Version: h.renderer.version,
			Nav:     "catalog",
		},
		Items:    result.Items,
		Category: category,
		Tag:      tag,
		Platform: plat,
		Total:    result.Total,
	})
}

// HandleCapsuleDetail handles GET /catalog/{id} — view one capsule definition.
func (h *Handlers) HandleCapsuleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("capsule ID is required"))
		return
	}

	result, err := ops.CatalogGet(h.reg, ops.CatalogGetInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	defaults := make(map[string]string, len(result.Definition.PropSpecs))
	for _, spec := range result.Definition.PropSpecs {
		if spec.Default != nil {
			defaults[spec.Name] = fmt.Sprintf("%v", spec.Default)
		}
	}

	h.renderer.renderPage(w, r, "capsule", CapsulePageData{
		PageData: PageData{
			Title:   result.Definition.Name,
			Version: h.renderer.version,
			Nav:     "catalog",
		},
		Capsule:       result,
		RenderedHTML:  renderMarkdown(result.Definition.Description),
		DefaultValues: defaults,
	})
}

// HandleProjects handles GET /projects — list stored projects.
func (h *Handlers) HandleProjects(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Limit:          parseIntParam(r, "limit", 20),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "projects", ProjectsPageData{
		PageData: PageData{
			Title:   "Projects",
			Version: h.renderer.version,
			Nav:     "projects",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Deleted:    input.IncludeDeleted,
	})
}

// HandleProjectDetail handles GET /projects/{id} — view a single project.
func (h *Handlers) HandleProjectDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("project ID is required"))
		return
	}

	project, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             id,
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	compJSON, err := json.MarshalIndent(project.Composition, "", "  ")
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	history, err := ops.History(h.db, ops.HistoryInput{ID: project.Project.ID})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	var targets []string
	if project.Composition != nil {
		for _, p := range project.Composition.TargetPlatforms {
			targets = append(targets, string(p))
		}
	}

	h.renderer.renderPage(w, r, "project", ProjectPageData{
		PageData: PageData{
			Title:   project.NameRaw,
			Version: h.renderer.version,
			Nav:     "projects",
		},
		Project:         project,
		CompositionJSON: string(compJSON),
		History:         history.Records,
		Targets:         targets,
	})
}

// HandleExport handles POST /projects/{id}/export — run an export.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("project ID is required"))
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	var targets []string
	if raw := strings.TrimSpace(r.FormValue("targets")); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			targets = append(targets, strings.TrimSpace(t))
		}
	}

	result, err := ops.Export(r.Context(), h.db, h.reg, h.cfg, ops.ExportInput{
		ID:      id,
		Targets: targets,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// HTMX request: render the export result fragment
	if r.Header.Get("HX-Request") == "true" {
		h.renderer.renderBlock(w, http.StatusOK, "project", "export-result", ExportResultData{
			PageData: PageData{Version: h.renderer.version},
			Output:   result,
		})
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	// Default: redirect back to the project page
	http.Redirect(w, r, "/projects/"+id, http.StatusFound)
}

// HandleDelete handles DELETE /projects/{id} — soft-delete a project.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("project ID is required"))
		return
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/projects")
		w.WriteHeader(http.StatusOK)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": result.Deleted,
			"id":      result.ID,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/projects", http.StatusFound)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
