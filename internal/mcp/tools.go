package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var catalogListToolDef = mcp.NewTool("catalog_list",
	mcp.WithDescription("List the registered capsule definitions, optionally filtered by category, tag, or platform."),
	mcp.WithString("category", mcp.Description("Filter by category (e.g. \"core\")")),
	mcp.WithString("tag", mcp.Description("Filter by tag")),
	mcp.WithString("platform", mcp.Description("Filter to capsules with a template for this platform: web, ios, android, or desktop")),
)

var catalogGetToolDef = mcp.NewTool("catalog_get",
	mcp.WithDescription("Get one capsule definition with its full prop schema and supported platforms."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Capsule id (e.g. \"core.button\")")),
)

var projectSaveToolDef = mcp.NewTool("project_save",
	mcp.WithDescription("Save a project composition. Fails if the name is taken unless mode is \"replace\"."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Project name")),
	mcp.WithObject("composition", mcp.Required(), mcp.Description("Project composition: theme, target platforms, and the root capsule instance tree")),
	mcp.WithString("mode", mcp.Description("Collision behavior: \"error\" (default) or \"replace\"")),
)

var projectFetchToolDef = mcp.NewTool("project_fetch",
	mcp.WithDescription("Fetch a project by id or name."),
	mcp.WithString("id", mcp.Description("Project id (ULID)")),
	mcp.WithString("name", mcp.Description("Project name")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted projects")),
)

var projectListToolDef = mcp.NewTool("project_list",
	mcp.WithDescription("List stored projects, most recently updated first."),
	mcp.WithNumber("limit", mcp.Description("Maximum results (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Pagination offset")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted projects")),
)

var projectDeleteToolDef = mcp.NewTool("project_delete",
	mcp.WithDescription("Soft-delete a project by id or name."),
	mcp.WithString("id", mcp.Description("Project id (ULID)")),
	mcp.WithString("name", mcp.Description("Project name")),
)

var projectExportToolDef = mcp.NewTool("project_export",
	mcp.WithDescription("Generate source file trees for a stored project or an inline composition. Each target platform is generated independently."),
	mcp.WithString("id", mcp.Description("Project id (ULID)")),
	mcp.WithString("name", mcp.Description("Project name")),
	mcp.WithObject("composition", mcp.Description("Inline composition; bypasses the store")),
	mcp.WithArray("targets", mcp.Description("Target platforms; defaults to the composition's own targets"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("out_dir", mcp.Description("Write generated files under this directory instead of returning file contents")),
	mcp.WithBoolean("include_files", mcp.Description("Include generated file contents in the response (default true when out_dir is unset)")),
)

var projectHistoryToolDef = mcp.NewTool("project_history",
	mcp.WithDescription("List a project's past export outcomes, newest first."),
	mcp.WithString("id", mcp.Description("Project id (ULID)")),
	mcp.WithString("name", mcp.Description("Project name")),
	mcp.WithNumber("limit", mcp.Description("Maximum results (default 50)")),
)
