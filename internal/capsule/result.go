package capsule

import (
	"github.com/capstudio/capstudio/internal/platform"
)

// GeneratedFile is one emitted source file. Paths are relative to the target's
// output root; the core never writes them to disk.
type GeneratedFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// ResultStatus is the terminal state of one target's generation.
type ResultStatus string

const (
	StatusCompleted ResultStatus = "completed"
	StatusFailed    ResultStatus = "failed"
	StatusCancelled ResultStatus = "cancelled"
)

// ResultMetadata summarizes one target's generation run.
type ResultMetadata struct {
	// CapsuleCount is the number of distinct capsule definitions emitted.
	CapsuleCount int `json:"capsule_count"`

	// TotalFiles is the number of files in the result.
	TotalFiles int `json:"total_files"`

	// TotalSize is the total emitted content size in bytes.
	TotalSize int `json:"total_size"`

	// CompiledAt is the Unix timestamp of generation completion.
	CompiledAt int64 `json:"compiled_at"`

	// Dependencies aggregates the declared dependencies of every emitted
	// capsule, deduplicated and sorted, for the packaging collaborator.
	Dependencies []string `json:"dependencies,omitempty"`
}

// CompilationResult is one target's complete generation outcome. Results are
// ephemeral: produced per export call, owned by the caller, never persisted
// by the core.
type CompilationResult struct {
	Platform platform.Platform `json:"platform"`
	Status   ResultStatus      `json:"status"`
	Success  bool              `json:"success"`
	Files    []GeneratedFile   `json:"files"`
	Errors   []Diagnostic      `json:"errors,omitempty"`
	Warnings []Diagnostic      `json:"warnings,omitempty"`
	Metadata ResultMetadata    `json:"metadata"`
}

// DiagnosticCode classifies a generation diagnostic.
type DiagnosticCode string

const (
	// Binder diagnostics — instance-scoped, non-fatal to the target.
	DiagMissingRequiredProp DiagnosticCode = "MISSING_REQUIRED_PROP"
	DiagInvalidPropType     DiagnosticCode = "INVALID_PROP_TYPE"
	DiagInvalidEnumValue    DiagnosticCode = "INVALID_ENUM_VALUE"
	DiagOutOfRange          DiagnosticCode = "OUT_OF_RANGE"

	// DiagCapability marks a capsule used without a template for the target.
	DiagCapability DiagnosticCode = "CAPABILITY_GAP"

	// DiagIdentifierCollision marks an identifier that needed a GUID suffix.
	DiagIdentifierCollision DiagnosticCode = "IDENTIFIER_COLLISION"

	// DiagTemplateSyntax marks a malformed template; fatal for that capsule's
	// file only.
	DiagTemplateSyntax DiagnosticCode = "TEMPLATE_SYNTAX"

	// DiagUnknownCapsule marks an instance referencing an unregistered id.
	DiagUnknownCapsule DiagnosticCode = "UNKNOWN_CAPSULE"
)

// Severity distinguishes errors from warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one error or warning attached to a CompilationResult.
// Diagnostics never abort sibling instances or sibling targets.
type Diagnostic struct {
	Code       DiagnosticCode `json:"code"`
	Severity   Severity       `json:"severity"`
	Message    string         `json:"message"`
	InstanceID string         `json:"instance_id,omitempty"`
	CapsuleID  string         `json:"capsule_id,omitempty"`
	Prop       string         `json:"prop,omitempty"`
}

func (d Diagnostic) String() string {
	return string(d.Code) + ": " + d.Message
}
