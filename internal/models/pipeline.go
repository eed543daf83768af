package models

// DocKind selects which drafting variant a pipeline run uses.
type DocKind string

const (
	DocKindGeneral     DocKind = "general"
	DocKindFunctionAPI DocKind = "function_api"
)

// FailureKind classifies stage failures so callers can react without
// string-matching error messages.
type FailureKind string

const (
	FailureAccess  FailureKind = "access_failure"
	FailureParse   FailureKind = "parse_failure"
	FailureShape   FailureKind = "shape_failure"
	FailureWrite   FailureKind = "write_failure"
	FailureUnknown FailureKind = "unknown"
)

// StageError is the error half of a stage result. A stage that fails
// produces one of these instead of mutating downstream record fields.
type StageError struct {
	Stage   string      `json:"stage"`
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	// Raw carries the offending LLM reply for parse failures so the
	// operator can see what the model actually returned.
	Raw string `json:"raw,omitempty"`
}

func (e *StageError) Error() string {
	return e.Stage + ": " + string(e.Kind) + ": " + e.Message
}

// PipelineRecord is the single mutable record threaded through every stage
// of one documentation run. The orchestrator owns it exclusively for the
// run's lifetime; stages receive it read-only and hand back a patch.
type PipelineRecord struct {
	RunID       string  `json:"runId"`
	UserMessage string  `json:"userMessage"`
	Repository  string  `json:"repository"` // owner/name
	Kind        DocKind `json:"kind"`

	// Populated by the connect stage.
	DefaultBranch   string   `json:"defaultBranch,omitempty"`
	Language        string   `json:"language,omitempty"`
	CodeSample      string   `json:"codeSample,omitempty"`
	CodeSampleFiles []string `json:"codeSampleFiles,omitempty"`

	// Populated by the remaining stages in graph order.
	CodeElements []CodeElement       `json:"codeElements,omitempty"`
	RawContext   string              `json:"rawContext,omitempty"`
	Context      *ContextBundle      `json:"context,omitempty"`
	Draft        *DraftDocumentation `json:"draft,omitempty"`
	Validation   *ValidationOutcome  `json:"validation,omitempty"`
	Bundle       *BundleResult       `json:"bundle,omitempty"`

	Report string      `json:"report,omitempty"`
	Err    *StageError `json:"error,omitempty"`
}
