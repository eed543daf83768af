package models

// DraftStatus is the status of a drafting attempt.
type DraftStatus string

const (
	DraftSuccess DraftStatus = "success"
	DraftError   DraftStatus = "error"
)

// DraftDocumentation is the markdown documentation blob together with the
// inputs that produced it. When Status is DraftError the documentation text
// is absent and Error/Details describe what went wrong.
type DraftDocumentation struct {
	Status        DraftStatus    `json:"status"`
	Documentation string         `json:"documentation,omitempty"`
	CodeAnalysis  []CodeElement  `json:"code_analysis,omitempty"`
	ContextData   *ContextBundle `json:"context_data,omitempty"`
	Error         string         `json:"error,omitempty"`
	Details       string         `json:"details,omitempty"`
}
