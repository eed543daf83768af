package models

// ValidationResult is the structured critique of one draft. A validator
// failure is modeled as an invalid result with score 0, not as a separate
// error channel.
type ValidationResult struct {
	IsValid         bool     `json:"is_valid"`
	ValidationScore float64  `json:"validation_score"`
	Issues          []string `json:"issues,omitempty"`
	Suggestions     []string `json:"suggestions,omitempty"`
	MissingElements []string `json:"missing_elements,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Outcome statuses of the top-level validation policy.
const (
	ValidationStatusValidated = "validated"
	ValidationStatusUpdated   = "updated"
)

// ValidationOutcome is what the validate stage leaves on the record: either
// the original draft tagged validated, or a regenerated draft tagged updated
// after exactly one improvement cycle.
type ValidationOutcome struct {
	Status           string            `json:"status"`
	Documentation    string            `json:"documentation"`
	Result           *ValidationResult `json:"validation_result"`
	Improvements     string            `json:"improvements_applied,omitempty"`
	ReadyForBundling bool              `json:"ready_for_bundling,omitempty"`
}
