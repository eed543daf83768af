package models

// BundleStatus is the outcome state of a bundling call.
type BundleStatus string

const (
	BundleGenerated BundleStatus = "generated"
	BundleBundled   BundleStatus = "bundled"
	BundleError     BundleStatus = "error"
)

// SplitEntry is one function or class carved out of the documentation blob.
type SplitEntry struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	FileName string `json:"file_name"`
}

// DocSplit is the split-step reply shape: documentation separated into
// per-function and per-class entries.
type DocSplit struct {
	Functions []SplitEntry `json:"functions"`
	Classes   []SplitEntry `json:"classes"`
	Error     string       `json:"error,omitempty"`
}

// BundleResult reports where the bundler wrote the documentation tree and,
// when archival ran, the resulting zip path.
type BundleResult struct {
	Status         BundleStatus `json:"status"`
	BaseDirectory  string       `json:"base_directory"`
	GeneratedFiles []string     `json:"generated_files"`
	ArchivePath    string       `json:"zip_file,omitempty"`
	Message        string       `json:"message"`
	Error          string       `json:"error,omitempty"`
}
