package models

// CodeElement is one entry of the structure the extractor pulls out of a
// code sample. Kind is "class" or "function"; Parameters and ReturnType are
// only meaningful for functions.
type CodeElement struct {
	Language    string   `json:"programming_language"`
	Name        string   `json:"name"`
	Kind        string   `json:"type"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters,omitempty"`
	ReturnType  string   `json:"return_type,omitempty"`
}

// CodeSearchHit is a single result from the data source's code search.
type CodeSearchHit struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	URL        string `json:"url"`
	Repository string `json:"repository"`
}

// RepositoryInfo is the metadata the connect stage resolves before the
// pipeline proper starts.
type RepositoryInfo struct {
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	DefaultBranch string `json:"default_branch"`
	Language      string `json:"language"`
}
