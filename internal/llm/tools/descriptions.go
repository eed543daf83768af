package tools

var toolDescriptions = map[string]string{
	"search_code":        "Search for code inside a GitHub repository. Returns matching file names, paths and URLs.",
	"get_file_content":   "Fetch the raw text content of a file from a GitHub repository by path.",
	"get_commit_history": "Fetch the most recent commit messages for a repository, optionally scoped to one path.",
	"get_readme":         "Fetch the README content of a GitHub repository.",
	"get_changelog":      "Fetch the changelog of a GitHub repository, trying the common changelog filenames in order.",
	"get_contributing":   "Fetch the contributing guide of a GitHub repository, trying the common filenames in order.",
	"extract_docstrings": "Parse a local source file and return the documentation comments of its declarations.",
	"read_local_file":    "Read the contents of a file from the local filesystem by absolute path.",
	"list_local_files":   "List files under a local directory matching a glob pattern (supports **).",
}

// ToolDescription returns the registered description for a tool name, or an
// empty string when the name is unknown.
func ToolDescription(name string) string {
	return toolDescriptions[name]
}
