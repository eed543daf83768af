package github

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Server exposes every Source operation as a JSON POST tool route under
// /tools/<name>, so external agent runtimes can invoke the data source the
// same way the in-process tool layer does.
type Server struct {
	source Source
	mux    *http.ServeMux
}

func NewServer(source Source) *Server {
	s := &Server{source: source, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type toolRequest struct {
	Repo    string `json:"repo,omitempty"`
	Query   string `json:"query,omitempty"`
	Path    string `json:"path,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Root    string `json:"root,omitempty"`
	Pattern string `json:"pattern,omitempty"`
}

type toolResponse struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.tool("search_code", func(r *http.Request, req toolRequest) (any, error) {
		return s.source.SearchCode(r.Context(), req.Repo, req.Query)
	})
	s.tool("get_file_content", func(r *http.Request, req toolRequest) (any, error) {
		return s.source.GetFileContent(r.Context(), req.Repo, req.Path)
	})
	s.tool("get_commit_history", func(r *http.Request, req toolRequest) (any, error) {
		return s.source.GetCommitHistory(r.Context(), req.Repo, req.Path, req.Limit)
	})
	s.tool("get_readme", func(r *http.Request, req toolRequest) (any, error) {
		return s.source.GetReadme(r.Context(), req.Repo)
	})
	s.tool("get_changelog", func(r *http.Request, req toolRequest) (any, error) {
		return s.source.GetChangelog(r.Context(), req.Repo)
	})
	s.tool("get_contributing", func(r *http.Request, req toolRequest) (any, error) {
		return s.source.GetContributing(r.Context(), req.Repo)
	})
	s.tool("list_tree", func(r *http.Request, req toolRequest) (any, error) {
		return s.source.ListTree(r.Context(), req.Repo, req.Path)
	})
	s.tool("extract_docstrings", func(_ *http.Request, req toolRequest) (any, error) {
		return s.source.ExtractDocstrings(req.Path)
	})
	s.tool("read_local_file", func(_ *http.Request, req toolRequest) (any, error) {
		return s.source.ReadLocalFile(req.Path)
	})
	s.tool("list_local_files", func(_ *http.Request, req toolRequest) (any, error) {
		return s.source.ListLocalFiles(req.Root, req.Pattern)
	})
}

func (s *Server) tool(name string, handler func(*http.Request, toolRequest) (any, error)) {
	s.mux.HandleFunc("POST /tools/"+name, func(w http.ResponseWriter, r *http.Request) {
		var req toolRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, toolResponse{Error: "invalid request body: " + err.Error()})
			return
		}
		result, err := handler(r, req)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, ErrNotFound) {
				status = http.StatusNotFound
			}
			writeJSON(w, status, toolResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, toolResponse{Result: result})
	})
}

func writeJSON(w http.ResponseWriter, status int, payload toolResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
