package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/sprite-ai/patchlint/internal/model"
	"github.com/sprite-ai/patchlint/internal/patch"
	"github.com/sprite-ai/patchlint/internal/report"
	"github.com/sprite-ai/patchlint/internal/runner"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Lint ---

type lintRequest struct {
	Name  string `json:"name"`
	Patch string `json:"patch"`
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	var req lintRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	fr, err := s.lintPatch(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, report.FileToJSON(fr))
}

const defaultPatchName = "patch.patch"

func (s *Server) lintPatch(req lintRequest) (model.FileReport, error) {
	if req.Patch == "" {
		return model.FileReport{}, errors.New("patch is required")
	}
	name := req.Name
	if name == "" {
		name = defaultPatchName
	}
	doc := patch.FromString(name, req.Patch)
	return s.linter.Lint(doc), nil
}

// --- Run ---

type runRequest struct {
	Dir     string `json:"dir"`
	Pattern string `json:"pattern,omitempty"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	summary, err := s.runDir(r.Context(), req)
	if err != nil {
		s.writeError(w, runStatus(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, report.SummaryToJSON(summary))
}

func (s *Server) runDir(ctx context.Context, req runRequest) (*model.RunSummary, error) {
	if req.Dir == "" {
		return nil, errors.New("dir is required")
	}
	pattern := req.Pattern
	if pattern == "" {
		pattern = s.opts.Pattern
	}

	return runner.Run(ctx, runner.Options{
		Dir:     req.Dir,
		Pattern: pattern,
		Jobs:    s.opts.Jobs,
		Lint:    s.linter.Options(),
		Cache:   s.opts.Cache,
		Logger:  s.log,
	})
}

func runStatus(err error) int {
	switch {
	case errors.Is(err, runner.ErrDirNotFound), errors.Is(err, runner.ErrNoPatches):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
