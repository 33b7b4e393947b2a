package report

import (
	"encoding/json"
	"io"

	"github.com/sprite-ai/patchlint/internal/model"
)

// IssueJSON is the JSON form of an issue.
type IssueJSON struct {
	Check    string `json:"check"`
	Kind     string `json:"kind"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// FileJSON is the JSON form of a file report.
type FileJSON struct {
	Name    string      `json:"name"`
	Path    string      `json:"path"`
	Valid   bool        `json:"valid"`
	Files   int         `json:"files_touched"`
	Added   int         `json:"added"`
	Deleted int         `json:"deleted"`
	Issues  []IssueJSON `json:"issues"`
}

// SummaryJSON is the JSON form of a run summary.
type SummaryJSON struct {
	Dir     string       `json:"dir"`
	Valid   int          `json:"valid"`
	Total   int          `json:"total"`
	OK      bool         `json:"ok"`
	Result  string       `json:"result"`
	ByCheck []CheckCount `json:"by_check"`
	Files   []FileJSON   `json:"files"`
}

// FileToJSON converts a file report.
func FileToJSON(r model.FileReport) FileJSON {
	out := FileJSON{
		Name:    r.Name,
		Path:    r.Path,
		Valid:   r.Valid(),
		Files:   r.Stats.Files,
		Added:   r.Stats.Added,
		Deleted: r.Stats.Deleted,
		Issues:  make([]IssueJSON, 0, len(r.Issues)),
	}
	for _, i := range r.Issues {
		out.Issues = append(out.Issues, IssueJSON{
			Check:    checkName(i),
			Kind:     i.Kind.String(),
			Line:     i.Line,
			Message:  i.Message,
			Severity: i.Severity.String(),
		})
	}
	return out
}

// SummaryToJSON converts a run summary.
func SummaryToJSON(s *model.RunSummary) SummaryJSON {
	out := SummaryJSON{
		Dir:     s.Dir,
		Valid:   s.ValidCount(),
		Total:   s.TotalCount(),
		OK:      s.OK(),
		Result:  s.ResultLine(),
		ByCheck: ByCheck(s),
		Files:   make([]FileJSON, 0, len(s.Reports)),
	}
	for _, r := range s.Reports {
		out.Files = append(out.Files, FileToJSON(r))
	}
	return out
}

// JSON writes the summary as indented JSON.
func JSON(w io.Writer, s *model.RunSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(SummaryToJSON(s))
}
