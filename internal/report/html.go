package report

import (
	"fmt"
	"html"
	"io"

	"github.com/sprite-ai/patchlint/internal/model"
)

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>patchlint Report</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; background: #282a36; color: #f8f8f2; }
  h1 { color: #bd93f9; }
  h2 { color: #8be9fd; font-size: 1.1em; }
  .summary { background: #343746; padding: 16px; border-radius: 8px; margin-bottom: 24px; }
  .summary span { margin-right: 24px; }
  .valid { color: #50fa7b; }
  .invalid { color: #ff5555; font-weight: bold; }
  table { width: 100%; border-collapse: collapse; }
  th { text-align: left; padding: 8px 12px; background: #44475a; color: #f8f8f2; }
  td { padding: 8px 12px; border-bottom: 1px solid #44475a; }
  tr:hover { background: #343746; }
  .check { color: #bd93f9; }
  code { background: #343746; padding: 2px 6px; border-radius: 4px; font-size: 0.9em; }
  footer { margin-top: 32px; color: #6272a4; font-size: 0.85em; }
</style>
</head>
<body>
<h1>patchlint Report</h1>
`

// HTML writes a standalone HTML page.
func HTML(w io.Writer, s *model.RunSummary) error {
	fmt.Fprint(w, htmlHead)

	status := `<span class="valid">all valid</span>`
	if !s.OK() {
		status = `<span class="invalid">needs attention</span>`
	}
	fmt.Fprintf(w, `<div class="summary">
  <span><strong>%d/%d</strong> patches valid</span>
  <span>Issues: <strong>%d</strong></span>
  <span>%s</span>
</div>
`, s.ValidCount(), s.TotalCount(), s.IssueCount(), status)

	for _, r := range s.Reports {
		class := "valid"
		if !r.Valid() {
			class = "invalid"
		}
		fmt.Fprintf(w, "<h2 class=\"%s\"><code>%s</code></h2>\n", class, html.EscapeString(r.Name))
		if r.Valid() {
			fmt.Fprintln(w, `<p class="valid">No issues found.</p>`)
			continue
		}
		fmt.Fprintln(w, `<table>
<thead><tr><th>Check</th><th>Line</th><th>Message</th></tr></thead>
<tbody>`)
		for _, i := range r.Issues {
			line := "-"
			if !i.FileLevel() {
				line = fmt.Sprintf("%d", i.Line)
			}
			fmt.Fprintf(w, "<tr><td class=\"check\">%s</td><td>%s</td><td>%s</td></tr>\n",
				checkName(i), line, html.EscapeString(i.Message))
		}
		fmt.Fprintln(w, `</tbody></table>`)
	}

	fmt.Fprintf(w, "<footer>%s &middot; generated by <strong>patchlint</strong></footer>\n</body>\n</html>\n",
		html.EscapeString(s.ResultLine()))
	return nil
}
