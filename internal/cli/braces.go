package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sprite-ai/patchlint/internal/config"
	"github.com/sprite-ai/patchlint/internal/lint"
	"github.com/sprite-ai/patchlint/internal/patch"
)

var bracesCmd = &cobra.Command{
	Use:   "braces <file>",
	Short: "Trace the brace balance of a single patch",
	Long: `Print every added line that opens or closes a brace together with the
running balance, then the final verdict. Uses the same counting rules as
the braces check in "patchlint check".`,
	Args: cobra.ExactArgs(1),
	RunE: runBraces,
}

func runBraces(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	doc, err := patch.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	setColor(out)
	if !printBraceTrace(out, doc, cfg) {
		return ErrPatchesInvalid
	}
	return nil
}

// printBraceTrace writes the trace for doc and reports whether the braces
// balance with no unmatched closer.
func printBraceTrace(out io.Writer, doc *patch.Document, cfg config.Config) bool {
	lines := doc.Classify()
	prefixes := cfg.Braces.CommentPrefixes
	steps := lint.TraceBraces(lines, prefixes)

	fmt.Fprintf(out, "Analyzing braces in added lines of %s:\n", doc.Name)
	if ds, err := patch.ParseFiles(doc.Text); err == nil {
		for _, f := range ds.Files {
			fmt.Fprintf(out, "  %s (+%d -%d)%s\n", f.Name(), f.AddedLines, f.DeletedLines, fileTags(f))
		}
	}
	fmt.Fprintln(out, strings.Repeat("-", 50))

	var opens, closes int
	for _, s := range steps {
		opens += s.Open
		closes += s.Close
		marker := ""
		if s.Unmatched {
			marker = color.RedString("  <- unmatched closing brace")
		}
		fmt.Fprintf(out, "Line %d: '%s' -> %d open, %d close (balance %d)%s\n",
			s.Line, s.Text, s.Open, s.Close, max(s.Balance, 0), marker)
	}

	issues, state := lint.ScanBraces(lines, prefixes)

	fmt.Fprintln(out, strings.Repeat("-", 50))
	fmt.Fprintf(out, "Total open braces: %d\n", opens)
	fmt.Fprintf(out, "Total close braces: %d\n", closes)
	fmt.Fprintf(out, "Balance: %d\n", state.Balance)

	if len(issues) == 0 {
		fmt.Fprintln(out, color.GreenString("✓ Braces are balanced!"))
		return true
	}
	for _, i := range issues {
		fmt.Fprintln(out, color.RedString("✗ %s", i.String()))
	}
	return false
}

func fileTags(f *patch.File) string {
	var tags []string
	if f.IsNew {
		tags = append(tags, "new")
	}
	if f.IsDeleted {
		tags = append(tags, "deleted")
	}
	if f.IsBinary {
		tags = append(tags, "binary, not scanned")
	}
	if len(tags) == 0 {
		return ""
	}
	return " [" + strings.Join(tags, "; ") + "]"
}
