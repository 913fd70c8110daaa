package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/ethrpc-types/internal/codec"
)

// CheckResult is the outcome of decoding one document and re-encoding it.
type CheckResult struct {
	Source    string
	Stage     string // step that failed: read, decode, encode, redecode, stable
	Canonical []byte
	Err       error
}

func (r CheckResult) OK() bool { return r.Err == nil }

// Path is the field path of a decode failure, if the error carries one.
func (r CheckResult) Path() string {
	if r.Err == nil {
		return ""
	}
	return codec.PathOf(r.Err)
}

// RenderCheckTerminal prints one row per document and a pass/fail summary.
func RenderCheckTerminal(w io.Writer, kind string, results []CheckResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold(fmt.Sprintf("Round-trip check: %s", kind)))

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Source", "Result", "Stage", "Path", "Detail")
	tbl.WithHeaderFormatter(headerFmt).WithWriter(w)

	passed := 0
	for _, r := range results {
		if r.OK() {
			passed++
			tbl.AddRow(r.Source, green("✓ ok"), "—", "—", truncateDetail(string(r.Canonical), 60))
			continue
		}
		path := r.Path()
		if path == "" {
			path = "—"
		}
		tbl.AddRow(r.Source, red("✗ fail"), r.Stage, path, truncateDetail(r.Err.Error(), 60))
	}
	tbl.Print()

	fmt.Fprintln(w)
	failed := len(results) - passed
	switch {
	case len(results) == 0:
		fmt.Fprintf(w, "  %s no documents checked\n", yellow("⚠"))
	case failed == 0:
		fmt.Fprintf(w, "  %s %d/%d documents round-trip canonically\n", green("✓"), passed, len(results))
	default:
		fmt.Fprintf(w, "  %s %d/%d documents failed\n", red("✗"), failed, len(results))
	}
	fmt.Fprintln(w)
}

func truncateDetail(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
