package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// FetchReport is the machine-readable form of a fetch command.
type FetchReport struct {
	Method string          `json:"method"`
	Params []interface{}   `json:"params"`
	Result interface{}     `json:"result"`
	Raw    json.RawMessage `json:"raw,omitempty"`
	Meta   FetchMeta       `json:"meta"`
}

// FetchMeta records where a result came from.
type FetchMeta struct {
	Provider  string `json:"provider"`
	LatencyMs int64  `json:"latencyMs"`
}

// CheckReportJSON is the machine-readable form of a check run.
type CheckReportJSON struct {
	Kind    string            `json:"kind"`
	Passed  int               `json:"passed"`
	Failed  int               `json:"failed"`
	Results []CheckResultJSON `json:"results"`
}

// CheckResultJSON is one checked document.
type CheckResultJSON struct {
	Source    string          `json:"source"`
	OK        bool            `json:"ok"`
	Canonical json.RawMessage `json:"canonical,omitempty"`
	Error     string          `json:"error,omitempty"`
	Path      string          `json:"path,omitempty"`
}

// WriteJSON writes v followed by a newline. Pretty output is indented by two spaces.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// WriteRaw re-indents an already encoded document. Input that is not valid JSON is
// written unchanged.
func WriteRaw(w io.Writer, raw []byte, pretty bool) error {
	var buf bytes.Buffer
	var err error
	if pretty {
		err = json.Indent(&buf, raw, "", "  ")
	} else {
		err = json.Compact(&buf, raw)
	}
	if err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	_, err = fmt.Fprintln(w, buf.String())
	return err
}

// NewCheckReport summarizes check results.
func NewCheckReport(kind string, results []CheckResult) CheckReportJSON {
	report := CheckReportJSON{Kind: kind, Results: make([]CheckResultJSON, 0, len(results))}
	for _, r := range results {
		jr := CheckResultJSON{Source: r.Source, OK: r.OK()}
		if r.OK() {
			report.Passed++
			jr.Canonical = json.RawMessage(r.Canonical)
		} else {
			report.Failed++
			jr.Error = r.Err.Error()
			jr.Path = r.Path()
		}
		report.Results = append(report.Results, jr)
	}
	return report
}

// RenderCheckJSON writes a check report.
func RenderCheckJSON(w io.Writer, kind string, results []CheckResult) error {
	return WriteJSON(w, NewCheckReport(kind, results), true)
}
