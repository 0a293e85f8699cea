package redact

import (
	"github.com/ncihtan/go-htancensor/internal/types"
)

// reportOrder fixes the order results appear in every report.
var reportOrder = []string{
	RedactorDateTime,
	RedactorAperio,
	RedactorOMEAcquisitionDate,
	RedactorOMEStructuredAnnotations,
}

// Result is the outcome of one redactor over one file.
type Result struct {
	Redactor string `json:"redactor" yaml:"redactor"`

	// Checked is false when the redactor does not apply to the file's
	// format and never ran.
	Checked bool `json:"checked" yaml:"checked"`

	// Count is the number of occurrences removed or replaced.
	Count int `json:"count" yaml:"count"`

	// Directories lists the paths of directories that were changed.
	Directories []string `json:"directories,omitempty" yaml:"directories,omitempty"`
}

// Found reports whether the redactor touched anything.
func (r Result) Found() bool {
	return r.Count > 0
}

// Report summarises one pipeline run.
type Report struct {
	Format  types.Format `json:"format" yaml:"format"`
	Action  string       `json:"action" yaml:"action"`
	Results []Result     `json:"results" yaml:"results"`
}

func newReport(format types.Format, mode types.Mode) *Report {
	r := &Report{
		Format:  format,
		Action:  mode.Action.String(),
		Results: make([]Result, len(reportOrder)),
	}
	for i, name := range reportOrder {
		r.Results[i] = Result{Redactor: name}
	}
	return r
}

func (r *Report) set(res Result) {
	for i := range r.Results {
		if r.Results[i].Redactor == res.Redactor {
			r.Results[i] = res
			return
		}
	}
	r.Results = append(r.Results, res)
}

// Result returns the result for a redactor by name.
func (r *Report) Result(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Redactor == name {
			return res, true
		}
	}
	return Result{}, false
}

// Counts maps redactor name to the number of fields touched. Redactors that
// never ran are omitted.
func (r *Report) Counts() map[string]int {
	counts := make(map[string]int, len(r.Results))
	for _, res := range r.Results {
		if res.Checked {
			counts[res.Redactor] = res.Count
		}
	}
	return counts
}

// Total returns the number of fields touched by all redactors.
func (r *Report) Total() int {
	total := 0
	for _, res := range r.Results {
		total += res.Count
	}
	return total
}

// Changed reports whether the run mutated the tree.
func (r *Report) Changed() bool {
	return r.Total() > 0
}
