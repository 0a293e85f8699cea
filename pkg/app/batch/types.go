package batch

import (
	"time"

	"github.com/ncihtan/go-htancensor/pkg/app/redact"
)

// Request represents a directory-wide redaction request
type Request struct {
	Root string

	// Destination: a mirror tree under OutputDir, or in place when
	// Overwrite is set and OutputDir is empty
	OutputDir string
	Overwrite bool

	RemoveDate    bool
	ReplaceDate   string
	DryRun        bool
	SkipUnchanged bool

	// Extensions selects files by case-insensitive suffix
	Extensions []string
	Workers    int
}

// Response summarises a batch run
type Response struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Root      string        `json:"root" yaml:"root"`
	Files     []FileResult  `json:"files" yaml:"files"`
	Processed int           `json:"processed" yaml:"processed"`
	Changed   int           `json:"changed" yaml:"changed"`
	Written   int           `json:"written" yaml:"written"`
	Failed    int           `json:"failed" yaml:"failed"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// FileResult is the outcome for one file
type FileResult struct {
	Path   string           `json:"path" yaml:"path"`
	Result *redact.Response `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the file could not be redacted
func (f *FileResult) Failed() bool {
	return f.Error != ""
}

// tally recomputes the summary counters from Files
func (r *Response) tally() {
	r.Processed, r.Changed, r.Written, r.Failed = 0, 0, 0, 0
	for i := range r.Files {
		file := &r.Files[i]
		r.Processed++
		if file.Failed() {
			r.Failed++
			continue
		}
		if file.Result.Changed() {
			r.Changed++
		}
		if file.Result.Written {
			r.Written++
		}
	}
}
