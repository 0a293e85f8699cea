package redact

import (
	"time"

	engine "github.com/ncihtan/go-htancensor/internal/redact"
	"github.com/ncihtan/go-htancensor/internal/types"
)

// Request represents a single-file redaction request
type Request struct {
	InputPath string

	// Destination: OutputPath, or the input itself when Overwrite is set
	// and OutputPath is empty. Overwrite also permits replacing an
	// existing OutputPath.
	OutputPath string
	Overwrite  bool

	// Mode selection; removal is the default
	RemoveDate  bool
	ReplaceDate string

	DryRun        bool
	SkipUnchanged bool

	// ReportPath, when set, receives the response as .json, .yaml/.yml or .cbor
	ReportPath string
}

// Response represents the outcome of one redaction run
type Response struct {
	RunID          string          `json:"run_id" yaml:"run_id"`
	InputPath      string          `json:"input_path" yaml:"input_path"`
	OutputPath     string          `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Format         types.Format    `json:"format" yaml:"format"`
	Action         string          `json:"action" yaml:"action"`
	Results        []engine.Result `json:"results" yaml:"results"`
	Total          int             `json:"total" yaml:"total"`
	Written        bool            `json:"written" yaml:"written"`
	DryRun         bool            `json:"dry_run" yaml:"dry_run"`
	Message        string          `json:"message,omitempty" yaml:"message,omitempty"`
	InputChecksum  string          `json:"input_checksum" yaml:"input_checksum"`
	OutputChecksum string          `json:"output_checksum,omitempty" yaml:"output_checksum,omitempty"`
	Duration       time.Duration   `json:"duration" yaml:"duration"`
}

// Mode returns the redaction mode the request selects
func (r *Request) Mode() types.Mode {
	if r.ReplaceDate != "" {
		return engine.Replace(r.ReplaceDate)
	}
	return engine.Remove()
}

// Target returns the path the redacted file is written to
func (r *Request) Target() string {
	if r.OutputPath != "" {
		return r.OutputPath
	}
	if r.Overwrite {
		return r.InputPath
	}
	return ""
}

// Counts returns the per-redactor occurrence counts for checked redactors
func (r *Response) Counts() map[string]int {
	counts := make(map[string]int)
	for _, result := range r.Results {
		if result.Checked {
			counts[result.Redactor] = result.Count
		}
	}
	return counts
}

// Changed reports whether any field was redacted
func (r *Response) Changed() bool {
	return r.Total > 0
}
