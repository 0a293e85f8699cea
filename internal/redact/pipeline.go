// Package redact finds date and time fields in TIFF-family files and removes
// or overwrites them without touching image data.
package redact

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ncihtan/go-htancensor/internal/interfaces"
	"github.com/ncihtan/go-htancensor/internal/tagstore"
	"github.com/ncihtan/go-htancensor/internal/tiff"
	"github.com/ncihtan/go-htancensor/internal/types"
)

// Pipeline classifies a file and runs the redactors that apply to it. A
// pipeline holds no per-file state and may be reused across files, but a
// single file must not be redacted concurrently.
type Pipeline struct {
	logger *slog.Logger

	// universal redactors run for every format.
	universal []interfaces.Redactor

	// dialects maps a format to its description redactors.
	dialects map[types.Format][]interfaces.Redactor
}

// NewPipeline creates a pipeline that reports to logger. A nil logger
// discards records.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		logger:    logger,
		universal: []interfaces.Redactor{NewDateTimeRedactor()},
		dialects: map[types.Format][]interfaces.Redactor{
			types.FormatAperio: {NewAperioRedactor()},
			types.FormatOMETIFF: {
				NewAcquisitionDateRedactor(),
				NewStructuredAnnotationsRedactor(),
			},
		},
	}
}

// Run redacts f in place.
func (p *Pipeline) Run(f *tiff.File, mode types.Mode) (*Report, error) {
	return p.RunStore(tagstore.New(f), mode)
}

// RunStore validates mode, classifies the file and applies the universal
// redactors followed by the ones registered for its format. Validation
// failures return before anything is mutated.
func (p *Pipeline) RunStore(store interfaces.TagStore, mode types.Mode) (*Report, error) {
	if err := ValidateMode(mode); err != nil {
		return nil, err
	}

	format := Classify(store)
	p.logger.Info("classified file", "format", format)

	report := newReport(format, mode)
	redactors := make([]interfaces.Redactor, 0, len(p.universal)+len(p.dialects[format]))
	redactors = append(redactors, p.universal...)
	redactors = append(redactors, p.dialects[format]...)

	for _, r := range redactors {
		res, err := p.apply(store, r, mode)
		if err != nil {
			return nil, err
		}
		report.set(res)
	}
	return report, nil
}

// apply probes every directory in the redactor's scope first and mutates
// the matches afterwards, so no directory is edited while the tree is
// being enumerated.
func (p *Pipeline) apply(store interfaces.TagStore, r interfaces.Redactor, mode types.Mode) (Result, error) {
	res := Result{Redactor: r.Name(), Checked: true}

	var targets []interfaces.DirectoryEntry
	for _, entry := range store.Directories(r.IncludeSubIFDs()) {
		if r.Probe(store, entry) {
			targets = append(targets, entry)
		}
	}

	for _, entry := range targets {
		n, err := r.Redact(store, entry, mode)
		if err != nil {
			return res, fmt.Errorf("%s redactor, directory %s: %w", r.Name(), entry.Path, err)
		}
		if n == 0 {
			continue
		}
		res.Count += n
		res.Directories = append(res.Directories, entry.Path)
		p.logger.Info("redacted field",
			"redactor", r.Name(),
			"directory", entry.Path,
			"action", mode.Action.String(),
			"occurrences", n)
	}

	if res.Count == 0 {
		p.logger.Info("no fields found", "redactor", r.Name())
	} else {
		p.logger.Info("redaction complete", "redactor", r.Name(), "count", res.Count)
	}
	return res, nil
}
