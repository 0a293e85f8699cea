package redact

import (
	"path/filepath"
	"strings"

	engine "github.com/ncihtan/go-htancensor/internal/redact"
	"github.com/ncihtan/go-htancensor/pkg/app"
)

// Validate validates a redaction request
func (r *Request) Validate() error {
	if r.InputPath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "input path is required", nil)
	}

	// A destination is required unless nothing will be written
	if !r.DryRun && r.OutputPath == "" && !r.Overwrite {
		return app.NewError(app.ErrCodeInvalidInput, "either an output path or overwrite is required", nil)
	}

	if r.OutputPath != "" && !r.Overwrite && samePath(r.OutputPath, r.InputPath) {
		return app.NewError(app.ErrCodeInvalidInput, "output path equals input path, use overwrite instead", nil)
	}

	if r.RemoveDate && r.ReplaceDate != "" {
		return app.NewError(app.ErrCodeInvalidInput, "cannot specify both remove-date and replace-date", nil)
	}

	if r.ReplaceDate != "" {
		if err := engine.ValidateReplacement(r.ReplaceDate); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid replacement date", err)
		}
	}

	if r.ReportPath != "" {
		if _, err := reportEncoding(r.ReportPath); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid report path", err)
		}
	}

	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// reportEncoding maps a report file extension to its encoding name
func reportEncoding(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".cbor":
		return "cbor", nil
	default:
		return "", errUnsupportedReport(ext)
	}
}
