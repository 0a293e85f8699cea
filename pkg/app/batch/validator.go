package batch

import (
	"path/filepath"

	engine "github.com/ncihtan/go-htancensor/internal/redact"
	"github.com/ncihtan/go-htancensor/pkg/app"
)

// Validate validates a batch request
func (r *Request) Validate() error {
	if r.Root == "" {
		return app.NewError(app.ErrCodeInvalidInput, "directory is required", nil)
	}

	if !r.DryRun && r.OutputDir == "" && !r.Overwrite {
		return app.NewError(app.ErrCodeInvalidInput, "either an output directory or overwrite is required", nil)
	}

	if r.OutputDir != "" && filepath.Clean(r.OutputDir) == filepath.Clean(r.Root) {
		return app.NewError(app.ErrCodeInvalidInput, "output directory equals input directory, use overwrite instead", nil)
	}

	if r.RemoveDate && r.ReplaceDate != "" {
		return app.NewError(app.ErrCodeInvalidInput, "cannot specify both remove-date and replace-date", nil)
	}

	if r.ReplaceDate != "" {
		if err := engine.ValidateReplacement(r.ReplaceDate); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid replacement date", err)
		}
	}

	if len(r.Extensions) == 0 {
		return app.NewError(app.ErrCodeInvalidInput, "at least one extension is required", nil)
	}

	if r.Workers < 1 {
		return app.NewError(app.ErrCodeInvalidInput, "workers must be at least 1", nil)
	}

	return nil
}
