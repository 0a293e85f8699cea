package redact

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ncihtan/go-htancensor/internal/checksum"
	engine "github.com/ncihtan/go-htancensor/internal/redact"
	"github.com/ncihtan/go-htancensor/internal/tiff"
	"github.com/ncihtan/go-htancensor/pkg/app"
)

// Handle processes a redaction request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := ctx.Slog().With("run_id", runID, "input", req.InputPath)

	// 2. Hash and load the source
	inputSum, err := checksum.File(req.InputPath)
	if err != nil {
		return nil, app.NewError(app.ErrCodeLoadFailed, fmt.Sprintf("cannot read %s", req.InputPath), err)
	}

	f, err := tiff.Load(req.InputPath)
	if err != nil {
		return nil, app.NewError(app.ErrCodeLoadFailed, fmt.Sprintf("cannot parse %s", req.InputPath), err)
	}
	defer f.Close()
	logger.Debug("loaded file", "bigtiff", f.BigTIFF, "directories", len(f.IFDs), "size", f.Size())

	// 3. Redact in memory
	report, err := engine.NewPipeline(logger).Run(f, req.Mode())
	if err != nil {
		var validationErr *engine.ValidationError
		if errors.As(err, &validationErr) {
			return nil, app.NewError(app.ErrCodeInvalidInput, "invalid redaction mode", err)
		}
		return nil, app.NewError(app.ErrCodeRedactionFailed, fmt.Sprintf("redaction failed for %s", req.InputPath), err)
	}

	response := &Response{
		RunID:         runID,
		InputPath:     req.InputPath,
		Format:        report.Format,
		Action:        report.Action,
		Results:       report.Results,
		Total:         report.Total(),
		DryRun:        req.DryRun,
		InputChecksum: inputSum,
	}

	// 4. Write unless nothing should be written
	switch {
	case req.DryRun:
		response.Message = "Dry run, nothing written"
	case !report.Changed() && req.SkipUnchanged:
		response.Message = "No changes made"
	default:
		target := req.Target()
		if err := tiff.Save(f, target, req.Overwrite); err != nil {
			return nil, app.NewError(app.ErrCodeWriteFailed, fmt.Sprintf("cannot write %s", target), err)
		}
		outputSum, err := checksum.File(target)
		if err != nil {
			return nil, app.NewError(app.ErrCodeWriteFailed, fmt.Sprintf("cannot read back %s", target), err)
		}
		response.OutputPath = target
		response.OutputChecksum = outputSum
		response.Written = true
	}
	if response.Message != "" {
		logger.Info(response.Message)
	}

	response.Duration = time.Since(startTime)

	// 5. Persist the report
	if req.ReportPath != "" {
		if err := WriteReport(response, req.ReportPath); err != nil {
			return nil, app.NewError(app.ErrCodeWriteFailed, fmt.Sprintf("cannot write report %s", req.ReportPath), err)
		}
	}

	logger.Info("run complete", "format", response.Format, "total", response.Total,
		"written", response.Written, "duration", response.Duration)
	return response, nil
}
