package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ncihtan/go-htancensor/pkg/app"
	"github.com/ncihtan/go-htancensor/pkg/app/redact"
)

// Handle redacts every matching file under the request root. Each file is
// loaded, redacted and written independently by a bounded pool of workers;
// a failure is recorded against its file and does not stop the batch.
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	files, err := Discover(req.Root, req.Extensions)
	if err != nil {
		return nil, app.NewError(app.ErrCodeLoadFailed, fmt.Sprintf("cannot scan %s", req.Root), err)
	}

	response := &Response{
		RunID: uuid.NewString(),
		Root:  req.Root,
		Files: make([]FileResult, len(files)),
	}
	logger := ctx.Slog().With("batch_id", response.RunID)
	logger.Info("starting batch", "root", req.Root, "files", len(files), "workers", req.Workers)

	workers := req.Workers
	if workers > len(files) {
		workers = len(files)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int64
	)
	jobs := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				response.Files[i] = process(ctx, req, files[i])

				mu.Lock()
				completed++
				update := app.ProgressUpdate{
					Message:     files[i],
					Completed:   completed,
					Total:       int64(len(files)),
					StartedAt:   startTime,
					ElapsedTime: time.Since(startTime),
				}
				ctx.Progress(update)
				mu.Unlock()

				if result := response.Files[i].Result; result != nil {
					logger.Info(redact.FormatSummary(result), "percent", update.Percent(), "eta", update.ETA())
				}
			}
		}()
	}

	dispatched := 0
feed:
	for i := range files {
		select {
		case jobs <- i:
			dispatched++
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := dispatched; i < len(files); i++ {
		response.Files[i] = FileResult{Path: files[i], Error: "cancelled"}
	}

	response.tally()
	response.Duration = time.Since(startTime)
	logger.Info("batch complete", "processed", response.Processed, "changed", response.Changed,
		"written", response.Written, "failed", response.Failed, "duration", response.Duration)

	if err := ctx.Err(); err != nil {
		return response, err
	}
	return response, nil
}

// process redacts a single file and captures any failure in the result
func process(ctx *app.Context, req *Request, path string) FileResult {
	result := FileResult{Path: path}

	fileReq := &redact.Request{
		InputPath:     path,
		Overwrite:     req.Overwrite,
		RemoveDate:    req.RemoveDate,
		ReplaceDate:   req.ReplaceDate,
		DryRun:        req.DryRun,
		SkipUnchanged: req.SkipUnchanged,
	}

	if req.OutputDir != "" {
		rel, err := filepath.Rel(req.Root, path)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		fileReq.OutputPath = filepath.Join(req.OutputDir, rel)
		if !req.DryRun {
			if err := os.MkdirAll(filepath.Dir(fileReq.OutputPath), 0o755); err != nil {
				result.Error = err.Error()
				return result
			}
		}
	}

	resp, err := redact.Handle(ctx, fileReq)
	if err != nil {
		ctx.Error("file failed", "path", path, "error", err)
		result.Error = err.Error()
		return result
	}
	result.Result = resp
	return result
}

// Discover returns the files under root whose names end in one of
// extensions, in lexical walk order
func Discover(root string, extensions []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if matchesExtension(d.Name(), extensions) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func matchesExtension(name string, extensions []string) bool {
	name = strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
