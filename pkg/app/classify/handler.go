package classify

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ncihtan/go-htancensor/internal/redact"
	"github.com/ncihtan/go-htancensor/internal/tagstore"
	"github.com/ncihtan/go-htancensor/internal/tiff"
	"github.com/ncihtan/go-htancensor/internal/types"
	"github.com/ncihtan/go-htancensor/pkg/app"
)

// Validate validates a classification request
func (r *Request) Validate() error {
	if r.Path == "" {
		return app.NewError(app.ErrCodeInvalidInput, "file path is required", nil)
	}
	return nil
}

// Handle loads a file and reports its dialect without modifying it
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	f, err := tiff.Load(req.Path)
	if err != nil {
		return nil, app.NewError(app.ErrCodeLoadFailed, fmt.Sprintf("cannot parse %s", req.Path), err)
	}
	defer f.Close()

	store := tagstore.New(f)
	response := &Response{
		Path:      req.Path,
		Format:    redact.Classify(store),
		ByteOrder: byteOrderName(f.ByteOrder),
		BigTIFF:   f.BigTIFF,
		Pages:     len(f.IFDs),
	}

	for _, entry := range store.Directories(true) {
		response.Directories++
		if _, ok := store.Get(entry.IFD, types.TagDateTime); ok {
			response.DateTimes++
		}
	}

	if root, ok := store.Root(); ok {
		if desc, ok := store.GetASCII(root, types.TagImageDescription); ok {
			response.Description = preview(desc)
		}
	}

	ctx.Slog().Debug("classified file", "path", req.Path, "format", response.Format)
	return response, nil
}

func byteOrderName(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// preview returns the first line of desc, truncated
func preview(desc string) string {
	if i := strings.IndexAny(desc, "\r\n"); i >= 0 {
		desc = desc[:i]
	}
	if len(desc) > descriptionPreview {
		desc = desc[:descriptionPreview] + "..."
	}
	return desc
}
