package classify

import (
	"github.com/ncihtan/go-htancensor/internal/types"
)

// descriptionPreview caps the description excerpt in responses
const descriptionPreview = 80

// Request represents a format classification request
type Request struct {
	Path string
}

// Response describes a classified file
type Response struct {
	Path        string       `json:"path" yaml:"path"`
	Format      types.Format `json:"format" yaml:"format"`
	ByteOrder   string       `json:"byte_order" yaml:"byte_order"`
	BigTIFF     bool         `json:"bigtiff" yaml:"bigtiff"`
	Pages       int          `json:"pages" yaml:"pages"`
	Directories int          `json:"directories" yaml:"directories"`
	DateTimes   int          `json:"date_times" yaml:"date_times"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
}
