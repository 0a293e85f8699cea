package classify

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ncihtan/go-htancensor/pkg/app"
)

// FormatOutput formats a classification according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json", "yaml":
		return app.Encode(w, response, format)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Path:\t%s\n", response.Path)
		fmt.Fprintf(tw, "Format:\t%s\n", response.Format)
		fmt.Fprintf(tw, "Layout:\t%s, bigtiff=%t\n", response.ByteOrder, response.BigTIFF)
		fmt.Fprintf(tw, "Directories:\t%d (%d pages)\n", response.Directories, response.Pages)
		fmt.Fprintf(tw, "DateTime tags:\t%d\n", response.DateTimes)
		if response.Description != "" {
			fmt.Fprintf(tw, "Description:\t%s\n", response.Description)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
