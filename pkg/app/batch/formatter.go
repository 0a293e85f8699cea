package batch

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ncihtan/go-htancensor/pkg/app"
)

// FormatOutput formats batch results according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json", "yaml":
		return app.Encode(w, response, format)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatTable(w io.Writer, response *Response) error {
	if len(response.Files) == 0 {
		fmt.Fprintf(w, "No matching files found under %s.\n", response.Root)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PATH\tFORMAT\tFIELDS\tWRITTEN\tERROR\n")
	fmt.Fprintf(tw, "----\t------\t------\t-------\t-----\n")
	for _, file := range response.Files {
		if file.Failed() {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%s\n", file.Path, file.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t-\n", file.Path, file.Result.Format, file.Result.Total, file.Result.Written)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nProcessed %d file(s): %d changed, %d written, %d failed in %v\n",
		response.Processed, response.Changed, response.Written, response.Failed, response.Duration)
	return nil
}
