package redact

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/ncihtan/go-htancensor/pkg/app"
)

// FormatOutput formats a redaction response according to output format
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

// formatTable formats a response as a per-redactor table followed by a summary
func formatTable(w io.Writer, response *Response) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "REDACTOR\tCHECKED\tCOUNT\tDIRECTORIES\n")
	fmt.Fprintf(tw, "--------\t-------\t-----\t-----------\n")
	for _, result := range response.Results {
		dirs := "-"
		if len(result.Directories) > 0 {
			dirs = strings.Join(result.Directories, ",")
		}
		fmt.Fprintf(tw, "%s\t%t\t%d\t%s\n", result.Redactor, result.Checked, result.Count, dirs)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "File:    %s (%s)\n", response.InputPath, response.Format)
	fmt.Fprintf(w, "Action:  %s, %d field(s)\n", response.Action, response.Total)
	switch {
	case response.Written:
		fmt.Fprintf(w, "Written: %s\n", response.OutputPath)
	case response.Message != "":
		fmt.Fprintf(w, "Written: no (%s)\n", response.Message)
	}
	fmt.Fprintf(w, "Run:     %s in %v\n", response.RunID, response.Duration)
	return nil
}

// FormatSummary provides a one-line summary for batch and verbose output
func FormatSummary(response *Response) string {
	if !response.Changed() {
		return fmt.Sprintf("%s: no date fields found", response.InputPath)
	}
	summary := fmt.Sprintf("%s: %s %d field", response.InputPath, response.Action, response.Total)
	if response.Total != 1 {
		summary += "s"
	}
	if response.Written {
		summary += " -> " + response.OutputPath
	}
	return summary
}

// WriteReport writes the response to path, encoded by the path's extension
func WriteReport(response *Response, path string) error {
	encoding, err := reportEncoding(path)
	if err != nil {
		return err
	}

	var data []byte
	switch encoding {
	case "cbor":
		data, err = cbor.Marshal(response)
	case "yaml":
		data, err = yaml.Marshal(response)
	default:
		var sb strings.Builder
		err = app.Encode(&sb, response, "json")
		data = []byte(sb.String())
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

func errUnsupportedReport(ext string) error {
	return fmt.Errorf("unsupported report extension %q, use .json, .yaml, .yml or .cbor", ext)
}
