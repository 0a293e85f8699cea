package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ncihtan/go-htancensor/pkg/app/redact"
)

var (
	// Destination
	redactOut       string
	redactOverwrite bool

	// Mode
	removeDate  bool
	replaceDate string

	// Run control
	dryRun        bool
	skipUnchanged bool
	reportPath    string
)

var redactCmd = &cobra.Command{
	Use:   "redact <file>",
	Short: "Remove or replace acquisition dates in a single slide",
	Long: `Redact date and time metadata from one TIFF, SVS, NDPI or OME-TIFF file.

The DateTime tag is processed in every image directory. Aperio and OME-TIFF
image descriptions are redacted according to their dialect. Without a mode
flag dates are removed.

Examples:
  # Remove dates, writing a new file
  htancensor redact slide.svs --out slide.redacted.svs

  # Replace dates in place with the epoch
  htancensor redact slide.svs --overwrite --replace-date "1970:01:01 00:00:00"

  # Show what would change and save a CBOR report
  htancensor redact slide.svs --dry-run --report report.cbor`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRedact(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(redactCmd)

	redactCmd.Flags().StringVar(&redactOut, "out", "", "output file path")
	redactCmd.Flags().BoolVar(&redactOverwrite, "overwrite", false, "overwrite the input (or an existing --out file)")

	addModeFlags(redactCmd)
	redactCmd.Flags().StringVar(&reportPath, "report", "", "write a report file (.json, .yaml, .yml, .cbor)")
}

// addModeFlags registers the redaction mode and run control flags shared by
// redact and batch
func addModeFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&removeDate, "remove-date", false, "remove date fields (default)")
	cmd.Flags().StringVar(&replaceDate, "replace-date", "", `replace dates with a value in "YYYY:MM:DD HH:MM:SS" form`)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be redacted without writing")
	cmd.Flags().BoolVar(&skipUnchanged, "skip-unchanged", false, "do not write files with nothing to redact")
	cmd.MarkFlagsMutuallyExclusive("remove-date", "replace-date")
}

func runRedact(cmd *cobra.Command, inputPath string) error {
	ctx, cancel, err := newContext(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	request := &redact.Request{
		InputPath:     inputPath,
		OutputPath:    redactOut,
		Overwrite:     redactOverwrite,
		RemoveDate:    cfg.RemoveDate,
		ReplaceDate:   cfg.ReplaceDate,
		DryRun:        cfg.DryRun,
		SkipUnchanged: cfg.SkipUnchanged,
		ReportPath:    reportPath,
	}

	response, err := redact.Handle(ctx, request)
	if err != nil {
		return err
	}

	if ctx.Quiet {
		return nil
	}
	return redact.FormatOutput(cmd.OutOrStdout(), response, ctx.OutputFormat)
}
