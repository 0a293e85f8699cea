package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncihtan/go-htancensor/internal/config"
	"github.com/ncihtan/go-htancensor/pkg/app/batch"
)

var (
	batchOutDir    string
	batchOverwrite bool
	batchWorkers   int
	batchExt       []string
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Redact every slide under a directory",
	Long: `Walk a directory tree and redact each matching slide independently.

Outputs mirror the input tree under --out-dir, or replace the inputs with
--overwrite. A file that fails is reported and the batch continues.

Examples:
  # Redact all slides into a mirror tree with 8 workers
  htancensor batch ./slides --out-dir ./redacted --workers 8

  # Redact NDPI files in place
  htancensor batch ./slides --overwrite --ext .ndpi`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory that receives the redacted tree")
	batchCmd.Flags().BoolVar(&batchOverwrite, "overwrite", false, "redact files in place (or replace existing outputs)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "number of files processed concurrently")
	batchCmd.Flags().StringSliceVar(&batchExt, "ext", config.DefaultExtensions, "file extensions to process")

	addModeFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, root string) error {
	ctx, cancel, err := newContext(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	request := &batch.Request{
		Root:          root,
		OutputDir:     batchOutDir,
		Overwrite:     batchOverwrite,
		RemoveDate:    cfg.RemoveDate,
		ReplaceDate:   cfg.ReplaceDate,
		DryRun:        cfg.DryRun,
		SkipUnchanged: cfg.SkipUnchanged,
		Extensions:    cfg.Extensions,
		Workers:       cfg.Workers,
	}

	response, err := batch.Handle(ctx, request)
	if response != nil && !ctx.Quiet {
		if ferr := batch.FormatOutput(cmd.OutOrStdout(), response, ctx.OutputFormat); ferr != nil {
			return ferr
		}
	}
	if err != nil {
		return err
	}
	if response.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", response.Failed, response.Processed)
	}
	return nil
}
