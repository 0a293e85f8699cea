package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ncihtan/go-htancensor/pkg/app/classify"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Report the vendor dialect of a slide without modifying it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClassify(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, path string) error {
	ctx, cancel, err := newContext(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	response, err := classify.Handle(ctx, &classify.Request{Path: path})
	if err != nil {
		return err
	}
	return classify.FormatOutput(cmd.OutOrStdout(), response, ctx.OutputFormat)
}
