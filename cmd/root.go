package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ncihtan/go-htancensor/internal/config"
	"github.com/ncihtan/go-htancensor/pkg/app"
)

var (
	// Global output flags only
	verbose      bool
	quiet        bool
	outputFormat string
	logFormat    string
	configFile   string

	// Settings merged from flags, environment and config file
	settings *viper.Viper
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "htancensor",
	Short: "Redact acquisition dates from whole-slide TIFF images",
	Long: `htancensor removes or replaces date and time metadata in TIFF-family
whole-slide images before they are shared.

It rewrites the baseline DateTime tag in every image directory and the
vendor-specific dates embedded in Aperio SVS and OME-TIFF image
descriptions. Pixel data is copied unchanged.

Commands:
  redact      Redact a single file
  batch       Redact every slide under a directory
  classify    Report the vendor dialect of a file`,
	Version:           "0.1.0-dev",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: htancensor.yaml on the search path)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// loadSettings binds the running command's flags and loads the merged config
func loadSettings(cmd *cobra.Command, args []string) error {
	settings = config.New()
	if err := config.BindFlags(settings, cmd.Flags()); err != nil {
		return err
	}

	loaded, err := config.Load(settings, configFile)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// newContext builds the application context for a command run. The returned
// cancel function stops signal delivery and must be called.
func newContext(cmd *cobra.Command) (*app.Context, context.CancelFunc, error) {
	logger, err := app.NewLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel, cfg.Verbose, cfg.Quiet)
	if err != nil {
		return nil, nil, err
	}

	ctx := app.NewContext()
	ctx.OutputFormat = cfg.OutputFormat
	ctx.Verbose = cfg.Verbose
	ctx.Quiet = cfg.Quiet
	ctx.Logger = logger

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	ctx.Context = signalCtx
	return ctx, cancel, nil
}
