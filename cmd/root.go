// =============================================================================
// Spreadsheet Translator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (translator)
//   ├── demoTranslatorCmd (translator demo:translator)
//   ├── validateCmd       (translator validate)
//   └── versionCmd        (translator version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Commands
//   load the configuration themselves, so that argument errors are reported
//   before any file is read.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/ginjaninja78/spreadsheet-translator/internal/config"
	"github.com/ginjaninja78/spreadsheet-translator/internal/logging"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "translator",
	Short: "Spreadsheet Translator - Convert translation spreadsheets into catalogs",
	Long: `Spreadsheet Translator reads translation spreadsheets (books) and writes
one translation catalog per locale, ready to be loaded by a translator.

Each book is a spreadsheet file mapped to a translation domain. Each sheet of
the book holds a set of keys, one column per locale.

Example Usage:
  translator demo:translator                                   # Convert every book
  translator demo:translator --book-name frontend              # Convert one book
  translator demo:translator --sheet-name common --book-name frontend
  translator validate --config ./translator.yaml               # Check books without writing`,

	// Errors are printed once, by Execute.
	SilenceErrors: true,
	SilenceUsage:  true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main(). Interrupts
// cancel the running command through its context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	// --config flag: Path to the configuration file.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"translator.yaml",
		"Path to the configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads the configuration named by --config and builds the logger
// it asks for. Logs go to w; --verbose forces the debug level.
func loadConfig(w io.Writer) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(w, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	return cfg, logger, nil
}
