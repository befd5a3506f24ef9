// =============================================================================
// PO Payment Schedule - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (poschedule)
//   ├── processCmd (poschedule process)
//   ├── fetchCmd   (poschedule fetch)
//   ├── convertCmd (poschedule convert)
//   ├── reportCmd  (poschedule report)
//   └── versionCmd (poschedule version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads a .env file from the working directory, if present
//   2. Loads the main configuration file (--config)
//   3. Sets up logging
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/po-payment-schedule/internal/config"
	"github.com/ginjaninja78/po-payment-schedule/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// mainConfig is loaded once in PersistentPreRunE.
var mainConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "poschedule",
	Short: "PO Payment Schedule - Turn open purchase orders into a vendor pay plan",
	Long: `poschedule joins the open purchase-order lines exported from NetSuite with
vendor payment terms, consolidates them per PO and computes the deposit,
prepayment and remaining-balance installments of every order.

Example Usage:
  poschedule fetch                                # Download Record and VendorID JSON
  poschedule process --po Record.json --vendors VendorID.json \
      --terms PTDefine.csv --paid PaidAmount.csv --html --xlsx
  poschedule convert --in PO.xlsx --out PO.json    # Convert a workbook export
  poschedule report --final final_Mar_5.json --html summary.html`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		cfg, err := config.LoadMainConfig(cfgFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		mainConfig = cfg

		logging.Setup(cfg.LogLevel, cfg.LogFormat)
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file; a missing file means defaults",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
