// =============================================================================
// PO Payment Schedule - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the full pipeline on
// one set of inputs and writes the final JSON plus the optional HTML and
// XLSX reports.
//
// COMMAND USAGE:
//   poschedule process [flags]
//
// FLAGS:
//   --po       : PO source JSON (Record_<date>.json)
//   --vendors  : Vendor term JSON (VendorID_<date>.json)
//   --terms    : Term definition CSV (PTDefine.csv)
//   --paid     : Paid ledger CSV (PaidAmount.csv)
//   --policy   : Policy preset name
//   --html     : Also write the HTML summary
//   --xlsx     : Also write the pay plan workbook
//   --archive  : Copy the inputs into the dated archive directory
//   --strict   : Abort when any PO line fails validation
//   --now      : Reference date (YYYY-MM-DD) for anchor bucketing
//
// Flags override the matching config.yaml settings.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/po-payment-schedule/internal/config"
	"github.com/ginjaninja78/po-payment-schedule/internal/pipeline"
	"github.com/ginjaninja78/po-payment-schedule/internal/report"
	"github.com/ginjaninja78/po-payment-schedule/internal/validation"
	"github.com/ginjaninja78/po-payment-schedule/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	poPath      string
	vendorsPath string
	termsPath   string
	paidPath    string
	policyName  string
	writeHTML   bool
	writeXLSX   bool
	archive     bool
	nowFlag     string
	strict      bool
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Build the payment schedule from the four inputs",
	Long: `The process command loads the PO source, the vendor term file, the term
definitions and the paid ledger, then joins, consolidates and schedules every
purchase order.

On success:
  - The final JSON is written to the output directory
  - The HTML summary and XLSX workbook are written when requested
  - Validation warnings are written to a log file
  - The inputs are copied to the archive directory when --archive is set

Any load failure aborts the run and nothing is written. With --strict a
validation warning also aborts the run; only the validation log is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&poPath, "po", "", "PO source JSON file")
	processCmd.Flags().StringVar(&vendorsPath, "vendors", "", "Vendor term JSON file")
	processCmd.Flags().StringVar(&termsPath, "terms", "", "Payment term definition CSV")
	processCmd.Flags().StringVar(&paidPath, "paid", "", "Paid ledger CSV")
	processCmd.Flags().StringVar(&policyName, "policy", "", "Policy preset (default, line-zero-merge, full-sourcing)")
	processCmd.Flags().BoolVar(&writeHTML, "html", false, "Also write the HTML summary")
	processCmd.Flags().BoolVar(&writeXLSX, "xlsx", false, "Also write the XLSX pay plan")
	processCmd.Flags().BoolVar(&archive, "archive", false, "Copy the inputs into the archive directory")
	processCmd.Flags().StringVar(&nowFlag, "now", "", "Reference date for anchors (YYYY-MM-DD)")
	processCmd.Flags().BoolVar(&strict, "strict", false, "Treat validation warnings as errors")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess orchestrates one pipeline run and writes its outputs.
func runProcess(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()
	cfg := mainConfig

	applyProcessFlags(cfg)
	if err := requireInputs(cfg.Inputs); err != nil {
		return err
	}

	fmt.Println("=== PO Payment Schedule ===")

	p, err := pipeline.New(cfg, startTime)
	if err != nil {
		return err
	}
	fm := utils.NewFileManager(cfg.OutputDir, cfg.ArchiveDir)
	validationLog := fm.OutputPath(fmt.Sprintf("validation_%s.txt", startTime.Format("20060102_150405")))

	result, err := p.Run(ctx)
	if errors.Is(err, pipeline.ErrValidationFailed) && result != nil {
		if dirErr := fm.EnsureDirectories(); dirErr == nil {
			if logErr := validation.WriteErrorLog(result.Issues, validationLog); logErr == nil {
				fmt.Printf("Validation log: %s\n", validationLog)
			}
		}
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	// =========================================================================
	// WRITE OUTPUTS
	// =========================================================================

	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	var outputs []string
	finalPath := fm.OutputPath(utils.GenerateOutputFileName(cfg.OutputFormat, p.Now(), nil))
	if err := utils.WriteJSON(finalPath, result.Report); err != nil {
		return err
	}
	outputs = append(outputs, finalPath)

	if writeHTML || writeXLSX {
		summary := report.Aggregate(result.Report.Data, p.Now())

		if writeHTML {
			path := fm.OutputPath(utils.GenerateOutputFileName(cfg.HTMLFormat, p.Now(), nil))
			if err := writeHTMLFile(path, summary, result.Report, p.Now()); err != nil {
				return err
			}
			outputs = append(outputs, path)
		}
		if writeXLSX {
			path := fm.OutputPath(utils.GenerateOutputFileName(cfg.XLSXFormat, p.Now(), nil))
			err := report.WriteWorkbook(path, report.WorkbookInput{
				Summary: summary,
				Final:   result.Report,
				Vendors: result.Vendors,
				Source:  result.Source,
			})
			if err != nil {
				return err
			}
			outputs = append(outputs, path)
		}
	}

	if len(result.Issues) > 0 {
		if err := validation.WriteErrorLog(result.Issues, validationLog); err != nil {
			return err
		}
		outputs = append(outputs, validationLog)
	}

	var archived []string
	if archive {
		for _, input := range inputList(cfg.Inputs) {
			path, err := fm.ArchiveInputFile(input)
			if err != nil {
				return err
			}
			archived = append(archived, path)
		}
	}

	// =========================================================================
	// PRINT SUMMARY
	// =========================================================================

	summaryPath, err := utils.WriteSummaryLog(utils.RunSummary{
		RunID:            result.RunID,
		StartTime:        startTime,
		EndTime:          time.Now(),
		Inputs:           inputList(cfg.Inputs),
		Outputs:          outputs,
		Archived:         archived,
		ValidationIssues: len(result.Issues),
		Stats:            result.Stats.String(),
	}, cfg.OutputDir)
	if err != nil {
		return err
	}

	fmt.Println(result.Stats.String())
	for _, path := range outputs {
		fmt.Printf("  ✓ %s\n", path)
	}
	fmt.Printf("Summary: %s\n", summaryPath)
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// applyProcessFlags copies explicitly set flags over the configuration.
func applyProcessFlags(cfg *config.MainConfig) {
	if poPath != "" {
		cfg.Inputs.POSource = poPath
	}
	if vendorsPath != "" {
		cfg.Inputs.Vendors = vendorsPath
	}
	if termsPath != "" {
		cfg.Inputs.TermDefinitions = termsPath
	}
	if paidPath != "" {
		cfg.Inputs.PaidLedger = paidPath
	}
	if policyName != "" {
		cfg.Policy.Preset = policyName
	}
	if nowFlag != "" {
		cfg.ReferenceDate = nowFlag
	}
	if strict {
		cfg.Validation.WarningsAsErrors = true
	}
}

// requireInputs reports every input path left unset.
func requireInputs(in config.InputPaths) error {
	var missing []string
	if in.POSource == "" {
		missing = append(missing, "--po")
	}
	if in.Vendors == "" {
		missing = append(missing, "--vendors")
	}
	if in.TermDefinitions == "" {
		missing = append(missing, "--terms")
	}
	if in.PaidLedger == "" {
		missing = append(missing, "--paid")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing inputs: %s (set them in the config file or with flags)", strings.Join(missing, ", "))
	}
	return nil
}

func inputList(in config.InputPaths) []string {
	return []string{in.POSource, in.Vendors, in.TermDefinitions, in.PaidLedger}
}

// asOf formats the reference date the way the HTML page shows it.
func asOf(now time.Time) string {
	return now.Format("1/2/2006")
}

