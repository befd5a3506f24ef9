// =============================================================================
// PO Payment Schedule - Report Command
// =============================================================================
//
// This file defines the 'report' command, which renders the HTML summary
// and the XLSX workbook from a final JSON written by an earlier run.
//
// COMMAND USAGE:
//   poschedule report --final final_Mar_5.json [--html out.html] [--xlsx out.xlsx] [--now 2025-03-15]
//
// =============================================================================

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/po-payment-schedule/internal/config"
	"github.com/ginjaninja78/po-payment-schedule/internal/report"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
	"github.com/ginjaninja78/po-payment-schedule/pkg/utils"
)

var (
	finalPath      string
	reportHTMLPath string
	reportXLSXPath string
	reportNow      string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the pay plan from a final JSON",
	Long: `The report command aggregates the records of a final JSON by supplier and
month and writes the HTML summary, the XLSX workbook, or both.

Anchors are bucketed against --now, the configured reference date, or today.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport()
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&finalPath, "final", "", "Final JSON produced by 'process'")
	reportCmd.Flags().StringVar(&reportHTMLPath, "html", "", "HTML output path")
	reportCmd.Flags().StringVar(&reportXLSXPath, "xlsx", "", "XLSX output path")
	reportCmd.Flags().StringVar(&reportNow, "now", "", "Reference date for anchors (YYYY-MM-DD)")
	_ = reportCmd.MarkFlagRequired("final")
}

func runReport() error {
	if reportHTMLPath == "" && reportXLSXPath == "" {
		return errors.New("nothing to write: pass --html, --xlsx or both")
	}

	cfg := mainConfig
	if reportNow != "" {
		cfg.ReferenceDate = reportNow
	}
	now, err := cfg.ReferenceTime(time.Now())
	if err != nil {
		return err
	}

	final, err := report.LoadFinal(finalPath)
	if err != nil {
		return err
	}
	summary := report.Aggregate(final.Data, now)

	if reportHTMLPath != "" {
		if err := writeHTMLFile(reportHTMLPath, summary, final, now); err != nil {
			return err
		}
		fmt.Printf("  ✓ %s\n", reportHTMLPath)
	}
	if reportXLSXPath != "" {
		if err := report.WriteWorkbook(reportXLSXPath, report.WorkbookInput{Summary: summary, Final: final}); err != nil {
			return err
		}
		fmt.Printf("  ✓ %s\n", reportXLSXPath)
	}
	fmt.Printf("%d supplier(s) as of %s\n", len(summary.Rows), now.Format(config.ReferenceDateLayout))
	return nil
}

// writeHTMLFile renders the summary page and writes it in one step.
func writeHTMLFile(path string, summary *report.Summary, final *types.FinalReport, now time.Time) error {
	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, summary, final, report.HTMLOptions{AsOf: asOf(now)}); err != nil {
		return err
	}
	return utils.WriteFileAtomic(path, buf.Bytes())
}
