// =============================================================================
// PO Payment Schedule - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which turns a PO workbook export
// into the PO source JSON read by 'process'.
//
// COMMAND USAGE:
//   poschedule convert --in PO.xlsx --out PO.json [--sheet Sheet1]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/po-payment-schedule/internal/xlsxparser"
	"github.com/ginjaninja78/po-payment-schedule/pkg/utils"
)

var (
	convertIn    string
	convertOut   string
	convertSheet string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a PO workbook to PO source JSON",
	Long: `The convert command reads the first sheet (or --sheet) of a PO workbook.
Row 1 holds the column names. Date columns are rewritten as M/D/YYYY or
M/D/YYYY H:MM; every other cell is kept as text.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		opts := xlsxparser.DefaultOptions()
		opts.Sheet = convertSheet

		src, err := xlsxparser.ParsePurchaseOrders(convertIn, opts)
		if err != nil {
			return err
		}
		if err := utils.WriteJSON(convertOut, src); err != nil {
			return err
		}
		fmt.Printf("  ✓ %s -> %s (%d record(s))\n", convertIn, convertOut, src.TotalRecords)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertIn, "in", "", "PO workbook (.xlsx)")
	convertCmd.Flags().StringVar(&convertOut, "out", "", "PO source JSON to write")
	convertCmd.Flags().StringVar(&convertSheet, "sheet", "", "Sheet to read (default: first sheet)")
	_ = convertCmd.MarkFlagRequired("in")
	_ = convertCmd.MarkFlagRequired("out")
}
