// =============================================================================
// PO Payment Schedule - Main Entry Point
// =============================================================================
//
// USAGE:
//   poschedule fetch    - Download the PO search and vendor terms
//   poschedule process  - Build the payment schedule from the four inputs
//   poschedule convert  - Convert a PO workbook to PO source JSON
//   poschedule report   - Render the pay plan from a final JSON
//   poschedule version  - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : ingest, join, consolidate, schedule, report
//   - pkg/       : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/po-payment-schedule/cmd"
)

func main() {
	cmd.Execute()
}
