// =============================================================================
// PO Payment Schedule - Fetch Command
// =============================================================================
//
// This file defines the 'fetch' command, which downloads the two upstream
// inputs from NetSuite into the output directory:
//   Record_<date>.json   - the open-PO saved search
//   VendorID_<date>.json - the term name of every vendor in the search
//
// Connection settings come from NETSUITE_* environment variables or .env.
//
// COMMAND USAGE:
//   poschedule fetch [--records-only]
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/po-payment-schedule/internal/config"
	"github.com/ginjaninja78/po-payment-schedule/internal/ingest"
	"github.com/ginjaninja78/po-payment-schedule/internal/netsuite"
	"github.com/ginjaninja78/po-payment-schedule/pkg/utils"
)

var recordsOnly bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the PO search and vendor terms from NetSuite",
	Long: `The fetch command runs the open-PO saved search through its Restlet, then
looks up the payment term of every vendor ID found in the result with SuiteQL.
Both responses are written unchanged to the output directory.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return runFetch(ctx)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().BoolVar(&recordsOnly, "records-only", false, "Only download the PO search")
}

func runFetch(ctx context.Context) error {
	nsConfig, err := config.LoadNetSuite()
	if err != nil {
		return err
	}
	client, err := netsuite.NewClientFromConfig(nsConfig)
	if err != nil {
		return err
	}

	fm := utils.NewFileManager(mainConfig.OutputDir, "")
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}
	now := time.Now()

	slog.Info("fetching saved search", "url", nsConfig.RestletURL)
	raw, src, err := client.FetchPurchaseOrders(ctx)
	if err != nil {
		return fmt.Errorf("saved search failed: %w", err)
	}
	recordPath := fm.OutputPath(utils.GenerateOutputFileName("Record_{date}.json", now, nil))
	if err := utils.WriteFileAtomic(recordPath, raw); err != nil {
		return err
	}
	fmt.Printf("  ✓ %s (%d line(s))\n", recordPath, len(src.Data))

	if recordsOnly {
		return nil
	}

	ids := ingest.VendorIDs(src.Data)
	slog.Info("fetching vendor terms", "vendors", len(ids))
	raw, vendors, err := client.FetchVendors(ctx, ids)
	if err != nil {
		return fmt.Errorf("vendor lookup failed: %w", err)
	}
	vendorPath := fm.OutputPath(utils.GenerateOutputFileName("VendorID_{date}.json", now, nil))
	if err := utils.WriteFileAtomic(vendorPath, raw); err != nil {
		return err
	}
	fmt.Printf("  ✓ %s (%d vendor(s))\n", vendorPath, len(vendors.Items))
	return nil
}
