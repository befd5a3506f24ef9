// =============================================================================
// PO Payment Schedule - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   poschedule version
//
// OUTPUT:
//   PO Payment Schedule
//   Version:    1.0.0
//   Commit:     abc1234
//   Build Date: 2025-03-01
//   Go Version: go1.24.0
//   Presets:    default, full-sourcing, line-zero-merge
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// Build information, set with ldflags:
//
//	go build -ldflags "-X 'github.com/ginjaninja78/po-payment-schedule/cmd.Version=1.0.0'"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build information and the available policy presets.`,

	// version needs neither config nor logging.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },

	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("PO Payment Schedule")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Commit:     %s\n", Commit)
		fmt.Printf("Build Date: %s\n", BuildDate)
		fmt.Printf("Go Version: %s\n", runtime.Version())
		fmt.Printf("Presets:    %s\n", strings.Join(types.PresetNames(), ", "))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
