// displayctl is the command line companion to the bus lock manager: it can
// report which processes hold kernel locks on an I²C device, exercise the
// lock path under concurrency, and show the effective configuration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/displayctl/displayctl/pkg/buslock"
)

var (
	version = "dev"
	commit  = "none"    //nolint:gochecknoglobals // Build-time commit info
	date    = "unknown" //nolint:gochecknoglobals // Build-time date info

	// Global debug flag
	debugMode bool //nolint:gochecknoglobals // CLI global flag
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "displayctl",
		Short: "Monitor I²C bus lock management and diagnostics",
		Long: `displayctl serializes access to monitor I²C devices across processes
using kernel advisory locks, and diagnoses contention when another process
holds a bus.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cfg := loadConfigFromEnv()
			if debugMode {
				_ = os.Setenv("DISPLAYCTL_LOG_LEVEL", "DEBUG")
				cfg.Debug = true
			}
			buslock.SetConfig(cfg)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug output")

	rootCmd.AddCommand(newDiagnoseCmd())
	rootCmd.AddCommand(newStressCmd())
	rootCmd.AddCommand(newConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
