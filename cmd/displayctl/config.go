package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/displayctl/displayctl/pkg/buslock"
)

// loadConfigFromEnv builds the lock manager configuration from environment
// variables. The core never reads the environment itself; this is the only
// place the mapping exists.
func loadConfigFromEnv() buslock.Config {
	cfg := buslock.DefaultConfig()

	if v := os.Getenv("DISPLAYCTL_FLOCK_DISABLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			cfg.CrossInstanceEnabled = false
		}
	}
	if v := os.Getenv("DISPLAYCTL_FLOCK_POLL_MILLIS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PollIntervalMillis = n
		}
	}
	if v := os.Getenv("DISPLAYCTL_FLOCK_MAX_WAIT_MILLIS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxWaitMillis = n
		}
	}
	if v := os.Getenv("DISPLAYCTL_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}

	return cfg
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective lock manager configuration",
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := buslock.GetConfig()
			fmt.Fprintf(cmd.OutOrStdout(), "cross-instance locks: %v\n", cfg.CrossInstanceEnabled)
			fmt.Fprintf(cmd.OutOrStdout(), "poll interval:        %d ms\n", cfg.PollIntervalMillis)
			fmt.Fprintf(cmd.OutOrStdout(), "max wait:             %d ms\n", cfg.MaxWaitMillis)
			fmt.Fprintf(cmd.OutOrStdout(), "debug:                %v\n", cfg.Debug)
		},
	}
}
