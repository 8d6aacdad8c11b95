package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/displayctl/displayctl/pkg/buslock"
)

func newDiagnoseCmd() *cobra.Command {
	var toSyslog bool

	cmd := &cobra.Command{
		Use:   "diagnose <device>",
		Short: "Report processes holding a kernel lock on an I²C device",
		Long: `Diagnose reads /proc/locks and /proc/<pid>/status directly to list the
processes currently holding an advisory lock on the given device, e.g.
/dev/i2c-4. Output is best-effort: holders that exit mid-report appear
with placeholder fields.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report := buslock.Diagnose(args[0], toSyslog)
			for _, line := range report.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			if len(report.Holders) == 0 && report.Inode == 0 {
				return fmt.Errorf("could not resolve %s", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&toSyslog, "syslog", false, "Also emit the report to syslog")
	return cmd
}
