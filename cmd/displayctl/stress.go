package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/spf13/cobra"

	"github.com/displayctl/displayctl/internal/edid"
	"github.com/displayctl/displayctl/pkg/buslock"
)

func newStressCmd() *cobra.Command {
	var (
		workers   int
		rounds    int
		holdMs    int
		device    string
		edidProbe bool
	)

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Exercise the lock path with concurrent acquire/release rounds",
		Long: `Stress runs acquire/release rounds against a device from a pool of
concurrent workers, then prints the collected lock statistics. Without
--device a scratch file stands in for the I²C adapter, so the command is
safe to run on machines without DDC-capable hardware.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := device
			if target == "" {
				dir, err := os.MkdirTemp("", "displayctl-stress")
				if err != nil {
					return fmt.Errorf("create scratch dir: %w", err)
				}
				defer os.RemoveAll(dir)
				target = filepath.Join(dir, "i2c-scratch")
				f, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR, 0o600)
				if err != nil {
					return fmt.Errorf("create scratch device: %w", err)
				}
				_ = f.Close()
			}

			if edidProbe {
				buslock.RegisterProbe(edid.Probe)
				defer buslock.RegisterProbe(nil)
			}

			wp := workerpool.New(workers)
			errs := make(chan error, workers*rounds)
			for i := 0; i < workers; i++ {
				worker := i
				wp.Submit(func() {
					errs <- runRounds(target, worker, rounds, holdMs)
				})
			}
			wp.StopWait()
			close(errs)

			var failed int
			for err := range errs {
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "worker error: %v\n", err)
				}
			}

			stats := buslock.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "flock calls:       %d\n", stats.FlockCalls)
			fmt.Fprintf(out, "acquisitions:      %d\n", stats.Acquisitions)
			fmt.Fprintf(out, "releases:          %d\n", stats.Releases)
			fmt.Fprintf(out, "contention events: %d\n", stats.ContentionEvents)
			fmt.Fprintf(out, "failed calls:      %d\n", stats.FailedCalls)
			fmt.Fprintf(out, "sleep calls:       %d (%d ms requested)\n",
				stats.SleepCalls, stats.RequestedSleepMillis)
			fmt.Fprintf(out, "average wait:      %s\n", stats.AverageWait)
			if edidProbe {
				fmt.Fprintf(out, "edid probes:       %d (%d failed)\n",
					stats.ProbeCalls, stats.ProbeFailures)
			}

			if failed > 0 {
				return fmt.Errorf("%d worker(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent workers")
	cmd.Flags().IntVar(&rounds, "rounds", 25, "Acquire/release rounds per worker")
	cmd.Flags().IntVar(&holdMs, "hold", 5, "Milliseconds to hold the lock each round")
	cmd.Flags().StringVar(&device, "device", "", "Target device path (default: scratch file)")
	cmd.Flags().BoolVar(&edidProbe, "edid-probe", false, "Run the EDID sideband probe while waiting")
	return cmd
}

// runRounds opens its own file description of the target so workers
// genuinely contend on the kernel lock, then loops acquire/hold/release.
func runRounds(target string, worker, rounds, holdMs int) error {
	f, err := os.OpenFile(target, os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("worker %d open %s: %w", worker, target, err)
	}
	defer f.Close()
	fd := int(f.Fd())
	label := fmt.Sprintf("%s#%d", target, worker)

	for r := 0; r < rounds; r++ {
		st := buslock.Acquire(fd, label, true)
		switch {
		case st.Acquired():
			time.Sleep(time.Duration(holdMs) * time.Millisecond)
			if rel := buslock.Release(fd); !rel.Acquired() {
				return fmt.Errorf("worker %d round %d release: %v", worker, r, rel)
			}
		case st.Contended():
			// Budget exhaustion under stress is expected; it is already
			// counted by the collector.
		default:
			return fmt.Errorf("worker %d round %d acquire: %v", worker, r, st)
		}
	}
	return nil
}
