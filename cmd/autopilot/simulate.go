package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/spacehole-rogue/autopilot/internal/sim"
)

var (
	simTicks int
	simDT    float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Fly a mission without a window",
	Long: `Run the autopilot headless at a fixed step until the mission completes
or the tick limit runs out. Progress goes to the log.

Example:
  autopilot simulate --ticks 100000 --dt 0.05 --log-level debug`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simTicks, "ticks", 200000, "maximum ticks to run")
	simulateCmd.Flags().Float64Var(&simDT, "dt", 1.0/60, "seconds per tick")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if simDT <= 0 {
		return fmt.Errorf("--dt must be positive, got %v", simDT)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sinks, err := extraSinks()
	if err != nil {
		return err
	}
	s, err := sim.New(cfg, logger, sinks...)
	if err != nil {
		return err
	}

	for i := 0; i < simTicks && !s.Nav.Done(); i++ {
		if ctx.Err() != nil {
			logger.Warn("interrupted", "ticks", s.Ticks)
			break
		}
		s.Tick(simDT)
	}

	p := s.Nav.Progress()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "system:  %s\n", s.Orrery.Name())
	fmt.Fprintf(out, "phase:   %s\n", s.Nav.Phase())
	fmt.Fprintf(out, "ticks:   %d (%.1fs)\n", s.Ticks, float64(s.Ticks)*simDT)
	fmt.Fprintf(out, "legs:    %d/%d\n", p.CurrentIndex, p.Total)
	if !s.Nav.Done() {
		return fmt.Errorf("mission incomplete after %d ticks", s.Ticks)
	}
	return nil
}
