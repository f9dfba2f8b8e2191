package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/spacehole-rogue/autopilot/internal/geom"
	"github.com/spacehole-rogue/autopilot/internal/sim"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the visiting order for the configured system",
	Long: `Print the order a fresh mission would visit the bodies in, with each
body's angle ahead of the reference body.

Example:
  autopilot plan
  AUTOPILOT_PLANNER_STRATEGY=shuffle autopilot plan --seed 7`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	s, err := sim.New(cfg, logger)
	if err != nil {
		return err
	}
	queue := s.Plan()
	if len(queue) == 0 {
		return fmt.Errorf("reference body %q has no position", s.Home())
	}

	homePos, _ := s.Orrery.WorldPosition(s.Home())
	ref := geom.PlaneAngle(homePos)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s system, home %s, %s order\n", s.Orrery.Name(), s.Home(), cfg.Planner.Strategy)
	for i, id := range queue {
		label := id
		if meta, ok := s.Orrery.Meta(id); ok {
			label = meta.Name()
		}
		pos, _ := s.Orrery.WorldPosition(id)
		ahead := geom.WrapAngle(geom.PlaneAngle(pos)-ref) * 180 / math.Pi
		fmt.Fprintf(out, "%2d. %-12s %6.1f°\n", i+1, label, ahead)
	}
	return nil
}
