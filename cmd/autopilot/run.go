package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/spacehole-rogue/autopilot/internal/render"
	"github.com/spacehole-rogue/autopilot/internal/sim"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	title        = "Autopilot"

	cellWidth  = 16
	cellHeight = 16
	gridCols   = screenWidth / cellWidth   // 80
	gridRows   = screenHeight / cellHeight // 45

	ticksPerSecond = 60

	// baseScale is pixels per world unit at the chase distance.
	baseScale    = 4.0
	trailMax     = 400
	trailSpacing = 1.5
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the viewer and fly the tour",
	Long: `Open a window showing the system from above, centered on the chase
camera's aim point.

Keys:
  SPACE  pause
  M      toggle the autopilot
  R      restart the mission from the current position
  L      lose contact with the current target
  ESC    quit`,
	RunE: runViewer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runViewer(cmd *cobra.Command, args []string) error {
	sinks, err := extraSinks()
	if err != nil {
		return err
	}
	s, err := sim.New(cfg, logger, sinks...)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ticksPerSecond)

	if err := ebiten.RunGame(NewGame(s)); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

// Game is the ebiten game. It owns drawing and input; the run itself lives
// in sim.
type Game struct {
	renderer *render.GridRenderer
	overlay  *render.Overlay
	sim      *sim.Sim
	trail    *render.Trail

	paused    bool
	autopilot bool
}

func NewGame(s *sim.Sim) *Game {
	atlas := render.NewFontAtlas()
	return &Game{
		renderer:  render.NewGridRenderer(atlas, cellWidth, cellHeight),
		overlay:   render.NewOverlay(gridCols, gridRows),
		sim:       s,
		trail:     render.NewTrail(trailMax, trailSpacing),
		autopilot: true,
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.autopilot = !g.autopilot
		logger.Info("autopilot toggled", "on", g.autopilot)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Restart()
		g.trail.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		if id := g.sim.LoseTarget(); id != "" {
			logger.Info("target hidden", "target", id)
		}
	}

	dt := 1.0 / float64(ebiten.TPS())
	switch {
	case g.paused:
	case g.autopilot:
		g.sim.Tick(dt)
	default:
		g.sim.Coast(dt)
	}
	g.trail.Push(g.sim.Nav.Ship().Position)

	g.drawHUD()
	return nil
}

func (g *Game) drawHUD() {
	g.overlay.Clear()
	render.DrawHUD(g.overlay, render.HUD{
		Title:     title,
		System:    g.sim.Orrery.Name(),
		Phase:     g.sim.Nav.Phase(),
		Speed:     g.sim.Comms.LastSpeed(),
		MaxSpeed:  cfg.Nav.MaxSpeed,
		Progress:  g.sim.Comms.Current(),
		Comms:     g.sim.Comms.Recent(8),
		Clock:     g.sim.Orrery.Clock(),
		Paused:    g.paused,
		Autopilot: g.autopilot,
	})
	fps := fmt.Sprintf("FPS: %.0f  TPS: %.0f", ebiten.ActualFPS(), ebiten.ActualTPS())
	g.overlay.Print(gridCols-20, gridRows-2, render.ColorDarkGray, fps)
}

func (g *Game) Draw(screen *ebiten.Image) {
	view := g.sim.View()
	vp := render.FollowCamera(screenWidth, screenHeight, view,
		g.sim.Camera.Distance(), cfg.Camera.ChaseDistance, baseScale)

	leg := g.sim.Nav.Leg()
	g.renderer.DrawScene(screen, vp, render.Scene{
		Bodies: g.sim.Orrery.Snapshot(),
		Ship:   g.sim.Nav.Ship(),
		Target: leg.TargetID,
		Entry:  leg.Entry,
		Camera: view,
		Trail:  g.trail.Points(),
	})
	g.renderer.Draw(screen, g.overlay)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
