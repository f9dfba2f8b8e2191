package render

import (
	"fmt"

	"github.com/spacehole-rogue/autopilot/internal/nav"
	"github.com/spacehole-rogue/autopilot/internal/telemetry"
)

// HUD is the text overlay state for one frame.
type HUD struct {
	Title     string
	System    string
	Phase     nav.Phase
	Speed     float64
	MaxSpeed  float64
	Progress  telemetry.MissionProgress
	Comms     []telemetry.Message
	Clock     float64
	Paused    bool
	Autopilot bool
}

// HUD layout, in cells.
const (
	panelWidth = 26
	commsLines = 6
)

// DrawHUD writes the overlay into o: title bar, nav panel on the right,
// comms at the bottom left and the key help on the last row.
func DrawHUD(o *Overlay, h HUD) {
	x := o.Print(2, 0, ColorWhite, h.Title)
	if h.System != "" {
		o.Printf(x+2, 0, ColorLightCyan, "[ %s ]", h.System)
	}
	clock := fmt.Sprintf("T+%06.1fs", h.Clock)
	o.Print(o.Cols-len(clock)-2, 0, ColorDarkGray, clock)

	px := o.Cols - panelWidth - 1
	o.Panel(px, 2, panelWidth, 9, ColorDarkGray, "Navigation", ColorLightCyan)

	x = o.Print(px+2, 3, ColorLightGray, "Phase  ")
	o.Print(x, 3, PhaseColor(h.Phase), h.Phase.String())

	o.Printf(px+2, 4, ColorLightGray, "Speed  %5.1f", h.Speed)
	frac := 0.0
	if h.MaxSpeed > 0 {
		frac = h.Speed / h.MaxSpeed
	}
	o.Gauge(px+2, 5, panelWidth-4, frac, ColorLightCyan)

	if p := h.Progress; p.Total > 0 {
		o.Printf(px+2, 6, ColorLightGray, "Leg    %d/%d", p.CurrentIndex, p.Total)
		o.Print(px+2, 7, ColorWhite, "Target "+p.TargetLabel)
		o.Gauge(px+2, 8, panelWidth-4, float64(p.CurrentIndex)/float64(p.Total), ColorLightGreen)
	} else {
		o.Print(px+2, 6, ColorDarkGray, "Awaiting plan")
	}

	switch {
	case h.Paused:
		o.Print(px+2, 9, ColorYellow, "PAUSED")
	case !h.Autopilot:
		o.Print(px+2, 9, ColorLightRed, "AUTOPILOT OFF")
	default:
		o.Print(px+2, 9, ColorLightGreen, "AUTOPILOT ON")
	}

	row := o.Rows - commsLines - 2
	o.Print(2, row, ColorLightCyan, "--- Comms ---")
	msgs := h.Comms
	if len(msgs) > commsLines {
		msgs = msgs[len(msgs)-commsLines:]
	}
	for i, m := range msgs {
		o.Print(2, row+1+i, MsgColor(m.Priority), m.Text)
	}

	o.Print(2, o.Rows-1, ColorDarkGray, "SPACE: Pause  M: Autopilot  R: Restart  L: Lose target  ESC: Quit")
}
