package render

import (
	"image/color"

	"github.com/spacehole-rogue/autopilot/internal/nav"
	"github.com/spacehole-rogue/autopilot/internal/orrery"
	"github.com/spacehole-rogue/autopilot/internal/telemetry"
)

// CGA 16-color palette indices.
const (
	ColorBlack        = 0
	ColorBlue         = 1
	ColorGreen        = 2
	ColorCyan         = 3
	ColorRed          = 4
	ColorMagenta      = 5
	ColorBrown        = 6
	ColorLightGray    = 7
	ColorDarkGray     = 8
	ColorLightBlue    = 9
	ColorLightGreen   = 10
	ColorLightCyan    = 11
	ColorLightRed     = 12
	ColorLightMagenta = 13
	ColorYellow       = 14
	ColorWhite        = 15
)

// Palette contains the classic CGA 16-color palette.
var Palette = [16]color.RGBA{
	{0, 0, 0, 255},
	{0, 0, 170, 255},
	{0, 170, 0, 255},
	{0, 170, 170, 255},
	{170, 0, 0, 255},
	{170, 0, 170, 255},
	{170, 85, 0, 255},
	{170, 170, 170, 255},
	{85, 85, 85, 255},
	{85, 85, 255, 255},
	{85, 255, 85, 255},
	{85, 255, 255, 255},
	{255, 85, 85, 255},
	{255, 85, 255, 255},
	{255, 255, 85, 255},
	{255, 255, 255, 255},
}

// BodyVisuals picks a glyph and color for a body kind.
func BodyVisuals(k orrery.Kind) (glyph byte, fg uint8) {
	switch k {
	case orrery.KindStar:
		return GlyphSun, ColorYellow
	case orrery.KindGas:
		return GlyphRing, ColorBrown
	case orrery.KindIce:
		return GlyphBullet, ColorLightCyan
	case orrery.KindVolcanic:
		return GlyphBullet, ColorLightRed
	case orrery.KindMoon:
		return GlyphDot, ColorLightGray
	default:
		return GlyphBullet, ColorLightGreen
	}
}

// PhaseColor is the HUD color for a navigation phase.
func PhaseColor(p nav.Phase) uint8 {
	switch p {
	case nav.PhaseTraveling:
		return ColorLightCyan
	case nav.PhaseOrbiting:
		return ColorLightGreen
	case nav.PhaseLeaving:
		return ColorYellow
	case nav.PhaseCompleted:
		return ColorWhite
	default:
		return ColorDarkGray
	}
}

// MsgColor maps a comms priority to its color.
func MsgColor(p telemetry.MsgPriority) uint8 {
	switch p {
	case telemetry.MsgCritical:
		return ColorLightRed
	case telemetry.MsgWarning:
		return ColorYellow
	case telemetry.MsgDiscovery:
		return ColorLightGreen
	default:
		return ColorCyan
	}
}
