package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spacehole-rogue/autopilot/internal/camera"
	"github.com/spacehole-rogue/autopilot/internal/geom"
	"github.com/spacehole-rogue/autopilot/internal/nav"
	"github.com/spacehole-rogue/autopilot/internal/orrery"
)

// Viewport maps the XZ plane onto the screen, +X right and +Z up.
type Viewport struct {
	Width, Height float64 // pixels
	Center        r3.Vec
	Scale         float64 // pixels per world unit
}

// FollowCamera centers the view on the camera's look-at point and zooms
// out as the follow distance grows. baseScale applies at the chase
// distance.
func FollowCamera(width, height float64, cam camera.Transform, distance, chase, baseScale float64) Viewport {
	scale := baseScale
	if distance > 0 && chase > 0 {
		scale = baseScale * chase / distance
	}
	return Viewport{Width: width, Height: height, Center: cam.LookAt, Scale: scale}
}

// Project returns the screen point of a world position. Height is dropped.
func (v Viewport) Project(p r3.Vec) (x, y float64) {
	return v.Width/2 + (p.X-v.Center.X)*v.Scale, v.Height/2 - (p.Z-v.Center.Z)*v.Scale
}

// OnScreen reports whether a point lies within margin pixels of the screen.
func (v Viewport) OnScreen(x, y, margin float64) bool {
	return x >= -margin && y >= -margin && x <= v.Width+margin && y <= v.Height+margin
}

// HeadingGlyph picks the arrow closest to a world direction on screen.
func HeadingGlyph(fwd r3.Vec) byte {
	a := geom.WrapAngle(geom.PlaneAngle(fwd) + math.Pi/4)
	switch int(a / (math.Pi / 2)) {
	case 0:
		return GlyphArrowRight
	case 1:
		return GlyphArrowUp
	case 2:
		return GlyphArrowLeft
	default:
		return GlyphArrowDown
	}
}

// Trail keeps the ship's recent path, one point per spacing units.
type Trail struct {
	points  []r3.Vec
	max     int
	spacing float64
}

func NewTrail(max int, spacing float64) *Trail {
	return &Trail{points: make([]r3.Vec, 0, max), max: max, spacing: spacing}
}

// Push records p if it is far enough from the last point.
func (t *Trail) Push(p r3.Vec) {
	if n := len(t.points); n > 0 && r3.Norm(r3.Sub(p, t.points[n-1])) < t.spacing {
		return
	}
	if len(t.points) >= t.max {
		copy(t.points, t.points[1:])
		t.points[len(t.points)-1] = p
		return
	}
	t.points = append(t.points, p)
}

// Points returns the trail, oldest first.
func (t *Trail) Points() []r3.Vec { return t.points }

func (t *Trail) Reset() { t.points = t.points[:0] }

// Scene is everything drawn in the world layer for one frame.
type Scene struct {
	Bodies []orrery.BodyView
	Ship   nav.ShipState
	Target string
	Entry  *r3.Vec
	Camera camera.Transform
	Trail  []r3.Vec
}

// ringSamples is how many dots outline an orbit of the given screen radius.
func ringSamples(screenRadius float64) int {
	n := int(2 * math.Pi * screenRadius / 18)
	return min(max(n, 24), 240)
}

// bodyScale sizes a body glyph from its on-screen diameter.
func bodyScale(radius, pixelsPerUnit float64, cellW int) float64 {
	s := 2 * radius * pixelsPerUnit / float64(cellW)
	return min(max(s, 0.6), 6)
}

// DrawScene draws orbits, bodies, the trail and the ship.
func (r *GridRenderer) DrawScene(screen *ebiten.Image, vp Viewport, s Scene) {
	for _, b := range s.Bodies {
		if b.Parent == "" || !b.Visible {
			continue
		}
		n := ringSamples(b.Distance * vp.Scale)
		for i := 0; i < n; i++ {
			p := r3.Add(b.ParentPosition, geom.Polar(geom.TwoPi*float64(i)/float64(n), b.Distance))
			if x, y := vp.Project(p); vp.OnScreen(x, y, 8) {
				r.DrawFloating(screen, GlyphDot, ColorDarkGray, x, y, 0.5)
			}
		}
	}

	for _, p := range s.Trail {
		if x, y := vp.Project(p); vp.OnScreen(x, y, 8) {
			r.DrawFloating(screen, GlyphDot, ColorCyan, x, y, 0.6)
		}
	}

	for _, b := range s.Bodies {
		if !b.Visible {
			continue
		}
		x, y := vp.Project(b.Position)
		scale := bodyScale(b.Meta.Radius, vp.Scale, r.CellW)
		if !vp.OnScreen(x, y, scale*float64(r.CellW)) {
			continue
		}
		glyph, fg := BodyVisuals(b.Kind)
		if b.Meta.HasRings {
			r.DrawFloating(screen, GlyphRing, ColorLightGray, x, y, scale*1.8)
		}
		r.DrawFloating(screen, glyph, fg, x, y, scale)
		if b.Meta.ID == s.Target {
			r.DrawFloating(screen, GlyphRing, ColorLightMagenta, x, y, scale*2.4)
		}
	}

	if s.Entry != nil {
		x, y := vp.Project(*s.Entry)
		r.DrawFloating(screen, 'x', ColorLightMagenta, x, y, 0.8)
	}

	cx, cy := vp.Project(s.Camera.Position)
	r.DrawFloating(screen, '+', ColorDarkGray, cx, cy, 0.6)

	sx, sy := vp.Project(s.Ship.Position)
	r.DrawFloating(screen, HeadingGlyph(s.Ship.Forward()), ColorWhite, sx, sy, 1)
}
