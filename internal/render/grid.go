package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// glyph is one overlay cell. A zero code is transparent.
type glyph struct {
	code byte
	fg   uint8
}

// Overlay is the HUD text layer drawn over the scene. Cells hold a glyph
// and a palette color; anything not written stays transparent.
type Overlay struct {
	Cols  int
	Rows  int
	cells []glyph
}

func NewOverlay(cols, rows int) *Overlay {
	return &Overlay{Cols: cols, Rows: rows, cells: make([]glyph, cols*rows)}
}

func (o *Overlay) index(x, y int) (int, bool) {
	if x < 0 || x >= o.Cols || y < 0 || y >= o.Rows {
		return 0, false
	}
	return y*o.Cols + x, true
}

func (o *Overlay) put(x, y int, code byte, fg uint8) {
	if i, ok := o.index(x, y); ok {
		o.cells[i] = glyph{code: code, fg: fg}
	}
}

// At returns the glyph code and color at (x, y); 0 when empty or off the
// grid.
func (o *Overlay) At(x, y int) (code byte, fg uint8) {
	i, ok := o.index(x, y)
	if !ok {
		return 0, 0
	}
	return o.cells[i].code, o.cells[i].fg
}

// Clear makes every cell transparent.
func (o *Overlay) Clear() { clear(o.cells) }

// Print writes s from (x, y), one cell per rune; runes outside CP437's
// byte range become '?'. It returns the column after the last cell so
// differently colored runs can be chained on one line.
func (o *Overlay) Print(x, y int, fg uint8, s string) int {
	for _, ch := range s {
		if ch > 255 {
			ch = '?'
		}
		o.put(x, y, byte(ch), fg)
		x++
	}
	return x
}

func (o *Overlay) Printf(x, y int, fg uint8, format string, args ...any) int {
	return o.Print(x, y, fg, fmt.Sprintf(format, args...))
}

// Line returns row y as text, with transparent cells as spaces and the
// trailing run trimmed.
func (o *Overlay) Line(y int) string {
	if y < 0 || y >= o.Rows {
		return ""
	}
	row := o.cells[y*o.Cols : (y+1)*o.Cols]
	out := make([]byte, len(row))
	end := 0
	for x, c := range row {
		out[x] = ' '
		if c.code != 0 && c.code != ' ' {
			out[x] = c.code
			end = x + 1
		}
	}
	return string(out[:end])
}

// Panel draws a single-line frame with its top-left corner at (x, y) and
// title set into the top edge.
func (o *Overlay) Panel(x, y, w, h int, fg uint8, title string, titleFG uint8) {
	if w < 2 || h < 2 {
		return
	}
	for i := x + 1; i < x+w-1; i++ {
		o.put(i, y, boxH, fg)
		o.put(i, y+h-1, boxH, fg)
	}
	for j := y + 1; j < y+h-1; j++ {
		o.put(x, j, boxV, fg)
		o.put(x+w-1, j, boxV, fg)
	}
	o.put(x, y, boxTL, fg)
	o.put(x+w-1, y, boxTR, fg)
	o.put(x, y+h-1, boxBL, fg)
	o.put(x+w-1, y+h-1, boxBR, fg)
	if title != "" {
		o.Print(x+2, y, titleFG, " "+title+" ")
	}
}

// Gauge draws a width-cell bar filled to frac (clamped to [0, 1]).
func (o *Overlay) Gauge(x, y, width int, frac float64, fg uint8) {
	filled := int(min(max(frac, 0), 1)*float64(width) + 0.5)
	for i := 0; i < width; i++ {
		if i < filled {
			o.put(x+i, y, GlyphFullBlock, fg)
		} else {
			o.put(x+i, y, GlyphLightShade, ColorDarkGray)
		}
	}
}

// GridRenderer draws the HUD overlay and free-floating glyphs to an ebiten
// screen.
type GridRenderer struct {
	Atlas *FontAtlas
	CellW int
	CellH int
}

func NewGridRenderer(atlas *FontAtlas, cellW, cellH int) *GridRenderer {
	return &GridRenderer{Atlas: atlas, CellW: cellW, CellH: cellH}
}

// Draw renders the overlay on top of whatever is already on screen.
func (r *GridRenderer) Draw(screen *ebiten.Image, o *Overlay) {
	for i, c := range o.cells {
		x, y := i%o.Cols, i/o.Cols
		r.drawGlyph(screen, c.code, c.fg, float64(x*r.CellW), float64(y*r.CellH), 1)
	}
}

// DrawFloating renders one glyph centered on a sub-pixel screen point.
// Scene objects use it since they move smoothly between cells.
func (r *GridRenderer) DrawFloating(screen *ebiten.Image, glyph byte, fg uint8, cx, cy, scale float64) {
	w, h := float64(r.CellW)*scale, float64(r.CellH)*scale
	r.drawGlyph(screen, glyph, fg, cx-w/2, cy-h/2, scale)
}

func (r *GridRenderer) drawGlyph(screen *ebiten.Image, glyph byte, fg uint8, px, py, scale float64) {
	if glyph == ' ' || glyph == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(scale*float64(r.CellW)/GlyphWidth, scale*float64(r.CellH)/GlyphHeight)
	op.GeoM.Translate(px, py)
	op.ColorScale.ScaleWithColor(Palette[fg&15])
	screen.DrawImage(r.Atlas.Glyph(glyph), &op)
}
