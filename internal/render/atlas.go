package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	GlyphWidth  = 16
	GlyphHeight = 16
	AtlasCols   = 16
	AtlasRows   = 16
)

// CP437 codes of the non-ASCII glyphs the viewer draws.
const (
	GlyphBullet     byte = 7   // •
	GlyphRing       byte = 9   // ○
	GlyphSun        byte = 15  // ☼
	GlyphArrowRight byte = 16  // ►
	GlyphArrowLeft  byte = 17  // ◄
	GlyphArrowUp    byte = 30  // ▲
	GlyphArrowDown  byte = 31  // ▼
	GlyphLightShade byte = 176 // ░
	GlyphFullBlock  byte = 219 // █
	GlyphDot        byte = 250 // ·
	GlyphSquare     byte = 254 // ■
)

// Single-line box drawing codes used by Overlay.Panel.
const (
	boxV  byte = 179 // │
	boxTR byte = 191 // ┐
	boxBL byte = 192 // └
	boxH  byte = 196 // ─
	boxBR byte = 217 // ┘
	boxTL byte = 218 // ┌
)

// FontAtlas holds the glyph atlas and cached sub-images.
type FontAtlas struct {
	image  *ebiten.Image
	glyphs [256]*ebiten.Image
}

// NewFontAtlas builds the atlas at startup. Printable ASCII comes from
// basicfont.Face7x13; box-drawing and scene glyphs are drawn by hand.
func NewFontAtlas() *FontAtlas {
	img := image.NewNRGBA(image.Rect(0, 0, AtlasCols*GlyphWidth, AtlasRows*GlyphHeight))
	face := basicfont.Face7x13

	for code := 0; code < 256; code++ {
		cx := (code % AtlasCols) * GlyphWidth
		cy := (code / AtlasCols) * GlyphHeight

		switch {
		case code >= 32 && code <= 126:
			drawFontGlyph(img, face, cx, cy, rune(code))
		case boxChars[byte(code)] != [4]bool{}:
			bc := boxChars[byte(code)]
			drawBoxGlyph(img, cx, cy, bc[0], bc[1], bc[2], bc[3])
		default:
			drawShapeGlyph(img, cx, cy, byte(code))
		}
	}

	eimg := ebiten.NewImageFromImage(img)
	a := &FontAtlas{image: eimg}
	for code := 0; code < 256; code++ {
		x := (code % AtlasCols) * GlyphWidth
		y := (code / AtlasCols) * GlyphHeight
		a.glyphs[code] = eimg.SubImage(image.Rect(x, y, x+GlyphWidth, y+GlyphHeight)).(*ebiten.Image)
	}
	return a
}

// Glyph returns the cached sub-image for a CP437 code.
func (a *FontAtlas) Glyph(code byte) *ebiten.Image {
	return a.glyphs[code]
}

// drawFontGlyph renders one 7x13 ASCII glyph centered in its cell.
func drawFontGlyph(img *image.NRGBA, face font.Face, cellX, cellY int, r rune) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(cellX+4, cellY+13),
	}
	d.DrawString(string(r))
}

// boxChars maps CP437 codes to single-line box flags: {left, right, top, bottom}.
// The HUD frame only needs corners and straight runs.
var boxChars = map[byte][4]bool{
	boxV:  {false, false, true, true},
	boxTR: {true, false, false, true},
	boxBL: {false, true, true, false},
	boxH:  {true, true, false, false},
	boxBR: {true, false, true, false},
	boxTL: {false, true, false, true},
}

// drawBoxGlyph draws a 2px single-line box glyph through the cell center.
func drawBoxGlyph(img *image.NRGBA, cellX, cellY int, left, right, top, bottom bool) {
	cx, cy := cellX+7, cellY+7
	if left {
		fillRect(img, cellX, cy, cx+2, cy+2)
	}
	if right {
		fillRect(img, cx, cy, cellX+GlyphWidth, cy+2)
	}
	if top {
		fillRect(img, cx, cellY, cx+2, cy+2)
	}
	if bottom {
		fillRect(img, cx, cy, cx+2, cellY+GlyphHeight)
	}
}

// drawShapeGlyph draws the scene and HUD glyphs. Codes without a shape
// stay blank.
func drawShapeGlyph(img *image.NRGBA, cellX, cellY int, code byte) {
	switch code {
	case GlyphBullet:
		fillDisc(img, cellX, cellY, 3.5, 0)
	case GlyphRing:
		fillDisc(img, cellX, cellY, 6, 4)
	case GlyphSun:
		fillDisc(img, cellX, cellY, 4, 0)
		for i := 0; i < GlyphWidth; i += 3 {
			img.SetNRGBA(cellX+i, cellY+7, white)
			img.SetNRGBA(cellX+7, cellY+i, white)
			img.SetNRGBA(cellX+i, cellY+i, white)
			img.SetNRGBA(cellX+GlyphWidth-1-i, cellY+i, white)
		}
	case GlyphArrowUp, GlyphArrowDown, GlyphArrowRight, GlyphArrowLeft:
		drawArrow(img, cellX, cellY, code)
	case GlyphLightShade:
		for y := 0; y < GlyphHeight; y++ {
			for x := 0; x < GlyphWidth; x++ {
				if (x+y)%4 == 0 {
					img.SetNRGBA(cellX+x, cellY+y, white)
				}
			}
		}
	case GlyphFullBlock:
		fillRect(img, cellX, cellY, cellX+GlyphWidth, cellY+GlyphHeight)
	case GlyphDot:
		fillRect(img, cellX+7, cellY+7, cellX+9, cellY+9)
	case GlyphSquare:
		fillRect(img, cellX+4, cellY+4, cellX+12, cellY+12)
	}
}

var white = color.NRGBA{255, 255, 255, 255}

func fillRect(img *image.NRGBA, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetNRGBA(x, y, white)
		}
	}
}

// fillDisc fills the annulus between inner and outer radius around the
// cell center. inner 0 gives a solid disc.
func fillDisc(img *image.NRGBA, cellX, cellY int, outer, inner float64) {
	const c = 7.5
	for y := 0; y < GlyphHeight; y++ {
		for x := 0; x < GlyphWidth; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			d := dx*dx + dy*dy
			if d <= outer*outer && d >= inner*inner {
				img.SetNRGBA(cellX+x, cellY+y, white)
			}
		}
	}
}

// drawArrow draws a filled triangle pointing in the glyph's direction.
func drawArrow(img *image.NRGBA, cellX, cellY int, code byte) {
	for i := 0; i < 6; i++ {
		for j := -i; j <= i; j++ {
			var x, y int
			switch code {
			case GlyphArrowUp:
				x, y = 7+j, 3+i*2
			case GlyphArrowDown:
				x, y = 7+j, 12-i*2
			case GlyphArrowRight:
				x, y = 12-i*2, 7+j
			case GlyphArrowLeft:
				x, y = 3+i*2, 7+j
			}
			img.SetNRGBA(cellX+x, cellY+y, white)
			if code == GlyphArrowUp || code == GlyphArrowDown {
				img.SetNRGBA(cellX+x, cellY+y+1, white)
			} else {
				img.SetNRGBA(cellX+x+1, cellY+y, white)
			}
		}
	}
}
