package render

import (
	"errors"
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrInvalidAlignment is returned for any alignment other than center, left
// or right.
var ErrInvalidAlignment = errors.New("text_alignment must be 'center', 'left', or 'right'")

// Alignment values accepted by StartX.
const (
	AlignCenter = "center"
	AlignLeft   = "left"
	AlignRight  = "right"
)

// GlyphBox is the pixel box of one rune drawn with the pen at a given point.
// Coordinates are absolute: MinX/MaxX include the pen x, MinY/MaxY the pen y.
type GlyphBox struct {
	Rune rune
	MinX int
	MinY int
	MaxX int
	MaxY int
	// Ink is false for runes that draw nothing, such as spaces.
	Ink bool
}

// Width returns the horizontal extent of the box.
func (g GlyphBox) Width() int { return g.MaxX - g.MinX }

// Height returns the vertical extent of the ink.
func (g GlyphBox) Height() int { return g.MaxY - g.MinY }

// MeasureGlyph returns the box of r drawn with the pen at dot.
//
// The box is computed from the fixed-point bounds and rounded outward
// (floor of the minimum, ceiling of the maximum), so the result depends on
// the fractional part of dot.
func MeasureGlyph(face font.Face, dot fixed.Point26_6, r rune) GlyphBox {
	d := &font.Drawer{Face: face, Dot: dot}
	bounds, advance := d.BoundString(string(r))

	minX, maxX := dot.X, dot.X+advance
	if maxX < minX {
		minX, maxX = maxX, minX
	}

	g := GlyphBox{Rune: r}
	if !bounds.Empty() {
		g.Ink = true
		if bounds.Min.X < minX {
			minX = bounds.Min.X
		}
		if bounds.Max.X > maxX {
			maxX = bounds.Max.X
		}
		g.MinY = bounds.Min.Y.Floor()
		g.MaxY = bounds.Max.Y.Ceil()
	} else {
		g.MinY = dot.Y.Floor()
		g.MaxY = g.MinY
	}
	g.MinX = minX.Floor()
	g.MaxX = maxX.Ceil()
	return g
}

// TextMetrics is the result of the sizing pass.
type TextMetrics struct {
	// Width is the sum of rune widths plus spacing between runes.
	Width int
	// Height is the height of the tallest rune.
	Height int
	// Top is the highest ink row relative to the baseline (usually negative).
	Top int
	// Glyphs holds the per-rune boxes measured at the origin.
	Glyphs []GlyphBox
}

// MeasureText runs the sizing pass: every rune is measured with the pen at
// the origin, widths and spacing are summed, and the spacing after the last
// rune is removed.
func MeasureText(face font.Face, text string, spacing int) TextMetrics {
	var m TextMetrics
	top, haveInk := 0, false

	for _, r := range text {
		g := MeasureGlyph(face, fixed.Point26_6{}, r)
		m.Glyphs = append(m.Glyphs, g)
		m.Width += g.Width() + spacing
		if g.Height() > m.Height {
			m.Height = g.Height()
		}
		if g.Ink && (!haveInk || g.MinY < top) {
			top, haveInk = g.MinY, true
		}
	}
	if len(m.Glyphs) > 0 {
		m.Width -= spacing
	}
	m.Top = top
	return m
}

// Layout places the measured text on the canvas.
type Layout struct {
	CanvasWidth  int `json:"canvas_width"`
	CanvasHeight int `json:"canvas_height"`
	TextWidth    int `json:"text_width"`
	TextHeight   int `json:"text_height"`
	// X is the pen position of the first rune.
	X int `json:"x"`
	// Y is the top of the text box; Baseline is the pen y used for drawing.
	Y        int `json:"y"`
	Baseline int `json:"baseline"`
	// EndX is the pen position after the draw pass, trailing spacing included.
	EndX int `json:"end_x"`
}

// ComputeLayout sizes the canvas and resolves the starting pen position.
//
// Canvas width is text width plus twice the padding and canvas height is
// text height plus twice the padding. The text box is vertically centred and
// the baseline sits below its top by the tallest ascent.
func ComputeLayout(m TextMetrics, padding int, alignment string) (*Layout, error) {
	l := &Layout{
		CanvasWidth:  m.Width + 2*padding,
		CanvasHeight: m.Height + 2*padding,
		TextWidth:    m.Width,
		TextHeight:   m.Height,
	}

	x, err := StartX(alignment, l.CanvasWidth, l.TextWidth, padding)
	if err != nil {
		return nil, err
	}
	l.X = x
	l.Y = (l.CanvasHeight - l.TextHeight) / 2
	l.Baseline = l.Y - m.Top
	return l, nil
}

// StartX returns the pen x for the first rune.
//
//   - center: (canvasWidth - textWidth) / 2
//   - left:   padding
//   - right:  canvasWidth - textWidth - padding
//
// Any other alignment returns ErrInvalidAlignment.
func StartX(alignment string, canvasWidth, textWidth, padding int) (int, error) {
	switch alignment {
	case AlignCenter:
		return (canvasWidth - textWidth) / 2, nil
	case AlignLeft:
		return padding, nil
	case AlignRight:
		return canvasWidth - textWidth - padding, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrInvalidAlignment, alignment)
	}
}
