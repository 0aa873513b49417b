// Package assets builds the placeholder flipbook sheets used until painted
// art replaces them.
package assets

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/colornames"
)

// Strip describes one row of a flipbook sheet.
type Strip struct {
	Row        int
	ColStart   int
	FrameCount int
	Color      color.Color
}

// SheetSize returns the pixel size needed to hold every strip.
func SheetSize(frameW, frameH int, strips []Strip) (int, int) {
	cols, rows := 1, 1
	for _, s := range strips {
		if c := s.ColStart + s.FrameCount; c > cols {
			cols = c
		}
		if r := s.Row + 1; r > rows {
			rows = r
		}
	}
	return cols * frameW, rows * frameH
}

// FrameRect returns the sheet rectangle of frame i of a strip.
func FrameRect(frameW, frameH int, s Strip, i int) image.Rectangle {
	x := (s.ColStart + i) * frameW
	y := s.Row * frameH
	return image.Rect(x, y, x+frameW, y+frameH)
}

// PlaceholderSheet paints a stand-in insect for every frame: a body block in
// the strip colour with legs that shift with the frame index.
func PlaceholderSheet(frameW, frameH int, strips []Strip) *ebiten.Image {
	if frameW <= 0 || frameH <= 0 {
		return nil
	}
	w, h := SheetSize(frameW, frameH, strips)
	sheet := ebiten.NewImage(w, h)
	for _, s := range strips {
		body := s.Color
		if body == nil {
			body = colornames.Olivedrab
		}
		for i := 0; i < s.FrameCount; i++ {
			paintFrame(sheet, FrameRect(frameW, frameH, s, i), body, i, s.FrameCount)
		}
	}
	return sheet
}

func paintFrame(sheet *ebiten.Image, r image.Rectangle, body color.Color, frame, frames int) {
	fw, fh := r.Dx(), r.Dy()

	// body and head; head marks the facing side (+X)
	bodyRect := image.Rect(r.Min.X+fw/5, r.Min.Y+fh/4, r.Max.X-fw/5, r.Max.Y-fh/5)
	fill(sheet, bodyRect, body)
	head := image.Rect(r.Max.X-fw/3, r.Min.Y+fh/8, r.Max.X-fw/10, r.Min.Y+fh/3)
	fill(sheet, head, body)
	eye := image.Rect(head.Max.X-fw/12, head.Min.Y+fh/24, head.Max.X-fw/24, head.Min.Y+fh/12)
	fill(sheet, eye, colornames.White)

	// legs step across the frame strip
	legW := fw / 10
	if legW < 1 {
		legW = 1
	}
	span := bodyRect.Dx() - legW
	for leg := 0; leg < 3; leg++ {
		phase := (frame + leg) % max(frames, 1)
		x := bodyRect.Min.X + (span*leg)/2
		lift := 0
		if phase%2 == 1 {
			lift = fh / 24
		}
		fill(sheet, image.Rect(x, bodyRect.Max.Y, x+legW, r.Max.Y-lift), colornames.Black)
	}

	// progress bar shows which frame of the clip is on screen
	if frames > 1 {
		barW := fw * (frame + 1) / frames
		fill(sheet, image.Rect(r.Min.X, r.Min.Y, r.Min.X+barW, r.Min.Y+fh/40+1), colornames.Gold)
	}
}

func fill(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	if sub, ok := dst.SubImage(r).(*ebiten.Image); ok {
		sub.Fill(c)
	}
}
