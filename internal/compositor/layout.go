package compositor

import (
	"image"
	"image/color"
	stddraw "image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

type line struct {
	text   string
	width  int
	height int
}

// layout is the vertically centered block of quote lines plus the optional
// author line. Coordinates are in pixels from the image's top-left corner;
// startY may be negative when the block is taller than the image, in which
// case rendering clips instead of shrinking.
type layout struct {
	lines       []line
	author      *line
	lineSpacing int
	totalHeight int
	startY      int
	width       int
}

// measureLine returns the advance width of s and its drawn height: the span
// from the top of the line (full ascent above the baseline) down to the
// lowest ink of s. Lines without descenders therefore measure shorter, the
// way a text bounding box behaves.
func measureLine(s string, face font.Face) (int, int) {
	bounds, advance := font.BoundString(face, s)
	descent := bounds.Max.Y
	if descent < 0 {
		descent = 0
	}
	height := (face.Metrics().Ascent + descent).Ceil()
	return advance.Ceil(), height
}

// computeLayout measures every wrapped line and stacks them with lineSpacing
// between, appending the author line after an extra 2*lineSpacing gap, then
// centers the whole block vertically.
func computeLayout(imgWidth, imgHeight int, wrapped []string, authorText string, primary, authorFace font.Face, lineSpacing int) layout {
	l := layout{
		lines:       make([]line, 0, len(wrapped)),
		lineSpacing: lineSpacing,
		width:       imgWidth,
	}

	for _, s := range wrapped {
		w, h := measureLine(s, primary)
		l.lines = append(l.lines, line{text: s, width: w, height: h})
		l.totalHeight += h
	}
	if n := len(l.lines); n > 1 {
		l.totalHeight += (n - 1) * lineSpacing
	}

	if authorText != "" {
		w, h := measureLine(authorText, authorFace)
		l.author = &line{text: authorText, width: w, height: h}
		l.totalHeight += h + 2*lineSpacing
	}

	l.startY = (imgHeight - l.totalHeight) / 2
	return l
}

// drawLayout rasterizes the block onto dst in solid opaque white. Each line
// is horizontally centered; the cursor advances by the line's own height plus
// lineSpacing, with one extra lineSpacing before the author line.
func drawLayout(dst stddraw.Image, l layout, faces FacePair) {
	white := image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	cursorY := l.startY

	for _, ln := range l.lines {
		drawString(dst, faces.Primary, white, ln.text, (l.width-ln.width)/2, cursorY)
		cursorY += ln.height + l.lineSpacing
	}

	if l.author != nil {
		cursorY += l.lineSpacing
		drawString(dst, faces.Author, white, l.author.text, (l.width-l.author.width)/2, cursorY)
	}
}

// drawString draws s with its line top at (x, y); the baseline sits one
// ascent below y.
func drawString(dst stddraw.Image, face font.Face, src image.Image, s string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(y) + face.Metrics().Ascent,
		},
	}
	d.DrawString(s)
}
