// Package compositor darkens a background image and draws wrapped quote text
// centered on it, producing a flattened JPEG. It is a pure in-memory
// transformation: no network access, no writes, and no state shared between
// calls, so a single Compositor is safe for concurrent use.
package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/disintegration/imaging"

	"golang.org/x/text/unicode/norm"

	"socialexec/internal/infra"
)

// Style constants. These are fixed, not per-call configuration: the only
// per-call variability comes from the image dimensions and the two text
// inputs.
const (
	brightnessFactor = 0.5
	outputQuality    = 95
	fontSizeDivisor  = 15
	authorSizeScale  = 1.2
	lineSpacingScale = 0.4
	maxWidthScale    = 0.8
)

var (
	// ErrDecode indicates the input bytes are not a decodable image.
	ErrDecode = errors.New("compositor: undecodable image")
	// ErrEmptyQuote indicates the quote text is empty or whitespace-only.
	ErrEmptyQuote = errors.New("compositor: quote text is empty")
	// ErrEncode indicates the output image could not be encoded.
	ErrEncode = errors.New("compositor: encode output")
)

// Compositor renders quote images. Construct one with New and reuse it; the
// embedded font resolver caches parsed fonts across calls.
type Compositor struct {
	fonts *FontResolver
	log   infra.Logger
}

// New returns a Compositor logging font degradation and layout overflow to log.
func New(log infra.Logger) *Compositor {
	return &Compositor{fonts: NewFontResolver(), log: log}
}

// Compose decodes imageBytes, darkens the picture for contrast, draws quote
// (and, when non-empty, author as "- author") centered on it, and returns the
// result as a JPEG of the same dimensions.
func (c *Compositor) Compose(imageBytes []byte, quote, author string) ([]byte, error) {
	quote = norm.NFC.String(strings.TrimSpace(quote))
	if quote == "" {
		return nil, ErrEmptyQuote
	}

	src, err := imaging.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err)
	}
	img := imaging.Clone(src)
	darken(img.Pix, brightnessFactor)

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	primarySize := height / fontSizeDivisor
	if primarySize < 1 {
		primarySize = 1
	}
	authorSize := int(math.Round(float64(primarySize) * authorSizeScale))
	lineSpacing := int(float64(primarySize) * lineSpacingScale)
	maxLineWidth := int(float64(width) * maxWidthScale)

	faces := c.fonts.Resolve(primarySize, authorSize)
	if faces.Degraded {
		c.log.Debug().Int("size", primarySize).Msg("no system font found, using embedded fallback")
	}

	lines := wrapText(quote, maxLineWidth, faces.Primary)

	authorLine := ""
	if a := strings.TrimSpace(author); a != "" {
		authorLine = "- " + a
	}

	l := computeLayout(width, height, lines, authorLine, faces.Primary, faces.Author, lineSpacing)
	if l.startY < 0 {
		c.log.Debug().
			Int("block_height", l.totalHeight).
			Int("image_height", height).
			Msg("text block taller than image, rendering will clip")
	}
	drawLayout(img, l, faces)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(outputQuality)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// darken scales the color channels of straight-alpha NRGBA pixel data,
// leaving alpha untouched.
func darken(pix []uint8, factor float64) {
	for i := 0; i < len(pix); i += 4 {
		pix[i] = uint8(float64(pix[i]) * factor)
		pix[i+1] = uint8(float64(pix[i+1]) * factor)
		pix[i+2] = uint8(float64(pix[i+2]) * factor)
	}
}
