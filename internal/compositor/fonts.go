package compositor

import (
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font files probed in order. The first candidate that reads and parses wins;
// the embedded Go fonts are the terminal file-independent fallback, and the
// fixed-size basicfont face backstops face construction itself, so resolution
// never fails regardless of the deployment environment.
var (
	regularFontCandidates = []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/Library/Fonts/Arial.ttf",
		`C:\Windows\Fonts\arial.ttf`,
	}
	boldFontCandidates = []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
		"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
		"/Library/Fonts/Arial Bold.ttf",
		`C:\Windows\Fonts\arialbd.ttf`,
	}
)

// FacePair bundles the faces used for one composition.
type FacePair struct {
	Primary font.Face
	Author  font.Face
	// Degraded reports that no on-disk font could be loaded for the primary
	// face and an embedded fallback serves instead. Callers log it; it is
	// never an error.
	Degraded bool
}

// FontResolver loads quote and author faces, probing a candidate list of font
// files and falling back to embedded fonts. Parsed fonts are cached for the
// process lifetime; font assets are immutable, so the cache never invalidates.
type FontResolver struct {
	mu     sync.Mutex
	parsed map[string]*opentype.Font
}

// NewFontResolver returns a resolver with an empty font cache.
func NewFontResolver() *FontResolver {
	return &FontResolver{parsed: make(map[string]*opentype.Font)}
}

// Resolve returns a usable face pair at the requested pixel sizes. It only
// touches the filesystem read-only and never fails.
func (r *FontResolver) Resolve(primarySize, authorSize int) FacePair {
	regular, degraded := r.firstUsable(regularFontCandidates, "embedded:go-regular", goregular.TTF)
	bold, _ := r.firstUsable(boldFontCandidates, "embedded:go-bold", gobold.TTF)

	pair := FacePair{Degraded: degraded}
	pair.Primary = newFace(regular, primarySize)
	pair.Author = newFace(bold, authorSize)
	if pair.Author == nil {
		// Emphasis sizing unavailable: reuse the primary face.
		pair.Author = pair.Primary
	}
	if pair.Primary == nil {
		pair.Primary = basicfont.Face7x13
		pair.Author = basicfont.Face7x13
		pair.Degraded = true
	}
	return pair
}

// firstUsable returns the first candidate font that parses, or the embedded
// fallback. The second return reports whether the fallback was used.
func (r *FontResolver) firstUsable(candidates []string, fallbackKey string, fallback []byte) (*opentype.Font, bool) {
	for _, path := range candidates {
		if f := r.parse(path, nil); f != nil {
			return f, false
		}
	}
	return r.parse(fallbackKey, fallback), true
}

// parse loads and parses a font, consulting the cache first. data is nil for
// on-disk candidates, which are read from path.
func (r *FontResolver) parse(key string, data []byte) *opentype.Font {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.parsed[key]; ok {
		return f
	}
	if data == nil {
		b, err := os.ReadFile(key)
		if err != nil {
			r.parsed[key] = nil
			return nil
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		f = nil
	}
	r.parsed[key] = f
	return f
}

func newFace(f *opentype.Font, size int) font.Face {
	if f == nil || size <= 0 {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	return face
}
