// Package fonts measures annotation text. Text boxes grow and wrap based on
// real shaped glyph advances, not character counts, so the editor's layout
// matches what the export path renders.
package fonts

import (
	"bytes"
	"fmt"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Metrics describes one shaped text run at a given font size, in document
// units.
type Metrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// Face wraps a parsed font face together with its shaper.
type Face struct {
	face *gofont.Face

	mu     sync.Mutex
	shaper shaping.HarfbuzzShaper
}

// LoadFace parses TTF or OTF font data.
func LoadFace(data []byte) (*Face, error) {
	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fonts: parse face: %w", err)
	}
	return &Face{face: face}, nil
}

var (
	defaultOnce sync.Once
	defaultFace *Face
)

// DefaultFace returns the built-in fallback face (Go Regular). It is used
// whenever a requested family has no registered face.
func DefaultFace() *Face {
	defaultOnce.Do(func() {
		face, err := LoadFace(goregular.TTF)
		if err != nil {
			// The embedded font is known-good; a parse failure here means
			// the toolchain produced a corrupt binary.
			panic(fmt.Sprintf("fonts: embedded fallback face: %v", err))
		}
		defaultFace = face
	})
	return defaultFace
}

// Measure shapes text at the given size and returns its advance width and
// vertical extent. Empty text measures to zero width with the face's line
// metrics intact.
func (f *Face) Measure(text string, size float64) Metrics {
	runes := []rune(text)
	script := DetectScript(runes)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: scriptDirection(script),
		Face:      f.face,
		Size:      fixed.Int26_6(size * 64),
		Script:    script,
		Language:  language.DefaultLanguage(),
	}

	f.mu.Lock()
	output := f.shaper.Shape(input)
	f.mu.Unlock()

	var width fixed.Int26_6
	for _, g := range output.Glyphs {
		width += g.XAdvance
	}
	return Metrics{
		Width:   float64(width) / 64,
		Ascent:  float64(output.LineBounds.Ascent) / 64,
		Descent: -float64(output.LineBounds.Descent) / 64,
	}
}

// LineHeight returns the face's natural line height at the given size.
func (f *Face) LineHeight(size float64) float64 {
	m := f.Measure("", size)
	return m.Ascent + m.Descent
}

// Registry maps font family names to faces and falls back to the default
// face for unknown families. The zero value is usable.
type Registry struct {
	mu    sync.RWMutex
	faces map[string]*Face
}

// Register binds a family name to a face.
func (r *Registry) Register(family string, face *Face) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.faces == nil {
		r.faces = map[string]*Face{}
	}
	r.faces[family] = face
}

// Lookup returns the face for family, or the default face if none is
// registered.
func (r *Registry) Lookup(family string) *Face {
	r.mu.RLock()
	face := r.faces[family]
	r.mu.RUnlock()
	if face == nil {
		return DefaultFace()
	}
	return face
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana, language.Nko:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

// DetectScript returns the dominant script of a rune sequence, defaulting to
// Latin. Ties keep the earlier winner.
func DetectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	bestScript := language.Latin

	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			bestScript = script
		}
	}
	return bestScript
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Thai, r):
		return language.Thai
	case unicode.Is(unicode.Devanagari, r):
		return language.Devanagari
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r):
		return language.Hiragana
	case unicode.Is(unicode.Katakana, r):
		return language.Katakana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	}
	return language.Unknown
}
