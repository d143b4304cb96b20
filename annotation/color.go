package annotation

import (
	"encoding/json"
	"fmt"
)

// Color is an RGBA color with components in [0, 1]. It serializes as a CSS
// hex string so session files stay readable next to the UI layer's values.
type Color struct {
	R, G, B float64
	A       float64
}

// Black is the default annotation color.
var Black = Color{A: 1}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	if len(s) == 0 || s[0] != '#' {
		return Color{}, fmt.Errorf("color %q: missing '#' prefix", s)
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		r, err1 := nibble(hex[0])
		g, err2 := nibble(hex[1])
		b, err3 := nibble(hex[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return Color{}, fmt.Errorf("color %q: invalid hex digit", s)
		}
		return Color{R: float64(r*17) / 255, G: float64(g*17) / 255, B: float64(b*17) / 255, A: 1}, nil
	case 6, 8:
		var comps [4]float64
		comps[3] = 1
		for i := 0; i < len(hex)/2; i++ {
			hi, err1 := nibble(hex[2*i])
			lo, err2 := nibble(hex[2*i+1])
			if err1 != nil || err2 != nil {
				return Color{}, fmt.Errorf("color %q: invalid hex digit", s)
			}
			comps[i] = float64(hi*16+lo) / 255
		}
		return Color{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
	}
	return Color{}, fmt.Errorf("color %q: unsupported length", s)
}

// Hex renders the color as "#rrggbb", or "#rrggbbaa" when alpha is not 1.
func (c Color) Hex() string {
	if c.A != 1 {
		return fmt.Sprintf("#%02x%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B), channel(c.A))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func channel(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int(v*255 + 0.5)
}

func nibble(b byte) (int, error) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), nil
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, nil
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, nil
	}
	return 0, fmt.Errorf("not a hex digit: %c", b)
}
