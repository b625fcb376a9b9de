package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGB color. The R, G, B uint8 fields are the source of truth;
// all output formats are derived from them.
type Color struct {
	R, G, B uint8
}

// AccentSlots are the palette slots conventionally used for syntax highlighting
// colors, as opposed to backgrounds and foregrounds.
var AccentSlots = []string{
	"base08", "base09", "base0A", "base0B",
	"base0C", "base0D", "base0E", "base0F",
}

const (
	// greySaturation is the HSV saturation below which an accent counts as grey.
	greySaturation = 0.2
	// greyAccents is how many grey accents make a whole scheme greyscale.
	greyAccents = 5
)

// ParseHex parses a hex color string like "#eb6f92" into a Color.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q: must be 6 hex digits", s)
	}
	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// FromHex is the lenient form of ParseHex: malformed or short input yields black.
func FromHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		return Color{}
	}
	return c
}

// IsHex reports whether s (without its leading #) is exactly 6 hex digits.
func IsHex(s string) bool {
	_, err := ParseHex(s)
	return err == nil
}

// Hex returns the color as a hex string with leading #, e.g. "#eb6f92".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexBare returns the color as a hex string without leading #, e.g. "eb6f92".
func (c Color) HexBare() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the color as an rgb() string, e.g. "rgb(235, 111, 146)".
func (c Color) RGB() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Sum returns r+g+b, a cheap darkness measure.
func (c Color) Sum() int {
	return int(c.R) + int(c.G) + int(c.B)
}

// Saturation returns the HSV saturation of c in [0, 1].
func (c Color) Saturation() float64 {
	_, s, _ := c.colorful().Hsv()
	return s
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Distance is the plain Euclidean distance between a and b in RGB space.
func Distance(a, b Color) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Vector is a flattened sequence of RGB triples.
type Vector []float64

// NewVector concatenates the RGB triples of colors in order.
func NewVector(colors ...Color) Vector {
	v := make(Vector, 0, len(colors)*3)
	for _, c := range colors {
		v = append(v, float64(c.R), float64(c.G), float64(c.B))
	}
	return v
}

// VectorDistance is the Euclidean distance between two vectors of equal length.
// Extra components of the longer vector are ignored.
func VectorDistance(a, b Vector) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// IsGreyscale reports whether a palette reads as greyscale: at least 5 of the 8
// accent slots have a saturation below 0.2. Missing slots count as black.
func IsGreyscale(palette map[string]string) bool {
	grey := 0
	for _, slot := range AccentSlots {
		if FromHex(palette[slot]).Saturation() < greySaturation {
			grey++
		}
	}
	return grey >= greyAccents
}
