package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// ParseColor reads the SDF text form "r g b a". The alpha component is
// optional and defaults to 1.
func ParseColor(text string) (Color, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 && len(fields) != 4 {
		return Color{}, fmt.Errorf("color needs 3 or 4 values, got %d", len(fields))
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Color{}, fmt.Errorf("invalid number %q", f)
		}
		vals[i] = v
	}
	c := Color{R: vals[0], G: vals[1], B: vals[2], A: 1}
	if len(vals) == 4 {
		c.A = vals[3]
	}
	return c, nil
}

// String renders the color in SDF text form.
func (c Color) String() string {
	return fmt.Sprintf("%g %g %g %g", c.R, c.G, c.B, c.A)
}
