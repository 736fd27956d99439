package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a pair of doubles.
type Point struct {
	X float64
	Y float64
}

// String returns the textual form of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)",
		strconv.FormatFloat(p.X, 'g', -1, 64),
		strconv.FormatFloat(p.Y, 'g', -1, 64))
}

// ParsePoint parses a point from its textual form "(x, y)".
func ParsePoint(s string) (Point, error) {
	text := strings.TrimSpace(s)
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return Point{}, fmt.Errorf("invalid point %q", s)
	}
	parts := strings.Split(text[1:len(text)-1], ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("invalid point %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q", s)
	}
	return Point{X: x, Y: y}, nil
}
