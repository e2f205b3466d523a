package types

import "fmt"

// Geometry describes the position and size of the preview window.
// X and Y are pass-through state: they are persisted and restored even on
// toolkits that do not report window position.
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultGeometry returns the window placement used when no settings exist.
func DefaultGeometry() Geometry {
	return Geometry{X: 100, Y: 100, Width: 600, Height: 600}
}

// String returns a human-readable representation
func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", g.Width, g.Height, g.X, g.Y)
}
