// Package overlay positions notes on a page and handles dragging them.
//
// Notes are anchored to a logical coordinate (cx, cy): cx is the horizontal
// offset from the centre of the viewport and cy is the absolute vertical
// document offset. Notes therefore scroll with the page but keep the same
// place relative to the centre whatever the browser width.
//
// Nothing here knows about a UI toolkit. Adapters feed pointer and resize
// events into an Engine and read each Note's Left/Top back out.
package overlay

import "math"

// Default logical position for notes that were never placed.
const (
	DefaultCX = 0
	DefaultCY = 140
)

// Frame is the reference frame of the transform: the current viewport
// width and horizontal scroll offset.
type Frame struct {
	ViewportWidth float64
	ScrollX       float64
}

// ToDocument converts a logical coordinate to a document coordinate.
func (f Frame) ToDocument(cx, cy float64) (left, top float64) {
	return f.ScrollX + f.ViewportWidth/2 + cx, cy
}

// ToLogical is the inverse of ToDocument.
func (f Frame) ToLogical(left, top float64) (cx, cy float64) {
	return (left - f.ScrollX) - f.ViewportWidth/2, top
}

// Viewport reports the frame at the moment it is asked.
type Viewport interface {
	Frame() Frame
}

// ViewportFunc adapts a function to Viewport.
type ViewportFunc func() Frame

func (fn ViewportFunc) Frame() Frame { return fn() }

// StaticViewport is a Viewport that never changes.
type StaticViewport Frame

func (v StaticViewport) Frame() Frame { return Frame(v) }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// resolve substitutes the defaults for missing or non-finite coordinates.
func resolve(cx, cy *float64) (float64, float64) {
	x, y := float64(DefaultCX), float64(DefaultCY)
	if cx != nil && finite(*cx) {
		x = *cx
	}
	if cy != nil && finite(*cy) {
		y = *cy
	}
	return x, y
}
