// Package viewport owns the rectangle being displayed and the gesture-driven state machine
// that zooms, unzooms and quits. Drawing and input are delegated to a Device, so the state
// machine runs the same against a window, a script or a test double.
package viewport

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/analysis"
)

// Gesture keys.
const (
	KeyZoom   = 'z'
	KeyUnzoom = 'u'
	KeyQuit   = 'q'
	// KeyClick is delivered for a primary mouse click.
	KeyClick = 'A'
)

var (
	// ErrInvalidRange is returned when the full-extent rectangle has no width or height.
	ErrInvalidRange = errors.New("plot range invalid")
	// ErrDeviceUnavailable wraps failures to open the display device.
	ErrDeviceUnavailable = errors.New("plot device could not be opened")
	// ErrDeviceClosed is returned by NextGesture once the device has gone away.
	ErrDeviceClosed = errors.New("plot device closed")
)

// Viewport is the data rectangle currently rendered.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Valid reports whether the rectangle is finite with positive width and height.
func (v Viewport) Valid() bool {
	for _, f := range []float64{v.XMin, v.XMax, v.YMin, v.YMax} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return v.XMax > v.XMin && v.YMax > v.YMin
}

func (v Viewport) String() string {
	return fmt.Sprintf("x[%g, %g] y[%g, %g]", v.XMin, v.XMax, v.YMin, v.YMax)
}

// FullExtent is the unzoomed rectangle: blocks 0..maxBlock and the y bounds of the points.
func FullExtent(maxBlock int, ymin, ymax float64) Viewport {
	return Viewport{XMin: 0, XMax: float64(maxBlock), YMin: ymin, YMax: ymax}
}

// Normalize builds the rectangle spanned by two opposite corners given in any order.
func Normalize(x1, y1, x2, y2 float64) Viewport {
	return Viewport{
		XMin: math.Min(x1, x2),
		XMax: math.Max(x1, x2),
		YMin: math.Min(y1, y2),
		YMax: math.Max(y1, y2),
	}
}

// Gesture is one user interaction: a position in data coordinates and a key.
type Gesture struct {
	X, Y float64
	Key  rune
}

// BandMode tells the device what to draw while it waits for a gesture.
type BandMode int

const (
	// BandNone waits for a plain gesture.
	BandNone BandMode = iota
	// BandRect rubber-bands a rectangle from the anchor to the pointer.
	BandRect
)

// Band describes the feedback shown during NextGesture.
type Band struct {
	Mode             BandMode
	AnchorX, AnchorY float64
}

// Device is the display the controller drives.
type Device interface {
	// Open acquires the device named by descriptor.
	Open(descriptor string) error
	// Render clears, draws both channels over vp with axis labels and title, and flips.
	Render(points []analysis.Point, vp Viewport, title string) error
	// NextGesture blocks until the user acts. It returns ErrDeviceClosed when the device went away.
	NextGesture(ctx context.Context, band Band) (Gesture, error)
	// Close releases the device.
	Close() error
}

// OpenDevice validates the full extent and opens dev. On failure dev is closed before returning.
func OpenDevice(dev Device, descriptor string, full Viewport) error {
	if !full.Valid() {
		_ = dev.Close()
		return fmt.Errorf("%w: %s", ErrInvalidRange, full)
	}
	if err := dev.Open(descriptor); err != nil {
		_ = dev.Close()
		return fmt.Errorf("%w: %s: %v", ErrDeviceUnavailable, descriptor, err)
	}
	return nil
}
