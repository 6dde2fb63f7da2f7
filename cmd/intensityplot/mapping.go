package main

import (
	"errors"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/render"
)

var errNoDisplay = errors.New("no display: DISPLAY and WAYLAND_DISPLAY are unset")

// displayAvailable reports whether a desktop session can host a window. Only X11/Wayland
// systems are checked; other platforms always have a display server.
func displayAvailable(goos string, getenv func(string) string) error {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		if getenv("DISPLAY") == "" && getenv("WAYLAND_DISPLAY") == "" {
			return errNoDisplay
		}
	}
	return nil
}

// pointerToData maps a pointer position inside the plot widget to data coordinates.
// Positions off the image are clamped to its edge first.
func pointerToData(f render.Frame, viewW, viewH, mx, my float32) (float64, float64) {
	dx, dy, dw, dh, _ := render.ContainRect(float32(f.Width), float32(f.Height), viewW, viewH)
	mx = clamp32(mx, dx, dx+dw)
	my = clamp32(my, dy, dy+dh)
	x, y, ok := f.ViewToData(viewW, viewH, mx, my)
	if !ok {
		return f.View.XMin, f.View.YMin
	}
	return x, y
}

// bandRect returns the top-left corner and size, in widget units, of the rectangle between
// a data-space anchor and the pointer.
func bandRect(f render.Frame, viewW, viewH float32, anchorX, anchorY float64, mx, my float32) (x, y, w, h float32) {
	ax, ay := f.DataToView(viewW, viewH, anchorX, anchorY)
	x, w = ax, mx-ax
	if w < 0 {
		x, w = mx, -w
	}
	y, h = ay, my-ay
	if h < 0 {
		y, h = my, -h
	}
	return x, y, w, h
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
