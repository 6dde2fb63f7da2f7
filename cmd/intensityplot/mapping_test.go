package main

import (
	"errors"
	"math"
	"testing"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/render"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/viewport"
)

func TestDisplayAvailable(t *testing.T) {
	env := func(m map[string]string) func(string) string { return func(k string) string { return m[k] } }
	cases := []struct {
		goos string
		env  map[string]string
		ok   bool
	}{
		{"linux", nil, false},
		{"linux", map[string]string{"DISPLAY": ":0"}, true},
		{"linux", map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, true},
		{"freebsd", nil, false},
		{"darwin", nil, true},
		{"windows", nil, true},
	}
	for _, c := range cases {
		err := displayAvailable(c.goos, env(c.env))
		if (err == nil) != c.ok {
			t.Fatalf("%s %v: err=%v", c.goos, c.env, err)
		}
		if err != nil && !errors.Is(err, errNoDisplay) {
			t.Fatalf("unexpected error %v", err)
		}
	}
}

// 200x100 image whose data area is inset by 20px left/right and 10px top/bottom.
var testFrame = render.Frame{Width: 200, Height: 100, Left: 20, Top: 10, Right: 180, Bottom: 90,
	View: viewport.Viewport{XMin: 0, XMax: 16, YMin: 0, YMax: 8}}

func TestPointerToData(t *testing.T) {
	cases := []struct {
		name         string
		viewW, viewH float32
		mx, my       float32
		x, y         float64
	}{
		{"same size, data corner", 200, 100, 20, 10, 0, 8},
		{"same size, centre", 200, 100, 100, 50, 8, 4},
		{"scaled 2x", 400, 200, 200, 100, 8, 4},
		{"letterboxed", 200, 300, 100, 150, 8, 4},
		// left edge of the image lies 20px left of the data area: x extrapolates below XMin
		{"clamped to image edge", 200, 100, -50, 50, -2, 4},
	}
	for _, c := range cases {
		x, y := pointerToData(testFrame, c.viewW, c.viewH, c.mx, c.my)
		if math.Abs(x-c.x) > 1e-4 || math.Abs(y-c.y) > 1e-4 {
			t.Fatalf("%s: got (%g,%g) want (%g,%g)", c.name, x, y, c.x, c.y)
		}
	}
}

func TestBandRect(t *testing.T) {
	// anchor (0,8) is the data area's top-left at (20,10)
	x, y, w, h := bandRect(testFrame, 200, 100, 0, 8, 120, 60)
	if x != 20 || y != 10 || w != 100 || h != 50 {
		t.Fatalf("down-right band: %v %v %v %v", x, y, w, h)
	}
	// dragging up-left from the anchor flips the origin
	x, y, w, h = bandRect(testFrame, 200, 100, 8, 4, 50, 20)
	if x != 50 || y != 20 || w != 50 || h != 30 {
		t.Fatalf("up-left band: %v %v %v %v", x, y, w, h)
	}
}
