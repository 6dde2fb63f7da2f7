package viewport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/analysis"
)

// RenderFunc receives every render request of a ScriptDevice.
type RenderFunc func(points []analysis.Point, vp Viewport, title string) error

// ScriptDevice replays a fixed gesture list. It is used for headless runs and tests.
// Once the script is exhausted NextGesture reports ErrDeviceClosed.
type ScriptDevice struct {
	gestures []Gesture
	next     int
	onRender RenderFunc

	Opened int
	Closed int
	Reads  int
	Frames []Viewport
}

// NewScriptDevice returns a device replaying gestures. onRender may be nil.
func NewScriptDevice(gestures []Gesture, onRender RenderFunc) *ScriptDevice {
	return &ScriptDevice{gestures: gestures, onRender: onRender}
}

func (d *ScriptDevice) Open(string) error {
	d.Opened++
	return nil
}

func (d *ScriptDevice) Render(points []analysis.Point, vp Viewport, title string) error {
	d.Frames = append(d.Frames, vp)
	if d.onRender != nil {
		return d.onRender(points, vp, title)
	}
	return nil
}

func (d *ScriptDevice) NextGesture(ctx context.Context, _ Band) (Gesture, error) {
	if err := ctx.Err(); err != nil {
		return Gesture{}, err
	}
	d.Reads++
	if d.next >= len(d.gestures) {
		return Gesture{}, ErrDeviceClosed
	}
	g := d.gestures[d.next]
	d.next++
	return g, nil
}

func (d *ScriptDevice) Close() error {
	d.Closed++
	return nil
}

// ParseScript reads one gesture per line: a key followed by optional x and y.
// Blank lines and lines starting with # are ignored.
//
//	z 10 5
//	A 40 80
//	u
//	q
func ParseScript(r io.Reader) ([]Gesture, error) {
	var out []Gesture
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		key, size := utf8.DecodeRuneInString(fields[0])
		if size != len(fields[0]) {
			return nil, fmt.Errorf("script line %d: key %q must be a single character", n, fields[0])
		}
		g := Gesture{Key: key}
		switch len(fields) {
		case 1:
		case 3:
			x, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("script line %d: x: %w", n, err)
			}
			y, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("script line %d: y: %w", n, err)
			}
			g.X, g.Y = x, y
		default:
			return nil, fmt.Errorf("script line %d: want \"key [x y]\", got %q", n, text)
		}
		out = append(out, g)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return out, nil
}

// Session opens dev, runs a controller until it closes and guarantees dev is closed once.
func Session(ctx context.Context, dev Device, descriptor string, points []analysis.Point, full Viewport, title string) (*Controller, error) {
	if err := OpenDevice(dev, descriptor, full); err != nil {
		return nil, err
	}
	c := NewController(dev, points, full, title)
	if err := c.Run(ctx); err != nil {
		return c, err
	}
	return c, nil
}
