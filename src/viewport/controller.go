package viewport

import (
	"context"
	"errors"
	"fmt"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/analysis"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/logging"
)

// State of the controller.
type State int

const (
	Initial State = iota
	Displayed
	Closed
)

func (s State) String() string {
	switch s {
	case Initial:
		return "initial"
	case Displayed:
		return "displayed"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Controller turns gestures into viewport changes and render requests.
// It is not safe for concurrent use; one goroutine drives it.
type Controller struct {
	dev     Device
	points  []analysis.Point
	title   string
	full    Viewport
	current Viewport
	state   State
	renders int
}

// NewController prepares a controller in the Initial state. full is the unzoom target.
func NewController(dev Device, points []analysis.Point, full Viewport, title string) *Controller {
	return &Controller{dev: dev, points: points, title: title, full: full, current: full}
}

func (c *Controller) State() State         { return c.state }
func (c *Controller) Viewport() Viewport   { return c.current }
func (c *Controller) FullExtent() Viewport { return c.full }

// Renders counts render requests issued so far.
func (c *Controller) Renders() int { return c.renders }

// Start shows the full extent and enters Displayed. It does nothing outside Initial.
func (c *Controller) Start() {
	if c.state != Initial {
		return
	}
	c.current = c.full
	c.state = Displayed
	c.render()
}

// Step waits for one gesture and applies it. In Closed it returns immediately without
// reading input. A device input failure closes the controller; ErrDeviceClosed is not
// reported as an error.
func (c *Controller) Step(ctx context.Context) error {
	if c.state == Initial {
		c.Start()
	}
	if c.state != Displayed {
		return nil
	}
	g, err := c.dev.NextGesture(ctx, Band{Mode: BandNone})
	if err != nil {
		return c.abort(err)
	}
	switch g.Key {
	case KeyZoom:
		corner, err := c.dev.NextGesture(ctx, Band{Mode: BandRect, AnchorX: g.X, AnchorY: g.Y})
		if err != nil {
			return c.abort(err)
		}
		c.current = Normalize(g.X, g.Y, corner.X, corner.Y)
		logging.Debugf("zoom to %s", c.current)
		c.render()
	case KeyUnzoom:
		c.current = c.full
		logging.Debugf("unzoom to %s", c.current)
		c.render()
	case KeyQuit:
		c.close()
	default:
		logging.Debugf("ignoring key %q at (%g, %g)", g.Key, g.X, g.Y)
	}
	return nil
}

// Run starts the controller if needed and processes gestures until Closed.
func (c *Controller) Run(ctx context.Context) error {
	c.Start()
	for c.state == Displayed {
		if err := c.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) render() {
	c.renders++
	if err := c.dev.Render(c.points, c.current, c.title); err != nil {
		logging.Warnf("render %s: %v", c.current, err)
	}
}

func (c *Controller) abort(err error) error {
	c.close()
	if errors.Is(err, ErrDeviceClosed) {
		return nil
	}
	return fmt.Errorf("read gesture: %w", err)
}

func (c *Controller) close() {
	if c.state == Closed {
		return
	}
	c.state = Closed
	if err := c.dev.Close(); err != nil {
		logging.Warnf("close device: %v", err)
	}
}
