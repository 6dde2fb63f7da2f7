package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/analysis"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/config"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/logging"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/render"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/viewport"
)

const appID = "io.github.tjhvarga.intensityplot"

// windowDevice shows the plot in a fyne window. Gestures come from typed runes at the pointer
// position and from primary clicks (KeyClick). The controller runs on its own goroutine; every
// widget change is posted to the UI goroutine with fyne.Do.
type windowDevice struct {
	cfg   config.Config
	style render.Style

	app     fyne.App
	win     fyne.Window
	img     *canvas.Image
	overlay *plotOverlay

	gestures chan viewport.Gesture
	done     chan struct{}
	stopOnce sync.Once
	loopDone atomic.Bool

	mu    sync.Mutex
	frame render.Frame
	band  viewport.Band
	viewW float32
	viewH float32
}

func newWindowDevice(cfg config.Config, st render.Style) *windowDevice {
	return &windowDevice{
		cfg:      cfg,
		style:    st,
		gestures: make(chan viewport.Gesture, 16),
		done:     make(chan struct{}),
		viewW:    float32(cfg.Window.Width),
		viewH:    float32(cfg.Window.Height),
	}
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func (d *windowDevice) Open(descriptor string) error {
	if descriptor != config.DeviceWindow {
		return fmt.Errorf("device %q has no display", descriptor)
	}
	if err := displayAvailable(runtime.GOOS, os.Getenv); err != nil {
		return err
	}
	d.app = app.NewWithID(appID)
	if d.cfg.Window.Dark {
		d.app.Settings().SetTheme(&darkTheme{})
	}
	d.win = d.app.NewWindow("intensityplot")
	d.win.Resize(fyne.NewSize(float32(d.cfg.Window.Width), float32(d.cfg.Window.Height)))
	d.win.SetMaster()

	d.img = canvas.NewImageFromImage(blank(d.cfg.Window.Width, d.cfg.Window.Height, d.style.Background))
	d.img.FillMode = canvas.ImageFillContain
	d.overlay = newPlotOverlay(d)
	d.win.SetContent(container.NewStack(d.img, d.overlay))
	d.win.Canvas().SetOnTypedRune(func(r rune) { d.emit(r, d.overlay.mouse) })
	d.win.SetOnClosed(d.stop)
	d.win.Show()
	return nil
}

// Run keeps the calling goroutine for the fyne event loop and runs session beside it.
// The loop ends when session closes the device or the window is closed. Run returns once
// the loop has ended and session has returned.
func (d *windowDevice) Run(ctx context.Context, session func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- session(ctx)
	}()
	d.app.Run()
	d.loopDone.Store(true)
	d.stop()
	return <-errc
}

func (d *windowDevice) Render(points []analysis.Point, vp viewport.Viewport, title string) error {
	d.mu.Lock()
	w, h := int(d.viewW), int(d.viewH)
	d.mu.Unlock()
	if w < 200 || h < 150 {
		w, h = d.cfg.Window.Width, d.cfg.Window.Height
	}
	img, f, err := render.Plot(points, vp, title, w, h, d.style)
	if err != nil {
		return err
	}
	if d.cfg.Hints {
		img = render.DrawHint(img, render.HintText(vp, false))
	}
	d.mu.Lock()
	d.frame = f
	d.mu.Unlock()
	d.do(func() {
		d.img.Image = img
		d.img.Refresh()
		d.win.SetTitle(title)
		d.overlay.Refresh()
	})
	return nil
}

func (d *windowDevice) NextGesture(ctx context.Context, band viewport.Band) (viewport.Gesture, error) {
	d.setBand(band)
	defer d.setBand(viewport.Band{Mode: viewport.BandNone})
	select {
	case g := <-d.gestures:
		return g, nil
	case <-d.done:
		return viewport.Gesture{}, viewport.ErrDeviceClosed
	case <-ctx.Done():
		return viewport.Gesture{}, ctx.Err()
	}
}

func (d *windowDevice) Close() error {
	d.stop()
	if d.app != nil {
		d.do(d.app.Quit)
	}
	return nil
}

func (d *windowDevice) setBand(b viewport.Band) {
	d.mu.Lock()
	d.band = b
	d.mu.Unlock()
	d.do(func() { d.overlay.Refresh() })
}

// emit runs on the UI goroutine and must not block; gestures typed while the controller is
// busy are queued, and dropped once the queue is full.
func (d *windowDevice) emit(key rune, pos fyne.Position) {
	d.mu.Lock()
	f, vw, vh := d.frame, d.viewW, d.viewH
	d.mu.Unlock()
	if f.Width == 0 {
		return
	}
	x, y := pointerToData(f, vw, vh, pos.X, pos.Y)
	select {
	case d.gestures <- viewport.Gesture{X: x, Y: y, Key: key}:
	default:
		logging.Debugf("gesture %q dropped: queue full", key)
	}
}

func (d *windowDevice) stop() {
	d.stopOnce.Do(func() { close(d.done) })
}

// do posts fn to the UI goroutine while the event loop is alive.
func (d *windowDevice) do(fn func()) {
	if d.app == nil || d.loopDone.Load() {
		return
	}
	fyne.Do(fn)
}

func blank(w, h int, bg color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

// plotOverlay sits over the plot image. It tracks the pointer, turns primary clicks into
// KeyClick gestures and draws the rubber band while a zoom waits for its second corner.
type plotOverlay struct {
	widget.BaseWidget
	dev      *windowDevice
	mouse    fyne.Position
	hovering bool
}

func newPlotOverlay(dev *windowDevice) *plotOverlay {
	o := &plotOverlay{dev: dev}
	o.ExtendBaseWidget(o)
	return o
}

func (o *plotOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background gives the overlay a full hit area
	bg := canvas.NewRectangle(color.Transparent)
	band := canvas.NewRectangle(color.NRGBA{R: 80, G: 140, B: 255, A: 40})
	band.StrokeColor = color.NRGBA{R: 80, G: 140, B: 255, A: 220}
	band.StrokeWidth = 1
	prompt := canvas.NewText("", theme.Color(theme.ColorNameForeground))
	prompt.TextSize = 12
	return &overlayRenderer{o: o, bg: bg, band: band, prompt: prompt, objs: []fyne.CanvasObject{bg, band, prompt}}
}

func (o *plotOverlay) Tapped(ev *fyne.PointEvent) {
	o.mouse = ev.Position
	o.dev.emit(viewport.KeyClick, ev.Position)
}

func (o *plotOverlay) MouseMoved(ev *desktop.MouseEvent) {
	o.hovering = true
	o.mouse = ev.Position
	o.Refresh()
}
func (o *plotOverlay) MouseIn(ev *desktop.MouseEvent) { o.hovering = true; o.mouse = ev.Position; o.Refresh() }
func (o *plotOverlay) MouseOut()                      { o.hovering = false; o.Refresh() }

var (
	_ desktop.Hoverable = (*plotOverlay)(nil)
	_ fyne.Tappable     = (*plotOverlay)(nil)
)

type overlayRenderer struct {
	o      *plotOverlay
	bg     *canvas.Rectangle
	band   *canvas.Rectangle
	prompt *canvas.Text
	objs   []fyne.CanvasObject
}

func (r *overlayRenderer) Destroy()                     {}
func (r *overlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(200, 150) }
func (r *overlayRenderer) Objects() []fyne.CanvasObject { return r.objs }

func (r *overlayRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	d := r.o.dev
	d.mu.Lock()
	d.viewW, d.viewH = size.Width, size.Height
	band, f := d.band, d.frame
	d.mu.Unlock()

	if band.Mode != viewport.BandRect || f.Width == 0 {
		r.band.Hide()
		r.prompt.Hide()
		return
	}
	r.prompt.Text = render.HintText(f.View, true)
	r.prompt.Move(fyne.NewPos(8, 4))
	r.prompt.Show()
	if !r.o.hovering {
		r.band.Hide()
		return
	}
	x, y, w, h := bandRect(f, size.Width, size.Height, band.AnchorX, band.AnchorY, r.o.mouse.X, r.o.mouse.Y)
	r.band.Move(fyne.NewPos(x, y))
	r.band.Resize(fyne.NewSize(w, h))
	r.band.Show()
}

func (r *overlayRenderer) Refresh() {
	r.Layout(r.o.Size())
	r.prompt.Color = theme.Color(theme.ColorNameForeground)
	for _, o := range r.objs {
		o.Refresh()
	}
}
