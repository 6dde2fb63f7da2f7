package render

import "github.com/TjhVarga/Science-Extension-RFI-Project/src/viewport"

// Frame describes where the data area of a rendered image sits, in image pixels with y down,
// and which data range it shows.
type Frame struct {
	Width, Height int
	Left, Top     float64
	Right, Bottom float64
	View          viewport.Viewport
}

// Inside reports whether the pixel lies within the data area.
func (f Frame) Inside(px, py float64) bool {
	return px >= f.Left && px <= f.Right && py >= f.Top && py <= f.Bottom
}

// PixelToData converts an image pixel to data coordinates. Pixels outside the data area
// extrapolate linearly.
func (f Frame) PixelToData(px, py float64) (x, y float64) {
	w, h := f.Right-f.Left, f.Bottom-f.Top
	if w <= 0 || h <= 0 {
		return f.View.XMin, f.View.YMin
	}
	x = f.View.XMin + (px-f.Left)/w*(f.View.XMax-f.View.XMin)
	y = f.View.YMax - (py-f.Top)/h*(f.View.YMax-f.View.YMin)
	return x, y
}

// DataToPixel is the inverse of PixelToData.
func (f Frame) DataToPixel(x, y float64) (px, py float64) {
	dx, dy := f.View.XMax-f.View.XMin, f.View.YMax-f.View.YMin
	if dx == 0 || dy == 0 {
		return f.Left, f.Bottom
	}
	px = f.Left + (x-f.View.XMin)/dx*(f.Right-f.Left)
	py = f.Top + (f.View.YMax-y)/dy*(f.Bottom-f.Top)
	return px, py
}

// ContainRect returns the rectangle an imgW x imgH image occupies when scaled to fit,
// centred, inside a viewW x viewH area, and the scale applied.
func ContainRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 {
		return 0, 0, viewW, viewH, 1
	}
	sx := viewW / imgW
	sy := viewH / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	w = imgW * scale
	h = imgH * scale
	x = (viewW - w) / 2
	y = (viewH - h) / 2
	return x, y, w, h, scale
}

// ViewToData maps a position inside a viewW x viewH widget that shows the frame's image with
// contain fitting. ok is false when the position misses the image.
func (f Frame) ViewToData(viewW, viewH, mx, my float32) (x, y float64, ok bool) {
	dx, dy, dw, dh, scale := ContainRect(float32(f.Width), float32(f.Height), viewW, viewH)
	if scale <= 0 || mx < dx || mx > dx+dw || my < dy || my > dy+dh {
		return 0, 0, false
	}
	px := float64((mx - dx) / scale)
	py := float64((my - dy) / scale)
	x, y = f.PixelToData(px, py)
	return x, y, true
}

// DataToView is the inverse of ViewToData.
func (f Frame) DataToView(viewW, viewH float32, x, y float64) (mx, my float32) {
	dx, dy, _, _, scale := ContainRect(float32(f.Width), float32(f.Height), viewW, viewH)
	px, py := f.DataToPixel(x, y)
	return dx + float32(px)*scale, dy + float32(py)*scale
}
