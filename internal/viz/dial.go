package viz

import (
	"strings"

	"github.com/san-kum/drivelab/internal/speedometer"
)

const (
	tickInner   = 0.86
	labelRadius = 0.68
	needleReach = 0.8
)

// DialFace draws a speed dial on a braille canvas. It is the terminal
// stand-in for the engine's dial widget: labels are placed once, the
// needle is redrawn every frame.
type DialFace struct {
	canvas      *Canvas
	labels      []speedometer.Label
	needle      float64
	needleOnTop bool
}

func NewDialFace(w, h int) *DialFace {
	return &DialFace{
		canvas: NewCanvas(w, h),
		needle: speedometer.ZeroSpeedAngle,
	}
}

func (f *DialFace) AddLabel(l speedometer.Label) { f.labels = append(f.labels, l) }

// RaiseNeedle puts the needle above the label text.
func (f *DialFace) RaiseNeedle() { f.needleOnTop = true }

func (f *DialFace) SetNeedle(angle float64) { f.needle = angle }

func (f *DialFace) Needle() float64   { return f.needle }
func (f *DialFace) NeedleOnTop() bool { return f.needleOnTop }
func (f *DialFace) Canvas() *Canvas   { return f.canvas }

func (f *DialFace) Labels() []speedometer.Label {
	out := make([]speedometer.Label, len(f.labels))
	copy(out, f.labels)
	return out
}

// geometry returns the dial centre and radius in sub-pixels.
func (f *DialFace) geometry() (cx, cy, r int) {
	w, h := f.canvas.Width*2, f.canvas.Height*4
	cx, cy = w/2, h/2
	r = min(w, h)/2 - 2
	return cx, cy, r
}

// LabelCell returns the character cell the label text starts in.
func (f *DialFace) LabelCell(l speedometer.Label) (col, row int) {
	cx, cy, r := f.geometry()
	x, y := Polar(cx, cy, float64(r)*labelRadius, l.Angle)
	col = x/2 - len(l.Text)/2
	return col, y / 4
}

// NeedleTip returns the sub-pixel the needle points at.
func (f *DialFace) NeedleTip() (int, int) {
	cx, cy, r := f.geometry()
	return Polar(cx, cy, float64(r)*needleReach, f.needle)
}

// Render redraws the dial and returns it as text.
func (f *DialFace) Render() string {
	f.canvas.Clear()
	cx, cy, r := f.geometry()

	f.canvas.DrawArc(cx, cy, r, speedometer.ZeroSpeedAngle, speedometer.MaxSpeedAngle)
	for _, l := range f.labels {
		x0, y0 := Polar(cx, cy, float64(r)*tickInner, l.Angle)
		x1, y1 := Polar(cx, cy, float64(r), l.Angle)
		f.canvas.DrawLine(x0, y0, x1, y1)
	}

	if !f.needleOnTop {
		f.drawNeedle()
	}
	for _, l := range f.labels {
		col, row := f.LabelCell(l)
		f.canvas.Text(col, row, l.Text)
	}
	if f.needleOnTop {
		f.drawNeedle()
	}

	return strings.TrimRight(f.canvas.String(), "\n")
}

func (f *DialFace) drawNeedle() {
	cx, cy, _ := f.geometry()
	x, y := f.NeedleTip()
	f.canvas.DrawLine(cx, cy, x, y)
}
