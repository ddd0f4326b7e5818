package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/drivelab/internal/speedometer"
	"github.com/san-kum/drivelab/internal/viz"
)

const dotColor = "#00ffff"

// CanvasToSVG rasterizes a braille canvas, one circle per raised dot on a
// grid of scale pixels per dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(float64(canvas.Width*2)*scale, float64(canvas.Height*4)*scale))
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", dotColor)
	canvas.Dots(func(x, y int) {
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
			(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, scale*0.4)
	})
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func svgHeader(width, height float64) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

// DialSVG draws a vector speed dial of the given pixel size: the arc, one
// tick and upright text per label, and the needle. The needle is emitted
// last when needleOnTop is set, so it paints over the labels.
func DialSVG(labels []speedometer.Label, needle float64, needleOnTop bool, size float64) string {
	c := size / 2
	r := size/2 - size*0.05

	point := func(radius, deg float64) (float64, float64) {
		rad := deg * math.Pi / 180
		return c + radius*math.Cos(rad), c - radius*math.Sin(rad)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(size, size))

	x0, y0 := point(r, speedometer.ZeroSpeedAngle)
	x1, y1 := point(r, speedometer.MaxSpeedAngle)
	largeArc := 0
	if speedometer.ZeroSpeedAngle-speedometer.MaxSpeedAngle > 180 {
		largeArc = 1
	}
	sb.WriteString(fmt.Sprintf("<path fill=\"none\" stroke=\"#00ffff\" stroke-width=\"2\" d=\"M%.1f,%.1f A%.1f,%.1f 0 %d 1 %.1f,%.1f\"/>\n",
		x0, y0, r, r, largeArc, x1, y1))

	needleLine := func() {
		nx, ny := point(r*0.8, needle)
		sb.WriteString(fmt.Sprintf("<line class=\"needle\" x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"#ff4444\" stroke-width=\"3\"/>\n",
			c, c, nx, ny))
	}

	if !needleOnTop {
		needleLine()
	}
	fontSize := size * 0.05
	for _, l := range labels {
		tx0, ty0 := point(r*0.86, l.Angle)
		tx1, ty1 := point(r, l.Angle)
		sb.WriteString(fmt.Sprintf("<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"#00ffff\" stroke-width=\"2\"/>\n",
			tx0, ty0, tx1, ty1))

		lx, ly := point(r*0.68, l.Angle)
		sb.WriteString(fmt.Sprintf("<text x=\"%.1f\" y=\"%.1f\" fill=\"#ffffff\" font-family=\"monospace\" font-size=\"%.1f\" text-anchor=\"middle\" dominant-baseline=\"middle\">%s</text>\n",
			lx, ly, fontSize, html.EscapeString(l.Text)))
	}
	if needleOnTop {
		needleLine()
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// FaceToSVG renders the current state of a dial face.
func FaceToSVG(face *viz.DialFace, size float64) string {
	if face == nil {
		return ""
	}
	return DialSVG(face.Labels(), face.Needle(), face.NeedleOnTop(), size)
}
