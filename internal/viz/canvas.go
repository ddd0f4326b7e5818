package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// SetPixel sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	if !isBraille(c.Grid[row][col]) {
		c.Grid[row][col] = 0x2800
	}
	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Dots calls fn with the sub-pixel coordinates of every raised dot, row by
// row. Text cells have no dots.
func (c *Canvas) Dots(fn func(x, y int)) {
	for row, cells := range c.Grid {
		for col, r := range cells {
			if !isBraille(r) || r == 0x2800 {
				continue
			}
			for subY, bits := range pixelMap {
				for subX, bit := range bits {
					if r&rune(bit) != 0 {
						fn(col*2+subX, row*4+subY)
					}
				}
			}
		}
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawArc plots the arc of radius r around (cx, cy) from angle `from` to
// angle `to`, in degrees counter-clockwise from the positive x axis. A
// decreasing range sweeps clockwise.
func (c *Canvas) DrawArc(cx, cy, r int, from, to float64) {
	if r <= 0 {
		return
	}
	span := to - from
	// about one dot of arc per step
	steps := int(math.Abs(span)*math.Pi/180*float64(r)) + 1
	for i := 0; i <= steps; i++ {
		x, y := Polar(cx, cy, float64(r), from+span*float64(i)/float64(steps))
		c.Set(x, y)
	}
}

// Text writes s into character cells starting at (col, row), replacing
// whatever dots were there. Cells outside the canvas are skipped.
func (c *Canvas) Text(col, row int, s string) {
	if row < 0 || row >= c.Height {
		return
	}
	for i, r := range []rune(s) {
		x := col + i
		if x < 0 || x >= c.Width {
			continue
		}
		c.Grid[row][x] = r
	}
}

// Polar returns the sub-pixel at distance r and angle deg from (cx, cy).
// Screen y grows downward, so the angle is measured with y flipped.
func Polar(cx, cy int, r, deg float64) (int, int) {
	rad := deg * math.Pi / 180
	return cx + int(math.Round(r*math.Cos(rad))), cy - int(math.Round(r*math.Sin(rad)))
}

func isBraille(r rune) bool { return r >= 0x2800 && r <= 0x28FF }

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
