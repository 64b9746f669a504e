package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log"

	"fyne.io/fyne/v2"
)

var cachedIcon fyne.Resource

// Icon renders the application icon: a rising line chart over a
// vertical gradient.
func Icon() fyne.Resource {
	if cachedIcon != nil {
		return cachedIcon
	}

	const size = 256
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	// Background gradient (indigo to teal).
	top := color.RGBA{63, 81, 181, 255}
	bottom := color.RGBA{0, 150, 136, 255}
	for y := 0; y < size; y++ {
		ratio := float64(y) / size
		c := color.RGBA{
			R: uint8(float64(top.R)*(1-ratio) + float64(bottom.R)*ratio),
			G: uint8(float64(top.G)*(1-ratio) + float64(bottom.G)*ratio),
			B: uint8(float64(top.B)*(1-ratio) + float64(bottom.B)*ratio),
			A: 255,
		}
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	white := color.RGBA{255, 255, 255, 255}

	// Axis lines.
	drawLine(img, 40, 30, 40, 216, white, 6)
	drawLine(img, 40, 216, 226, 216, white, 6)

	// The data line, with a dot on every vertex.
	points := [][2]int{{60, 180}, {105, 120}, {145, 150}, {205, 60}}
	for i := 1; i < len(points); i++ {
		p, q := points[i-1], points[i]
		drawLine(img, p[0], p[1], q[0], q[1], white, 8)
	}
	for _, p := range points {
		drawDot(img, p[0], p[1], 10, white)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory RGBA cannot realistically fail; fall
		// back to no icon rather than aborting startup.
		log.Printf("encode icon: %v", err)
		return nil
	}
	cachedIcon = fyne.NewStaticResource("touchplot.png", buf.Bytes())
	return cachedIcon
}

func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA, thickness int) {
	dx, dy := x2-x1, y2-y1
	steps := max(abs(dx), abs(dy))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(max(steps, 1))
		drawDot(img, x1+int(float64(dx)*t), y1+int(float64(dy)*t), thickness/2, c)
	}
}

func drawDot(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y > r*r {
				continue
			}
			px, py := cx+x, cy+y
			if px >= 0 && px < img.Bounds().Dx() && py >= 0 && py < img.Bounds().Dy() {
				img.SetRGBA(px, py, c)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
