package exclusion

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"strconv"

	"github.com/fogleman/delaunay"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"limit-rescaling/contour"
)

// The validation heatmap rasterizes depth over the sample plane through the
// same triangulation the extractor walks, on a fixed discretized scale:
// grey below depth 1 (not excluded), ten blue bands partitioning [1, 10].
// The extracted contour is overlaid as a dashed red line.

const (
	plotWidth    = 800
	plotHeight   = 600
	marginLeft   = 70
	marginRight  = 110
	marginTop    = 30
	marginBottom = 50
)

var (
	axisBlack   = color.RGBA{A: 255}
	contourRed  = color.RGBA{R: 220, G: 20, B: 20, A: 255}
	notExcluded = color.RGBA{R: 127, G: 127, B: 127, A: 255}
)

func renderHeatmap(xs, ys, depth []float64, limit contour.Contour, xLabel, yLabel, path string) error {
	xMin, xMax := minMax(xs)
	yMin, yMax := minMax(ys)
	if xMax == xMin || yMax == yMin {
		return fmt.Errorf("degenerate plot range: x [%g, %g], y [%g, %g]", xMin, xMax, yMin, yMax)
	}

	points := make([]delaunay.Point, len(xs))
	for i := range xs {
		points[i] = delaunay.Point{X: xs[i], Y: ys[i]}
	}
	tri, err := delaunay.Triangulate(points)
	if err != nil {
		return fmt.Errorf("failed to triangulate plot samples: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, plotWidth, plotHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	plot := image.Rect(marginLeft, marginTop, plotWidth-marginRight, plotHeight-marginBottom)
	toPxX := func(x float64) float64 {
		return float64(plot.Min.X) + (x-xMin)/(xMax-xMin)*float64(plot.Dx())
	}
	toPxY := func(y float64) float64 {
		return float64(plot.Max.Y) - (y-yMin)/(yMax-yMin)*float64(plot.Dy())
	}

	px := make([]float64, len(xs))
	py := make([]float64, len(ys))
	for i := range xs {
		px[i] = toPxX(xs[i])
		py[i] = toPxY(ys[i])
	}
	for t := 0; t < len(tri.Triangles); t += 3 {
		a, b, c := tri.Triangles[t], tri.Triangles[t+1], tri.Triangles[t+2]
		fillTriangle(img, px[a], py[a], depth[a], px[b], py[b], depth[b], px[c], py[c], depth[c])
	}

	drawFrame(img, plot)
	drawAxes(img, plot, xMin, xMax, yMin, yMax, xLabel, yLabel)
	drawColorbar(img, plot)

	for _, seg := range limit {
		sx := make([]float64, seg.Len())
		sy := make([]float64, seg.Len())
		for i := range seg.X {
			sx[i] = toPxX(seg.X[i])
			sy[i] = toPxY(seg.Y[i])
		}
		drawDashedPolyline(img, sx, sy, contourRed)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode plot: %w", err)
	}
	return nil
}

// fillTriangle paints every pixel whose center falls inside the triangle,
// interpolating depth barycentrically. Pixel coordinates are an affine
// image of the data plane, so barycentric weights agree in both frames.
func fillTriangle(img *image.RGBA, x0, y0, d0, x1, y1, d1, x2, y2, d2 float64) {
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if math.Abs(det) < 1e-12 {
		return
	}
	minX := int(math.Floor(min3(x0, x1, x2)))
	maxX := int(math.Ceil(max3(x0, x1, x2)))
	minY := int(math.Floor(min3(y0, y1, y2)))
	maxY := int(math.Ceil(max3(y0, y1, y2)))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			fx := float64(x) + 0.5
			fy := float64(y) + 0.5
			w0 := ((y1-y2)*(fx-x2) + (x2-x1)*(fy-y2)) / det
			w1 := ((y2-y0)*(fx-x2) + (x0-x2)*(fy-y2)) / det
			w2 := 1 - w0 - w1
			if w0 < -1e-9 || w1 < -1e-9 || w2 < -1e-9 {
				continue
			}
			img.SetRGBA(x, y, depthColor(w0*d0+w1*d1+w2*d2))
		}
	}
}

// depthColor maps a depth value onto the diagnostic scale. Band zero sits
// at the exclusion boundary in dark blue and shades to near-white at
// depth 10; deeper values clamp to the last band.
func depthColor(depth float64) color.RGBA {
	if depth < 1 {
		return notExcluded
	}
	band := int((depth - 1) / 0.9)
	if band > 9 {
		band = 9
	}
	t := float64(band) / 9
	lerp := func(a, b float64) uint8 {
		return uint8(math.Round(a + t*(b-a)))
	}
	return color.RGBA{R: lerp(8, 247), G: lerp(48, 251), B: lerp(107, 255), A: 255}
}

func drawFrame(img *image.RGBA, r image.Rectangle) {
	for x := r.Min.X; x <= r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, axisBlack)
		img.SetRGBA(x, r.Max.Y, axisBlack)
	}
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, axisBlack)
		img.SetRGBA(r.Max.X, y, axisBlack)
	}
}

func drawAxes(img *image.RGBA, plot image.Rectangle, xMin, xMax, yMin, yMax float64, xLabel, yLabel string) {
	face := basicfont.Face7x13
	for i := 0; i <= 4; i++ {
		frac := float64(i) / 4

		tickX := plot.Min.X + int(math.Round(frac*float64(plot.Dx())))
		for y := plot.Max.Y + 1; y <= plot.Max.Y+4; y++ {
			img.SetRGBA(tickX, y, axisBlack)
		}
		xText := fmt.Sprintf("%.4g", xMin+frac*(xMax-xMin))
		drawLabel(img, tickX-font.MeasureString(face, xText).Round()/2, plot.Max.Y+18, xText)

		tickY := plot.Max.Y - int(math.Round(frac*float64(plot.Dy())))
		for x := plot.Min.X - 4; x < plot.Min.X; x++ {
			img.SetRGBA(x, tickY, axisBlack)
		}
		yText := fmt.Sprintf("%.4g", yMin+frac*(yMax-yMin))
		drawLabel(img, plot.Min.X-8-font.MeasureString(face, yText).Round(), tickY+4, yText)
	}

	xw := font.MeasureString(face, xLabel).Round()
	drawLabel(img, plot.Min.X+(plot.Dx()-xw)/2, plotHeight-12, xLabel)
	drawLabel(img, 8, plot.Min.Y-10, yLabel)
}

// drawColorbar paints the band scale 0..10 bottom to top in a strip right
// of the plot area, with integer tick labels.
func drawColorbar(img *image.RGBA, plot image.Rectangle) {
	barLeft := plot.Max.X + 25
	barRight := barLeft + 20
	for y := plot.Min.Y; y <= plot.Max.Y; y++ {
		c := depthColor(10 * float64(plot.Max.Y-y) / float64(plot.Dy()))
		for x := barLeft; x <= barRight; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	drawFrame(img, image.Rect(barLeft, plot.Min.Y, barRight, plot.Max.Y))

	for tick := 0; tick <= 10; tick++ {
		y := plot.Max.Y - tick*plot.Dy()/10
		for x := barRight + 1; x <= barRight+4; x++ {
			img.SetRGBA(x, y, axisBlack)
		}
		drawLabel(img, barRight+7, y+4, strconv.Itoa(tick))
	}
}

func drawDashedPolyline(img *image.RGBA, xs, ys []float64, col color.RGBA) {
	const dashOn, dashOff = 6.0, 4.0
	const period = dashOn + dashOff
	phase := 0.0
	for i := 1; i < len(xs); i++ {
		dx := xs[i] - xs[i-1]
		dy := ys[i] - ys[i-1]
		segLen := math.Hypot(dx, dy)
		steps := int(segLen) + 1
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			if math.Mod(phase+t*segLen, period) < dashOn {
				img.SetRGBA(int(math.Round(xs[i-1]+t*dx)), int(math.Round(ys[i-1]+t*dy)), col)
			}
		}
		phase = math.Mod(phase+segLen, period)
	}
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }
