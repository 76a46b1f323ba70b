// Package contour extracts threshold crossings from scattered 2D samples.
// Samples are triangulated and the depth field is interpolated linearly over
// each triangle, so crossings are exact piecewise-linear iso-lines rather
// than grid approximations.
package contour

import (
	"fmt"
	"sort"

	"github.com/fogleman/delaunay"

	"limit-rescaling/utils"
)

// Extract locates where depth crosses threshold over the scattered (x, y)
// samples. In open mode the iso-line at exactly the threshold level is
// returned, one segment per connected piece. In closed mode the result is
// the boundary of the region where depth lies at or below the threshold,
// returned as closed rings that repeat their first vertex.
//
// When open mode finds no crossing and every sample is at or below the
// threshold, the whole sampled plane counts as excluded and a synthetic
// horizontal segment is returned instead: the sorted unique x values at the
// minimum observed y.
func Extract(x, y, depth []float64, threshold float64, closed bool) (Contour, error) {
	if len(x) != len(y) || len(x) != len(depth) {
		return nil, fmt.Errorf("mismatched sample lengths: x=%d y=%d depth=%d", len(x), len(y), len(depth))
	}
	if len(x) < 3 {
		return nil, fmt.Errorf("need at least 3 samples to triangulate, got %d", len(x))
	}

	points := make([]delaunay.Point, len(x))
	for i := range x {
		points[i] = delaunay.Point{X: x[i], Y: y[i]}
	}
	tri, err := delaunay.Triangulate(points)
	if err != nil {
		return nil, fmt.Errorf("failed to triangulate samples: %w", err)
	}

	t := newTracer(tri, depth)

	var segments []Segment
	if closed {
		segments = t.bandBoundary(0, threshold)
	} else {
		for _, ch := range t.chains(threshold) {
			segments = appendSegment(segments, ch.xs, ch.ys)
		}
		if len(segments) == 0 && allAtOrBelow(depth, threshold) {
			utils.GetLogger().Warn("whole sampled plane is excluded, returning flat fallback contour",
				"threshold", threshold)
			segments = append(segments, fallbackSegment(x, y))
		}
	}

	return Contour(segments), nil
}

func allAtOrBelow(depth []float64, threshold float64) bool {
	for _, d := range depth {
		if d > threshold {
			return false
		}
	}
	return true
}

// fallbackSegment spans the sorted unique x values at the minimum y. It
// stands in for a limit curve lying entirely outside the sampled region.
func fallbackSegment(x, y []float64) Segment {
	seen := make(map[float64]struct{}, len(x))
	xs := make([]float64, 0, len(x))
	for _, v := range x {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		xs = append(xs, v)
	}
	sort.Float64s(xs)

	yMin := y[0]
	for _, v := range y[1:] {
		if v < yMin {
			yMin = v
		}
	}
	ys := make([]float64, len(xs))
	for i := range ys {
		ys[i] = yMin
	}
	return Segment{X: xs, Y: ys}
}
