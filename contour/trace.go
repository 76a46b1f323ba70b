package contour

import (
	"github.com/fogleman/delaunay"
)

// The tracer walks a Delaunay triangulation and recovers level crossings.
// Depth is interpolated linearly over each triangle, so an iso-line enters
// and leaves a triangle through exactly two of its edges. Chains are walked
// edge-to-edge through the halfedge structure: a chain either runs from one
// convex-hull edge to another or closes into a loop. A vertex counts as
// above a level only when its depth is strictly greater, which keeps the
// edge classification unambiguous when samples sit exactly on the level.

// junction identifies a crossing point on a hull halfedge at one of the two
// band levels. Crossing coordinates are always computed from the canonical
// halfedge, so pieces meeting at a junction share bit-identical endpoints.
type junction struct {
	edge  int
	level int
}

var noJunction = junction{edge: -1, level: -1}

type tracer struct {
	points    []delaunay.Point
	depth     []float64
	triangles []int
	halfedges []int
}

func newTracer(tri *delaunay.Triangulation, depth []float64) *tracer {
	return &tracer{
		points:    tri.Points,
		depth:     depth,
		triangles: tri.Triangles,
		halfedges: tri.Halfedges,
	}
}

func nextHalfedge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

func prevHalfedge(e int) int {
	if e%3 == 0 {
		return e + 2
	}
	return e - 1
}

// canonical maps a halfedge to the lower-numbered of itself and its twin so
// both triangles sharing an edge agree on one identifier.
func (t *tracer) canonical(e int) int {
	if twin := t.halfedges[e]; twin != -1 && twin < e {
		return twin
	}
	return e
}

func (t *tracer) above(vertex int, level float64) bool {
	return t.depth[vertex] > level
}

// crossing reports whether the interpolated depth passes through level
// somewhere strictly inside the halfedge.
func (t *tracer) crossing(e int, level float64) bool {
	a := t.triangles[e]
	b := t.triangles[nextHalfedge(e)]
	return t.above(a, level) != t.above(b, level)
}

// crossPoint interpolates the crossing location on the canonical direction
// of the edge containing halfedge e.
func (t *tracer) crossPoint(e int, level float64) (float64, float64) {
	c := t.canonical(e)
	a := t.triangles[c]
	b := t.triangles[nextHalfedge(c)]
	da := t.depth[a]
	db := t.depth[b]
	frac := (level - da) / (db - da)
	pa := t.points[a]
	pb := t.points[b]
	return pa.X + frac*(pb.X-pa.X), pa.Y + frac*(pb.Y-pa.Y)
}

// chain is one traced run of an iso-line. Hull-to-hull chains carry the
// hull halfedges they start and end on; loops carry -1 for both and repeat
// their first vertex at the end.
type chain struct {
	xs, ys             []float64
	startEdge, endEdge int
}

func (c *chain) closed() bool { return c.startEdge == -1 }

func (c *chain) push(x, y float64) {
	n := len(c.xs)
	if n > 0 && c.xs[n-1] == x && c.ys[n-1] == y {
		return
	}
	c.xs = append(c.xs, x)
	c.ys = append(c.ys, y)
}

// chains traces every iso-line of the given level. Hull-to-hull chains come
// first in hull scan order, then interior loops.
func (t *tracer) chains(level float64) []chain {
	visited := make([]bool, len(t.triangles))
	var out []chain

	// chains entering through the hull
	for e := range t.triangles {
		if t.halfedges[e] != -1 || visited[t.canonical(e)] || !t.crossing(e, level) {
			continue
		}
		out = append(out, t.walk(e, level, visited))
	}

	// what remains are closed loops strictly inside the hull
	for e := range t.triangles {
		if visited[t.canonical(e)] || !t.crossing(e, level) {
			continue
		}
		out = append(out, t.walk(e, level, visited))
	}

	return out
}

// walk traces a single chain starting at the crossing on halfedge start.
// It marches triangle to triangle until it leaves through the hull or
// returns to its starting edge.
func (t *tracer) walk(start int, level float64, visited []bool) chain {
	c := chain{startEdge: -1, endEdge: -1}
	if t.halfedges[start] == -1 {
		c.startEdge = start
	}

	firstX, firstY := t.crossPoint(start, level)
	c.push(firstX, firstY)
	visited[t.canonical(start)] = true

	h := start
	for {
		exit := nextHalfedge(h)
		if !t.crossing(exit, level) {
			exit = prevHalfedge(h)
		}
		if !t.crossing(exit, level) {
			// interpolation invariant broken; stop rather than spin
			break
		}

		if t.canonical(exit) == t.canonical(start) {
			// loop closed: repeat the first vertex exactly
			c.xs = append(c.xs, firstX)
			c.ys = append(c.ys, firstY)
			break
		}

		x, y := t.crossPoint(exit, level)
		c.push(x, y)
		visited[t.canonical(exit)] = true

		twin := t.halfedges[exit]
		if twin == -1 {
			c.endEdge = exit
			break
		}
		h = twin
	}

	return c
}

// hullCycle returns the hull halfedges in cycle order, or nil when the hull
// cannot be walked.
func (t *tracer) hullCycle() []int {
	outgoing := make(map[int]int)
	first := -1
	for e := range t.triangles {
		if t.halfedges[e] != -1 {
			continue
		}
		outgoing[t.triangles[e]] = e
		if first == -1 {
			first = e
		}
	}
	if first == -1 {
		return nil
	}

	cycle := make([]int, 0, len(outgoing))
	e := first
	for {
		cycle = append(cycle, e)
		next, ok := outgoing[t.triangles[nextHalfedge(e)]]
		if !ok {
			return nil
		}
		if next == first {
			return cycle
		}
		e = next
		if len(cycle) > len(outgoing) {
			return nil
		}
	}
}
