package contour

import (
	"limit-rescaling/utils"
)

// Closed-contour mode returns the boundary of the region where depth lies
// inside the band (lo, hi]. The boundary is assembled from three kinds of
// pieces: iso-line chains at the upper level, iso-line chains at the lower
// level, and runs along the convex hull where the hull itself sits inside
// the band. Pieces meet only at hull crossings, so they are stitched by
// exact junction identity rather than coordinate tolerance. Interior
// iso-line loops bound islands and are emitted as rings of their own.

type piece struct {
	xs, ys     []float64
	start, end junction
	used       bool
}

func (p *piece) push(x, y float64) {
	n := len(p.xs)
	if n > 0 && p.xs[n-1] == x && p.ys[n-1] == y {
		return
	}
	p.xs = append(p.xs, x)
	p.ys = append(p.ys, y)
}

func (t *tracer) bandBoundary(lo, hi float64) []Segment {
	var segments []Segment
	var pieces []piece

	for levelIdx, level := range [2]float64{lo, hi} {
		for _, ch := range t.chains(level) {
			if ch.closed() {
				segments = appendSegment(segments, ch.xs, ch.ys)
				continue
			}
			end := noJunction
			if ch.endEdge != -1 {
				end = junction{edge: ch.endEdge, level: levelIdx}
			}
			pieces = append(pieces, piece{
				xs:    ch.xs,
				ys:    ch.ys,
				start: junction{edge: ch.startEdge, level: levelIdx},
				end:   end,
			})
		}
	}

	runs, fullHull := t.hullRuns(lo, hi)
	if fullHull != nil {
		segments = appendSegment(segments, fullHull.xs, fullHull.ys)
	}
	pieces = append(pieces, runs...)

	for _, ring := range assembleRings(pieces) {
		segments = appendSegment(segments, ring.xs, ring.ys)
	}
	return segments
}

// hullRuns walks the convex hull once and collects the stretches lying
// inside the band. When the whole hull is inside and no level crossing
// exists anywhere on it, the single closed hull ring is returned separately.
func (t *tracer) hullRuns(lo, hi float64) ([]piece, *piece) {
	cycle := t.hullCycle()
	if cycle == nil {
		return nil, nil
	}

	inBand := func(vertex int) bool {
		d := t.depth[vertex]
		return d > lo && d <= hi
	}

	var runs []piece
	var current *piece

	bootstrap := inBand(t.triangles[cycle[0]])
	if bootstrap {
		current = &piece{start: noJunction, end: noJunction}
		first := t.points[t.triangles[cycle[0]]]
		current.push(first.X, first.Y)
	}

	for _, e := range cycle {
		a := t.triangles[e]
		b := t.triangles[nextHalfedge(e)]
		da := t.depth[a]
		db := t.depth[b]

		type event struct {
			s    float64
			key  junction
			x, y float64
		}
		var events []event
		for levelIdx, level := range [2]float64{lo, hi} {
			if t.above(a, level) == t.above(b, level) {
				continue
			}
			x, y := t.crossPoint(e, level)
			events = append(events, event{
				s:   (level - da) / (db - da),
				key: junction{edge: e, level: levelIdx},
				x:   x,
				y:   y,
			})
		}
		if len(events) == 2 && events[1].s < events[0].s {
			events[0], events[1] = events[1], events[0]
		}

		for _, ev := range events {
			if current != nil {
				current.push(ev.x, ev.y)
				current.end = ev.key
				runs = append(runs, *current)
				current = nil
			} else {
				current = &piece{start: ev.key, end: noJunction}
				current.push(ev.x, ev.y)
			}
		}

		if current != nil {
			pb := t.points[b]
			current.push(pb.X, pb.Y)
		}
	}

	if current == nil {
		return runs, nil
	}

	if len(runs) == 0 {
		// the whole hull lies inside the band; the walk already closed
		// the ring back onto its first vertex
		return nil, current
	}

	// the walk wrapped mid-run: splice the tail onto the bootstrap run
	head := runs[0]
	merged := piece{start: current.start, end: head.end}
	merged.xs = append(merged.xs, current.xs...)
	merged.ys = append(merged.ys, current.ys...)
	for i := 1; i < len(head.xs); i++ {
		merged.push(head.xs[i], head.ys[i])
	}
	runs[0] = merged
	return runs, nil
}

// assembleRings stitches chains and hull runs into closed rings by matching
// junction identities. A junction is shared by exactly two pieces; missing
// partners (possible only on pathological input) leave an open segment,
// which is emitted as-is.
func assembleRings(pieces []piece) []piece {
	index := make(map[junction][]int)
	for i := range pieces {
		if pieces[i].start != noJunction {
			index[pieces[i].start] = append(index[pieces[i].start], i)
		}
		if pieces[i].end != noJunction {
			index[pieces[i].end] = append(index[pieces[i].end], i)
		}
	}

	takeAt := func(key junction) int {
		for _, j := range index[key] {
			if !pieces[j].used {
				return j
			}
		}
		return -1
	}

	var rings []piece
	for i := range pieces {
		if pieces[i].used {
			continue
		}
		pieces[i].used = true
		ring := piece{start: pieces[i].start}
		ring.xs = append(ring.xs, pieces[i].xs...)
		ring.ys = append(ring.ys, pieces[i].ys...)

		for cur := pieces[i].end; cur != ring.start && cur != noJunction; {
			j := takeAt(cur)
			if j == -1 {
				utils.GetLogger().Warn("unmatched contour junction, emitting open boundary piece", "edge", cur.edge)
				break
			}
			pieces[j].used = true
			q := &pieces[j]
			if q.start == cur {
				for k := 1; k < len(q.xs); k++ {
					ring.push(q.xs[k], q.ys[k])
				}
				cur = q.end
			} else {
				for k := len(q.xs) - 2; k >= 0; k-- {
					ring.push(q.xs[k], q.ys[k])
				}
				cur = q.start
			}
		}
		rings = append(rings, ring)
	}
	return rings
}

func appendSegment(segments []Segment, xs, ys []float64) []Segment {
	if len(xs) == 0 {
		utils.GetLogger().Warn("skipping empty path segment!")
		return segments
	}
	segment := Segment{
		X: append([]float64(nil), xs...),
		Y: append([]float64(nil), ys...),
	}
	return append(segments, segment)
}
