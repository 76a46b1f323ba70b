package contour

// Segment is one continuous polyline in the (x, y) plane. X and Y always
// have the same length; closed rings repeat their first vertex at the end.
type Segment struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Len returns the number of vertices in the segment.
func (s Segment) Len() int { return len(s.X) }

// Contour is an ordered collection of segments produced by one extraction
// call. Zero segments means no crossing was found.
type Contour []Segment

// TotalVertices sums the vertex counts across all segments.
func (c Contour) TotalVertices() int {
	total := 0
	for _, seg := range c {
		total += seg.Len()
	}
	return total
}
