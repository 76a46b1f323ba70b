// Package exclusion validates coupling-scan sample sets and computes
// 95%-CL exclusion contours from their depth values, rendering a heatmap
// diagnostic alongside each extraction.
package exclusion

import (
	"errors"
	"fmt"
)

// Field selects one named column of a SampleSet.
type Field string

const (
	FieldMmed Field = "mmed"
	FieldMdm  Field = "mdm"
	FieldGq   Field = "gq"
	FieldGdm  Field = "gdm"
	FieldGl   Field = "gl"
)

// ErrUnknownField is returned when a Field does not name a sample column.
var ErrUnknownField = errors.New("unknown sample field")

// SampleSet holds one scan of model points. The mass and depth columns
// share a common length; coupling columns either match it or hold a single
// value broadcast across all points. The constructor copies every input,
// so a SampleSet never aliases caller memory.
type SampleSet struct {
	n     int
	mmed  []float64
	mdm   []float64
	gq    []float64
	gdm   []float64
	gl    []float64
	depth []float64
}

// NewSampleSet validates the column shapes and builds an immutable sample
// set. Shape violations are configuration errors and fail here, before any
// contour work happens.
func NewSampleSet(mmed, mdm, gq, gdm, gl, depth []float64) (*SampleSet, error) {
	n := len(mmed)
	if n == 0 {
		return nil, errors.New("sample set has no points")
	}
	if len(mdm) != n {
		return nil, fmt.Errorf("mdm has %d entries, expected %d", len(mdm), n)
	}
	if len(depth) != n {
		return nil, fmt.Errorf("exclusion depth has %d entries, expected %d", len(depth), n)
	}
	for _, col := range []struct {
		name   string
		values []float64
	}{
		{"gq", gq},
		{"gdm", gdm},
		{"gl", gl},
	} {
		if len(col.values) != n && len(col.values) != 1 {
			return nil, fmt.Errorf("%s has %d entries, expected %d or a single broadcast value",
				col.name, len(col.values), n)
		}
	}

	return &SampleSet{
		n:     n,
		mmed:  copyColumn(mmed),
		mdm:   copyColumn(mdm),
		gq:    copyColumn(gq),
		gdm:   copyColumn(gdm),
		gl:    copyColumn(gl),
		depth: copyColumn(depth),
	}, nil
}

// Len returns the number of sample points.
func (s *SampleSet) Len() int { return s.n }

// Depth returns the exclusion depth column.
func (s *SampleSet) Depth() []float64 { return s.depth }

// Values resolves a field selector to its column, expanding singleton
// coupling columns to the common length.
func (s *SampleSet) Values(f Field) ([]float64, error) {
	var col []float64
	switch f {
	case FieldMmed:
		col = s.mmed
	case FieldMdm:
		col = s.mdm
	case FieldGq:
		col = s.gq
	case FieldGdm:
		col = s.gdm
	case FieldGl:
		col = s.gl
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	if len(col) == 1 && s.n > 1 {
		expanded := make([]float64, s.n)
		for i := range expanded {
			expanded[i] = col[0]
		}
		return expanded, nil
	}
	return col, nil
}

func copyColumn(values []float64) []float64 {
	return append([]float64(nil), values...)
}
