// Package couplingscan reweights dijet exclusion limits between simplified
// dark-matter models, following the DMWG coupling-scan recipe: a dijet
// limit fixes the excluded signal strength gq^2 * BR(qq) as a function of
// mediator mass, and a candidate model point is excluded as deeply as its
// own gq^2 * BR(qq) exceeds that of the source model at the same mass.
package couplingscan

import (
	"fmt"
	"sort"
)

// Coupling structure tags of the spin-1 mediator.
const (
	CouplingVector = "vector"
	CouplingAxial  = "axial"
)

func validCoupling(c string) bool {
	return c == CouplingVector || c == CouplingAxial
}

// DijetLimitConfig describes a source dijet limit: quark-coupling upper
// limits versus mediator mass for one fixed source model. ECM is the
// squared center-of-mass energy in GeV^2 and PDFSet names the parton
// densities; both are recorded for provenance and only enter jet-level
// reweightings, not the dijet branching ratios.
type DijetLimitConfig struct {
	Mmed     []float64
	GqLimits []float64
	Mdm      []float64
	Gdm      float64
	Gl       float64
	Coupling string
	ECM      float64
	PDFSet   string
}

// DijetLimit is a validated source limit, ordered by mediator mass.
type DijetLimit struct {
	mmed     []float64
	gqLimits []float64
	mdm      []float64
	gdm      float64
	gl       float64
	coupling string
	ecm      float64
	pdfSet   string
}

func NewDijetLimit(cfg DijetLimitConfig) (*DijetLimit, error) {
	n := len(cfg.Mmed)
	if n == 0 {
		return nil, fmt.Errorf("source limit has no points")
	}
	if len(cfg.GqLimits) != n {
		return nil, fmt.Errorf("gq limits have %d entries, expected %d", len(cfg.GqLimits), n)
	}
	if len(cfg.Mdm) != n {
		return nil, fmt.Errorf("mdm has %d entries, expected %d", len(cfg.Mdm), n)
	}
	if !validCoupling(cfg.Coupling) {
		return nil, fmt.Errorf("coupling must be %q or %q, got %q", CouplingVector, CouplingAxial, cfg.Coupling)
	}
	for i := 0; i < n; i++ {
		if cfg.Mmed[i] <= 0 {
			return nil, fmt.Errorf("mediator mass at index %d is %g, expected positive", i, cfg.Mmed[i])
		}
		if cfg.GqLimits[i] <= 0 {
			return nil, fmt.Errorf("gq limit at index %d is %g, expected positive", i, cfg.GqLimits[i])
		}
	}

	l := &DijetLimit{
		mmed:     append([]float64(nil), cfg.Mmed...),
		gqLimits: append([]float64(nil), cfg.GqLimits...),
		mdm:      append([]float64(nil), cfg.Mdm...),
		gdm:      cfg.Gdm,
		gl:       cfg.Gl,
		coupling: cfg.Coupling,
		ecm:      cfg.ECM,
		pdfSet:   cfg.PDFSet,
	}
	sort.Sort(byMass{l})
	return l, nil
}

// ScanConfig describes the grid of target-model points to evaluate: five
// parallel per-point slices plus the target coupling structure.
type ScanConfig struct {
	Mmed     []float64
	Mdm      []float64
	Gq       []float64
	Gdm      []float64
	Gl       []float64
	Coupling string
	ECM      float64
	PDFSet   string
}

// Scan is a validated grid of target points.
type Scan struct {
	mmed     []float64
	mdm      []float64
	gq       []float64
	gdm      []float64
	gl       []float64
	coupling string
	ecm      float64
	pdfSet   string
}

func NewScan(cfg ScanConfig) (*Scan, error) {
	n := len(cfg.Mmed)
	if n == 0 {
		return nil, fmt.Errorf("scan grid has no points")
	}
	for _, col := range []struct {
		name   string
		values []float64
	}{
		{"mdm", cfg.Mdm},
		{"gq", cfg.Gq},
		{"gdm", cfg.Gdm},
		{"gl", cfg.Gl},
	} {
		if len(col.values) != n {
			return nil, fmt.Errorf("%s has %d entries, expected %d", col.name, len(col.values), n)
		}
	}
	if !validCoupling(cfg.Coupling) {
		return nil, fmt.Errorf("coupling must be %q or %q, got %q", CouplingVector, CouplingAxial, cfg.Coupling)
	}
	for i, m := range cfg.Mmed {
		if m <= 0 {
			return nil, fmt.Errorf("mediator mass at index %d is %g, expected positive", i, m)
		}
	}

	return &Scan{
		mmed:     append([]float64(nil), cfg.Mmed...),
		mdm:      append([]float64(nil), cfg.Mdm...),
		gq:       append([]float64(nil), cfg.Gq...),
		gdm:      append([]float64(nil), cfg.Gdm...),
		gl:       append([]float64(nil), cfg.Gl...),
		coupling: cfg.Coupling,
		ecm:      cfg.ECM,
		pdfSet:   cfg.PDFSet,
	}, nil
}

// Len returns the number of scan points.
func (s *Scan) Len() int { return len(s.mmed) }

// Mmed returns a copy of the mediator-mass column.
func (s *Scan) Mmed() []float64 { return append([]float64(nil), s.mmed...) }

// Mdm returns a copy of the dark-matter-mass column.
func (s *Scan) Mdm() []float64 { return append([]float64(nil), s.mdm...) }

// Gq returns a copy of the quark-coupling column.
func (s *Scan) Gq() []float64 { return append([]float64(nil), s.gq...) }

// Gdm returns a copy of the dark-matter-coupling column.
func (s *Scan) Gdm() []float64 { return append([]float64(nil), s.gdm...) }

// Gl returns a copy of the lepton-coupling column.
func (s *Scan) Gl() []float64 { return append([]float64(nil), s.gl...) }

// Coupling returns the coupling structure tag.
func (s *Scan) Coupling() string { return s.coupling }

// ExtractExclusionDepths evaluates every scan point against the source
// limit. A depth of exactly 1 marks the exclusion boundary; larger values
// are more excluded. The source limit is interpolated linearly in mediator
// mass and clamped at its ends.
func (l *DijetLimit) ExtractExclusionDepths(s *Scan) ([]float64, error) {
	depths := make([]float64, s.Len())
	for i := range depths {
		m := s.mmed[i]
		gqLim := interpolate(l.mmed, l.gqLimits, m)
		mdmSrc := interpolate(l.mmed, l.mdm, m)

		brSource := branchingToQuarks(l.coupling, m, gqLim, l.gdm, l.gl, mdmSrc)
		excludedSignal := gqLim * gqLim * brSource
		if excludedSignal == 0 {
			return nil, fmt.Errorf("source limit has no quark branching at mmed=%g", m)
		}

		brTarget := branchingToQuarks(s.coupling, m, s.gq[i], s.gdm[i], s.gl[i], s.mdm[i])
		depths[i] = s.gq[i] * s.gq[i] * brTarget / excludedSignal
	}
	return depths, nil
}

// interpolate evaluates the piecewise-linear function through (xs, ys) at
// x, clamping outside the covered range. xs is sorted ascending.
func interpolate(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	hi := sort.SearchFloat64s(xs, x)
	if xs[hi] == x {
		return ys[hi]
	}
	lo := hi - 1
	frac := (x - xs[lo]) / (xs[hi] - xs[lo])
	return ys[lo] + frac*(ys[hi]-ys[lo])
}

// byMass sorts a DijetLimit's parallel slices by mediator mass.
type byMass struct{ l *DijetLimit }

func (b byMass) Len() int           { return len(b.l.mmed) }
func (b byMass) Less(i, j int) bool { return b.l.mmed[i] < b.l.mmed[j] }
func (b byMass) Swap(i, j int) {
	b.l.mmed[i], b.l.mmed[j] = b.l.mmed[j], b.l.mmed[i]
	b.l.gqLimits[i], b.l.gqLimits[j] = b.l.gqLimits[j], b.l.gqLimits[i]
	b.l.mdm[i], b.l.mdm[j] = b.l.mdm[j], b.l.mdm[i]
}
