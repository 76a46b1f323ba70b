// Package rescale drives the limit conversion: it spans a grid of
// candidate quark couplings over the source limit's mediator masses, asks
// the reweighting scanner for an exclusion depth at every grid point, and
// extracts the depth-1 contour as the target benchmark's limit.
package rescale

import (
	"fmt"

	"limit-rescaling/benchmarks"
	"limit-rescaling/contour"
	"limit-rescaling/couplingscan"
	"limit-rescaling/exclusion"
	"limit-rescaling/utils"
)

// Default candidate-coupling scan range. The range must bracket the target
// model's true limit or the depth never crosses 1 inside the grid; widen it
// via flags or the GQ_SCAN_* environment variables when rescaling limits
// that live elsewhere.
const (
	DefaultGqLow   = 0.1
	DefaultGqHigh  = 0.2
	DefaultGqSteps = 51
)

// exclusion depth 1 is the 95%-CL boundary
const exclusionThreshold = 1.0

// ScanRange spans Count evenly spaced candidate couplings over [Low, High].
type ScanRange struct {
	Low   float64
	High  float64
	Count int
}

// DefaultScanRange returns the stock dijet scan range.
func DefaultScanRange() ScanRange {
	return ScanRange{Low: DefaultGqLow, High: DefaultGqHigh, Count: DefaultGqSteps}
}

// Values materializes the range with exact endpoints.
func (r ScanRange) Values() ([]float64, error) {
	if r.Count < 2 {
		return nil, fmt.Errorf("scan range needs at least 2 points, got %d", r.Count)
	}
	if r.High <= r.Low {
		return nil, fmt.Errorf("scan range high %g must exceed low %g", r.High, r.Low)
	}
	values := make([]float64, r.Count)
	step := (r.High - r.Low) / float64(r.Count-1)
	for i := range values {
		values[i] = r.Low + float64(i)*step
	}
	values[r.Count-1] = r.High
	return values, nil
}

// DepthScanner computes one exclusion depth per target-model grid point.
// couplingscan.DijetLimit is the production implementation.
type DepthScanner interface {
	ExtractExclusionDepths(*couplingscan.Scan) ([]float64, error)
}

// Config carries everything the driver needs besides the scanner itself.
type Config struct {
	// Mmed lists the source limit's mediator masses; the scan grid spans
	// these masses against the candidate couplings.
	Mmed []float64
	// Target fixes gdm, gl, the mdm fraction and the coupling structure
	// of the model the limit is rescaled to.
	Target benchmarks.Benchmark
	Range  ScanRange
	// ECM is the squared center-of-mass energy in GeV^2 and PDFSet the
	// parton-density name, both copied through to the scanner.
	ECM      float64
	PDFSet   string
	PlotPath string
}

// Rescale produces the target benchmark's 95%-CL limit contour in the
// (mediator mass, quark coupling) plane.
func Rescale(scanner DepthScanner, cfg Config) (contour.Contour, error) {
	if len(cfg.Mmed) == 0 {
		return nil, fmt.Errorf("no mediator masses to scan")
	}
	gqValues, err := cfg.Range.Values()
	if err != nil {
		return nil, err
	}

	// mass-major grid: every candidate coupling at the first mass, then
	// the second, and so on
	n := len(cfg.Mmed) * len(gqValues)
	gridMmed := make([]float64, 0, n)
	gridMdm := make([]float64, 0, n)
	gridGq := make([]float64, 0, n)
	for _, m := range cfg.Mmed {
		for _, gq := range gqValues {
			gridMmed = append(gridMmed, m)
			gridMdm = append(gridMdm, cfg.Target.MdmFraction*m)
			gridGq = append(gridGq, gq)
		}
	}

	scan, err := couplingscan.NewScan(couplingscan.ScanConfig{
		Mmed:     gridMmed,
		Mdm:      gridMdm,
		Gq:       gridGq,
		Gdm:      constants(cfg.Target.Gdm, n),
		Gl:       constants(cfg.Target.Gl, n),
		Coupling: cfg.Target.Coupling,
		ECM:      cfg.ECM,
		PDFSet:   cfg.PDFSet,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build scan grid: %w", err)
	}

	utils.GetLogger().Info("scanning exclusion depths",
		"masses", len(cfg.Mmed), "couplings", len(gqValues),
		"gq_low", cfg.Range.Low, "gq_high", cfg.Range.High,
		"coupling", cfg.Target.Coupling)
	depths, err := scanner.ExtractExclusionDepths(scan)
	if err != nil {
		return nil, fmt.Errorf("depth scan failed: %w", err)
	}
	if len(depths) != n {
		return nil, fmt.Errorf("depth scan returned %d values for %d grid points", len(depths), n)
	}

	samples, err := exclusion.NewSampleSet(gridMmed, gridMdm, gridGq,
		[]float64{cfg.Target.Gdm}, []float64{cfg.Target.Gl}, depths)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble depth grid: %w", err)
	}
	return exclusion.NewCalculator(samples).
		ComputeExclusion(exclusion.FieldMmed, exclusion.FieldGq, exclusionThreshold, cfg.PlotPath)
}

func constants(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
