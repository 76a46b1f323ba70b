package rescale

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"limit-rescaling/benchmarks"
	"limit-rescaling/couplingscan"
)

// quadraticScanner excludes like a pure gq^2 signal with its boundary at a
// fixed coupling, independent of mass.
type quadraticScanner struct {
	boundary float64
}

func (q quadraticScanner) ExtractExclusionDepths(s *couplingscan.Scan) ([]float64, error) {
	gq := s.Gq()
	depths := make([]float64, s.Len())
	for i := range depths {
		r := gq[i] / q.boundary
		depths[i] = r * r
	}
	return depths, nil
}

// recordingScanner captures the grid it was handed and reports nothing
// excluded.
type recordingScanner struct {
	scan *couplingscan.Scan
}

func (r *recordingScanner) ExtractExclusionDepths(s *couplingscan.Scan) ([]float64, error) {
	r.scan = s
	return make([]float64, s.Len()), nil
}

type failingScanner struct{ err error }

func (f failingScanner) ExtractExclusionDepths(s *couplingscan.Scan) ([]float64, error) {
	return nil, f.err
}

func TestRescaleFindsBoundaryCoupling(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Mmed:     []float64{500, 1000, 1500, 2000},
		Target:   mustBenchmark(t),
		Range:    DefaultScanRange(),
		ECM:      13000 * 13000,
		PDFSet:   "NNPDF31_nnlo_as_0118",
		PlotPath: filepath.Join(t.TempDir(), "validation.png"),
	}

	limit, err := Rescale(quadraticScanner{boundary: 0.15}, cfg)
	if err != nil {
		t.Fatalf("Rescale returned error: %v", err)
	}
	if len(limit) == 0 {
		t.Fatalf("expected a rescaled contour, got none")
	}
	for i, seg := range limit {
		if len(seg.X) != len(seg.Y) {
			t.Fatalf("segment %d: len(x)=%d len(y)=%d", i, len(seg.X), len(seg.Y))
		}
		for _, gq := range seg.Y {
			if math.Abs(gq-0.15) > 0.003 {
				t.Fatalf("segment %d crosses at gq=%v, expected near 0.15", i, gq)
			}
		}
	}

	if _, err := os.Stat(cfg.PlotPath); err != nil {
		t.Fatalf("validation plot was not written: %v", err)
	}
}

func TestRescaleBuildsMassMajorGrid(t *testing.T) {
	t.Parallel()

	target := mustBenchmark(t)
	scanner := &recordingScanner{}
	cfg := Config{
		Mmed:     []float64{600, 900},
		Target:   target,
		Range:    ScanRange{Low: 0.1, High: 0.2, Count: 3},
		PlotPath: filepath.Join(t.TempDir(), "validation.png"),
	}

	if _, err := Rescale(scanner, cfg); err != nil {
		t.Fatalf("Rescale returned error: %v", err)
	}
	if scanner.scan == nil {
		t.Fatalf("scanner was never invoked")
	}

	wantMmed := []float64{600, 600, 600, 900, 900, 900}
	wantGq := []float64{0.1, 0.15, 0.2, 0.1, 0.15, 0.2}
	gotMmed := scanner.scan.Mmed()
	gotGq := scanner.scan.Gq()
	gotMdm := scanner.scan.Mdm()
	gotGdm := scanner.scan.Gdm()

	if len(gotMmed) != len(wantMmed) {
		t.Fatalf("grid has %d points, expected %d", len(gotMmed), len(wantMmed))
	}
	for i := range wantMmed {
		if gotMmed[i] != wantMmed[i] {
			t.Fatalf("grid mmed[%d] = %v, expected %v", i, gotMmed[i], wantMmed[i])
		}
		if math.Abs(gotGq[i]-wantGq[i]) > 1e-12 {
			t.Fatalf("grid gq[%d] = %v, expected %v", i, gotGq[i], wantGq[i])
		}
		if gotMdm[i] != target.MdmFraction*wantMmed[i] {
			t.Fatalf("grid mdm[%d] = %v, expected fraction %v of %v", i, gotMdm[i], target.MdmFraction, wantMmed[i])
		}
		if gotGdm[i] != target.Gdm {
			t.Fatalf("grid gdm[%d] = %v, expected %v", i, gotGdm[i], target.Gdm)
		}
	}
	if scanner.scan.Coupling() != target.Coupling {
		t.Fatalf("scan coupling = %q, expected %q", scanner.scan.Coupling(), target.Coupling)
	}
}

func TestRescalePropagatesScannerFailure(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("no pdf set")
	cfg := Config{
		Mmed:     []float64{500, 1000},
		Target:   mustBenchmark(t),
		Range:    DefaultScanRange(),
		PlotPath: filepath.Join(t.TempDir(), "validation.png"),
	}

	_, err := Rescale(failingScanner{err: sentinel}, cfg)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected scanner error to propagate, got %v", err)
	}
}

func TestScanRangeValues(t *testing.T) {
	t.Parallel()

	values, err := ScanRange{Low: 0.1, High: 0.2, Count: 51}.Values()
	if err != nil {
		t.Fatalf("Values returned error: %v", err)
	}
	if len(values) != 51 {
		t.Fatalf("expected 51 values, got %d", len(values))
	}
	if values[0] != 0.1 || values[50] != 0.2 {
		t.Fatalf("endpoints are %v and %v, expected exact 0.1 and 0.2", values[0], values[50])
	}
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			t.Fatalf("values not increasing at %d: %v then %v", i, values[i-1], values[i])
		}
	}

	if _, err := (ScanRange{Low: 0.1, High: 0.2, Count: 1}).Values(); err == nil {
		t.Fatalf("expected error for a single-point range")
	}
	if _, err := (ScanRange{Low: 0.2, High: 0.1, Count: 10}).Values(); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func mustBenchmark(t *testing.T) benchmarks.Benchmark {
	t.Helper()
	b, err := benchmarks.Lookup("minimal_dark_photon")
	if err != nil {
		t.Fatalf("benchmark lookup failed: %v", err)
	}
	return b
}
