package limits

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"limit-rescaling/benchmarks"
	"limit-rescaling/contour"
)

func TestReadSourceLimitParsesFlatFile(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "limit.json", `{
		"mmed": [100, 200, 300],
		"mdm": [25, 50, 75],
		"gq_limit": [0.25, 0.125, 0.5]
	}`)

	lim, err := ReadSourceLimit(path)
	if err != nil {
		t.Fatalf("ReadSourceLimit returned error: %v", err)
	}
	wantMmed := []float64{100, 200, 300}
	for i, m := range wantMmed {
		if lim.Mmed[i] != m {
			t.Fatalf("mmed[%d]: expected %g, got %g", i, m, lim.Mmed[i])
		}
	}
	if len(lim.Mdm) != 3 || lim.Mdm[2] != 75 {
		t.Fatalf("mdm not parsed: %v", lim.Mdm)
	}
	if lim.GqLimit[1] != 0.125 {
		t.Fatalf("gq_limit[1]: expected 0.125, got %g", lim.GqLimit[1])
	}
}

func TestReadSourceLimitAllowsMissingMdm(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "limit.json", `{"mmed": [100, 200], "gq_limit": [0.1, 0.2]}`)
	lim, err := ReadSourceLimit(path)
	if err != nil {
		t.Fatalf("ReadSourceLimit returned error: %v", err)
	}
	if lim.Mdm != nil {
		t.Fatalf("expected nil mdm, got %v", lim.Mdm)
	}
}

func TestReadSourceLimitRejectsBadFiles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
	}{
		{"missing gq_limit", `{"mmed": [100, 200]}`},
		{"length mismatch", `{"mmed": [100, 200, 300], "gq_limit": [0.1, 0.2]}`},
		{"mdm length mismatch", `{"mmed": [100, 200], "mdm": [25], "gq_limit": [0.1, 0.2]}`},
		{"empty arrays", `{"mmed": [], "gq_limit": []}`},
		{"not json", `mmed gq`},
	}
	for _, tc := range cases {
		path := writeFixture(t, "bad.json", tc.content)
		if _, err := ReadSourceLimit(path); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestReadConvertibleLimitFlatFile(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "limit.json", `{
		"mmed": [100, 200, 300],
		"mdm": [25, 50, 75],
		"gq_limit": [0.1, 0.2, 0.15]
	}`)

	lim, err := ReadConvertibleLimit(path)
	if err != nil {
		t.Fatalf("ReadConvertibleLimit returned error: %v", err)
	}
	if len(lim.Mmed) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(lim.Mmed))
	}
	if len(lim.Mmed[0]) != 3 || lim.Mmed[0][2] != 300 {
		t.Fatalf("unexpected mmed track: %v", lim.Mmed[0])
	}
	if lim.Mdm[0][1] != 50 || lim.GqLimit[0][0] != 0.1 {
		t.Fatalf("tracks not parallel to mmed: mdm=%v gq=%v", lim.Mdm[0], lim.GqLimit[0])
	}
}

func TestReadConvertibleLimitNestedFile(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "limit.json", `{
		"mmed": [[100, 200], [300, 400, 500]],
		"mdm": [[25, 50], [75, 100, 125]],
		"gq_limit": [[0.1, 0.2], [0.25, 0.5, 0.75]]
	}`)

	lim, err := ReadConvertibleLimit(path)
	if err != nil {
		t.Fatalf("ReadConvertibleLimit returned error: %v", err)
	}
	if len(lim.Mmed) != 2 {
		t.Fatalf("expected 2 contours, got %d", len(lim.Mmed))
	}
	if len(lim.Mmed[1]) != 3 || lim.Mmed[1][2] != 500 {
		t.Fatalf("unexpected second contour: %v", lim.Mmed[1])
	}
	if lim.GqLimit[1][0] != 0.25 {
		t.Fatalf("gq_limit[1][0]: expected 0.25, got %g", lim.GqLimit[1][0])
	}
}

func TestReadConvertibleLimitRequiresMdm(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "limit.json", `{"mmed": [100, 200], "gq_limit": [0.1, 0.2]}`)
	_, err := ReadConvertibleLimit(path)
	if err == nil {
		t.Fatalf("expected error for missing mdm key")
	}
	if !strings.Contains(err.Error(), "mdm") {
		t.Fatalf("error does not name the missing key: %v", err)
	}
}

func TestReadConvertibleLimitRejectsShapeMismatches(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
	}{
		{"contour count", `{"mmed": [[100], [200]], "mdm": [25], "gq_limit": [[0.1], [0.2]]}`},
		{"ragged tracks", `{"mmed": [100, 200], "mdm": [25, 50], "gq_limit": [0.1]}`},
		{"mixed nesting", `{"mmed": [[100], 200], "mdm": [[25], [50]], "gq_limit": [[0.1], [0.2]]}`},
	}
	for _, tc := range cases {
		path := writeFixture(t, "bad.json", tc.content)
		if _, err := ReadConvertibleLimit(path); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestReadSourceInfoWithFraction(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "info.json", `{
		"gdm": 1.0,
		"gl": 0.0,
		"coupling": "vector",
		"pdfset": "NNPDF31_nnlo_as_0118",
		"ecm_tev": 13.0,
		"mdm_is_fraction": true,
		"mdm": 0.25
	}`)

	info, err := ReadSourceInfo(path)
	if err != nil {
		t.Fatalf("ReadSourceInfo returned error: %v", err)
	}
	if info.Gdm != 1.0 || info.Gl != 0.0 {
		t.Fatalf("unexpected couplings: gdm=%g gl=%g", info.Gdm, info.Gl)
	}
	if info.Coupling != "vector" {
		t.Fatalf("expected vector coupling, got %q", info.Coupling)
	}
	if info.EcmTev != 13.0 {
		t.Fatalf("expected ecm_tev 13, got %g", info.EcmTev)
	}
	if !info.MdmIsFraction {
		t.Fatalf("mdm_is_fraction flag not parsed")
	}

	mdm, err := info.ResolveMdm([]float64{100, 200, 400})
	if err != nil {
		t.Fatalf("ResolveMdm returned error: %v", err)
	}
	want := []float64{25, 50, 100}
	for i := range want {
		if mdm[i] != want[i] {
			t.Fatalf("mdm[%d]: expected %g, got %g", i, want[i], mdm[i])
		}
	}
}

func TestReadSourceInfoWithMassArray(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "info.json", `{
		"gdm": 1.0,
		"gl": 0.1,
		"coupling": "axial",
		"pdfset": "NNPDF31_nnlo_as_0118",
		"ecm_tev": 13.0,
		"mdm_is_fraction": false,
		"mdm": [10, 20, 30]
	}`)

	info, err := ReadSourceInfo(path)
	if err != nil {
		t.Fatalf("ReadSourceInfo returned error: %v", err)
	}

	mdm, err := info.ResolveMdm([]float64{100, 200, 300})
	if err != nil {
		t.Fatalf("ResolveMdm returned error: %v", err)
	}
	if mdm[0] != 10 || mdm[2] != 30 {
		t.Fatalf("unexpected mdm: %v", mdm)
	}

	if _, err := info.ResolveMdm([]float64{100, 200}); err == nil {
		t.Fatalf("expected error for mismatched mdm length")
	}
}

func TestReadSourceInfoRejectsBadFiles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
	}{
		{"missing ecm_tev", `{"gdm": 1, "gl": 0, "coupling": "vector", "pdfset": "x", "mdm_is_fraction": true, "mdm": 0.25}`},
		{"zero ecm_tev", `{"gdm": 1, "gl": 0, "coupling": "vector", "pdfset": "x", "ecm_tev": 0, "mdm_is_fraction": true, "mdm": 0.25}`},
		{"fraction flag with array mdm", `{"gdm": 1, "gl": 0, "coupling": "vector", "pdfset": "x", "ecm_tev": 13, "mdm_is_fraction": true, "mdm": [10, 20]}`},
		{"negative fraction", `{"gdm": 1, "gl": 0, "coupling": "vector", "pdfset": "x", "ecm_tev": 13, "mdm_is_fraction": true, "mdm": -0.5}`},
	}
	for _, tc := range cases {
		path := writeFixture(t, "info.json", tc.content)
		if _, err := ReadSourceInfo(path); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestReadSourceInfoMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := ReadSourceInfo(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSeriesMarshalShape(t *testing.T) {
	t.Parallel()

	flat, err := json.Marshal(Series{{1, 2, 3}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(flat) != "[1,2,3]" {
		t.Fatalf("expected flat array for a single track, got %s", flat)
	}

	nested, err := json.Marshal(Series{{1}, {2, 3}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(nested) != "[[1],[2,3]]" {
		t.Fatalf("expected nested arrays for two tracks, got %s", nested)
	}
}

func TestRescaledLimitWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	bench, err := benchmarks.Lookup("minimal_dark_photon")
	if err != nil {
		t.Fatalf("benchmark lookup failed: %v", err)
	}
	c := contour.Contour{
		{X: []float64{100, 200, 300}, Y: []float64{0.125, 0.25, 0.1875}},
	}
	out := NewRescaledLimit(c, "minimal_dark_photon", bench, "dijet.json")
	if out.Benchmark != "minimal_dark_photon" || out.Input != "dijet.json" {
		t.Fatalf("provenance not recorded: %+v", out)
	}

	path := filepath.Join(t.TempDir(), "nested", "rescaled.json")
	if err := out.Write(path); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	back, err := ReadConvertibleLimit(path)
	if err != nil {
		t.Fatalf("written file is not a readable limit: %v", err)
	}
	if len(back.Mmed) != 1 || len(back.Mmed[0]) != 3 {
		t.Fatalf("unexpected shape after round trip: %v", back.Mmed)
	}
	if back.Mmed[0][1] != 200 {
		t.Fatalf("mmed[1]: expected 200, got %g", back.Mmed[0][1])
	}
	wantMdm := bench.MdmFraction * 200
	if back.Mdm[0][1] != wantMdm {
		t.Fatalf("mdm[1]: expected %g, got %g", wantMdm, back.Mdm[0][1])
	}
	if back.GqLimit[0][2] != 0.1875 {
		t.Fatalf("gq_limit[2]: expected 0.1875, got %g", back.GqLimit[0][2])
	}
}

func TestWriteReplacesExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	first := &ConvertedLimit{Input: "a.json", Mmed: Series{{100}}, EpsilonLimit: Series{{0.1}}, YLimit: Series{{1e-5}}}
	if err := first.Write(path); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	second := &ConvertedLimit{Input: "b.json", Mmed: Series{{100, 200}}, EpsilonLimit: Series{{0.1, 0.2}}, YLimit: Series{{1e-5, 2e-5}}}
	if err := second.Write(path); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	var got ConvertedLimit
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if got.Input != "b.json" || len(got.Mmed[0]) != 2 {
		t.Fatalf("file was not replaced: %+v", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
