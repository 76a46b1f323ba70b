package benchmarks

import (
	"errors"
	"testing"
)

func TestLookupMinimalDarkPhoton(t *testing.T) {
	t.Parallel()

	b, err := Lookup("minimal_dark_photon")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if b.Gdm != 1.0 {
		t.Fatalf("gdm = %v, expected 1.0", b.Gdm)
	}
	if b.Gl != 0.0 {
		t.Fatalf("gl = %v, expected 0.0", b.Gl)
	}
	if b.MdmFraction != 1.0/3.0 {
		t.Fatalf("mdm fraction = %v, expected 1/3", b.MdmFraction)
	}
	if b.Coupling != "vector" {
		t.Fatalf("coupling = %q, expected vector", b.Coupling)
	}
	if b.Name == "" || b.MdmLabel == "" || b.CouplingLabel == "" {
		t.Fatalf("display metadata incomplete: %+v", b)
	}
}

func TestLookupUnknownName(t *testing.T) {
	t.Parallel()

	if _, err := Lookup("no_such_model"); !errors.Is(err, ErrUnknownBenchmark) {
		t.Fatalf("expected ErrUnknownBenchmark, got %v", err)
	}
}

func TestNamesIncludesAllRegistered(t *testing.T) {
	t.Parallel()

	names := Names()
	if len(names) != len(registry) {
		t.Fatalf("Names lists %d entries, registry has %d", len(names), len(registry))
	}
	found := false
	for _, n := range names {
		if n == "minimal_dark_photon" {
			found = true
		}
	}
	if !found {
		t.Fatalf("minimal_dark_photon missing from %v", names)
	}
}
