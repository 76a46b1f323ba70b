// Package benchmarks defines the target simplified-model benchmarks a
// rescaled limit can be produced for.
//
// Add new benchmarks by adding entries to the registry below. Each entry
// fixes the target model's couplings: the dark matter coupling gdm, the
// lepton coupling gl, the fraction of the mediator mass that sets the dark
// matter mass, and the coupling structure ("vector" or "axial"). The plot
// labels describe those choices on output figures.
package benchmarks

import (
	"errors"
	"fmt"
	"sort"
)

// Benchmark is one immutable registry record.
type Benchmark struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Gdm           float64 `json:"gdm"`
	Gl            float64 `json:"gl"`
	MdmFraction   float64 `json:"mdm_fraction"`
	Coupling      string  `json:"coupling"`
	MdmLabel      string  `json:"mdm_label"`
	CouplingLabel string  `json:"coupling_label"`
}

// ErrUnknownBenchmark is returned when a name is not in the registry.
var ErrUnknownBenchmark = errors.New("unknown benchmark")

var registry = map[string]Benchmark{
	"minimal_dark_photon": {
		Name:          "HAHM Dark Photon",
		Description:   "Minimal dark photon model with the DM mass set to a fixed ratio of the mediator (dark photon) mass",
		Gdm:           1.0,
		Gl:            0.0,
		MdmFraction:   1.0 / 3.0,
		Coupling:      "vector",
		MdmLabel:      "m_DM = m_Z'/3",
		CouplingLabel: "g_DM = 1.0, g_l = 0.0",
	},
}

// Lookup resolves a benchmark name. Unknown names fail here, before any
// file I/O or computation starts.
func Lookup(name string) (Benchmark, error) {
	b, ok := registry[name]
	if !ok {
		return Benchmark{}, fmt.Errorf("%w: %q (known benchmarks: %v)", ErrUnknownBenchmark, name, Names())
	}
	return b, nil
}

// Names lists the registered benchmark names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
