// Package darkphoton converts simplified-model quark-coupling limits into
// dark photon kinetic-mixing and yield-parameter limits, following the
// analytic mapping of arXiv:2206.03456 and section 2.1.1.3 of
// arXiv:2405.13778.
package darkphoton

import (
	"fmt"
	"math"
)

// Physical constants, PDG 2024 review values.
const (
	ZMass              = 91.1880 // GeV
	Sin2ThetaW         = 0.23129
	AlphaFineStructure = 1 / 137.035999084
)

// Approximate averaged squared charge and hypercharge factors of the
// quarks probed at dijet scales.
const (
	avgQ2 = 0.3
	avgY2 = 0.7
)

// Epsilon converts quark-coupling limits into kinetic-mixing limits,
// elementwise over equal-length mmed and gq. The (1 - (mmed/MZ)^2)
// resonance factor enters in absolute value so the mixing keeps its sign
// on both sides of the Z pole; near-pole blowup is a physical artifact of
// the mapping, not an error.
func Epsilon(mmed, gq []float64) ([]float64, error) {
	if len(mmed) != len(gq) {
		return nil, fmt.Errorf("mmed has %d entries, gq has %d", len(mmed), len(gq))
	}

	cos2ThetaW := 1 - Sin2ThetaW
	charge := math.Sqrt(4 * math.Pi * AlphaFineStructure)

	eps := make([]float64, len(mmed))
	for i := range mmed {
		ratio := mmed[i] / ZMass
		deltaZ := ratio * ratio
		prefactor := cos2ThetaW * math.Abs(1-deltaZ) /
			(charge * (math.Sqrt(avgQ2)*cos2ThetaW + deltaZ*math.Sqrt(avgY2)))
		eps[i] = gq[i] * prefactor
	}
	return eps, nil
}

// YieldParameter derives the dimensionless thermal-target observable
// y = eps^2 * alpha_D * (mdm/mmed)^4 with alpha_D = gdm^2 / 4pi,
// elementwise over equal-length mmed, mdm and gq.
func YieldParameter(mmed, mdm, gq []float64, gdm float64) ([]float64, error) {
	if len(mdm) != len(mmed) {
		return nil, fmt.Errorf("mmed has %d entries, mdm has %d", len(mmed), len(mdm))
	}
	eps, err := Epsilon(mmed, gq)
	if err != nil {
		return nil, err
	}

	alphaD := gdm * gdm / (4 * math.Pi)
	yield := make([]float64, len(mmed))
	for i := range yield {
		massRatio := mdm[i] / mmed[i]
		massRatio2 := massRatio * massRatio
		yield[i] = eps[i] * eps[i] * alphaD * massRatio2 * massRatio2
	}
	return yield, nil
}
