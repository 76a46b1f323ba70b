package couplingscan

import "math"

// Fermion masses in GeV, PDG values. Quarks use current masses; the
// partial widths only care about them near threshold.
var (
	quarkMasses         = []float64{0.00216, 0.00467, 0.093, 1.27, 4.18, 172.76}
	chargedLeptonMasses = []float64{0.000511, 0.10566, 1.77686}
)

const quarkColors = 3.0

// vectorPairWidth is the partial width of a spin-1 vector mediator of mass
// m decaying to a fermion pair with coupling g, fermion mass mf and color
// factor nc. Zero below threshold.
func vectorPairWidth(m, g, mf, nc float64) float64 {
	z := mf * mf / (m * m)
	if 4*z >= 1 {
		return 0
	}
	return nc * g * g * m / (12 * math.Pi) * math.Sqrt(1-4*z) * (1 + 2*z)
}

// axialPairWidth is the axial-vector analogue, with the harder
// (1-4z)^(3/2) threshold behavior.
func axialPairWidth(m, g, mf, nc float64) float64 {
	z := mf * mf / (m * m)
	if 4*z >= 1 {
		return 0
	}
	kin := 1 - 4*z
	return nc * g * g * m / (12 * math.Pi) * kin * math.Sqrt(kin)
}

// neutrinoWidth covers the three massless neutrino flavors, each at half
// a charged-lepton width.
func neutrinoWidth(m, gl float64) float64 {
	return 3 * gl * gl * m / (24 * math.Pi)
}

// branchingToQuarks is the mediator's branching ratio into any open quark
// flavor for the given model point. Returns 0 when the mediator has no
// width at all.
func branchingToQuarks(coupling string, m, gq, gdm, gl, mdm float64) float64 {
	pair := vectorPairWidth
	if coupling == CouplingAxial {
		pair = axialPairWidth
	}

	quarks := 0.0
	for _, mq := range quarkMasses {
		quarks += pair(m, gq, mq, quarkColors)
	}
	leptons := 0.0
	for _, ml := range chargedLeptonMasses {
		leptons += pair(m, gl, ml, 1)
	}
	total := quarks + leptons + neutrinoWidth(m, gl) + pair(m, gdm, mdm, 1)
	if total == 0 {
		return 0
	}
	return quarks / total
}
