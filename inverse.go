/*
Copyright © 2026 the FaIR authors.
This file is part of FaIR.

FaIR is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FaIR is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FaIR.  If not, see <http://www.gnu.org/licenses/>.
*/

package fair

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// InverseInput collects the per-run data series for an inverse
// integration: recovering the CO2 emissions implied by a prescribed
// concentration trajectory.
type InverseInput struct {
	// Concentrations is the prescribed atmospheric CO2 series [ppm].
	Concentrations []float64

	// ExtraRF is an additional forcing series [W/m²] added to the
	// total. Supplying the same series used by a forward run is
	// required for an exact round trip, since temperature feeds back
	// into the airborne-fraction target.
	ExtraRF []float64

	// TCRECS optionally overrides the configuration's constant
	// transient/equilibrium pair with an nt×2 per-timestep series.
	TCRECS *mat.Dense
}

// InverseOutput mirrors a forward run's outputs, with the derived
// emissions series as the primary result.
type InverseOutput struct {
	Emissions    []float64 // derived CO2 emissions [GtC/yr]
	TotalForcing []float64 // CO2 plus extra forcing [W/m²]
	Temperature  []float64 // global mean temperature anomaly [K]
}

// RunInverse solves, timestep by timestep, for the emission rate that
// makes the forward carbon-cycle update reproduce in.Concentrations:
// an outer root-find over the emission rate around the same
// airborne-fraction scaling solve the forward path uses. Because both
// directions rest on numerical root finding, a forward/inverse round
// trip agrees to root-finding precision (about 1% relative), not
// exactly.
func RunInverse(cfg *Config, in *InverseInput) (*InverseOutput, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nt := len(in.Concentrations)
	if nt == 0 {
		return nil, fmt.Errorf("fair: a concentration series must be supplied")
	}
	if in.ExtraRF != nil && len(in.ExtraRF) != nt {
		return nil, fmt.Errorf("fair: forcing series length %d does not match %d timesteps", len(in.ExtraRF), nt)
	}
	if cfg.IIRFH != DefaultIIRFHorizon {
		log.Warnf("fair: airborne fraction horizon %g differs from the calibrated %g yr; results are extrapolated",
			cfg.IIRFH, DefaultIIRFHorizon)
	}
	q, err := runQ(cfg, in.TCRECS, nt)
	if err != nil {
		return nil, err
	}

	out := &InverseOutput{
		Emissions:    make([]float64, nt),
		TotalForcing: make([]float64, nt),
		Temperature:  make([]float64, nt),
	}
	cPI := Gases["CO2"].PreIndustrial
	extra := func(t int) float64 {
		if in.ExtraRF == nil {
			return 0
		}
		return in.ExtraRF[t]
	}

	boxes := make([]float64, len(cfg.A))
	tj := make([]float64, len(cfg.D))
	tjPrev := make([]float64, len(cfg.D))
	var cAcc float64
	alpha := cfg.AlphaGuess
	warned := false

	// The forward method loads the whole first-step emission into the
	// reservoirs without decay, so the first inverse step is closed
	// form.
	out.Emissions[0] = (in.Concentrations[0] - cPI) * GtCPerPPM / floats.Sum(cfg.A)
	for i := range boxes {
		boxes[i] = cfg.A[i] * out.Emissions[0] / GtCPerPPM
	}
	out.TotalForcing[0] = co2Forcing(in.Concentrations[0], cPI, cfg.F2x) + extra(0)
	forcToTemp(tj, tjPrev, q.RawRowView(0), cfg.D, out.TotalForcing[0])
	out.Temperature[0] = floats.Sum(tj)

	for t := 1; t < nt; t++ {
		target, clipped := iirfSimple(cAcc, out.Temperature[t-1],
			cfg.R0, cfg.RC, cfg.RT, cfg.IIRFMax)
		if clipped {
			ceilingAdvisory(&warned, t, cfg)
		}
		alpha, err = solveAlpha(alpha, cfg.A, cfg.Tau, cfg.IIRFH, target)
		if err != nil {
			return nil, &ConvergenceError{Timestep: t, Quantity: "carbon-box lifetime scaling", Err: err}
		}

		// Decay the reservoirs with the solved scaling, then find the
		// end-of-step emission whose trapezoidal input reproduces the
		// prescribed concentration.
		decayed := make([]float64, len(boxes))
		for i := range boxes {
			decayed[i] = boxes[i] * math.Exp(-1.0/(cfg.Tau[i]*alpha))
		}
		e0 := out.Emissions[t-1]
		c1 := in.Concentrations[t]
		residual := func(e1 float64) float64 {
			var sum float64
			for i := range decayed {
				sum += decayed[i] + cfg.A[i]*0.5*(e0+e1)/GtCPerPPM
			}
			return sum + cPI - c1
		}
		lo, hi, err := expandBracket(residual, -1000.0, 1000.0, false)
		if err != nil {
			return nil, &ConvergenceError{Timestep: t, Quantity: "implied emission rate", Err: err}
		}
		e1, err := brent(residual, lo, hi)
		if err != nil {
			return nil, &ConvergenceError{Timestep: t, Quantity: "implied emission rate", Err: err}
		}
		out.Emissions[t] = e1
		for i := range boxes {
			boxes[i] = decayed[i] + cfg.A[i]*0.5*(e0+e1)/GtCPerPPM
		}
		cAcc += 0.5*(e0+e1) - (c1-in.Concentrations[t-1])*GtCPerPPM

		out.TotalForcing[t] = co2Forcing(c1, cPI, cfg.F2x) + extra(t)
		tj, tjPrev = tjPrev, tj
		forcToTemp(tj, tjPrev, q.RawRowView(t), cfg.D, out.TotalForcing[t])
		out.Temperature[t] = floats.Sum(tj)
	}
	return out, nil
}
