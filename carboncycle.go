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
	"math"

	"gonum.org/v1/gonum/floats"
)

// iirfSimple returns the time-integrated airborne fraction target for
// the current cumulative carbon uptake cAcc [GtC] and temperature
// anomaly temp [K]:
//
//	min(r0 + rc·cAcc + rt·temp, iirfMax)
//
// clipped reports whether the ceiling bound. Clipping is a deliberate
// physical approximation, not an error; the caller raises an advisory
// the first time it happens.
func iirfSimple(cAcc, temp, r0, rc, rt, iirfMax float64) (iirf float64, clipped bool) {
	iirf = r0 + rc*cAcc + rt*temp
	if iirf > iirfMax {
		return iirfMax, true
	}
	return iirf, false
}

// iirfInterp is the residual of the airborne-fraction constraint for a
// trial carbon-box lifetime scaling factor alpha: the time-integrated
// airborne fraction of the alpha-scaled boxes over horizon iirfH, minus
// the target.
func iirfInterp(alpha float64, a, tau []float64, iirfH, target float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * tau[i] * (1.0 - math.Exp(-iirfH/(tau[i]*alpha)))
	}
	return alpha*sum - target
}

// solveAlpha finds the positive scaling factor alpha satisfying the
// airborne-fraction constraint, starting from guess (normally the
// previous timestep's solution). The residual is monotonic in alpha, so
// a geometric bracketing search about the guess followed by Brent's
// method always succeeds for physically meaningful targets.
func solveAlpha(guess float64, a, tau []float64, iirfH, target float64) (float64, error) {
	if guess <= 0 || math.IsNaN(guess) || math.IsInf(guess, 0) {
		guess = 0.16
	}
	f := func(alpha float64) float64 {
		return iirfInterp(alpha, a, tau, iirfH, target)
	}
	lo, hi, err := expandBracket(f, guess/2, guess*2, true)
	if err != nil {
		return 0, err
	}
	alpha, err := brent(f, lo, hi)
	if err != nil {
		return 0, err
	}
	if alpha <= 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		// Reject and re-bracket from the default guess before failing.
		lo, hi, err = expandBracket(f, 0.08, 0.32, true)
		if err != nil {
			return 0, err
		}
		alpha, err = brent(f, lo, hi)
		if err != nil {
			return 0, err
		}
	}
	return alpha, nil
}

// carbonCycle advances the four-reservoir carbon pool by one timestep.
//
// e0 and e1 are the CO2 emission rates [GtC/yr] at the start and end of
// the step; cAcc0 is the cumulative carbon uptake so far [GtC]; temp is
// the current temperature anomaly [K]; alphaGuess seeds the scaling
// factor solve (pass the previous step's alpha); boxes0 are the
// reservoir anomalies [ppm]; cPI is the pre-industrial CO2
// concentration [ppm] and c0 the concentration at the start of the step.
//
// Each reservoir decays exponentially over the step with its
// alpha-scaled timescale and receives its partition share of the
// trapezoidal emission integral. It returns the end-of-step
// concentration, cumulative uptake, reservoir state, the solved alpha,
// and whether the airborne-fraction ceiling bound.
func carbonCycle(e0, cAcc0, temp, r0, rc, rt, iirfMax, alphaGuess float64,
	a, tau []float64, iirfH float64, boxes0 []float64, cPI, c0, e1 float64) (
	c1, cAcc1 float64, boxes1 []float64, alpha float64, clipped bool, err error) {

	target, clipped := iirfSimple(cAcc0, temp, r0, rc, rt, iirfMax)
	alpha, err = solveAlpha(alphaGuess, a, tau, iirfH, target)
	if err != nil {
		return 0, 0, nil, 0, clipped, err
	}
	boxes1 = make([]float64, len(a))
	for i := range a {
		boxes1[i] = boxes0[i]*math.Exp(-1.0/(tau[i]*alpha)) +
			a[i]*0.5*(e0+e1)/GtCPerPPM
	}
	c1 = floats.Sum(boxes1) + cPI
	cAcc1 = cAcc0 + 0.5*(e0+e1) - (c1-c0)*GtCPerPPM
	return c1, cAcc1, boxes1, alpha, clipped, nil
}

// emisToConc advances the concentration of a one-box
// exponentially-decaying gas by one timestep of length ts [yr]. e0 and
// e1 are the emission rates (natural included) at the start and end of
// the step, lt the atmospheric lifetime [yr], and vm the mixing-ratio
// increase per unit mass emission.
func emisToConc(c0, e0, e1, ts, lt, vm float64) float64 {
	return c0 - c0*(1.0-math.Exp(-ts/lt)) + 0.5*ts*(e1+e0)*vm
}
