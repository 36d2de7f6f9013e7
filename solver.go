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
)

const (
	solverTolerance = 1.0e-12
	solverMaxIter   = 100
)

// brent finds a root of f on the bracketing interval [lo, hi] using
// Brent's method (inverse quadratic interpolation with bisection
// fallback). f(lo) and f(hi) must have opposite signs.
func brent(f func(float64) float64, lo, hi float64) (float64, error) {
	a, b := lo, hi
	fa, fb := f(a), f(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return 0, fmt.Errorf("function is not finite on bracket [%g, %g]", lo, hi)
	}
	if fa*fb > 0 {
		return 0, fmt.Errorf("root not bracketed by [%g, %g]", lo, hi)
	}
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}
	c, fc := a, fa
	var d, s float64
	mflag := true
	for i := 0; i < solverMaxIter; i++ {
		if fb == 0 || math.Abs(b-a) < solverTolerance*(1+math.Abs(b)) {
			return b, nil
		}
		if fa != fc && fb != fc {
			// Inverse quadratic interpolation.
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// Secant step.
			s = b - fb*(b-a)/(fb-fa)
		}
		lim := (3*a + b) / 4
		bad := (s-lim)*(s-b) >= 0 ||
			(mflag && math.Abs(s-b) >= math.Abs(b-c)/2) ||
			(!mflag && math.Abs(s-b) >= math.Abs(c-d)/2) ||
			(mflag && math.Abs(b-c) < solverTolerance) ||
			(!mflag && math.Abs(c-d) < solverTolerance)
		if bad {
			s = (a + b) / 2 // bisect
			mflag = true
		} else {
			mflag = false
		}
		fs := f(s)
		d = c
		c, fc = b, fb
		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}
		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}
	return 0, fmt.Errorf("no convergence after %d iterations", solverMaxIter)
}

// expandBracket grows [lo, hi] geometrically about the initial guesses
// until f changes sign across the interval. lo is kept positive when
// positive is true, so a solution such as the carbon-box lifetime
// scaling factor can never be bracketed into the non-physical
// negative domain.
func expandBracket(f func(float64) float64, lo, hi float64, positive bool) (float64, float64, error) {
	const growth = 4.0
	flo, fhi := f(lo), f(hi)
	for i := 0; i < solverMaxIter; i++ {
		if !math.IsNaN(flo) && !math.IsNaN(fhi) && flo*fhi <= 0 {
			return lo, hi, nil
		}
		if positive {
			lo /= growth
		} else {
			lo *= growth
		}
		hi *= growth
		if math.IsInf(hi, 0) || (positive && lo == 0) {
			break
		}
		flo, fhi = f(lo), f(hi)
	}
	return 0, 0, fmt.Errorf("could not bracket a sign change starting from [%g, %g]", lo, hi)
}
