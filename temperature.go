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

	"gonum.org/v1/gonum/mat"
)

// calculateQ derives the per-box forcing-response coefficients q
// [K/(W/m²)] from the transient/equilibrium climate-response pair and
// the box relaxation timescales d [yr].
//
// tcrecs must be either 1×2 (a constant pair, broadcast to all
// timesteps) or nt×2 (a resampled pair per timestep). f2x is the
// forcing from a CO2 doubling [W/m²] and tcrDbl the time to doubling
// under a 1%/yr concentration ramp [yr]. The two response regimes are
// matched in closed form:
//
//	k_i = 1 − (d_i/tcrDbl)·(1 − exp(−tcrDbl/d_i))
//	q   = (1/f2x)·(1/(k_0−k_1))·[tcr − ecs·k_1, ecs·k_0 − tcr]
//
// The result is nt×2.
func calculateQ(tcrecs *mat.Dense, d []float64, f2x, tcrDbl float64, nt int) (*mat.Dense, error) {
	rows, cols := tcrecs.Dims()
	if cols != 2 {
		return nil, fmt.Errorf("fair: tcrecs must have 2 columns (transient, equilibrium), got %d", cols)
	}
	if rows != 1 && rows != nt {
		return nil, fmt.Errorf("fair: tcrecs must have 1 or %d rows, got %d", nt, rows)
	}
	if len(d) != 2 {
		return nil, fmt.Errorf("fair: exactly 2 response timescales required, got %d", len(d))
	}
	k := make([]float64, 2)
	for i, di := range d {
		k[i] = 1.0 - (di/tcrDbl)*(1.0-math.Exp(-tcrDbl/di))
	}
	q := mat.NewDense(nt, 2, nil)
	for t := 0; t < nt; t++ {
		r := t
		if rows == 1 {
			r = 0
		}
		tcr := tcrecs.At(r, 0)
		ecs := tcrecs.At(r, 1)
		scale := 1.0 / f2x / (k[0] - k[1])
		q.Set(t, 0, scale*(tcr-ecs*k[1]))
		q.Set(t, 1, scale*(ecs*k[0]-tcr))
	}
	return q, nil
}

// forcToTemp advances the temperature response boxes by one timestep
// under the effective forcing f [W/m²]. The homogeneous part decays
// exactly and the forcing enters through the exact convolution of a
// forcing held constant over the step, so the update carries no
// timestep-size bias:
//
//	T_i ← T_i·exp(−1/d_i) + q_i·(1 − exp(−1/d_i))·f
//
// The observable temperature anomaly is the sum of the boxes.
func forcToTemp(t1, t0, q, d []float64, f float64) {
	for i := range t0 {
		t1[i] = t0[i]*math.Exp(-1.0/d[i]) + q[i]*(1.0-math.Exp(-1.0/d[i]))*f
	}
}

// constantTCRECS wraps a constant transient/equilibrium pair as the 1×2
// matrix calculateQ expects.
func constantTCRECS(tcr, ecs float64) *mat.Dense {
	return mat.NewDense(1, 2, []float64{tcr, ecs})
}
