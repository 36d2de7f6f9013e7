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
	"testing"
)

// preIndustrialConc builds a concentration row at the pre-industrial
// baseline of every species.
func preIndustrialConc() []float64 {
	c := make([]float64, NConc)
	for i, name := range ConcNames {
		c[i] = Gases[name].PreIndustrial
	}
	return c
}

func TestCO2ForcingDoubling(t *testing.T) {
	if f := co2Forcing(2*278, 278, 3.71); different(f, 3.71, 1e-12) {
		t.Errorf("doubling forcing = %g, want 3.71", f)
	}
	if f := co2Forcing(278, 278, 3.71); f != 0 {
		t.Errorf("pre-industrial forcing = %g, want 0", f)
	}
}

func TestMultigasForcingPreIndustrial(t *testing.T) {
	cfg := DefaultConfig()
	f := make([]float64, NForcing)
	e := make([]float64, NEmis)
	cfg.multigasForcing(f, preIndustrialConc(), e, &externalForcing{}, 0)
	for i, v := range f {
		if math.Abs(v) > 1e-12 {
			t.Errorf("%s forcing = %g at pre-industrial, want 0", ForcingNames[i], v)
		}
	}
}

func TestHalogenForcing(t *testing.T) {
	c := preIndustrialConc()
	c[CCF4] += 1000 // ppt
	// 0.09 W/m²/ppb × 1 ppb
	if f := halogenForcing(c); different(f, 0.09, 1e-12) {
		t.Errorf("CF4 forcing = %g, want 0.09", f)
	}
}

func TestCH4N2OOverlap(t *testing.T) {
	m0 := Gases["CH4"].PreIndustrial
	n0 := Gases["N2O"].PreIndustrial
	// The overlap correction must reduce the no-overlap CH4 forcing.
	m := 2 * m0
	noOverlap := 0.036 * (math.Sqrt(m) - math.Sqrt(m0))
	withOverlap := ch4Forcing(m, m0, n0)
	if withOverlap >= noOverlap {
		t.Errorf("overlap did not reduce CH4 forcing: %g >= %g", withOverlap, noOverlap)
	}
	if withOverlap <= 0 {
		t.Errorf("CH4 doubling forcing non-positive: %g", withOverlap)
	}
	// Stratospheric water vapor is the configured fraction of the
	// no-overlap term.
	if f := stratH2OForcing(m, m0, 0.12); different(f, 0.12*noOverlap, 1e-12) {
		t.Errorf("stratospheric H2O forcing = %g, want %g", f, 0.12*noOverlap)
	}
}

func TestExternalForcingSeries(t *testing.T) {
	cfg := DefaultConfig()
	f := make([]float64, NForcing)
	ext := &externalForcing{
		tropO3:  []float64{0.31},
		aerosol: []float64{-0.91},
		bcSnow:  []float64{0.04},
		extra:   []float64{0.25},
	}
	cfg.multigasForcing(f, preIndustrialConc(), make([]float64, NEmis), ext, 0)
	for i, want := range map[int]float64{
		FTropO3: 0.31, FAerosol: -0.91, FBCSnow: 0.04, FExtra: 0.25,
	} {
		if f[i] != want {
			t.Errorf("%s forcing = %g, want externally supplied %g", ForcingNames[i], f[i], want)
		}
	}
}

func TestPrecursorRegressions(t *testing.T) {
	cfg := DefaultConfig()
	f := make([]float64, NForcing)
	e := make([]float64, NEmis)
	e[ESOx] = 100
	e[ENOx] = 50
	cfg.multigasForcing(f, preIndustrialConc(), e, &externalForcing{}, 0)
	wantAero := cfg.BAerosol[0]*100 + cfg.BAerosol[ENOx-ESOx]*50
	if different(f[FAerosol], wantAero, 1e-12) {
		t.Errorf("aerosol forcing = %g, want %g", f[FAerosol], wantAero)
	}
	wantO3 := cfg.BTropO3[3] * 50
	if different(f[FTropO3], wantO3, 1e-12) {
		t.Errorf("tropospheric ozone forcing = %g, want %g", f[FTropO3], wantO3)
	}
}

func TestTotalForcingEfficacy(t *testing.T) {
	f := make([]float64, NForcing)
	eff := make([]float64, NForcing)
	for i := range f {
		f[i] = 1
		eff[i] = 1
	}
	if got := totalForcing(f, eff); got != float64(NForcing) {
		t.Errorf("unweighted total = %g, want %d", got, NForcing)
	}
	eff[FAerosol] = 2
	if got := totalForcing(f, eff); got != float64(NForcing)+1 {
		t.Errorf("weighted total = %g, want %d", got, NForcing+1)
	}
}
