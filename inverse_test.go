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

func TestInverseInputErrors(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := RunInverse(cfg, &InverseInput{}); err == nil {
		t.Error("no error for an empty concentration series")
	}
	in := &InverseInput{
		Concentrations: []float64{278, 280, 282},
		ExtraRF:        []float64{0, 0},
	}
	if _, err := RunInverse(cfg, in); err == nil {
		t.Error("no error for a forcing series length mismatch")
	}
}

func TestInverseConstantConcentration(t *testing.T) {
	cfg := DefaultConfig()
	const nt = 30
	conc := make([]float64, nt)
	for tt := range conc {
		conc[tt] = Gases["CO2"].PreIndustrial
	}
	out, err := RunInverse(cfg, &InverseInput{Concentrations: conc})
	if err != nil {
		t.Fatal(err)
	}
	for tt := 0; tt < nt; tt++ {
		if math.Abs(out.Emissions[tt]) > 1e-9 {
			t.Fatalf("timestep %d: implied emissions %v for a constant baseline, want 0",
				tt, out.Emissions[tt])
		}
		if out.TotalForcing[tt] != 0 {
			t.Fatalf("timestep %d: forcing %v, want 0", tt, out.TotalForcing[tt])
		}
	}
}

func TestInverseOnePercentRamp(t *testing.T) {
	cfg := DefaultConfig()
	const nt = 140
	cPI := Gases["CO2"].PreIndustrial
	conc := make([]float64, nt)
	for tt := range conc {
		conc[tt] = cPI * math.Pow(1.01, float64(tt))
	}
	out, err := RunInverse(cfg, &InverseInput{Concentrations: conc})
	if err != nil {
		t.Fatal(err)
	}
	// Sustaining an accelerating concentration ramp against uptake
	// requires positive and growing emissions.
	for tt := 1; tt < nt; tt++ {
		if out.Emissions[tt] <= 0 {
			t.Fatalf("timestep %d: implied emissions %v not positive", tt, out.Emissions[tt])
		}
	}
	if out.Emissions[100] <= out.Emissions[10] {
		t.Errorf("implied emissions did not grow along the ramp: %v at year 100, %v at year 10",
			out.Emissions[100], out.Emissions[10])
	}
	// Forcing is the plain logarithmic CO2 term.
	wantF := cfg.F2x / math.Ln2 * math.Log(conc[70]/cPI)
	if different(out.TotalForcing[70], wantF, 1e-12) {
		t.Errorf("forcing at year 70 = %g, want %g", out.TotalForcing[70], wantF)
	}
}

// Inverting the concentrations of a forward run must recover the
// emissions that drove it, to root-finding precision.
func TestForwardInverseRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Multigas = false
	const nt = 200
	e := rampEmissions(nt, 20)
	rf := make([]float64, nt)
	for tt := range rf {
		rf[tt] = 0.3 * math.Sin(2*math.Pi*float64(tt)/30)
	}
	fwd, err := Run(cfg, &Input{Emissions: e, ExtraRF: rf})
	if err != nil {
		t.Fatal(err)
	}
	conc := make([]float64, nt)
	for tt := range conc {
		conc[tt] = fwd.Concentrations.At(tt, 0)
	}
	inv, err := RunInverse(cfg, &InverseInput{Concentrations: conc, ExtraRF: rf})
	if err != nil {
		t.Fatal(err)
	}
	for tt := 0; tt < nt; tt++ {
		want := e.At(tt, 0)
		if math.Abs(inv.Emissions[tt]-want) > 0.01+0.01*math.Abs(want) {
			t.Fatalf("timestep %d: recovered emissions %v, want %v", tt, inv.Emissions[tt], want)
		}
		if math.Abs(inv.Temperature[tt]-fwd.Temperature[tt]) > 1e-6 {
			t.Fatalf("timestep %d: recovered temperature %v, want %v",
				tt, inv.Temperature[tt], fwd.Temperature[tt])
		}
	}
}
