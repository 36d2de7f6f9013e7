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

	"gonum.org/v1/gonum/mat"
)

func TestCalculateQConstant(t *testing.T) {
	cfg := DefaultConfig()
	const nt = 10
	q, err := calculateQ(constantTCRECS(cfg.TCR, cfg.ECS), cfg.D, cfg.F2x, cfg.TCRDbl, nt)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := q.Dims()
	if rows != nt || cols != 2 {
		t.Fatalf("q is %d×%d, want %d×2", rows, cols, nt)
	}
	for tt := 1; tt < nt; tt++ {
		if q.At(tt, 0) != q.At(0, 0) || q.At(tt, 1) != q.At(0, 1) {
			t.Fatalf("row %d differs from row 0 for a constant response pair", tt)
		}
	}
	// Invert the derivation: the q pair must reproduce the response
	// pair that generated it.
	k := make([]float64, 2)
	for i, d := range cfg.D {
		k[i] = 1 - (d/cfg.TCRDbl)*(1-math.Exp(-cfg.TCRDbl/d))
	}
	ecs := cfg.F2x * (q.At(0, 0) + q.At(0, 1))
	tcr := cfg.F2x * (q.At(0, 0)*k[0] + q.At(0, 1)*k[1])
	if different(ecs, cfg.ECS, 1e-12) {
		t.Errorf("recovered ECS %g, want %g", ecs, cfg.ECS)
	}
	if different(tcr, cfg.TCR, 1e-12) {
		t.Errorf("recovered TCR %g, want %g", tcr, cfg.TCR)
	}
}

func TestCalculateQTimeVarying(t *testing.T) {
	cfg := DefaultConfig()
	tcrecs := mat.NewDense(3, 2, []float64{
		1.4, 2.3,
		1.6, 2.75,
		2.0, 3.5,
	})
	q, err := calculateQ(tcrecs, cfg.D, cfg.F2x, cfg.TCRDbl, 3)
	if err != nil {
		t.Fatal(err)
	}
	if q.At(0, 0) == q.At(1, 0) || q.At(1, 0) == q.At(2, 0) {
		t.Error("distinct response pairs produced identical q rows")
	}
}

func TestCalculateQErrors(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name   string
		tcrecs *mat.Dense
		d      []float64
		nt     int
	}{
		{"three columns", mat.NewDense(1, 3, []float64{1.75, 3, 1}), cfg.D, 10},
		{"row count mismatch", mat.NewDense(5, 2, nil), cfg.D, 10},
		{"wrong box count", constantTCRECS(1.6, 2.75), []float64{239, 4.1, 1}, 10},
	}
	for _, c := range cases {
		if _, err := calculateQ(c.tcrecs, c.d, cfg.F2x, cfg.TCRDbl, c.nt); err == nil {
			t.Errorf("%s: no error", c.name)
		}
	}
}

func TestForcToTempStep(t *testing.T) {
	cfg := DefaultConfig()
	q := []float64{0.33, 0.41}
	t0 := []float64{0, 0}
	t1 := make([]float64, 2)
	forcToTemp(t1, t0, q, cfg.D, cfg.F2x)
	for i := range t1 {
		want := q[i] * (1 - math.Exp(-1/cfg.D[i])) * cfg.F2x
		if t1[i] != want {
			t.Errorf("box %d: %g, want %g", i, t1[i], want)
		}
	}
	// Zero forcing from a warm state decays each box exactly.
	copy(t0, t1)
	forcToTemp(t1, t0, q, cfg.D, 0)
	for i := range t1 {
		want := t0[i] * math.Exp(-1/cfg.D[i])
		if t1[i] != want {
			t.Errorf("decay box %d: %g, want %g", i, t1[i], want)
		}
	}
}
