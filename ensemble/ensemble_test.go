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

package ensemble

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/spatialmodel/fair"
)

func columns(m *mat.Dense) (tcr, ecs []float64) {
	n, _ := m.Dims()
	tcr = make([]float64, n)
	ecs = make([]float64, n)
	for i := 0; i < n; i++ {
		tcr[i] = m.At(i, 0)
		ecs[i] = m.At(i, 1)
	}
	return tcr, ecs
}

func TestGenerateReproducible(t *testing.T) {
	a, err := Generate(100, Seed(42))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(100, Seed(42))
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(a, b) {
		t.Error("equal seeds did not give identical ensembles")
	}
	c, err := Generate(100, Seed(43))
	if err != nil {
		t.Fatal(err)
	}
	if mat.Equal(a, c) {
		t.Error("different seeds gave identical ensembles")
	}
}

func TestGenerateMoments(t *testing.T) {
	m, err := Generate(20000, Seed(1), KeepAll())
	if err != nil {
		t.Fatal(err)
	}
	tcr, ecs := columns(m)
	// 5% agreement with the configured moments at this sample size.
	checks := []struct {
		name      string
		got, want float64
	}{
		{"TCR mean", stat.Mean(tcr, nil), defaultTCRMean},
		{"TCR stddev", stat.StdDev(tcr, nil), defaultTCRStd},
		{"ECS mean", stat.Mean(ecs, nil), defaultECSMean},
		{"ECS stddev", stat.StdDev(ecs, nil), defaultECSStd},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 0.05*c.want {
			t.Errorf("%s = %v, want about %v", c.name, c.got, c.want)
		}
	}
	if r := stat.Correlation(tcr, ecs, nil); math.Abs(r-defaultCorr) > 0.05 {
		t.Errorf("correlation = %v, want about %v", r, defaultCorr)
	}
}

func TestGenerateUncorrelated(t *testing.T) {
	m, err := Generate(20000, Seed(2), Uncorrelated(), KeepAll())
	if err != nil {
		t.Fatal(err)
	}
	tcr, ecs := columns(m)
	if r := stat.Correlation(tcr, ecs, nil); math.Abs(r) > 0.05 {
		t.Errorf("correlation = %v, want about 0", r)
	}
}

func TestGenerateStripsInvertedPairs(t *testing.T) {
	m, err := Generate(5000, Seed(3))
	if err != nil {
		t.Fatal(err)
	}
	tcr, ecs := columns(m)
	for i := range tcr {
		if ecs[i] < tcr[i] {
			t.Fatalf("draw %d: ECS %v below TCR %v was not stripped", i, ecs[i], tcr[i])
		}
		if tcr[i] <= 0 || ecs[i] <= 0 {
			t.Fatalf("draw %d: non-physical pair (%v, %v)", i, tcr[i], ecs[i])
		}
	}
}

func TestGenerateNormal(t *testing.T) {
	m, err := Generate(20000, Seed(4), Dist(Normal), Uncorrelated(), KeepAll())
	if err != nil {
		t.Fatal(err)
	}
	tcr, _ := columns(m)
	if got := stat.Mean(tcr, nil); math.Abs(got-defaultTCRMean) > 0.05*defaultTCRMean {
		t.Errorf("TCR mean = %v, want about %v", got, defaultTCRMean)
	}
}

func TestGenerateOptionsErrors(t *testing.T) {
	if _, err := Generate(0); err == nil {
		t.Error("no error for an empty ensemble")
	}
	if _, err := Generate(10, TCR(-1, 0.4)); err == nil {
		t.Error("no error for negative TCR moments")
	}
	if _, err := Generate(10, Correlation(1)); err == nil {
		t.Error("no error for a degenerate correlation")
	}
	if _, err := Generate(10, Dist(Distribution(99))); err == nil {
		t.Error("no error for an unknown distribution")
	}
}

// An ensemble member must be usable directly as the engine's
// time-varying response input.
func TestEnsembleDrivesModel(t *testing.T) {
	const nt = 20
	m, err := Generate(nt, Seed(7))
	if err != nil {
		t.Fatal(err)
	}
	cfg := fair.DefaultConfig()
	cfg.Multigas = false
	e := mat.NewDense(nt, 1, nil)
	for tt := 0; tt < nt; tt++ {
		e.Set(tt, 0, 5)
	}
	out, err := fair.Run(cfg, &fair.Input{Emissions: e, TCRECS: m})
	if err != nil {
		t.Fatal(err)
	}
	if out.Temperature[nt-1] <= 0 {
		t.Errorf("final temperature %v not positive under constant emissions", out.Temperature[nt-1])
	}
}
