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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RestartState is the minimal snapshot needed to resume an integration
// where a prior segment left off. It is produced at the end of a run
// when Input.SaveRestart is set and consumed at the start of the next
// in place of the default zero initial conditions; splitting a run
// around a RestartState is bit-identical to running it unsplit.
//
// Ownership transfers from producer to consumer. The engine never
// retains one beyond the call that produced or consumed it, and a
// single RestartState must not seed more than one resumption.
type RestartState struct {
	CarbonBoxes []float64 // carbon reservoir anomalies [ppm]
	TempBoxes   []float64 // temperature response boxes [K]
	CumUptake   float64   // cumulative carbon uptake [GtC]
	Emission    float64   // CO2 emission rate at the final timestep [GtC/yr]
	Alpha       float64   // carbon-box scaling factor from the final solved timestep
}

// Temperature is the observable temperature anomaly at the snapshot [K].
func (r *RestartState) Temperature() float64 { return floats.Sum(r.TempBoxes) }

// Input collects the per-run data series for a forward integration.
type Input struct {
	// Emissions is the nt×17 emissions matrix (multi-gas mode) or the
	// nt×1 CO2 emissions column (CO2-only mode), in species-specific
	// units. Required in emissions-driven mode.
	Emissions *mat.Dense

	// Concentrations is the prescribed nt×9 (or nt×1) concentration
	// matrix. Required in concentration-driven mode.
	Concentrations *mat.Dense

	// ExtraRF is an additional forcing series [W/m²] added to the total
	// (solar, volcanic, or any effect the model does not represent).
	ExtraRF []float64

	// Externally pre-computed forcing series [W/m²] for effects without
	// a tractable concentration response. When nil, tropospheric ozone
	// and aerosol fall back to the configured precursor regressions and
	// black carbon on snow to zero. Multi-gas mode only.
	TropO3RF  []float64
	AerosolRF []float64
	BCSnowRF  []float64

	// TCRECS optionally overrides the configuration's constant
	// transient/equilibrium pair with an nt×2 per-timestep series, for
	// example one sampled by the ensemble package.
	TCRECS *mat.Dense

	// Restart resumes from a prior segment's snapshot. CO2-only
	// emissions-driven runs only.
	Restart *RestartState

	// SaveRestart requests a snapshot after the final step.
	SaveRestart bool
}

// Output holds the result series of a forward integration.
type Output struct {
	// Concentrations is nt×9 (multi-gas) or nt×1 (CO2-only), in the
	// concentration contract's units.
	Concentrations *mat.Dense

	// Forcing holds the unweighted per-component forcing [W/m²]: nt×9
	// in multi-gas mode, nt×1 (CO2 plus extra) in CO2-only mode.
	Forcing *mat.Dense

	// TotalForcing is the efficacy-weighted total forcing [W/m²] the
	// temperature response integrates.
	TotalForcing []float64

	// Temperature is the global mean temperature anomaly [K].
	Temperature []float64

	// Restart is the end-of-run snapshot, if requested.
	Restart *RestartState
}

// Run performs a forward integration of cfg over the series in in.
// All configuration and shape errors are reported before any timestep
// executes; numerical non-convergence is returned as a
// *ConvergenceError naming the offending timestep.
func Run(cfg *Config, in *Input) (*Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nt, err := checkInput(cfg, in)
	if err != nil {
		return nil, err
	}
	if cfg.IIRFH != DefaultIIRFHorizon {
		log.Warnf("fair: airborne fraction horizon %g differs from the calibrated %g yr; results are extrapolated",
			cfg.IIRFH, DefaultIIRFHorizon)
	}
	q, err := runQ(cfg, in.TCRECS, nt)
	if err != nil {
		return nil, err
	}
	if !cfg.EmissionsDriven {
		return runConcDriven(cfg, in, q, nt)
	}
	if cfg.Multigas {
		return runMultigasEmissions(cfg, in, q, nt)
	}
	return runCO2Emissions(cfg, in, q, nt)
}

// checkInput performs the fail-fast input validation for a forward run
// and returns the number of timesteps.
func checkInput(cfg *Config, in *Input) (int, error) {
	if in.Emissions == nil && in.Concentrations == nil {
		return 0, fmt.Errorf("fair: either an emissions or a concentration series must be supplied")
	}
	var nt int
	if cfg.EmissionsDriven {
		if in.Emissions == nil {
			return 0, fmt.Errorf("fair: emissions-driven mode requires an emissions series")
		}
		var cols int
		nt, cols = in.Emissions.Dims()
		if cfg.Multigas && cols != NEmis {
			return 0, fmt.Errorf("fair: multi-gas mode requires %d emissions species columns, got %d", NEmis, cols)
		}
		if !cfg.Multigas && cols != 1 {
			return 0, fmt.Errorf("fair: a %d-species emissions matrix was supplied but multi-gas mode is off", cols)
		}
	} else {
		if in.Concentrations == nil {
			return 0, fmt.Errorf("fair: concentration-driven mode requires a concentration series")
		}
		var cols int
		nt, cols = in.Concentrations.Dims()
		if cfg.Multigas && cols != NConc {
			return 0, fmt.Errorf("fair: multi-gas mode requires %d concentration species columns, got %d", NConc, cols)
		}
		if !cfg.Multigas && cols != 1 {
			return 0, fmt.Errorf("fair: a %d-species concentration matrix was supplied but multi-gas mode is off", cols)
		}
	}
	if nt == 0 {
		return 0, fmt.Errorf("fair: input series is empty")
	}
	for _, s := range [][]float64{in.ExtraRF, in.TropO3RF, in.AerosolRF, in.BCSnowRF} {
		if s != nil && len(s) != nt {
			return 0, fmt.Errorf("fair: forcing series length %d does not match %d timesteps", len(s), nt)
		}
	}
	if !cfg.Multigas {
		for _, s := range [][]float64{in.TropO3RF, in.AerosolRF, in.BCSnowRF} {
			if s != nil {
				return 0, fmt.Errorf("fair: external component forcing series require multi-gas mode")
			}
		}
	}
	if in.Restart != nil {
		if cfg.Multigas || !cfg.EmissionsDriven {
			return 0, fmt.Errorf("fair: restart is only supported for CO2-only emissions-driven runs")
		}
		if len(in.Restart.CarbonBoxes) != len(cfg.A) {
			return 0, fmt.Errorf("fair: restart has %d carbon boxes, configuration has %d",
				len(in.Restart.CarbonBoxes), len(cfg.A))
		}
		if len(in.Restart.TempBoxes) != len(cfg.D) {
			return 0, fmt.Errorf("fair: restart has %d temperature boxes, configuration has %d",
				len(in.Restart.TempBoxes), len(cfg.D))
		}
	}
	return nt, nil
}

// runQ resolves the transient/equilibrium pair (constant from the
// configuration, or a per-timestep override) into the nt×2 q matrix.
func runQ(cfg *Config, tcrecs *mat.Dense, nt int) (*mat.Dense, error) {
	if tcrecs == nil {
		tcrecs = constantTCRECS(cfg.TCR, cfg.ECS)
	}
	return calculateQ(tcrecs, cfg.D, cfg.F2x, cfg.TCRDbl, nt)
}

// ceilingAdvisory warns, once per run, that the airborne-fraction
// target hit its ceiling: the configured horizon estimate is
// implausible beyond this point and the run continues with clipped
// dynamics.
func ceilingAdvisory(warned *bool, t int, cfg *Config) {
	if *warned {
		return
	}
	*warned = true
	log.Warnf("fair: airborne fraction target clipped at ceiling %g from timestep %d; continuing with clipped dynamics",
		cfg.IIRFMax, t)
}

// runCO2Emissions integrates a CO2-only emissions-driven run.
func runCO2Emissions(cfg *Config, in *Input, q *mat.Dense, nt int) (*Output, error) {
	out := &Output{
		Concentrations: mat.NewDense(nt, 1, nil),
		Forcing:        mat.NewDense(nt, 1, nil),
		TotalForcing:   make([]float64, nt),
		Temperature:    make([]float64, nt),
	}
	cPI := Gases["CO2"].PreIndustrial
	e := func(t int) float64 { return in.Emissions.At(t, 0) }
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

	if r := in.Restart; r != nil {
		cAcc = r.CumUptake
		cPrev := floats.Sum(r.CarbonBoxes) + cPI
		var c1 float64
		var clipped bool
		var err error
		c1, cAcc, boxes, alpha, clipped, err = carbonCycle(r.Emission, cAcc,
			r.Temperature(), cfg.R0, cfg.RC, cfg.RT, cfg.IIRFMax, r.Alpha,
			cfg.A, cfg.Tau, cfg.IIRFH, r.CarbonBoxes, cPI, cPrev, e(0))
		if err != nil {
			return nil, &ConvergenceError{Timestep: 0, Quantity: "carbon-box lifetime scaling", Err: err}
		}
		if clipped {
			ceilingAdvisory(&warned, 0, cfg)
		}
		out.Concentrations.Set(0, 0, c1)
		copy(tjPrev, r.TempBoxes)
	} else {
		// Initialize the reservoirs so the first timestep is correct
		// for the numerical method: the full first-step emission enters
		// the boxes without decay.
		for i := range boxes {
			boxes[i] = cfg.A[i] * e(0) / GtCPerPPM
		}
		out.Concentrations.Set(0, 0, floats.Sum(boxes)+cPI)
	}
	f0 := co2Forcing(out.Concentrations.At(0, 0), cPI, cfg.F2x) + extra(0)
	out.Forcing.Set(0, 0, f0)
	out.TotalForcing[0] = f0
	forcToTemp(tj, tjPrev, q.RawRowView(0), cfg.D, f0)
	out.Temperature[0] = floats.Sum(tj)

	for t := 1; t < nt; t++ {
		var c1 float64
		var clipped bool
		var err error
		c1, cAcc, boxes, alpha, clipped, err = carbonCycle(e(t-1), cAcc,
			out.Temperature[t-1], cfg.R0, cfg.RC, cfg.RT, cfg.IIRFMax, alpha,
			cfg.A, cfg.Tau, cfg.IIRFH, boxes, cPI,
			out.Concentrations.At(t-1, 0), e(t))
		if err != nil {
			return nil, &ConvergenceError{Timestep: t, Quantity: "carbon-box lifetime scaling", Err: err}
		}
		if clipped {
			ceilingAdvisory(&warned, t, cfg)
		}
		out.Concentrations.Set(t, 0, c1)
		f := co2Forcing(c1, cPI, cfg.F2x) + extra(t)
		out.Forcing.Set(t, 0, f)
		out.TotalForcing[t] = f
		tj, tjPrev = tjPrev, tj
		forcToTemp(tj, tjPrev, q.RawRowView(t), cfg.D, f)
		out.Temperature[t] = floats.Sum(tj)
	}

	if in.SaveRestart {
		out.Restart = &RestartState{
			CarbonBoxes: append([]float64(nil), boxes...),
			TempBoxes:   append([]float64(nil), tj...),
			CumUptake:   cAcc,
			Emission:    e(nt - 1),
			Alpha:       alpha,
		}
	}
	return out, nil
}

// runMultigasEmissions integrates a multi-gas emissions-driven run:
// CO2 through the carbon cycle, every other tracked gas through its
// one-box lifetime decay with natural background emissions.
func runMultigasEmissions(cfg *Config, in *Input, q *mat.Dense, nt int) (*Output, error) {
	out := &Output{
		Concentrations: mat.NewDense(nt, NConc, nil),
		Forcing:        mat.NewDense(nt, NForcing, nil),
		TotalForcing:   make([]float64, nt),
		Temperature:    make([]float64, nt),
	}
	cPI := Gases["CO2"].PreIndustrial
	nat := cfg.natural()
	ext := &externalForcing{
		tropO3:  in.TropO3RF,
		aerosol: in.AerosolRF,
		bcSnow:  in.BCSnowRF,
		extra:   in.ExtraRF,
	}
	e := func(t int) []float64 { return in.Emissions.RawRowView(t) }
	co2e := func(t int) float64 { return e(t)[ECO2Fossil] + e(t)[ECO2Land] }

	boxes := make([]float64, len(cfg.A))
	tj := make([]float64, len(cfg.D))
	tjPrev := make([]float64, len(cfg.D))
	var cAcc float64
	alpha := cfg.AlphaGuess
	warned := false

	for i := range boxes {
		boxes[i] = cfg.A[i] * co2e(0) / GtCPerPPM
	}
	out.Concentrations.Set(0, CCO2, floats.Sum(boxes)+cPI)
	for gi := 1; gi < NConc; gi++ {
		out.Concentrations.Set(0, gi, Gases[ConcNames[gi]].PreIndustrial)
	}
	cfg.multigasForcing(out.Forcing.RawRowView(0),
		out.Concentrations.RawRowView(0), e(0), ext, 0)
	out.TotalForcing[0] = totalForcing(out.Forcing.RawRowView(0), cfg.Efficacy)
	forcToTemp(tj, tjPrev, q.RawRowView(0), cfg.D, out.TotalForcing[0])
	out.Temperature[0] = floats.Sum(tj)

	for t := 1; t < nt; t++ {
		var c1 float64
		var clipped bool
		var err error
		c1, cAcc, boxes, alpha, clipped, err = carbonCycle(co2e(t-1), cAcc,
			out.Temperature[t-1], cfg.R0, cfg.RC, cfg.RT, cfg.IIRFMax, alpha,
			cfg.A, cfg.Tau, cfg.IIRFH, boxes, cPI,
			out.Concentrations.At(t-1, CCO2), co2e(t))
		if err != nil {
			return nil, &ConvergenceError{Timestep: t, Quantity: "carbon-box lifetime scaling", Err: err}
		}
		if clipped {
			ceilingAdvisory(&warned, t, cfg)
		}
		out.Concentrations.Set(t, CCO2, c1)
		for gi := 1; gi < NConc; gi++ {
			g := Gases[ConcNames[gi]]
			out.Concentrations.Set(t, gi, emisToConc(
				out.Concentrations.At(t-1, gi),
				e(t-1)[g.EmisCol]+nat[gi], e(t)[g.EmisCol]+nat[gi],
				1.0, g.Lifetime, EmisToConc(g.MolWt)))
		}
		cfg.multigasForcing(out.Forcing.RawRowView(t),
			out.Concentrations.RawRowView(t), e(t), ext, t)
		out.TotalForcing[t] = totalForcing(out.Forcing.RawRowView(t), cfg.Efficacy)
		tj, tjPrev = tjPrev, tj
		forcToTemp(tj, tjPrev, q.RawRowView(t), cfg.D, out.TotalForcing[t])
		out.Temperature[t] = floats.Sum(tj)
	}
	return out, nil
}

// runConcDriven integrates a concentration-driven run (either gas
// mode): the prescribed concentrations are passed through, and only
// forcing and temperature are computed.
func runConcDriven(cfg *Config, in *Input, q *mat.Dense, nt int) (*Output, error) {
	nf := 1
	if cfg.Multigas {
		nf = NForcing
	}
	out := &Output{
		Concentrations: mat.DenseCopyOf(in.Concentrations),
		Forcing:        mat.NewDense(nt, nf, nil),
		TotalForcing:   make([]float64, nt),
		Temperature:    make([]float64, nt),
	}
	cPI := Gases["CO2"].PreIndustrial
	ext := &externalForcing{
		tropO3:  in.TropO3RF,
		aerosol: in.AerosolRF,
		bcSnow:  in.BCSnowRF,
		extra:   in.ExtraRF,
	}
	tj := make([]float64, len(cfg.D))
	tjPrev := make([]float64, len(cfg.D))
	for t := 0; t < nt; t++ {
		if cfg.Multigas {
			// No emissions exist in this mode, so the precursor
			// regressions are unavailable; components not supplied
			// externally stay zero.
			cfg.multigasForcing(out.Forcing.RawRowView(t),
				out.Concentrations.RawRowView(t), nil, ext, t)
			out.TotalForcing[t] = totalForcing(out.Forcing.RawRowView(t), cfg.Efficacy)
		} else {
			f := co2Forcing(out.Concentrations.At(t, 0), cPI, cfg.F2x)
			if in.ExtraRF != nil {
				f += in.ExtraRF[t]
			}
			out.Forcing.Set(t, 0, f)
			out.TotalForcing[t] = f
		}
		if t > 0 {
			tj, tjPrev = tjPrev, tj
		}
		forcToTemp(tj, tjPrev, q.RawRowView(t), cfg.D, out.TotalForcing[t])
		out.Temperature[t] = floats.Sum(tj)
	}
	return out, nil
}
