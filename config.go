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

	"github.com/BurntSushi/toml"
)

// DefaultIIRFHorizon is the airborne-fraction integration horizon the
// model is calibrated for. Runs configured with any other horizon get
// an advisory warning.
const DefaultIIRFHorizon = 100.0

// Config is the full set of physical and numerical parameters for one
// run. It is supplied wholesale and never mutated by the engine, so a
// single Config may back many concurrent runs.
type Config struct {
	// Carbon cycle.
	R0      float64   `toml:"r0" desc:"Pre-industrial time-integrated airborne fraction" units:"yr"`
	RC      float64   `toml:"rc" desc:"Airborne fraction sensitivity to cumulative carbon uptake" units:"yr/GtC"`
	RT      float64   `toml:"rt" desc:"Airborne fraction sensitivity to temperature anomaly" units:"yr/K"`
	IIRFMax float64   `toml:"iirf_max" desc:"Ceiling on the airborne fraction target" units:"yr"`
	IIRFH   float64   `toml:"iirf_h" desc:"Airborne fraction integration horizon" units:"yr"`
	A       []float64 `toml:"a" desc:"Carbon reservoir partition fractions"`
	Tau     []float64 `toml:"tau" desc:"Nominal carbon reservoir decay timescales" units:"yr"`

	// Temperature response.
	D      []float64 `toml:"d" desc:"Temperature box relaxation timescales" units:"yr"`
	TCR    float64   `toml:"tcr" desc:"Transient climate response" units:"K"`
	ECS    float64   `toml:"ecs" desc:"Equilibrium climate sensitivity" units:"K"`
	F2x    float64   `toml:"f2x" desc:"Forcing from a CO2 doubling" units:"W/m²"`
	TCRDbl float64   `toml:"tcr_dbl" desc:"Time to CO2 doubling under a 1%/yr ramp" units:"yr"`

	// Forcing.
	BTropO3         []float64 `toml:"b_tro3" desc:"Tropospheric ozone regression coefficients"`
	BAerosol        []float64 `toml:"b_aero" desc:"Aerosol regression coefficients"`
	Efficacy        []float64 `toml:"efficacy" desc:"Per-component forcing efficacies"`
	StratH2OFromCH4 float64   `toml:"stwv_from_ch4" desc:"Stratospheric water vapor fraction of CH4 forcing"`

	// Natural (background) emissions per concentration species, in each
	// species' emission unit. Nil selects the exact steady-state rates
	// that hold pre-industrial concentrations. The CO2 entry is unused.
	Natural []float64 `toml:"natural"`

	// Mode flags.
	Multigas        bool `toml:"multigas" desc:"Track the full multi-species contract rather than CO2 only"`
	EmissionsDriven bool `toml:"emissions_driven" desc:"Drive the run with emissions rather than concentrations"`

	// AlphaGuess seeds the first carbon-box scaling factor solve.
	AlphaGuess float64 `toml:"alpha_guess"`
}

// DefaultConfig returns the model's calibrated default parameters:
// a multi-gas, emissions-driven configuration.
func DefaultConfig() *Config {
	eff := make([]float64, NForcing)
	for i := range eff {
		eff[i] = 1.0
	}
	return &Config{
		R0:      35.0,
		RC:      0.019,
		RT:      4.165,
		IIRFMax: 97.0,
		IIRFH:   DefaultIIRFHorizon,
		A:       []float64{0.2173, 0.2240, 0.2824, 0.2763},
		Tau:     []float64{1000000.0, 394.4, 36.54, 4.304},

		D:      []float64{239.0, 4.1},
		TCR:    1.6,
		ECS:    2.75,
		F2x:    3.71,
		TCRDbl: math.Log(2) / math.Log(1.01),

		BTropO3:         []float64{2.8249e-4, 1.0695e-4, -9.3604e-4, 99.7831e-4},
		BAerosol:        []float64{-6.2227e-3, 0.0, -3.8392e-4, -1.16551e-3, 1.601537e-2, -1.45339e-3, -1.55605e-3},
		StratH2OFromCH4: 0.12,
		Efficacy:        eff,

		Multigas:        true,
		EmissionsDriven: true,
		AlphaGuess:      0.16,
	}
}

// LoadConfig reads a TOML parameter file over the defaults, so a file
// needs to list only the parameters it changes.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(filename, cfg); err != nil {
		return nil, fmt.Errorf("fair: parsing configuration file %s: %v", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for contradictory or out-of-domain
// parameters. It is run before any timestep, so an invalid
// configuration never partially executes.
func (cfg *Config) Validate() error {
	if len(cfg.A) == 0 || len(cfg.A) != len(cfg.Tau) {
		return fmt.Errorf("fair: carbon box partition fractions (%d) and timescales (%d) must match and be non-empty",
			len(cfg.A), len(cfg.Tau))
	}
	for i, tau := range cfg.Tau {
		if tau <= 0 {
			return fmt.Errorf("fair: carbon box %d has non-positive timescale %g", i, tau)
		}
	}
	if cfg.IIRFH <= 0 {
		return fmt.Errorf("fair: airborne fraction horizon must be positive, got %g", cfg.IIRFH)
	}
	if cfg.IIRFMax <= 0 {
		return fmt.Errorf("fair: airborne fraction ceiling must be positive, got %g", cfg.IIRFMax)
	}
	if len(cfg.D) != 2 {
		return fmt.Errorf("fair: exactly 2 temperature response timescales required, got %d", len(cfg.D))
	}
	for i, d := range cfg.D {
		if d <= 0 {
			return fmt.Errorf("fair: temperature box %d has non-positive timescale %g", i, d)
		}
	}
	if cfg.TCR <= 0 || cfg.ECS <= 0 {
		return fmt.Errorf("fair: climate response pair must be positive, got (%g, %g)", cfg.TCR, cfg.ECS)
	}
	if cfg.F2x <= 0 {
		return fmt.Errorf("fair: doubling forcing must be positive, got %g", cfg.F2x)
	}
	if cfg.Multigas {
		if len(cfg.BTropO3) != 4 {
			return fmt.Errorf("fair: 4 tropospheric ozone regression coefficients required, got %d", len(cfg.BTropO3))
		}
		if len(cfg.BAerosol) != 7 {
			return fmt.Errorf("fair: 7 aerosol regression coefficients required, got %d", len(cfg.BAerosol))
		}
		if len(cfg.Efficacy) != NForcing {
			return fmt.Errorf("fair: %d forcing efficacies required, got %d", NForcing, len(cfg.Efficacy))
		}
		if cfg.Natural != nil && len(cfg.Natural) != NConc {
			return fmt.Errorf("fair: %d natural emission rates required, got %d", NConc, len(cfg.Natural))
		}
	}
	return nil
}

// natural returns the per-species background emission rates, deriving
// steady-state defaults when the configuration does not override them.
func (cfg *Config) natural() []float64 {
	if cfg.Natural != nil {
		return cfg.Natural
	}
	nat := make([]float64, NConc)
	for i := 1; i < NConc; i++ { // CO2 is handled by the carbon cycle
		nat[i] = naturalEmission(Gases[ConcNames[i]])
	}
	return nat
}
