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

// Package steady computes the constant emission rate that holds a
// single-lifetime greenhouse gas at a given atmospheric concentration.
// Its main use is deriving the natural background emissions that keep
// a gas at its pre-industrial concentration under the engine's
// discrete annual update, so a run with zero anthropogenic emissions
// stays exactly at pre-industrial levels.
package steady

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ctessum/unit"

	"github.com/spatialmodel/fair"
	"github.com/spatialmodel/fair/scenario"
)

const secPerYear = 3600. * 8760.

// Option overrides one of the gas properties used by Emissions.
type Option func(*params)

// Lifetime overrides the gas's atmospheric lifetime [yr].
func Lifetime(yr float64) Option { return func(p *params) { p.lifetime = yr } }

// MolWt overrides the gas's molecular weight [g/mol].
func MolWt(w float64) Option { return func(p *params) { p.molWt = w } }

// Concentration overrides the concentration to hold, in the gas's
// native mixing-ratio unit (ppb for CH4 and N2O, ppt for the
// halogenated species). The default is the pre-industrial value.
func Concentration(c float64) Option { return func(p *params) { p.conc = c } }

type params struct {
	lifetime float64
	molWt    float64
	conc     float64
}

// Emissions returns the constant emission rate that holds the named
// gas at its (pre-industrial, unless overridden) concentration under
// the discrete annual decay-and-emit update. The rate is in the gas's
// native emissions unit: Mt/yr for CH4 and N2O, kt/yr for the
// halogenated species. CO2 is not a single-lifetime gas and is not
// supported.
func Emissions(species string, opts ...Option) (float64, error) {
	g, ok := fair.Gases[species]
	if !ok || species == "CO2" {
		return 0, fmt.Errorf("steady: no single-lifetime gas %q; choose one of %s",
			species, strings.Join(gasNames(), ", "))
	}
	p := params{lifetime: g.Lifetime, molWt: g.MolWt, conc: g.PreIndustrial}
	for _, opt := range opts {
		opt(&p)
	}
	if p.lifetime <= 0 {
		return 0, fmt.Errorf("steady: %s lifetime must be positive; got %g", species, p.lifetime)
	}
	// One timestep removes C·(1−exp(−1/τ)) of burden; the steady rate
	// replaces exactly that.
	return p.conc * (1 - math.Exp(-1/p.lifetime)) / fair.EmisToConc(p.molWt), nil
}

// Rate is Emissions expressed as a dimensioned mass flow [kg/s].
func Rate(species string, opts ...Option) (*unit.Unit, error) {
	e, err := Emissions(species, opts...)
	if err != nil {
		return nil, err
	}
	scale := scenario.EmissionScaleKg(fair.Gases[species].EmisCol)
	return unit.New(e*scale/secPerYear,
		unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}), nil
}

func gasNames() []string {
	var names []string
	for name := range fair.Gases {
		if name != "CO2" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
