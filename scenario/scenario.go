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

// Package scenario defines the data contract between scenario datasets
// and the model engine: fixed-shape emissions and concentration
// matrices in an agreed species-column ordering, plus named forcing
// components. The engine treats these as opaque numeric matrices; this
// package owns the ordering, the per-species units, and a few synthetic
// scenarios used for benchmarking.
package scenario

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/mat"

	"github.com/spatialmodel/fair"
)

const secPerYear = 3600. * 8760. // seconds per year

// Scenario is one named family of emissions, concentrations, and
// forcing series. Unused series are nil.
type Scenario struct {
	Name  string
	Years []float64

	// Emissions is nt×17 in the species ordering of fair.EmisNames
	// (or nt×1 for a CO2-only scenario), species-specific units.
	Emissions *mat.Dense

	// Concentrations is nt×9 in the ordering of fair.ConcNames.
	Concentrations *mat.Dense

	// Named forcing components [W/m²].
	TropO3RF  []float64
	AerosolRF []float64
	BCSnowRF  []float64
	ExtraRF   []float64
}

// emisMassKg is the mass [kg] of one unit of each emissions column's
// native quantity: GtC for the CO2 columns, Mt for the short-lived
// species, kt for the halogenated species.
var emisMassKg = []float64{
	1.0e12, 1.0e12, // CO2 fossil, CO2 land use [GtC]
	1.0e9, 1.0e9, 1.0e9, 1.0e9, 1.0e9, 1.0e9, 1.0e9, 1.0e9, 1.0e9, // CH4..NH3 [Mt]
	1.0e6, 1.0e6, 1.0e6, 1.0e6, 1.0e6, 1.0e6, // CF4..CFC12 [kt]
}

// EmisUnits are the native units of each emissions column.
var EmisUnits = []string{
	"GtC/yr", "GtC/yr",
	"Mt/yr", "Mt/yr", "Mt/yr", "Mt/yr", "Mt/yr", "Mt/yr", "Mt/yr", "Mt/yr", "Mt/yr",
	"kt/yr", "kt/yr", "kt/yr", "kt/yr", "kt/yr", "kt/yr",
}

// EmissionScaleKg returns the mass [kg] of one native unit of emissions
// column col.
func EmissionScaleKg(col int) float64 { return emisMassKg[col] }

// EmissionRate returns the emission rate of species column col at
// timestep t as a dimensioned quantity [kg/s], converting from the
// column's native unit.
func (s *Scenario) EmissionRate(t, col int) *unit.Unit {
	v := s.Emissions.At(t, col)
	return unit.New(v*emisMassKg[col]/secPerYear,
		unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1})
}

// TenGtCPulse is the model's canonical reproducibility benchmark: a
// CO2-only scenario of 250 annual steps in which emissions step from 0
// to 10 GtC/yr at the midpoint, under a sinusoidal external forcing
// with a 14-year period and 0.5 W/m² amplitude.
func TenGtCPulse() *Scenario {
	const nt = 250
	s := &Scenario{
		Name:      "ten_GtC_pulse",
		Years:     make([]float64, nt),
		Emissions: mat.NewDense(nt, 1, nil),
		ExtraRF:   make([]float64, nt),
	}
	for t := 0; t < nt; t++ {
		s.Years[t] = float64(t)
		if t >= nt/2 {
			s.Emissions.Set(t, 0, 10.0)
		}
		s.ExtraRF[t] = 0.5 * math.Sin(2.0*math.Pi*float64(t)/14.0)
	}
	return s
}

// RampCO2 is a CO2-only scenario whose emissions grow linearly from 0
// to peak GtC/yr over nt annual steps.
func RampCO2(nt int, peak float64) *Scenario {
	s := &Scenario{
		Name:      "co2_ramp",
		Years:     make([]float64, nt),
		Emissions: mat.NewDense(nt, 1, nil),
	}
	for t := 0; t < nt; t++ {
		s.Years[t] = float64(t)
		s.Emissions.Set(t, 0, peak*float64(t)/float64(nt-1))
	}
	return s
}

// PreIndustrial is a multi-gas scenario with zero anthropogenic
// emissions for every species: the baseline against which any run must
// stay at pre-industrial concentrations and zero temperature anomaly.
func PreIndustrial(nt int) *Scenario {
	s := &Scenario{
		Name:      "pre_industrial",
		Years:     make([]float64, nt),
		Emissions: mat.NewDense(nt, fair.NEmis, nil),
	}
	for t := 0; t < nt; t++ {
		s.Years[t] = float64(t)
	}
	return s
}

// OnePercentCO2 is a concentration-driven benchmark: atmospheric CO2
// compounding at 1%/yr from the pre-industrial baseline for nt steps.
func OnePercentCO2(nt int) *Scenario {
	c0 := fair.Gases["CO2"].PreIndustrial
	s := &Scenario{
		Name:           "1pctCO2",
		Years:          make([]float64, nt),
		Concentrations: mat.NewDense(nt, 1, nil),
	}
	for t := 0; t < nt; t++ {
		s.Years[t] = float64(t)
		s.Concentrations.Set(t, 0, c0*math.Pow(1.01, float64(t)))
	}
	return s
}

// ReadEmissionsCSV reads an annual emissions scenario from r. The first
// record must be a header of "Year" followed by the 17 species names in
// fair.EmisNames order; each following record is one year of data.
func ReadEmissionsCSV(name string, r io.Reader) (*Scenario, error) {
	years, m, err := readMatrixCSV(r, fair.EmisNames)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading emissions for %s: %v", name, err)
	}
	return &Scenario{Name: name, Years: years, Emissions: m}, nil
}

// ReadConcentrationsCSV reads an annual concentration scenario from r,
// with a header of "Year" followed by the 9 species names in
// fair.ConcNames order.
func ReadConcentrationsCSV(name string, r io.Reader) (*Scenario, error) {
	years, m, err := readMatrixCSV(r, fair.ConcNames)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading concentrations for %s: %v", name, err)
	}
	return &Scenario{Name: name, Years: years, Concentrations: m}, nil
}

func readMatrixCSV(r io.Reader, names []string) ([]float64, *mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, nil, err
	}
	if len(header) != len(names)+1 || header[0] != "Year" {
		return nil, nil, fmt.Errorf("header must be Year followed by %d species names", len(names))
	}
	for i, name := range names {
		if header[i+1] != name {
			return nil, nil, fmt.Errorf("species column %d is %q, want %q", i, header[i+1], name)
		}
	}
	var years []float64
	var data []float64
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		row := make([]float64, len(rec))
		for i, field := range rec {
			if row[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, nil, fmt.Errorf("record %d field %d: %v", len(years)+1, i, err)
			}
		}
		years = append(years, row[0])
		data = append(data, row[1:]...)
	}
	if len(years) == 0 {
		return nil, nil, fmt.Errorf("no data records")
	}
	return years, mat.NewDense(len(years), len(names), data), nil
}
