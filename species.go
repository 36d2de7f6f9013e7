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

import "math"

// Physical constants.
const (
	// MAtmos is the total mass of the atmosphere [kg].
	MAtmos = 5.1352e18

	// Molar masses [grams per mole]
	MolWtAir = 28.97
	MolWtC   = 12.01
	mwCH4    = 16.04
	mwN2     = 28.013 // N2O emissions are quoted on an N2 mass basis
	mwN      = 14.01
	mwNO     = 30.01
	mwS      = 32.07
	mwSO2    = 64.07
	mwCF4    = 88.0043
	mwC2F6   = 138.0118
	mwSF6    = 146.0554
	mwHFC134 = 102.03
	mwCFC11  = 137.3686
	mwCFC12  = 120.9140
)

// GtCPerPPM converts a CO2 mixing-ratio anomaly [ppm] to a carbon mass
// anomaly [GtC].
const GtCPerPPM = MAtmos / 1.0e18 * MolWtC / MolWtAir

// Emissions matrix column indices. Units are species specific: CO2 in
// GtC/yr, CH4 through NH3 in Mt/yr, halogenated species in kt/yr.
const (
	ECO2Fossil, ECO2Land, ECH4, EN2O, ESOx, ECO, ENMVOC, ENOx,
	EBC, EOC, ENH3, ECF4, EC2F6, ESF6, EHFC134A, ECFC11,
	ECFC12 = 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16

	// NEmis is the number of emissions species columns in multi-gas mode.
	NEmis = 17
)

// EmisNames are the emissions species column names, in contract order.
var EmisNames = []string{"CO2Fossil", "CO2LandUse", "CH4", "N2O", "SOx",
	"CO", "NMVOC", "NOx", "BC", "OC", "NH3", "CF4", "C2F6", "SF6",
	"HFC134a", "CFC11", "CFC12"}

// Concentration matrix column indices. CO2 is in ppm, CH4 and N2O in
// ppb, halogenated species in ppt.
const (
	CCO2, CCH4, CN2O, CCF4, CC2F6, CSF6, CHFC134A, CCFC11,
	CCFC12 = 0, 1, 2, 3, 4, 5, 6, 7, 8

	// NConc is the number of concentration species columns in
	// multi-gas mode.
	NConc = 9
)

// ConcNames are the concentration species column names, in contract order.
var ConcNames = []string{"CO2", "CH4", "N2O", "CF4", "C2F6", "SF6",
	"HFC134a", "CFC11", "CFC12"}

// GasProperty holds the static per-species constants consumed by the
// engine. These are process-wide read-only lookup data; Gases below is
// never mutated after package initialization.
type GasProperty struct {
	MolWt         float64 // molar mass used for mass↔mixing-ratio conversion [g/mol]
	Lifetime      float64 // atmospheric e-folding lifetime [yr]; 0 for CO2 (carbon cycle)
	RadEff        float64 // radiative efficiency [W/m²/ppb]; 0 where a formula applies
	PreIndustrial float64 // pre-industrial concentration, in the species' mixing-ratio unit
	EmisCol       int     // emissions matrix column for this gas
}

// Gases is the gas property table, keyed by concentration species name.
var Gases = map[string]GasProperty{
	"CO2":     {MolWt: MolWtC, PreIndustrial: 278.0, EmisCol: ECO2Fossil},
	"CH4":     {MolWt: mwCH4, Lifetime: 9.3, PreIndustrial: 722.0, EmisCol: ECH4},
	"N2O":     {MolWt: mwN2, Lifetime: 121.0, PreIndustrial: 273.0, EmisCol: EN2O},
	"CF4":     {MolWt: mwCF4, Lifetime: 50000.0, RadEff: 0.09, PreIndustrial: 35.0, EmisCol: ECF4},
	"C2F6":    {MolWt: mwC2F6, Lifetime: 10000.0, RadEff: 0.25, EmisCol: EC2F6},
	"SF6":     {MolWt: mwSF6, Lifetime: 3200.0, RadEff: 0.57, EmisCol: ESF6},
	"HFC134a": {MolWt: mwHFC134, Lifetime: 13.4, RadEff: 0.16, EmisCol: EHFC134A},
	"CFC11":   {MolWt: mwCFC11, Lifetime: 45.0, RadEff: 0.26, EmisCol: ECFC11},
	"CFC12":   {MolWt: mwCFC12, Lifetime: 100.0, RadEff: 0.32, EmisCol: ECFC12},
}

// EmisToConc returns the mixing-ratio increase per unit mass emission
// for a gas with molar mass molWt. The value is in ppb per Mt, which is
// numerically identical to ppt per kt, so the same factor serves both
// the Mt-quantified and kt-quantified species.
func EmisToConc(molWt float64) float64 {
	return 1.0 / (MAtmos / 1.0e18 * molWt / MolWtAir)
}

// naturalEmission returns the constant background emission rate that
// holds gas g exactly at its pre-industrial concentration under the
// one-box exponential-decay update. Using the exact discrete steady
// state (rather than the continuous approximation C/τ) keeps an
// all-zero anthropogenic run pinned to the baseline bit for bit.
func naturalEmission(g GasProperty) float64 {
	if g.Lifetime <= 0 {
		return 0
	}
	return g.PreIndustrial * (1.0 - math.Exp(-1.0/g.Lifetime)) / EmisToConc(g.MolWt)
}
