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

// Forcing component indices. Each component is one forcing-formula
// family: CO2 is logarithmic in concentration, CH4 and N2O share a
// square-root formula with a cross-gas overlap correction, halogenated
// species are linear in concentration anomaly, tropospheric ozone and
// aerosol are precursor regressions (or externally supplied series),
// stratospheric water vapor is a fixed fraction of the no-overlap CH4
// term, black carbon on snow is external only, and FExtra carries any
// caller-supplied additional forcing.
const (
	FCO2, FCH4, FN2O, FHalo, FTropO3, FStratH2O, FAerosol, FBCSnow,
	FExtra = 0, 1, 2, 3, 4, 5, 6, 7, 8

	// NForcing is the number of forcing components in multi-gas mode.
	NForcing = 9
)

// ForcingNames are the forcing component names, in contract order.
var ForcingNames = []string{"CO2", "CH4", "N2O", "Halogens", "TropO3",
	"StratH2O", "Aerosol", "BCSnow", "Extra"}

// co2Forcing is the logarithmic CO2 forcing [W/m²] relative to the
// pre-industrial concentration c0, scaled so that a doubling gives f2x.
func co2Forcing(c, c0, f2x float64) float64 {
	return f2x / math.Ln2 * math.Log(c/c0)
}

// ghgOverlap is the CH4–N2O band overlap term of Myhre et al. (1998),
// with m and n in ppb.
func ghgOverlap(m, n float64) float64 {
	return 0.47 * math.Log(1.0+2.01e-5*math.Pow(m*n, 0.75)+
		5.31e-15*m*math.Pow(m*n, 1.52))
}

// ch4Forcing is the CH4 forcing [W/m²] including the overlap
// correction, holding N2O at its pre-industrial concentration n0.
func ch4Forcing(m, m0, n0 float64) float64 {
	return 0.036*(math.Sqrt(m)-math.Sqrt(m0)) -
		(ghgOverlap(m, n0) - ghgOverlap(m0, n0))
}

// n2oForcing is the N2O forcing [W/m²] including the overlap
// correction, holding CH4 at its pre-industrial concentration m0.
func n2oForcing(n, n0, m0 float64) float64 {
	return 0.12*(math.Sqrt(n)-math.Sqrt(n0)) -
		(ghgOverlap(m0, n) - ghgOverlap(m0, n0))
}

// stratH2OForcing is the stratospheric water vapor forcing [W/m²],
// parameterized as the fraction frac of the no-overlap CH4 term.
func stratH2OForcing(m, m0, frac float64) float64 {
	return frac * 0.036 * (math.Sqrt(m) - math.Sqrt(m0))
}

// halogenForcing sums the linear radiative-efficiency forcings [W/m²]
// of the halogenated species in concentration row c [ppt].
func halogenForcing(c []float64) float64 {
	var f float64
	for i := CCF4; i <= CCFC12; i++ {
		g := Gases[ConcNames[i]]
		f += g.RadEff * (c[i] - g.PreIndustrial) * 1.0e-3 // ppt → ppb
	}
	return f
}

// tropO3Forcing is the tropospheric ozone forcing [W/m²] regressed
// against the CH4 concentration anomaly and the CO, NMVOC, and NOx
// emission rates, with coefficients b (length 4).
func tropO3Forcing(b []float64, mAnom, eCO, eNMVOC, eNOx float64) float64 {
	return b[0]*mAnom + b[1]*eCO + b[2]*eNMVOC + b[3]*eNOx
}

// aerosolForcing is the combined direct and cloud-adjustment aerosol
// forcing [W/m²] regressed linearly against the seven precursor
// emission rates SOx through NH3, with coefficients b (length 7).
func aerosolForcing(b, e []float64) float64 {
	var f float64
	for i := 0; i < len(b); i++ {
		f += b[i] * e[ESOx+i]
	}
	return f
}

// externalForcing holds the forcing components that multi-gas mode
// accepts as externally pre-computed time series instead of the
// built-in precursor regressions. A nil series selects the regression
// (or zero, for black carbon on snow).
type externalForcing struct {
	tropO3  []float64
	aerosol []float64
	bcSnow  []float64
	extra   []float64
}

// multigasForcing fills the forcing component row f for one timestep
// from the concentration row c, the emissions row e, and any external
// series at index t.
func (cfg *Config) multigasForcing(f, c, e []float64, ext *externalForcing, t int) {
	cPI := Gases["CO2"].PreIndustrial
	mPI := Gases["CH4"].PreIndustrial
	nPI := Gases["N2O"].PreIndustrial

	f[FCO2] = co2Forcing(c[CCO2], cPI, cfg.F2x)
	f[FCH4] = ch4Forcing(c[CCH4], mPI, nPI)
	f[FN2O] = n2oForcing(c[CN2O], nPI, mPI)
	f[FHalo] = halogenForcing(c)
	f[FStratH2O] = stratH2OForcing(c[CCH4], mPI, cfg.StratH2OFromCH4)

	if ext.tropO3 != nil {
		f[FTropO3] = ext.tropO3[t]
	} else if e != nil {
		f[FTropO3] = tropO3Forcing(cfg.BTropO3, c[CCH4]-mPI,
			e[ECO], e[ENMVOC], e[ENOx])
	}
	if ext.aerosol != nil {
		f[FAerosol] = ext.aerosol[t]
	} else if e != nil {
		f[FAerosol] = aerosolForcing(cfg.BAerosol, e)
	}
	if ext.bcSnow != nil {
		f[FBCSnow] = ext.bcSnow[t]
	}
	if ext.extra != nil {
		f[FExtra] = ext.extra[t]
	}
}

// totalForcing is the efficacy-weighted sum of the forcing component
// row f: the effective radiative forcing the temperature response sees.
func totalForcing(f, efficacy []float64) float64 {
	var sum float64
	for i, v := range f {
		sum += v * efficacy[i]
	}
	return sum
}
