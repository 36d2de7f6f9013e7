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

// Package magicc imports MAGICC6 emissions scenario (.SCEN) files and
// converts them to the annual, fixed-column emissions matrices the
// model engine consumes.
//
// A .SCEN file begins with the number of data rows on its first line
// and the scenario name on its second, followed by free-form
// description lines. The WORLD data block starts at a line beginning
// with "YEARS" that names the data columns, followed by one line of
// units (ignored here) and then the data rows, each a year and one
// value per column. Scenario files are decadal or coarser; Open
// interpolates them to annual resolution.
package magicc

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"

	"github.com/spatialmodel/fair"
	"github.com/spatialmodel/fair/scenario"
)

// scenColumns are the data columns of a .SCEN WORLD block, in file
// order. They coincide with the first 11 emissions species of
// fair.EmisNames; the halogenated species are not part of the world
// block and are filled in separately.
var scenColumns = []string{
	"FossilCO2", "OtherCO2", "CH4", "N2O",
	"SOx", "CO", "NMVOC", "NOx", "BC", "OC", "NH3",
}

// Option configures Open.
type Option func(*reader) error

// StartYear sets the first year of the returned scenario. Years before
// the file's first data year require History.
func StartYear(y float64) Option {
	return func(r *reader) error {
		r.startYear = y
		r.haveStart = true
		return nil
	}
}

// History supplies an annual scenario to prepend when StartYear is
// earlier than the file's first data year. The history must be annual
// and must cover the gap up to the file start.
func History(h *scenario.Scenario) Option {
	return func(r *reader) error {
		if h.Emissions == nil {
			return fmt.Errorf("history scenario %s has no emissions", h.Name)
		}
		if _, c := h.Emissions.Dims(); c != fair.NEmis {
			return fmt.Errorf("history scenario %s has %d emissions species; need %d",
				h.Name, c, fair.NEmis)
		}
		r.history = h
		return nil
	}
}

// Harmonise blends the file data into the history: between the file's
// first data year and year y, each species follows a linear transition
// from the history's final value to the file value at y, rather than
// the file values themselves. Requires History; y must lie strictly
// inside the file's data span.
func Harmonise(y float64) Option {
	return func(r *reader) error {
		r.harmonise = y
		r.doHarmonise = true
		return nil
	}
}

// Halogens supplies annual emissions for the 6 halogenated species
// (columns CF4..CFC12 of fair.EmisNames, kt/yr), aligned with the
// returned scenario's years. By default those columns are zero.
func Halogens(m *mat.Dense) Option {
	return func(r *reader) error {
		if _, c := m.Dims(); c != fair.NEmis-fair.ECF4 {
			return fmt.Errorf("halogen matrix has %d columns; need %d", c, fair.NEmis-fair.ECF4)
		}
		r.halogens = m
		return nil
	}
}

type reader struct {
	startYear   float64
	haveStart   bool
	history     *scenario.Scenario
	harmonise   float64
	doHarmonise bool
	halogens    *mat.Dense
}

// Open reads the .SCEN file at path and returns it as an annual
// multi-gas scenario in the engine's species ordering.
func Open(path string, opts ...Option) (*scenario.Scenario, error) {
	r := new(reader)
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("magicc: %v", err)
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("magicc: %v", err)
	}
	defer f.Close()

	name, years, raw, err := parseSCEN(bufio.NewScanner(f))
	if err != nil {
		return nil, fmt.Errorf("magicc: parsing %s: %v", path, err)
	}
	s, err := r.assemble(name, years, raw)
	if err != nil {
		return nil, fmt.Errorf("magicc: %s: %v", path, err)
	}
	return s, nil
}

// parseSCEN reads the header and WORLD block, returning the scenario
// name, the file's (coarse) data years, and the raw data grid with one
// row per file year and one column per scenColumns entry.
func parseSCEN(sc *bufio.Scanner) (string, []float64, *sparse.DenseArray, error) {
	if !sc.Scan() {
		return "", nil, nil, fmt.Errorf("empty file")
	}
	nrows, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return "", nil, nil, fmt.Errorf("first line must be the data row count: %v", err)
	}
	if nrows < 2 {
		return "", nil, nil, fmt.Errorf("need at least 2 data rows; file declares %d", nrows)
	}
	if !sc.Scan() {
		return "", nil, nil, fmt.Errorf("missing scenario name line")
	}
	name := strings.TrimSpace(sc.Text())

	// Skip description lines until the column header.
	var header []string
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) > 0 && strings.EqualFold(fields[0], "YEARS") {
			header = fields[1:]
			break
		}
	}
	if header == nil {
		return "", nil, nil, fmt.Errorf("no YEARS column header found")
	}
	if len(header) != len(scenColumns) {
		return "", nil, nil, fmt.Errorf("world block has %d data columns; want %d",
			len(header), len(scenColumns))
	}
	for i, want := range scenColumns {
		if !strings.EqualFold(header[i], want) {
			return "", nil, nil, fmt.Errorf("column %d is %q, want %q", i, header[i], want)
		}
	}
	if !sc.Scan() { // units line
		return "", nil, nil, fmt.Errorf("missing units line")
	}

	years := make([]float64, 0, nrows)
	raw := sparse.ZerosDense(nrows, len(scenColumns))
	for i := 0; i < nrows; i++ {
		if !sc.Scan() {
			return "", nil, nil, fmt.Errorf("file declares %d data rows but ends after %d", nrows, i)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != len(scenColumns)+1 {
			return "", nil, nil, fmt.Errorf("data row %d has %d fields; want %d",
				i+1, len(fields), len(scenColumns)+1)
		}
		y, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return "", nil, nil, fmt.Errorf("data row %d year: %v", i+1, err)
		}
		if i > 0 && y <= years[i-1] {
			return "", nil, nil, fmt.Errorf("data row %d: year %g out of order", i+1, y)
		}
		years = append(years, y)
		for j, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return "", nil, nil, fmt.Errorf("data row %d column %s: %v", i+1, scenColumns[j], err)
			}
			raw.Set(v, i, j)
		}
	}
	return name, years, raw, nil
}

// assemble interpolates the coarse file grid to annual resolution and
// applies the start-year, history, harmonisation, and halogen options.
func (r *reader) assemble(name string, fileYears []float64, raw *sparse.DenseArray) (*scenario.Scenario, error) {
	fileStart, fileEnd := fileYears[0], fileYears[len(fileYears)-1]
	start := fileStart
	if r.haveStart {
		start = r.startYear
	}
	if start > fileEnd {
		return nil, fmt.Errorf("start year %g is after the last data year %g", start, fileEnd)
	}
	if start < fileStart && r.history == nil {
		return nil, fmt.Errorf("start year %g is before the first data year %g and no history was given",
			start, fileStart)
	}
	if r.doHarmonise {
		if r.history == nil {
			return nil, fmt.Errorf("harmonisation requires a history scenario")
		}
		if r.harmonise <= fileStart || r.harmonise > fileEnd {
			return nil, fmt.Errorf("harmonisation year %g outside the data span (%g, %g]",
				r.harmonise, fileStart, fileEnd)
		}
	}

	nt := int(fileEnd-start) + 1
	years := make([]float64, nt)
	for t := range years {
		years[t] = start + float64(t)
	}
	e := mat.NewDense(nt, fair.NEmis, nil)

	// Annual interpolation of the world block, column by column.
	fit := make([]interp.PiecewiseLinear, len(scenColumns))
	col := make([]float64, len(fileYears))
	for j := range scenColumns {
		for i := range fileYears {
			col[i] = raw.Get(i, j)
		}
		if err := fit[j].Fit(fileYears, col); err != nil {
			return nil, fmt.Errorf("interpolating %s: %v", scenColumns[j], err)
		}
	}
	for t, y := range years {
		if y < fileStart {
			continue // filled from history below
		}
		for j := range scenColumns {
			e.Set(t, j, fit[j].Predict(y))
		}
	}

	if start < fileStart {
		if err := r.fillHistory(years, e, fileStart); err != nil {
			return nil, err
		}
	}
	if r.doHarmonise {
		r.harmoniseJoin(years, e, fileStart)
	}

	if r.halogens != nil {
		hr, _ := r.halogens.Dims()
		if hr != nt {
			return nil, fmt.Errorf("halogen matrix has %d rows; scenario has %d years", hr, nt)
		}
		for t := 0; t < nt; t++ {
			for j := 0; j < fair.NEmis-fair.ECF4; j++ {
				e.Set(t, fair.ECF4+j, r.halogens.At(t, j))
			}
		}
	}

	return &scenario.Scenario{Name: name, Years: years, Emissions: e}, nil
}

// fillHistory copies the history scenario into the years before the
// file's first data year.
func (r *reader) fillHistory(years []float64, e *mat.Dense, fileStart float64) error {
	h := r.history
	index := make(map[float64]int, len(h.Years))
	for i, y := range h.Years {
		index[y] = i
	}
	for t, y := range years {
		if y >= fileStart {
			break
		}
		i, ok := index[y]
		if !ok {
			return fmt.Errorf("history scenario %s does not cover year %g", h.Name, y)
		}
		for j := 0; j < len(scenColumns); j++ {
			e.Set(t, j, h.Emissions.At(i, j))
		}
	}
	return nil
}

// harmoniseJoin replaces the file values between fileStart and the
// harmonisation year with a linear transition from the history's value
// at the year before fileStart to the file value at the harmonisation
// year.
func (r *reader) harmoniseJoin(years []float64, e *mat.Dense, fileStart float64) {
	h := r.history
	var from []float64
	for i, y := range h.Years {
		if y == fileStart-1 {
			from = mat.Row(nil, i, h.Emissions)
			break
		}
	}
	if from == nil {
		// No history year immediately before the file: anchor the
		// transition at the file's own first value instead.
		for t, y := range years {
			if y == fileStart {
				from = mat.Row(nil, t, e)
				break
			}
		}
	}
	span := r.harmonise - (fileStart - 1)
	for t, y := range years {
		if y < fileStart || y >= r.harmonise {
			continue
		}
		frac := (y - (fileStart - 1)) / span
		for j := 0; j < len(scenColumns); j++ {
			to := e.At(yearIndex(years, r.harmonise), j)
			e.Set(t, j, from[j]+frac*(to-from[j]))
		}
	}
}

func yearIndex(years []float64, y float64) int {
	return int(y - years[0])
}
