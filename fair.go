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

// Package fair implements a globally averaged, zero-dimensional simple
// climate model. Given a time series of greenhouse-gas and
// aerosol-precursor emissions (or, inversely, atmospheric
// concentrations) it produces concentrations, effective radiative
// forcing, and global mean temperature anomaly.
//
// The engine is a finite-amplitude impulse-response model: atmospheric
// CO2 is partitioned among four exponentially decaying reservoirs whose
// decay timescales are rescaled every timestep to satisfy a
// time-integrated airborne fraction target, and temperature is the sum
// of a small number of impulse-response boxes convolving the forcing
// history. Run drives the forward problem and RunInverse recovers the
// emissions implied by a prescribed CO2 trajectory.
//
// All operations are synchronous and the engine holds no state between
// calls; independent runs may be executed concurrently as long as they
// do not share a RestartState.
package fair

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// log receives advisory messages (for example when the airborne
// fraction target hits its configured ceiling). Advisories never stop a
// run.
var log *logrus.Logger = logrus.StandardLogger()

// SetLogger redirects advisory messages to l. Passing nil restores the
// standard logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		log = logrus.StandardLogger()
		return
	}
	log = l
}

// ConvergenceError reports a root-finding failure at a specific
// timestep. It is fatal for the run that produced it; the caller may
// retry with, for example, a wider solver bracket.
type ConvergenceError struct {
	Timestep int    // index of the offending timestep
	Quantity string // what was being solved for
	Err      error  // the underlying solver error
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("fair: solving %s at timestep %d: %v",
		e.Quantity, e.Timestep, e.Err)
}

func (e *ConvergenceError) Unwrap() error { return e.Err }
