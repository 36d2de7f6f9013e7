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

// Package ensemble draws joint samples of the transient climate
// response (TCR) and equilibrium climate sensitivity (ECS) for
// perturbed-parameter model ensembles. The default moments and
// correlation reproduce the distribution of the CMIP5 model
// population; draws are lognormal and correlated unless configured
// otherwise.
package ensemble

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CMIP5 population moments.
const (
	defaultTCRMean = 1.81
	defaultTCRStd  = 0.40
	defaultECSMean = 3.22
	defaultECSStd  = 0.72
	defaultCorr    = 0.81
)

// Distribution selects the marginal sampling distribution.
type Distribution int

const (
	// LogNormal draws each marginal from a lognormal distribution
	// moment-matched to the configured mean and standard deviation.
	// Lognormal marginals cannot produce the nonphysical negative
	// sensitivities a normal tail would.
	LogNormal Distribution = iota
	// Normal draws each marginal from a normal distribution.
	Normal
)

// Option configures Generate.
type Option func(*config) error

// Seed sets the random seed. Equal seeds give bit-identical ensembles.
func Seed(s uint64) Option {
	return func(c *config) error { c.seed = s; return nil }
}

// Dist sets the marginal distribution.
func Dist(d Distribution) Option {
	return func(c *config) error {
		if d != LogNormal && d != Normal {
			return fmt.Errorf("unknown distribution %d", d)
		}
		c.dist = d
		return nil
	}
}

// TCR sets the TCR mean and standard deviation [K].
func TCR(mean, std float64) Option {
	return func(c *config) error {
		if mean <= 0 || std <= 0 {
			return fmt.Errorf("TCR moments must be positive; got mean=%g std=%g", mean, std)
		}
		c.tcrMean, c.tcrStd = mean, std
		return nil
	}
}

// ECS sets the ECS mean and standard deviation [K].
func ECS(mean, std float64) Option {
	return func(c *config) error {
		if mean <= 0 || std <= 0 {
			return fmt.Errorf("ECS moments must be positive; got mean=%g std=%g", mean, std)
		}
		c.ecsMean, c.ecsStd = mean, std
		return nil
	}
}

// Correlation sets the TCR–ECS correlation coefficient.
func Correlation(r float64) Option {
	return func(c *config) error {
		if r <= -1 || r >= 1 {
			return fmt.Errorf("correlation must be in (-1, 1); got %g", r)
		}
		c.corr = r
		return nil
	}
}

// Uncorrelated draws TCR and ECS independently.
func Uncorrelated() Option {
	return func(c *config) error { c.corr = 0; return nil }
}

// KeepAll retains draws in which ECS is below TCR. By default such
// pairs are rejected and redrawn, since they are inconsistent with the
// two-box response: the equilibrium warming cannot be less than the
// transient warming.
func KeepAll() Option {
	return func(c *config) error { c.strip = false; return nil }
}

type config struct {
	seed            uint64
	dist            Distribution
	tcrMean, tcrStd float64
	ecsMean, ecsStd float64
	corr            float64
	strip           bool
}

// Generate draws n (TCR, ECS) pairs and returns them as an n×2 matrix
// in the layout the engine's time-varying TCRECS input expects.
func Generate(n int, opts ...Option) (*mat.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("ensemble: size must be at least 1; got %d", n)
	}
	c := &config{
		dist:    LogNormal,
		tcrMean: defaultTCRMean, tcrStd: defaultTCRStd,
		ecsMean: defaultECSMean, ecsStd: defaultECSStd,
		corr:  defaultCorr,
		strip: true,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("ensemble: %v", err)
		}
	}

	// Cholesky factor of the 2×2 correlation matrix, used to couple
	// the two standard-normal streams.
	var chol mat.Cholesky
	corr := mat.NewSymDense(2, []float64{1, c.corr, c.corr, 1})
	if ok := chol.Factorize(corr); !ok {
		return nil, fmt.Errorf("ensemble: correlation matrix with r=%g is not positive definite", c.corr)
	}
	var l mat.TriDense
	chol.LTo(&l)

	std := distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   rand.NewPCG(c.seed, c.seed+1),
	}

	out := mat.NewDense(n, 2, nil)
	const maxRejects = 1000
	for i := 0; i < n; i++ {
		kept := false
		for reject := 0; reject < maxRejects; reject++ {
			z1 := std.Rand()
			z2 := l.At(1, 0)*z1 + l.At(1, 1)*std.Rand()
			tcr := c.transform(z1, c.tcrMean, c.tcrStd)
			ecs := c.transform(z2, c.ecsMean, c.ecsStd)
			if c.strip && ecs < tcr {
				continue
			}
			out.Set(i, 0, tcr)
			out.Set(i, 1, ecs)
			kept = true
			break
		}
		if !kept {
			return nil, fmt.Errorf("ensemble: no draw with ECS ≥ TCR in %d attempts; "+
				"check the configured moments", maxRejects)
		}
	}
	return out, nil
}

// transform maps a standard-normal variate to the configured marginal
// with the given moments.
func (c *config) transform(z, mean, std float64) float64 {
	if c.dist == Normal {
		return mean + std*z
	}
	// Moment-matched lognormal: mean and std of the draw equal the
	// requested arithmetic moments.
	s2 := math.Log(1 + (std/mean)*(std/mean))
	mu := math.Log(mean) - 0.5*s2
	return math.Exp(mu + math.Sqrt(s2)*z)
}
