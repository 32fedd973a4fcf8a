package universe

import (
	"sync"

	"github.com/sandeepkv93/cosmicsim/celestial"
	"github.com/sandeepkv93/cosmicsim/cosmology"
)

// accumulateForces computes the net gravitational force on every body in
// set. Each unordered pair is visited exactly once: the pair force acts
// positively on the lower-indexed body and negatively on the higher-indexed
// one, so internal forces cancel to machine precision.
//
// All distances are measured against a single Cartesian snapshot of the
// pre-step positions. The softening term keeps the force finite for
// coincident bodies.
func (u *Universe) accumulateForces(set []*celestial.Body) []celestial.Vector3 {
	n := len(set)
	forces := make([]celestial.Vector3, n)
	if n < 2 {
		return forces
	}

	positions := cartesianPositions(set)

	workers := u.cfg.ForceWorkers
	if workers <= 1 || n < 2*workers {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				f := pairForce(positions, set, i, j)
				forces[i] = forces[i].Add(f)
				forces[j] = forces[j].Sub(f)
			}
		}
		return forces
	}

	return accumulateForcesParallel(positions, set, workers)
}

// accumulateForcesParallel fans the pair sweep out over the given number of
// workers. Rows are strided across workers and every worker writes only to
// its private accumulator; the partial sums are reduced after all workers
// have finished, so integration never observes a half-built force.
func accumulateForcesParallel(positions []celestial.Vector3, set []*celestial.Body, workers int) []celestial.Vector3 {
	n := len(set)

	partials := make([][]celestial.Vector3, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		partials[w] = make([]celestial.Vector3, n)
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			local := partials[w]
			for i := w; i < n; i += workers {
				for j := i + 1; j < n; j++ {
					f := pairForce(positions, set, i, j)
					local[i] = local[i].Add(f)
					local[j] = local[j].Sub(f)
				}
			}
		}(w)
	}
	wg.Wait()

	forces := make([]celestial.Vector3, n)
	for _, local := range partials {
		for i, f := range local {
			forces[i] = forces[i].Add(f)
		}
	}
	return forces
}

func cartesianPositions(set []*celestial.Body) []celestial.Vector3 {
	positions := make([]celestial.Vector3, len(set))
	for i, b := range set {
		positions[i] = b.Position.Cartesian()
	}
	return positions
}

// pairForce returns the gravitational force exerted on body i by body j.
func pairForce(positions []celestial.Vector3, set []*celestial.Body, i, j int) celestial.Vector3 {
	r := positions[j].Sub(positions[i])
	distSq := r.MagnitudeSq() + cosmology.Softening
	magnitude := cosmology.GravitationalConstant * set[i].Mass * set[j].Mass / distSq
	return r.Normalize().Scale(magnitude)
}
