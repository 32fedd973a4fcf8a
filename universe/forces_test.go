package universe

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/sandeepkv93/cosmicsim/celestial"
	"github.com/sandeepkv93/cosmicsim/cosmology"
)

// makeTestCloud builds a deterministic cloud of generic bodies spread
// through a cube about 1e10 m across.
func makeTestCloud(n int, seed int64) []*celestial.Body {
	rng := rand.New(rand.NewSource(seed))

	bodies := make([]*celestial.Body, 0, n)
	for i := 0; i < n; i++ {
		pos := celestial.Vector3{
			X: (rng.Float64() - 0.5) * 1e10,
			Y: (rng.Float64() - 0.5) * 1e10,
			Z: (rng.Float64() - 0.5) * 1e10,
		}
		vel := celestial.Vector3{
			X: (rng.Float64() - 0.5) * 1000,
			Y: (rng.Float64() - 0.5) * 1000,
			Z: (rng.Float64() - 0.5) * 1000,
		}
		mass := 1e20 + rng.Float64()*1e24

		b, err := celestial.NewBody(i, fmt.Sprintf("cloud-%d", i), mass,
			celestial.SphericalFromCartesian(pos), vel)
		if err != nil {
			panic(err)
		}
		bodies = append(bodies, b)
	}
	return bodies
}

func TestInternalForcesCancel(t *testing.T) {
	u := New(DefaultConfig())
	bodies := makeTestCloud(8, 17)

	forces := u.accumulateForces(bodies)
	if len(forces) != 8 {
		t.Fatalf("Expected 8 force vectors, got %d", len(forces))
	}

	total := celestial.Vector3{}
	scale := 0.0
	for _, f := range forces {
		total = total.Add(f)
		scale += f.Magnitude()
	}

	if scale == 0 {
		t.Fatal("Expected nonzero forces in the cloud")
	}
	if total.Magnitude()/scale > 1e-12 {
		t.Errorf("Internal forces should cancel, residual %g of scale %g", total.Magnitude(), scale)
	}
}

func TestPairForceDirectionAndMagnitude(t *testing.T) {
	a, err := celestial.NewBody(0, "a", 1e20, celestial.SphericalFromCartesian(celestial.Vector3{X: 1e3}), celestial.Vector3{})
	if err != nil {
		t.Fatalf("Failed to create body: %v", err)
	}
	b, err := celestial.NewBody(1, "b", 2e20, celestial.SphericalFromCartesian(celestial.Vector3{X: 3e3}), celestial.Vector3{})
	if err != nil {
		t.Fatalf("Failed to create body: %v", err)
	}

	u := New(DefaultConfig())
	forces := u.accumulateForces([]*celestial.Body{a, b})

	if forces[0].X <= 0 {
		t.Errorf("First body should be pulled toward the second, got %v", forces[0])
	}
	if forces[1].X >= 0 {
		t.Errorf("Second body should be pulled back, got %v", forces[1])
	}

	if diff := forces[0].Add(forces[1]).Magnitude(); diff > 1e-12*forces[0].Magnitude() {
		t.Errorf("Pair forces should be equal and opposite, residual %g", diff)
	}

	d := 2e3
	expected := cosmology.GravitationalConstant * 1e20 * 2e20 / (d * d)
	if got := forces[0].Magnitude(); math.Abs(got-expected)/expected > 1e-9 {
		t.Errorf("Expected force magnitude %g, got %g", expected, got)
	}
}

func TestCoincidentBodiesStayFinite(t *testing.T) {
	a, err := celestial.NewBody(0, "a", 1e30, celestial.Spherical{}, celestial.Vector3{})
	if err != nil {
		t.Fatalf("Failed to create body: %v", err)
	}
	b, err := celestial.NewBody(1, "b", 1e30, celestial.Spherical{}, celestial.Vector3{})
	if err != nil {
		t.Fatalf("Failed to create body: %v", err)
	}

	u := New(DefaultConfig())
	forces := u.accumulateForces([]*celestial.Body{a, b})

	for i, f := range forces {
		for _, component := range []float64{f.X, f.Y, f.Z} {
			if math.IsNaN(component) || math.IsInf(component, 0) {
				t.Fatalf("Force on body %d is not finite: %v", i, f)
			}
		}
	}

	// Nearly coincident bodies lean on the softening term instead of
	// dividing by a vanishing distance.
	c, err := celestial.NewBody(2, "c", 1e30,
		celestial.SphericalFromCartesian(celestial.Vector3{X: 1e-20}), celestial.Vector3{})
	if err != nil {
		t.Fatalf("Failed to create body: %v", err)
	}

	forces = u.accumulateForces([]*celestial.Body{a, c})
	for i, f := range forces {
		for _, component := range []float64{f.X, f.Y, f.Z} {
			if math.IsNaN(component) || math.IsInf(component, 0) {
				t.Fatalf("Softened force on body %d is not finite: %v", i, f)
			}
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	bodies := makeTestCloud(16, 99)

	sequential := New(Config{ForceWorkers: 1})
	parallel := New(Config{ForceWorkers: 4})

	seqForces := sequential.accumulateForces(bodies)
	parForces := parallel.accumulateForces(bodies)

	for i := range bodies {
		diff := seqForces[i].Sub(parForces[i]).Magnitude()
		scale := seqForces[i].Magnitude()
		if scale == 0 {
			continue
		}
		if diff/scale > 1e-9 {
			t.Errorf("Body %d: sequential %v and parallel %v disagree", i, seqForces[i], parForces[i])
		}
	}
}

func TestParallelStepMatchesSequentialStep(t *testing.T) {
	seqUniverse := New(Config{ForceWorkers: 1})
	for _, b := range makeTestCloud(12, 5) {
		if err := seqUniverse.AddBody(b); err != nil {
			t.Fatalf("Failed to add body: %v", err)
		}
	}

	parCfg := Config{ForceWorkers: 4}
	parUniverse := New(parCfg)
	for _, b := range makeTestCloud(12, 5) {
		if err := parUniverse.AddBody(b); err != nil {
			t.Fatalf("Failed to add body: %v", err)
		}
	}

	for i := 0; i < 5; i++ {
		if err := seqUniverse.Step(10); err != nil {
			t.Fatalf("Sequential step failed: %v", err)
		}
		if err := parUniverse.Step(10); err != nil {
			t.Fatalf("Parallel step failed: %v", err)
		}
	}

	seqSnap := seqUniverse.Snapshot()
	parSnap := parUniverse.Snapshot()

	for i := range seqSnap.Bodies {
		sp := seqSnap.Bodies[i].Position
		pp := parSnap.Bodies[i].Position
		if sp.Distance(pp) > 1e-3 {
			t.Errorf("Body %d diverged between worker counts: %v vs %v", i, sp, pp)
		}
	}
}

func BenchmarkForcesSequential(b *testing.B) {
	u := New(Config{ForceWorkers: 1})
	bodies := makeTestCloud(32, 42)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.accumulateForces(bodies)
	}
}

func BenchmarkForcesParallel(b *testing.B) {
	u := New(Config{ForceWorkers: 4})
	bodies := makeTestCloud(32, 42)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.accumulateForces(bodies)
	}
}
