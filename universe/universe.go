// Package universe owns the simulation state: an ordered collection of
// celestial bodies advanced step by step under Newtonian pairwise gravity,
// with each body's local clock scaled by its relativistic time-dilation
// factor.
package universe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sandeepkv93/cosmicsim/celestial"
	"github.com/sandeepkv93/cosmicsim/cosmology"
)

var (
	// ErrNilBody is returned when nil is offered to AddBody.
	ErrNilBody = errors.New("universe: nil body")

	// ErrBodyOwned is returned when a body already claimed by a universe
	// or a moon list is offered to AddBody.
	ErrBodyOwned = errors.New("universe: body is already owned")

	// ErrNonPositiveDt is returned when Step is asked to advance by a zero
	// or negative interval.
	ErrNonPositiveDt = errors.New("universe: step size must be positive")
)

// Config controls a universe. The zero value is usable but ForceWorkers is
// normalized to at least one.
type Config struct {
	// Params are the large-scale parameters reported in snapshots.
	Params cosmology.Params

	// ForceWorkers is the number of goroutines used for pairwise force
	// accumulation. One worker runs the plain sequential sweep.
	ForceWorkers int
}

// DefaultConfig returns a sequential configuration with present-day
// cosmological parameters.
func DefaultConfig() Config {
	return Config{
		Params:       cosmology.DefaultParams(),
		ForceWorkers: 1,
	}
}

// Observer receives a snapshot after every completed step. Callbacks run on
// the stepping goroutine after the universe lock is released, so observers
// may call back into the universe freely.
type Observer interface {
	OnStepComplete(snap Snapshot)
}

// Universe is an append-only collection of bodies plus the clocks that
// govern them. Bodies join before the first step or between steps and are
// never removed. All methods are safe for concurrent use; a step never
// overlaps a reader.
type Universe struct {
	mu        sync.RWMutex
	cfg       Config
	bodies    []*celestial.Body
	time      float64
	steps     int
	observers []Observer
}

// New creates an empty universe.
func New(cfg Config) *Universe {
	if cfg.ForceWorkers < 1 {
		cfg.ForceWorkers = 1
	}
	return &Universe{cfg: cfg}
}

// AddBody appends a root body. The universe takes exclusive ownership, so a
// body already inside a universe or attached to a planet as a moon is
// rejected. Malformed bodies assembled by hand are rejected at this
// boundary with the same errors the constructors use.
func (u *Universe) AddBody(b *celestial.Body) error {
	if b == nil {
		return ErrNilBody
	}
	if b.Mass <= 0 {
		return fmt.Errorf("%w: %q has mass %g", celestial.ErrNonPositiveMass, b.Name, b.Mass)
	}
	if !b.Position.Valid() {
		return fmt.Errorf("%w: %q", celestial.ErrInvalidCoordinate, b.Name)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if err := b.Claim(); err != nil {
		return fmt.Errorf("%w: %q", ErrBodyOwned, b.Name)
	}
	u.bodies = append(u.bodies, b)
	return nil
}

// AddObserver registers an observer for step notifications.
func (u *Universe) AddObserver(o Observer) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.observers = append(u.observers, o)
}

// Time returns the universal simulation clock. It advances by exactly dt
// per step for every body, whatever their individual dilation.
func (u *Universe) Time() float64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.time
}

// StepCount returns the number of completed steps.
func (u *Universe) StepCount() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.steps
}

// BodyCount returns the number of root bodies. Moons attached to planets
// are not counted here; they show up in snapshots.
func (u *Universe) BodyCount() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.bodies)
}

// Params returns the universe's cosmological parameters.
func (u *Universe) Params() cosmology.Params {
	return u.cfg.Params
}

// Bodies returns deep copies of the root bodies in insertion order.
// Mutating a copy has no effect on the simulation.
func (u *Universe) Bodies() []*celestial.Body {
	u.mu.RLock()
	defer u.mu.RUnlock()

	out := make([]*celestial.Body, len(u.bodies))
	for i, b := range u.bodies {
		out[i] = b.Copy()
	}
	return out
}

// Body returns a deep copy of the body with the given ID, searching roots
// and moons alike. The second return reports whether the ID was found.
func (u *Universe) Body(id int) (*celestial.Body, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	for _, b := range u.simulationSet() {
		if b.ID == id {
			return b.Copy(), true
		}
	}
	return nil, false
}

// simulationSet returns every body that takes part in integration: the
// roots in insertion order, then each planet's moon tree depth first, in
// root insertion order. Moons attract and fall like any other body.
//
// Callers must hold the lock.
func (u *Universe) simulationSet() []*celestial.Body {
	set := make([]*celestial.Body, 0, len(u.bodies))
	set = append(set, u.bodies...)
	for _, b := range u.bodies {
		set = appendMoons(set, b)
	}
	return set
}

func appendMoons(set []*celestial.Body, b *celestial.Body) []*celestial.Body {
	for _, m := range b.Moons() {
		set = append(set, m)
		set = appendMoons(set, m)
	}
	return set
}

// Step advances the universe by one tick of size dt.
//
// The sequence is fixed: pairwise forces accumulate against the pre-step
// positions, dilation factors are evaluated against the same pre-step
// state, and only then does each body integrate independently. Velocity
// updates first and is capped at the speed of light, then the position
// round-trips through Cartesian space, then the body's own clocks advance
// by its dilated interval. The result does not depend on body order.
func (u *Universe) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("%w: %g", ErrNonPositiveDt, dt)
	}

	u.mu.Lock()

	set := u.simulationSet()
	forces := u.accumulateForces(set)

	dilations := make([]float64, len(set))
	for i, b := range set {
		dilations[i] = b.TimeDilationFactor(set)
	}

	for i, b := range set {
		integrate(b, forces[i], dilations[i], dt)
	}

	u.time += dt
	u.steps++

	var snap Snapshot
	var observers []Observer
	if len(u.observers) > 0 {
		snap = u.snapshotLocked()
		observers = append([]Observer(nil), u.observers...)
	}
	u.mu.Unlock()

	for _, o := range observers {
		o.OnStepComplete(snap)
	}
	return nil
}

// integrate applies one explicit Euler update to a single body using the
// forces and dilation factor computed before any body moved.
func integrate(b *celestial.Body, force celestial.Vector3, dilation, dt float64) {
	effDt := dt * dilation
	accel := force.Div(b.Mass)

	b.Velocity = b.Velocity.Add(accel.Scale(effDt))
	if speed := b.Velocity.Magnitude(); speed > cosmology.SpeedOfLight {
		b.Velocity = b.Velocity.Scale(cosmology.SpeedOfLight / speed)
	}

	next := b.Position.Cartesian().Add(b.Velocity.Scale(effDt))
	b.Position = celestial.SphericalFromCartesian(next)

	b.ProperTime += effDt
	b.Age += effDt
}

// Run advances the universe by count steps of size dt, checking for
// cancellation between steps. A step that has started always completes.
func (u *Universe) Run(ctx context.Context, count int, dt float64) error {
	for i := 0; i < count; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := u.Step(dt); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunContinuous steps the universe once per tick until the context is
// cancelled.
func (u *Universe) RunContinuous(ctx context.Context, interval time.Duration, dt float64) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := u.Step(dt); err != nil {
				return err
			}
		}
	}
}
