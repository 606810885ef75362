package vector

import (
	"fmt"
	"iter"
)

// Range is a lazily-evaluated, half-open range of integral vectors from
// Start (inclusive) to Stop (exclusive), advancing by Step on each axis.
// Negative steps walk an axis downward. Ranges store only their bounds;
// elements are computed on demand, and every call to Seq yields a fresh,
// independent iteration.
//
// Iteration order is zxy: the Z axis varies fastest, then X, then Y. This
// matches the order bulk block results are streamed by the server, which
// returns one horizontal layer at a time.
type Range struct {
	x, y, z axisRange
}

// NewRange returns the range [start, stop) with unit step.
func NewRange(start, stop Vector) (Range, error) {
	return NewRangeStep(start, stop, New(1, 1, 1))
}

// NewRangeStep returns the range [start, stop) advancing by step. All
// three vectors must be integral and no component of step may be zero.
func NewRangeStep(start, stop, step Vector) (Range, error) {
	if !start.IsIntegral() || !stop.IsIntegral() || !step.IsIntegral() {
		return Range{}, ErrNotIntegral
	}
	if step.X == 0 || step.Y == 0 || step.Z == 0 {
		return Range{}, ErrZeroStep
	}
	return Range{
		x: axisRange{int64(start.X), int64(stop.X), int64(step.X)},
		y: axisRange{int64(start.Y), int64(stop.Y), int64(step.Y)},
		z: axisRange{int64(start.Z), int64(stop.Z), int64(step.Z)},
	}, nil
}

// Start returns the inclusive corner of the range.
func (r Range) Start() Vector {
	return New(float64(r.x.start), float64(r.y.start), float64(r.z.start))
}

// Stop returns the exclusive corner of the range.
func (r Range) Stop() Vector {
	return New(float64(r.x.stop), float64(r.y.stop), float64(r.z.stop))
}

// Step returns the per-axis increment.
func (r Range) Step() Vector {
	return New(float64(r.x.step), float64(r.y.step), float64(r.z.step))
}

// Len returns the number of vectors in the range.
func (r Range) Len() int {
	return r.x.len() * r.y.len() * r.z.len()
}

// IsEmpty reports whether the range contains no vectors.
func (r Range) IsEmpty() bool {
	return r.Len() == 0
}

// UnitStep reports whether the range advances by exactly one on every
// axis, i.e. describes a solid axis-aligned box.
func (r Range) UnitStep() bool {
	return r.x.step == 1 && r.y.step == 1 && r.z.step == 1
}

// At returns the i'th vector of the range in iteration order, with false
// if i is out of bounds.
func (r Range) At(i int) (Vector, bool) {
	if i < 0 || i >= r.Len() {
		return Vector{}, false
	}
	nz, nx := r.z.len(), r.x.len()
	return New(
		float64(r.x.at((i/nz)%nx)),
		float64(r.y.at(i/(nz*nx))),
		float64(r.z.at(i%nz)),
	), true
}

// Index returns the position of v in iteration order, or ErrNotInRange.
func (r Range) Index(v Vector) (int, error) {
	if !v.IsIntegral() {
		return 0, ErrNotInRange
	}
	xi, ok := r.x.index(int64(v.X))
	if !ok {
		return 0, ErrNotInRange
	}
	yi, ok := r.y.index(int64(v.Y))
	if !ok {
		return 0, ErrNotInRange
	}
	zi, ok := r.z.index(int64(v.Z))
	if !ok {
		return 0, ErrNotInRange
	}
	return zi + r.z.len()*(xi+r.x.len()*yi), nil
}

// Contains reports whether v is an element of the range.
func (r Range) Contains(v Vector) bool {
	_, err := r.Index(v)
	return err == nil
}

// Seq returns an iterator over the range in zxy order. The sequence may
// be ranged over any number of times; each use starts from the beginning.
func (r Range) Seq() iter.Seq[Vector] {
	return func(yield func(Vector) bool) {
		for yi := 0; yi < r.y.len(); yi++ {
			y := float64(r.y.at(yi))
			for xi := 0; xi < r.x.len(); xi++ {
				x := float64(r.x.at(xi))
				for zi := 0; zi < r.z.len(); zi++ {
					if !yield(New(x, y, float64(r.z.at(zi)))) {
						return
					}
				}
			}
		}
	}
}

// Vectors materializes the range into a slice.
func (r Range) Vectors() []Vector {
	out := make([]Vector, 0, r.Len())
	for v := range r.Seq() {
		out = append(out, v)
	}
	return out
}

// Equal reports whether two ranges describe the same sequence of
// vectors. Ranges with different bounds may still be equal when both are
// empty, or when an oversized stop can never be reached by the step.
func (r Range) Equal(o Range) bool {
	return r.x.equal(o.x) && r.y.equal(o.y) && r.z.equal(o.z)
}

func (r Range) String() string {
	return fmt.Sprintf("range(%s, %s, step %s)", r.Start(), r.Stop(), r.Step())
}

// axisRange is a one-dimensional half-open integer range, the building
// block a Range is composed of.
type axisRange struct {
	start, stop, step int64
}

func (a axisRange) len() int {
	if a.step > 0 {
		if a.stop <= a.start {
			return 0
		}
		return int((a.stop - a.start + a.step - 1) / a.step)
	}
	if a.stop >= a.start {
		return 0
	}
	return int((a.start - a.stop - a.step - 1) / -a.step)
}

func (a axisRange) at(i int) int64 {
	return a.start + int64(i)*a.step
}

func (a axisRange) index(val int64) (int, bool) {
	d := val - a.start
	if d%a.step != 0 {
		return 0, false
	}
	i := int(d / a.step)
	if i < 0 || i >= a.len() {
		return 0, false
	}
	return i, true
}

func (a axisRange) equal(o axisRange) bool {
	n := a.len()
	if n != o.len() {
		return false
	}
	if n == 0 {
		return true
	}
	if a.start != o.start {
		return false
	}
	return n == 1 || a.step == o.step
}
