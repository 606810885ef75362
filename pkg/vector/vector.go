// Package vector provides the 3-D vector algebra used for all spatial
// operations against the game world: block coordinates, player positions,
// axis-aligned ranges and rotations.
//
// Vector is a plain value type. Every operation returns a new Vector, so
// instances are safe to share and to use as map keys or set members.
// Within the game world the X,Z plane is the ground and Y is height.
package vector

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Vector is a 3-dimensional vector with float64 components. Integer
// coordinates are represented exactly for any magnitude a game world can
// hold, so the one type serves both precise (player) and tile (block)
// positions.
type Vector struct {
	X, Y, Z float64
}

// New returns the vector (x, y, z).
func New(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// Parse parses a vector from its wire form "x,y,z".
func Parse(s string) (Vector, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ",", 3)
	if len(parts) != 3 {
		return Vector{}, fmt.Errorf("vector: malformed triple %q", s)
	}
	var v Vector
	for i, dst := range []*float64{&v.X, &v.Y, &v.Z} {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return Vector{}, fmt.Errorf("vector: component %d of %q: %w", i, s, err)
		}
		*dst = f
	}
	return v, nil
}

// String renders the vector in wire form. Integral components carry no
// decimal point, matching what the server expects for tile coordinates.
func (v Vector) String() string {
	return fmtComponent(v.X) + "," + fmtComponent(v.Y) + "," + fmtComponent(v.Z)
}

func fmtComponent(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Add returns the component-wise sum of v and o.
func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// AddScalar adds n to every component.
func (v Vector) AddScalar(n float64) Vector {
	return Vector{v.X + n, v.Y + n, v.Z + n}
}

// Sub returns the component-wise difference of v and o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// SubScalar subtracts n from every component.
func (v Vector) SubScalar(n float64) Vector {
	return Vector{v.X - n, v.Y - n, v.Z - n}
}

// Mul returns the component-wise product of v and o.
func (v Vector) Mul(o Vector) Vector {
	return Vector{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

// Scale multiplies every component by n.
func (v Vector) Scale(n float64) Vector {
	return Vector{v.X * n, v.Y * n, v.Z * n}
}

// Div returns the component-wise quotient of v and o. Any zero component
// in o yields ErrDivisionByZero.
func (v Vector) Div(o Vector) (Vector, error) {
	if o.X == 0 || o.Y == 0 || o.Z == 0 {
		return Vector{}, ErrDivisionByZero
	}
	return Vector{v.X / o.X, v.Y / o.Y, v.Z / o.Z}, nil
}

// DivScalar divides every component by n.
func (v Vector) DivScalar(n float64) (Vector, error) {
	if n == 0 {
		return Vector{}, ErrDivisionByZero
	}
	return Vector{v.X / n, v.Y / n, v.Z / n}, nil
}

// FloorDiv returns the component-wise floored quotient of v and o.
func (v Vector) FloorDiv(o Vector) (Vector, error) {
	if o.X == 0 || o.Y == 0 || o.Z == 0 {
		return Vector{}, ErrDivisionByZero
	}
	return Vector{
		math.Floor(v.X / o.X),
		math.Floor(v.Y / o.Y),
		math.Floor(v.Z / o.Z),
	}, nil
}

// FloorDivScalar divides every component by n and floors the result.
func (v Vector) FloorDivScalar(n float64) (Vector, error) {
	if n == 0 {
		return Vector{}, ErrDivisionByZero
	}
	return Vector{
		math.Floor(v.X / n),
		math.Floor(v.Y / n),
		math.Floor(v.Z / n),
	}, nil
}

// Mod returns the component-wise remainder of v and o. The result takes
// the sign of the divisor, consistent with floored division.
func (v Vector) Mod(o Vector) (Vector, error) {
	if o.X == 0 || o.Y == 0 || o.Z == 0 {
		return Vector{}, ErrDivisionByZero
	}
	return Vector{fmod(v.X, o.X), fmod(v.Y, o.Y), fmod(v.Z, o.Z)}, nil
}

// ModScalar returns the remainder of every component divided by n.
func (v Vector) ModScalar(n float64) (Vector, error) {
	if n == 0 {
		return Vector{}, ErrDivisionByZero
	}
	return Vector{fmod(v.X, n), fmod(v.Y, n), fmod(v.Z, n)}, nil
}

// fmod is a floored-division remainder: the result has the divisor's sign.
func fmod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// Pow raises each component of v to the matching component of o.
func (v Vector) Pow(o Vector) Vector {
	return Vector{math.Pow(v.X, o.X), math.Pow(v.Y, o.Y), math.Pow(v.Z, o.Z)}
}

// PowScalar raises every component to the power n.
func (v Vector) PowScalar(n float64) Vector {
	return Vector{math.Pow(v.X, n), math.Pow(v.Y, n), math.Pow(v.Z, n)}
}

// Lsh shifts each integral component left by the matching component of o.
// Either vector holding a non-integral component yields ErrNotIntegral.
func (v Vector) Lsh(o Vector) (Vector, error) {
	a, err := v.ints()
	if err != nil {
		return Vector{}, err
	}
	b, err := o.ints()
	if err != nil {
		return Vector{}, err
	}
	return Vector{
		float64(a[0] << uint(b[0])),
		float64(a[1] << uint(b[1])),
		float64(a[2] << uint(b[2])),
	}, nil
}

// Rsh shifts each integral component right by the matching component of o.
func (v Vector) Rsh(o Vector) (Vector, error) {
	a, err := v.ints()
	if err != nil {
		return Vector{}, err
	}
	b, err := o.ints()
	if err != nil {
		return Vector{}, err
	}
	return Vector{
		float64(a[0] >> uint(b[0])),
		float64(a[1] >> uint(b[1])),
		float64(a[2] >> uint(b[2])),
	}, nil
}

// LshScalar shifts every component left by n bits.
func (v Vector) LshScalar(n uint) (Vector, error) {
	a, err := v.ints()
	if err != nil {
		return Vector{}, err
	}
	return Vector{float64(a[0] << n), float64(a[1] << n), float64(a[2] << n)}, nil
}

// RshScalar shifts every component right by n bits.
func (v Vector) RshScalar(n uint) (Vector, error) {
	a, err := v.ints()
	if err != nil {
		return Vector{}, err
	}
	return Vector{float64(a[0] >> n), float64(a[1] >> n), float64(a[2] >> n)}, nil
}

func (v Vector) ints() ([3]int64, error) {
	if !v.IsIntegral() {
		return [3]int64{}, ErrNotIntegral
	}
	return [3]int64{int64(v.X), int64(v.Y), int64(v.Z)}, nil
}

// IsIntegral reports whether every component is a whole number.
func (v Vector) IsIntegral() bool {
	return v.X == math.Trunc(v.X) && v.Y == math.Trunc(v.Y) && v.Z == math.Trunc(v.Z)
}

// Neg returns the vector with every component negated.
func (v Vector) Neg() Vector {
	return Vector{-v.X, -v.Y, -v.Z}
}

// Abs returns the vector with the absolute value of every component.
func (v Vector) Abs() Vector {
	return Vector{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)}
}

// Zero reports whether every component is zero.
func (v Vector) Zero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Round rounds every component to the nearest integer, halves away from
// zero.
func (v Vector) Round() Vector {
	return Vector{math.Round(v.X), math.Round(v.Y), math.Round(v.Z)}
}

// RoundTo rounds every component to the given number of decimal digits.
func (v Vector) RoundTo(digits int) Vector {
	p := math.Pow(10, float64(digits))
	return Vector{
		math.Round(v.X*p) / p,
		math.Round(v.Y*p) / p,
		math.Round(v.Z*p) / p,
	}
}

// Ceil rounds every component up to the nearest integer.
func (v Vector) Ceil() Vector {
	return Vector{math.Ceil(v.X), math.Ceil(v.Y), math.Ceil(v.Z)}
}

// Floor rounds every component toward negative infinity. This is the
// operation that maps a continuous position onto the containing tile;
// truncation would be wrong for negative coordinates.
func (v Vector) Floor() Vector {
	return Vector{math.Floor(v.X), math.Floor(v.Y), math.Floor(v.Z)}
}

// Trunc rounds every component toward zero.
func (v Vector) Trunc() Vector {
	return Vector{math.Trunc(v.X), math.Trunc(v.Y), math.Trunc(v.Z)}
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vector) Cross(o Vector) Vector {
	return Vector{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// DistanceTo returns the Euclidean distance between v and o.
func (v Vector) DistanceTo(o Vector) float64 {
	return v.Sub(o).Magnitude()
}

// Magnitude returns the Euclidean norm of the vector.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Unit returns the vector scaled to magnitude one. The zero vector is
// returned unchanged.
func (v Vector) Unit() Vector {
	m := v.Magnitude()
	if m == 0 {
		return v
	}
	return v.Scale(1 / m)
}

// Project returns the scalar projection of v onto o.
func (v Vector) Project(o Vector) float64 {
	return v.Dot(o.Unit())
}

// AngleBetween returns the angle between v and o in degrees.
func (v Vector) AngleBetween(o Vector) float64 {
	cos := v.Unit().Dot(o.Unit())
	// Clamp against floating point drift before acos.
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// Rotate returns v rotated angle degrees about the axis vector using the
// right-hand rule. The axis need not be normalized. The result always has
// floating point components, even for integral inputs.
//
// The implementation is Rodrigues' rotation formula.
func (v Vector) Rotate(angle float64, about Vector) Vector {
	theta := angle * math.Pi / 180
	k := about.Unit()
	cos, sin := math.Cos(theta), math.Sin(theta)
	return v.Scale(cos).
		Add(k.Cross(v).Scale(sin)).
		Add(k.Scale(k.Dot(v) * (1 - cos)))
}

// RotateAround rotates v about the line through origin parallel to the
// axis vector.
func (v Vector) RotateAround(angle float64, about, origin Vector) Vector {
	return v.Sub(origin).Rotate(angle, about).Add(origin)
}

// Hash returns a stable hash of the vector, derived from a canonical bit
// representation of the components. Equal vectors hash equally no matter
// which operations produced them; in particular negative zero hashes the
// same as zero, so integer and float code paths cannot diverge.
func (v Vector) Hash() uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], canonicalBits(v.X))
	binary.LittleEndian.PutUint64(buf[8:], canonicalBits(v.Y))
	binary.LittleEndian.PutUint64(buf[16:], canonicalBits(v.Z))
	return xxhash.Sum64(buf[:])
}

func canonicalBits(f float64) uint64 {
	if f == 0 {
		// Collapse -0.0 and +0.0.
		return 0
	}
	return math.Float64bits(f)
}
