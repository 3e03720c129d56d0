package math

import (
	m "math"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief PI divided by 2. */
	K_HALF_PI float32 = 0.5 * K_PI
	/** @brief Multiplier converting degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief Larger than any coordinate a crown will have. */
	K_INFINITY float32 = 1e30
)

// Sin and Cos evaluate in float64 and round once, so ring samples at the
// same angle always produce bit-identical coordinates.
func Sin(x float64) float32 {
	return float32(m.Sin(x))
}

func Cos(x float64) float32 {
	return float32(m.Cos(x))
}

func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewVec3Zero() Vec3 { return Vec3{} }

func NewVec3One() Vec3 { return Vec3{1, 1, 1} }

/** @brief The +Y axis, the axis every crown part is built around. */
func NewVec3Up() Vec3 { return Vec3{0, 1, 0} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) MulScalar(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Negate() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Min and Max are component-wise.
func (v Vec3) Min(o Vec3) Vec3 { return Vec3{min(v.X, o.X), min(v.Y, o.Y), min(v.Z, o.Z)} }

func (v Vec3) Max(o Vec3) Vec3 { return Vec3{max(v.X, o.X), max(v.Y, o.Y), max(v.Z, o.Z)} }

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

/**
 * @brief Returns the vector orthogonal to both v and o, following the right
 * hand rule (x cross y = z).
 */
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSquared() float32 {
	return v.Dot(v)
}

func (v Vec3) Length() float32 {
	return float32(m.Sqrt(float64(v.LengthSquared())))
}

// Normalized returns v scaled to unit length. A zero vector stays zero.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Compare reports whether every component of v is within tolerance of o.
func (v Vec3) Compare(o Vec3, tolerance float32) bool {
	d := v.Sub(o)
	return abs(d.X) <= tolerance && abs(d.Y) <= tolerance && abs(d.Z) <= tolerance
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
