package math

// Mat4 stores rows of a row-vector matrix: points multiply from the left
// (p' = p * M) and the translation lives in Data[12..14]. Read column-major,
// the same 16 floats are the column-vector matrix glTF and most GPU
// APIs expect.

func NewMat4Identity() Mat4 {
	return Mat4{Data: [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

/**
 * @brief Returns mt * other. Transforming by the result applies mt first.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	out := Mat4{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			out.Data[row*4+col] = sum
		}
	}
	return out
}

func NewMat4Translation(position Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[12], out.Data[13], out.Data[14] = position.X, position.Y, position.Z
	return out
}

func NewMat4Scale(scale Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[0], out.Data[5], out.Data[10] = scale.X, scale.Y, scale.Z
	return out
}

func NewMat4EulerX(radians float32) Mat4 {
	c, s := Cos(float64(radians)), Sin(float64(radians))
	out := NewMat4Identity()
	out.Data[5], out.Data[6] = c, s
	out.Data[9], out.Data[10] = -s, c
	return out
}

// NewMat4EulerY turns +Z towards +X: (0, 0, 1) maps to (sin a, 0, cos a).
func NewMat4EulerY(radians float32) Mat4 {
	c, s := Cos(float64(radians)), Sin(float64(radians))
	out := NewMat4Identity()
	out.Data[0], out.Data[2] = c, -s
	out.Data[8], out.Data[10] = s, c
	return out
}

func NewMat4EulerZ(radians float32) Mat4 {
	c, s := Cos(float64(radians)), Sin(float64(radians))
	out := NewMat4Identity()
	out.Data[0], out.Data[1] = c, s
	out.Data[4], out.Data[5] = -s, c
	return out
}

// NewMat4EulerXYZ rotates about X, then Y, then Z.
func NewMat4EulerXYZ(x, y, z float32) Mat4 {
	return NewMat4EulerX(x).Mul(NewMat4EulerY(y)).Mul(NewMat4EulerZ(z))
}

/**
 * @brief Transforms the point v by m, as if v had w = 1.
 */
func (v Vec3) Transform(m Mat4) Vec3 {
	d := m.Data
	return Vec3{
		v.X*d[0] + v.Y*d[4] + v.Z*d[8] + d[12],
		v.X*d[1] + v.Y*d[5] + v.Z*d[9] + d[13],
		v.X*d[2] + v.Y*d[6] + v.Z*d[10] + d[14],
	}
}

/**
 * @brief Transforms the direction v by m, ignoring translation. The result
 * is not renormalized.
 */
func (v Vec3) TransformDirection(m Mat4) Vec3 {
	d := m.Data
	return Vec3{
		v.X*d[0] + v.Y*d[4] + v.Z*d[8],
		v.X*d[1] + v.Y*d[5] + v.Z*d[9],
		v.X*d[2] + v.Y*d[6] + v.Z*d[10],
	}
}
