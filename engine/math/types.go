package math

type Vec2 struct {
	X, Y float32
}

type Vec3 struct {
	X, Y, Z float32
}

/** @brief A 4x4 matrix in row-vector layout, see matrix.go. */
type Mat4 struct {
	Data [16]float32
}

/** @brief Axis aligned bounds of a set of points. */
type Extents3D struct {
	Min Vec3
	Max Vec3
}

/**
 * @brief One generated vertex. Which attributes reach the renderer is decided
 * by the vertex layout the vertices are packed with.
 */
type Vertex3D struct {
	Position Vec3
	Normal   Vec3
	/** @brief u, v in [0, 1]; v = 1 is the top of a surface. */
	Texcoord Vec2
}

/**
 * @brief Places a geometry: scale, then Euler rotation (radians, X then Y
 * then Z), then translation, followed by the parent transform if any.
 * Change it through the setters so the cached Local matrix is rebuilt.
 */
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3

	IsDirty bool
	Local   Mat4
	Parent  *Transform
}
