package math

// GeometryGenerateNormals assigns each triangle's face normal to its three
// vertices. Vertices shared between faces end up with the normal of the last
// face that references them, so flat-shaded meshes should not share vertices.
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		c := GeometryTriangleNormal(vertices[i0].Position, vertices[i1].Position, vertices[i2].Position)
		if c.LengthSquared() == 0 {
			// Degenerate triangle, no direction to give it.
			continue
		}
		normal := c.Normalized()

		vertices[i0].Normal = normal
		vertices[i1].Normal = normal
		vertices[i2].Normal = normal
	}
}

// GeometryTriangleNormal returns the unnormalized normal of the triangle
// (a, b, c) wound counter-clockwise.
func GeometryTriangleNormal(a, b, c Vec3) Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// GeometryComputeExtents returns the bounding box and its centre. An empty
// slice yields zero extents.
func GeometryComputeExtents(vertices []Vertex3D) (Extents3D, Vec3) {
	if len(vertices) == 0 {
		return Extents3D{}, NewVec3Zero()
	}
	ext := Extents3D{
		Min: NewVec3(K_INFINITY, K_INFINITY, K_INFINITY),
		Max: NewVec3(-K_INFINITY, -K_INFINITY, -K_INFINITY),
	}
	for _, v := range vertices {
		ext.Min = ext.Min.Min(v.Position)
		ext.Max = ext.Max.Max(v.Position)
	}
	center := ext.Min.Add(ext.Max).MulScalar(0.5)
	return ext, center
}
