package systems

import (
	gomath "math"

	"github.com/spaghettifunk/crown/engine/math"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

/** @brief Surface names of a hollow cylinder, in draw order. */
const (
	SurfaceOuter  = "outer"
	SurfaceInner  = "inner"
	SurfaceTop    = "top"
	SurfaceBottom = "bottom"
	SurfaceSide   = "side"
	SurfaceCross  = "cross"
	SurfaceSpike  = "spike"
)

func geometryName(name string) string {
	if len(name) > 0 {
		return name
	}
	return metadata.DefaultGeometryName
}

// ringSample returns the angle and the u coordinate of angular sample i.
// A zero sector count yields a single sample at angle 0.
func ringSample(i, sectors uint32) (float64, float32) {
	if sectors == 0 {
		return 0, 0
	}
	step := 2 * gomath.Pi / float64(sectors)
	return float64(i) * step, float32(i) / float32(sectors)
}

/**
 * @brief Generates configuration for a hollow cylindrical shell centred on the
 * origin, with its axis along Y.
 *
 * For each of the sectors+1 angular samples four vertices are emitted in this
 * order: outer-top, outer-bottom, inner-top, inner-bottom. Sample 0 and sample
 * `sectors` share a position but carry u = 0 and u = 1. Each segment then
 * links to the next sample modulo sectors, so the ring closes on sample 0.
 *
 * The result has four surfaces: outer, inner, top and bottom, each holding
 * 6*sectors indices and wound counter-clockwise seen from the side it faces
 * (outer away from the axis, inner towards it, top up, bottom down).
 *
 * The radii are not checked. outerRadius > innerRadius > 0, height > 0 and
 * sectors >= 3 are the caller's responsibility; anything else produces
 * degenerate geometry but never panics.
 *
 * @param outerRadius The radius of the outer wall.
 * @param innerRadius The radius of the inner wall.
 * @param height The height of the shell.
 * @param sectors The number of angular subdivisions.
 * @param name The name of the generated geometry.
 * @return A geometry configuration which can then be fed into GeometrySystem.AcquireFromConfig().
 */
func GenerateHollowCylinderConfig(outerRadius, innerRadius, height float32, sectors uint32, name string) *metadata.GeometryConfig {
	halfHeight := height * 0.5

	vertices := make([]math.Vertex3D, 0, (sectors+1)*4)
	for i := uint32(0); i <= sectors; i++ {
		angle, u := ringSample(i, sectors)
		c := math.Cos(angle)
		s := math.Sin(angle)
		radial := math.NewVec3(c, 0, s)

		outerX, outerZ := outerRadius*c, outerRadius*s
		innerX, innerZ := innerRadius*c, innerRadius*s

		vertices = append(vertices,
			// Outer top
			math.Vertex3D{Position: math.NewVec3(outerX, halfHeight, outerZ), Normal: radial, Texcoord: math.NewVec2(u, 1.0)},
			// Outer bottom
			math.Vertex3D{Position: math.NewVec3(outerX, -halfHeight, outerZ), Normal: radial, Texcoord: math.NewVec2(u, 0.0)},
			// Inner top
			math.Vertex3D{Position: math.NewVec3(innerX, halfHeight, innerZ), Normal: radial.Negate(), Texcoord: math.NewVec2(u, 1.0)},
			// Inner bottom
			math.Vertex3D{Position: math.NewVec3(innerX, -halfHeight, innerZ), Normal: radial.Negate(), Texcoord: math.NewVec2(u, 0.0)},
		)
	}

	outer := make([]uint32, 0, sectors*6)
	inner := make([]uint32, 0, sectors*6)
	top := make([]uint32, 0, sectors*6)
	bottom := make([]uint32, 0, sectors*6)
	for i := uint32(0); i < sectors; i++ {
		current := i * 4
		next := ((i + 1) % sectors) * 4

		outer = append(outer,
			current, next, current+1,
			next, next+1, current+1)

		// Reverse of the outer winding, so the wall faces the hole.
		inner = append(inner,
			current+2, current+3, next+2,
			next+2, current+3, next+3)

		top = append(top,
			current, current+2, next,
			next, current+2, next+2)

		bottom = append(bottom,
			current+1, next+1, current+3,
			next+1, next+3, current+3)
	}

	config := &metadata.GeometryConfig{
		Name:     geometryName(name),
		Layout:   metadata.DefaultVertexLayout,
		Vertices: vertices,
		Surfaces: []metadata.Surface{
			{Name: SurfaceOuter, MaterialName: metadata.DefaultMaterialName, Indices: outer},
			{Name: SurfaceInner, MaterialName: metadata.DefaultMaterialName, Indices: inner},
			{Name: SurfaceTop, MaterialName: metadata.DefaultMaterialName, Indices: top},
			{Name: SurfaceBottom, MaterialName: metadata.DefaultMaterialName, Indices: bottom},
		},
	}
	config.UpdateExtents()
	return config
}

/**
 * @brief Generates configuration for a solid, capped cylinder centred on the
 * origin with its axis along Y.
 *
 * Each of the sectors+1 samples contributes a top and a bottom ring vertex;
 * the two cap centres follow the rings. Surfaces: side, top, bottom.
 *
 * @param radius The radius of the cylinder.
 * @param height The height of the cylinder.
 * @param sectors The number of angular subdivisions.
 * @param name The name of the generated geometry.
 * @return A geometry configuration.
 */
func GenerateCylinderConfig(radius, height float32, sectors uint32, name string) *metadata.GeometryConfig {
	halfHeight := height * 0.5

	vertices := make([]math.Vertex3D, 0, (sectors+1)*2+2)
	for i := uint32(0); i <= sectors; i++ {
		angle, u := ringSample(i, sectors)
		c := math.Cos(angle)
		s := math.Sin(angle)
		radial := math.NewVec3(c, 0, s)
		vertices = append(vertices,
			math.Vertex3D{Position: math.NewVec3(radius*c, halfHeight, radius*s), Normal: radial, Texcoord: math.NewVec2(u, 1.0)},
			math.Vertex3D{Position: math.NewVec3(radius*c, -halfHeight, radius*s), Normal: radial, Texcoord: math.NewVec2(u, 0.0)},
		)
	}
	topCenter := uint32(len(vertices))
	bottomCenter := topCenter + 1
	vertices = append(vertices,
		math.Vertex3D{Position: math.NewVec3(0, halfHeight, 0), Normal: math.NewVec3Up(), Texcoord: math.NewVec2(0.5, 1.0)},
		math.Vertex3D{Position: math.NewVec3(0, -halfHeight, 0), Normal: math.NewVec3Up().Negate(), Texcoord: math.NewVec2(0.5, 0.0)},
	)

	side := make([]uint32, 0, sectors*6)
	top := make([]uint32, 0, sectors*3)
	bottom := make([]uint32, 0, sectors*3)
	for i := uint32(0); i < sectors; i++ {
		current := i * 2
		next := ((i + 1) % sectors) * 2

		side = append(side,
			current, next, current+1,
			next, next+1, current+1)
		top = append(top, topCenter, next, current)
		bottom = append(bottom, bottomCenter, current+1, next+1)
	}

	config := &metadata.GeometryConfig{
		Name:     geometryName(name),
		Layout:   metadata.DefaultVertexLayout,
		Vertices: vertices,
		Surfaces: []metadata.Surface{
			{Name: SurfaceSide, MaterialName: metadata.DefaultMaterialName, Indices: side},
			{Name: SurfaceTop, MaterialName: metadata.DefaultMaterialName, Indices: top},
			{Name: SurfaceBottom, MaterialName: metadata.DefaultMaterialName, Indices: bottom},
		},
	}
	config.UpdateExtents()
	return config
}

/**
 * @brief Generates a flat cross in the XY plane facing +Z: a vertical bar of
 * thickness x height, lowered by thickness, and a horizontal bar of
 * width x thickness centred on the origin.
 *
 * @param width The overall width of the horizontal bar.
 * @param height The overall height of the vertical bar.
 * @param thickness The thickness of both bars.
 * @param name The name of the generated geometry.
 * @return A geometry configuration with a single "cross" surface.
 */
func GenerateCrossConfig(width, height, thickness float32, name string) *metadata.GeometryConfig {
	halfWidth := width * 0.5
	halfHeight := height * 0.5
	halfThickness := thickness * 0.5
	drop := thickness
	facing := math.NewVec3(0, 0, 1)

	quad := func(minX, minY, maxX, maxY float32) []math.Vertex3D {
		return []math.Vertex3D{
			{Position: math.NewVec3(minX, minY, 0), Normal: facing, Texcoord: math.NewVec2(0, 0)},
			{Position: math.NewVec3(maxX, minY, 0), Normal: facing, Texcoord: math.NewVec2(1, 0)},
			{Position: math.NewVec3(maxX, maxY, 0), Normal: facing, Texcoord: math.NewVec2(1, 1)},
			{Position: math.NewVec3(minX, maxY, 0), Normal: facing, Texcoord: math.NewVec2(0, 1)},
		}
	}

	vertices := make([]math.Vertex3D, 0, 8)
	// Vertical part
	vertices = append(vertices, quad(-halfThickness, -halfHeight-drop, halfThickness, halfHeight-drop)...)
	// Horizontal part
	vertices = append(vertices, quad(-halfWidth, -halfThickness, halfWidth, halfThickness)...)

	config := &metadata.GeometryConfig{
		Name:     geometryName(name),
		Layout:   metadata.DefaultVertexLayout,
		Vertices: vertices,
		Surfaces: []metadata.Surface{
			{
				Name:         SurfaceCross,
				MaterialName: metadata.DefaultMaterialName,
				Indices: []uint32{
					0, 1, 2, 2, 3, 0, // Vertical part
					4, 5, 6, 6, 7, 4, // Horizontal part
				},
			},
		},
	}
	config.UpdateExtents()
	return config
}

/**
 * @brief Generates a spike: a triangular prism whose base of the given width
 * lies on y = 0 and whose apex is at y = height, extruded by thickness along
 * Z around z = 0. The broad faces look along +Z and -Z.
 *
 * Every face owns its vertices so the flat normals stay sharp: 2 triangles and
 * 3 quads, 18 vertices, 24 indices.
 *
 * @param width The width of the base.
 * @param height The height of the apex above the base.
 * @param thickness The depth of the prism.
 * @param name The name of the generated geometry.
 * @return A geometry configuration with a single "spike" surface.
 */
func GenerateSpikeConfig(width, height, thickness float32, name string) *metadata.GeometryConfig {
	halfWidth := width * 0.5
	halfThickness := thickness * 0.5

	// Front (+Z) and back (-Z) corners.
	a := math.NewVec3(-halfWidth, 0, halfThickness)
	b := math.NewVec3(halfWidth, 0, halfThickness)
	c := math.NewVec3(0, height, halfThickness)
	ab := math.NewVec3(-halfWidth, 0, -halfThickness)
	bb := math.NewVec3(halfWidth, 0, -halfThickness)
	cb := math.NewVec3(0, height, -halfThickness)

	vertices := make([]math.Vertex3D, 0, 18)
	indices := make([]uint32, 0, 24)

	triangle := func(p0, p1, p2 math.Vec3) {
		base := uint32(len(vertices))
		vertices = append(vertices,
			math.Vertex3D{Position: p0, Texcoord: math.NewVec2(0, 0)},
			math.Vertex3D{Position: p1, Texcoord: math.NewVec2(1, 0)},
			math.Vertex3D{Position: p2, Texcoord: math.NewVec2(0.5, 1)},
		)
		indices = append(indices, base, base+1, base+2)
	}
	quad := func(p0, p1, p2, p3 math.Vec3) {
		base := uint32(len(vertices))
		vertices = append(vertices,
			math.Vertex3D{Position: p0, Texcoord: math.NewVec2(0, 0)},
			math.Vertex3D{Position: p1, Texcoord: math.NewVec2(1, 0)},
			math.Vertex3D{Position: p2, Texcoord: math.NewVec2(1, 1)},
			math.Vertex3D{Position: p3, Texcoord: math.NewVec2(0, 1)},
		)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	triangle(a, b, c)    // Front
	triangle(bb, ab, cb) // Back
	quad(a, ab, bb, b)   // Base
	quad(b, bb, cb, c)   // Right slope
	quad(c, cb, ab, a)   // Left slope

	math.GeometryGenerateNormals(vertices, indices)

	config := &metadata.GeometryConfig{
		Name:     geometryName(name),
		Layout:   metadata.DefaultVertexLayout,
		Vertices: vertices,
		Surfaces: []metadata.Surface{
			{Name: SurfaceSpike, MaterialName: metadata.DefaultMaterialName, Indices: indices},
		},
	}
	config.UpdateExtents()
	return config
}
