package metadata

import (
	"github.com/spaghettifunk/crown/engine/math"
)

/** @brief The name of the default geometry. */
const DefaultGeometryName string = "default"

/**
 * @brief One independently drawable index sequence of a geometry. Keeping
 * surfaces apart lets the caller bind a different texture before each draw.
 */
type Surface struct {
	/** @brief The surface name, e.g. "outer" or "top". */
	Name string
	/** @brief The name of the material bound when this surface is drawn. */
	MaterialName string
	/** @brief Triangle list indices into the vertices of the owning geometry. */
	Indices []uint32
}

/**
 * @brief Represents the configuration for a geometry.
 * Produced once by a generator and treated as immutable afterwards.
 */
type GeometryConfig struct {
	/** @brief The Name of the geometry. */
	Name string
	/** @brief The vertex layout used when the vertices are packed for upload. */
	Layout VertexLayout
	/** @brief An array of Vertices, in generation order. */
	Vertices []math.Vertex3D
	/** @brief The surfaces of the geometry, in draw order. */
	Surfaces []Surface

	Center  math.Vec3
	Extents math.Extents3D
}

// VertexCount returns the number of vertices of the geometry.
func (c *GeometryConfig) VertexCount() uint32 {
	return uint32(len(c.Vertices))
}

// IndexCount returns the number of indices over every surface.
func (c *GeometryConfig) IndexCount() uint32 {
	count := 0
	for _, s := range c.Surfaces {
		count += len(s.Indices)
	}
	return uint32(count)
}

// Surface returns the surface with the given name, or nil.
func (c *GeometryConfig) Surface(name string) *Surface {
	for i := range c.Surfaces {
		if c.Surfaces[i].Name == name {
			return &c.Surfaces[i]
		}
	}
	return nil
}

// CombinedIndices concatenates every surface into one triangle list, for
// callers that draw the whole geometry with a single call.
func (c *GeometryConfig) CombinedIndices() []uint32 {
	out := make([]uint32, 0, c.IndexCount())
	for _, s := range c.Surfaces {
		out = append(out, s.Indices...)
	}
	return out
}

// SurfaceIndices returns the index slices of every surface in draw order.
func (c *GeometryConfig) SurfaceIndices() [][]uint32 {
	out := make([][]uint32, len(c.Surfaces))
	for i, s := range c.Surfaces {
		out[i] = s.Indices
	}
	return out
}

// Pack interleaves the vertices according to the configured layout.
func (c *GeometryConfig) Pack() []float32 {
	return c.Layout.Pack(c.Vertices)
}

// UpdateExtents recomputes Center and Extents from the vertices.
func (c *GeometryConfig) UpdateExtents() {
	c.Extents, c.Center = math.GeometryComputeExtents(c.Vertices)
}

type GeometryReference struct {
	ReferenceCount uint64
	Geometry       *Geometry
	AutoRelease    bool
}

/**
 * @brief Represents geometry uploaded to a renderer backend.
 */
type Geometry struct {
	/** @brief The geometry identifier. */
	ID uint32
	/** @brief The internal geometry identifier, used by the renderer backend to map to internal resources. */
	InternalID uint32
	/** @brief The geometry generation. Incremented every time the geometry changes. */
	Generation uint16
	/** @brief The center of the geometry in local coordinates. */
	Center math.Vec3
	/** @brief The extents of the geometry in local coordinates. */
	Extents math.Extents3D
	/** @brief The geometry name. */
	Name string
	/** @brief The layout the vertices were uploaded with. */
	Layout VertexLayout
	/** @brief The surfaces of the geometry as uploaded; index data lives in the backend. */
	Surfaces []SurfaceInfo
}

/**
 * @brief What the front end keeps about an uploaded surface.
 */
type SurfaceInfo struct {
	Name         string
	MaterialName string
	IndexCount   uint32
	/** @brief The material bound when drawing the surface. */
	Material *Material
}
