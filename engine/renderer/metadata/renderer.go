package metadata

import (
	"github.com/spaghettifunk/crown/engine/math"
)

type RendererBackendConfig struct {
	/** @brief The name of the application */
	ApplicationName string
}

/**
 * @brief Everything a backend needs to issue one draw of one surface.
 */
type GeometryRenderData struct {
	Model    math.Mat4
	Geometry *Geometry
	/** @brief Index of the surface inside Geometry.Surfaces. */
	SurfaceIndex uint32
	/** @brief The material bound for this draw; nil means the default. */
	Material *Material
}

/**
 * @brief The meshes to draw in one frame.
 */
type RenderPacket struct {
	DeltaTime   float64
	FrameNumber uint64
	Meshes      []*Mesh
}
