package renderer

import "github.com/spaghettifunk/crown/engine/renderer/metadata"

/**
 * @brief The surface a Renderer draws through. Implementations own every
 * resource that lives behind a geometry's InternalID.
 */
type RendererBackend interface {
	Initialize(appName string) error
	Shutdown() error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error
	/**
	 * @brief Uploads interleaved vertex data and one index list per surface.
	 * On success the backend sets geometry.InternalID.
	 */
	CreateGeometry(geometry *metadata.Geometry, vertices []float32, stride uint32, surfaces [][]uint32) error
	DestroyGeometry(geometry *metadata.Geometry)
	/** @brief Draws a single surface of an uploaded geometry with its material bound. */
	DrawSurface(data *metadata.GeometryRenderData) error
}
