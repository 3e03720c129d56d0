package renderer

import (
	"fmt"
	"time"

	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

type Renderer struct {
	backend     RendererBackend
	config      metadata.RendererBackendConfig
	frameNumber uint64
	initialized bool
}

// New creates a renderer front end that owns the given backend.
func New(backend RendererBackend, config metadata.RendererBackendConfig) (*Renderer, error) {
	if backend == nil {
		return nil, fmt.Errorf("renderer.New - backend must not be nil: %w", core.ErrBackendNotReady)
	}
	return &Renderer{
		backend: backend,
		config:  config,
	}, nil
}

func (r *Renderer) Initialize() error {
	if err := r.backend.Initialize(r.config.ApplicationName); err != nil {
		core.LogError("renderer backend failed to initialize: %s", err)
		return err
	}
	r.initialized = true
	core.LogInfo("Renderer initialized for '%s'.", r.config.ApplicationName)
	return nil
}

func (r *Renderer) Shutdown() error {
	if !r.initialized {
		return nil
	}
	r.initialized = false
	return r.backend.Shutdown()
}

// Backend returns the backend owned by this renderer.
func (r *Renderer) Backend() RendererBackend {
	return r.backend
}

// FrameNumber returns the number of frames drawn so far.
func (r *Renderer) FrameNumber() uint64 {
	return r.frameNumber
}

/**
 * @brief Uploads the given config for the geometry. Surfaces are uploaded in
 * order and recorded on the geometry so they can be drawn one at a time.
 */
func (r *Renderer) CreateGeometry(geometry *metadata.Geometry, config *metadata.GeometryConfig) error {
	if !r.initialized {
		return fmt.Errorf("cannot create geometry '%s': %w", config.Name, core.ErrBackendNotReady)
	}

	geometry.Name = config.Name
	geometry.Layout = config.Layout
	geometry.Center = config.Center
	geometry.Extents = config.Extents
	geometry.Surfaces = make([]metadata.SurfaceInfo, len(config.Surfaces))
	for i, s := range config.Surfaces {
		geometry.Surfaces[i] = metadata.SurfaceInfo{
			Name:         s.Name,
			MaterialName: s.MaterialName,
			IndexCount:   uint32(len(s.Indices)),
		}
	}

	if err := r.backend.CreateGeometry(geometry, config.Pack(), config.Layout.Stride(), config.SurfaceIndices()); err != nil {
		core.LogError("failed to upload geometry '%s': %s", config.Name, err)
		return err
	}
	return nil
}

func (r *Renderer) DestroyGeometry(geometry *metadata.Geometry) {
	if !r.initialized {
		return
	}
	r.backend.DestroyGeometry(geometry)
}

/**
 * @brief Draws every uploaded node of every mesh in the packet, one draw per
 * surface, binding the surface's material first.
 */
func (r *Renderer) DrawFrame(packet *metadata.RenderPacket) error {
	if !r.initialized {
		return core.ErrBackendNotReady
	}

	r.frameNumber++
	packet.FrameNumber = r.frameNumber

	if err := r.backend.BeginFrame(packet.DeltaTime); err != nil {
		core.LogError("%s", err)
		return err
	}

	drawCalls := uint64(0)
	for _, mesh := range packet.Meshes {
		for _, node := range mesh.Nodes {
			if node.Geometry == nil {
				core.LogWarn("mesh '%s' node '%s' has not been uploaded, skipping.", mesh.Name, node.Name)
				continue
			}
			model := node.Transform.GetWorld()
			for i := range node.Geometry.Surfaces {
				surface := &node.Geometry.Surfaces[i]
				if surface.IndexCount == 0 {
					continue
				}
				if surface.Material != nil {
					surface.Material.RenderFrameNumber = r.frameNumber
				}
				data := &metadata.GeometryRenderData{
					Model:        model,
					Geometry:     node.Geometry,
					SurfaceIndex: uint32(i),
					Material:     surface.Material,
				}
				if err := r.backend.DrawSurface(data); err != nil {
					core.LogError("draw of '%s/%s' failed: %s", node.Name, surface.Name, err)
					return err
				}
				drawCalls++
			}
		}
	}

	if err := r.backend.EndFrame(packet.DeltaTime); err != nil {
		core.LogError("RendererEndFrame failed. Application shutting down...")
		return err
	}

	core.MetricsFrame(drawCalls)
	return nil
}

// FrameDelta converts an elapsed duration to the delta time carried by a packet.
func FrameDelta(elapsed time.Duration) float64 {
	return elapsed.Seconds()
}
