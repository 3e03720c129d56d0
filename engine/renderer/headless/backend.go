package headless

import (
	"fmt"

	"github.com/spaghettifunk/crown/engine/containers"
	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

/**
 * @brief Max number of simultaneously uploaded geometries
 */
const MaxGeometryCount uint32 = 4096

/** @brief Number of finished frames kept for inspection. */
const FrameHistorySize int = 16

/**
 * @brief Buffer data of an uploaded geometry, copied from the caller.
 */
type GeometryData struct {
	/** @brief The unique geometry identifier. */
	ID uint32
	/** @brief The geometry generation. Incremented every time the geometry data changes. */
	Generation uint32
	/** @brief The number of floats per vertex. */
	Stride uint32
	/** @brief The vertex count. */
	VertexCount uint32
	/** @brief The interleaved vertex data. */
	Vertices []float32
	/** @brief One index list per surface. */
	Surfaces [][]uint32
}

/**
 * @brief One recorded draw of one surface.
 */
type DrawCall struct {
	GeometryName string
	SurfaceName  string
	MaterialName string
	DiffuseMap   string
	IndexCount   uint32
}

/**
 * @brief The draws issued between BeginFrame and EndFrame.
 */
type Frame struct {
	Number    uint64
	DeltaTime float64
	Draws     []DrawCall
}

/**
 * @brief A renderer backend that keeps uploads in memory and records draw
 * calls instead of submitting them to a device.
 */
type Backend struct {
	FrameNumber uint64

	appName    string
	geometries []*GeometryData
	current    *Frame
	history    *containers.RingQueue[*Frame]
	ready      bool
}

func New() *Backend {
	return &Backend{
		FrameNumber: 0,
		history:     containers.NewRingQueue[*Frame](FrameHistorySize),
	}
}

func (b *Backend) Initialize(appName string) error {
	b.appName = appName
	b.geometries = make([]*GeometryData, MaxGeometryCount)
	for i := range b.geometries {
		b.geometries[i] = &GeometryData{ID: core.InvalidID}
	}
	b.ready = true
	core.LogInfo("Headless renderer initialized successfully.")
	return nil
}

func (b *Backend) Shutdown() error {
	b.geometries = nil
	b.current = nil
	b.ready = false
	core.LogDebug("Headless renderer shut down after %d frames.", b.FrameNumber)
	return nil
}

func (b *Backend) BeginFrame(deltaTime float64) error {
	if !b.ready {
		return core.ErrBackendNotReady
	}
	if b.current != nil {
		err := fmt.Errorf("headless BeginFrame called twice without EndFrame")
		core.LogError("%s", err)
		return err
	}
	b.FrameNumber++
	b.current = &Frame{Number: b.FrameNumber, DeltaTime: deltaTime}
	return nil
}

func (b *Backend) EndFrame(deltaTime float64) error {
	if b.current == nil {
		err := fmt.Errorf("headless EndFrame called without BeginFrame")
		core.LogError("%s", err)
		return err
	}
	b.history.Push(b.current)
	b.current = nil
	return nil
}

func (b *Backend) CreateGeometry(geometry *metadata.Geometry, vertices []float32, stride uint32, surfaces [][]uint32) error {
	if !b.ready {
		return core.ErrBackendNotReady
	}
	if stride == 0 || len(vertices)%int(stride) != 0 {
		err := fmt.Errorf("vertex data of %d floats is not a multiple of stride %d", len(vertices), stride)
		core.LogError("%s", err)
		return err
	}
	vertexCount := uint32(len(vertices)) / stride
	for s, indices := range surfaces {
		for _, index := range indices {
			if index >= vertexCount {
				err := fmt.Errorf("surface %d references vertex %d of %d", s, index, vertexCount)
				core.LogError("%s", err)
				return err
			}
		}
	}

	// Check if this is a re-upload. If it is, reuse the slot.
	var internal *GeometryData
	isReupload := geometry.InternalID < MaxGeometryCount && b.geometries[geometry.InternalID].ID == geometry.InternalID
	if isReupload {
		internal = b.geometries[geometry.InternalID]
	} else {
		for i := uint32(0); i < MaxGeometryCount; i++ {
			if b.geometries[i].ID == core.InvalidID {
				geometry.InternalID = i
				b.geometries[i].ID = i
				internal = b.geometries[i]
				break
			}
		}
	}
	if internal == nil {
		err := fmt.Errorf("headless CreateGeometry failed to find a free index for a new geometry upload: %w", core.ErrGeometryCapacity)
		core.LogError("%s", err)
		return err
	}

	internal.Stride = stride
	internal.VertexCount = vertexCount
	internal.Vertices = append([]float32(nil), vertices...)
	internal.Surfaces = make([][]uint32, len(surfaces))
	for i, indices := range surfaces {
		internal.Surfaces[i] = append([]uint32(nil), indices...)
	}

	if isReupload {
		internal.Generation++
	} else {
		internal.Generation = 0
	}
	geometry.Generation = uint16(internal.Generation)
	return nil
}

func (b *Backend) DestroyGeometry(geometry *metadata.Geometry) {
	if geometry == nil || geometry.InternalID == core.InvalidID || geometry.InternalID >= MaxGeometryCount || b.geometries == nil {
		return
	}
	internal := b.geometries[geometry.InternalID]
	internal.ID = core.InvalidID
	internal.Generation = 0
	internal.Stride = 0
	internal.VertexCount = 0
	internal.Vertices = nil
	internal.Surfaces = nil
	geometry.InternalID = core.InvalidID
}

func (b *Backend) DrawSurface(data *metadata.GeometryRenderData) error {
	if b.current == nil {
		return fmt.Errorf("headless DrawSurface called outside a frame")
	}
	geometry := data.Geometry
	if geometry == nil || geometry.InternalID == core.InvalidID || geometry.InternalID >= MaxGeometryCount {
		return fmt.Errorf("cannot draw geometry: %w", core.ErrInvalidGeometryID)
	}
	internal := b.geometries[geometry.InternalID]
	if internal.ID == core.InvalidID || int(data.SurfaceIndex) >= len(internal.Surfaces) {
		return fmt.Errorf("cannot draw surface %d of '%s': %w", data.SurfaceIndex, geometry.Name, core.ErrInvalidGeometryID)
	}

	call := DrawCall{
		GeometryName: geometry.Name,
		IndexCount:   uint32(len(internal.Surfaces[data.SurfaceIndex])),
		MaterialName: metadata.DefaultMaterialName,
	}
	if int(data.SurfaceIndex) < len(geometry.Surfaces) {
		call.SurfaceName = geometry.Surfaces[data.SurfaceIndex].Name
	}
	if data.Material != nil {
		call.MaterialName = data.Material.Name
		call.DiffuseMap = data.Material.DiffuseMapName
	}
	b.current.Draws = append(b.current.Draws, call)
	return nil
}

// Geometry returns the uploaded data behind the given internal id, or nil.
func (b *Backend) Geometry(internalID uint32) *GeometryData {
	if internalID >= MaxGeometryCount || b.geometries == nil || b.geometries[internalID].ID == core.InvalidID {
		return nil
	}
	return b.geometries[internalID]
}

// Frames returns the most recently finished frames, oldest first.
func (b *Backend) Frames() []*Frame {
	return b.history.Items()
}

// LastFrame returns the most recently finished frame, or nil.
func (b *Backend) LastFrame() *Frame {
	frames := b.history.Items()
	if len(frames) == 0 {
		return nil
	}
	return frames[len(frames)-1]
}
