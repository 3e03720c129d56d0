package systems

import (
	"fmt"

	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/renderer"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

type GeometrySystemConfig struct {
	/**
	 * @brief Max number of geometries that can be loaded at once.
	 * NOTE: Should be significantly greater than the number of static meshes because
	 * the there can and will be more than one of these per mesh.
	 * Take other systems into account as well.
	 */
	MaxGeometryCount uint32
}

type GeometrySystem struct {
	config         *GeometrySystemConfig
	renderer       *renderer.Renderer
	materialSystem *MaterialSystem
	// Array of registered geometries.
	registeredGeometries []*metadata.GeometryReference
}

/**
 * @brief Initializes the geometry system.
 *
 * @param config The configuration for this system.
 * @param ms The material system used to bind surface materials.
 * @param r The renderer geometries are uploaded to.
 * @return The geometry system, or an error when the config is unusable.
 */
func NewGeometrySystem(config *GeometrySystemConfig, ms *MaterialSystem, r *renderer.Renderer) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		err := fmt.Errorf("func NewGeometrySystem - config.MaxGeometryCount must be > 0")
		core.LogError("%s", err)
		return nil, err
	}

	gs := &GeometrySystem{
		config:               config,
		renderer:             r,
		materialSystem:       ms,
		registeredGeometries: make([]*metadata.GeometryReference, config.MaxGeometryCount),
	}

	// Invalidate all geometries in the array.
	for i := range gs.registeredGeometries {
		gs.registeredGeometries[i] = &metadata.GeometryReference{
			Geometry: &metadata.Geometry{
				ID:         core.InvalidID,
				InternalID: core.InvalidID,
				Generation: core.InvalidIDUint16,
			},
		}
	}
	return gs, nil
}

/**
 * @brief Shuts down the geometry system, destroying every geometry still held.
 */
func (gs *GeometrySystem) Shutdown() error {
	for _, ref := range gs.registeredGeometries {
		if ref.Geometry.ID != core.InvalidID {
			gs.destroyGeometry(ref.Geometry)
			ref.ReferenceCount = 0
			ref.AutoRelease = false
		}
	}
	return nil
}

/**
 * @brief Acquires an existing geometry by id.
 *
 * @param id The geometry identifier to acquire by.
 * @return A pointer to the acquired geometry or an error if failed.
 */
func (gs *GeometrySystem) AcquireByID(id uint32) (*metadata.Geometry, error) {
	if id < gs.config.MaxGeometryCount && gs.registeredGeometries[id].Geometry.ID != core.InvalidID {
		gs.registeredGeometries[id].ReferenceCount++
		return gs.registeredGeometries[id].Geometry, nil
	}

	err := fmt.Errorf("func AcquireByID cannot load invalid geometry id %d: %w", id, core.ErrInvalidGeometryID)
	core.LogError("%s", err)
	return nil, err
}

/**
 * @brief Registers and acquires a new geometry using the given config.
 *
 * @param config The geometry configuration.
 * @param autoRelease Indicates if the acquired geometry should be unloaded when its reference count reaches 0.
 * @return A pointer to the acquired geometry or an error if failed.
 */
func (gs *GeometrySystem) AcquireFromConfig(config *metadata.GeometryConfig, autoRelease bool) (*metadata.Geometry, error) {
	var ref *metadata.GeometryReference
	for i := uint32(0); i < gs.config.MaxGeometryCount; i++ {
		if gs.registeredGeometries[i].Geometry.ID == core.InvalidID {
			// Found empty slot.
			ref = gs.registeredGeometries[i]
			ref.AutoRelease = autoRelease
			ref.ReferenceCount = 1
			ref.Geometry.ID = i
			break
		}
	}

	if ref == nil {
		err := fmt.Errorf("unable to obtain free slot for geometry '%s'. Adjust configuration to allow more space: %w", config.Name, core.ErrGeometryCapacity)
		core.LogError("%s", err)
		return nil, err
	}

	if err := gs.createGeometry(config, ref); err != nil {
		return nil, err
	}
	return ref.Geometry, nil
}

/**
 * @brief Releases a reference to the provided geometry.
 *
 * @param geometry The geometry to be released.
 */
func (gs *GeometrySystem) Release(geometry *metadata.Geometry) {
	if geometry != nil && geometry.ID != core.InvalidID && geometry.ID < gs.config.MaxGeometryCount {
		ref := gs.registeredGeometries[geometry.ID]

		// Take a copy of the id;
		id := geometry.ID
		if ref.Geometry.ID == id {
			if ref.ReferenceCount > 0 {
				ref.ReferenceCount--
			}

			// Also blanks out the geometry id.
			if ref.ReferenceCount < 1 && ref.AutoRelease {
				gs.destroyGeometry(ref.Geometry)
				ref.ReferenceCount = 0
				ref.AutoRelease = false
			}
		} else {
			core.LogError("Geometry id mismatch. Check registration logic, as this should never occur.")
		}
		return
	}

	core.LogWarn("geometry_system_release cannot release invalid geometry id. Nothing was done.")
}

// ReferenceCount returns the number of outstanding references to the geometry with the given id.
func (gs *GeometrySystem) ReferenceCount(id uint32) uint64 {
	if id >= gs.config.MaxGeometryCount {
		return 0
	}
	return gs.registeredGeometries[id].ReferenceCount
}

func (gs *GeometrySystem) createGeometry(config *metadata.GeometryConfig, ref *metadata.GeometryReference) error {
	geometry := ref.Geometry
	geometry.InternalID = core.InvalidID

	// Send the geometry off to the renderer to be uploaded.
	if err := gs.renderer.CreateGeometry(geometry, config); err != nil {
		// Invalidate the entry.
		ref.ReferenceCount = 0
		ref.AutoRelease = false
		geometry.ID = core.InvalidID
		geometry.Generation = core.InvalidIDUint16
		geometry.InternalID = core.InvalidID
		geometry.Surfaces = nil
		return err
	}

	// Acquire the material of every surface.
	for i := range geometry.Surfaces {
		geometry.Surfaces[i].Material = gs.materialSystem.Acquire(geometry.Surfaces[i].MaterialName)
	}
	return nil
}

func (gs *GeometrySystem) destroyGeometry(geometry *metadata.Geometry) {
	gs.renderer.DestroyGeometry(geometry)
	geometry.InternalID = core.InvalidID
	geometry.Generation = core.InvalidIDUint16
	geometry.ID = core.InvalidID

	geometry.Name = ""

	// Release the materials.
	for i := range geometry.Surfaces {
		if m := geometry.Surfaces[i].Material; m != nil && len(m.Name) > 0 {
			gs.materialSystem.Release(m.Name)
		}
	}
	geometry.Surfaces = nil
}
