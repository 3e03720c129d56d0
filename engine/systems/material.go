package systems

import (
	"fmt"

	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/math"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

type MaterialSystemConfig struct {
	/** @brief The maximum number of materials that can be registered at once. */
	MaxMaterialCount uint32
}

type MaterialSystem struct {
	config          *MaterialSystemConfig
	defaultMaterial *metadata.Material
	// Array of registered materials, indexed by MaterialReference.Handle.
	registeredMaterials []*metadata.Material
	// Name -> reference lookup.
	registeredMaterialTable map[string]*metadata.MaterialReference
}

func NewMaterialSystem(config *MaterialSystemConfig) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("func NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogError("%s", err)
		return nil, err
	}

	ms := &MaterialSystem{
		config:                  config,
		registeredMaterials:     make([]*metadata.Material, config.MaxMaterialCount),
		registeredMaterialTable: make(map[string]*metadata.MaterialReference, config.MaxMaterialCount),
	}
	// Invalidate all materials in the array.
	for i := range ms.registeredMaterials {
		ms.registeredMaterials[i] = &metadata.Material{ID: core.InvalidID, Generation: core.InvalidID}
	}

	ms.defaultMaterial = &metadata.Material{
		ID:             core.InvalidID,
		Name:           metadata.DefaultMaterialName,
		DiffuseColour:  math.NewVec3One(),
		DiffuseMapName: "",
	}
	return ms, nil
}

func (ms *MaterialSystem) Shutdown() error {
	for name, ref := range ms.registeredMaterialTable {
		ms.destroyMaterial(ms.registeredMaterials[ref.Handle])
		delete(ms.registeredMaterialTable, name)
	}
	return nil
}

/**
 * @brief Registers a material from the given config, or updates the existing
 * material of the same name, which bumps its generation.
 *
 * @param config The material configuration.
 * @return The registered material.
 */
func (ms *MaterialSystem) Register(config metadata.MaterialConfig) (*metadata.Material, error) {
	if config.Name == "" || config.Name == metadata.DefaultMaterialName {
		err := fmt.Errorf("cannot register material with name '%s'", config.Name)
		core.LogError("%s", err)
		return nil, err
	}

	if ref, ok := ms.registeredMaterialTable[config.Name]; ok {
		m := ms.registeredMaterials[ref.Handle]
		m.DiffuseColour = config.DiffuseColour
		m.DiffuseMapName = config.DiffuseMapName
		m.Generation++
		ref.AutoRelease = config.AutoRelease
		return m, nil
	}

	for i := uint32(0); i < ms.config.MaxMaterialCount; i++ {
		m := ms.registeredMaterials[i]
		if m.ID != core.InvalidID {
			continue
		}
		m.ID = i
		m.Generation = 0
		m.Name = config.Name
		m.DiffuseColour = config.DiffuseColour
		m.DiffuseMapName = config.DiffuseMapName
		m.RenderFrameNumber = 0
		ms.registeredMaterialTable[config.Name] = &metadata.MaterialReference{
			ReferenceCount: 0,
			Handle:         i,
			AutoRelease:    config.AutoRelease,
		}
		core.LogDebug("Material '%s' registered with diffuse map '%s'.", m.Name, m.DiffuseMapName)
		return m, nil
	}

	err := fmt.Errorf("material system cannot hold anymore materials. Adjust configuration to allow more")
	core.LogError("%s", err)
	return nil, err
}

/**
 * @brief Acquires a material by name. Unknown names fall back to the
 * default material, with a warning.
 */
func (ms *MaterialSystem) Acquire(name string) *metadata.Material {
	if name == "" || name == metadata.DefaultMaterialName {
		return ms.defaultMaterial
	}
	ref, ok := ms.registeredMaterialTable[name]
	if !ok {
		core.LogWarn("material '%s' is not registered, using the default material.", name)
		return ms.defaultMaterial
	}
	ref.ReferenceCount++
	return ms.registeredMaterials[ref.Handle]
}

/**
 * @brief Releases a material by name. Materials registered with AutoRelease
 * are destroyed once no references remain.
 */
func (ms *MaterialSystem) Release(name string) {
	if name == "" || name == metadata.DefaultMaterialName {
		return
	}
	ref, ok := ms.registeredMaterialTable[name]
	if !ok {
		core.LogWarn("material_system_release called for unknown material '%s'.", name)
		return
	}
	if ref.ReferenceCount > 0 {
		ref.ReferenceCount--
	}
	if ref.ReferenceCount == 0 && ref.AutoRelease {
		ms.destroyMaterial(ms.registeredMaterials[ref.Handle])
		delete(ms.registeredMaterialTable, name)
		core.LogDebug("Released material '%s', because reference count=0 and auto_release=true.", name)
	}
}

// Get returns a material by name without taking a reference. Unknown names
// yield the default material.
func (ms *MaterialSystem) Get(name string) *metadata.Material {
	if ref, ok := ms.registeredMaterialTable[name]; ok {
		return ms.registeredMaterials[ref.Handle]
	}
	return ms.defaultMaterial
}

// ReferenceCount returns the number of outstanding references of a material.
func (ms *MaterialSystem) ReferenceCount(name string) uint64 {
	if ref, ok := ms.registeredMaterialTable[name]; ok {
		return ref.ReferenceCount
	}
	return 0
}

func (ms *MaterialSystem) GetDefault() *metadata.Material {
	return ms.defaultMaterial
}

func (ms *MaterialSystem) destroyMaterial(m *metadata.Material) {
	m.ID = core.InvalidID
	m.Generation = core.InvalidID
	m.Name = ""
	m.DiffuseMapName = ""
	m.RenderFrameNumber = 0
}
