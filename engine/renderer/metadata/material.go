package metadata

import "github.com/spaghettifunk/crown/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/** @brief Names of the materials bound to the crown parts. */
const (
	MaterialCrownOuter = "crown.outer"
	MaterialCrownInner = "crown.inner"
	MaterialCrownCap   = "crown.cap"
	MaterialCrownCross = "crown.cross"
	MaterialCrownSpike = "crown.spike"
)

type MaterialReference struct {
	ReferenceCount uint64
	Handle         uint32
	AutoRelease    bool
}

/**
 * @brief Material configuration typically loaded from
 * a file or created in code to load a material from.
 */
type MaterialConfig struct {
	/** @brief The name of the material. */
	Name string
	/** @brief Indicates if the material should be automatically released when no references to it remain. */
	AutoRelease bool
	/** @brief The diffuse colour of the material. */
	DiffuseColour math.Vec3
	/** @brief The diffuse map name; the file name of the texture bound before drawing. */
	DiffuseMapName string
}

/**
 * @brief A material, which represents the properties of a surface
 * the renderer binds before drawing it.
 */
type Material struct {
	/** @brief The material id. */
	ID uint32
	/** @brief The material generation. Incremented every time the material is changed. */
	Generation uint32
	/** @brief The material name. */
	Name string
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec3
	/** @brief The diffuse texture name. */
	DiffuseMapName string
	/** @brief Synced to the renderer's current frame number when the material has been applied that frame. */
	RenderFrameNumber uint64
}
