package metadata

import "github.com/spaghettifunk/crown/engine/math"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Text resource type. */
	ResourceTypeText ResourceType = iota
	/** @brief Binary resource type. */
	ResourceTypeBinary
	/** @brief Image resource type. */
	ResourceTypeImage
	/** @brief Material resource type. */
	ResourceTypeMaterial
	/** @brief Mesh resource type (collection of geometry configs). */
	ResourceTypeMesh
	/** @brief Crown description resource type. */
	ResourceTypeCrown
	/** @brief No known type. */
	ResourceTypeNone
)

/** @brief A magic number indicating the file as a crown binary file. */
const ResourceMagic uint32 = 0xdaaaadd1

/** @brief The current version of the binary mesh format. */
const ResourceVersion uint8 = 1

/**
 * @brief The header data for binary resource types.
 */
type ResourceHeader struct {
	/** @brief A magic number indicating the file as a crown binary file. */
	MagicNumber uint32
	/** @brief The resource type. Maps to the enum resource_type. */
	ResourceType uint8
	/** @brief The format version this resource uses. */
	Version uint8
	/** @brief Reserved for future header data.. */
	Reserved uint16
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The resource type. */
	Type ResourceType
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

/**
 * @brief The fixed-size part of a node record in a binary mesh resource.
 * The node name precedes it on disk.
 */
type BinaryNodeRecord struct {
	/** @brief Index of the node's geometry in the geometry table. */
	GeometryIndex uint32
	Position      math.Vec3
	Rotation      math.Vec3
	Scale         math.Vec3
}
