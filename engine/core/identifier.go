package core

import (
	"github.com/google/uuid"
)

/** @brief Marks an unassigned 32-bit identifier. */
const InvalidID uint32 = 4294967295

/** @brief Marks an unassigned 16-bit identifier or generation. */
const InvalidIDUint16 uint16 = 65535

/**
 * @brief Generates a deterministic identifier for a named resource, so the
 * same crown part gets the same id across rebuilds and exports.
 *
 * @param name The resource name.
 * @return A version 5 UUID derived from the name.
 */
func IdentifierFromName(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("crown:"+name))
}
