package core

import (
	"errors"
)

var (
	ErrInvalidCrownConfig = errors.New("invalid crown configuration")
	ErrGeometryCapacity   = errors.New("no free geometry slot")
	ErrInvalidGeometryID  = errors.New("invalid geometry id")
	ErrUnknownFormat      = errors.New("unknown export format")
	ErrInvalidResource    = errors.New("invalid resource")
	ErrBackendNotReady    = errors.New("renderer backend not initialized")
)
