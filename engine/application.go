package engine

import (
	"github.com/spaghettifunk/crown/engine/assets/exporters"
	"github.com/spaghettifunk/crown/engine/core"
)

type ApplicationConfig struct {
	// Application name used in logs and handed to the renderer backend
	Name     string
	LogLevel core.LogLevel

	// Path of the crown description. Empty builds the default crown
	ConfigPath string

	// Directory the exporters write into. Empty skips exporting
	OutputDir   string
	Formats     []exporters.Format
	UVImageSize int

	// Rebuild every time the file at ConfigPath changes
	Watch bool

	// Number of headless frames drawn after each build
	Frames uint32

	MaxMaterialCount uint32
	MaxGeometryCount uint32
}
