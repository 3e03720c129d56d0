package exporters

import (
	"fmt"
	"os"
	"strings"

	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

type Format string

const (
	FormatOBJ    Format = "obj"
	FormatGLB    Format = "glb"
	FormatBinary Format = "bin"
	FormatUV     Format = "uv"
)

/** @brief Resolves a material name to the material bound when drawing. */
type MaterialLookup func(name string) *metadata.Material

type Options struct {
	/** @brief Used to name textures in the exported files. Nil exports material names only. */
	Materials MaterialLookup
	/** @brief Edge length in pixels of UV layout images. */
	UVImageSize int
}

/**
 * @brief Writes a mesh into a directory, returning the paths it created.
 */
type Exporter interface {
	Format() Format
	Export(dir string, mesh *metadata.Mesh, opts Options) ([]string, error)
}

var exporters = map[Format]Exporter{
	FormatOBJ:    &OBJExporter{},
	FormatGLB:    &GLBExporter{},
	FormatBinary: &BinaryExporter{},
	FormatUV:     &UVExporter{},
}

// Get returns the exporter of the given format.
func Get(format Format) (Exporter, error) {
	e, ok := exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", core.ErrUnknownFormat, format)
	}
	return e, nil
}

// ParseFormats parses a comma separated list like "obj,glb".
func ParseFormats(list string) ([]Format, error) {
	formats := []Format{}
	seen := map[Format]bool{}
	for _, part := range strings.Split(list, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" || seen[f] {
			continue
		}
		if _, err := Get(f); err != nil {
			return nil, err
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

/**
 * @brief Exports the mesh in every given format into dir, creating dir when
 * missing. Stops at the first failing exporter.
 */
func ExportToDir(dir string, mesh *metadata.Mesh, formats []Format, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		core.LogError("cannot create output directory '%s': %s", dir, err)
		return nil, err
	}

	written := []string{}
	for _, f := range formats {
		e, err := Get(f)
		if err != nil {
			core.LogError("%s", err)
			return written, err
		}
		paths, err := e.Export(dir, mesh, opts)
		written = append(written, paths...)
		if err != nil {
			core.LogError("%s export of '%s' failed: %s", f, mesh.Name, err)
			return written, err
		}
		core.LogDebug("%s export of '%s' wrote %v", f, mesh.Name, paths)
	}
	return written, nil
}

func (o Options) material(name string) *metadata.Material {
	if o.Materials == nil {
		return nil
	}
	return o.Materials(name)
}

// diffuseMap returns the texture file of a material, or "".
func (o Options) diffuseMap(name string) string {
	if m := o.material(name); m != nil {
		return m.DiffuseMapName
	}
	return ""
}

// fileName turns a mesh or geometry name into a safe file name.
func fileName(name string) string {
	if name == "" {
		return "mesh"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// createFile creates path and hands it to write, closing it afterwards.
func createFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// uniqueConfigs returns the distinct configs of a mesh in node order, and the
// index of each node's config in that list.
func uniqueConfigs(mesh *metadata.Mesh) ([]*metadata.GeometryConfig, []int) {
	configs := []*metadata.GeometryConfig{}
	index := map[*metadata.GeometryConfig]int{}
	nodeConfig := make([]int, len(mesh.Nodes))
	for i, n := range mesh.Nodes {
		idx, ok := index[n.Config]
		if !ok {
			idx = len(configs)
			index[n.Config] = idx
			configs = append(configs, n.Config)
		}
		nodeConfig[i] = idx
	}
	return configs, nodeConfig
}
