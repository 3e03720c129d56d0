package exporters

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

/**
 * @brief Writes Wavefront OBJ with a companion MTL library. Node transforms
 * are baked into the positions and normals.
 */
type OBJExporter struct{}

func (e *OBJExporter) Format() Format {
	return FormatOBJ
}

func (e *OBJExporter) Export(dir string, mesh *metadata.Mesh, opts Options) ([]string, error) {
	base := fileName(mesh.Name)
	objPath := filepath.Join(dir, base+".obj")
	mtlPath := filepath.Join(dir, base+".mtl")

	if err := createFile(mtlPath, func(f *os.File) error {
		return WriteMTL(f, mesh, opts)
	}); err != nil {
		return nil, err
	}
	if err := createFile(objPath, func(f *os.File) error {
		return WriteOBJ(f, mesh, base+".mtl")
	}); err != nil {
		return []string{mtlPath}, err
	}
	return []string{objPath, mtlPath}, nil
}

/**
 * @brief Writes the mesh as OBJ. Every node becomes an object and every
 * surface a group bound to its material. Face indices are 1-based and global.
 *
 * @param w The destination.
 * @param mesh The mesh to write.
 * @param mtlLib The material library to reference, or "" for none.
 */
func WriteOBJ(w io.Writer, mesh *metadata.Mesh, mtlLib string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", mesh.Name)
	if mtlLib != "" {
		fmt.Fprintf(bw, "mtllib %s\n", mtlLib)
	}

	offset := uint32(1)
	for _, node := range mesh.Nodes {
		world := node.Transform.GetWorld()
		fmt.Fprintf(bw, "o %s\n", node.Name)
		for _, v := range node.Config.Vertices {
			p := v.Position.Transform(world)
			fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
		}
		for _, v := range node.Config.Vertices {
			fmt.Fprintf(bw, "vt %g %g\n", v.Texcoord.X, v.Texcoord.Y)
		}
		for _, v := range node.Config.Vertices {
			n := v.Normal.TransformDirection(world).Normalized()
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
		for _, s := range node.Config.Surfaces {
			fmt.Fprintf(bw, "g %s_%s\n", node.Name, s.Name)
			fmt.Fprintf(bw, "usemtl %s\n", s.MaterialName)
			for i := 0; i+2 < len(s.Indices); i += 3 {
				a, b, c := s.Indices[i]+offset, s.Indices[i+1]+offset, s.Indices[i+2]+offset
				fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
			}
		}
		offset += node.Config.VertexCount()
	}
	return bw.Flush()
}

// WriteMTL writes one material per distinct surface material of the mesh.
func WriteMTL(w io.Writer, mesh *metadata.Mesh, opts Options) error {
	bw := bufio.NewWriter(w)
	seen := map[string]bool{}
	for _, node := range mesh.Nodes {
		for _, s := range node.Config.Surfaces {
			if seen[s.MaterialName] {
				continue
			}
			seen[s.MaterialName] = true

			fmt.Fprintf(bw, "newmtl %s\n", s.MaterialName)
			if m := opts.material(s.MaterialName); m != nil {
				fmt.Fprintf(bw, "Kd %g %g %g\n", m.DiffuseColour.X, m.DiffuseColour.Y, m.DiffuseColour.Z)
				if m.DiffuseMapName != "" {
					fmt.Fprintf(bw, "map_Kd %s\n", m.DiffuseMapName)
				}
			} else {
				fmt.Fprintf(bw, "Kd 1 1 1\n")
			}
			fmt.Fprintln(bw)
		}
	}
	return bw.Flush()
}
