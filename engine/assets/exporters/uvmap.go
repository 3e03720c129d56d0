package exporters

import (
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/crown/engine/math"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

/** @brief Edge length of UV layout images when none is configured. */
const DefaultUVImageSize = 512

// Stroke colours, cycled over the surfaces of a geometry.
var uvPalette = []gg.RGBA{
	gg.RGB(0.95, 0.77, 0.20),
	gg.RGB(0.30, 0.69, 0.96),
	gg.RGB(0.40, 0.85, 0.45),
	gg.RGB(0.93, 0.36, 0.40),
	gg.RGB(0.75, 0.50, 0.95),
}

/**
 * @brief Renders the texture layout of every distinct geometry to a PNG: each
 * surface's triangles stroked in UV space with the surface names listed.
 */
type UVExporter struct{}

func (e *UVExporter) Format() Format {
	return FormatUV
}

func (e *UVExporter) Export(dir string, mesh *metadata.Mesh, opts Options) ([]string, error) {
	size := opts.UVImageSize
	if size <= 0 {
		size = DefaultUVImageSize
	}

	configs, _ := uniqueConfigs(mesh)
	written := []string{}
	for _, c := range configs {
		path := filepath.Join(dir, fileName(c.Name)+".uv.png")
		if err := createFile(path, func(f *os.File) error {
			return WriteUVLayout(f, c, size)
		}); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// RenderUVLayout draws the UV layout of a geometry into a size x size image.
// v = 1 is the top row.
func RenderUVLayout(config *metadata.GeometryConfig, size int) (*image.RGBA, error) {
	dc := gg.NewContext(size, size)
	defer dc.Close()

	dc.ClearWithColor(gg.RGB(0.08, 0.08, 0.10))

	s := float64(size)
	margin := s * 0.05
	inner := s - 2*margin
	// Repeating coordinates are pinned to the frame.
	toPixel := func(u, v float32) (float64, float64) {
		u, v = math.Clamp(u, 0, 1), math.Clamp(v, 0, 1)
		return margin + float64(u)*inner, margin + (1-float64(v))*inner
	}

	// Unit square frame
	dc.SetRGB(0.35, 0.35, 0.38)
	dc.SetLineWidth(1)
	dc.DrawRectangle(margin, margin, inner, inner)
	if err := dc.Stroke(); err != nil {
		return nil, err
	}

	for i, surface := range config.Surfaces {
		colour := uvPalette[i%len(uvPalette)]
		dc.SetRGB(colour.R, colour.G, colour.B)
		dc.SetLineWidth(1.5)
		for t := 0; t+2 < len(surface.Indices); t += 3 {
			a := config.Vertices[surface.Indices[t]].Texcoord
			b := config.Vertices[surface.Indices[t+1]].Texcoord
			c := config.Vertices[surface.Indices[t+2]].Texcoord
			dc.MoveTo(toPixel(a.X, a.Y))
			dc.LineTo(toPixel(b.X, b.Y))
			dc.LineTo(toPixel(c.X, c.Y))
			dc.ClosePath()
		}
		if err := dc.Stroke(); err != nil {
			return nil, err
		}
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), dc.Image(), image.Point{}, draw.Src)

	// Legend
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	for i, surface := range config.Surfaces {
		colour := uvPalette[i%len(uvPalette)]
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(colour.Color()),
			Face: face,
			Dot:  fixed.P(4, lineHeight*(i+1)),
		}
		d.DrawString(surface.Name)
	}
	return img, nil
}

// WriteUVLayout renders the UV layout of a geometry as PNG.
func WriteUVLayout(w io.Writer, config *metadata.GeometryConfig, size int) error {
	img, err := RenderUVLayout(config, size)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
