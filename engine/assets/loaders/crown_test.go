package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

func TestParseCrownConfigDefaults(t *testing.T) {
	cfg, err := ParseCrownConfig(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != metadata.CrownConfigDefault() {
		t.Errorf("empty document = %+v, want the defaults", cfg)
	}
}

func TestParseCrownConfigOverrides(t *testing.T) {
	doc := `
name = "tall"
vertex_layout = "position_normal_texcoord"

[band]
height = 2.5
sectors = 64

[cross]
enabled = false

[spikes]
count = 12
phase = 0.0

[materials]
inner = "velvet.png"
`
	cfg, err := ParseCrownConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	def := metadata.CrownConfigDefault()
	if cfg.Name != "tall" || cfg.VertexLayout != "position_normal_texcoord" {
		t.Errorf("name/layout = %s/%s", cfg.Name, cfg.VertexLayout)
	}
	if cfg.Band.Height != 2.5 || cfg.Band.Sectors != 64 {
		t.Errorf("band = %+v", cfg.Band)
	}
	if cfg.Band.OuterRadius != def.Band.OuterRadius || cfg.Band.InnerRadius != def.Band.InnerRadius {
		t.Errorf("radii not kept from defaults: %+v", cfg.Band)
	}
	if cfg.Cross.Enabled || cfg.Cross.Width != def.Cross.Width {
		t.Errorf("cross = %+v", cfg.Cross)
	}
	if cfg.Spikes.Count != 12 || cfg.Spikes.Phase != 0 || cfg.Spikes.Width != def.Spikes.Width {
		t.Errorf("spikes = %+v", cfg.Spikes)
	}
	if cfg.Materials.Inner != "velvet.png" || cfg.Materials.Outer != def.Materials.Outer {
		t.Errorf("materials = %+v", cfg.Materials)
	}
}

func TestParseCrownConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "[band]\nradius = 1.0\n"},
		{"unknown table", "[jewels]\ncount = 3\n"},
		{"bad syntax", "[band\nheight = 1\n"},
		{"wrong type", "[band]\nsectors = \"many\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCrownConfig(strings.NewReader(tt.doc))
			if !errors.Is(err, core.ErrInvalidCrownConfig) {
				t.Errorf("error = %v, want ErrInvalidCrownConfig", err)
			}
		})
	}
}

func TestCrownLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crown.toml")
	if err := os.WriteFile(path, []byte("name = \"file\"\n[band]\nsectors = 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := &CrownLoader{}
	res, err := loader.Load(path, metadata.ResourceTypeCrown, nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg, ok := res.Data.(*metadata.CrownConfig)
	if !ok {
		t.Fatalf("Data is %T", res.Data)
	}
	if res.Name != "file" || res.FullPath != path || cfg.Band.Sectors != 12 {
		t.Errorf("resource = %+v, config = %+v", res, cfg)
	}

	if err := loader.Unload(res); err != nil || res.Data != nil {
		t.Errorf("Unload = %v, data = %v", err, res.Data)
	}
	if err := loader.Unload(nil); !errors.Is(err, core.ErrInvalidResource) {
		t.Errorf("Unload(nil) = %v", err)
	}
	if _, err := loader.Load(filepath.Join(t.TempDir(), "missing.toml"), metadata.ResourceTypeCrown, nil); err == nil {
		t.Errorf("loading a missing file should fail")
	}
}
