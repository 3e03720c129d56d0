package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/crown/engine/assets/exporters"
	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

func newEngine(t *testing.T, config *ApplicationConfig, g *Game) *Engine {
	t.Helper()
	if g == nil {
		g = &Game{}
	}
	g.ApplicationConfig = config
	e, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Boot(); err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	return e
}

func writeConfig(t *testing.T, path, doc string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunBuildsDrawsAndExports(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	rendered := 0
	e := newEngine(t, &ApplicationConfig{
		Name:      "test",
		LogLevel:  core.WarnLevel,
		OutputDir: out,
		Formats:   []exporters.Format{exporters.FormatOBJ, exporters.FormatGLB},
		Frames:    3,
	}, &Game{
		FnRender: func(packet *metadata.RenderPacket, deltaTime float64) error {
			rendered++
			return nil
		},
	})

	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if e.Mesh() == nil || e.Mesh().Name != "crown" {
		t.Fatalf("mesh = %v", e.Mesh())
	}
	if rendered != 3 || len(e.Backend().Frames()) != 3 {
		t.Errorf("rendered %d frames, backend recorded %d", rendered, len(e.Backend().Frames()))
	}
	// four band surfaces, the cross and eight spikes
	if draws := len(e.Backend().LastFrame().Draws); draws != 13 {
		t.Errorf("draw calls = %d, want 13", draws)
	}
	for _, name := range []string{"crown.obj", "crown.mtl", "crown.glb"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing export: %v", err)
		}
	}

	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if e.Mesh() != nil {
		t.Errorf("Shutdown should unload the mesh")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crown.toml")
	writeConfig(t, path, "[band]\ninner_radius = 2.0\n")

	e := newEngine(t, &ApplicationConfig{Name: "test", LogLevel: core.FatalLevel, ConfigPath: path}, nil)
	defer e.Shutdown()
	if err := e.Run(context.Background()); !errors.Is(err, core.ErrInvalidCrownConfig) {
		t.Errorf("Run = %v, want ErrInvalidCrownConfig", err)
	}
}

func TestStagesInOrder(t *testing.T) {
	e, err := New(&Game{ApplicationConfig: &ApplicationConfig{Name: "test", LogLevel: core.WarnLevel}})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()
	if err := e.Initialize(); err == nil {
		t.Errorf("Initialize before Boot should fail")
	}
	if err := e.Run(context.Background()); err == nil {
		t.Errorf("Run before Initialize should fail")
	}
	if _, err := New(&Game{}); err == nil {
		t.Errorf("New without an application config should fail")
	}
}

func TestRunWatchRebuildsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crown.toml")
	writeConfig(t, path, "[spikes]\ncount = 2\n")

	builds := make(chan int, 16)
	e := newEngine(t, &ApplicationConfig{
		Name:       "test",
		LogLevel:   core.WarnLevel,
		ConfigPath: path,
		Watch:      true,
	}, &Game{
		FnOnBuild: func(mesh *metadata.Mesh) error {
			builds <- len(mesh.Nodes)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	select {
	case n := <-builds:
		// band, cross and two spikes
		if n != 4 {
			t.Errorf("first build has %d nodes", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no initial build")
	}

	// Keep touching the file: the watcher may start after the first write.
	deadline := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
wait:
	for {
		select {
		case n := <-builds:
			if n == 7 {
				break wait
			}
		case <-ticker.C:
			writeConfig(t, path, "[spikes]\ncount = 5\n")
		case <-deadline:
			t.Fatal("no rebuild after the config changed")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if err := e.Shutdown(); err != nil {
		t.Error(err)
	}
}
