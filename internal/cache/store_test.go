package cache

import (
	"path/filepath"
	"testing"

	"github.com/ThermalSpan/implicit-plotter/internal/geom"
	"github.com/ThermalSpan/implicit-plotter/internal/interval"
	"github.com/ThermalSpan/implicit-plotter/internal/morton"
)

func testBox() geom.Box {
	span := interval.Interval{Min: -1, Max: 1}
	return geom.Box{X: span, Y: span, Z: span}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "mesh.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	box := testBox()
	key := Key("x^2+y^2+z^2-1", box, 3)
	solutionMap := map[morton.Key]geom.Box{
		morton.Root().Child(0): box,
		morton.Root().Child(7): box,
	}

	if err := store.Save(key, 3, solutionMap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, depth, ok, err := store.Load(key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if depth != 3 {
		t.Errorf("depth = %d, want 3", depth)
	}
	if len(got) != len(solutionMap) {
		t.Fatalf("got %d entries, want %d", len(got), len(solutionMap))
	}
	for k, b := range solutionMap {
		gb, ok := got[k]
		if !ok {
			t.Fatalf("missing key %d after round trip", k)
		}
		if gb != b {
			t.Errorf("box for key %d = %#v, want %#v", k, gb, b)
		}
	}
}

func TestLoadMissReportsNotOk(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "mesh.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	_, _, ok, err := store.Load("nonexistent")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("expected cache miss")
	}
}

func TestKeyIsSensitiveToDepthAndSource(t *testing.T) {
	box := testBox()
	k1 := Key("x", box, 3)
	k2 := Key("x", box, 4)
	k3 := Key("y", box, 3)
	if k1 == k2 {
		t.Error("expected different keys for different depths")
	}
	if k1 == k3 {
		t.Error("expected different keys for different source text")
	}
}
