package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/brushes/pkg/components"
)

func openTestGdata(t *testing.T, app string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	m, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

func TestStyleStorePersists(t *testing.T) {
	m := openTestGdata(t, "test_brush_style")

	store := NewStyleStore(m)
	if _, ok := store.Snapshot(); ok {
		t.Fatal("fresh store should be empty")
	}

	want := components.StyleSnapshot{
		Fill:      "#00ff00",
		Stroke:    "#ff00ff",
		FillImage: "img/brush.png",
		ShapeType: "SQUARE",
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewStyleStore(m)
	got, ok := reloaded.Snapshot()
	if !ok {
		t.Fatal("snapshot not persisted")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestStyleStoreDegradedMode(t *testing.T) {
	store := NewStyleStore(nil)

	snapshot := components.StyleSnapshot{Fill: "#000000", Stroke: "#ffffff", ShapeType: "BOX"}
	if err := store.Save(snapshot); err != nil {
		t.Fatalf("Save in degraded mode: %v", err)
	}
	got, ok := store.Snapshot()
	if !ok || got != snapshot {
		t.Errorf("in-memory snapshot = %+v, %v", got, ok)
	}

	if err := store.Load(); err != nil {
		t.Fatalf("Load in degraded mode: %v", err)
	}
	if _, ok := store.Snapshot(); ok {
		t.Error("degraded Load should reset to empty")
	}
}

func TestStyleStoreCorruptData(t *testing.T) {
	m := openTestGdata(t, "test_brush_style_corrupt")
	if err := m.SaveObjectProp(styleObject, styleProperty, []byte("fill: [unterminated")); err != nil {
		t.Fatalf("SaveObjectProp: %v", err)
	}

	store := NewStyleStore(m)
	if _, ok := store.Snapshot(); ok {
		t.Error("corrupt data should leave the store empty")
	}
	if err := store.Load(); err == nil {
		t.Error("Load should report corrupt data")
	}
}

func TestOpenStorage(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	m, err := OpenStorage("test_brush_storage")
	if err != nil {
		t.Fatalf("OpenStorage: %v", err)
	}
	if err := NewStyleStore(m).Save(components.StyleSnapshot{ShapeType: "CIRCLE"}); err != nil {
		t.Errorf("Save through opened storage: %v", err)
	}
}
