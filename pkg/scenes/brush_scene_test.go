package scenes

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/brushes/pkg/brush"
	"github.com/gonewx/brushes/pkg/canvas"
	"github.com/gonewx/brushes/pkg/components"
	"github.com/gonewx/brushes/pkg/game"
	"github.com/gonewx/brushes/pkg/mirror"
	"github.com/gonewx/brushes/pkg/types"
)

var (
	_ game.Scene    = (*BrushScene)(nil)
	_ game.Saveable = (*BrushScene)(nil)
)

func TestSpawnAndRender(t *testing.T) {
	scene := NewBrushScene(BrushSceneOptions{Width: 800, Height: 600})

	for i := 0; i < 3; i++ {
		if _, _, err := scene.Spawn(brush.Options{Position: mgl64.Vec2{float64(100 * (i + 1)), 100}}); err != nil {
			t.Fatalf("Spawn: %v", err)
		}
	}

	rec := canvas.NewRecorder()
	scene.Render(rec)
	if rec.Count("Stroke") != 3 {
		t.Errorf("stroked %d brushes, want 3", rec.Count("Stroke"))
	}
	if rec.Count("Save") != rec.Count("Restore") {
		t.Error("unbalanced Save/Restore")
	}
}

func TestUpdateAdvancesMasks(t *testing.T) {
	scene := NewBrushScene(BrushSceneOptions{})
	_, b, err := scene.Spawn(brush.Options{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	filter := b.Shape().Geometry.Filter()

	for i := 0; i < 59; i++ {
		scene.Update(1.0 / 60.0)
	}
	if filter.Mask != components.CollisionNone {
		t.Fatalf("mask widened early: %v", filter.Mask)
	}

	scene.Update(2.0 / 60.0)
	if filter.Mask != components.CollisionBrushDefaultMask {
		t.Errorf("mask after 1s = %v, want brush|planes|particles", filter.Mask)
	}
}

func TestDespawnDestroysBrush(t *testing.T) {
	scene := NewBrushScene(BrushSceneOptions{})
	id, b, _ := scene.Spawn(brush.Options{ID: "remote"})

	if got, ok := scene.Find("remote"); !ok || got != id {
		t.Fatalf("Find = %d, %v", got, ok)
	}
	if scene.Replica().Len() != 1 {
		t.Fatal("non-owned brush should be bound to the replica")
	}

	scene.Despawn(id)
	if b.Destroyed() {
		t.Fatal("Despawn must be deferred to Update")
	}
	scene.Update(1.0 / 60.0)

	if !b.Destroyed() {
		t.Error("brush not destroyed")
	}
	if _, ok := scene.Get(id); ok {
		t.Error("entity still present")
	}
	if scene.Replica().Len() != 0 {
		t.Error("replica binding not released")
	}
	if scene.Scheduler().Pending() != 0 {
		t.Error("mask task still pending after despawn")
	}
}

func TestRemoteEventsReachReplica(t *testing.T) {
	scene := NewBrushScene(BrushSceneOptions{})
	_, b, _ := scene.Spawn(brush.Options{ID: "peer"})

	scene.Replica().Handle(mirror.Event{BrushID: "peer", Name: mirror.EventSetShapeType, Payload: "BOX"})
	if b.State().Shape != types.ShapeBox {
		t.Errorf("shape = %v, want BOX", b.State().Shape)
	}
}

func TestOwnedBrushUsesSceneMirrorAndStore(t *testing.T) {
	store := game.NewStyleStore(nil)
	_ = store.Save(components.StyleSnapshot{Fill: "#00ff00", Stroke: "#000000", ShapeType: "SQUARE"})
	rec := mirror.NewRecorder()

	scene := NewBrushScene(BrushSceneOptions{Mirror: rec, Store: store})
	_, owned, err := scene.Spawn(brush.Options{Own: true})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	_, _, _ = scene.Spawn(brush.Options{ID: "peer"})

	state := owned.State()
	if state.Shape != types.ShapeSquare || state.Fill != "#00ff00" {
		t.Errorf("saved style not restored: %+v", state)
	}
	if rec.Count(mirror.EventSetShapeType) != 2 {
		t.Errorf("owned brush should mirror default and restored shape, got %d", rec.Count(mirror.EventSetShapeType))
	}
	for _, ev := range rec.Events() {
		if ev.BrushID != owned.ID() {
			t.Errorf("event from non-owned brush reached the scene mirror: %+v", ev)
		}
	}

	_ = owned.SetStrokeStyle("#123456")
	if !scene.SaveOnExit() {
		t.Fatal("SaveOnExit failed")
	}
	saved, _ := store.Snapshot()
	if saved.Stroke != "#123456" {
		t.Errorf("saved stroke = %s", saved.Stroke)
	}
}
