package canvas

import (
	"image"
	"image/color"
	"testing"
)

func TestRecorderRecordsInOrder(t *testing.T) {
	r := NewRecorder()
	var s Surface = r

	s.BeginPath()
	s.Save()
	s.Translate(1, 2)
	s.SetStrokeColor(color.Black)
	s.Rect(-5, -5, 10, 10)
	s.DrawImage(image.NewRGBA(image.Rect(0, 0, 2, 2)), -5, -5, 10, 10)
	s.Restore()

	want := []string{"BeginPath", "Save", "Translate", "SetStrokeColor", "Rect", "DrawImage", "Restore"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}

	op, ok := r.Find("Rect")
	if !ok || op.String() != "Rect(-5,-5,10,10)" {
		t.Errorf("Find(Rect) = %v, %v", op, ok)
	}
	if r.Count("DrawImage") != 1 {
		t.Errorf("Count(DrawImage) = %d, want 1", r.Count("DrawImage"))
	}

	r.Reset()
	if len(r.Ops) != 0 {
		t.Errorf("Reset() left %d ops", len(r.Ops))
	}
}
