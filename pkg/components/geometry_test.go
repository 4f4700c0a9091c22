package components

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestNewBoxShapeCaches(t *testing.T) {
	box := NewBoxShape(100, 50)

	if len(box.Vertices) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(box.Vertices))
	}
	if box.Vertices[0].X() != -50 || box.Vertices[0].Y() != -25 {
		t.Errorf("first vertex = %v, want (-50, -25)", box.Vertices[0])
	}
	if box.Vertices[2].X() != 50 || box.Vertices[2].Y() != 25 {
		t.Errorf("third vertex = %v, want (50, 25)", box.Vertices[2])
	}
	if len(box.Triangles()) != 2 {
		t.Errorf("expected 2 triangles, got %d", len(box.Triangles()))
	}
	if !almostEqual(box.Area(), 5000) {
		t.Errorf("Area() = %f, want 5000", box.Area())
	}
	if !almostEqual(box.BoundingRadius(), math.Hypot(50, 25)) {
		t.Errorf("BoundingRadius() = %f, want %f", box.BoundingRadius(), math.Hypot(50, 25))
	}
	com := box.CenterOfMass()
	if !almostEqual(com.X(), 0) || !almostEqual(com.Y(), 0) {
		t.Errorf("CenterOfMass() = %v, want origin", com)
	}
}

func TestCircleShapeCaches(t *testing.T) {
	c := NewCircleShape(50)
	if !almostEqual(c.BoundingRadius(), 50) {
		t.Errorf("BoundingRadius() = %f, want 50", c.BoundingRadius())
	}
	if !almostEqual(c.Area(), math.Pi*2500) {
		t.Errorf("Area() = %f, want %f", c.Area(), math.Pi*2500)
	}
}

func TestCircleExposesOnlyRadiusAndAreaCaches(t *testing.T) {
	var g Geometry = NewCircleShape(10)

	if _, ok := g.(TriangleUpdater); ok {
		t.Error("circle should not expose UpdateTriangles")
	}
	if _, ok := g.(CenterOfMassUpdater); ok {
		t.Error("circle should not expose UpdateCenterOfMass")
	}
	if _, ok := g.(BoundingRadiusUpdater); !ok {
		t.Error("circle should expose UpdateBoundingRadius")
	}
	if _, ok := g.(AreaUpdater); !ok {
		t.Error("circle should expose UpdateArea")
	}
}

func TestRevisionIncreasesOnRefresh(t *testing.T) {
	box := NewBoxShape(10, 10)
	before := box.Revision()
	box.UpdateArea()
	if box.Revision() <= before {
		t.Errorf("Revision() did not increase: before=%d after=%d", before, box.Revision())
	}
}

func TestBoxBaselineCopiesVertices(t *testing.T) {
	box := NewBoxShape(100, 50)
	baseline := NewBoxBaseline(box)

	box.Vertices[0][0] = 999
	if baseline.Vertex(0).X() != -50 {
		t.Errorf("baseline vertex changed with geometry: %v", baseline.Vertex(0))
	}

	vs := baseline.Vertices()
	vs[1][1] = 999
	if baseline.Vertex(1).Y() != -25 {
		t.Errorf("baseline vertex changed through Vertices() copy: %v", baseline.Vertex(1))
	}

	if baseline.Width() != 100 || baseline.Height() != 50 {
		t.Errorf("baseline size = %fx%f, want 100x50", baseline.Width(), baseline.Height())
	}
}

func TestCollisionFilter(t *testing.T) {
	brush := CollisionFilter{Group: CollisionBrush, Mask: CollisionBrushDefaultMask}
	plane := CollisionFilter{Group: CollisionPlanes, Mask: CollisionBrush}
	fresh := CollisionFilter{Group: CollisionBrush, Mask: CollisionNone}

	if !brush.Collides(plane) {
		t.Error("settled brush should collide with planes")
	}
	if fresh.Collides(plane) {
		t.Error("fresh brush with empty mask should not collide")
	}
	if !CollisionBrushDefaultMask.Has(CollisionParticles) {
		t.Error("default mask should include particles")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantR   uint8
		wantB   uint8
		wantErr bool
	}{
		{"blue", "#0000ff", 0, 255, false},
		{"short red", "#f00", 255, 0, false},
		{"upper hex", "#FF0000", 255, 0, false},
		{"named", "red", 255, 0, false},
		{"named mixed case", "RoyalBlue", 65, 225, false},
		{"rgb function", "rgb(10, 20, 30)", 10, 30, false},
		{"missing hash", "00ff00", 0, 0, true},
		{"garbage", "not-a-color", 0, 0, true},
		{"rgb out of range", "rgb(300, 0, 0)", 0, 0, true},
		{"rgb too few", "rgb(1, 2)", 0, 0, true},
		{"rgba alpha out of range", "rgba(1, 2, 3, 2)", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseColor(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Fatalf("ParseColor(%q) error = %v, want ErrInvalidColor", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q) unexpected error: %v", tt.input, err)
			}
			r, _, b, a := c.RGBA()
			if uint8(r>>8) != tt.wantR || uint8(b>>8) != tt.wantB || a != 0xffff {
				t.Errorf("ParseColor(%q) = (%d, _, %d, %d)", tt.input, r>>8, b>>8, a)
			}
			if c.String() != tt.input {
				t.Errorf("String() = %q, want %q", c.String(), tt.input)
			}
		})
	}
}

func TestParseColorAlpha(t *testing.T) {
	c, err := ParseColor("rgba(255, 0, 0, 0.5)")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	r, g, b, a := c.RGBA()
	if a>>8 != 128 {
		t.Errorf("alpha = %d, want 128", a>>8)
	}
	if r>>8 != 128 || g != 0 || b != 0 {
		t.Errorf("premultiplied rgb = (%d, %d, %d), want (128, 0, 0)", r>>8, g>>8, b>>8)
	}
}
