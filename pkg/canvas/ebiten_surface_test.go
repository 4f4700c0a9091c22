package canvas

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestEbitenSurfaceTransformStack(t *testing.T) {
	s := NewEbitenSurface(nil)

	s.Save()
	s.Translate(100, 50)
	s.Rotate(math.Pi / 2)

	// 先旋转再平移：局部 (10, 0) 旋转 90° 变为 (0, 10)，再平移到 (100, 60)
	x, y := s.state.geoM.Apply(10, 0)
	if math.Abs(x-100) > 1e-9 || math.Abs(y-60) > 1e-9 {
		t.Errorf("Apply(10, 0) = (%f, %f), want (100, 60)", x, y)
	}

	rotation, scale := s.rotationScale()
	if math.Abs(rotation-math.Pi/2) > 1e-9 {
		t.Errorf("rotation = %f, want pi/2", rotation)
	}
	if math.Abs(scale-1) > 1e-9 {
		t.Errorf("scale = %f, want 1", scale)
	}

	s.Restore()
	x, y = s.state.geoM.Apply(10, 0)
	if x != 10 || y != 0 {
		t.Errorf("after Restore Apply(10, 0) = (%f, %f), want (10, 0)", x, y)
	}
}

func TestEbitenSurfaceRestoreWithoutSave(t *testing.T) {
	s := NewEbitenSurface(nil)
	s.Translate(5, 5)
	s.Restore()

	x, y := s.state.geoM.Apply(0, 0)
	if x != 5 || y != 5 {
		t.Errorf("unbalanced Restore should keep state, got (%f, %f)", x, y)
	}
}

func TestEbitenSurfaceSaveRestoresStyleAndClip(t *testing.T) {
	s := NewEbitenSurface(nil)
	s.SetFillColor(color.White)
	s.SetLineWidth(4)

	s.Save()
	s.SetFillColor(color.Black)
	s.SetLineWidth(1)
	s.BeginPath()
	s.Arc(0, 0, 10, 0, 2*math.Pi)
	s.Clip()
	if len(s.state.clips) != 1 {
		t.Fatalf("clips = %d, want 1", len(s.state.clips))
	}
	s.Restore()

	if s.state.fill != color.White {
		t.Errorf("fill color not restored: %v", s.state.fill)
	}
	if s.state.lineWidth != 4 {
		t.Errorf("line width not restored: %f", s.state.lineWidth)
	}
	if len(s.state.clips) != 0 {
		t.Errorf("clip not restored: %d clips", len(s.state.clips))
	}
}

func TestEbitenSurfaceRectTriangles(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}

	tests := []struct {
		name                   string
		rotate                 float64
		minX, minY, maxX, maxY float32
	}{
		{"axis aligned", 0, 50, 25, 150, 75},
		{"rotated quarter turn", math.Pi / 2, 75, 0, 125, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewEbitenSurface(nil)
			s.SetFillColor(red)
			s.BeginPath()
			s.Translate(100, 50)
			s.Rotate(tt.rotate)
			s.Rect(-50, -25, 100, 50)
			s.buildFill()

			checkTriangles(t, s)
			const eps = 1e-3
			for i, v := range s.vertices {
				if v.DstX < tt.minX-eps || v.DstX > tt.maxX+eps || v.DstY < tt.minY-eps || v.DstY > tt.maxY+eps {
					t.Errorf("vertex %d = (%f, %f) outside [%v,%v]x[%v,%v]",
						i, v.DstX, v.DstY, tt.minX, tt.maxX, tt.minY, tt.maxY)
				}
				if v.ColorR != 1 || v.ColorG != 0 || v.ColorB != 0 || v.ColorA != 1 {
					t.Fatalf("vertex %d color = (%f, %f, %f, %f), want red", i, v.ColorR, v.ColorG, v.ColorB, v.ColorA)
				}
			}
		})
	}
}

func TestEbitenSurfaceCircleTriangles(t *testing.T) {
	s := NewEbitenSurface(nil)
	s.SetStrokeColor(color.White)
	s.SetLineWidth(4)
	s.BeginPath()
	s.Translate(200, 200)
	s.Arc(0, 0, 50, 0, 2*math.Pi)

	s.buildFill()
	checkTriangles(t, s)
	maxDist := 0.0
	for i, v := range s.vertices {
		d := math.Hypot(float64(v.DstX)-200, float64(v.DstY)-200)
		if d > 50.5 {
			t.Errorf("fill vertex %d at distance %f, want <= 50", i, d)
		}
		maxDist = math.Max(maxDist, d)
	}
	if maxDist < 49 {
		t.Errorf("fill reaches distance %f, want about 50", maxDist)
	}

	s.buildStroke()
	checkTriangles(t, s)
	for i, v := range s.vertices {
		d := math.Hypot(float64(v.DstX)-200, float64(v.DstY)-200)
		if d < 47.5 || d > 52.5 {
			t.Errorf("stroke vertex %d at distance %f, want within line width of radius 50", i, d)
		}
		if v.ColorA != 1 || v.ColorR != 1 {
			t.Fatalf("stroke vertex %d not white", i)
		}
	}
}

func TestEbitenSurfaceImageGeoM(t *testing.T) {
	s := NewEbitenSurface(nil)
	s.Translate(200, 200)

	m := s.imageGeoM(image.Rect(0, 0, 64, 32), -50, -25, 100, 50)

	corners := []struct{ sx, sy, wx, wy float64 }{
		{0, 0, 150, 175},
		{64, 0, 250, 175},
		{64, 32, 250, 225},
		{0, 32, 150, 225},
	}
	for _, c := range corners {
		x, y := m.Apply(c.sx, c.sy)
		if math.Abs(x-c.wx) > 1e-9 || math.Abs(y-c.wy) > 1e-9 {
			t.Errorf("image corner (%v, %v) -> (%f, %f), want (%v, %v)", c.sx, c.sy, x, y, c.wx, c.wy)
		}
	}
}

func TestClipTrianglesAreOpaqueWhite(t *testing.T) {
	s := NewEbitenSurface(nil)
	s.BeginPath()
	s.Arc(30, 30, 20, 0, 2*math.Pi)
	s.Clip()

	vs, is := clipTriangles(s.state.clips[0])
	if len(vs) == 0 || len(is) == 0 || len(is)%3 != 0 {
		t.Fatalf("clip mask has %d vertices, %d indices", len(vs), len(is))
	}
	for i, v := range vs {
		if v.ColorR != 1 || v.ColorG != 1 || v.ColorB != 1 || v.ColorA != 1 {
			t.Fatalf("mask vertex %d color = (%f, %f, %f, %f), want opaque white", i, v.ColorR, v.ColorG, v.ColorB, v.ColorA)
		}
	}
}

// checkTriangles 校验索引构成完整三角形且不越界
func checkTriangles(t *testing.T, s *EbitenSurface) {
	t.Helper()
	if len(s.vertices) == 0 || len(s.indices) == 0 {
		t.Fatalf("no triangles: %d vertices, %d indices", len(s.vertices), len(s.indices))
	}
	if len(s.indices)%3 != 0 {
		t.Errorf("indices = %d, not a multiple of 3", len(s.indices))
	}
	for _, idx := range s.indices {
		if int(idx) >= len(s.vertices) {
			t.Fatalf("index %d out of range (%d vertices)", idx, len(s.vertices))
		}
	}
}
