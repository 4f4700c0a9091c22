package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gonewx/brushes/pkg/types"
)

func TestDefaultBrushConfigIsValid(t *testing.T) {
	cfg := DefaultBrushConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Shapes.Circle.Radius != 50 {
		t.Errorf("circle radius = %f, want 50", cfg.Shapes.Circle.Radius)
	}
	if cfg.Collision.MaskDelay() != time.Second {
		t.Errorf("MaskDelay() = %v, want 1s", cfg.Collision.MaskDelay())
	}
}

func TestLoadBrushConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *BrushConfig)
	}{
		{
			name: "valid full config",
			yamlContent: `
shapes:
  circle:
    radius: 40
  box:
    width: 120
    height: 60
  square:
    width: 80
    height: 80
deformation:
  multiplier: 0.01
  minFactor: 1
  maxFactor: 3
collision:
  maskDelayMs: 500
render:
  lineWidth: 2
style:
  fill: "#00ff00"
  stroke: "#000000"
  shape: SQUARE
body:
  mass: 10
  angularVelocity: 0
physics:
  fixedStep: 0.02
  maxSubSteps: 3
`,
			validate: func(t *testing.T, cfg *BrushConfig) {
				if cfg.Shapes.Circle.Radius != 40 {
					t.Errorf("expected circle radius = 40, got %f", cfg.Shapes.Circle.Radius)
				}
				if cfg.Shapes.Box.Width != 120 {
					t.Errorf("expected box width = 120, got %f", cfg.Shapes.Box.Width)
				}
				if cfg.Style.Shape != types.ShapeSquare {
					t.Errorf("expected default shape SQUARE, got %v", cfg.Style.Shape)
				}
				if cfg.Collision.MaskDelay() != 500*time.Millisecond {
					t.Errorf("expected mask delay 500ms, got %v", cfg.Collision.MaskDelay())
				}
			},
		},
		{
			name: "partial config keeps defaults",
			yamlContent: `
render:
  lineWidth: 6
`,
			validate: func(t *testing.T, cfg *BrushConfig) {
				if cfg.Render.LineWidth != 6 {
					t.Errorf("expected line width = 6, got %f", cfg.Render.LineWidth)
				}
				if cfg.Shapes.Square.Width != 75 {
					t.Errorf("expected default square width = 75, got %f", cfg.Shapes.Square.Width)
				}
				if cfg.Deformation.MaxFactor != 2 {
					t.Errorf("expected default max factor = 2, got %f", cfg.Deformation.MaxFactor)
				}
			},
		},
		{
			name: "negative circle radius",
			yamlContent: `
shapes:
  circle:
    radius: -1
`,
			wantErr:     true,
			errContains: "circle radius must be > 0",
		},
		{
			name: "zero box height",
			yamlContent: `
shapes:
  box:
    width: 10
    height: 0
`,
			wantErr:     true,
			errContains: "box size must be positive",
		},
		{
			name: "inverted factor range",
			yamlContent: `
deformation:
  minFactor: 3
  maxFactor: 2
`,
			wantErr:     true,
			errContains: "deformation factor range invalid",
		},
		{
			name: "negative mask delay",
			yamlContent: `
collision:
  maskDelayMs: -5
`,
			wantErr:     true,
			errContains: "collision mask delay must be >= 0",
		},
		{
			name: "unknown default shape",
			yamlContent: `
style:
  shape: TRIANGLE
`,
			wantErr:     true,
			errContains: "failed to parse brush config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tmpFile := filepath.Join(tmpDir, "brush.yaml")
			if err := os.WriteFile(tmpFile, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("failed to create temp file: %v", err)
			}

			cfg, err := LoadBrushConfig(tmpFile)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errContains)
				} else if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadBrushConfig_FileNotFound(t *testing.T) {
	_, err := LoadBrushConfig("/nonexistent/brush.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "failed to read brush config") {
		t.Errorf("expected error about reading file, got: %v", err)
	}
}

func TestLoadBrushConfig_ShippedFile(t *testing.T) {
	cfg, err := LoadBrushConfig(filepath.Join("..", "..", "data", "brush.yaml"))
	if err != nil {
		t.Fatalf("shipped data/brush.yaml should load: %v", err)
	}
	def := DefaultBrushConfig()
	if cfg.Shapes != def.Shapes {
		t.Errorf("shipped shapes %+v differ from defaults %+v", cfg.Shapes, def.Shapes)
	}
	if cfg.Deformation != def.Deformation {
		t.Errorf("shipped deformation %+v differ from defaults %+v", cfg.Deformation, def.Deformation)
	}
}

func TestRectSizeFor(t *testing.T) {
	shapes := DefaultBrushConfig().Shapes

	if size, ok := shapes.RectSizeFor(types.ShapeBox); !ok || size.Width != 100 || size.Height != 50 {
		t.Errorf("RectSizeFor(Box) = %+v, %v", size, ok)
	}
	if size, ok := shapes.RectSizeFor(types.ShapeSquare); !ok || size.Width != 75 || size.Height != 75 {
		t.Errorf("RectSizeFor(Square) = %+v, %v", size, ok)
	}
	if _, ok := shapes.RectSizeFor(types.ShapeCircle); ok {
		t.Error("RectSizeFor(Circle) should return false")
	}
}
