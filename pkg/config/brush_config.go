package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/brushes/pkg/types"
)

// BrushConfig 画刷配置
//
// 包含形状默认尺寸、速度变形参数、碰撞掩码延迟、描边宽度、默认外观以及刚体参数。
//
// 配置文件位置: data/brush.yaml
type BrushConfig struct {
	Shapes      ShapesConfig      `yaml:"shapes"`
	Deformation DeformationConfig `yaml:"deformation"`
	Collision   CollisionConfig   `yaml:"collision"`
	Render      RenderConfig      `yaml:"render"`
	Style       StyleConfig       `yaml:"style"`
	Body        BodyConfig        `yaml:"body"`
	Physics     PhysicsConfig     `yaml:"physics"`
}

// ShapesConfig 三种形状的默认尺寸
type ShapesConfig struct {
	Circle CircleSize `yaml:"circle"`
	Box    RectSize   `yaml:"box"`
	Square RectSize   `yaml:"square"`
}

// CircleSize 圆形尺寸
type CircleSize struct {
	Radius float64 `yaml:"radius"`
}

// RectSize 矩形尺寸
type RectSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DeformationConfig 速度变形参数
//
// factor = clamp(|vx + vy| × Multiplier, MinFactor, MaxFactor)
type DeformationConfig struct {
	Multiplier float64 `yaml:"multiplier"`
	MinFactor  float64 `yaml:"minFactor"`
	MaxFactor  float64 `yaml:"maxFactor"`
}

// CollisionConfig 碰撞掩码放开延迟
type CollisionConfig struct {
	// MaskDelayMs 形状分配后到放开碰撞掩码的延迟（毫秒）
	MaskDelayMs int `yaml:"maskDelayMs"`
}

// MaskDelay 以 time.Duration 表示的掩码延迟
func (c CollisionConfig) MaskDelay() time.Duration {
	return time.Duration(c.MaskDelayMs) * time.Millisecond
}

// RenderConfig 渲染参数
type RenderConfig struct {
	LineWidth float64 `yaml:"lineWidth"`
}

// StyleConfig 新建画刷的默认外观
type StyleConfig struct {
	Fill   string          `yaml:"fill"`
	Stroke string          `yaml:"stroke"`
	Shape  types.ShapeType `yaml:"shape"`
}

// BodyConfig 刚体初始参数
type BodyConfig struct {
	Mass            float64 `yaml:"mass"`
	AngularVelocity float64 `yaml:"angularVelocity"`
}

// PhysicsConfig 物理世界参数
type PhysicsConfig struct {
	// FixedStep 固定步长（秒）
	FixedStep float64 `yaml:"fixedStep"`
	// MaxSubSteps 每帧最多执行的子步数，防止卡顿后雪崩
	MaxSubSteps int `yaml:"maxSubSteps"`
}

// DefaultBrushConfig 返回默认配置（与 data/brush.yaml 一致）
func DefaultBrushConfig() *BrushConfig {
	return &BrushConfig{
		Shapes: ShapesConfig{
			Circle: CircleSize{Radius: 50},
			Box:    RectSize{Width: 100, Height: 50},
			Square: RectSize{Width: 75, Height: 75},
		},
		Deformation: DeformationConfig{
			Multiplier: 0.005,
			MinFactor:  1,
			MaxFactor:  2,
		},
		Collision: CollisionConfig{MaskDelayMs: 1000},
		Render:    RenderConfig{LineWidth: 4},
		Style: StyleConfig{
			Fill:   "#0000ff",
			Stroke: "#ff0000",
			Shape:  types.ShapeCircle,
		},
		Body: BodyConfig{
			Mass:            100,
			AngularVelocity: 1,
		},
		Physics: PhysicsConfig{
			FixedStep:   1.0 / 60.0,
			MaxSubSteps: 5,
		},
	}
}

// LoadBrushConfig 加载画刷配置
//
// 从指定路径加载 YAML 格式的配置文件。未出现在文件中的字段保留默认值。
//
// 参数:
//   - path: 配置文件路径（如 "data/brush.yaml"）
//
// 返回:
//   - *BrushConfig: 加载成功后的配置结构
//   - error: 加载失败时返回错误
func LoadBrushConfig(path string) (*BrushConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brush config: %w", err)
	}
	return ParseBrushConfig(data)
}

// ParseBrushConfig 解析 YAML 数据（用于嵌入资源）
func ParseBrushConfig(data []byte) (*BrushConfig, error) {
	config := DefaultBrushConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse brush config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid brush config: %w", err)
	}

	return config, nil
}

// Validate 验证配置有效性
//
// 检查配置值是否在合理范围内：
//   - 所有形状尺寸必须为正
//   - 变形系数下限 >= 0 且不大于上限，倍率不能为负
//   - 掩码延迟、描边宽度不能为负
//   - 刚体质量与物理步长必须为正
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *BrushConfig) Validate() error {
	if c.Shapes.Circle.Radius <= 0 {
		return fmt.Errorf("circle radius must be > 0, got %.1f", c.Shapes.Circle.Radius)
	}
	if err := c.Shapes.Box.validate("box"); err != nil {
		return err
	}
	if err := c.Shapes.Square.validate("square"); err != nil {
		return err
	}

	d := c.Deformation
	if d.Multiplier < 0 {
		return fmt.Errorf("deformation multiplier must be >= 0, got %f", d.Multiplier)
	}
	if d.MinFactor <= 0 || d.MinFactor > d.MaxFactor {
		return fmt.Errorf("deformation factor range invalid: min(%.2f) max(%.2f)", d.MinFactor, d.MaxFactor)
	}

	if c.Collision.MaskDelayMs < 0 {
		return fmt.Errorf("collision mask delay must be >= 0, got %d", c.Collision.MaskDelayMs)
	}
	if c.Render.LineWidth < 0 {
		return fmt.Errorf("line width must be >= 0, got %.1f", c.Render.LineWidth)
	}
	if !c.Style.Shape.Valid() {
		return fmt.Errorf("default shape %v: %w", c.Style.Shape, types.ErrInvalidShapeType)
	}
	if c.Body.Mass <= 0 {
		return fmt.Errorf("body mass must be > 0, got %.1f", c.Body.Mass)
	}
	if c.Physics.FixedStep <= 0 {
		return fmt.Errorf("physics fixed step must be > 0, got %f", c.Physics.FixedStep)
	}
	if c.Physics.MaxSubSteps <= 0 {
		return fmt.Errorf("physics max sub steps must be > 0, got %d", c.Physics.MaxSubSteps)
	}

	return nil
}

func (r RectSize) validate(name string) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%s size must be positive, got %.1fx%.1f", name, r.Width, r.Height)
	}
	return nil
}

// RectSizeFor 返回矩形形状的默认尺寸
//
// 参数:
//   - shape: ShapeBox 或 ShapeSquare
//
// 返回:
//   - RectSize: 对应尺寸
//   - bool: 形状不是矩形时返回 false
func (s ShapesConfig) RectSizeFor(shape types.ShapeType) (RectSize, bool) {
	switch shape {
	case types.ShapeBox:
		return s.Box, true
	case types.ShapeSquare:
		return s.Square, true
	}
	return RectSize{}, false
}
