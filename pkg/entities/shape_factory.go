package entities

import (
	"fmt"

	"github.com/gonewx/brushes/pkg/components"
	"github.com/gonewx/brushes/pkg/config"
	"github.com/gonewx/brushes/pkg/types"
)

// ShapeFactory 根据形状类型构造几何体并捕获基线
//
// 尺寸来自 config.ShapesConfig（默认 Circle r=50，Box 100×50，Square 75×75）。
// 工厂只负责构造；挂载到刚体和碰撞掩码调度由画刷完成。
type ShapeFactory struct {
	shapes config.ShapesConfig
}

// NewShapeFactory 创建形状工厂
//
// 参数:
//   - shapes: 形状尺寸配置
//
// 返回:
//   - *ShapeFactory: 工厂实例
func NewShapeFactory(shapes config.ShapesConfig) *ShapeFactory {
	return &ShapeFactory{shapes: shapes}
}

// Create 构造指定形状的几何体
//
// Box/Square 的基线会复制四个角点，之后几何体顶点被变形修改也不会影响基线。
// 新几何体的碰撞分组已设为 CollisionBrush，掩码为空。
//
// 参数:
//   - shape: 形状类型
//
// 返回:
//   - components.Geometry: 新几何体
//   - components.ShapeBaseline: 未变形尺寸快照
//   - error: 形状未知时返回包装了 types.ErrInvalidShapeType 的错误
func (f *ShapeFactory) Create(shape types.ShapeType) (components.Geometry, components.ShapeBaseline, error) {
	var (
		geometry components.Geometry
		baseline components.ShapeBaseline
	)

	switch shape {
	case types.ShapeCircle:
		circle := components.NewCircleShape(f.shapes.Circle.Radius)
		geometry = circle
		baseline = components.NewCircleBaseline(circle.Radius)
	case types.ShapeBox, types.ShapeSquare:
		size, _ := f.shapes.RectSizeFor(shape)
		box := components.NewBoxShape(size.Width, size.Height)
		geometry = box
		baseline = components.NewBoxBaseline(box)
	default:
		return nil, components.ShapeBaseline{}, fmt.Errorf("create shape %d: %w", int(shape), types.ErrInvalidShapeType)
	}

	*geometry.Filter() = components.CollisionFilter{
		Group: components.CollisionBrush,
		Mask:  components.CollisionNone,
	}
	return geometry, baseline, nil
}
