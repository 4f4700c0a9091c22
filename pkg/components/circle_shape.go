package components

import "math"

// CircleShape 圆形几何体
//
// 圆形只提供包围半径和面积两种缓存，没有三角剖分与质心。
type CircleShape struct {
	shapeBase

	Radius float64

	boundingRadius float64
	area           float64
}

// NewCircleShape 创建指定半径的圆形，并立即计算缓存
func NewCircleShape(radius float64) *CircleShape {
	c := &CircleShape{Radius: radius}
	c.UpdateBoundingRadius()
	c.UpdateArea()
	return c
}

// Kind 实现 Geometry
func (c *CircleShape) Kind() GeometryKind { return GeometryCircle }

// UpdateBoundingRadius 实现 BoundingRadiusUpdater
func (c *CircleShape) UpdateBoundingRadius() {
	c.boundingRadius = c.Radius
	c.touch()
}

// UpdateArea 实现 AreaUpdater
func (c *CircleShape) UpdateArea() {
	c.area = math.Pi * c.Radius * c.Radius
	c.touch()
}

// BoundingRadius 最近一次刷新的包围半径
func (c *CircleShape) BoundingRadius() float64 { return c.boundingRadius }

// Area 最近一次刷新的面积
func (c *CircleShape) Area() float64 { return c.area }
