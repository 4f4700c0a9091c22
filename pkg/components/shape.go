package components

import (
	"github.com/gonewx/brushes/pkg/timer"
	"github.com/gonewx/brushes/pkg/types"
)

// ShapeComponent 画刷当前的形状状态
//
// 不变式：
//   - Geometry 的种类与 Type 一致（Box/Square 都是 *BoxShape）
//   - 只要 Geometry 不为 nil，Baseline 就是本次分配时捕获的快照
//   - Generation 每次分配形状时递增，用于识别过期的延迟任务
type ShapeComponent struct {
	Type       types.ShapeType
	Geometry   Geometry
	Baseline   ShapeBaseline
	Generation uint64

	// Factor 最近一次应用的变形系数
	Factor float64

	// MaskTask 当前分配对应的碰撞掩码放开任务，可为 nil
	MaskTask *timer.Task
}

// Circle 返回圆形几何体，非圆形时返回 nil
func (s *ShapeComponent) Circle() *CircleShape {
	c, _ := s.Geometry.(*CircleShape)
	return c
}

// Box 返回矩形几何体，非矩形时返回 nil
func (s *ShapeComponent) Box() *BoxShape {
	b, _ := s.Geometry.(*BoxShape)
	return b
}
