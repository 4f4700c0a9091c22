package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/brushes/pkg/components"
	"github.com/gonewx/brushes/pkg/config"
)

// DeformationSystem 根据刚体速度计算变形系数并作用到几何体
//
// 变形总是相对于 ShapeComponent.Baseline，而不是上一帧的尺寸，
// 因此尺寸始终等于 基线尺寸 × 系数，不会累积误差。
type DeformationSystem struct {
	cfg config.DeformationConfig
}

// NewDeformationSystem 创建变形系统
func NewDeformationSystem(cfg config.DeformationConfig) *DeformationSystem {
	return &DeformationSystem{cfg: cfg}
}

// ComputeFactor 由速度计算变形系数
//
// factor = clamp(|vx + vy| × multiplier, min, max)
//
// 注意这里使用分量的有符号和而不是速度大小：斜向运动时 vx 与 vy 可能相互抵消。
// 这是既有行为，保持不变。
//
// 参数:
//   - velocity: 刚体线速度
//
// 返回:
//   - float64: 位于 [MinFactor, MaxFactor] 的系数
func (s *DeformationSystem) ComputeFactor(velocity mgl64.Vec2) float64 {
	factor := math.Abs((velocity.X() + velocity.Y()) * s.cfg.Multiplier)
	if math.IsNaN(factor) || factor < s.cfg.MinFactor {
		return s.cfg.MinFactor
	}
	if factor > s.cfg.MaxFactor {
		return s.cfg.MaxFactor
	}
	return factor
}

// ApplyFactor 按系数缩放几何体并刷新派生缓存
//
//   - 圆形：radius = 基线半径 × factor
//   - 矩形：width/height 与每个顶点 = 基线值 × factor
//
// 系数与上次相同时不做任何修改，几何体 Revision 保持不变。
//
// 参数:
//   - shape: 形状组件（Geometry 为 nil 时忽略）
//   - factor: 变形系数
func (s *DeformationSystem) ApplyFactor(shape *components.ShapeComponent, factor float64) {
	if shape.Geometry != nil && factor == shape.Factor {
		return
	}
	baseline := shape.Baseline

	switch geo := shape.Geometry.(type) {
	case *components.CircleShape:
		geo.Radius = baseline.Radius() * factor
	case *components.BoxShape:
		geo.Width = baseline.Width() * factor
		geo.Height = baseline.Height() * factor
		for i := range geo.Vertices {
			if i >= baseline.VertexCount() {
				break
			}
			geo.Vertices[i] = baseline.Vertex(i).Mul(factor)
		}
	default:
		return
	}

	shape.Factor = factor
	RefreshCaches(shape.Geometry)
}

// Update 计算系数并应用，返回本次使用的系数
func (s *DeformationSystem) Update(shape *components.ShapeComponent, velocity mgl64.Vec2) float64 {
	factor := s.ComputeFactor(velocity)
	s.ApplyFactor(shape, factor)
	return factor
}

// RefreshCaches 刷新几何体支持的派生缓存
//
// 只调用几何体实际实现的能力接口；缺少某种缓存不是错误。
func RefreshCaches(g components.Geometry) {
	if g == nil {
		return
	}
	if u, ok := g.(components.TriangleUpdater); ok {
		u.UpdateTriangles()
	}
	if u, ok := g.(components.CenterOfMassUpdater); ok {
		u.UpdateCenterOfMass()
	}
	if u, ok := g.(components.BoundingRadiusUpdater); ok {
		u.UpdateBoundingRadius()
	}
	if u, ok := g.(components.AreaUpdater); ok {
		u.UpdateArea()
	}
}
