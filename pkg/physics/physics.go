// Package physics 定义画刷依赖的刚体物理接口，并提供基于 Chipmunk2D (cp) 的实现
package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/brushes/pkg/components"
)

// Body 画刷持有的刚体句柄（不拥有刚体生命周期）
type Body interface {
	Mass() float64
	Position() mgl64.Vec2
	Angle() float64
	AngularVelocity() float64
	Velocity() mgl64.Vec2

	// InterpolatedPosition 在两次模拟步之间插值的位置，仅用于渲染
	InterpolatedPosition() mgl64.Vec2
	// InterpolatedAngle 在两次模拟步之间插值的角度，仅用于渲染
	InterpolatedAngle() float64

	// AddShape 挂载几何体
	AddShape(g components.Geometry)
	// RemoveShape 卸载几何体；未挂载时忽略
	RemoveShape(g components.Geometry)
	// Shapes 当前挂载的几何体
	Shapes() []components.Geometry
}

// BodyDef 创建刚体的参数
type BodyDef struct {
	Mass            float64
	Position        mgl64.Vec2
	Angle           float64
	AngularVelocity float64
	Velocity        mgl64.Vec2
}

// World 物理世界
type World interface {
	CreateBody(def BodyDef) Body
	RemoveBody(b Body)
	// Update 推进 dt 秒（内部按固定步长细分）
	Update(dt float64)
}
