package physics

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/gonewx/brushes/pkg/components"
)

// ChipmunkWorld 基于 cp.Space 的物理世界
//
// 采用固定步长推进，剩余时间用于计算渲染插值系数，
// 因此 InterpolatedPosition/InterpolatedAngle 在模拟步之间平滑过渡。
type ChipmunkWorld struct {
	space       *cp.Space
	fixedStep   float64
	maxSubSteps int
	accumulator float64
	bodies      []*ChipmunkBody
}

// NewChipmunkWorld 创建物理世界
//
// 参数:
//   - fixedStep: 固定步长（秒）
//   - maxSubSteps: 单次 Update 最多执行的步数
//
// 返回:
//   - *ChipmunkWorld: 无重力的物理世界
func NewChipmunkWorld(fixedStep float64, maxSubSteps int) *ChipmunkWorld {
	if maxSubSteps <= 0 {
		maxSubSteps = 1
	}
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	return &ChipmunkWorld{
		space:       space,
		fixedStep:   fixedStep,
		maxSubSteps: maxSubSteps,
	}
}

// Space 底层 cp.Space，用于场景搭建（静态边界等）
func (w *ChipmunkWorld) Space() *cp.Space {
	return w.space
}

// SetGravity 设置重力
func (w *ChipmunkWorld) SetGravity(g mgl64.Vec2) {
	w.space.SetGravity(toVector(g))
}

// AddStaticSegment 添加静态线段边界
//
// 参数:
//   - a, b: 线段端点
//   - radius: 线段厚度的一半
//   - filter: 碰撞过滤参数（通常 Group 为 CollisionPlanes）
func (w *ChipmunkWorld) AddStaticSegment(a, b mgl64.Vec2, radius float64, filter components.CollisionFilter) {
	seg := cp.NewSegment(w.space.StaticBody, toVector(a), toVector(b), radius)
	seg.SetElasticity(0.9)
	seg.SetFriction(0.5)
	seg.SetFilter(toShapeFilter(filter))
	w.space.AddShape(seg)
}

// CreateBody 实现 World
func (w *ChipmunkWorld) CreateBody(def BodyDef) Body {
	mass := def.Mass
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, cp.INFINITY)
	body.SetPosition(toVector(def.Position))
	body.SetAngle(def.Angle)
	body.SetAngularVelocity(def.AngularVelocity)
	body.SetVelocity(def.Velocity.X(), def.Velocity.Y())
	w.space.AddBody(body)

	b := &ChipmunkBody{
		world:     w,
		body:      body,
		shapes:    make(map[components.Geometry]*boundShape),
		prevPos:   def.Position,
		prevAngle: def.Angle,
		alpha:     1,
	}
	w.bodies = append(w.bodies, b)
	return b
}

// RemoveBody 实现 World：移除刚体及其所有形状
func (w *ChipmunkWorld) RemoveBody(b Body) {
	cb, ok := b.(*ChipmunkBody)
	if !ok {
		return
	}
	for g := range cb.shapes {
		cb.RemoveShape(g)
	}
	w.space.RemoveBody(cb.body)
	for i, other := range w.bodies {
		if other == cb {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
}

// Update 实现 World
func (w *ChipmunkWorld) Update(dt float64) {
	if dt <= 0 || w.fixedStep <= 0 {
		return
	}
	w.accumulator += dt

	steps := 0
	for w.accumulator >= w.fixedStep {
		if steps >= w.maxSubSteps {
			// 丢弃积压时间，避免卡顿后持续追帧
			w.accumulator = 0
			break
		}
		for _, b := range w.bodies {
			b.beforeStep()
		}
		w.space.Step(w.fixedStep)
		w.accumulator -= w.fixedStep
		steps++
	}

	alpha := w.accumulator / w.fixedStep
	for _, b := range w.bodies {
		b.alpha = alpha
	}
}

// boundShape 几何体与引擎侧形状的绑定
type boundShape struct {
	shape    *cp.Shape
	revision uint64
	filter   components.CollisionFilter
}

// ChipmunkBody cp.Body 的 Body 实现
type ChipmunkBody struct {
	world  *ChipmunkWorld
	body   *cp.Body
	shapes map[components.Geometry]*boundShape
	order  []components.Geometry

	prevPos   mgl64.Vec2
	prevAngle float64
	alpha     float64
}

// Raw 底层 cp.Body
func (b *ChipmunkBody) Raw() *cp.Body { return b.body }

func (b *ChipmunkBody) Mass() float64 { return b.body.Mass() }

func (b *ChipmunkBody) Position() mgl64.Vec2 { return fromVector(b.body.Position()) }

func (b *ChipmunkBody) Angle() float64 { return b.body.Angle() }

func (b *ChipmunkBody) AngularVelocity() float64 { return b.body.AngularVelocity() }

func (b *ChipmunkBody) Velocity() mgl64.Vec2 { return fromVector(b.body.Velocity()) }

// SetVelocity 设置线速度
func (b *ChipmunkBody) SetVelocity(v mgl64.Vec2) { b.body.SetVelocity(v.X(), v.Y()) }

func (b *ChipmunkBody) InterpolatedPosition() mgl64.Vec2 {
	cur := b.Position()
	return b.prevPos.Add(cur.Sub(b.prevPos).Mul(b.alpha))
}

func (b *ChipmunkBody) InterpolatedAngle() float64 {
	return b.prevAngle + (b.Angle()-b.prevAngle)*b.alpha
}

func (b *ChipmunkBody) AddShape(g components.Geometry) {
	if g == nil {
		return
	}
	if _, exists := b.shapes[g]; exists {
		return
	}
	bound := &boundShape{}
	b.shapes[g] = bound
	b.order = append(b.order, g)
	b.rebuild(g, bound)
}

func (b *ChipmunkBody) RemoveShape(g components.Geometry) {
	bound, ok := b.shapes[g]
	if !ok {
		return
	}
	if bound.shape != nil {
		b.world.space.RemoveShape(bound.shape)
	}
	delete(b.shapes, g)
	for i, other := range b.order {
		if other == g {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

func (b *ChipmunkBody) Shapes() []components.Geometry {
	out := make([]components.Geometry, len(b.order))
	copy(out, b.order)
	return out
}

// beforeStep 记录插值起点，并把几何体的尺寸/过滤参数同步到引擎
func (b *ChipmunkBody) beforeStep() {
	b.prevPos = b.Position()
	b.prevAngle = b.Angle()
	b.SyncShapes()
}

// SyncShapes 同步几何体变化：尺寸变化时重建形状，过滤参数每次都覆盖
func (b *ChipmunkBody) SyncShapes() {
	for _, g := range b.order {
		bound := b.shapes[g]
		if bound.revision != g.Revision() {
			b.rebuild(g, bound)
			continue
		}
		b.applyFilter(g, bound)
	}
}

func (b *ChipmunkBody) rebuild(g components.Geometry, bound *boundShape) {
	if bound.shape != nil {
		b.world.space.RemoveShape(bound.shape)
	}

	var shape *cp.Shape
	mass := b.body.Mass()
	switch geo := g.(type) {
	case *components.CircleShape:
		shape = cp.NewCircle(b.body, geo.Radius, cp.Vector{})
		b.body.SetMoment(cp.MomentForCircle(mass, 0, geo.Radius, cp.Vector{}))
	case *components.BoxShape:
		shape = cp.NewBox(b.body, geo.Width, geo.Height, 0)
		b.body.SetMoment(cp.MomentForBox(mass, geo.Width, geo.Height))
	default:
		log.Printf("[Physics] Warning: unsupported geometry %T", g)
		bound.shape = nil
		return
	}

	shape.SetElasticity(0.8)
	shape.SetFriction(0.4)
	bound.shape = shape
	bound.revision = g.Revision()
	b.applyFilter(g, bound)
	b.world.space.AddShape(shape)
}

func (b *ChipmunkBody) applyFilter(g components.Geometry, bound *boundShape) {
	bound.filter = *g.Filter()
	bound.shape.SetFilter(toShapeFilter(bound.filter))
}

func toShapeFilter(f components.CollisionFilter) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, uint(f.Group), uint(f.Mask))
}

func toVector(v mgl64.Vec2) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Y()}
}

func fromVector(v cp.Vector) mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}
