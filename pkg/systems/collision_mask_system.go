package systems

import (
	"time"

	"github.com/gonewx/brushes/pkg/components"
	"github.com/gonewx/brushes/pkg/timer"
)

// CollisionMaskSystem 形状分配后的碰撞掩码错峰启用
//
// 新形状立即归入 CollisionBrush 分组且掩码为空（不与任何物体碰撞），
// 延迟到期后掩码放开为 Brush|Planes|Particles，避免刚生成或刚改变尺寸的形状
// 与静态边界、粒子产生瞬时的错误碰撞。
//
// 每次分配都会取消上一次未执行的任务；任务执行时还会校验分配代数，
// 过期任务不会修改新形状的掩码。
type CollisionMaskSystem struct {
	scheduler *timer.Scheduler
	delay     time.Duration
	settled   components.CollisionGroup
}

// NewCollisionMaskSystem 创建碰撞掩码系统
//
// 参数:
//   - scheduler: 协作式定时器
//   - delay: 放开掩码前的延迟
func NewCollisionMaskSystem(scheduler *timer.Scheduler, delay time.Duration) *CollisionMaskSystem {
	return &CollisionMaskSystem{
		scheduler: scheduler,
		delay:     delay,
		settled:   components.CollisionBrushDefaultMask,
	}
}

// Schedule 为刚分配的形状设置分组并调度掩码放开
//
// 调用前 shape.Generation 必须已经递增为本次分配的代数。
// 分组设置在任务入队之前完成。
func (s *CollisionMaskSystem) Schedule(shape *components.ShapeComponent) {
	s.Cancel(shape)
	if shape.Geometry == nil {
		return
	}

	filter := shape.Geometry.Filter()
	filter.Group = components.CollisionBrush
	filter.Mask = components.CollisionNone

	generation := shape.Generation
	geometry := shape.Geometry
	shape.MaskTask = s.scheduler.After(s.delay, func() {
		if shape.Generation != generation || shape.Geometry != geometry {
			return
		}
		geometry.Filter().Mask = s.settled
		shape.MaskTask = nil
	})
}

// Cancel 取消形状上尚未执行的掩码任务
func (s *CollisionMaskSystem) Cancel(shape *components.ShapeComponent) {
	if shape.MaskTask != nil {
		shape.MaskTask.Cancel()
		shape.MaskTask = nil
	}
}
