// Package brush 速度感应画刷实体
//
// 画刷把一个刚体、一个随速度变形的形状以及可选的状态镜像组合在一起：
//   - 形状切换通过 ShapeFactory 构造几何体，并错峰启用碰撞掩码
//   - 每帧 Render 先按刚体速度变形，再绘制到 canvas.Surface
//   - 外观和形状的修改以 Command 表示，执行后产生镜像事件
//
// 画刷不是并发安全的，所有方法都应在帧循环中调用；
// 异步图片加载的回调通过 timer.Scheduler 回到帧循环。
package brush

import (
	"fmt"
	"image"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/gonewx/brushes/pkg/canvas"
	"github.com/gonewx/brushes/pkg/components"
	"github.com/gonewx/brushes/pkg/config"
	"github.com/gonewx/brushes/pkg/entities"
	"github.com/gonewx/brushes/pkg/mirror"
	"github.com/gonewx/brushes/pkg/physics"
	"github.com/gonewx/brushes/pkg/systems"
	"github.com/gonewx/brushes/pkg/timer"
	"github.com/gonewx/brushes/pkg/types"
)

// ImageSource 异步图片加载器
//
// Load 必须立即返回；done 必须在帧循环中被调用（例如经 timer.Scheduler.Post 投递）。
type ImageSource interface {
	Load(src string, done func(img image.Image, err error))
}

// Options 创建画刷的参数
type Options struct {
	// ID 为空时生成随机 UUID
	ID string
	// Own 是否为本地拥有的画刷；非拥有的画刷只接受 ApplyRemote
	Own bool

	Position mgl64.Vec2
	Angle    float64

	World     physics.World
	Scheduler *timer.Scheduler
	// Mirror 可选
	Mirror mirror.Mirror
	// Images 可选；为 nil 时填充图片永远不会加载
	Images ImageSource
	// Config 为 nil 时使用 config.DefaultBrushConfig()
	Config *config.BrushConfig
}

// State 命令执行后的画刷状态
type State struct {
	ID          string
	Own         bool
	Shape       types.ShapeType
	Fill        string
	Stroke      string
	FillImage   string
	ImageLoaded bool
	Generation  uint64
}

// Brush 画刷实体
type Brush struct {
	id  string
	own bool

	world     physics.World
	body      physics.Body
	scheduler *timer.Scheduler
	mirror    mirror.Mirror
	images    ImageSource

	factory  *entities.ShapeFactory
	deform   *systems.DeformationSystem
	masks    *systems.CollisionMaskSystem
	renderer *systems.RenderSystem

	shape components.ShapeComponent
	style components.StyleComponent

	// imageGen 每次填充图片被替换或清除时递增，过期的加载结果被丢弃
	imageGen  uint64
	destroyed bool
}

// New 创建画刷并立即应用默认形状
//
// 刚体由 opts.World 创建（质量、角速度取自配置），画刷只持有句柄。
// 挂载了镜像时，默认形状会产生一次 setShapeType 事件。
//
// 参数:
//   - opts: 创建参数，World 和 Scheduler 必填
//
// 返回:
//   - *Brush: 新画刷
//   - error: 缺少必填参数或默认外观配置无效
func New(opts Options) (*Brush, error) {
	if opts.World == nil {
		return nil, ErrMissingWorld
	}
	if opts.Scheduler == nil {
		return nil, ErrMissingScheduler
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultBrushConfig()
	}

	fill, err := components.ParseColor(cfg.Style.Fill)
	if err != nil {
		return nil, fmt.Errorf("default fill: %w", err)
	}
	stroke, err := components.ParseColor(cfg.Style.Stroke)
	if err != nil {
		return nil, fmt.Errorf("default stroke: %w", err)
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	b := &Brush{
		id:        id,
		own:       opts.Own,
		world:     opts.World,
		scheduler: opts.Scheduler,
		mirror:    opts.Mirror,
		images:    opts.Images,
		factory:   entities.NewShapeFactory(cfg.Shapes),
		deform:    systems.NewDeformationSystem(cfg.Deformation),
		masks:     systems.NewCollisionMaskSystem(opts.Scheduler, cfg.Collision.MaskDelay()),
		renderer:  systems.NewRenderSystem(cfg.Render.LineWidth),
		style: components.StyleComponent{
			Fill:   fill,
			Stroke: stroke,
		},
	}

	b.body = opts.World.CreateBody(physics.BodyDef{
		Mass:            cfg.Body.Mass,
		Position:        opts.Position,
		Angle:           opts.Angle,
		AngularVelocity: cfg.Body.AngularVelocity,
	})

	if _, _, err := b.Execute(SetShapeType{Shape: cfg.Style.Shape}); err != nil && b.shape.Geometry == nil {
		opts.World.RemoveBody(b.body)
		return nil, fmt.Errorf("apply default shape: %w", err)
	}

	return b, nil
}

// Execute 执行命令
//
// 本地状态先同步更新；挂载了镜像时再发送事件。发送失败会记录日志并返回错误，
// 但本地状态保持更新后的值。
//
// 返回:
//   - State: 执行后的状态（失败时为未改变的状态）
//   - []mirror.Event: 本次修改产生的通知（无论是否挂载镜像）
//   - error: 命令无效，或镜像发送失败
func (b *Brush) Execute(cmd Command) (State, []mirror.Event, error) {
	if b.destroyed {
		return b.State(), nil, ErrDestroyed
	}

	ev, err := cmd.apply(b)
	if err != nil {
		return b.State(), nil, err
	}
	ev.BrushID = b.id
	events := []mirror.Event{ev}

	if b.mirror != nil {
		if err := b.mirror.Emit(ev); err != nil {
			log.Printf("[Brush] %s: failed to emit %s: %v", b.id, ev.Name, err)
			return b.State(), events, fmt.Errorf("emit %s: %w", ev.Name, err)
		}
	}
	return b.State(), events, nil
}

// SetFillStyle 设置填充色（清除填充图片）
func (b *Brush) SetFillStyle(color string) error {
	_, _, err := b.Execute(SetFillStyle{Color: color})
	return err
}

// SetStrokeStyle 设置描边色
func (b *Brush) SetStrokeStyle(color string) error {
	_, _, err := b.Execute(SetStrokeStyle{Color: color})
	return err
}

// SetFillImage 设置填充图片，立即返回
func (b *Brush) SetFillImage(src string) error {
	_, _, err := b.Execute(SetFillImage{Src: src})
	return err
}

// SetShapeType 切换形状
func (b *Brush) SetShapeType(shape types.ShapeType) error {
	_, _, err := b.Execute(SetShapeType{Shape: shape})
	return err
}

// ApplyRemote 应用远端镜像事件，不会再次发送
//
// 只有非拥有的画刷接受远端事件。
func (b *Brush) ApplyRemote(ev mirror.Event) error {
	if b.own {
		return ErrOwnedBrush
	}
	if b.destroyed {
		return ErrDestroyed
	}
	cmd, err := CommandFromEvent(ev)
	if err != nil {
		return err
	}
	_, err = cmd.apply(b)
	return err
}

// Render 按当前速度变形后绘制
func (b *Brush) Render(surface canvas.Surface) {
	if b.destroyed {
		return
	}
	b.deform.Update(&b.shape, b.body.Velocity())
	b.Draw(surface)
}

// Draw 以刚体插值位姿绘制当前形状，不做变形
func (b *Brush) Draw(surface canvas.Surface) {
	if b.destroyed {
		return
	}
	pose := systems.Pose{
		Position: b.body.InterpolatedPosition(),
		Angle:    b.body.InterpolatedAngle(),
	}
	b.renderer.Draw(surface, pose, &b.shape, &b.style)
}

// Destroy 卸载几何体、取消掩码任务并从物理世界移除刚体，可重复调用
func (b *Brush) Destroy() {
	if b.destroyed {
		return
	}
	b.masks.Cancel(&b.shape)
	if b.shape.Geometry != nil {
		b.body.RemoveShape(b.shape.Geometry)
	}
	b.world.RemoveBody(b.body)
	b.imageGen++
	b.destroyed = true
}

// ID 画刷标识
func (b *Brush) ID() string { return b.id }

// Own 是否为本地拥有
func (b *Brush) Own() bool { return b.own }

// Destroyed 是否已销毁
func (b *Brush) Destroyed() bool { return b.destroyed }

// Body 刚体句柄
func (b *Brush) Body() physics.Body { return b.body }

// Shape 当前形状组件，调用方不应修改
func (b *Brush) Shape() *components.ShapeComponent { return &b.shape }

// Style 当前外观
func (b *Brush) Style() components.StyleComponent { return b.style }

// SetMirror 更换镜像，nil 表示不再发送
func (b *Brush) SetMirror(m mirror.Mirror) { b.mirror = m }

// State 当前状态
func (b *Brush) State() State {
	return State{
		ID:          b.id,
		Own:         b.own,
		Shape:       b.shape.Type,
		Fill:        b.style.Fill.CSS,
		Stroke:      b.style.Stroke.CSS,
		FillImage:   b.style.FillImageSrc,
		ImageLoaded: b.style.HasFillImage(),
		Generation:  b.shape.Generation,
	}
}

// Snapshot 可存档的外观快照
func (b *Brush) Snapshot() components.StyleSnapshot {
	return components.StyleSnapshot{
		Fill:      b.style.Fill.CSS,
		Stroke:    b.style.Stroke.CSS,
		FillImage: b.style.FillImageSrc,
		ShapeType: b.shape.Type.String(),
	}
}

// assignShape 替换几何体
//
// 新几何体构造失败时不做任何修改。成功时依次：卸载旧几何体、记录基线并递增代数、
// 设置碰撞分组并调度掩码放开、挂载到刚体、刷新派生缓存。
func (b *Brush) assignShape(shape types.ShapeType) error {
	geometry, baseline, err := b.factory.Create(shape)
	if err != nil {
		return err
	}

	if old := b.shape.Geometry; old != nil {
		b.body.RemoveShape(old)
	}

	b.shape.Type = shape
	b.shape.Geometry = geometry
	b.shape.Baseline = baseline
	b.shape.Factor = 1
	b.shape.Generation++

	b.masks.Schedule(&b.shape)
	b.body.AddShape(geometry)
	systems.RefreshCaches(geometry)
	return nil
}

func (b *Brush) clearImage() {
	b.style.FillImageSrc = ""
	b.style.FillImage = nil
	b.imageGen++
}

func (b *Brush) loadImage(src string) {
	b.style.FillImageSrc = src
	b.style.FillImage = nil
	b.imageGen++

	if b.images == nil {
		log.Printf("[Brush] %s: no image loader, %s will not be drawn", b.id, src)
		return
	}

	gen := b.imageGen
	b.images.Load(src, func(img image.Image, err error) {
		if b.destroyed || gen != b.imageGen {
			return
		}
		if err != nil {
			log.Printf("[Brush] %s: failed to load fill image %s: %v", b.id, src, err)
			return
		}
		b.style.FillImage = img
	})
}
