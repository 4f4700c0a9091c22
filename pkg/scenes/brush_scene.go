package scenes

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/brushes/pkg/brush"
	"github.com/gonewx/brushes/pkg/canvas"
	"github.com/gonewx/brushes/pkg/components"
	"github.com/gonewx/brushes/pkg/config"
	"github.com/gonewx/brushes/pkg/ecs"
	"github.com/gonewx/brushes/pkg/game"
	"github.com/gonewx/brushes/pkg/mirror"
	"github.com/gonewx/brushes/pkg/physics"
	"github.com/gonewx/brushes/pkg/timer"
)

// wallRadius 边界线段的碰撞半径
const wallRadius = 2

// BrushSceneOptions 创建画刷场景的参数
type BrushSceneOptions struct {
	// Config 为 nil 时使用 config.DefaultBrushConfig()
	Config *config.BrushConfig
	// Width/Height 大于 0 时在四周生成静态边界
	Width, Height float64

	// Scheduler 为 nil 时场景自己创建；图片加载器需要同一个定时器时由调用方传入
	Scheduler *timer.Scheduler
	// Images 画刷填充图片加载器，可为 nil
	Images brush.ImageSource
	// Mirror 本地拥有的画刷使用的镜像，可为 nil
	Mirror mirror.Mirror
	// Store 本地拥有的画刷外观存档，可为 nil
	Store *game.StyleStore
}

// BrushScene 画刷场景
//
// 每帧：推进物理世界，推进协作定时器（掩码放开、图片回调），清理已删除的实体，
// 然后按实体 ID 顺序渲染所有画刷。
// 非拥有的画刷会注册到 Replica，远端事件经 Replica 路由到对应画刷。
type BrushScene struct {
	cfg       *config.BrushConfig
	world     *physics.ChipmunkWorld
	scheduler *timer.Scheduler
	entities  *ecs.EntityManager
	replica   *mirror.Replica
	surface   *canvas.EbitenSurface

	images brush.ImageSource
	mirror mirror.Mirror
	store  *game.StyleStore
}

// NewBrushScene 创建画刷场景
func NewBrushScene(opts BrushSceneOptions) *BrushScene {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultBrushConfig()
	}

	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = timer.NewScheduler()
	}

	s := &BrushScene{
		cfg:       cfg,
		world:     physics.NewChipmunkWorld(cfg.Physics.FixedStep, cfg.Physics.MaxSubSteps),
		scheduler: scheduler,
		entities:  ecs.NewEntityManager(),
		replica:   mirror.NewReplica(),
		surface:   canvas.NewEbitenSurface(nil),
		images:    opts.Images,
		mirror:    opts.Mirror,
		store:     opts.Store,
	}
	s.entities.OnRemove(s.release)

	if opts.Width > 0 && opts.Height > 0 {
		s.addWalls(opts.Width, opts.Height)
	}
	return s
}

func (s *BrushScene) addWalls(w, h float64) {
	filter := components.CollisionFilter{
		Group: components.CollisionPlanes,
		Mask:  components.CollisionBrush,
	}
	corners := []mgl64.Vec2{{0, 0}, {w, 0}, {w, h}, {0, h}}
	for i := range corners {
		s.world.AddStaticSegment(corners[i], corners[(i+1)%len(corners)], wallRadius, filter)
	}
}

// Spawn 创建画刷实体
//
// opts 中的 World、Scheduler、Config、Images 由场景填充；
// 本地拥有的画刷在未指定 Mirror 时使用场景镜像，并恢复存档中的外观。
// 非拥有的画刷注册为远端副本。
//
// 返回:
//   - ecs.EntityID: 实体 ID
//   - *brush.Brush: 新画刷
//   - error: 画刷创建失败
func (s *BrushScene) Spawn(opts brush.Options) (ecs.EntityID, *brush.Brush, error) {
	opts.World = s.world
	opts.Scheduler = s.scheduler
	opts.Config = s.cfg
	if opts.Images == nil {
		opts.Images = s.images
	}
	if opts.Own && opts.Mirror == nil {
		opts.Mirror = s.mirror
	}

	b, err := brush.New(opts)
	if err != nil {
		return 0, nil, fmt.Errorf("spawn brush: %w", err)
	}

	id := s.entities.CreateEntity()
	ecs.AddComponent(s.entities, id, b)

	if b.Own() {
		s.restoreStyle(b)
	} else {
		s.replica.Bind(b.ID(), b)
	}

	log.Printf("[BrushScene] Spawned brush %s (entity %d, own=%v)", b.ID(), id, b.Own())
	return id, b, nil
}

func (s *BrushScene) restoreStyle(b *brush.Brush) {
	if s.store == nil {
		return
	}
	snapshot, ok := s.store.Snapshot()
	if !ok {
		return
	}
	cmds, err := brush.CommandsFromSnapshot(snapshot)
	if err != nil {
		log.Printf("[BrushScene] Warning: ignoring saved style: %v", err)
		return
	}
	for _, cmd := range cmds {
		if _, _, err := b.Execute(cmd); err != nil {
			log.Printf("[BrushScene] Warning: failed to restore %T: %v", cmd, err)
		}
	}
}

// Get 返回实体上的画刷
func (s *BrushScene) Get(id ecs.EntityID) (*brush.Brush, bool) {
	return ecs.GetComponent[*brush.Brush](s.entities, id)
}

// Find 按画刷 ID 查找实体
func (s *BrushScene) Find(brushID string) (ecs.EntityID, bool) {
	for _, id := range ecs.Query[*brush.Brush](s.entities) {
		if b, _ := s.Get(id); b.ID() == brushID {
			return id, true
		}
	}
	return 0, false
}

// Brushes 按实体 ID 顺序返回所有画刷
func (s *BrushScene) Brushes() []*brush.Brush {
	ids := ecs.Query[*brush.Brush](s.entities)
	out := make([]*brush.Brush, 0, len(ids))
	for _, id := range ids {
		b, _ := s.Get(id)
		out = append(out, b)
	}
	return out
}

// Despawn 标记删除画刷实体，在下一次 Update 末尾销毁
func (s *BrushScene) Despawn(id ecs.EntityID) {
	s.entities.DestroyEntity(id)
}

func (s *BrushScene) release(id ecs.EntityID) {
	b, ok := s.Get(id)
	if !ok {
		return
	}
	if !b.Own() {
		s.replica.Unbind(b.ID())
	}
	b.Destroy()
	log.Printf("[BrushScene] Removed brush %s (entity %d)", b.ID(), id)
}

// Update 实现 game.Scene
func (s *BrushScene) Update(deltaTime float64) {
	s.world.Update(deltaTime)
	s.scheduler.Advance(time.Duration(deltaTime * float64(time.Second)))
	s.entities.RemoveMarkedEntities()
}

// Render 把所有画刷绘制到任意 Surface
func (s *BrushScene) Render(surface canvas.Surface) {
	for _, b := range s.Brushes() {
		b.Render(surface)
	}
}

// Draw 实现 game.Scene
func (s *BrushScene) Draw(screen *ebiten.Image) {
	s.surface.SetTarget(screen)
	s.Render(s.surface)
}

// SaveOnExit 实现 game.Saveable：保存第一个本地拥有画刷的外观
func (s *BrushScene) SaveOnExit() bool {
	if s.store == nil {
		return true
	}
	for _, b := range s.Brushes() {
		if !b.Own() {
			continue
		}
		if err := s.store.Save(b.Snapshot()); err != nil {
			log.Printf("[BrushScene] Failed to save style: %v", err)
			return false
		}
		return true
	}
	return true
}

// Replica 远端事件路由
func (s *BrushScene) Replica() *mirror.Replica { return s.replica }

// Scheduler 场景的协作定时器
func (s *BrushScene) Scheduler() *timer.Scheduler { return s.scheduler }

// World 场景的物理世界
func (s *BrushScene) World() *physics.ChipmunkWorld { return s.world }
