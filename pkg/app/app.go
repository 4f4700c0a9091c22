// Package app 提供画刷演示程序的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gonewx/brushes/pkg/brush"
	"github.com/gonewx/brushes/pkg/config"
	"github.com/gonewx/brushes/pkg/embedded"
	"github.com/gonewx/brushes/pkg/game"
	"github.com/gonewx/brushes/pkg/mirror"
	"github.com/gonewx/brushes/pkg/physics"
	"github.com/gonewx/brushes/pkg/scenes"
	"github.com/gonewx/brushes/pkg/timer"
	"github.com/gonewx/brushes/pkg/types"
)

// 逻辑屏幕尺寸
const (
	ScreenWidth  = 800
	ScreenHeight = 600
)

// 默认资源路径
const (
	DefaultConfigPath = "data/brush.yaml"
	DefaultImage      = "assets/images/brush.png"
)

// kickSpeed 按空格时给画刷的速度上限
const kickSpeed = 400

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 画刷配置文件；为空时使用嵌入的 data/brush.yaml
	ConfigPath string
	// MirrorURL 非空时把本地画刷的修改发送到该 WebSocket 地址
	MirrorURL string
	// ListenAddr 非空时在该地址接收远端画刷事件并显示副本
	ListenAddr string
	// Image 按 I 键时使用的填充图片
	Image string
}

// App 画刷演示程序，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	scene        *scenes.BrushScene
	owned        *brush.Brush
	wsMirror     *mirror.WebSocketMirror
	server       *http.Server
	cancel       context.CancelFunc

	image string
	hue   float64
	rng   *rand.Rand
}

// NewApp 创建并初始化演示程序
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	brushCfg, err := loadBrushConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("画刷配置加载失败: %w", err)
	}

	gdataManager, err := game.OpenStorage("brushes")
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, style will not persist: %v", err)
		gdataManager = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		sceneManager: game.NewSceneManager(),
		cancel:       cancel,
		image:        cfg.Image,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if a.image == "" {
		a.image = DefaultImage
	}

	// 本地画刷的事件先进入分发器，再由订阅者写日志、转发到远端
	dispatcher := mirror.NewDispatcher()
	dispatcher.SubscribeAll(mirror.ListenerFunc(func(ev mirror.Event) {
		log.Printf("[App] %s: %s(%s)", ev.BrushID, ev.Name, ev.Payload)
	}))
	if cfg.MirrorURL != "" {
		dialCtx, dialCancel := context.WithTimeout(ctx, 5*time.Second)
		a.wsMirror, err = mirror.DialWebSocketMirror(dialCtx, cfg.MirrorURL)
		dialCancel()
		if err != nil {
			cancel()
			return nil, err
		}
		ws := a.wsMirror
		dispatcher.SubscribeAll(mirror.ListenerFunc(func(ev mirror.Event) {
			if err := ws.Emit(ev); err != nil {
				log.Printf("[App] Failed to forward %s: %v", ev.Name, err)
			}
		}))
	}

	scheduler := timer.NewScheduler()
	a.scene = scenes.NewBrushScene(scenes.BrushSceneOptions{
		Config:    brushCfg,
		Width:     ScreenWidth,
		Height:    ScreenHeight,
		Scheduler: scheduler,
		Images:    game.NewImageLoader(embedded.FS(), scheduler),
		Mirror:    dispatcher,
		Store:     game.NewStyleStore(gdataManager),
	})
	a.sceneManager.SwitchTo(a.scene)

	_, a.owned, err = a.scene.Spawn(brush.Options{
		Own:      true,
		Position: mgl64.Vec2{ScreenWidth / 2, ScreenHeight / 2},
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.kick(a.owned)

	if cfg.ListenAddr != "" {
		if err := a.listen(ctx, cfg.ListenAddr); err != nil {
			a.Close()
			return nil, err
		}
	}

	log.Printf("[App] Brush %s ready (mirror=%q listen=%q)", a.owned.ID(), cfg.MirrorURL, cfg.ListenAddr)
	return a, nil
}

func loadBrushConfig(path string) (*config.BrushConfig, error) {
	if path != "" {
		return config.LoadBrushConfig(path)
	}
	data, err := embedded.ReadFile(DefaultConfigPath)
	if err != nil {
		log.Printf("[App] Embedded brush config unavailable, using defaults: %v", err)
		return config.DefaultBrushConfig(), nil
	}
	return config.ParseBrushConfig(data)
}

// listen 启动接收远端事件的 WebSocket 服务
//
// 读取在连接协程中进行，事件经 Scheduler.Post 回到帧循环后再修改画刷。
func (a *App) listen(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	scheduler := a.scene.Scheduler()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[App] Upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		log.Printf("[App] Peer connected from %s", r.RemoteAddr)

		err = mirror.Listen(ctx, conn, func(ev mirror.Event) {
			scheduler.Post(func() { a.applyRemote(ev) })
		})
		if err != nil {
			log.Printf("[App] Peer %s disconnected: %v", r.RemoteAddr, err)
		}
	})

	a.server = &http.Server{Handler: mux}
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[App] Mirror server stopped: %v", err)
		}
	}()
	log.Printf("[App] Listening for mirror events on %s", ln.Addr())
	return nil
}

// applyRemote 在帧循环中应用远端事件，首次出现的画刷 ID 会生成副本
//
// 没有画刷 ID 的事件无法路由到副本，直接丢弃。
func (a *App) applyRemote(ev mirror.Event) {
	if ev.BrushID == "" {
		log.Printf("[App] ignoring event without brush id: %s", ev.Name)
		return
	}
	if _, ok := a.scene.Find(ev.BrushID); !ok {
		pos := mgl64.Vec2{
			ScreenWidth * (0.2 + 0.6*a.rng.Float64()),
			ScreenHeight * (0.2 + 0.6*a.rng.Float64()),
		}
		_, b, err := a.scene.Spawn(brush.Options{ID: ev.BrushID, Position: pos})
		if err != nil {
			log.Printf("[App] Failed to spawn replica %s: %v", ev.BrushID, err)
			return
		}
		a.kick(b)
	}
	a.scene.Replica().Handle(ev)
}

// kick 给画刷一个随机速度
func (a *App) kick(b *brush.Brush) {
	body, ok := b.Body().(*physics.ChipmunkBody)
	if !ok {
		return
	}
	angle := a.rng.Float64() * 2 * math.Pi
	speed := kickSpeed * (0.5 + 0.5*a.rng.Float64())
	body.SetVelocity(mgl64.Rotate2D(angle).Mul2x1(mgl64.Vec2{speed, 0}))
}

// nextColor 沿色相环取下一个颜色
func (a *App) nextColor() string {
	a.hue = float64(int(a.hue+47) % 360)
	return colorful.Hsv(a.hue, 0.75, 0.95).Hex()
}

// Update 更新逻辑，每个 tick 调用一次（通常每秒 60 次）
//
// 按键：1/2/3 切换圆形/长方形/正方形，F 换填充色，S 换描边色，
// I 使用填充图片，空格给画刷一个随机速度，F11 切换全屏。
func (a *App) Update() error {
	a.handleInput()

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) handleInput() {
	shapeKeys := map[ebiten.Key]types.ShapeType{
		ebiten.Key1: types.ShapeCircle,
		ebiten.Key2: types.ShapeBox,
		ebiten.Key3: types.ShapeSquare,
	}
	for key, shape := range shapeKeys {
		if inpututil.IsKeyJustPressed(key) {
			a.report(a.owned.SetShapeType(shape))
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		a.report(a.owned.SetFillStyle(a.nextColor()))
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		a.report(a.owned.SetStrokeStyle(a.nextColor()))
	case inpututil.IsKeyJustPressed(ebiten.KeyI):
		a.report(a.owned.SetFillImage(a.image))
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		a.kick(a.owned)
	case inpututil.IsKeyJustPressed(ebiten.KeyF11):
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
}

func (a *App) report(err error) {
	if err != nil {
		log.Printf("[App] Command failed: %v", err)
	}
}

// Draw 绘制画面，每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 240, G: 240, B: 235, A: 255})
	a.sceneManager.Draw(screen)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Close 保存外观并关闭网络连接，可重复调用
func (a *App) Close() {
	if a.sceneManager != nil {
		a.sceneManager.SaveOnExit()
	}
	a.cancel()
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			log.Printf("[App] Mirror server shutdown: %v", err)
		}
		a.server = nil
	}
	if a.wsMirror != nil {
		if err := a.wsMirror.Close(); err != nil {
			log.Printf("[App] Mirror close: %v", err)
		}
		a.wsMirror = nil
	}
}
