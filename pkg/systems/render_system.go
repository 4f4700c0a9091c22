package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/brushes/pkg/canvas"
	"github.com/gonewx/brushes/pkg/components"
)

// Pose 渲染使用的位姿（来自刚体的插值位置与角度）
type Pose struct {
	Position mgl64.Vec2
	Angle    float64
}

// RenderSystem 画刷渲染管线
//
// 每次调用都重新构造路径，不跨帧缓存：形状尺寸和朝向每帧都可能变化。
//
// 绘制顺序：
//  1. BeginPath，Save，平移到位置并旋转
//  2. 设置描边色，追加形状路径（圆弧或以原点为中心的矩形）
//  3. 已加载填充图片：圆形先裁剪再绘制拉伸到 2r×2r 的图片；矩形直接拉伸到 w×h
//  4. 没有图片：设置填充色并填充
//  5. 设置线宽，描边，Restore
type RenderSystem struct {
	lineWidth float64
}

// NewRenderSystem 创建渲染系统
//
// 参数:
//   - lineWidth: 描边宽度（默认配置为 4）
func NewRenderSystem(lineWidth float64) *RenderSystem {
	return &RenderSystem{lineWidth: lineWidth}
}

// Draw 绘制一个画刷
//
// shape.Geometry 为 nil 时只执行变换的保存/恢复，不绘制任何内容。
func (s *RenderSystem) Draw(surface canvas.Surface, pose Pose, shape *components.ShapeComponent, style *components.StyleComponent) {
	surface.BeginPath()
	surface.Save()
	defer surface.Restore()

	surface.Translate(pose.Position.X(), pose.Position.Y())
	surface.Rotate(pose.Angle)
	surface.SetStrokeColor(style.Stroke)

	switch geo := shape.Geometry.(type) {
	case *components.CircleShape:
		s.drawCircle(surface, geo, style)
	case *components.BoxShape:
		s.drawRect(surface, geo, style)
	default:
		return
	}

	surface.SetLineWidth(s.lineWidth)
	surface.Stroke()
}

func (s *RenderSystem) drawCircle(surface canvas.Surface, circle *components.CircleShape, style *components.StyleComponent) {
	r := circle.Radius
	surface.Arc(0, 0, r, 0, 2*math.Pi)

	if style.HasFillImage() {
		surface.Clip()
		surface.DrawImage(style.FillImage, -r, -r, 2*r, 2*r)
		return
	}
	s.fill(surface, style)
}

func (s *RenderSystem) drawRect(surface canvas.Surface, box *components.BoxShape, style *components.StyleComponent) {
	w, h := box.Width, box.Height
	surface.Rect(-w/2, -h/2, w, h)

	if style.HasFillImage() {
		surface.DrawImage(style.FillImage, -w/2, -h/2, w, h)
		return
	}
	s.fill(surface, style)
}

func (s *RenderSystem) fill(surface canvas.Surface, style *components.StyleComponent) {
	surface.SetFillColor(style.Fill)
	surface.Fill()
}
