package canvas

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// solidSource 三角形绘制使用的纯白纹理，首次绘制时才创建
func solidSource() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// surfaceState 可保存/恢复的绘图状态
type surfaceState struct {
	geoM      ebiten.GeoM
	fill      color.Color
	stroke    color.Color
	lineWidth float64
	clips     []*vector.Path
}

// EbitenSurface 基于 ebiten 图片的 Surface 实现
//
// 路径点在追加时就乘上当前变换矩阵，因此路径始终保存在目标图片坐标系中。
// 裁剪通过离屏图片 + DestinationIn 混合实现。
//
// 注意：Arc 假设变换只包含平移和旋转（以及均匀缩放），这与画刷渲染管线的用法一致。
type EbitenSurface struct {
	dst   *ebiten.Image
	state surfaceState
	stack []surfaceState
	path  *vector.Path

	vertices []ebiten.Vertex
	indices  []uint16

	images    map[image.Image]*ebiten.Image
	offscreen *ebiten.Image
	mask      *ebiten.Image
}

// NewEbitenSurface 创建绘制到 dst 的表面
//
// 参数:
//   - dst: 目标图片（通常是 Draw 回调中的 screen）
//
// 返回:
//   - *EbitenSurface: 初始状态为单位矩阵、黑色填充/描边、线宽 1
func NewEbitenSurface(dst *ebiten.Image) *EbitenSurface {
	return &EbitenSurface{
		dst: dst,
		state: surfaceState{
			fill:      color.Black,
			stroke:    color.Black,
			lineWidth: 1,
		},
		path:   &vector.Path{},
		images: make(map[image.Image]*ebiten.Image),
	}
}

// SetTarget 切换绘制目标（复用图片缓存与顶点缓冲）
func (s *EbitenSurface) SetTarget(dst *ebiten.Image) {
	s.dst = dst
	s.stack = s.stack[:0]
	s.state.geoM.Reset()
	s.state.clips = nil
	s.path = &vector.Path{}
}

func (s *EbitenSurface) BeginPath() {
	s.path = &vector.Path{}
}

func (s *EbitenSurface) Arc(x, y, radius, startAngle, endAngle float64) {
	cx, cy := s.state.geoM.Apply(x, y)
	rotation, scale := s.rotationScale()
	s.path.Arc(float32(cx), float32(cy), float32(radius*scale),
		float32(startAngle+rotation), float32(endAngle+rotation), vector.Clockwise)
}

func (s *EbitenSurface) Rect(x, y, width, height float64) {
	corners := [4][2]float64{
		{x, y},
		{x + width, y},
		{x + width, y + height},
		{x, y + height},
	}
	for i, c := range corners {
		px, py := s.state.geoM.Apply(c[0], c[1])
		if i == 0 {
			s.path.MoveTo(float32(px), float32(py))
		} else {
			s.path.LineTo(float32(px), float32(py))
		}
	}
	s.path.Close()
}

func (s *EbitenSurface) Clip() {
	clips := make([]*vector.Path, len(s.state.clips), len(s.state.clips)+1)
	copy(clips, s.state.clips)
	s.state.clips = append(clips, s.path)
}

func (s *EbitenSurface) DrawImage(img image.Image, x, y, width, height float64) {
	src := s.ebitenImage(img)
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM = s.imageGeoM(b, x, y, width, height)
	op.Filter = ebiten.FilterLinear

	s.drawClipped(func(target *ebiten.Image) {
		target.DrawImage(src, op)
	})
}

func (s *EbitenSurface) Fill() {
	s.buildFill()
	s.drawTriangles()
}

func (s *EbitenSurface) Stroke() {
	s.buildStroke()
	s.drawTriangles()
}

// buildFill 把当前路径三角化为填充顶点
func (s *EbitenSurface) buildFill() {
	s.vertices, s.indices = s.path.AppendVerticesAndIndicesForFilling(s.vertices[:0], s.indices[:0])
	colorize(s.vertices, s.state.fill)
}

// buildStroke 按当前线宽生成描边顶点
func (s *EbitenSurface) buildStroke() {
	s.vertices, s.indices = s.path.AppendVerticesAndIndicesForStroke(s.vertices[:0], s.indices[:0], &vector.StrokeOptions{
		Width:    float32(s.state.lineWidth),
		LineJoin: vector.LineJoinRound,
	})
	colorize(s.vertices, s.state.stroke)
}

// imageGeoM 把 bounds 大小的图片拉伸到 (x, y, width, height) 并叠加当前变换
func (s *EbitenSurface) imageGeoM(bounds image.Rectangle, x, y, width, height float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(width/float64(bounds.Dx()), height/float64(bounds.Dy()))
	m.Translate(x, y)
	m.Concat(s.state.geoM)
	return m
}

func (s *EbitenSurface) Save() {
	s.stack = append(s.stack, s.state)
}

func (s *EbitenSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *EbitenSurface) Translate(x, y float64) {
	var t ebiten.GeoM
	t.Translate(x, y)
	t.Concat(s.state.geoM)
	s.state.geoM = t
}

func (s *EbitenSurface) Rotate(angle float64) {
	var r ebiten.GeoM
	r.Rotate(angle)
	r.Concat(s.state.geoM)
	s.state.geoM = r
}

func (s *EbitenSurface) SetFillColor(c color.Color) { s.state.fill = c }

func (s *EbitenSurface) SetStrokeColor(c color.Color) { s.state.stroke = c }

func (s *EbitenSurface) SetLineWidth(width float64) { s.state.lineWidth = width }

// rotationScale 从当前变换矩阵提取旋转角与缩放
func (s *EbitenSurface) rotationScale() (rotation, scale float64) {
	x0, y0 := s.state.geoM.Apply(0, 0)
	x1, y1 := s.state.geoM.Apply(1, 0)
	return math.Atan2(y1-y0, x1-x0), math.Hypot(x1-x0, y1-y0)
}

// colorize 让顶点采样纯白纹理中心并着色
func colorize(vs []ebiten.Vertex, clr color.Color) {
	r, g, b, a := clr.RGBA()
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
}

// clipTriangles 裁剪路径的白色遮罩顶点
func clipTriangles(clip *vector.Path) ([]ebiten.Vertex, []uint16) {
	vs, is := clip.AppendVerticesAndIndicesForFilling(nil, nil)
	colorize(vs, color.White)
	return vs, is
}

func (s *EbitenSurface) drawTriangles() {
	vs, is := s.vertices, s.indices
	s.drawClipped(func(target *ebiten.Image) {
		target.DrawTriangles(vs, is, solidSource(), &ebiten.DrawTrianglesOptions{
			AntiAlias: true,
		})
	})
}

// drawClipped 没有裁剪区域时直接绘制，否则先画到离屏图片再按裁剪路径抠图
func (s *EbitenSurface) drawClipped(draw func(target *ebiten.Image)) {
	if len(s.state.clips) == 0 {
		draw(s.dst)
		return
	}

	bounds := s.dst.Bounds()
	s.offscreen = ensureImage(s.offscreen, bounds)
	s.mask = ensureImage(s.mask, bounds)
	s.offscreen.Clear()
	draw(s.offscreen)

	for _, clip := range s.state.clips {
		s.mask.Clear()
		vs, is := clipTriangles(clip)
		s.mask.DrawTriangles(vs, is, solidSource(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
		s.offscreen.DrawImage(s.mask, &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationIn})
	}

	s.dst.DrawImage(s.offscreen, nil)
}

// ebitenImage 把任意 image.Image 转为 ebiten 图片并缓存
func (s *EbitenSurface) ebitenImage(img image.Image) *ebiten.Image {
	if eimg, ok := img.(*ebiten.Image); ok {
		return eimg
	}
	if cached, ok := s.images[img]; ok {
		return cached
	}
	eimg := ebiten.NewImageFromImage(img)
	s.images[img] = eimg
	return eimg
}

func ensureImage(img *ebiten.Image, bounds image.Rectangle) *ebiten.Image {
	if img != nil && img.Bounds().Dx() == bounds.Dx() && img.Bounds().Dy() == bounds.Dy() {
		return img
	}
	if img != nil {
		img.Deallocate()
	}
	return ebiten.NewImage(bounds.Dx(), bounds.Dy())
}
