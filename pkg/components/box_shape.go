package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoxShape 以原点为中心的矩形几何体
//
// 顶点按逆时针顺序排列：左下、右下、右上、左上。
// 作为凸多边形，它提供全部四种派生缓存。
type BoxShape struct {
	shapeBase

	Width    float64
	Height   float64
	Vertices []mgl64.Vec2

	triangles      [][3]int
	centerOfMass   mgl64.Vec2
	boundingRadius float64
	area           float64
}

// NewBoxShape 创建指定宽高的矩形，并立即计算缓存
func NewBoxShape(width, height float64) *BoxShape {
	b := &BoxShape{
		Width:    width,
		Height:   height,
		Vertices: BoxVertices(width, height),
	}
	b.UpdateTriangles()
	b.UpdateCenterOfMass()
	b.UpdateBoundingRadius()
	b.UpdateArea()
	return b
}

// BoxVertices 返回以原点为中心、给定宽高的四个角点
func BoxVertices(width, height float64) []mgl64.Vec2 {
	hw, hh := width/2, height/2
	return []mgl64.Vec2{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	}
}

// Kind 实现 Geometry
func (b *BoxShape) Kind() GeometryKind { return GeometryBox }

// UpdateTriangles 扇形三角剖分（凸多边形）
func (b *BoxShape) UpdateTriangles() {
	b.triangles = b.triangles[:0]
	for i := 1; i+1 < len(b.Vertices); i++ {
		b.triangles = append(b.triangles, [3]int{0, i, i + 1})
	}
	b.touch()
}

// UpdateCenterOfMass 按三角形面积加权计算质心
func (b *BoxShape) UpdateCenterOfMass() {
	var centroid mgl64.Vec2
	var total float64
	for _, tri := range b.triangleList() {
		a, c, d := b.Vertices[tri[0]], b.Vertices[tri[1]], b.Vertices[tri[2]]
		area := triangleArea(a, c, d)
		centroid = centroid.Add(a.Add(c).Add(d).Mul(area / 3))
		total += area
	}
	if total != 0 {
		centroid = centroid.Mul(1 / total)
	}
	b.centerOfMass = centroid
	b.touch()
}

// UpdateBoundingRadius 取离原点最远的顶点距离
func (b *BoxShape) UpdateBoundingRadius() {
	var r float64
	for _, v := range b.Vertices {
		r = math.Max(r, v.Len())
	}
	b.boundingRadius = r
	b.touch()
}

// UpdateArea 三角形面积之和
func (b *BoxShape) UpdateArea() {
	var total float64
	for _, tri := range b.triangleList() {
		total += math.Abs(triangleArea(b.Vertices[tri[0]], b.Vertices[tri[1]], b.Vertices[tri[2]]))
	}
	b.area = total
	b.touch()
}

// Triangles 最近一次刷新的三角剖分（顶点索引）
func (b *BoxShape) Triangles() [][3]int { return b.triangles }

// CenterOfMass 最近一次刷新的质心
func (b *BoxShape) CenterOfMass() mgl64.Vec2 { return b.centerOfMass }

// BoundingRadius 最近一次刷新的包围半径
func (b *BoxShape) BoundingRadius() float64 { return b.boundingRadius }

// Area 最近一次刷新的面积
func (b *BoxShape) Area() float64 { return b.area }

// triangleList 优先使用缓存的剖分，缺失时按扇形临时生成
func (b *BoxShape) triangleList() [][3]int {
	if len(b.triangles) > 0 {
		return b.triangles
	}
	tris := make([][3]int, 0, len(b.Vertices))
	for i := 1; i+1 < len(b.Vertices); i++ {
		tris = append(tris, [3]int{0, i, i + 1})
	}
	return tris
}

// triangleArea 有向面积（逆时针为正）
func triangleArea(a, b, c mgl64.Vec2) float64 {
	return 0.5 * ((b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1]))
}
