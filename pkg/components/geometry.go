package components

import "github.com/go-gl/mathgl/mgl64"

// GeometryKind 物理几何体的种类
//
// Box 与 Square 共用矩形几何体，只有默认尺寸不同。
type GeometryKind int

const (
	// GeometryCircle 圆形几何体
	GeometryCircle GeometryKind = iota
	// GeometryBox 矩形（四顶点凸多边形）几何体
	GeometryBox
)

// Geometry 挂载到物理刚体上的几何体
//
// 具体实现只有 *CircleShape 与 *BoxShape。
// 派生缓存（三角剖分、质心、包围半径、面积）通过下面的能力接口按需刷新，
// 不是每种几何体都提供全部能力。
type Geometry interface {
	Kind() GeometryKind
	// Filter 返回可修改的碰撞过滤参数
	Filter() *CollisionFilter
	// Revision 在每次尺寸或缓存变化后递增，物理适配层据此同步引擎侧形状
	Revision() uint64
}

// TriangleUpdater 可重新计算三角剖分的几何体
type TriangleUpdater interface {
	UpdateTriangles()
}

// CenterOfMassUpdater 可重新计算质心的几何体
type CenterOfMassUpdater interface {
	UpdateCenterOfMass()
}

// BoundingRadiusUpdater 可重新计算包围半径的几何体
type BoundingRadiusUpdater interface {
	UpdateBoundingRadius()
}

// AreaUpdater 可重新计算面积的几何体
type AreaUpdater interface {
	UpdateArea()
}

// shapeBase 几何体公共字段
type shapeBase struct {
	filter   CollisionFilter
	revision uint64
}

func (b *shapeBase) Filter() *CollisionFilter { return &b.filter }

func (b *shapeBase) Revision() uint64 { return b.revision }

func (b *shapeBase) touch() { b.revision++ }

// ShapeBaseline 形状分配时捕获的未变形尺寸快照
//
// 创建后不可修改；变形总是相对于基线计算，而不是相对于上一帧。
// 顶点在构造时复制，不与几何体共享底层数组。
type ShapeBaseline struct {
	kind     GeometryKind
	radius   float64
	width    float64
	height   float64
	vertices []mgl64.Vec2
}

// NewCircleBaseline 创建圆形基线
func NewCircleBaseline(radius float64) ShapeBaseline {
	return ShapeBaseline{kind: GeometryCircle, radius: radius}
}

// NewBoxBaseline 从矩形几何体捕获基线（复制顶点）
func NewBoxBaseline(box *BoxShape) ShapeBaseline {
	vertices := make([]mgl64.Vec2, len(box.Vertices))
	copy(vertices, box.Vertices)
	return ShapeBaseline{
		kind:     GeometryBox,
		width:    box.Width,
		height:   box.Height,
		vertices: vertices,
	}
}

// Kind 基线对应的几何体种类
func (b ShapeBaseline) Kind() GeometryKind { return b.kind }

// Radius 基线半径（仅圆形有效）
func (b ShapeBaseline) Radius() float64 { return b.radius }

// Width 基线宽度（仅矩形有效）
func (b ShapeBaseline) Width() float64 { return b.width }

// Height 基线高度（仅矩形有效）
func (b ShapeBaseline) Height() float64 { return b.height }

// VertexCount 基线顶点数量
func (b ShapeBaseline) VertexCount() int { return len(b.vertices) }

// Vertex 返回第 i 个基线顶点（值拷贝）
func (b ShapeBaseline) Vertex(i int) mgl64.Vec2 { return b.vertices[i] }

// Vertices 返回基线顶点的副本
func (b ShapeBaseline) Vertices() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(b.vertices))
	copy(out, b.vertices)
	return out
}
