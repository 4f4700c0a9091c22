package components

// CollisionGroup 碰撞分组位集
//
// 与物理引擎的 category/mask 语义一致：
// 两个几何体只有在 (A.Group & B.Mask) != 0 且 (B.Group & A.Mask) != 0 时才会碰撞。
type CollisionGroup uint32

// CollisionNone 空集：不与任何分组碰撞
const CollisionNone CollisionGroup = 0

const (
	// CollisionBrush 画刷自身的分组
	CollisionBrush CollisionGroup = 1 << iota
	// CollisionPlanes 静态边界（地面、墙体）
	CollisionPlanes
	// CollisionParticles 粒子
	CollisionParticles
)

// CollisionBrushDefaultMask 画刷稳定后的碰撞掩码
const CollisionBrushDefaultMask = CollisionBrush | CollisionPlanes | CollisionParticles

// Has 判断位集是否包含指定分组
func (g CollisionGroup) Has(other CollisionGroup) bool {
	return g&other == other
}

// CollisionFilter 几何体的碰撞过滤参数
type CollisionFilter struct {
	Group CollisionGroup // 自身所属分组
	Mask  CollisionGroup // 可碰撞的分组集合
}

// Collides 判断两个过滤器是否允许碰撞
func (f CollisionFilter) Collides(other CollisionFilter) bool {
	return f.Group&other.Mask != 0 && other.Group&f.Mask != 0
}
