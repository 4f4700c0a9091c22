package ecs

import (
	"reflect"
	"slices"
)

// EntityID 是实体的唯一标识符，0 保留为无效 ID
type EntityID uint64

// EntityManager 管理实体及其组件
//
// 组件按具体类型存放，每个实体每种类型最多一个组件。
// 删除是延迟的：DestroyEntity 只做标记，RemoveMarkedEntities 在帧末统一清理，
// 这样系统在遍历实体时可以安全地请求删除。
type EntityManager struct {
	nextID     uint64
	components map[EntityID]map[reflect.Type]any
	marked     []EntityID
	onRemove   []func(EntityID)
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:     1,
		components: make(map[EntityID]map[reflect.Type]any),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]any)
	return id
}

// Alive 实体是否存在（已标记但未清理的实体仍然存在）
func (em *EntityManager) Alive(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// Count 实体数量
func (em *EntityManager) Count() int {
	return len(em.components)
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	if !em.Alive(id) || slices.Contains(em.marked, id) {
		return
	}
	em.marked = append(em.marked, id)
}

// OnRemove 注册实体被清理前的回调，用于释放组件持有的外部资源
func (em *EntityManager) OnRemove(fn func(EntityID)) {
	em.onRemove = append(em.onRemove, fn)
}

// RemoveMarkedEntities 清理所有标记删除的实体
//
// 返回:
//   - int: 清理的实体数量
func (em *EntityManager) RemoveMarkedEntities() int {
	n := 0
	for _, id := range em.marked {
		if !em.Alive(id) {
			continue
		}
		for _, fn := range em.onRemove {
			fn(id)
		}
		delete(em.components, id)
		n++
	}
	em.marked = em.marked[:0]
	return n
}

// Entities 按 ID 升序返回所有实体
func (em *EntityManager) Entities() []EntityID {
	ids := make([]EntityID, 0, len(em.components))
	for id := range em.components {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EntitiesWith 按 ID 升序返回同时拥有所有指定组件类型的实体
func (em *EntityManager) EntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)
	for id, compMap := range em.components {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}

func (em *EntityManager) set(id EntityID, t reflect.Type, component any) bool {
	compMap, exists := em.components[id]
	if !exists {
		return false
	}
	compMap[t] = component
	return true
}

func (em *EntityManager) get(id EntityID, t reflect.Type) (any, bool) {
	compMap, exists := em.components[id]
	if !exists {
		return nil, false
	}
	comp, found := compMap[t]
	return comp, found
}

// AddComponent 为实体添加组件，同类型组件会被替换
//
// 返回:
//   - bool: 实体不存在时返回 false
func AddComponent[T any](em *EntityManager, id EntityID, component T) bool {
	return em.set(id, reflect.TypeFor[T](), component)
}

// GetComponent 获取实体的 T 类型组件
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	comp, found := em.get(id, reflect.TypeFor[T]())
	if !found {
		var zero T
		return zero, false
	}
	return comp.(T), true
}

// HasComponent 检查实体是否拥有 T 类型组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	_, found := em.get(id, reflect.TypeFor[T]())
	return found
}

// RemoveComponent 移除实体的 T 类型组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, reflect.TypeFor[T]())
	}
}

// Query 按 ID 升序返回拥有 T 类型组件的实体
func Query[T any](em *EntityManager) []EntityID {
	return em.EntitiesWith(reflect.TypeFor[T]())
}
