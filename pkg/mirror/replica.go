package mirror

import (
	"fmt"
	"log"
	"sync"
)

// Applier 可以应用远端事件的对象（非拥有者画刷）
type Applier interface {
	ApplyRemote(ev Event) error
}

// Replica 按画刷 ID 把远端事件路由到本地副本
type Replica struct {
	mu      sync.RWMutex
	targets map[string]Applier
}

// NewReplica 创建副本路由
func NewReplica() *Replica {
	return &Replica{targets: make(map[string]Applier)}
}

// Bind 注册副本
func (r *Replica) Bind(id string, target Applier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets[id] = target
}

// Unbind 移除副本
func (r *Replica) Unbind(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.targets, id)
}

// Len 已注册副本数
func (r *Replica) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.targets)
}

// Apply 把事件应用到对应副本
//
// 返回:
//   - error: 没有对应副本，或副本拒绝该事件
func (r *Replica) Apply(ev Event) error {
	r.mu.RLock()
	target, ok := r.targets[ev.BrushID]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no replica for brush %q", ev.BrushID)
	}
	if err := target.ApplyRemote(ev); err != nil {
		return fmt.Errorf("apply %s to %s: %w", ev.Name, ev.BrushID, err)
	}
	return nil
}

// Handle 与 Listen 的 sink 签名一致，失败只记录日志
func (r *Replica) Handle(ev Event) {
	if err := r.Apply(ev); err != nil {
		log.Printf("[Replica] %v", err)
	}
}
