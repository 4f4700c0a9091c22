package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/gonewx/brushes/pkg/components"
)

// 存储路径常量
const (
	styleObject   = "brush"
	styleProperty = "style"
)

// StyleStore 保存玩家上一次使用的画刷外观
//
// 数据以 YAML 格式存放在 gdata 中。gdataManager 为 nil 时进入降级模式：
// 只在内存中保存，Save 不报错。
type StyleStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式）
	snapshot     *components.StyleSnapshot
}

// NewStyleStore 创建外观存储并尝试加载已保存的快照
//
// 加载失败不是致命错误，记录日志后从空快照开始。
func NewStyleStore(gdataManager *gdata.Manager) *StyleStore {
	s := &StyleStore{gdataManager: gdataManager}
	if err := s.Load(); err != nil {
		log.Printf("[StyleStore] Warning: Failed to load style: %v (starting empty)", err)
	}
	return s
}

// Load 从 gdata 加载快照
//
// 返回:
//   - error: 读取或反序列化失败
func (s *StyleStore) Load() error {
	s.snapshot = nil
	if s.gdataManager == nil {
		return nil
	}
	if !s.gdataManager.ObjectPropExists(styleObject, styleProperty) {
		return nil
	}

	data, err := s.gdataManager.LoadObjectProp(styleObject, styleProperty)
	if err != nil {
		return fmt.Errorf("failed to load style: %w", err)
	}

	var snapshot components.StyleSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to unmarshal style: %w", err)
	}

	s.snapshot = &snapshot
	log.Printf("[StyleStore] Style loaded: shape=%s fill=%s", snapshot.ShapeType, snapshot.Fill)
	return nil
}

// Snapshot 返回已保存的快照
//
// 返回:
//   - components.StyleSnapshot: 快照副本
//   - bool: 是否存在快照
func (s *StyleStore) Snapshot() (components.StyleSnapshot, bool) {
	if s.snapshot == nil {
		return components.StyleSnapshot{}, false
	}
	return *s.snapshot, true
}

// Save 更新快照并写入 gdata
//
// 降级模式下只更新内存。
func (s *StyleStore) Save(snapshot components.StyleSnapshot) error {
	s.snapshot = &snapshot
	if s.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal style: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(styleObject, styleProperty, data); err != nil {
		return fmt.Errorf("failed to save style: %w", err)
	}

	log.Printf("[StyleStore] Style saved")
	return nil
}
