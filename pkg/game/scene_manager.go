package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager 持有当前活动场景，只有它的 Update/Draw 会被调用
type SceneManager struct {
	currentScene Scene
}

// NewSceneManager 创建没有活动场景的管理器，使用 SwitchTo 设置初始场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo 切换活动场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Update 更新当前场景，deltaTime 单位为秒
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// SaveOnExit 当前场景实现 Saveable 时保存其状态
//
// 返回:
//   - bool: 没有场景、场景无需保存或保存成功时为 true
func (sm *SceneManager) SaveOnExit() bool {
	saveable, ok := sm.currentScene.(Saveable)
	if !ok {
		return true
	}
	if !saveable.SaveOnExit() {
		log.Printf("[SceneManager] Warning: scene failed to save on exit")
		return false
	}
	return true
}
