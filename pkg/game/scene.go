package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个可独立更新和绘制的场景
type Scene interface {
	// Update 推进场景逻辑，deltaTime 单位为秒
	Update(deltaTime float64)

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：场景在程序退出时保存状态
//
// 返回 false 表示保存失败（程序仍会正常退出）。
type Saveable interface {
	SaveOnExit() bool
}
