// Package mirror 画刷状态镜像
//
// 拥有者画刷的每次外观/形状修改都会以 Event 的形式发给 Mirror，
// 由具体实现决定去向：本地分发、记录，或经 WebSocket 发给远端副本。
package mirror

import "errors"

// ErrClosed 镜像已关闭
var ErrClosed = errors.New("mirror closed")

// EventName 镜像事件名称
type EventName string

const (
	EventSetFillStyle   EventName = "setFillStyle"
	EventSetStrokeStyle EventName = "setStrokeStyle"
	EventSetFillImage   EventName = "setFillImage"
	EventSetShapeType   EventName = "setShapeType"
)

// AllEventNames 返回所有已知事件名称
func AllEventNames() []EventName {
	return []EventName{EventSetFillStyle, EventSetStrokeStyle, EventSetFillImage, EventSetShapeType}
}

// Known 是否为已知事件
func (n EventName) Known() bool {
	switch n {
	case EventSetFillStyle, EventSetStrokeStyle, EventSetFillImage, EventSetShapeType:
		return true
	}
	return false
}

// Event 一次状态修改
//
// Payload 是新值的文本形式：颜色为 CSS 字符串，图片为来源路径，形状为 "CIRCLE"/"BOX"/"SQUARE"。
type Event struct {
	BrushID string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name    EventName `json:"type" yaml:"type"`
	Payload string    `json:"data" yaml:"data"`
}

// Mirror 事件接收方
type Mirror interface {
	Emit(ev Event) error
}

// Func 把普通函数适配为 Mirror
type Func func(ev Event) error

// Emit 调用函数本身
func (f Func) Emit(ev Event) error {
	return f(ev)
}
