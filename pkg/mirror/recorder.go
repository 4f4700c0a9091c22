package mirror

import "sync"

// Recorder 记录收到的所有事件
//
// Err 不为 nil 时 Emit 仍然记录事件，但返回该错误（模拟发送失败）。
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

// NewRecorder 创建记录器
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit 记录事件
func (r *Recorder) Emit(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.Err
}

// Events 返回已记录事件的副本
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count 统计指定名称的事件数
func (r *Recorder) Count(name EventName) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Name == name {
			n++
		}
	}
	return n
}

// Reset 清空记录
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
