package mirror

// Listener 事件订阅者
type Listener interface {
	OnEvent(ev Event)
}

// ListenerFunc 把普通函数适配为 Listener
type ListenerFunc func(ev Event)

// OnEvent 调用函数本身
func (f ListenerFunc) OnEvent(ev Event) { f(ev) }

// Dispatcher 进程内事件分发器
//
// 按事件名称把事件转发给订阅者，本身实现 Mirror，可以直接挂到画刷上。
// 非并发安全：只在帧循环内使用。
type Dispatcher struct {
	listeners map[EventName][]Listener
	all       []Listener
}

// NewDispatcher 创建分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[EventName][]Listener),
	}
}

// Subscribe 订阅指定名称的事件
func (d *Dispatcher) Subscribe(name EventName, l Listener) {
	d.listeners[name] = append(d.listeners[name], l)
}

// SubscribeAll 订阅所有事件
func (d *Dispatcher) SubscribeAll(l Listener) {
	d.all = append(d.all, l)
}

// Unsubscribe 取消订阅
//
// ListenerFunc 不可比较，只能通过 Unsubscribe 移除可比较的 Listener（例如指针）。
func (d *Dispatcher) Unsubscribe(name EventName, l Listener) {
	d.listeners[name] = removeListener(d.listeners[name], l)
}

// UnsubscribeAll 取消 SubscribeAll 的订阅
func (d *Dispatcher) UnsubscribeAll(l Listener) {
	d.all = removeListener(d.all, l)
}

// Dispatch 把事件发给订阅者，先发指定名称的订阅者，再发全量订阅者
func (d *Dispatcher) Dispatch(ev Event) {
	for _, l := range d.listeners[ev.Name] {
		l.OnEvent(ev)
	}
	for _, l := range d.all {
		l.OnEvent(ev)
	}
}

// Emit 实现 Mirror，分发不会失败
func (d *Dispatcher) Emit(ev Event) error {
	d.Dispatch(ev)
	return nil
}

func removeListener(listeners []Listener, l Listener) []Listener {
	for i, existing := range listeners {
		if existing == l {
			return append(listeners[:i:i], listeners[i+1:]...)
		}
	}
	return listeners
}
