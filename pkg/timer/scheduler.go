// Package timer 提供帧驱动的协作式延迟任务队列
//
// 所有任务都在驱动方调用 Advance 的线程上执行，不会阻塞渲染路径。
// 其他 goroutine（如图片解码）只能通过 Post 把回调投递回帧循环。
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// Task 一个已调度的延迟任务
type Task struct {
	id        uint64
	due       time.Duration
	fn        func()
	queue     *taskQueue
	index     int
	cancelled bool
	done      bool
}

// Cancel 取消尚未执行的任务，并立即将其移出调度队列
//
// 只能在帧循环（调用 Advance 的线程）上调用。
//
// 返回:
//   - bool: 任务此前处于等待状态并被成功取消时返回 true
func (t *Task) Cancel() bool {
	if t == nil || t.done || t.cancelled {
		return false
	}
	t.cancelled = true
	if t.queue != nil && t.index >= 0 {
		heap.Remove(t.queue, t.index)
	}
	return true
}

// Pending 任务是否仍在等待执行
func (t *Task) Pending() bool {
	return t != nil && !t.done && !t.cancelled
}

// Due 任务的到期时间（相对调度器起点）
func (t *Task) Due() time.Duration {
	return t.due
}

// Scheduler 协作式定时器队列
//
// 时间只随 Advance 前进；同一时刻到期的任务按调度顺序执行。
type Scheduler struct {
	now    time.Duration
	nextID uint64
	queue  taskQueue

	mu     sync.Mutex
	posted []func()
}

// NewScheduler 创建调度器
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now 当前调度器时间
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After 在 delay 之后执行 fn
//
// 参数:
//   - delay: 相对当前调度器时间的延迟，负值按 0 处理
//   - fn: 到期时执行的回调
//
// 返回:
//   - *Task: 可用于取消的任务句柄
func (s *Scheduler) After(delay time.Duration, fn func()) *Task {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	t := &Task{id: s.nextID, due: s.now + delay, fn: fn, queue: &s.queue}
	heap.Push(&s.queue, t)
	return t
}

// Post 从任意 goroutine 投递一个回调，在下一次 Advance 开头执行
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

// Pending 等待中的定时任务数量
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Advance 推进时间并执行所有到期任务
//
// 参数:
//   - dt: 本帧经过的时间
//
// 返回:
//   - int: 本次执行的回调数量（含投递回调）
func (s *Scheduler) Advance(dt time.Duration) int {
	ran := s.drainPosted()

	if dt > 0 {
		s.now += dt
	}

	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.due > s.now {
			break
		}
		heap.Pop(&s.queue)
		next.done = true
		next.fn()
		ran++
	}
	return ran
}

func (s *Scheduler) drainPosted() int {
	s.mu.Lock()
	posted := s.posted
	s.posted = nil
	s.mu.Unlock()

	for _, fn := range posted {
		fn()
	}
	return len(posted)
}

// taskQueue 按 (due, id) 排序的最小堆
type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].id < q[j].id
	}
	return q[i].due < q[j].due
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
