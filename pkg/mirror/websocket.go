package mirror

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketMirror 通过 WebSocket 连接发送镜像事件
//
// 每个事件编码为一个 JSON 文本帧：{"id": ..., "type": ..., "data": ...}。
// gorilla/websocket 的连接不支持并发写，Emit 内部加锁串行化。
type WebSocketMirror struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// NewWebSocketMirror 包装一个已建立的连接
func NewWebSocketMirror(conn *websocket.Conn) *WebSocketMirror {
	return &WebSocketMirror{conn: conn}
}

// DialWebSocketMirror 连接到镜像服务
//
// 参数:
//   - ctx: 控制握手超时
//   - url: ws:// 或 wss:// 地址
//
// 返回:
//   - *WebSocketMirror: 已连接的镜像
//   - error: 握手失败
func DialWebSocketMirror(ctx context.Context, url string) (*WebSocketMirror, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial mirror %s: %w", url, err)
	}
	log.Printf("[WSMirror] connected to %s", url)
	return NewWebSocketMirror(conn), nil
}

// Emit 发送事件
func (m *WebSocketMirror) Emit(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if err := m.conn.WriteJSON(ev); err != nil {
		return fmt.Errorf("write %s: %w", ev.Name, err)
	}
	return nil
}

// Close 发送关闭帧并关闭连接，可重复调用
func (m *WebSocketMirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := m.conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
		log.Printf("[WSMirror] close handshake failed: %v", err)
	}
	return m.conn.Close()
}

// Listen 从连接读取镜像事件并交给 sink，直到连接关闭或 ctx 取消
//
// sink 在读取协程中被调用；需要在帧循环中修改画刷时，
// 由调用方把事件转投到 timer.Scheduler.Post。
// 未知名称的事件会被记录并跳过。
//
// 返回:
//   - error: 对端正常关闭或 ctx 取消时为 nil，其余为读取错误
func Listen(ctx context.Context, conn *websocket.Conn, sink func(Event)) error {
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return nil
			}
			return fmt.Errorf("read mirror event: %w", err)
		}
		if !ev.Name.Known() {
			log.Printf("[WSMirror] ignoring unknown event %q", ev.Name)
			continue
		}
		sink(ev)
	}
}
