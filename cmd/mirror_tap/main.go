// Package main 画刷镜像调试工具
//
// 用法:
//
//	go run ./cmd/mirror_tap --listen :9100            # 打印收到的镜像事件（YAML）
//	go run ./cmd/mirror_tap --send events.yaml --url ws://localhost:9100/
//
// --send 读取 YAML 事件列表并逐个发送，每个事件间隔 --interval：
//
//   - id: brush-1
//     type: setShapeType
//     data: BOX
//   - id: brush-1
//     type: setFillStyle
//     data: "#00ff00"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	"gopkg.in/yaml.v3"

	"github.com/gonewx/brushes/pkg/mirror"
)

func main() {
	listenAddr := flag.String("listen", "", "监听地址，打印收到的事件")
	sendFile := flag.String("send", "", "要发送的 YAML 事件文件")
	url := flag.String("url", "ws://localhost:9100/", "--send 的目标地址")
	interval := flag.Duration("interval", 500*time.Millisecond, "--send 事件间隔")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch {
	case *listenAddr != "":
		err = tap(ctx, *listenAddr)
	case *sendFile != "":
		err = send(ctx, *sendFile, *url, *interval)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("[MirrorTap] %v", err)
	}
}

func tap(ctx context.Context, addr string) error {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	enc := yaml.NewEncoder(os.Stdout)
	events := make(chan mirror.Event, 64)

	server := &http.Server{
		Addr: addr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				log.Printf("[MirrorTap] upgrade: %v", err)
				return
			}
			defer conn.Close()
			log.Printf("[MirrorTap] %s connected", r.RemoteAddr)
			if err := mirror.Listen(ctx, conn, func(ev mirror.Event) { events <- ev }); err != nil {
				log.Printf("[MirrorTap] %s: %v", r.RemoteAddr, err)
			}
			log.Printf("[MirrorTap] %s disconnected", r.RemoteAddr)
		}),
	}

	go shutdownOnDone(ctx, server, time.Second)
	go func() {
		for ev := range events {
			if err := enc.Encode([]mirror.Event{ev}); err != nil {
				log.Printf("[MirrorTap] encode: %v", err)
			}
		}
	}()

	log.Printf("[MirrorTap] listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// shutdownOnDone 在 ctx 结束后关闭服务器，超时未关闭的连接会被记录
func shutdownOnDone(ctx context.Context, server *http.Server, timeout time.Duration) error {
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[MirrorTap] shutdown: %v", err)
		return err
	}
	return nil
}

func send(ctx context.Context, path, url string, interval time.Duration) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}
	var events []mirror.Event
	if err := yaml.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("failed to parse events: %w", err)
	}

	m, err := mirror.DialWebSocketMirror(ctx, url)
	if err != nil {
		return err
	}
	defer m.Close()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i, ev := range events {
		if !ev.Name.Known() {
			log.Printf("[MirrorTap] skipping event %d: unknown type %q", i, ev.Name)
			continue
		}
		if ev.BrushID == "" {
			log.Printf("[MirrorTap] skipping event %d: missing id", i)
			continue
		}
		if err := m.Emit(ev); err != nil {
			return err
		}
		log.Printf("[MirrorTap] sent %s(%s) for %s", ev.Name, ev.Payload, ev.BrushID)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}
