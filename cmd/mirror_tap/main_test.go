package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestShutdownOnDoneIdleServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := &http.Server{Handler: http.NotFoundHandler()}
	go server.Serve(ln)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdownOnDone(ctx, server, time.Second); err != nil {
		t.Errorf("shutdownOnDone() = %v, want nil", err)
	}
}

func TestShutdownOnDoneReportsTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	entered := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	})}
	go server.Serve(ln)
	go http.Get("http://" + ln.Addr().String() + "/")

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = shutdownOnDone(ctx, server, 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("shutdownOnDone() = %v, want context.DeadlineExceeded", err)
	}
}
