package server

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestListener_ServesUntilCanceled(t *testing.T) {
	quietLogs()
	l, err := Listen("127.0.0.1:0", (&API{Store: &fakeStore{}}).Routes())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestListen_PortInUse(t *testing.T) {
	l, err := Listen("127.0.0.1:0", http.NotFoundHandler())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer l.Close()

	if _, err := Listen(l.Addr().String(), http.NotFoundHandler()); err == nil {
		t.Error("expected bind error on a port already in use")
	}
}
