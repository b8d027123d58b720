package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/muurk/smartthermo/internal/config"
)

func TestServeAndShutdown(t *testing.T) {
	store := config.NewStore()
	srv, err := New(&Config{Host: "127.0.0.1", Port: 0}, store)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if srv.Port() == 0 {
		t.Fatal("Port() = 0 after Listen")
	}

	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/api/status", srv.Port()))
	if err != nil {
		t.Fatalf("GET /api/status error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after Shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}

func TestNewRequiresCertAndKey(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"cert only", Config{CertPath: "server.crt"}},
		{"key only", Config{KeyPath: "server.key"}},
		{"missing files", Config{CertPath: "/nonexistent/server.crt", KeyPath: "/nonexistent/server.key"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if _, err := New(&cfg, config.NewStore()); err == nil {
				t.Error("New() succeeded, want error")
			}
		})
	}
}

func TestGetTLSInfo(t *testing.T) {
	if info := GetTLSInfo(nil); info["enabled"] != false {
		t.Errorf("GetTLSInfo(nil) = %v", info)
	}
}
