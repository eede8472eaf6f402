package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// newTestCache returns a page cache on an in-process Redis.
func newTestCache(t *testing.T, ttl time.Duration) (*PageCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewPageCache(client, ttl), mr
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), mr.Addr(), "")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	if err := Check(client)(context.Background()); err != nil {
		t.Errorf("Check on a live server: %v", err)
	}

	mr.Close()
	if err := Check(client)(context.Background()); err == nil {
		t.Error("Check after shutdown: expected error")
	}
}

func TestConnect_Unreachable_Fails(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := Connect(context.Background(), addr, ""); err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestHostKey(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"rosas.pagesmith.localhost", "site:rosas.pagesmith.localhost"},
		{"Rosas.Example.COM", "site:rosas.example.com"},
		{"rosas.example.com:8080", "site:rosas.example.com"},
		{"rosas.example.com.", "site:rosas.example.com"},
		{"[::1]:8080", "site:[::1]"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := HostKey(tt.host); got != tt.want {
				t.Errorf("HostKey(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}

func TestPageCacheSetAndGet(t *testing.T) {
	pc, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, ok := pc.Get(ctx, "rosas.example.com"); ok {
		t.Fatal("expected miss on empty cache")
	}

	html := []byte("<html><body>Rosa's</body></html>")
	pc.Set(ctx, "Rosas.example.com:443", html)

	got, ok := pc.Get(ctx, "rosas.example.com")
	if !ok || string(got) != string(html) {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	if ttl := mr.TTL("site:rosas.example.com"); ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}
}

func TestPageCacheExpiry(t *testing.T) {
	pc, mr := newTestCache(t, 0)
	ctx := context.Background()

	pc.Set(ctx, "a.example.com", []byte("a"))
	mr.FastForward(DefaultPageTTL + time.Second)

	if _, ok := pc.Get(ctx, "a.example.com"); ok {
		t.Error("entry should have expired after the default TTL")
	}
}

func TestPageCacheInvalidate(t *testing.T) {
	pc, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, "a.example.com", []byte("a"))
	pc.Set(ctx, "b.example.com", []byte("b"))

	pc.Invalidate(ctx, "A.example.com")
	pc.Invalidate(ctx, "")

	if _, ok := pc.Get(ctx, "a.example.com"); ok {
		t.Error("a.example.com should be invalidated")
	}
	if _, ok := pc.Get(ctx, "b.example.com"); !ok {
		t.Error("b.example.com should still be cached")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	pc, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	for i := range 250 {
		pc.Set(ctx, fmt.Sprintf("site%d.example.com", i), []byte("x"))
	}
	if err := mr.Set("session:keep", "1"); err != nil {
		t.Fatal(err)
	}

	pc.InvalidateAll(ctx)

	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "session:keep" {
		t.Errorf("remaining keys = %v, want only session:keep", keys)
	}
}

func TestPageCacheErrorsAreMisses(t *testing.T) {
	pc, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, "a.example.com", []byte("a"))
	mr.SetError("server down")

	if _, ok := pc.Get(ctx, "a.example.com"); ok {
		t.Error("expected miss while the server errors")
	}
	// Must not panic.
	pc.Set(ctx, "a.example.com", []byte("a"))
	pc.Invalidate(ctx, "a.example.com")
}
