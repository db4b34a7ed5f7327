package rediskv

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(client, prefix)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := newTestStore(t, "todo:")

	v, ok, err := s.Get(context.Background(), "tasks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || v != "" {
		t.Errorf("expected missing key, got %q (ok=%v)", v, ok)
	}
}

func TestStore_SetUsesPrefixAndNoExpiry(t *testing.T) {
	s, mr := newTestStore(t, "todo:")
	ctx := context.Background()

	if err := s.Set(ctx, "tasks", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := mr.Get("todo:tasks")
	if err != nil {
		t.Fatalf("miniredis get: %v", err)
	}
	if got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
	if ttl := mr.TTL("todo:tasks"); ttl != 0 {
		t.Errorf("expected no TTL, got %v", ttl)
	}

	v, ok, err := s.Get(ctx, "tasks")
	if err != nil || !ok || v != "[]" {
		t.Errorf("get: %q ok=%v err=%v", v, ok, err)
	}
}

func TestStore_ServerDown(t *testing.T) {
	s, mr := newTestStore(t, "")
	mr.Close()

	if _, _, err := s.Get(context.Background(), "tasks"); err == nil {
		t.Error("expected error when server is down")
	}
	if err := s.Set(context.Background(), "tasks", "[]"); err == nil {
		t.Error("expected error when server is down")
	}
}

func TestParseConnection(t *testing.T) {
	opts, err := ParseConnection("redis://:secret@localhost:6380/2")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.Password != "secret" || opts.DB != 2 {
		t.Errorf("unexpected options: addr=%s password=%s db=%d", opts.Addr, opts.Password, opts.DB)
	}

	opts, err = ParseConnection("cache.example.net:6380,password=abc,ssl=True")
	if err != nil {
		t.Fatalf("parse pairs: %v", err)
	}
	if opts.Addr != "cache.example.net:6380" || opts.Password != "abc" || opts.TLSConfig == nil {
		t.Errorf("unexpected options: addr=%s password=%s tls=%v", opts.Addr, opts.Password, opts.TLSConfig != nil)
	}

	if _, err := ParseConnection("  "); err == nil {
		t.Error("expected error for empty connection string")
	}
}
