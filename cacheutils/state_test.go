package cacheutils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/utpal74/ai-task-scheduler/config"
)

func newTestStore(t *testing.T) (*StateStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStateStore(client), mr
}

func TestStateIsSingleUse(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	state, err := store.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	ok, err := store.Consume(ctx, state)
	if err != nil || !ok {
		t.Fatalf("first Consume() = %v, %v", ok, err)
	}
	ok, err = store.Consume(ctx, state)
	if err != nil || ok {
		t.Fatalf("second Consume() = %v, %v; want false", ok, err)
	}
}

func TestStateExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	state, err := store.Issue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mr.FastForward(11 * time.Minute)

	if ok, _ := store.Consume(ctx, state); ok {
		t.Error("expired state should be rejected")
	}
}

func TestConsumeUnknownState(t *testing.T) {
	store, _ := newTestStore(t)
	for _, s := range []string{"", "forged"} {
		if ok, err := store.Consume(context.Background(), s); ok || err != nil {
			t.Errorf("Consume(%q) = %v, %v", s, ok, err)
		}
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), configFor(mr.Addr()), false)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	client.Close()
}

func configFor(addr string) config.RedisConfig {
	return config.RedisConfig{URL: addr}
}
