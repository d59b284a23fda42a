package cron

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockLockStore struct {
	data map[string]string
}

func newMockLockStore() *mockLockStore {
	return &mockLockStore{data: make(map[string]string)}
}

func (m *mockLockStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *mockLockStore) Get(ctx context.Context, key string) (string, error) {
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockLockStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func TestRedisLockAcquireRelease(t *testing.T) {
	store := newMockLockStore()
	ctx := context.Background()

	lock, err := NewRedisLock(store, "evm:lock:cron", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}

	ok, err := lock.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	second, err := NewRedisLock(store, "evm:lock:cron", time.Minute)
	if err != nil {
		t.Fatalf("new second lock: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("two holders acquired the same lock")
	}

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
}

func TestRedisLockReleaseOnlyOwn(t *testing.T) {
	store := newMockLockStore()
	ctx := context.Background()

	lock, err := NewRedisLock(store, "evm:lock:cron", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	if _, err := lock.Acquire(ctx); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	// simulate expiry plus takeover by another instance
	store.data["evm:lock:cron"] = "someone-else"

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.data["evm:lock:cron"] != "someone-else" {
		t.Fatal("released a lock owned by another instance")
	}
}
