package runcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDo_SharesResult(t *testing.T) {
	ResetStats()
	cache := New(time.Hour)
	defer cache.Close() //nolint:errcheck // test

	var calls atomic.Int32
	fetch := func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte(`[{"id":1}]`), nil
	}

	ctx := context.Background()
	for range 3 {
		body, err := Do(ctx, cache, Key("https://www.instagram.com/a/"), fetch, nil)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		if string(body) != `[{"id":1}]` {
			t.Errorf("body = %q", body)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
	if s := CacheStats(); s.Hits != 2 || s.Misses != 1 {
		t.Errorf("stats = %+v, want 2 hits and 1 miss", s)
	}
}

func TestDo_ConcurrentCallersShareOneFetch(t *testing.T) {
	cache := New(time.Hour)
	defer cache.Close() //nolint:errcheck // test

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("ok"), nil
	}

	var wg sync.WaitGroup
	for range 4 {
		wg.Go(func() {
			if body, err := Do(context.Background(), cache, "k", fetch, nil); err != nil || string(body) != "ok" {
				t.Errorf("Do = (%q, %v)", body, err)
			}
		})
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestDo_DoesNotCacheErrors(t *testing.T) {
	cache := New(time.Hour)
	defer cache.Close() //nolint:errcheck // test

	boom := errors.New("boom")
	var calls atomic.Int32
	fetch := func(context.Context) ([]byte, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return []byte("ok"), nil
	}

	ctx := context.Background()
	if _, err := Do(ctx, cache, "k", fetch, nil); !errors.Is(err, boom) {
		t.Fatalf("first Do error = %v, want boom", err)
	}
	body, err := Do(ctx, cache, "k", fetch, nil)
	if err != nil || string(body) != "ok" {
		t.Fatalf("second Do = (%q, %v)", body, err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("fetch calls = %d, want 2", got)
	}
}

func TestDo_NilCache(t *testing.T) {
	ResetStats()
	var calls atomic.Int32
	fetch := func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("ok"), nil
	}
	for range 2 {
		if _, err := Do(context.Background(), nil, "k", fetch, nil); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("fetch calls = %d, want 2", got)
	}
	if s := CacheStats(); s.Misses != 2 || s.Hits != 0 {
		t.Errorf("stats = %+v, want 2 misses", s)
	}
}

func TestNew(t *testing.T) {
	c := New(DefaultTTL)
	defer c.Close() //nolint:errcheck // test
	if c.TTL() != DefaultTTL {
		t.Errorf("TTL() = %v, want %v", c.TTL(), DefaultTTL)
	}
}

func TestKey(t *testing.T) {
	a := Key("https://www.instagram.com/a/")
	b := Key("https://www.instagram.com/b/")
	if a == b {
		t.Error("different URLs produced the same key")
	}
	if len(a) != 64 {
		t.Errorf("len(Key) = %d, want 64", len(a))
	}
}
