package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klatu-labs/wincloner/internal/cloner"
	"github.com/klatu-labs/wincloner/pkg/log"
)

type countingUpdater struct {
	mu    sync.Mutex
	calls int
	paths []string
}

func (c *countingUpdater) Update(path string) (cloner.Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.paths = append(c.paths, path)
	return cloner.Stats{}, nil
}

func (c *countingUpdater) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func waitForCalls(t *testing.T, u *countingUpdater, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if u.count() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d update calls, got %d", want, u.count())
}

// blockingUpdater holds each Update call for delay and tracks how many
// calls were in flight at once.
type blockingUpdater struct {
	delay         time.Duration
	inFlight      int32
	maxConcurrent int32
	calls         int32
}

func (b *blockingUpdater) Update(path string) (cloner.Stats, error) {
	cur := atomic.AddInt32(&b.inFlight, 1)
	for {
		m := atomic.LoadInt32(&b.maxConcurrent)
		if cur <= m || atomic.CompareAndSwapInt32(&b.maxConcurrent, m, cur) {
			break
		}
	}
	time.Sleep(b.delay)
	atomic.AddInt32(&b.inFlight, -1)
	atomic.AddInt32(&b.calls, 1)
	return cloner.Stats{}, nil
}

// A debounce timer rearmed mid-pass must not start a second update while
// the first still owns the engine's scratch buffers.
func TestUpdatePassesNeverOverlap(t *testing.T) {
	u := &blockingUpdater{delay: 300 * time.Millisecond}
	w := New(u, filepath.Join(t.TempDir(), "winc.img"), 10*time.Millisecond, log.NewNoopLogger())

	// First timer fires at ~10ms and blocks in Update until ~310ms.
	w.scheduleUpdate()
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&u.inFlight) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first update never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Rearm while the first pass is in flight; the second fire must wait.
	w.scheduleUpdate()

	deadline = time.Now().Add(3 * time.Second)
	for atomic.LoadInt32(&u.calls) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for both updates, got %d", atomic.LoadInt32(&u.calls))
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := atomic.LoadInt32(&u.maxConcurrent); got != 1 {
		t.Fatalf("update passes overlapped: max concurrency %d", got)
	}
}

func TestRunsInitialUpdate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "winc.img")
	if err := os.WriteFile(path, []byte("image"), 0o644); err != nil {
		t.Fatal(err)
	}

	u := &countingUpdater{}
	w := New(u, path, 50*time.Millisecond, log.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	waitForCalls(t, u, 1)
	cancel()
	<-done
}

func TestUpdatesOnImageChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "winc.img")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	u := &countingUpdater{}
	w := New(u, path, 20*time.Millisecond, log.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	waitForCalls(t, u, 1)
	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForCalls(t, u, 2)

	cancel()
	<-done
}

func TestIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "winc.img")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	u := &countingUpdater{}
	w := New(u, path, 20*time.Millisecond, log.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	waitForCalls(t, u, 1)
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Give the watcher a moment; the unrelated write must not trigger.
	time.Sleep(150 * time.Millisecond)
	if got := u.count(); got != 1 {
		t.Fatalf("unrelated file triggered update: %d calls", got)
	}

	cancel()
	<-done
}
