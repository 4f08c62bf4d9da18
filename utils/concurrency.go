package utils

import (
	"context"
	"sync"
	"time"
)

// WorkerPool bounds how many jobs run at once and can space out job
// starts.
type WorkerPool struct {
	slots     chan struct{}
	interval  time.Duration
	wg        sync.WaitGroup
	mu        sync.Mutex
	lastStart time.Time
}

// NewWorkerPool creates a pool running at most maxWorkers jobs at a time,
// starting consecutive jobs at least interval apart. A zero interval
// disables spacing.
func NewWorkerPool(maxWorkers int, interval time.Duration) *WorkerPool {
	return &WorkerPool{
		slots:    make(chan struct{}, max(maxWorkers, 1)),
		interval: interval,
	}
}

// Go runs job on a free slot, blocking while the pool is full. If ctx is
// done before a slot frees up, job is not run and ctx.Err() is returned.
func (wp *WorkerPool) Go(ctx context.Context, job func()) error {
	select {
	case wp.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.slots }()

		wp.pace()
		job()
	}()
	return nil
}

// Wait blocks until all started jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) pace() {
	if wp.interval <= 0 {
		return
	}
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wait := wp.interval - time.Since(wp.lastStart); wait > 0 {
		time.Sleep(wait)
	}
	wp.lastStart = time.Now()
}

// KeySet is a thread-safe set of string keys, used to spot duplicate
// submissions inside a batch.
type KeySet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewKeySet creates an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{seen: make(map[string]struct{})}
}

// Add returns true if the key was newly added, false if already present.
func (s *KeySet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Contains returns true if the key has already been added.
func (s *KeySet) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[key]
	return exists
}

// Size returns the number of unique keys tracked.
func (s *KeySet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
