package typecache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/typecache/core/hierarchy"
	"github.com/codewandler/typecache/core/metrics"
)

// === shapes ===

type ShapeKey struct{ ID int }

type Shape struct {
	ShapeID int
	Name    string
}

type Rectangle struct {
	Shape
	Length  int
	Breadth int
}

type Square struct{ Rectangle }

func NewSquare(id int, name string, length int) Square {
	return Square{Rectangle{Shape: Shape{ShapeID: id, Name: name}, Length: length, Breadth: length}}
}

func shapeRegistry(t *testing.T) *hierarchy.Registry {
	t.Helper()
	reg := hierarchy.NewBuiltinRegistry()
	require.NoError(t, hierarchy.DeclareEmbedded[Square](reg))
	return reg
}

// === manual scheduler ===

type scheduled struct {
	delay time.Duration
	fn    func()
}

// manualScheduler records tasks and runs them only when told to.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []scheduled
}

func (s *manualScheduler) Schedule(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, scheduled{delay: delay, fn: fn})
}

func (s *manualScheduler) take() []scheduled {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.tasks
	s.tasks = nil
	return out
}

func (s *manualScheduler) fireAll() {
	for _, t := range s.take() {
		t.fn()
	}
}

func (s *manualScheduler) delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.delay)
	}
	return out
}

// === recording metrics ===

type recordingMetrics struct {
	mu         sync.Mutex
	hits       map[string]int
	misses     map[string]int
	mismatches map[string]int
	created    map[string]int
	dropped    map[string]int
	buckets    int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		hits:       map[string]int{},
		misses:     map[string]int{},
		mismatches: map[string]int{},
		created:    map[string]int{},
		dropped:    map[string]int{},
	}
}

func (m *recordingMetrics) OpDuration(string) metrics.Timer { return metrics.NopTimer() }

func (m *recordingMetrics) inc(counts map[string]int, key string) {
	m.mu.Lock()
	counts[key]++
	m.mu.Unlock()
}

func (m *recordingMetrics) Hit(k string)          { m.inc(m.hits, k) }
func (m *recordingMetrics) Miss(k string)         { m.inc(m.misses, k) }
func (m *recordingMetrics) TypeMismatch(k string) { m.inc(m.mismatches, k) }
func (m *recordingMetrics) BucketCreated(k string) {
	m.inc(m.created, k)
}
func (m *recordingMetrics) BucketDropped(k, reason string) { m.inc(m.dropped, k+"/"+reason) }
func (m *recordingMetrics) Buckets(n int) {
	m.mu.Lock()
	m.buckets = n
	m.mu.Unlock()
}

func (m *recordingMetrics) count(counts map[string]int, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return counts[key]
}

// === helpers ===

// newTestCache returns a cache whose buckets only expire when the returned
// scheduler fires.
func newTestCache(t *testing.T, opts ...Option) (*Cache[any, any], *manualScheduler) {
	t.Helper()
	s := &manualScheduler{}
	opts = append([]Option{WithScheduler(s), WithHierarchy(shapeRegistry(t))}, opts...)
	return New[any, any](opts...), s
}

func requireValue(t *testing.T, c *Cache[any, any], key, want any) {
	t.Helper()
	got, ok := c.Get(key)
	require.True(t, ok, "key %v not found", key)
	require.Equal(t, want, got)
}

func requireAbsent(t *testing.T, c *Cache[any, any], key any) {
	t.Helper()
	got, ok := c.Get(key)
	require.False(t, ok, "key %v unexpectedly maps to %v", key, got)
	require.Nil(t, got)
}
