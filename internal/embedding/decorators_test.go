package embedding

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/pkg/metrics"
	"github.com/wonny/macromoney/pkg/redis"
)

// stubProvider answers with a fixed vector or error and counts calls
type stubProvider struct {
	vec   []float32
	err   error
	block bool
	calls atomic.Int32
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-model" }

func (s *stubProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls.Add(1)
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.vec, nil
}

// memoryStore is an in-process VectorStore
type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]float32
	getErr  error
	enabled bool
	ttls    []time.Duration
	deleted []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]float32{}, enabled: true}
}

func (m *memoryStore) Enabled() bool { return m.enabled }

func (m *memoryStore) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	*(dest.(*[]float32)) = v
	return true, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.([]float32)
	m.ttls = append(m.ttls, ttl)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func scrape(t *testing.T, reg *metrics.Registry) string {
	t.Helper()
	families, err := reg.Gatherer().Gather()
	require.NoError(t, err)
	var b strings.Builder
	for _, mf := range families {
		b.WriteString(mf.GetName())
		b.WriteString("\n")
	}
	return b.String()
}

// requestCount reads macromoney_embedding_requests_total for one status
func requestCount(t *testing.T, reg *metrics.Registry, status string) float64 {
	t.Helper()
	families, err := reg.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "macromoney_embedding_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "status" && lp.GetValue() == status {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestServiceError_WrapsOnce(t *testing.T) {
	base := errors.New("boom")
	err := serviceError("openai", base)
	assert.True(t, errors.Is(err, contracts.ErrEmbeddingService))
	assert.True(t, errors.Is(err, base))

	again := serviceError("openai", err)
	assert.Equal(t, err, again)
	assert.Nil(t, serviceError("openai", nil))
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubProvider{err: errors.New("upstream down")}
	b := NewBreaker(stub, BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, nil)

	for i := 0; i < 2; i++ {
		_, err := b.Embed(context.Background(), "x")
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrEmbeddingService))
	}
	assert.Equal(t, "open", b.State())

	_, err := b.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrEmbeddingService))
	assert.Equal(t, int32(2), stub.calls.Load(), "open breaker must not call the provider")
}

func TestBreaker_IgnoresCallerCancellation(t *testing.T) {
	stub := &stubProvider{block: true}
	b := NewBreaker(stub, BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, nil)

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := b.Embed(ctx, "x")
		cancel()
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.False(t, errors.Is(err, contracts.ErrEmbeddingService))
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Embed(canceled, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(5), stub.calls.Load(), "already-canceled context must not reach the provider")

	assert.Equal(t, "closed", b.State())

	stub.block = false
	stub.vec = []float32{1}
	vec, err := b.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)
}

func TestBreaker_CountsProviderTimeouts(t *testing.T) {
	stub := &stubProvider{block: true}
	b := NewBreaker(NewInstrumented(stub, 5*time.Millisecond, nil, nil), BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, nil)

	for i := 0; i < 2; i++ {
		_, err := b.Embed(context.Background(), "x")
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrEmbeddingService))
	}
	assert.Equal(t, "open", b.State())
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	stub := &stubProvider{vec: []float32{1, 2}}
	b := NewBreaker(stub, DefaultBreakerSettings(), nil)

	vec, err := b.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vec)
	assert.Equal(t, "closed", b.State())
	assert.Equal(t, "stub", b.Name())
}

func TestRateLimited_RespectsContext(t *testing.T) {
	stub := &stubProvider{vec: []float32{1}}
	r := NewRateLimited(stub, 1) // 1 rpm, burst 1

	_, err := r.Embed(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = r.Embed(ctx, "second")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrEmbeddingService))
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestRateLimited_Unlimited(t *testing.T) {
	stub := &stubProvider{vec: []float32{1}}
	r := NewRateLimited(stub, 0)

	for i := 0; i < 50; i++ {
		_, err := r.Embed(context.Background(), "x")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(50), stub.calls.Load())
}

func TestInstrumented_Timeout(t *testing.T) {
	reg := metrics.New()
	stub := &stubProvider{block: true}
	i := NewInstrumented(stub, 20*time.Millisecond, reg, nil)

	_, err := i.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrEmbeddingService))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, scrape(t, reg), "macromoney_embedding_requests_total")
}

func TestInstrumented_CallerDeadlineIsNotProviderTimeout(t *testing.T) {
	reg := metrics.New()
	stub := &stubProvider{block: true}
	i := NewInstrumented(stub, time.Minute, reg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := i.Embed(ctx, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, errors.Is(err, contracts.ErrEmbeddingService))
	assert.NotContains(t, err.Error(), "timed out after 1m0s")
	assert.Equal(t, float64(1), requestCount(t, reg, "canceled"))
	assert.Equal(t, float64(0), requestCount(t, reg, "timeout"))
}

func TestInstrumented_Success(t *testing.T) {
	stub := &stubProvider{vec: []float32{0.5}}
	i := NewInstrumented(stub, time.Second, nil, nil)

	vec, err := i.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, vec)
}

func TestCached_HitAfterMiss(t *testing.T) {
	stub := &stubProvider{vec: []float32{0.1, 0.2}}
	store := newMemoryStore()
	c := NewCached(stub, store, time.Hour, 2, nil, nil)

	for i := 0; i < 3; i++ {
		vec, err := c.Embed(context.Background(), "Fed hikes rates")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2}, vec)
	}
	assert.Equal(t, int32(1), stub.calls.Load())
	assert.Equal(t, []time.Duration{time.Hour}, store.ttls)

	_, err := c.Embed(context.Background(), "another headline")
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestCached_StoreFailureFallsThrough(t *testing.T) {
	stub := &stubProvider{vec: []float32{1}}
	store := newMemoryStore()
	store.getErr = errors.New("redis down")
	c := NewCached(stub, store, 0, 0, nil, nil)

	vec, err := c.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestCached_DisabledStore(t *testing.T) {
	stub := &stubProvider{vec: []float32{1}}
	store := newMemoryStore()
	store.enabled = false
	c := NewCached(stub, store, time.Hour, 0, nil, nil)

	for i := 0; i < 2; i++ {
		_, err := c.Embed(context.Background(), "x")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), stub.calls.Load())
	assert.Empty(t, store.data)
}

func TestCached_DoesNotStoreErrors(t *testing.T) {
	stub := &stubProvider{err: serviceError("stub", errors.New("bad"))}
	store := newMemoryStore()
	c := NewCached(stub, store, time.Hour, 0, nil, nil)

	_, err := c.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Empty(t, store.data)
}

func TestCached_ReplacesInvalidEntry(t *testing.T) {
	stub := &stubProvider{vec: []float32{0.1, 0.2}}
	store := newMemoryStore()
	c := NewCached(stub, store, time.Hour, 2, nil, nil)

	key := redis.EmbeddingKey(stub.Name(), stub.Model(), 2, "Fed hikes rates")
	store.data[key] = []float32{1, 2, 3} // cached under another dimensionality

	vec, err := c.Embed(context.Background(), "Fed hikes rates")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vec)
	assert.Equal(t, []string{key}, store.deleted)
	assert.Equal(t, []float32{0.1, 0.2}, store.data[key])
	assert.Equal(t, int32(1), stub.calls.Load())
}
