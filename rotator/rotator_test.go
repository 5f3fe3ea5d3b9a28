package rotator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) apply(srcs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, srcs)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestWindowWraps(t *testing.T) {
	r := New([]string{"a", "b", "c", "d"}, 3, time.Second, nil)
	assert.Equal(t, []string{"a", "b", "c"}, r.Window())
	r.index = 2
	assert.Equal(t, []string{"c", "d", "a"}, r.Window())
}

func TestNoRotationWhenURLsFitSlots(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &recorder{}
	r := New([]string{"a", "b"}, 2, time.Millisecond, rec.apply)
	assert.False(t, r.Rotates())
	r.Init()
	r.Start()
	assert.False(t, r.Running())
	r.Stop()
	assert.Zero(t, rec.count())
}

func TestStartStopPreservesIndex(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &recorder{}
	r := New([]string{"a", "b", "c", "d", "e"}, 2, time.Millisecond, rec.apply)
	r.Init()
	require.Equal(t, 1, rec.count())

	r.Start()
	r.Start()
	require.Eventually(t, func() bool { return r.Index() >= 2 }, time.Second, time.Millisecond)
	r.Stop()
	r.Stop()
	assert.False(t, r.Running())

	stopped := r.Index()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, stopped, r.Index())

	r.Start()
	require.Eventually(t, func() bool { return r.Index() != stopped }, time.Second, time.Millisecond)
	r.Stop()
}

func TestIntervalFor(t *testing.T) {
	assert.Equal(t, 600*time.Millisecond, IntervalFor(true))
	assert.Equal(t, 350*time.Millisecond, IntervalFor(false))
}
