package profiler

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/instance"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/material"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestProfiler(t *testing.T, buf *bytes.Buffer) (*Profiler, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1000, 0)}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewProfiler(WithInterval(time.Second), WithLogger(logger))
	p.now = clock.now
	p.lastTime = clock.t
	return p, clock
}

func oneInstance(t *testing.T) *scene.Snapshot {
	t.Helper()
	desc, err := instance.NewDescription("box")
	require.NoError(t, err)
	mat, err := material.Untextured(material.NewDescription())
	require.NoError(t, err)
	i, err := instance.New(3, desc, mat)
	require.NoError(t, err)
	return scene.Empty().AddInstance(i)
}

func TestTickReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	p, clock := newTestProfiler(t, &buf)
	s := oneInstance(t)

	for i := 0; i < 9; i++ {
		clock.t = clock.t.Add(100 * time.Millisecond)
		assert.False(t, p.Tick(s))
	}
	assert.Empty(t, buf.String())

	clock.t = clock.t.Add(100 * time.Millisecond)
	require.True(t, p.Tick(s))

	st := p.Last()
	assert.InDelta(t, 10.0, st.TicksPerSecond, 1e-9)
	assert.Equal(t, 1, st.Instances)
	assert.Equal(t, 0, st.Lights)
	assert.Greater(t, st.HeapMB, 0.0)

	out := buf.String()
	assert.Contains(t, out, "component=profiler")
	assert.Contains(t, out, "instances=1")
	assert.Contains(t, out, "tps=10")
}

func TestTickNilSnapshot(t *testing.T) {
	var buf bytes.Buffer
	p, clock := newTestProfiler(t, &buf)
	clock.t = clock.t.Add(2 * time.Second)
	require.True(t, p.Tick(nil))
	assert.Equal(t, 0, p.Last().Instances)
}

func TestRunStopsWithContext(t *testing.T) {
	p := NewProfiler(WithInterval(time.Millisecond), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	calls := make(chan struct{}, 1)
	go func() {
		defer close(done)
		p.Run(ctx, func() *scene.Snapshot {
			select {
			case calls <- struct{}{}:
			default:
			}
			return scene.Empty()
		})
	}()

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Run never ticked")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Run did not stop")
	}
}
