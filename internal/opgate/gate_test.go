package opgate

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGate_TryEnter(t *testing.T) {
	g := New()

	release, ok := g.TryEnter("reload")
	require.True(t, ok)
	require.Equal(t, "reload", g.Holder())

	_, ok = g.TryEnter("relocate")
	require.False(t, ok)
	require.Equal(t, "reload", g.Holder())

	release()
	release()
	require.Empty(t, g.Holder())

	release2, ok := g.TryEnter("relocate")
	require.True(t, ok)
	release()
	require.Equal(t, "relocate", g.Holder(), "stale release must not open the gate")
	release2()
}

func TestGate_ConcurrentEntrants(t *testing.T) {
	g := New()
	var admitted atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := g.TryEnter("poll"); ok {
				admitted.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()
	require.Equal(t, int32(1), admitted.Load())
}
