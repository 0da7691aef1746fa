package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInt64Slice(t *testing.T) {
	s, cleanup := GetInt64Slice(16)
	require.Len(t, s, 16)
	for i := range s {
		s[i] = int64(i)
	}
	cleanup()

	small, cleanup := GetInt64Slice(4)
	defer cleanup()
	require.Len(t, small, 4)

	big, cleanupBig := GetInt64Slice(1 << 12)
	defer cleanupBig()
	require.Len(t, big, 1<<12)
}

func TestGetFloat64Slice(t *testing.T) {
	s, cleanup := GetFloat64Slice(8)
	require.Len(t, s, 8)
	cleanup()

	empty, cleanup := GetFloat64Slice(0)
	defer cleanup()
	require.Empty(t, empty)
}

func TestSlicePoolConcurrency(t *testing.T) {
	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				size := w*10 + i
				xs, cx := GetInt64Slice(size)
				ys, cy := GetFloat64Slice(size)
				if len(xs) != size || len(ys) != size {
					t.Errorf("unexpected sizes %d/%d, want %d", len(xs), len(ys), size)
				}
				cx()
				cy()
			}
		}()
	}
	wg.Wait()
}
