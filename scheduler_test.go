package sched

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPUsHaveDistinctIDs(t *testing.T) {
	pt, err := NewProcTable(WithNumCPU(3))
	require.NoError(t, err)

	ids := make(map[int]bool)
	for _, c := range pt.CPUs() {
		ids[c.ID()] = true
	}
	assert.Len(t, ids, 3)
}

func TestMultipleCPUsDispatchConcurrently(t *testing.T) {
	pt, err := NewProcTable(WithNumCPU(2))
	require.NoError(t, err)
	pt.Start()

	var wg sync.WaitGroup
	bothRunning := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex
	running := 0

	_, err = UserInit(pt, "init", func(self *PCB) {
		for i := 0; i < 2; i++ {
			wg.Add(1)
			_, err := Fork(pt, self, func(child *PCB) {
				defer wg.Done()
				mu.Lock()
				running++
				n := running
				mu.Unlock()
				if n == 2 {
					once.Do(func() { close(bothRunning) })
				}
				for t := 0; t < 50; t++ {
					Yield(pt, child)
				}
			})
			require.NoError(t, err)
		}
		select {}
	})
	require.NoError(t, err)

	select {
	case <-bothRunning:
	case <-time.After(2 * time.Second):
		t.Fatal("both workers never became concurrently runnable")
	}
	wg.Wait()
}
