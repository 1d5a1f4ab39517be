package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, opts ...Option) *ProcTable {
	t.Helper()
	pt, err := NewProcTable(opts...)
	require.NoError(t, err)
	pt.Start()
	return pt
}

// waitForState polls until p.State equals want or the deadline elapses.
func waitForState(t *testing.T, pt *ProcTable, p *PCB, want ProcState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		pt.lock.Lock()
		s := p.State
		pt.lock.Unlock()
		if s == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("process %d never reached state %s", p.Pid, want)
}

// mustLookup returns the PCB for pid, failing the test if it is not found.
func mustLookup(t *testing.T, pt *ProcTable, pid Pid) *PCB {
	t.Helper()
	pt.lock.Lock()
	defer pt.lock.Unlock()
	p := pt.lookupLocked(pid)
	require.NotNil(t, p, "pid %d not found", pid)
	return p
}

func TestZombieReaping(t *testing.T) {
	pt := newTestTable(t)

	childDone := make(chan struct{})
	var childPid Pid

	init, err := UserInit(pt, "init", func(self *PCB) {
		pid, err := Fork(pt, self, func(child *PCB) {
			for i := 0; i < 10; i++ {
				Yield(pt, child)
			}
		})
		require.NoError(t, err)
		childPid = pid

		reaped, wtime, rtime, err := Waitx(pt, self)
		require.NoError(t, err)
		require.Equal(t, pid, reaped)
		// 10 Yields plus the implicit exit tick; deterministic under the
		// single-CPU cooperative handoff this test runs under.
		require.Equal(t, Tick(11), rtime)
		require.Equal(t, Tick(1), wtime)
		close(childDone)

		// init must not exit; block forever for test purposes.
		select {}
	})
	require.NoError(t, err)
	require.NotNil(t, init)

	select {
	case <-childDone:
	case <-time.After(2 * time.Second):
		t.Fatal("child was never reaped")
	}

	pt.lock.Lock()
	defer pt.lock.Unlock()
	slot := pt.lookupLocked(childPid)
	require.Nil(t, slot, "reaped child's slot must be Unused and unmatched by pid")
}

// TestWaitxAccountsForSleepAndRun reaps a child that actually went through
// Sleep and guards against the RTime/IOTime double-charge that used to
// occur across the sleep boundary (the sleep-enter tick was being credited
// to both accounts). If that bug were still present, etime-ctime-rtime-
// iotime in Waitx (lifecycle.go) would underflow its uint64 by the
// over-counted tick, producing a wtime near ^uint64(0) instead of the
// small, sane value this scenario actually produces — that is what the
// bound below exists to catch, not an exact tick count.
func TestWaitxAccountsForSleepAndRun(t *testing.T) {
	pt := newTestTable(t)
	const doorbell = "wake-for-accounting"

	type sample struct{ wtime, rtime Tick }
	resultCh := make(chan sample, 1)
	childReadyCh := make(chan Pid, 1)

	init, err := UserInit(pt, "init", func(self *PCB) {
		_, err := Fork(pt, self, func(child *PCB) {
			childReadyCh <- child.Pid
			Sleep(pt, child, doorbell)
			Yield(pt, child)
		})
		require.NoError(t, err)

		// Waitx itself sleeps (yielding the CPU) until the child becomes a
		// zombie, so init never busy-waits the virtual CPU away from the
		// child — unlike polling pt state directly from inside a scheduled
		// process's own body, which would starve the child under a single
		// CPU.
		_, wtime, rtime, err := Waitx(pt, self)
		require.NoError(t, err)

		resultCh <- sample{wtime, rtime}
		select {}
	})
	require.NoError(t, err)
	require.NotNil(t, init)

	childPid := <-childReadyCh
	waitForState(t, pt, mustLookup(t, pt, childPid), Sleeping)
	Wakeup(pt, doorbell)

	select {
	case s := <-resultCh:
		require.Less(t, s.rtime, Tick(1000))
		require.Less(t, s.wtime, Tick(1000))
	case <-time.After(2 * time.Second):
		t.Fatal("accounting sample never arrived")
	}
}

func TestOrphanReparenting(t *testing.T) {
	pt := newTestTable(t)

	grandchildDone := make(chan struct{})
	var grandchildPid Pid
	var orphanPid Pid

	_, err := UserInit(pt, "init", func(initSelf *PCB) {
		_, err := Fork(pt, initSelf, func(parent *PCB) {
			pid, err := Fork(pt, parent, func(child *PCB) {
				for i := 0; i < 5; i++ {
					Yield(pt, child)
				}
			})
			require.NoError(t, err)
			orphanPid = pid
			// Parent exits immediately, orphaning the child to init.
		})
		require.NoError(t, err)

		// The first reap is the exited parent; keep waiting until init
		// reaps the reparented grandchild itself.
		for {
			pid, err := Wait(pt, initSelf)
			if err == nil && pid == orphanPid {
				grandchildPid = pid
				close(grandchildDone)
				select {}
			}
			Yield(pt, initSelf)
		}
	})
	require.NoError(t, err)

	select {
	case <-grandchildDone:
	case <-time.After(2 * time.Second):
		t.Fatal("init never reaped the orphaned grandchild")
	}
	require.NotZero(t, grandchildPid)
}

func TestKillWakesSleeper(t *testing.T) {
	pt := newTestTable(t)

	awake := make(chan struct{})
	var sleeperPid Pid

	_, err := UserInit(pt, "init", func(self *PCB) {
		_, err := Fork(pt, self, func(sleeper *PCB) {
			sleeperPid = sleeper.Pid
			Sleep(pt, sleeper, "channel-x")
			close(awake)
		})
		require.NoError(t, err)
		// Wait parks init so the forked sleeper actually gets dispatched
		// under a single CPU, then reaps it once Kill wakes it and it exits.
		Wait(pt, self)
		select {}
	})
	require.NoError(t, err)

	// Give the sleeper a moment to actually reach Sleeping before killing it.
	require.Eventually(t, func() bool {
		pt.lock.Lock()
		defer pt.lock.Unlock()
		p := pt.lookupLocked(sleeperPid)
		return p != nil && p.State == Sleeping
	}, 2*time.Second, time.Millisecond)

	require.NoError(t, Kill(pt, sleeperPid))

	select {
	case <-awake:
	case <-time.After(2 * time.Second):
		t.Fatal("killed sleeper never woke")
	}
}

func TestWaitNoChildren(t *testing.T) {
	pt := newTestTable(t)

	result := make(chan error, 1)
	_, err := UserInit(pt, "init", func(self *PCB) {
		_, err := Fork(pt, self, func(lonely *PCB) {
			_, waitErr := Wait(pt, lonely)
			result <- waitErr
		})
		require.NoError(t, err)
		// Wait parks init so the forked child actually gets dispatched
		// under a single CPU, then reaps it once it exits.
		Wait(pt, self)
		select {}
	})
	require.NoError(t, err)

	select {
	case err := <-result:
		require.ErrorIs(t, err, ErrNoChildren)
	case <-time.After(2 * time.Second):
		t.Fatal("wait with no children never returned")
	}
}

func TestKillUnknownPid(t *testing.T) {
	pt := newTestTable(t)
	err := Kill(pt, 99999)
	require.ErrorIs(t, err, ErrUnknownPID)
}

func TestExitForbiddenForInit(t *testing.T) {
	pt := newTestTable(t)
	done := make(chan any, 1)

	_, err := UserInit(pt, "init", func(self *PCB) {
		func() {
			defer func() { done <- recover() }()
			Exit(pt, self)
		}()
		// Never return: a returning run body triggers an automatic Exit,
		// which would re-trip this same invariant a second time,
		// unrecovered.
		select {}
	})
	require.NoError(t, err)

	select {
	case r := <-done:
		require.NotNil(t, r)
		_, ok := r.(*InvariantError)
		require.True(t, ok, "expected *InvariantError, got %T", r)
	case <-time.After(2 * time.Second):
		t.Fatal("init exit attempt never panicked")
	}
}
