package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	sched "github.com/teachos/xv6sched"
)

// runYieldDemo builds a ProcTable, forks numWorkers children off init that
// each Yield ticksEach times before returning (and so exiting
// automatically), waits for all of them to finish, then prints a process
// table and a metrics snapshot. It demonstrates AllocProc/Fork/Yield/Exit
// and the currently-linked policy's dispatch order.
func runYieldDemo(numCPU, numWorkers, ticksEach int) error {
	pt, err := sched.NewProcTable(
		sched.WithNumCPU(numCPU),
		sched.WithMetrics(true),
	)
	if err != nil {
		return fmt.Errorf("building process table: %w", err)
	}
	pt.Start()

	var wg sync.WaitGroup
	init, err := sched.UserInit(pt, "init", func(p *sched.PCB) {
		// init must keep yielding the CPU so the forked workers actually
		// get dispatched under --cpus 1: it reaps each worker as it exits,
		// then idles once there is nothing left to wait for (init itself
		// may never exit).
		for {
			if _, err := sched.Wait(pt, p); err != nil {
				select {}
			}
		}
	})
	if err != nil {
		return fmt.Errorf("userinit: %w", err)
	}

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		name := fmt.Sprintf("worker-%d", i)
		_, err := sched.Fork(pt, init, func(p *sched.PCB) {
			defer wg.Done()
			for t := 0; t < ticksEach; t++ {
				sched.Yield(pt, p)
			}
		})
		if err != nil {
			wg.Done()
			return fmt.Errorf("forking %s: %w", name, err)
		}
	}

	wg.Wait()

	fmt.Printf("policy: %s\n\n", pt.Policy())
	if err := printProcessTable(pt); err != nil {
		return err
	}
	printMetrics(pt)
	return nil
}

// runKillDemo forks a single child off init that sleeps forever on its own
// PCB, then calls Kill against it and reports the resulting state
// transition. It demonstrates Sleep and Kill (Kill wakes the sleeper
// itself).
func runKillDemo(signalName string) error {
	sig, err := parseSignal(signalName)
	if err != nil {
		return err
	}

	pt, err := sched.NewProcTable()
	if err != nil {
		return fmt.Errorf("building process table: %w", err)
	}
	pt.Start()

	init, err := sched.UserInit(pt, "init", func(p *sched.PCB) {
		// Same reasoning as runYieldDemo's init: it must give up the CPU
		// via Wait so the forked sleeper below ever gets dispatched.
		for {
			if _, err := sched.Wait(pt, p); err != nil {
				select {}
			}
		}
	})
	if err != nil {
		return fmt.Errorf("userinit: %w", err)
	}

	var done sync.WaitGroup
	done.Add(1)
	childPidCh := make(chan sched.Pid, 1)
	_, err = sched.Fork(pt, init, func(p *sched.PCB) {
		defer done.Done()
		childPidCh <- p.Pid
		sched.Sleep(pt, p, p)
	})
	if err != nil {
		return fmt.Errorf("forking sleeper: %w", err)
	}

	childPid := <-childPidCh
	waitUntilSleeping(pt, childPid)

	fmt.Printf("sleeper pid=%d, sending signal %d (%s)\n", childPid, int(sig), signalName)
	if err := sched.Kill(pt, childPid); err != nil {
		return fmt.Errorf("kill: %w", err)
	}

	done.Wait()
	fmt.Println("sleeper woke and exited")
	return printProcessTable(pt)
}

// waitUntilSleeping polls CPS until pid reports SLEEPING, so the demo's
// Kill call always lands after the sleeper has actually parked rather than
// racing its first dispatch.
func waitUntilSleeping(pt *sched.ProcTable, pid sched.Pid) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rows, _ := sched.CPS(pt, io.Discard)
		for _, r := range rows {
			if r.Pid == pid && r.State == "SLEEPING" {
				return
			}
		}
		time.Sleep(time.Millisecond)
	}
}
