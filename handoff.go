package sched

import "github.com/joeycumines/logiface"

// This file implements the context-handoff contract of spec §4.9: sched,
// yield, sleep, wakeup/wakeup1, and forkret. Real xv6 crosses from a kernel
// thread's stack back to the per-CPU scheduler stack via the swtch
// assembly primitive, with the PT lock held across the switch and its
// ownership transferred to whichever side resumes.
//
// Go goroutines are already preemptively scheduled and have no literal
// register-level swtch. The idiomatic analog used here is a pair of
// unbuffered channels per PCB (resume, parked): schedSwitch releases
// pt.lock, signals parked (handing control to CPU.Run), and blocks on
// resume. Because sync.Mutex has no owner affinity in Go, the CPU's
// goroutine can hold the lock across the handoff and the resumed process
// goroutine can go on to release it — reproducing the "lock as a token"
// model spec §9's Design Notes calls for, without any unsafe pointer
// trickery.

// schedSwitch is "sched": the sole exit back to the scheduler thread.
// Callers must hold pt.lock, must not be Running, and must already have
// charged this dispatch's elapsed tick via chargeTick (its caller-specific
// placement relative to LastTime/OnYield bookkeeping is what keeps the
// RTime/IOTime split exact — see the comments at each call site). On
// return, pt.lock is held again (handed back by whichever CPU redispatches
// p).
func schedSwitch(pt *ProcTable, p *PCB) {
	if p.State == Running {
		fatalf("sched: called while RUNNING (pid=%d)", p.Pid)
	}
	pt.lock.Unlock()
	p.parked <- struct{}{}
	<-p.resume
}

// Yield voluntarily returns the CPU (spec §4.9): acquires pt.lock, flips
// the caller to Runnable, lets the active policy perform any per-policy
// bookkeeping (MLFQ demotion/rotation on quantum expiry), charges the
// elapsed tick, switches back to the scheduler, and releases pt.lock upon
// resumption.
func Yield(pt *ProcTable, p *PCB) {
	pt.lock.Lock()
	p.State = Runnable
	pt.policy.OnYield(pt, p)
	chargeTick(pt, p)
	schedSwitch(pt, p)
	pt.lock.Unlock()
}

// Sleep parks the caller on chanVal until a matching Wakeup or Kill (spec
// §4.9), for callers outside this package (a process's own run body). It
// acquires pt.lock itself, mirroring Yield's Lock/schedSwitch/Unlock shape,
// so a run body may call it directly without any way to pre-acquire the
// unexported table lock.
func Sleep(pt *ProcTable, p *PCB, chanVal any) {
	pt.lock.Lock()
	sleepLocked(pt, p, chanVal)
	pt.lock.Unlock()
}

// sleepLocked is Sleep's body for call sites that already hold pt.lock —
// waitInternal's check-children-then-sleep sequence must stay atomic with a
// concurrent Wakeup/Kill to avoid the classic lost-wakeup race (spec §4.9),
// so it cannot release and reacquire the lock around the call the way an
// external Sleep caller does.
//
// The original's "if lk != &ptable.lock, acquire PT lock then release lk"
// dance only matters when sleeping against some other subsystem's lock
// (disk buffer cache, etc.) — out of scope per spec §1's external
// collaborators, and this package's own call site (Wait/Waitx sleeping on
// its own PCB address) already holds the PT lock going in, so that branch
// never triggers here.
func sleepLocked(pt *ProcTable, p *PCB, chanVal any) {
	if p == nil {
		fatalf("sleep: no caller process")
	}
	p.Chan = chanVal
	p.State = Sleeping
	// Charge the tick this dispatch already spent running before stamping
	// LastTime, so the IOTime interval wakeup1Locked measures (now minus
	// LastTime) starts strictly after the tick just credited to RTime —
	// otherwise the two accounts would both claim the same tick and
	// rtime+iotime would overrun etime-ctime (spec §3/§8).
	chargeTick(pt, p)
	p.LastTime = pt.clock.Now()
	schedSwitch(pt, p)
	p.Chan = nil
}

// wakeup1Locked promotes every Sleeping PCB waiting on chanVal to
// Runnable, letting the policy enqueue it (spec §4.9 wakeup1). Caller must
// hold pt.lock.
func wakeup1Locked(pt *ProcTable, chanVal any) {
	if chanVal == nil {
		return
	}
	for _, p := range pt.slots {
		if p.State == Sleeping && p.Chan == chanVal {
			p.IOTime += pt.clock.Now() - p.LastTime
			p.State = Runnable
			pt.policy.OnWake(pt, p)
		}
	}
}

// Wakeup wraps wakeup1Locked in a lock acquire/release (spec §4.9).
func Wakeup(pt *ProcTable, chanVal any) {
	pt.lock.Lock()
	wakeup1Locked(pt, chanVal)
	pt.lock.Unlock()
}

// forkret runs once per newly-dispatched process goroutine, as its first
// entry point (spec §4.9): it releases the PT lock inherited from the
// dispatching CPU, then — on the very first invocation across the whole
// table — performs one-time deferred initialization that needs a process
// context (the original's inode cache / log recovery; here, nothing more
// than an optional log event, since the filesystem layer is out of scope).
func forkret(pt *ProcTable, p *PCB) {
	pt.lock.Unlock()
	pt.fsInit.Do(func() {
		if pt.logger != nil {
			pt.logger.Event(logiface.LevelInformational, "lifecycle", "deferred filesystem init", "pid", int(p.Pid))
		}
	})
}
