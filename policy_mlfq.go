//go:build mlfq

// Package sched, mlfq build: 5-level multi-level feedback queue. Grounded
// on the MLFQ #ifdef arm of scheduler() in proc.c (≈602-745, the
// `padhi:`-labeled promote-then-dispatch loop) and the priority-branching
// chain in yield() (proc.c:775-898).
package sched

type mlfqPolicy struct {
	bank *mlfqBank
}

func newPolicy() Policy { return &mlfqPolicy{bank: newMLFQBank()} }

func (p *mlfqPolicy) Name() string { return "mlfq" }

// PickNext performs aging/promotion (spec §4.8 step 1) then dispatch (step
// 2): any Runnable process in queues 2..5 that has waited ≥ agingTick ticks
// since LastTime is promoted one level before the dispatch scan runs.
func (p *mlfqPolicy) PickNext(pt *ProcTable) *PCB {
	now := pt.clock.Now()

	for level := 2; level <= 5; level++ {
		var starved []*PCB
		p.bank.forEachLevel(level, func(proc *PCB) {
			if proc.State == Runnable && uint64(now-proc.LastTime) >= pt.agingTick {
				starved = append(starved, proc)
			}
		})
		for _, proc := range starved {
			p.bank.promote(proc, now)
		}
	}

	next := p.bank.dequeueFirstRunnable()
	if next != nil {
		next.LastTime = now
	}
	return next
}

// OnYield implements demotion-on-quantum-expiry (spec §4.8): priority
// levels 1..4 demote one level on quantum expiry; level 5 rotates to its
// own tail instead of demoting further. Resolved into a single switch over
// priority, per spec §9's third Open Question (replacing the original's
// inconsistent if/else-if chain).
func (p *mlfqPolicy) OnYield(pt *ProcTable, proc *PCB) {
	lvl := levelIndex(proc.Priority)
	proc.Cq[lvl]++
	quantum := pt.clicksPer[lvl]
	now := pt.clock.Now()

	expired := proc.Cq[lvl] >= quantum
	switch {
	case !expired:
		p.bank.enqueue(proc)
	case proc.Priority >= 5:
		p.bank.rotate(proc, now)
	default:
		p.bank.demote(proc, now)
	}
}

// OnWake enqueues a freshly-Runnable process at the tail of the queue
// matching its current Priority (spec §4.8 "Enqueue on wake").
func (p *mlfqPolicy) OnWake(pt *ProcTable, proc *PCB) {
	proc.LastTime = pt.clock.Now()
	p.bank.enqueue(proc)
}

func (p *mlfqPolicy) OnExit(pt *ProcTable, proc *PCB) {
	p.bank.remove(proc)
}

// Depths implements depthReporter for Metrics.Snapshot.
func (p *mlfqPolicy) Depths() [5]int {
	var d [5]int
	for i := range d {
		d[i] = p.bank.depth(i + 1)
	}
	return d
}
