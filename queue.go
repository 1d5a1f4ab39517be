//go:build mlfq

// Package sched, mlfq build: the five-level MLFQ ready-queue bank (spec
// §4.6). Implemented as bounded FIFOs (container/list) with O(1)
// enqueue/dequeue/remove, per spec §9 Design Notes' call to replace the
// original's open-coded array shifts with exactly this shape.
package sched

import "container/list"

// mlfqBank holds the five FIFO ready queues, priority 1 (index 0, highest)
// through priority 5 (index 4, lowest).
type mlfqBank struct {
	levels [5]*list.List
}

func newMLFQBank() *mlfqBank {
	b := &mlfqBank{}
	for i := range b.levels {
		b.levels[i] = list.New()
	}
	return b
}

// enqueue appends p to the tail of the queue for p.Priority (1..5).
func (b *mlfqBank) enqueue(p *PCB) {
	lvl := levelIndex(p.Priority)
	p.mlfqElem = b.levels[lvl].PushBack(p)
}

// remove drops p from whichever queue it currently occupies, if any. Safe
// to call when p is not enqueued.
func (b *mlfqBank) remove(p *PCB) {
	if p.mlfqElem == nil {
		return
	}
	elem, ok := p.mlfqElem.(*list.Element)
	if !ok {
		return
	}
	// list.Remove is a no-op on any list that does not own elem, so only
	// the level p actually sits in is changed.
	for i := range b.levels {
		b.levels[i].Remove(elem)
	}
	p.mlfqElem = nil
}

// dequeueFirstRunnable scans levels 1..5 in order and removes+returns the
// first RUNNABLE process found, or nil.
func (b *mlfqBank) dequeueFirstRunnable() *PCB {
	for i := range b.levels {
		for e := b.levels[i].Front(); e != nil; e = e.Next() {
			p := e.Value.(*PCB)
			if p.State == Runnable {
				b.levels[i].Remove(e)
				p.mlfqElem = nil
				return p
			}
		}
	}
	return nil
}

// forEachLevel calls fn for every PCB currently queued at level (1..5), in
// FIFO order, without removing them.
func (b *mlfqBank) forEachLevel(level int, fn func(*PCB)) {
	lvl := levelIndex(level)
	for e := b.levels[lvl].Front(); e != nil; e = e.Next() {
		fn(e.Value.(*PCB))
	}
}

// depth returns the number of processes currently queued at level (1..5).
func (b *mlfqBank) depth(level int) int {
	return b.levels[levelIndex(level)].Len()
}

// promote moves p from its current level to the next-higher level (one
// lower numerically), updating p.Priority and re-stamping LastTime.
func (b *mlfqBank) promote(p *PCB, now Tick) {
	b.remove(p)
	if p.Priority > 1 {
		p.Priority--
	}
	p.LastTime = now
	b.enqueue(p)
}

// demote moves p to the next-lower level (one higher numerically, capped at
// 5), re-stamping LastTime and resetting its per-level tick counter.
func (b *mlfqBank) demote(p *PCB, now Tick) {
	b.remove(p)
	if p.Priority < 5 {
		p.Priority++
	}
	p.LastTime = now
	p.Cq[levelIndex(p.Priority)] = 0
	b.enqueue(p)
}

// rotate moves p to the tail of its current (unchanged) level.
func (b *mlfqBank) rotate(p *PCB, now Tick) {
	b.remove(p)
	p.LastTime = now
	p.Cq[levelIndex(p.Priority)] = 0
	b.enqueue(p)
}

func levelIndex(priority int) int {
	if priority < 1 {
		return 0
	}
	if priority > 5 {
		return 4
	}
	return priority - 1
}
