package sched

import "github.com/joeycumines/logiface"

// pageSize stands in for the hardware page size used to size the init
// process's first user stack page (spec §4.3).
const pageSize = 4096

// allocProcLocked is "allocproc" (spec §4.2): linear scan for the first
// Unused slot, claim it, allocate a kernel stack, and initialize
// accounting. Deliberately does not touch the candidate slot until a free
// one is confirmed and its kernel stack allocation has succeeded — spec
// §9's first Open Question flags the original's write-before-confirming
// bug; this never reproduces it.
func allocProcLocked(pt *ProcTable) (*PCB, error) {
	p := pt.findSlotLocked()
	if p == nil {
		return nil, ErrTableFull
	}
	ks, err := pt.kstack.Alloc()
	if err != nil {
		return nil, WrapError("allocproc: kernel stack allocation failed", err)
	}

	p.Pid = pt.nextPid
	pt.nextPid++
	p.State = Embryo
	p.KStack = ks
	p.CTime = pt.clock.Now()
	p.LastTime = p.CTime

	switch pt.policy.Name() {
	case "mlfq":
		p.Priority = 1
	case "pbs":
		p.Priority = 60
	default:
		p.Priority = 0
	}

	return p, nil
}

// freeSlotLocked releases a claimed-but-not-yet-runnable slot back to
// Unused, used when fork's VM clone fails after allocproc already
// succeeded (spec §4.4).
func freeSlotLocked(pt *ProcTable, p *PCB) {
	if p.KStack != nil {
		pt.kstack.Free(p.KStack)
	}
	p.reset()
}

// startProcessGoroutine launches p's kernel thread: it parks until first
// dispatched, runs forkret, then p.run, then exits.
func startProcessGoroutine(pt *ProcTable, p *PCB) {
	go func() {
		<-p.resume
		forkret(pt, p)
		if p.run != nil {
			p.run(p)
		}
		Exit(pt, p)
	}()
}

// AllocProc allocates a new PCB named name whose kernel thread body is run.
// run is invoked once the process is first dispatched, and should call
// Yield/Sleep/Wait/etc. as needed; when run returns, the process exits
// automatically. AllocProc alone does not make the process schedulable or
// start its goroutine — callers use UserInit or Fork, which do so only
// once VM setup has succeeded and the PCB is confirmed Runnable (a freed
// PCB must never have a goroutine racing its reset channels).
func AllocProc(pt *ProcTable, name string, run func(*PCB)) (*PCB, error) {
	pt.lock.Lock()
	p, err := allocProcLocked(pt)
	if err != nil {
		pt.lock.Unlock()
		return nil, err
	}
	p.Name = name
	p.run = run
	pt.lock.Unlock()
	return p, nil
}

// UserInit creates the first process (spec §4.3): allocate its PCB, build
// its kernel VM, set cwd to "/", and flip it Runnable. This PCB becomes the
// reparenting target for every future orphan.
func UserInit(pt *ProcTable, name string, run func(*PCB)) (*PCB, error) {
	p, err := AllocProc(pt, name, run)
	if err != nil {
		return nil, err
	}

	as, err := pt.vm.SetupKernel()
	if err != nil {
		pt.lock.Lock()
		freeSlotLocked(pt, p)
		pt.lock.Unlock()
		return nil, WrapError("userinit: vm setup failed", err)
	}

	pt.lock.Lock()
	p.PGDir = as
	p.Sz = pageSize
	p.Cwd = newMemInodeRef("/")
	p.State = Runnable
	pt.policy.OnWake(pt, p)
	pt.init = p
	pt.lock.Unlock()

	startProcessGoroutine(pt, p)
	if pt.logger != nil {
		pt.logger.Event(logiface.LevelInformational, "lifecycle", "userinit", "pid", int(p.Pid))
	}
	return p, nil
}

// Fork creates a child of parent (spec §4.4): clone the parent's address
// space, copy size/priority/name, duplicate open files and cwd, and flip
// the child Runnable. Returns the child's pid.
//
// fork() in the original returns twice — 0 in the child, the child's pid
// in the parent — because both continue executing the same function from
// the point of the syscall. Go has no equivalent address-space duplication:
// the caller supplies the child's body (run) explicitly, and Fork returns
// the new pid once, to the parent. See DESIGN.md for why this collapses
// cleanly instead of needing a contrived two-return emulation.
func Fork(pt *ProcTable, parent *PCB, run func(*PCB)) (Pid, error) {
	child, err := AllocProc(pt, parent.Name, run)
	if err != nil {
		return 0, ErrAllocFailed
	}

	as, err := pt.vm.Clone(parent.PGDir, parent.Sz)
	if err != nil {
		pt.lock.Lock()
		freeSlotLocked(pt, child)
		pt.lock.Unlock()
		return 0, ErrAllocFailed
	}

	pt.lock.Lock()
	child.PGDir = as
	child.Sz = parent.Sz
	child.Parent = parent
	child.Priority = parent.Priority
	for i, f := range parent.OFile {
		if f != nil {
			child.OFile[i] = pt.files.Dup(f)
		}
	}
	if parent.Cwd != nil {
		child.Cwd = parent.Cwd.Dup()
	}
	child.State = Runnable
	pt.policy.OnWake(pt, child)
	pid := child.Pid
	pt.lock.Unlock()

	startProcessGoroutine(pt, child)
	if pt.logger != nil {
		pt.logger.Event(logiface.LevelInformational, "lifecycle", "fork", "parent", int(parent.Pid), "child", int(pid))
	}
	return pid, nil
}

// Exit terminates the calling process (spec §4.5): close its files, release
// cwd, wake its parent, reparent its children to init (waking init if any
// child is already Zombie), stamp etime, and become Zombie. Forbidden for
// the init process. Never returns to its caller's own run function — it is
// always invoked as the last statement of the process's kernel-thread
// goroutine body (see startProcessGoroutine).
func Exit(pt *ProcTable, p *PCB) {
	if p == pt.init {
		fatalf("exit: init process exiting")
	}

	for i, f := range p.OFile {
		if f != nil {
			_ = pt.files.Close(f)
			p.OFile[i] = nil
		}
	}
	if p.Cwd != nil {
		p.Cwd.Put()
		p.Cwd = nil
	}

	pt.lock.Lock()
	wakeup1Locked(pt, p.Parent)
	for _, c := range pt.slots {
		if c.State != Unused && c.Parent == p {
			c.Parent = pt.init
			if c.State == Zombie {
				wakeup1Locked(pt, pt.init)
			}
		}
	}
	chargeTick(pt, p)
	p.ETime = pt.clock.Now()
	p.State = Zombie
	pt.policy.OnExit(pt, p)

	if pt.logger != nil {
		pt.logger.Event(logiface.LevelInformational, "lifecycle", "exit", "pid", int(p.Pid))
	}

	// Final handoff: unlike Yield/Sleep, exit never resumes — the process's
	// kernel thread (goroutine) simply ends, the Go-idiomatic equivalent of
	// a kernel thread whose kstack is never swtch'd into again.
	pt.lock.Unlock()
	p.parked <- struct{}{}
}

// Kill marks pid for termination (spec §4.7): sets its Killed flag and, if
// it is Sleeping, wakes it so it can reach a kill-check point. Returns
// ErrUnknownPID if no process matches pid.
func Kill(pt *ProcTable, pid Pid) error {
	pt.lock.Lock()
	defer pt.lock.Unlock()

	p := pt.lookupLocked(pid)
	if p == nil {
		return ErrUnknownPID
	}
	p.Killed = true
	if p.State == Sleeping {
		p.IOTime += pt.clock.Now() - p.LastTime
		p.State = Runnable
		pt.policy.OnWake(pt, p)
	}
	return nil
}

// Wait reaps one zombie child of caller (spec §4.6), blocking until one is
// available. Returns ErrNoChildren if caller has no children, or
// ErrKilled if caller was killed while waiting.
func Wait(pt *ProcTable, caller *PCB) (Pid, error) {
	pid, _, _, err := waitInternal(pt, caller)
	return pid, err
}

// Waitx is Wait plus wait/run tick accounting (spec §4.6): wtime is
// etime-ctime-rtime-iotime, rtime is the reaped child's total run ticks.
func Waitx(pt *ProcTable, caller *PCB) (pid Pid, wtime Tick, rtime Tick, err error) {
	return waitInternal(pt, caller)
}

func waitInternal(pt *ProcTable, caller *PCB) (Pid, Tick, Tick, error) {
	pt.lock.Lock()
	for {
		hasChildren := false
		var zombie *PCB
		for _, c := range pt.slots {
			if c.State != Unused && c.Parent == caller {
				hasChildren = true
				if c.State == Zombie {
					zombie = c
					break
				}
			}
		}

		if zombie != nil {
			pid := zombie.Pid
			rtime := zombie.RTime
			wtime := zombie.ETime - zombie.CTime - zombie.RTime - zombie.IOTime
			if pt.kstack != nil {
				pt.kstack.Free(zombie.KStack)
			}
			if pt.vm != nil {
				pt.vm.Free(zombie.PGDir)
			}
			zombie.reset()
			pt.lock.Unlock()
			return pid, wtime, rtime, nil
		}

		if !hasChildren {
			pt.lock.Unlock()
			return 0, 0, 0, ErrNoChildren
		}
		if caller.Killed {
			pt.lock.Unlock()
			return 0, 0, 0, ErrKilled
		}

		// Sleep on the caller's own PCB address; exit/reparenting wake this
		// exact channel via wakeup1 (spec §4.6). Uses the already-locked
		// variant: pt.lock is held continuously from the children scan above
		// through entering Sleeping, so a concurrent Wakeup/Kill can never
		// slip between the check and the sleep.
		sleepLocked(pt, caller, caller)
	}
}
