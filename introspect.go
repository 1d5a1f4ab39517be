// Introspection API (spec §4.10): getpinfo, cps, cpr, procdump.
package sched

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// ProcStat mirrors the procstat layout (spec §6): pid, runtime, num_run,
// current_queue, and per-level tick histogram.
type ProcStat struct {
	Pid          Pid
	Runtime      Tick
	NumRun       int
	CurrentQueue int
	Ticks        [5]uint64
}

// GetPInfo snapshots scheduling metadata for caller (spec §4.10). Returns
// the snapshot and the original's success code, 25, for call-site parity.
func GetPInfo(pt *ProcTable, caller *PCB) (ProcStat, int) {
	pt.lock.Lock()
	defer pt.lock.Unlock()
	return ProcStat{
		Pid:          caller.Pid,
		Runtime:      caller.RTime,
		NumRun:       caller.NumRun,
		CurrentQueue: caller.Priority,
		Ticks:        caller.Cq,
	}, 25
}

// CPSRow is one line of the cps() process listing.
type CPSRow struct {
	Pid      Pid
	Name     string
	State    string
	Priority int
}

// CPS prints pid/name/state/priority for every non-Unused process to
// os.Stdout-equivalent w, and returns the rows plus the original's success
// code, 24.
func CPS(pt *ProcTable, w io.Writer) ([]CPSRow, int) {
	pt.lock.Lock()
	defer pt.lock.Unlock()

	var rows []CPSRow
	for _, p := range pt.slots {
		if p.State == Unused {
			continue
		}
		rows = append(rows, CPSRow{Pid: p.Pid, Name: p.Name, State: p.State.String(), Priority: p.Priority})
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", r.Pid, r.Name, r.State, r.Priority)
	}
	return rows, 24
}

// CPR sets a target process's priority (PBS) and returns its pid (spec
// §4.10).
func CPR(pt *ProcTable, pid Pid, priority int) (Pid, error) {
	pt.lock.Lock()
	defer pt.lock.Unlock()

	p := pt.lookupLocked(pid)
	if p == nil {
		return 0, ErrUnknownPID
	}
	p.Priority = priority
	return pid, nil
}

// ProcDump walks the table and prints each non-Unused process, with a
// state dump for Sleeping entries (spec §4.10). Deliberately does not
// acquire pt.lock: it is a debugging aid meant to work even when the
// system may be wedged (e.g. deadlocked on the PT lock itself).
//
// Real xv6 prints a kernel stack trace for sleeping processes; Go offers
// no per-goroutine stack introspection without the goroutine's own
// cooperation, so this dumps the PCB's own state via go-spew instead — a
// deliberate trade-off, see DESIGN.md.
func ProcDump(pt *ProcTable, w io.Writer) {
	for _, p := range pt.slots {
		if p.State == Unused {
			continue
		}
		fmt.Fprintf(w, "%d %-12s %-9s priority=%d rtime=%d iotime=%d\n",
			p.Pid, p.Name, p.State, p.Priority, p.RTime, p.IOTime)
		if p.State == Sleeping {
			spew.Fdump(w, p)
		}
	}
}
