package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	sched "github.com/teachos/xv6sched"
)

// printProcessTable renders the table's process list (sched.CPS) as a
// tablewriter grid, matching the PID/name/... row-building convention used
// throughout arctir-proctor's cmd package.
func printProcessTable(pt *sched.ProcTable) error {
	rows, _ := sched.CPS(pt, io.Discard)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"PID", "NAME", "STATE", "PRIORITY"})
	for _, r := range rows {
		table.Append([]string{
			strconv.Itoa(int(r.Pid)),
			r.Name,
			r.State,
			strconv.Itoa(r.Priority),
		})
	}
	table.Render()

	_, err := fmt.Fprint(os.Stdout, buf.String())
	return err
}

// printMetrics renders the table's metrics snapshot, if metrics were
// enabled at construction.
func printMetrics(pt *sched.ProcTable) {
	m := pt.Metrics()
	if m == nil {
		fmt.Println("metrics: disabled (construct with WithMetrics(true))")
		return
	}
	snap := m.Snapshot()
	fmt.Printf("switches=%d picks=%d idle-scans=%d dispatch-tps=%.2f queue-depth=%v\n",
		snap.Switches, snap.Picks, snap.IdleScans, snap.DispatchTPS, snap.QueueDepth)
}
