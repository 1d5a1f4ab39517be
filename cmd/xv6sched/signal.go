package main

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// signalNames maps the handful of signal names the kill-demo subcommand
// accepts to their numeric values, the same way a real "kill -s SIGKILL"
// would resolve a name before delivering it. Nothing in this in-process
// scheduler model actually raises an OS signal — the demo only uses the
// parsed value to annotate the log line explaining why Kill was called.
var signalNames = map[string]unix.Signal{
	"SIGKILL": unix.SIGKILL,
	"SIGTERM": unix.SIGTERM,
	"SIGINT":  unix.SIGINT,
	"SIGSTOP": unix.SIGSTOP,
}

// parseSignal resolves a --signal flag value (name or bare number) to a
// unix.Signal, defaulting to SIGKILL when name is empty.
func parseSignal(name string) (unix.Signal, error) {
	if name == "" {
		return unix.SIGKILL, nil
	}
	if sig, ok := signalNames[strings.ToUpper(name)]; ok {
		return sig, nil
	}
	var n int
	if _, err := fmt.Sscanf(name, "%d", &n); err == nil && n > 0 {
		return unix.Signal(n), nil
	}
	return 0, fmt.Errorf("unknown signal %q", name)
}
