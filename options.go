package sched

// schedOptions holds configuration resolved from Option values.
type schedOptions struct {
	numCPU    int
	clock     Clock
	logger    Logger
	metrics   bool
	kstack    KernelStackAllocator
	vm        VM
	files     FileTable
	clicksPer [5]uint64
	agingTick uint64
}

// Option configures a ProcTable at construction time.
type Option interface {
	apply(*schedOptions) error
}

type optionFunc func(*schedOptions) error

func (f optionFunc) apply(o *schedOptions) error { return f(o) }

// WithNumCPU sets the number of per-CPU scheduler loops to run. Default 1.
func WithNumCPU(n int) Option {
	return optionFunc(func(o *schedOptions) error {
		if n < 1 {
			return &InvariantError{Message: "WithNumCPU: n must be >= 1"}
		}
		o.numCPU = n
		return nil
	})
}

// WithClock overrides the monotonic tick source. Default is an internal
// counter advanced by ProcTable.Tick.
func WithClock(c Clock) Option {
	return optionFunc(func(o *schedOptions) error {
		o.clock = c
		return nil
	})
}

// WithLogger attaches a structured logger. Default is a no-op logger.
func WithLogger(l Logger) Option {
	return optionFunc(func(o *schedOptions) error {
		o.logger = l
		return nil
	})
}

// WithMetrics enables runtime scheduling metrics collection, retrievable via
// ProcTable.Metrics.
func WithMetrics(enabled bool) Option {
	return optionFunc(func(o *schedOptions) error {
		o.metrics = enabled
		return nil
	})
}

// WithKernelStackAllocator overrides kernel stack allocation. Default is an
// in-memory byte-slice allocator sufficient for testing.
func WithKernelStackAllocator(a KernelStackAllocator) Option {
	return optionFunc(func(o *schedOptions) error {
		o.kstack = a
		return nil
	})
}

// WithVM overrides the virtual-memory subsystem handle. Default is an
// in-memory stub that tracks size only.
func WithVM(vm VM) Option {
	return optionFunc(func(o *schedOptions) error {
		o.vm = vm
		return nil
	})
}

// WithFileTable overrides the open-file/cwd reference-counting subsystem.
func WithFileTable(ft FileTable) Option {
	return optionFunc(func(o *schedOptions) error {
		o.files = ft
		return nil
	})
}

// WithMLFQQuanta overrides the per-level tick quanta for the mlfq build.
// Default {1, 2, 4, 8, 16}, matching the original clicks_per_queue table.
func WithMLFQQuanta(q [5]uint64) Option {
	return optionFunc(func(o *schedOptions) error {
		o.clicksPer = q
		return nil
	})
}

// WithMLFQAgingThreshold overrides the number of ticks a queue 2..5 process
// may wait before being promoted one level. Default 100.
func WithMLFQAgingThreshold(ticks uint64) Option {
	return optionFunc(func(o *schedOptions) error {
		o.agingTick = ticks
		return nil
	})
}

// resolveOptions applies Option values over the documented defaults.
func resolveOptions(opts []Option) (*schedOptions, error) {
	cfg := &schedOptions{
		numCPU:    1,
		clock:     newTickClock(),
		logger:    NewNoOpLogger(),
		kstack:    newMemKernelStackAllocator(),
		vm:        newMemVM(),
		files:     newMemFileTable(),
		clicksPer: [5]uint64{1, 2, 4, 8, 16},
		agingTick: 100,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
