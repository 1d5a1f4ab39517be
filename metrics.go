package sched

import (
	"sync"
	"time"
)

// Metrics tracks runtime scheduling statistics. All metrics are optional and
// only populated when a ProcTable is constructed with WithMetrics(true).
//
// Thread Safety: all Metrics methods are safe for concurrent use by multiple
// CPU scheduler loops.
type Metrics struct {
	mu sync.Mutex

	// switches counts completed context switches (scheduler -> process ->
	// scheduler round trips), across all CPUs.
	switches uint64

	// dispatchRate tracks context switches per second over a rolling window.
	dispatchRate *rateCounter

	// queueDepth holds the last-observed MLFQ queue depths (index 0..4 for
	// priority 1..5). Zero value for non-MLFQ builds.
	queueDepth [5]int

	// picks counts PickNext calls that found a runnable process; idleScans
	// counts those that returned nil.
	picks     uint64
	idleScans uint64
}

// newMetrics constructs a Metrics with a 10s/100ms dispatch-rate window.
func newMetrics() *Metrics {
	return &Metrics{
		dispatchRate: newRateCounter(10*time.Second, 100*time.Millisecond),
	}
}

// recordSwitch is called by the scheduler loop after every completed
// context switch.
func (m *Metrics) recordSwitch() {
	m.mu.Lock()
	m.switches++
	m.mu.Unlock()
	m.dispatchRate.Increment()
}

// recordPick is called by the scheduler loop after every PickNext call.
func (m *Metrics) recordPick(found bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if found {
		m.picks++
	} else {
		m.idleScans++
	}
}

// setQueueDepth records the current MLFQ queue depth for level (1..5).
func (m *Metrics) setQueueDepth(level int, depth int) {
	if level < 1 || level > 5 {
		return
	}
	m.mu.Lock()
	m.queueDepth[level-1] = depth
	m.mu.Unlock()
}

// Snapshot is a point-in-time copy of Metrics, safe to read without a lock.
type Snapshot struct {
	Switches      uint64
	DispatchTPS   float64
	QueueDepth    [5]int
	Picks         uint64
	IdleScans     uint64
}

// Snapshot returns a consistent copy of the current metrics.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Switches:    m.switches,
		DispatchTPS: m.dispatchRate.Rate(),
		QueueDepth:  m.queueDepth,
		Picks:       m.picks,
		IdleScans:   m.idleScans,
	}
}

// rateCounter tracks events per second with a rolling window, using a ring
// buffer of fixed-duration buckets rotated lazily on read/write.
type rateCounter struct {
	mu         sync.Mutex
	buckets    []int64
	bucketSize time.Duration
	lastRotate time.Time
}

// newRateCounter creates a rate counter over windowSize, divided into
// buckets of bucketSize (bucketSize must evenly fit within windowSize).
func newRateCounter(windowSize, bucketSize time.Duration) *rateCounter {
	if windowSize <= 0 || bucketSize <= 0 || bucketSize > windowSize {
		fatalf("newRateCounter: invalid window=%s bucket=%s", windowSize, bucketSize)
	}
	n := int(windowSize / bucketSize)
	if n < 1 {
		n = 1
	}
	return &rateCounter{
		buckets:    make([]int64, n),
		bucketSize: bucketSize,
		lastRotate: time.Now(),
	}
}

// Increment records one event in the current bucket.
func (r *rateCounter) Increment() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotateLocked()
	r.buckets[len(r.buckets)-1]++
}

// Rate returns events per second over the rolling window.
func (r *rateCounter) Rate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotateLocked()
	var sum int64
	for _, c := range r.buckets {
		sum += c
	}
	if sum == 0 {
		return 0
	}
	duration := float64(len(r.buckets)) * r.bucketSize.Seconds()
	return float64(sum) / duration
}

func (r *rateCounter) rotateLocked() {
	elapsed := time.Since(r.lastRotate)
	advance := int64(elapsed / r.bucketSize)
	if advance <= 0 {
		return
	}
	if advance >= int64(len(r.buckets)) {
		for i := range r.buckets {
			r.buckets[i] = 0
		}
		r.lastRotate = time.Now()
		return
	}
	n := int(advance)
	copy(r.buckets, r.buckets[n:])
	for i := len(r.buckets) - n; i < len(r.buckets); i++ {
		r.buckets[i] = 0
	}
	r.lastRotate = r.lastRotate.Add(time.Duration(n) * r.bucketSize)
}
