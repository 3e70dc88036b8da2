package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// Writer is the engine-facing counter interface.
type Writer interface {
	SetTotals(files, bytes int64)
	AddFilesHashed(n int64)
	AddFilesFailed(n int64)
	AddFilesSkipped(n int64)
	AddBytesHashed(n int64)
}

// Reader exposes point-in-time counter reads to presenters.
type Reader interface {
	Snapshot() Snapshot
}

// Collector tracks manifest build statistics using lock-free atomic counters.
type Collector struct {
	filesHashed  atomic.Int64
	filesFailed  atomic.Int64
	filesSkipped atomic.Int64
	bytesHashed  atomic.Int64
	filesTotal   atomic.Int64
	bytesTotal   atomic.Int64
	startTime    time.Time

	// Ring buffer — written only by the presenter's Tick(), not workers.
	mu          sync.Mutex
	throughput  [ringSize]int64 // bytes delta per second
	filesPerSec [ringSize]int64 // files delta per second
	ringIdx     int
	ringCount   int // how many samples have been written (capped at ringSize)
	lastBytes   int64
	lastFiles   int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// SetTotals records scan totals (called once when the scan phase completes).
func (c *Collector) SetTotals(files, bytes int64) {
	c.filesTotal.Store(files)
	c.bytesTotal.Store(bytes)
}

func (c *Collector) AddFilesHashed(n int64)  { c.filesHashed.Add(n) }
func (c *Collector) AddFilesFailed(n int64)  { c.filesFailed.Add(n) }
func (c *Collector) AddFilesSkipped(n int64) { c.filesSkipped.Add(n) }
func (c *Collector) AddBytesHashed(n int64)  { c.bytesHashed.Add(n) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesHashed  int64
	FilesFailed  int64
	FilesSkipped int64
	BytesHashed  int64
	FilesTotal   int64
	BytesTotal   int64
	Elapsed      time.Duration
}

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesHashed:  c.filesHashed.Load(),
		FilesFailed:  c.filesFailed.Load(),
		FilesSkipped: c.filesSkipped.Load(),
		BytesHashed:  c.bytesHashed.Load(),
		FilesTotal:   c.filesTotal.Load(),
		BytesTotal:   c.bytesTotal.Load(),
		Elapsed:      c.Elapsed(),
	}
}

// Tick snapshots byte/file deltas into the ring buffer. Called 1/sec by the presenter.
func (c *Collector) Tick() {
	currentBytes := c.bytesHashed.Load()
	currentFiles := c.filesHashed.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	bytesDelta := currentBytes - c.lastBytes
	filesDelta := currentFiles - c.lastFiles
	c.lastBytes = currentBytes
	c.lastFiles = currentFiles

	c.throughput[c.ringIdx] = bytesDelta
	c.filesPerSec[c.ringIdx] = filesDelta
	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingSpeed returns average bytes/sec over the last n seconds of samples.
func (c *Collector) RollingSpeed(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollingAvg(c.throughput[:], seconds)
}

// RollingFilesPerSec returns average files/sec over the last n seconds.
func (c *Collector) RollingFilesPerSec(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollingAvg(c.filesPerSec[:], seconds)
}

func (c *Collector) rollingAvg(buf []int64, n int) float64 {
	count := n
	if count > c.ringCount {
		count = c.ringCount
	}
	if count == 0 {
		return 0
	}
	var sum int64
	for i := 0; i < count; i++ {
		idx := (c.ringIdx - 1 - i + ringSize) % ringSize
		sum += buf[idx]
	}
	return float64(sum) / float64(count)
}

// ETA estimates remaining time based on rolling speed and remaining bytes.
func (c *Collector) ETA() time.Duration {
	speed := c.RollingSpeed(10)
	if speed <= 0 {
		return 0
	}
	remaining := c.bytesTotal.Load() - c.bytesHashed.Load()
	if remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining)/speed) * time.Second
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"hashed=%d failed=%d skipped=%d bytes=%d",
		s.FilesHashed, s.FilesFailed, s.FilesSkipped, s.BytesHashed,
	)
}
