package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	const goroutines = 100
	const opsPerGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for op := 0; op < opsPerGoroutine; op++ {
				c.AddFilesHashed(1)
				c.AddFilesFailed(1)
				c.AddFilesSkipped(1)
				c.AddBytesHashed(256)
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	expected := int64(goroutines * opsPerGoroutine)
	assert.Equal(t, expected, s.FilesHashed)
	assert.Equal(t, expected, s.FilesFailed)
	assert.Equal(t, expected, s.FilesSkipped)
	assert.Equal(t, expected*256, s.BytesHashed)
}

func TestSnapshotString(t *testing.T) {
	s := Snapshot{
		FilesHashed:  8,
		FilesFailed:  1,
		FilesSkipped: 1,
		BytesHashed:  4096,
	}
	assert.Equal(t, "hashed=8 failed=1 skipped=1 bytes=4096", s.String())
}

func TestNewCollector(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.startTime.IsZero())
	assert.InDelta(t, 0, c.Elapsed().Seconds(), 1)
}

func TestSetTotals(t *testing.T) {
	c := NewCollector()
	c.SetTotals(100, 1024*1024)
	s := c.Snapshot()
	assert.Equal(t, int64(100), s.FilesTotal)
	assert.Equal(t, int64(1024*1024), s.BytesTotal)
}

func TestTickAndRollingSpeed(t *testing.T) {
	c := NewCollector()

	// Simulate 5 seconds of 1000 bytes/sec.
	for i := 0; i < 5; i++ {
		c.AddBytesHashed(1000)
		c.AddFilesHashed(10)
		c.Tick()
	}

	speed := c.RollingSpeed(5)
	assert.InDelta(t, 1000.0, speed, 0.01)

	fps := c.RollingFilesPerSec(5)
	assert.InDelta(t, 10.0, fps, 0.01)
}

func TestRollingSpeedPartialWindow(t *testing.T) {
	c := NewCollector()

	// Only 2 samples.
	c.AddBytesHashed(500)
	c.Tick()
	c.AddBytesHashed(500)
	c.Tick()

	// Ask for 10 but only have 2.
	speed := c.RollingSpeed(10)
	assert.InDelta(t, 500.0, speed, 0.01)
}

func TestRollingSpeedNoSamples(t *testing.T) {
	c := NewCollector()
	assert.Equal(t, 0.0, c.RollingSpeed(5))
}

func TestRingWraparound(t *testing.T) {
	c := NewCollector()

	// Fill past the ring buffer.
	for i := 0; i < ringSize+10; i++ {
		c.AddBytesHashed(int64(i + 1))
		c.Tick()
	}

	speed := c.RollingSpeed(ringSize)
	assert.Greater(t, speed, 0.0)
}

func TestETA(t *testing.T) {
	c := NewCollector()
	c.SetTotals(100, 10000)

	// Simulate hashing 5000 bytes at 1000/sec.
	for i := 0; i < 5; i++ {
		c.AddBytesHashed(1000)
		c.Tick()
	}

	eta := c.ETA()
	assert.InDelta(t, 5.0, eta.Seconds(), 1.0)
}

func TestETANoSpeed(t *testing.T) {
	c := NewCollector()
	c.SetTotals(100, 10000)
	assert.Equal(t, time.Duration(0), c.ETA())
}

func TestETAComplete(t *testing.T) {
	c := NewCollector()
	c.SetTotals(1, 1000)
	c.AddBytesHashed(1000)
	c.Tick()
	assert.Equal(t, time.Duration(0), c.ETA())
}

func TestSnapshotIncludesElapsed(t *testing.T) {
	c := NewCollector()
	time.Sleep(10 * time.Millisecond)
	s := c.Snapshot()
	assert.Greater(t, s.Elapsed, time.Duration(0))
}
