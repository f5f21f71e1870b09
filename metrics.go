package plc

import (
	"sync/atomic"
	"time"

	"github.com/go-plc/ladderscan/internal/runtime"
)

// LatencyBuckets defines the scan-duration histogram buckets in
// nanoseconds, log-spaced from 100us to 1s.
var LatencyBuckets = []uint64{
	100_000,     // 100us
	1_000_000,   // 1ms
	10_000_000,  // 10ms
	100_000_000, // 100ms
	1_000_000_000, // 1s
}

const numLatencyBuckets = 5

// Metrics tracks scan-cycle performance statistics: counts, error
// counts, and a scan-duration histogram (grounded on the teacher's
// atomic-counter metrics design).
type Metrics struct {
	ScanCount  atomic.Uint64
	ScanErrors atomic.Uint64

	TotalDurationNs atomic.Uint64

	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
	StopTime  atomic.Int64
}

// NewMetrics returns a Metrics instance with StartTime set to now.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordScan records one completed scan's duration.
func (m *Metrics) RecordScan(duration time.Duration) {
	m.ScanCount.Add(1)
	ns := uint64(duration.Nanoseconds())
	m.TotalDurationNs.Add(ns)
	for i, bucket := range LatencyBuckets {
		if ns <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// RecordScanError records one failed scan.
func (m *Metrics) RecordScanError() {
	m.ScanErrors.Add(1)
}

// Stop marks the runtime as stopped, for uptime accounting.
func (m *Metrics) Stop() {
	m.StopTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time copy of Metrics' counters plus
// derived statistics.
type MetricsSnapshot struct {
	ScanCount       uint64
	ScanErrors      uint64
	AvgDurationNs   uint64
	UptimeNs        uint64
	ScanRate        float64 // scans per second
	ErrorRate       float64 // percentage of failed scans
	LatencyHistogram [numLatencyBuckets]uint64
}

// Snapshot computes a MetricsSnapshot from the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		ScanCount:  m.ScanCount.Load(),
		ScanErrors: m.ScanErrors.Load(),
	}

	totalNs := m.TotalDurationNs.Load()
	if snap.ScanCount > 0 {
		snap.AvgDurationNs = totalNs / snap.ScanCount
	}

	start := m.StartTime.Load()
	stop := m.StopTime.Load()
	if stop > 0 {
		snap.UptimeNs = uint64(stop - start)
	} else {
		snap.UptimeNs = uint64(time.Now().UnixNano() - start)
	}

	if snap.UptimeNs > 0 {
		snap.ScanRate = float64(snap.ScanCount) / (float64(snap.UptimeNs) / 1e9)
	}
	totalAttempts := snap.ScanCount + snap.ScanErrors
	if totalAttempts > 0 {
		snap.ErrorRate = float64(snap.ScanErrors) / float64(totalAttempts) * 100.0
	}

	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}
	return snap
}

// Reset zeroes all counters and restarts StartTime.
func (m *Metrics) Reset() {
	m.ScanCount.Store(0)
	m.ScanErrors.Store(0)
	m.TotalDurationNs.Store(0)
	for i := 0; i < numLatencyBuckets; i++ {
		m.LatencyBuckets[i].Store(0)
	}
	m.StartTime.Store(time.Now().UnixNano())
	m.StopTime.Store(0)
}

// Observer receives notifications after every scan (spec §4.7, §6).
// It is an alias of the internal runtime Observer so embedders depend
// on only the root package.
type Observer = runtime.Observer

// NoOpObserver discards every notification.
type NoOpObserver = runtime.NoOpObserver

// MetricsObserver implements Observer by recording into a Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver returns an Observer that records scan outcomes
// into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveScan(res runtime.ScanResult) {
	o.metrics.RecordScan(res.ScanDuration)
}

func (o *MetricsObserver) ObserveScanError(scanNumber uint64, err error) {
	o.metrics.RecordScanError()
}

var _ Observer = (*MetricsObserver)(nil)
