package plc

import (
	"testing"
	"time"
)

func TestMetricsRecordScanAccumulatesCountAndDuration(t *testing.T) {
	m := NewMetrics()
	m.RecordScan(5 * time.Millisecond)
	m.RecordScan(15 * time.Millisecond)

	snap := m.Snapshot()
	if snap.ScanCount != 2 {
		t.Fatalf("expected ScanCount 2, got %d", snap.ScanCount)
	}
	wantAvg := uint64((5*time.Millisecond + 15*time.Millisecond).Nanoseconds() / 2)
	if snap.AvgDurationNs != wantAvg {
		t.Fatalf("expected avg duration %d, got %d", wantAvg, snap.AvgDurationNs)
	}
}

func TestMetricsRecordScanErrorIncrementsErrorRate(t *testing.T) {
	m := NewMetrics()
	m.RecordScan(1 * time.Millisecond)
	m.RecordScanError()

	snap := m.Snapshot()
	if snap.ScanErrors != 1 {
		t.Fatalf("expected ScanErrors 1, got %d", snap.ScanErrors)
	}
	if snap.ErrorRate != 50.0 {
		t.Fatalf("expected 50%% error rate, got %v", snap.ErrorRate)
	}
}

func TestMetricsLatencyHistogramBucketsAreCumulative(t *testing.T) {
	m := NewMetrics()
	m.RecordScan(50 * time.Microsecond)  // falls in every bucket >= 100us
	m.RecordScan(500 * time.Millisecond) // falls only in the 1s bucket

	snap := m.Snapshot()
	if snap.LatencyHistogram[0] != 1 {
		t.Fatalf("expected 1 scan in the 100us bucket, got %d", snap.LatencyHistogram[0])
	}
	if snap.LatencyHistogram[numLatencyBuckets-1] != 2 {
		t.Fatalf("expected both scans counted in the 1s bucket, got %d", snap.LatencyHistogram[numLatencyBuckets-1])
	}
}

func TestMetricsResetZeroesCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordScan(1 * time.Millisecond)
	m.RecordScanError()

	m.Reset()

	snap := m.Snapshot()
	if snap.ScanCount != 0 || snap.ScanErrors != 0 || snap.AvgDurationNs != 0 {
		t.Fatalf("expected all counters zeroed after Reset, got %+v", snap)
	}
}

func TestMetricsObserverRecordsScanOutcomes(t *testing.T) {
	m := NewMetrics()
	obs := NewMetricsObserver(m)
	var _ Observer = obs

	obs.ObserveScanError(1, nil)
	if m.Snapshot().ScanErrors != 1 {
		t.Fatal("expected ObserveScanError to record a scan error")
	}
}
