// Package runtime implements the scan-cycle driver: the five-phase
// loop that snapshots tags, executes one cyclic organization block,
// commits pending writes, and reports a ScanResult (spec §4.6).
package runtime

import (
	"fmt"
	"time"

	"github.com/go-plc/ladderscan/internal/exec"
	"github.com/go-plc/ladderscan/internal/interfaces"
	"github.com/go-plc/ladderscan/internal/ir"
	"github.com/go-plc/ladderscan/internal/tagstore"
	"github.com/go-plc/ladderscan/internal/tagvalue"
)

// Clock returns the current time in milliseconds. Runtime reads a
// monotonic wall clock by default; tests inject a deterministic one
// (spec §4.6).
type Clock func() int64

// wallClockBase anchors WallClock's readings.
var wallClockBase = time.Now()

// WallClock is the default Clock: milliseconds elapsed since package
// initialization, measured with time.Since on time.Now's monotonic
// reading, so it never steps backwards.
func WallClock() int64 {
	return time.Since(wallClockBase).Milliseconds()
}

// ScanResult is the outcome of one scan: its sequence number,
// duration, and the committed tag values (spec §4.6, §6).
type ScanResult struct {
	ScanNumber   uint64
	ScanDuration time.Duration
	TagValues    map[string]tagvalue.Value
}

// Observer is notified after every scan (spec §4.7, §6). It has no
// dependency on the root package to avoid an import cycle.
type Observer interface {
	ObserveScan(ScanResult)
	ObserveScanError(scanNumber uint64, err error)
}

// NoOpObserver discards every notification.
type NoOpObserver struct{}

func (NoOpObserver) ObserveScan(ScanResult)          {}
func (NoOpObserver) ObserveScanError(uint64, error) {}

// Runtime owns a loaded program, a TagStore, and the scan counter. It
// takes no internal locks; the embedder must serialize calls (spec
// §5).
type Runtime struct {
	store      *tagstore.Store
	executor   *exec.Executor
	program    *ir.Program
	scanNumber uint64
	logger     interfaces.Logger
}

// New returns an unloaded Runtime.
func New(logger interfaces.Logger) *Runtime {
	store := tagstore.New()
	return &Runtime{
		store:    store,
		executor: exec.New(store),
		logger:   logger,
	}
}

// Load installs program as the runtime's loaded program, replacing any
// previously loaded program. It does not reset tag state (spec §3
// Lifecycles, §6 load_ir).
func (r *Runtime) Load(program *ir.Program) error {
	if err := program.Validate(); err != nil {
		return err
	}
	r.program = program
	return nil
}

// SetTag writes tag directly to current, visible starting with the
// next scan's snapshot (spec §5).
func (r *Runtime) SetTag(tag string, value tagvalue.Value) {
	r.store.Initialize(tag, value)
}

// GetTag reads tag's committed value.
func (r *Runtime) GetTag(tag string) (tagvalue.Value, bool) {
	return r.store.Current(tag)
}

// AllTags returns a copy of every committed tag value.
func (r *Runtime) AllTags() map[string]tagvalue.Value {
	return r.store.AllCurrent()
}

// Reset empties all tag state and the scan counter (spec §4.1, §6).
func (r *Runtime) Reset() {
	r.store.Reset()
	r.scanNumber = 0
}

// Scan runs one scan to completion, the five phases of spec §4.6. If
// clock is nil, WallClock is used.
func (r *Runtime) Scan(clock Clock) (ScanResult, error) {
	if r.program == nil {
		return ScanResult{}, fmt.Errorf("runtime: no program loaded")
	}
	if clock == nil {
		clock = WallClock
	}

	r.scanNumber++
	startTime := clock()

	r.store.SnapshotTags()
	r.store.ClearPending()

	r.executor.SetClock(startTime)

	ob, ok := r.program.CyclicOB()
	if ok {
		for _, net := range ob.Networks {
			for _, stmt := range net.Statements {
				if err := r.executor.Execute(stmt); err != nil {
					if r.logger != nil {
						r.logger.Printf("runtime: scan %d: network %s: statement %s: %v",
							r.scanNumber, net.ID, stmt.ID, err)
					}
					return ScanResult{ScanNumber: r.scanNumber}, fmt.Errorf("runtime: scan %d: network %s: statement %s: %w",
						r.scanNumber, net.ID, stmt.ID, err)
				}
			}
		}
	}

	r.store.CommitPending()

	duration := time.Duration(clock()-startTime) * time.Millisecond
	result := ScanResult{
		ScanNumber:   r.scanNumber,
		ScanDuration: duration,
		TagValues:    r.store.AllCurrent(),
	}
	if r.logger != nil {
		r.logger.Debugf("runtime: scan %d complete in %s", r.scanNumber, duration)
	}
	return result, nil
}

// ScanN runs n scans in sequence, returning every ScanResult in
// order. It stops and returns the error from the first failing scan.
func (r *Runtime) ScanN(n int, clock Clock) ([]ScanResult, error) {
	results := make([]ScanResult, 0, n)
	for i := 0; i < n; i++ {
		res, err := r.Scan(clock)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
