package plc

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/go-plc/ladderscan/internal/compiler"
	"github.com/go-plc/ladderscan/internal/constants"
	"github.com/go-plc/ladderscan/internal/interfaces"
	"github.com/go-plc/ladderscan/internal/ir"
	"github.com/go-plc/ladderscan/internal/logging"
	"github.com/go-plc/ladderscan/internal/runtime"
	"github.com/go-plc/ladderscan/internal/tagvalue"
)

// ManagerConfig configures a Manager at construction time.
type ManagerConfig struct {
	// Logger receives scan diagnostics. If nil, a default text logger
	// writing to stderr at info level is used.
	Logger interfaces.Logger

	// Observer is notified after every scan. If nil, no observer is
	// registered until Subscribe is called.
	Observer Observer
}

// Manager is the thin embedding façade around Runtime: it compiles LAD
// programs, seeds a default set of input/output tags, drives scan
// either on demand or on a periodic tick, and fans out ScanResults to
// registered observers (spec §4.7).
type Manager struct {
	mu sync.Mutex

	runtime *runtime.Runtime
	metrics *Metrics

	observers []Observer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	ticker *time.Ticker
}

// NewManager constructs an unloaded Manager.
func NewManager(cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	m := &Manager{
		runtime: runtime.New(logger),
		metrics: NewMetrics(),
	}
	if cfg.Observer != nil {
		m.observers = append(m.observers, cfg.Observer)
	}
	return m
}

// Subscribe registers an additional observer. Every scan's result (or
// error) is forwarded to every subscribed observer, in registration
// order.
func (m *Manager) Subscribe(obs Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, obs)
}

// Metrics returns the Manager's built-in scan metrics.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// LoadIR validates and installs an already-compiled program.
func (m *Manager) LoadIR(program *ir.Program) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.runtime.Load(program); err != nil {
		return WrapError("load_ir", ErrCodeValidation, err)
	}
	m.seedDefaultTagsLocked()
	return nil
}

// LoadLAD compiles a LAD program to IR, then installs it.
func (m *Manager) LoadLAD(lp *ir.LADProgram) error {
	program, err := compiler.Compile(lp)
	if err != nil {
		return WrapError("load_lad", ErrCodeCompile, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.runtime.Load(program); err != nil {
		return WrapError("load_lad", ErrCodeValidation, err)
	}
	m.seedDefaultTagsLocked()
	return nil
}

// seedDefaultTagsLocked seeds input_0..N-1 and output_0..N-1 aliases
// (spec §4.7) if they are not already present, so a freshly loaded
// program has a conventional set of I/O tags to drive fixtures
// against. Must be called with m.mu held.
func (m *Manager) seedDefaultTagsLocked() {
	for i := 0; i < constants.DefaultTagAliasCount; i++ {
		in := fmt.Sprintf("input_%d", i)
		out := fmt.Sprintf("output_%d", i)
		if _, ok := m.runtime.GetTag(in); !ok {
			m.runtime.SetTag(in, tagvalue.Bool(false))
		}
		if _, ok := m.runtime.GetTag(out); !ok {
			m.runtime.SetTag(out, tagvalue.Bool(false))
		}
	}
}

// SetTag writes tag directly, visible starting with the next scan.
func (m *Manager) SetTag(tag string, value tagvalue.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runtime.SetTag(tag, value)
}

// GetTag reads tag's last-committed value.
func (m *Manager) GetTag(tag string) (tagvalue.Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runtime.GetTag(tag)
}

// AllTags returns a copy of every committed tag value.
func (m *Manager) AllTags() map[string]tagvalue.Value {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runtime.AllTags()
}

// Reset clears all tag state and the scan counter. It stops any
// running periodic tick first.
func (m *Manager) Reset() {
	m.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runtime.Reset()
	m.metrics.Reset()
}

// addrPattern matches the synthetic input address form %I0.<n>.
var addrPattern = regexp.MustCompile(`^%I0\.(\d+)$`)

// inputAliases maps well-known input bit positions to the symbolic
// tag names used in test fixtures (spec §4.7).
var inputAliases = map[int]string{
	0: "start_button",
	1: "stop_button",
}

// SetInput accepts a synthetic address of the form %I0.<n> and writes
// value to both the raw address tag and the corresponding symbolic
// alias: input_<n>, plus start_button/stop_button for bits 0 and 1.
func (m *Manager) SetInput(address string, value bool) error {
	match := addrPattern.FindStringSubmatch(address)
	if match == nil {
		return NewError("set_input", ErrCodeInvalidParams, fmt.Sprintf("invalid input address %q", address))
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return NewError("set_input", ErrCodeInvalidParams, fmt.Sprintf("invalid input address %q", address))
	}

	v := tagvalue.Bool(value)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runtime.SetTag(ir.AddressToTagID(address), v)
	m.runtime.SetTag(fmt.Sprintf("input_%d", n), v)
	if alias, ok := inputAliases[n]; ok {
		m.runtime.SetTag(alias, v)
	}
	return nil
}

// Step runs exactly one scan on demand and fans its result out to
// every subscribed observer.
func (m *Manager) Step() (runtime.ScanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stepLocked()
}

func (m *Manager) stepLocked() (runtime.ScanResult, error) {
	res, err := m.runtime.Scan(nil)
	if err != nil {
		m.metrics.RecordScanError()
		for _, obs := range m.observers {
			obs.ObserveScanError(res.ScanNumber, err)
		}
		return runtime.ScanResult{}, WrapError("step", ErrCodeScan, err)
	}
	m.metrics.RecordScan(res.ScanDuration)
	for _, obs := range m.observers {
		obs.ObserveScan(res)
	}
	return res, nil
}

// Start begins a periodic tick that drives one scan every period,
// forwarding each ScanResult (or error) to every subscribed observer.
// A period of zero or less uses constants.DefaultScanIntervalMs. Start
// returns an ErrCodeInvalidParams error if a tick is already running
// (spec §4.7, grounded on the teacher's CreateAndServe/Device
// goroutine-lifecycle pattern).
func (m *Manager) Start(period time.Duration) error {
	if period <= 0 {
		period = constants.DefaultScanIntervalMs * time.Millisecond
	}
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return NewError("start", ErrCodeInvalidParams, "manager already running")
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.ctx = ctx
	m.cancel = cancel
	m.ticker = time.NewTicker(period)
	ticker := m.ticker
	m.mu.Unlock()

	m.wg.Add(1)
	go m.tickLoop(ctx, ticker)
	return nil
}

func (m *Manager) tickLoop(ctx context.Context, ticker *time.Ticker) {
	defer m.wg.Done()
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			_, _ = m.stepLocked()
			m.mu.Unlock()
		}
	}
}

// Stop cancels any running periodic tick and waits for the driving
// goroutine to exit, up to constants.ShutdownDrainTimeout; past that it
// returns anyway rather than block a caller on a stuck scan (grounded
// on the teacher's cleanup-with-timeout shutdown in cmd/ublk-mem). Stop
// is a no-op if no tick is running.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.ctx = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(constants.ShutdownDrainTimeout):
	}
}

// IsRunning reports whether a periodic tick is currently active.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}
