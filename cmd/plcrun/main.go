// Command plcrun loads a LAD or IR program and drives its scan
// cycle from the command line: either a fixed number of on-demand
// scans, or a periodic tick until interrupted (spec §6).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	plc "github.com/go-plc/ladderscan"
	"github.com/go-plc/ladderscan/internal/ir"
	"github.com/go-plc/ladderscan/internal/logging"
	"github.com/go-plc/ladderscan/internal/runtime"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		ladPath  = flag.String("lad", "", "path to a LAD program JSON file")
		irPath   = flag.String("ir", "", "path to a compiled IR program JSON file")
		scans    = flag.Int("scans", 0, "run this many on-demand scans then exit (0 = run periodic tick until signaled)")
		periodMs = flag.Int("period-ms", 100, "periodic tick interval in milliseconds when -scans is 0")
		verbose  = flag.Bool("v", false, "verbose (debug-level) logging")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)

	if (*ladPath == "") == (*irPath == "") {
		logger.Printf("exactly one of -lad or -ir is required")
		return 1
	}

	mgr := plc.NewManager(plc.ManagerConfig{Logger: logger})
	mgr.Subscribe(consoleObserver{})

	if err := loadProgram(mgr, *ladPath, *irPath); err != nil {
		logger.Printf("load: %v", err)
		return 1
	}

	if *scans > 0 {
		return runFixed(mgr, *scans, logger)
	}
	return runPeriodic(mgr, time.Duration(*periodMs)*time.Millisecond, logger)
}

func loadProgram(mgr *plc.Manager, ladPath, irPath string) error {
	if ladPath != "" {
		data, err := os.ReadFile(ladPath)
		if err != nil {
			return fmt.Errorf("read lad file: %w", err)
		}
		var lp ir.LADProgram
		if err := json.Unmarshal(data, &lp); err != nil {
			return fmt.Errorf("parse lad file: %w", err)
		}
		return mgr.LoadLAD(&lp)
	}

	data, err := os.ReadFile(irPath)
	if err != nil {
		return fmt.Errorf("read ir file: %w", err)
	}
	var program ir.Program
	if err := json.Unmarshal(data, &program); err != nil {
		return fmt.Errorf("parse ir file: %w", err)
	}
	return mgr.LoadIR(&program)
}

// runFixed runs exactly n on-demand scans, then exits 0 unless a scan
// fails (spec §6 Exit semantics).
func runFixed(mgr *plc.Manager, n int, logger *logging.Logger) int {
	for i := 0; i < n; i++ {
		if _, err := mgr.Step(); err != nil {
			logger.Printf("scan: %v", err)
			return 1
		}
	}
	return 0
}

// runPeriodic drives scans on a tick until SIGINT/SIGTERM, then stops
// cleanly and exits 0 (spec §6 Exit semantics).
func runPeriodic(mgr *plc.Manager, period time.Duration, logger *logging.Logger) int {
	if err := mgr.Start(period); err != nil {
		logger.Printf("start: %v", err)
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Printf("received shutdown signal")
	mgr.Stop()
	return 0
}

// consoleObserver prints each ScanResult as a JSON line to stdout and
// each scan error as a plain-text line to stderr, the CLI's watch-data
// surface (spec §6).
type consoleObserver struct{}

func (consoleObserver) ObserveScan(res runtime.ScanResult) {
	out, err := json.Marshal(watchLine{
		ScanNumber:    res.ScanNumber,
		ScanDurationU: res.ScanDuration.Microseconds(),
		Tags:          res.TagValues,
	})
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stdout, string(out))
}

func (consoleObserver) ObserveScanError(scanNumber uint64, err error) {
	fmt.Fprintf(os.Stderr, "scan %d error: %v\n", scanNumber, err)
}

// watchLine is the JSON-serializable projection of a ScanResult printed
// to stdout. tagvalue.Value and its structured instances carry no json
// tags, so each tag value marshals with encoding/json's default
// exported-field encoding (Kind, Bool, Number, ...).
type watchLine struct {
	ScanNumber    uint64      `json:"scan_number"`
	ScanDurationU int64       `json:"scan_duration_us"`
	Tags          interface{} `json:"tag_values"`
}
