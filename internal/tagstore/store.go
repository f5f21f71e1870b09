// Package tagstore implements the three-layer symbolic tag store and
// edge memory the scan driver reads and writes each scan (spec §3,
// §4.1).
package tagstore

import (
	"github.com/go-plc/ladderscan/internal/tagvalue"
)

// edgeKey identifies one (tag, edge kind) edge-memory slot.
type edgeKey struct {
	tag  string
	edge string
}

// Store holds current, snapshot, and pending tag layers plus edge
// memory (spec §3 TagStore layers table). The zero value is not ready
// to use; call New. Store takes no internal locks: the embedding
// driver is responsible for not calling into it concurrently (spec
// §5).
type Store struct {
	current  map[string]tagvalue.Value
	snapshot map[string]tagvalue.Value
	pending  map[string]tagvalue.Value
	edge     map[edgeKey]bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		current:  make(map[string]tagvalue.Value),
		snapshot: make(map[string]tagvalue.Value),
		pending:  make(map[string]tagvalue.Value),
		edge:     make(map[edgeKey]bool),
	}
}

// Initialize seeds current and snapshot with value, for use before the
// first scan (spec §4.1).
func (s *Store) Initialize(tag string, value tagvalue.Value) {
	s.current[tag] = value
	s.snapshot[tag] = value
}

// SnapshotTags replaces snapshot with a copy of current. Called at the
// start of each scan (spec §4.1, §4.6 phase 2).
func (s *Store) SnapshotTags() {
	s.snapshot = make(map[string]tagvalue.Value, len(s.current))
	for k, v := range s.current {
		s.snapshot[k] = v
	}
}

// ClearPending empties pending. Called after SnapshotTags (spec §4.1,
// §4.6 phase 2).
func (s *Store) ClearPending() {
	s.pending = make(map[string]tagvalue.Value)
}

// ReadPendingOrSnapshot returns pending[tag] if present, else
// snapshot[tag], else the zero Value and false (spec §4.1, I2).
func (s *Store) ReadPendingOrSnapshot(tag string) (tagvalue.Value, bool) {
	if v, ok := s.pending[tag]; ok {
		return v, true
	}
	if v, ok := s.snapshot[tag]; ok {
		return v, true
	}
	return tagvalue.Value{}, false
}

// WritePending sets pending[tag]=value. Last write within the scan
// wins (spec §4.1, §4.3).
func (s *Store) WritePending(tag string, value tagvalue.Value) {
	s.pending[tag] = value
}

// CommitPending copies every pending entry into current without
// clearing pending; the next scan's ClearPending does that (spec §4.1,
// I3).
func (s *Store) CommitPending() {
	for k, v := range s.pending {
		s.current[k] = v
	}
}

// GetEdgeMemory returns the stored edge state for (tag, edge), default
// false if unset (spec §4.1, I4).
func (s *Store) GetEdgeMemory(tag, edge string) bool {
	return s.edge[edgeKey{tag: tag, edge: edge}]
}

// SetEdgeMemory records the current edge state for (tag, edge).
func (s *Store) SetEdgeMemory(tag, edge string, v bool) {
	s.edge[edgeKey{tag: tag, edge: edge}] = v
}

// Current returns current[tag], if present.
func (s *Store) Current(tag string) (tagvalue.Value, bool) {
	v, ok := s.current[tag]
	return v, ok
}

// AllCurrent returns a snapshot copy of the entire current layer, safe
// for the caller to retain (spec §4.6 ScanResult, §6 tag_values).
func (s *Store) AllCurrent() map[string]tagvalue.Value {
	out := make(map[string]tagvalue.Value, len(s.current))
	for k, v := range s.current {
		out[k] = v
	}
	return out
}

// Reset empties all four maps (spec §4.1).
func (s *Store) Reset() {
	s.current = make(map[string]tagvalue.Value)
	s.snapshot = make(map[string]tagvalue.Value)
	s.pending = make(map[string]tagvalue.Value)
	s.edge = make(map[edgeKey]bool)
}
