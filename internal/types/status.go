package types

import "sync"

// Failure records one failed unit of work.
type Failure struct {
	Entity  string // table or table.column identifier
	Message string
	Trace   string // optional stack or query context
}

// ProcessorStatus accumulates scanned entity identifiers, warnings and
// failures during a run. Workers append concurrently; the workflow layer
// reads it after the run to print a summary and decide the exit code.
type ProcessorStatus struct {
	mu       sync.Mutex
	scanned  []string
	warnings []string
	failures []Failure
}

// Scanned records a successfully processed entity identifier.
func (s *ProcessorStatus) Scanned(entity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanned = append(s.scanned, entity)
}

// Warn records a non-fatal warning.
func (s *ProcessorStatus) Warn(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, msg)
}

// Failed records a failed entity with its error message and optional trace.
func (s *ProcessorStatus) Failed(entity, msg, trace string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, Failure{Entity: entity, Message: msg, Trace: trace})
}

// ScannedEntities returns a copy of the scanned identifiers.
func (s *ProcessorStatus) ScannedEntities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.scanned))
	copy(out, s.scanned)
	return out
}

// Warnings returns a copy of the recorded warnings.
func (s *ProcessorStatus) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// Failures returns a copy of the recorded failures.
func (s *ProcessorStatus) Failures() []Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Failure, len(s.failures))
	copy(out, s.failures)
	return out
}

// OK reports whether the run finished without failures. A run with
// warnings or partially absent metrics still counts as successful.
func (s *ProcessorStatus) OK() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.failures) == 0
}
