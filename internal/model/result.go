package model

import (
	"sync"
	"time"
)

// FieldFix is a proposed replacement value for one tag field.
type FieldFix struct {
	// Field is the logical field name, e.g. "artist".
	Field string

	// Key is the key the value was found under in the container.
	// For frame based tags this is the frame ID (e.g. "TPE1"), otherwise
	// the canonical name.
	Key string

	// Old is the malformed value as read from the file.
	Old string

	// New is the de-duplicated value.
	New string
}

// FileStatus is the outcome of processing one audio file.
type FileStatus int

const (
	// StatusClean means no field matched the duplication pattern.
	StatusClean FileStatus = iota

	// StatusWouldFix means fixes were found but not written (dry run).
	StatusWouldFix

	// StatusFixed means all fixes were applied and persisted.
	StatusFixed

	// StatusDecodeFailed means the tag container could not be read.
	StatusDecodeFailed

	// StatusPersistFailed means fixes were found but writing them failed.
	// The file is left as it was.
	StatusPersistFailed
)

// String returns the status name used in logs and reports.
func (s FileStatus) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusWouldFix:
		return "would_fix"
	case StatusFixed:
		return "fixed"
	case StatusDecodeFailed:
		return "decode_failed"
	case StatusPersistFailed:
		return "persist_failed"
	default:
		return "unknown"
	}
}

// Failed reports whether the status is one of the failure states.
func (s FileStatus) Failed() bool {
	return s == StatusDecodeFailed || s == StatusPersistFailed
}

// Summary is the canonical, read-only view of a file's main fields.
//
// Track and Disc hold only the leading number of values such as "3/12";
// they are "0" when the file carries no such field.
type Summary struct {
	Format   string
	FileType string
	Artist   string
	Album    string
	Title    string
	Track    string
	Disc     string
}

// FileResult records what happened to one audio file.
type FileResult struct {
	Path    string
	Scheme  string
	Fixes   []FieldFix
	Status  FileStatus
	Err     error
	Summary *Summary
}

// FixCount returns the number of fields that matched the duplication
// pattern.
func (r FileResult) FixCount() int {
	return len(r.Fixes)
}

// Report collects the results of one scan run.
//
// Report is safe for concurrent use; Add may be called while other
// goroutines read the counters.
type Report struct {
	RunID    string
	Root     string
	DryRun   bool
	Started  time.Time
	Finished time.Time

	mu      sync.Mutex
	results []FileResult
	counts  map[FileStatus]int
	fields  int
}

// NewReport creates an empty report for a run over root.
func NewReport(runID, root string, dryRun bool) *Report {
	return &Report{
		RunID:   runID,
		Root:    root,
		DryRun:  dryRun,
		Started: time.Now(),
		counts:  make(map[FileStatus]int),
	}
}

// Add appends a result.
func (r *Report) Add(res FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = append(r.results, res)
	r.counts[res.Status]++
	if res.Status == StatusFixed || res.Status == StatusWouldFix {
		r.fields += len(res.Fixes)
	}
}

// Finish stamps the finish time.
func (r *Report) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Finished = time.Now()
}

// Results returns a copy of the results in processing order.
func (r *Report) Results() []FileResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]FileResult, len(r.results))
	copy(out, r.results)
	return out
}

// Affected returns the results whose files were fixed or would be fixed.
func (r *Report) Affected() []FileResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []FileResult
	for _, res := range r.results {
		if res.Status == StatusFixed || res.Status == StatusWouldFix {
			out = append(out, res)
		}
	}
	return out
}

// Count returns the number of files with the given status.
func (r *Report) Count(status FileStatus) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[status]
}

// Processed returns the number of files taken off the queue.
func (r *Report) Processed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

// FieldsFixed returns the total number of fields fixed, or that would be
// fixed in a dry run.
func (r *Report) FieldsFixed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fields
}

// Failures returns the number of files that failed to decode or persist.
func (r *Report) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[StatusDecodeFailed] + r.counts[StatusPersistFailed]
}

// Duration returns how long the run took, or has taken so far.
func (r *Report) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Finished.IsZero() {
		return time.Since(r.Started)
	}
	return r.Finished.Sub(r.Started)
}
