package models

import "sync"

// ProcessingStats counts how far an import run got through its source
// set. Total is zero when the run never reached the source, for example
// when the CMS token is missing.
type ProcessingStats struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
}

// ImportResult is the outcome of one batch import run. It is a plain
// value; copies are independent and safe to serialize.
type ImportResult struct {
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Failed  int               `json:"failed"`
	Errors  map[string]string `json:"errors"`
	Stats   ProcessingStats   `json:"processingStats"`
}

// ImportAccumulator collects per-record outcomes while a run is in
// flight. Records within a batch are imported in parallel, so every
// method is mutex guarded; Snapshot hands out the result as a value.
type ImportAccumulator struct {
	mu     sync.Mutex
	result ImportResult
}

func NewImportAccumulator() *ImportAccumulator {
	return &ImportAccumulator{result: ImportResult{Errors: map[string]string{}}}
}

func (a *ImportAccumulator) RecordCreated() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.result.Created++
	a.result.Stats.Processed++
}

func (a *ImportAccumulator) RecordUpdated() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.result.Updated++
	a.result.Stats.Processed++
}

// RecordFailure notes a per-record failure keyed by an identifier the
// caller can trace back to the source row.
func (a *ImportAccumulator) RecordFailure(key, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.result.Failed++
	a.result.Stats.Processed++
	a.result.Errors[key] = message
}

// Fail records a run-level failure that prevented any record from being
// processed. Stats are left untouched.
func (a *ImportAccumulator) Fail(key, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.result.Failed++
	a.result.Errors[key] = message
}

func (a *ImportAccumulator) SetTotal(total int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.result.Stats.Total = total
}

// Snapshot returns a copy of the result so far, with its own error map.
func (a *ImportAccumulator) Snapshot() ImportResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	errs := make(map[string]string, len(a.result.Errors))
	for k, v := range a.result.Errors {
		errs[k] = v
	}
	out := a.result
	out.Errors = errs
	return out
}
