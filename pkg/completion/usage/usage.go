// Package usage tracks token consumption across completion calls.
package usage

import "sync"

// TokenCount holds input and output token counts for a single completion call.
type TokenCount struct {
	InputTokens  int
	OutputTokens int
}

// Total returns the sum of input and output tokens.
func (tc TokenCount) Total() int {
	return tc.InputTokens + tc.OutputTokens
}

// Add returns the element-wise sum of two counts.
func (tc TokenCount) Add(other TokenCount) TokenCount {
	return TokenCount{
		InputTokens:  tc.InputTokens + other.InputTokens,
		OutputTokens: tc.OutputTokens + other.OutputTokens,
	}
}

// Record is one completion call's usage, tagged with the model that served it.
type Record struct {
	Model string
	TokenCount
}

// Tracker accumulates token usage across completion calls. The model can
// change between calls, so each entry remembers which one served it.
// Safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	records []Record
}

// Add records the usage of one call.
func (t *Tracker) Add(model string, tc TokenCount) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records = append(t.records, Record{Model: model, TokenCount: tc})
}

// Last returns the most recent record.
// The bool is false when the tracker has no records.
func (t *Tracker) Last() (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.records) == 0 {
		return Record{}, false
	}

	return t.records[len(t.records)-1], true
}

// Total returns the aggregate token count across all records.
func (t *Tracker) Total() TokenCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total TokenCount
	for _, r := range t.records {
		total = total.Add(r.TokenCount)
	}

	return total
}

// TotalFor returns the aggregate token count for one model.
func (t *Tracker) TotalFor(model string) TokenCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total TokenCount
	for _, r := range t.records {
		if r.Model == model {
			total = total.Add(r.TokenCount)
		}
	}

	return total
}

// Count returns the number of recorded calls.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.records)
}

// Reset clears all records.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records = nil
}
