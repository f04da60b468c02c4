package usage_test

import (
	"sync"
	"testing"

	"github.com/mdiez/promptly/pkg/completion/usage"
	"github.com/stretchr/testify/assert"
)

const (
	llama = "meta-llama/llama-3.2-3b-instruct:free"
	gpt   = "openai/gpt-3.5-turbo"
)

func TestTokenCount_Total(t *testing.T) {
	tc := usage.TokenCount{InputTokens: 100, OutputTokens: 50}
	assert.Equal(t, 150, tc.Total())
}

func TestTokenCount_Add(t *testing.T) {
	a := usage.TokenCount{InputTokens: 10, OutputTokens: 5}
	b := usage.TokenCount{InputTokens: 1, OutputTokens: 2}

	assert.Equal(t, usage.TokenCount{InputTokens: 11, OutputTokens: 7}, a.Add(b))
}

func TestTracker_Add_And_Count(t *testing.T) {
	var tr usage.Tracker

	assert.Equal(t, 0, tr.Count())

	tr.Add(llama, usage.TokenCount{InputTokens: 10, OutputTokens: 5})
	assert.Equal(t, 1, tr.Count())

	tr.Add(llama, usage.TokenCount{InputTokens: 20, OutputTokens: 10})
	assert.Equal(t, 2, tr.Count())
}

func TestTracker_Last_Empty(t *testing.T) {
	var tr usage.Tracker

	rec, ok := tr.Last()
	assert.False(t, ok)
	assert.Equal(t, usage.Record{}, rec)
}

func TestTracker_Last(t *testing.T) {
	var tr usage.Tracker

	tr.Add(llama, usage.TokenCount{InputTokens: 10, OutputTokens: 5})
	tr.Add(gpt, usage.TokenCount{InputTokens: 20, OutputTokens: 10})

	rec, ok := tr.Last()
	assert.True(t, ok)
	assert.Equal(t, gpt, rec.Model)
	assert.Equal(t, usage.TokenCount{InputTokens: 20, OutputTokens: 10}, rec.TokenCount)
}

func TestTracker_Total(t *testing.T) {
	var tr usage.Tracker

	tr.Add(llama, usage.TokenCount{InputTokens: 10, OutputTokens: 5})
	tr.Add(gpt, usage.TokenCount{InputTokens: 20, OutputTokens: 10})

	total := tr.Total()
	assert.Equal(t, 30, total.InputTokens)
	assert.Equal(t, 15, total.OutputTokens)
	assert.Equal(t, 45, total.Total())
}

func TestTracker_TotalFor(t *testing.T) {
	var tr usage.Tracker

	tr.Add(llama, usage.TokenCount{InputTokens: 10, OutputTokens: 5})
	tr.Add(gpt, usage.TokenCount{InputTokens: 20, OutputTokens: 10})
	tr.Add(llama, usage.TokenCount{InputTokens: 1, OutputTokens: 1})

	assert.Equal(t, usage.TokenCount{InputTokens: 11, OutputTokens: 6}, tr.TotalFor(llama))
	assert.Equal(t, usage.TokenCount{InputTokens: 20, OutputTokens: 10}, tr.TotalFor(gpt))
	assert.Equal(t, usage.TokenCount{}, tr.TotalFor("unknown/model"))
}

func TestTracker_Reset(t *testing.T) {
	var tr usage.Tracker

	tr.Add(llama, usage.TokenCount{InputTokens: 10, OutputTokens: 5})
	tr.Add(llama, usage.TokenCount{InputTokens: 20, OutputTokens: 10})
	assert.Equal(t, 2, tr.Count())

	tr.Reset()
	assert.Equal(t, 0, tr.Count())

	_, ok := tr.Last()
	assert.False(t, ok)

	assert.Equal(t, usage.TokenCount{}, tr.Total())
}

func TestTracker_Concurrent_Add(t *testing.T) {
	var tr usage.Tracker

	const goroutines = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()
			tr.Add(llama, usage.TokenCount{InputTokens: 1, OutputTokens: 1})
		}()
	}

	wg.Wait()

	assert.Equal(t, goroutines, tr.Count())

	total := tr.Total()
	assert.Equal(t, goroutines, total.InputTokens)
	assert.Equal(t, goroutines, total.OutputTokens)
}
