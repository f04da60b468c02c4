// Package batch replays a fixed list of prompts through a completer, one at
// a time, and collects the outcomes into a report.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mdiez/promptly/pkg/completion"
)

// DefaultDelay is the pause between consecutive cases. It keeps runs polite
// toward free-tier rate limits.
const DefaultDelay = time.Second

// Case is one named experiment: a prompt plus the settings to run it with.
type Case struct {
	Name     string
	Prompt   string
	Settings completion.Settings
}

// Result is the outcome of one case. Err is nil on success.
type Result struct {
	Case    Case
	Text    string
	Elapsed time.Duration
	Err     error
}

// Success reports whether the case produced a completion.
func (r Result) Success() bool {
	return r.Err == nil
}

// Runner replays cases sequentially. One failed case records its error and
// the run moves on; only context cancellation stops a run early.
type Runner struct {
	// Completer performs the calls.
	Completer completion.Completer
	// Model is the provider model identifier used for every case.
	Model string
	// Delay is the pause between consecutive cases. Zero means none.
	Delay time.Duration

	// OnCaseStart, when set, is called before each case runs.
	// Positions are 1-based.
	OnCaseStart func(pos, total int, c Case)
	// OnCaseDone, when set, is called after each case finishes.
	OnCaseDone func(pos, total int, r Result)
}

// NewRunner creates a Runner with the default inter-case delay.
func NewRunner(c completion.Completer, model string) *Runner {
	return &Runner{
		Completer: c,
		Model:     model,
		Delay:     DefaultDelay,
	}
}

// Run replays the cases in order and returns a report holding one result per
// case, in the same order. The returned error is non-nil only when the
// context ended the run early; the report then holds the results gathered so
// far.
func (r *Runner) Run(ctx context.Context, cases []Case) (Report, error) {
	report := Report{
		RunID:   uuid.New().String(),
		Model:   r.Model,
		Started: time.Now(),
		Results: make([]Result, 0, len(cases)),
	}

	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if i > 0 && r.Delay > 0 {
			select {
			case <-time.After(r.Delay):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}

		if r.OnCaseStart != nil {
			r.OnCaseStart(i+1, len(cases), c)
		}

		res := r.runCase(ctx, c)
		report.Results = append(report.Results, res)

		if r.OnCaseDone != nil {
			r.OnCaseDone(i+1, len(cases), res)
		}
	}

	return report, nil
}

// RunAll is a convenience for replaying bare prompts with shared settings.
// Cases are named by position.
func (r *Runner) RunAll(ctx context.Context, prompts []string, settings completion.Settings) (Report, error) {
	cases := make([]Case, len(prompts))
	for i, p := range prompts {
		cases[i] = Case{
			Name:     fmt.Sprintf("Prompt %d", i+1),
			Prompt:   p,
			Settings: settings,
		}
	}

	return r.Run(ctx, cases)
}

func (r *Runner) runCase(ctx context.Context, c Case) Result {
	start := time.Now()

	resp, err := r.Completer.Complete(ctx, completion.Request{
		Prompt:   c.Prompt,
		Model:    r.Model,
		Settings: c.Settings,
	})

	res := Result{
		Case:    c,
		Elapsed: time.Since(start),
		Err:     err,
	}

	if err == nil {
		res.Text = resp.Text
	}

	return res
}

// DefaultCases returns the built-in experiment cases: five prompts covering
// different writing styles, each with settings tuned to match.
func DefaultCases() []Case {
	return []Case{
		{
			Name:     "Creative Story",
			Prompt:   "Once upon a time, there was a robot who discovered they could feel emotions.",
			Settings: completion.Settings{Temperature: 0.8, MaxTokens: 200},
		},
		{
			Name:     "Simple Explanation",
			Prompt:   "Explain photosynthesis to a 10-year-old.",
			Settings: completion.Settings{Temperature: 0.3, MaxTokens: 150},
		},
		{
			Name:     "Poetry",
			Prompt:   "Write a haiku about the ocean.",
			Settings: completion.Settings{Temperature: 0.9, MaxTokens: 100},
		},
		{
			Name:     "Information",
			Prompt:   "Summarize the main benefits of renewable energy sources.",
			Settings: completion.Settings{Temperature: 0.2, MaxTokens: 200},
		},
		{
			Name:     "Technical Explanation",
			Prompt:   "Explain recursion in programming like I'm five years old.",
			Settings: completion.Settings{Temperature: 0.4, MaxTokens: 150},
		},
	}
}
