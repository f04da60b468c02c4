package batch

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Report gathers the results of one batch run.
type Report struct {
	// RunID uniquely identifies this run.
	RunID string
	// Model is the provider model identifier the run used.
	Model string
	// Started is when the run began.
	Started time.Time
	// Results holds one entry per case, in case order.
	Results []Result
}

// Succeeded returns the number of cases that produced a completion.
func (r Report) Succeeded() int {
	n := 0

	for _, res := range r.Results {
		if res.Success() {
			n++
		}
	}

	return n
}

// Failed returns the number of cases that ended in an error.
func (r Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// AvgElapsed returns the mean duration of the successful cases, or 0 when
// none succeeded.
func (r Report) AvgElapsed() time.Duration {
	var sum time.Duration

	n := 0

	for _, res := range r.Results {
		if res.Success() {
			sum += res.Elapsed
			n++
		}
	}

	if n == 0 {
		return 0
	}

	return sum / time.Duration(n)
}

// --- JSON persistence ---

// fileReport is the on-disk shape of a report.
type fileReport struct {
	RunID   string       `json:"run_id"`
	Model   string       `json:"model"`
	Started time.Time    `json:"started"`
	Results []fileResult `json:"results"`
}

type fileResult struct {
	TestName  string       `json:"test_name"`
	Prompt    string       `json:"prompt"`
	Response  *string      `json:"response"` // null when the case failed
	Settings  fileSettings `json:"settings"`
	TimeTaken float64      `json:"time_taken"` // seconds, two decimals
	Success   bool         `json:"success"`
	Error     string       `json:"error,omitempty"`
}

type fileSettings struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Filename returns the file name a saved report gets, derived from the run's
// start time.
func (r Report) Filename() string {
	return fmt.Sprintf("experiment_results_%s.json", r.Started.Format("20060102_150405"))
}

// WriteFile saves the report as indented JSON in dir and returns the full
// path. The file name comes from [Report.Filename].
func (r Report) WriteFile(dir string) (string, error) {
	out := fileReport{
		RunID:   r.RunID,
		Model:   r.Model,
		Started: r.Started,
		Results: make([]fileResult, len(r.Results)),
	}

	for i, res := range r.Results {
		fr := fileResult{
			TestName: res.Case.Name,
			Prompt:   res.Case.Prompt,
			Settings: fileSettings{
				Temperature: res.Case.Settings.Temperature,
				MaxTokens:   res.Case.Settings.MaxTokens,
			},
			TimeTaken: roundSeconds(res.Elapsed),
			Success:   res.Success(),
		}

		if res.Success() {
			text := res.Text
			fr.Response = &text
		} else {
			fr.Error = res.Err.Error()
		}

		out.Results[i] = fr
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("batch: marshal report: %w", err)
	}

	path := filepath.Join(dir, r.Filename())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("batch: save report: %w", err)
	}

	return path, nil
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
