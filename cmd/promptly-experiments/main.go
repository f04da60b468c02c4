// Promptly-experiments replays a fixed list of prompts through the
// OpenRouter API and prints a comparison of the outcomes. Each run is also
// saved as a timestamped JSON file so results can be compared later.
//
// The cases come from the experiments section of the configuration file, or
// from a built-in list of five mixed-style prompts.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/huh"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/mdiez/promptly/pkg/batch"
	"github.com/mdiez/promptly/pkg/catalog"
	"github.com/mdiez/promptly/pkg/completion"
	"github.com/mdiez/promptly/pkg/completion/usage"
	"github.com/mdiez/promptly/pkg/config"
	"github.com/mdiez/promptly/pkg/openrouter"
)

const (
	headerWidth  = 40
	summaryWidth = 50

	// shortResponse and longResponse bound the quality note on response
	// length, measured in characters.
	shortResponse = 30
	longResponse  = 400

	// previewLen is how much of each response is echoed while a run is in
	// progress.
	previewLen = 100
)

// options holds the parsed command line flags.
type options struct {
	configPath string
	modelID    string
	outDir     string
	delay      time.Duration
	yes        bool
	verbose    bool
}

func main() {
	var opts options

	flag.StringVar(&opts.configPath, "config", "promptly.yaml", "path to configuration file (ignored if missing)")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	flag.StringVar(&opts.modelID, "model", "", "model id to run the cases with")
	flag.StringVar(&opts.outDir, "out", ".", "directory for the results file")
	flag.DurationVar(&opts.delay, "delay", batch.DefaultDelay, "pause between cases")
	flag.BoolVar(&opts.yes, "yes", false, "run without asking for confirmation")
	flag.BoolVar(&opts.verbose, "verbose", false, "show request logs")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// run loads the configuration, asks for confirmation, replays the cases, and
// prints the summary.
func run(opts options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}

	cases := casesFromConfig(cfg)

	fmt.Println("Simple AI Experiment Runner")
	fmt.Println(strings.Repeat("=", headerWidth))
	fmt.Printf("This will test %d different prompts and show the results.\n", len(cases))

	if !opts.yes {
		proceed, err := confirmRun()
		if err != nil {
			return err
		}
		if !proceed {
			fmt.Println("Okay, maybe next time!")
			return nil
		}
	}

	key := cfg.ResolveAPIKey()
	if key == "" {
		fmt.Printf("You need an API key. Set %s first.\n", config.EnvAPIKey)
		return errors.New("no API key configured")
	}

	model, err := pickModel(cat, opts.modelID, cfg.DefaultModel)
	if err != nil {
		return err
	}

	client := openrouter.New(key)
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}
	if d := cfg.Timeout(); d > 0 {
		client.Client = &http.Client{Timeout: d}
	}
	client.Referer = cfg.SiteURL
	client.AppTitle = cfg.AppName

	logger := newLogger(opts.verbose)
	logger.Debug("run starting", "model", model.ID, "cases", len(cases))

	fmt.Println("\nStarting experiments...")

	runner := batch.NewRunner(completion.Chain(client, completion.Recovery(), completion.Logger(logger)), model.ID)
	runner.Delay = opts.delay
	runner.OnCaseStart = func(pos, total int, c batch.Case) {
		fmt.Printf("\nTest %d/%d: %s\n", pos, total, c.Name)
		fmt.Printf("Prompt: %s\n", c.Prompt)
	}
	runner.OnCaseDone = func(pos, total int, r batch.Result) {
		if r.Success() {
			fmt.Printf("Response: %s\n", preview(r.Text))
			fmt.Printf("Time: %.2fs\n", r.Elapsed.Seconds())
			return
		}
		fmt.Printf("Failed: %v\n", r.Err)
	}

	report, runErr := runner.Run(ctx, cases)
	if runErr != nil {
		fmt.Println("\nRun interrupted.")
	}

	printSummary(report, client.Usage.Total())
	saveReport(report, opts.outDir)

	fmt.Println("\nExperiment complete!")

	return nil
}

// confirmRun asks whether to start. On a terminal it shows an interactive
// confirm; otherwise it reads a y/n line so piped input works. An empty
// answer counts as yes.
func confirmRun() (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print("\nRun experiments? (y/n): ")

		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return false, nil
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "":
			return true, nil
		default:
			return false, nil
		}
	}

	proceed := true

	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title("Run experiments?").Value(&proceed),
	)).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}

	return proceed, nil
}

// casesFromConfig maps configured experiments onto batch cases. Cases with
// no overrides inherit the configured default settings. With no experiments
// configured the built-in list is used.
func casesFromConfig(cfg config.Config) []batch.Case {
	if len(cfg.Experiments) == 0 {
		return batch.DefaultCases()
	}

	base := cfg.Settings()

	cases := make([]batch.Case, len(cfg.Experiments))
	for i, e := range cfg.Experiments {
		s := base
		if e.Temperature != nil {
			s.Temperature = *e.Temperature
		}
		if e.MaxTokens != nil {
			s.MaxTokens = *e.MaxTokens
		}

		cases[i] = batch.Case{Name: e.Name, Prompt: e.Prompt, Settings: s}
	}

	return cases
}

// pickModel resolves the model for the run: an explicit id wins, then the
// configured default, then the first free model so unattended runs stay
// free, then the first entry.
func pickModel(cat catalog.Catalog, flagID, configID string) (catalog.Model, error) {
	id := flagID
	if id == "" {
		id = configID
	}

	if id != "" {
		model, ok := cat.ByID(id)
		if !ok {
			return catalog.Model{}, fmt.Errorf("unknown model %q", id)
		}
		return model, nil
	}

	if model, ok := cat.FirstFree(); ok {
		return model, nil
	}

	model, ok := cat.First()
	if !ok {
		return catalog.Model{}, errors.New("model catalog is empty")
	}

	return model, nil
}

// preview returns the first part of a response for the progress output.
func preview(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")

	r := []rune(s)
	if len(r) > previewLen {
		r = r[:previewLen]
	}

	return string(r) + "..."
}

// printSummary prints the results block: totals, average time, token usage,
// and one detailed entry per case.
func printSummary(report batch.Report, tokens usage.TokenCount) {
	line := strings.Repeat("=", summaryWidth)

	fmt.Println("\n" + line)
	fmt.Println("EXPERIMENT RESULTS")
	fmt.Println(line)

	fmt.Printf("Total tests: %d\n", len(report.Results))
	fmt.Printf("Successful: %d\n", report.Succeeded())
	fmt.Printf("Failed: %d\n", report.Failed())

	if report.Succeeded() > 0 {
		fmt.Printf("Average response time: %.2fs\n", report.AvgElapsed().Seconds())
	}

	if tokens.Total() > 0 {
		fmt.Printf("Total tokens: %d in, %d out\n", tokens.InputTokens, tokens.OutputTokens)
	}

	fmt.Println("\nDetailed Results:")
	fmt.Println(strings.Repeat("-", summaryWidth))

	for i, r := range report.Results {
		fmt.Printf("\n%d. %s\n", i+1, r.Case.Name)

		if !r.Success() {
			fmt.Printf("   Error: %v\n", r.Err)
			continue
		}

		n := utf8.RuneCountInString(r.Text)
		fmt.Printf("   Response length: %d characters\n", n)
		fmt.Printf("   Time: %.2fs\n", r.Elapsed.Seconds())
		fmt.Printf("   Settings: Creativity=%g, Length=%d\n", r.Case.Settings.Temperature, r.Case.Settings.MaxTokens)
		fmt.Printf("   Note: %s\n", lengthNote(n))
	}
}

// lengthNote is a rough quality check on response length.
func lengthNote(n int) string {
	switch {
	case n < shortResponse:
		return "Response seems short"
	case n > longResponse:
		return "Response is quite long"
	default:
		return "Response length looks good"
	}
}

// saveReport writes the results file. Failing to save is reported but does
// not fail the run.
func saveReport(report batch.Report, dir string) {
	path, err := report.WriteFile(dir)
	if err != nil {
		fmt.Printf("Couldn't save results: %v\n", err)
		return
	}

	fmt.Printf("\nResults saved to: %s\n", path)
}

// newLogger builds the process logger. Non-verbose runs discard everything
// so log lines never clutter the progress output.
func newLogger(verbose bool) *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return slog.New(slog.DiscardHandler)
}
