// Promptly is an interactive terminal client for OpenRouter chat
// completions. It loads an optional YAML configuration and .env file,
// verifies the credential with a small test request, then runs a
// read-eval-print loop where each prompt is sent to the selected model and
// the completion is rendered as markdown.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/mdiez/promptly/pkg/completion"
	"github.com/mdiez/promptly/pkg/config"
	"github.com/mdiez/promptly/pkg/openrouter"
	"github.com/mdiez/promptly/pkg/session"
)

// pingTimeout bounds the startup connection test.
const pingTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "promptly.yaml", "path to configuration file (ignored if missing)")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	modelID := flag.String("model", "", "model id to start with (skips the picker)")
	verbose := flag.Bool("verbose", false, "show request logs and underlying errors")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(*configPath, *modelID, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run wires configuration, client and session together and enters the chat
// loop.
func run(configPath, modelID string, verbose bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
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

	logger := newLogger(verbose)

	printWelcome()

	key := cfg.ResolveAPIKey()
	if key == "" {
		printMissingKeyHelp()
		return errors.New("no API key configured")
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

	// The probe runs before model selection, against a free model, so the
	// check itself never costs credits.
	pingModel, ok := cat.FirstFree()
	if !ok {
		if pingModel, ok = cat.First(); !ok {
			return errors.New("model catalog is empty")
		}
	}

	fmt.Println("\nTesting connection...")

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	err = client.Ping(pingCtx, pingModel.ID)
	pingCancel()
	if err != nil {
		fmt.Printf("%sCan't connect. Check your API key.%s\n", ansiRed, ansiReset)
		if verbose {
			fmt.Printf("  %s%v%s\n", ansiDim, err, ansiReset)
		}
		return errors.New("connection test failed")
	}

	fmt.Println("Connected!")

	id := modelID
	if id == "" {
		id = cfg.DefaultModel
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	model, err := resolveModel(cat, id, interactive)
	if err != nil {
		return err
	}

	settings := cfg.Settings()
	if interactive {
		// Aborting the form keeps the configured defaults.
		if adjusted, formErr := runGenerationForm(settings); formErr == nil {
			settings = adjusted
		}
	}

	width, _, sizeErr := term.GetSize(int(os.Stdout.Fd()))
	if sizeErr != nil {
		width = 0
	}
	initMarkdownRenderer(width)

	examples := cfg.Examples()
	completer := completion.Chain(client, completion.Recovery(), completion.Logger(logger))

	fmt.Println()
	printSettings(model, settings)
	fmt.Println("Ready! Type 'exit' to quit, 'help' for commands.")
	printExamples(examples)
	fmt.Println()

	logger.Debug("starting chat", "model", model.ID)

	return chatLoop(ctx, &app{
		sess:     session.New(completer, model, settings),
		cat:      cat,
		examples: examples,
		tracker:  &client.Usage,
		reader:   newLineReader(),
		verbose:  verbose,
	})
}

// newLogger builds the process logger. Non-verbose runs discard everything
// so log lines never interleave with the chat.
func newLogger(verbose bool) *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return slog.New(slog.DiscardHandler)
}
