package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mdiez/promptly/pkg/catalog"
	"github.com/mdiez/promptly/pkg/completion"
	"github.com/mdiez/promptly/pkg/completion/usage"
	"github.com/mdiez/promptly/pkg/session"
)

// app bundles the pieces the chat loop works with.
type app struct {
	sess     *session.Session
	cat      catalog.Catalog
	examples []string
	tracker  *usage.Tracker
	reader   *lineReader
	verbose  bool
}

// chatLoop reads prompts and prints completions until the user exits or the
// context ends.
func chatLoop(ctx context.Context, a *app) error {
	promptLabel := ansiGreen + ansiBold + "Your prompt: " + ansiReset

	for {
		if ctx.Err() != nil {
			fmt.Println("\nGoodbye!")
			return nil
		}

		input, err := a.reader.Read(promptLabel)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("read prompt: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "help":
			printHelp(len(a.examples))
			continue
		case "settings":
			a.changeSettings()
			continue
		}

		if n, ok := exampleOrdinal(input, len(a.examples)); ok {
			input = a.examples[n-1]
			fmt.Printf("%sUsing:%s %s\n", ansiCyan, ansiReset, input)
		}

		if err := completion.ValidatePrompt(input); err != nil {
			printCompletionError(err, a.verbose)
			continue
		}

		a.complete(ctx, input)
	}
}

// complete sends one prompt through the session with a spinner running and
// prints the outcome.
func (a *app) complete(ctx context.Context, prompt string) {
	sp := newSpinner()
	sp.Start()

	started := time.Now()
	resp, err := a.sess.Complete(ctx, prompt)
	elapsed := time.Since(started)

	sp.Stop()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		printCompletionError(err, a.verbose)
		return
	}

	printResponse(resp, a.sess.Model(), elapsed, a.tracker)
}

// changeSettings runs the settings form and applies the result. Aborting the
// form keeps the current settings.
func (a *app) changeSettings() {
	model, settings, err := runSettingsForm(a.cat, a.sess.Model(), a.sess.Settings())
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Settings unchanged.")
			return
		}
		fmt.Printf("%sError: could not update settings: %v%s\n", ansiRed, err, ansiReset)
		return
	}

	a.sess.SetModel(model)
	if err := a.sess.SetSettings(settings); err != nil {
		printCompletionError(err, a.verbose)
		return
	}

	printSettings(model, settings)
}

// resolveModel picks the starting model: an explicit id wins, otherwise an
// interactive picker when stdin is a terminal, otherwise the first catalog
// entry.
func resolveModel(cat catalog.Catalog, id string, interactive bool) (catalog.Model, error) {
	if id != "" {
		model, ok := cat.ByID(id)
		if !ok {
			return catalog.Model{}, fmt.Errorf("unknown model %q", id)
		}
		return model, nil
	}

	first, ok := cat.First()
	if !ok {
		return catalog.Model{}, errors.New("model catalog is empty")
	}

	if !interactive {
		return first, nil
	}

	return chooseModel(cat, first)
}
