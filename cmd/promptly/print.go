package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mdiez/promptly/pkg/catalog"
	"github.com/mdiez/promptly/pkg/completion"
	"github.com/mdiez/promptly/pkg/completion/usage"
	"github.com/mdiez/promptly/pkg/config"
)

// printWelcome shows the startup banner.
func printWelcome() {
	line := rule("")

	fmt.Println()
	fmt.Println(ruleStyle.Render(line))
	fmt.Println(titleStyle.Render(center("Promptly · AI text completion", len(line))))
	fmt.Println(ruleStyle.Render(line))
}

// printMissingKeyHelp explains how to get a credential. Shown when no API
// key could be resolved.
func printMissingKeyHelp() {
	fmt.Println()
	fmt.Println("You need an API key.")
	fmt.Println("1. Sign up at https://openrouter.ai")
	fmt.Printf("2. Set %s in your environment or .env file\n", config.EnvAPIKey)
}

// printExamples lists the example prompts with their menu numbers.
func printExamples(examples []string) {
	fmt.Printf("\nExample prompts (type 1-%d):\n", len(examples))

	for i, example := range examples {
		fmt.Printf("%d. %s\n", i+1, example)
	}
}

func printHelp(exampleCount int) {
	fmt.Println("\nCommands:")
	fmt.Println("  exit      Quit the chat")
	fmt.Println("  help      Show this help message")
	fmt.Println("  settings  Change the model or generation settings")
	fmt.Printf("  1-%d       Send an example prompt\n", exampleCount)
	fmt.Println(dimStyle.Render("Anything else is sent to the model as a prompt."))
}

// printSettings echoes the active model and generation settings.
func printSettings(model catalog.Model, settings completion.Settings) {
	fmt.Printf("Using: %s (creativity %g, length %d tokens)\n",
		model.ID, settings.Temperature, settings.MaxTokens)
}

// printResponse renders one completion inside the response frame, followed
// by the usage line.
func printResponse(resp completion.Response, model catalog.Model, elapsed time.Duration, tracker *usage.Tracker) {
	heading := fmt.Sprintf("Response from %s:", model.Label())
	line := rule(heading)

	fmt.Println()
	fmt.Println(line)
	fmt.Println(heading)
	fmt.Println(line)
	fmt.Println(renderMarkdown(resp.Text))
	fmt.Println(line)

	printUsageLine(tracker, elapsed)
}

// printUsageLine displays token usage and timing after each completion.
func printUsageLine(tracker *usage.Tracker, elapsed time.Duration) {
	if tracker == nil {
		fmt.Printf("  %s[%s]%s\n", ansiDim, fmtDuration(elapsed), ansiReset)
		return
	}

	last, hasLast := tracker.Last()
	total := tracker.Total()

	if hasLast {
		fmt.Printf("  %s[last: ↑%s ↓%s · total: ↑%s ↓%s · %s]%s\n",
			ansiDim,
			fmtTokens(last.InputTokens),
			fmtTokens(last.OutputTokens),
			fmtTokens(total.InputTokens),
			fmtTokens(total.OutputTokens),
			fmtDuration(elapsed),
			ansiReset,
		)
	} else {
		fmt.Printf("  %s[%s]%s\n", ansiDim, fmtDuration(elapsed), ansiReset)
	}
}

// completionErrorText maps a classified completion error to the short
// message shown in the chat.
func completionErrorText(err error) string {
	switch completion.KindOf(err) {
	case completion.KindMissingCredential:
		return fmt.Sprintf("API key problem. Check your %s.", config.EnvAPIKey)
	case completion.KindInvalidInput:
		return err.Error()
	case completion.KindQuotaExceeded:
		return "Not enough credits."
	case completion.KindMalformedResponse:
		return "The model returned an unusable response. Try again."
	default:
		switch status := completion.StatusOf(err); status {
		case http.StatusTooManyRequests:
			return "Too many requests. Wait and try again."
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Sprintf("API key problem. Check your %s.", config.EnvAPIKey)
		case 0:
			return "Can't connect to internet."
		default:
			return fmt.Sprintf("API error: %d.", status)
		}
	}
}

// printCompletionError shows the friendly error line. Verbose mode adds the
// underlying error underneath.
func printCompletionError(err error, verbose bool) {
	fmt.Printf("\n%sError: %s%s\n", ansiRed, completionErrorText(err), ansiReset)

	if verbose {
		fmt.Printf("  %s%v%s\n", ansiDim, err, ansiReset)
	}
}
