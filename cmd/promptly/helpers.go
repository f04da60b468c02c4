package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/mattn/go-runewidth"
)

// frameWidth is the minimum width of the response frame.
const frameWidth = 50

// mdRenderer renders markdown to terminal-formatted output.
var mdRenderer *glamour.TermRenderer

func initMarkdownRenderer(width int) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return
	}
	mdRenderer = r
}

// renderMarkdown converts markdown text to terminal-formatted output.
// Falls back to plain text if the renderer is unavailable.
func renderMarkdown(text string) string {
	if mdRenderer == nil {
		return text
	}
	out, err := mdRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// rule returns a horizontal line wide enough for the given heading, but
// never narrower than frameWidth. Width is measured in display cells so
// wide characters count properly.
func rule(heading string) string {
	w := runewidth.StringWidth(heading)
	if w < frameWidth {
		w = frameWidth
	}
	return strings.Repeat("=", w)
}

// center pads s with leading spaces so it sits centered in width cells.
func center(s string, width int) string {
	pad := (width - runewidth.StringWidth(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// truncate returns s shortened to at most n runes, with "..." appended if
// truncated. Newlines are replaced with spaces for single-line display.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// fmtTokens formats a token count for display, using k/M suffixes.
func fmtTokens(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// fmtDuration formats a duration for display.
func fmtDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	min := int(d.Minutes())
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", min, sec)
}

// exampleOrdinal interprets input as a 1-based example number. The bool is
// false when input is not a digit string or is out of range.
func exampleOrdinal(input string, count int) (int, bool) {
	if input == "" {
		return 0, false
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n, true
}

// moveCursorWordLeft moves the cursor to the start of the previous word.
func moveCursorWordLeft(line []rune, cursor int) int {
	for cursor > 0 && unicode.IsSpace(line[cursor-1]) {
		cursor--
	}
	for cursor > 0 && !unicode.IsSpace(line[cursor-1]) {
		cursor--
	}
	return cursor
}

// moveCursorWordRight moves the cursor to the start of the next word.
func moveCursorWordRight(line []rune, cursor int) int {
	lineLen := len(line)
	if cursor < lineLen && !unicode.IsSpace(line[cursor]) {
		for cursor < lineLen && !unicode.IsSpace(line[cursor]) {
			cursor++
		}
	}
	for cursor < lineLen && unicode.IsSpace(line[cursor]) {
		cursor++
	}
	return cursor
}

// deleteWordBackward deletes the word backward from the cursor.
func deleteWordBackward(line []rune, cursor int) ([]rune, int) {
	newCursor := moveCursorWordLeft(line, cursor)
	return append(line[:newCursor], line[cursor:]...), newCursor
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
