package completion

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Generation parameter bounds. Temperature follows the usual sampling range;
// the token ceiling matches the smallest completion window among the bundled
// models.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0

	MinMaxTokens = 1
	MaxMaxTokens = 4096
)

// Defaults applied when the user has not chosen anything.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
)

// MaxPromptLen is the longest prompt accepted, in characters.
const MaxPromptLen = 2000

// Settings holds the generation parameters sent with every completion call.
// The zero value is not valid; start from [DefaultSettings].
type Settings struct {
	// Temperature controls sampling randomness, in [MinTemperature, MaxTemperature].
	Temperature float64
	// MaxTokens caps the length of the generated completion.
	MaxTokens int
}

// DefaultSettings returns the settings used before the user adjusts anything.
func DefaultSettings() Settings {
	return Settings{
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// Validate checks the settings against the accepted ranges. It returns an
// [Error] of kind [KindInvalidInput] describing the first violation found.
func (s Settings) Validate() error {
	if s.Temperature < MinTemperature || s.Temperature > MaxTemperature {
		return InvalidInput(fmt.Sprintf("temperature must be between %g and %g, got %g", MinTemperature, MaxTemperature, s.Temperature))
	}

	if s.MaxTokens < MinMaxTokens || s.MaxTokens > MaxMaxTokens {
		return InvalidInput(fmt.Sprintf("max tokens must be between %d and %d, got %d", MinMaxTokens, MaxMaxTokens, s.MaxTokens))
	}

	return nil
}

// ValidatePrompt checks that a prompt is non-empty and within [MaxPromptLen]
// characters. Whitespace-only prompts count as empty.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return InvalidInput("prompt is empty")
	}

	if utf8.RuneCountInString(prompt) > MaxPromptLen {
		return InvalidInput(fmt.Sprintf("prompt is too long, keep it under %d characters", MaxPromptLen))
	}

	return nil
}
