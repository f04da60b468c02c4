package completion

import (
	"context"

	"github.com/mdiez/promptly/pkg/completion/usage"
)

// Request describes a single completion call. Every request is independent:
// no conversation history travels with it.
type Request struct {
	// Prompt is the user text sent to the model.
	Prompt string
	// Model is the provider-side model identifier.
	Model string
	// Settings holds the generation parameters for this call.
	Settings Settings
}

// Validate checks the request against the accepted input ranges.
// It returns an [Error] of kind [KindInvalidInput] describing the first
// violation found.
func (r Request) Validate() error {
	if r.Model == "" {
		return InvalidInput("no model selected")
	}

	if err := ValidatePrompt(r.Prompt); err != nil {
		return err
	}

	return r.Settings.Validate()
}

// Response is the provider's reply to a single [Request].
type Response struct {
	// Text is the generated completion with surrounding whitespace trimmed.
	Text string
	// Model is the identifier of the model that actually served the request,
	// as reported by the provider. May differ from the requested one.
	Model string
	// Usage holds the token counts the provider reported for this call.
	Usage usage.TokenCount
}

// Completer sends one prompt to a provider and returns the generated text.
// Implementations make at most one outbound call per invocation and never
// retry on their own.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (Response, error)

// Complete calls the underlying function.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
