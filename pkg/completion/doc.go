// Package completion defines the provider-agnostic contract for single-turn
// text generation.
//
// It contains:
//   - [Completer] interface and the [Request]/[Response] pair every provider speaks
//   - [Settings] with the accepted generation parameter ranges
//   - [Error] and its [Kind] taxonomy used to classify failures for display
//   - [Middleware] decorators (logging, panic recovery)
//   - [github.com/mdiez/promptly/pkg/completion/usage] for token accounting
//
// This package contains no provider-specific code. Concrete clients live in
// separate packages that import completion.
package completion
