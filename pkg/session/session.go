// Package session holds the mutable state of one interactive chat: the
// selected model and the generation settings. Prompts are independent;
// no conversation history is kept or sent.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/mdiez/promptly/pkg/catalog"
	"github.com/mdiez/promptly/pkg/completion"
)

// Session coordinates completion calls for one user. Only one Complete call
// may be active at a time; model and settings can be changed between calls.
type Session struct {
	completer completion.Completer

	mu       sync.Mutex
	model    catalog.Model
	settings completion.Settings
	active   bool
}

// New creates a Session that sends prompts through c with the given starting
// model and settings.
func New(c completion.Completer, model catalog.Model, settings completion.Settings) *Session {
	return &Session{
		completer: c,
		model:     model,
		settings:  settings,
	}
}

// Model returns the currently selected model.
func (s *Session) Model() catalog.Model {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.model
}

// SetModel switches the model used for subsequent prompts.
func (s *Session) SetModel(m catalog.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model = m
}

// Settings returns the current generation settings.
func (s *Session) Settings() completion.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settings
}

// SetSettings replaces the generation settings after validating them.
func (s *Session) SetSettings(settings completion.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings

	return nil
}

// Complete validates the prompt, snapshots the current model and settings,
// and sends one completion request. Only one Complete may be active per
// session; a second concurrent call fails instead of queueing.
func (s *Session) Complete(ctx context.Context, prompt string) (completion.Response, error) {
	if err := s.acquire(); err != nil {
		return completion.Response{}, err
	}
	defer s.release()

	s.mu.Lock()
	req := completion.Request{
		Prompt:   prompt,
		Model:    s.model.ID,
		Settings: s.settings,
	}
	s.mu.Unlock()

	if err := req.Validate(); err != nil {
		return completion.Response{}, err
	}

	return s.completer.Complete(ctx, req)
}

func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return fmt.Errorf("session: another completion is already active")
	}

	s.active = true

	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = false
}
