package session_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/mdiez/promptly/pkg/catalog"
	"github.com/mdiez/promptly/pkg/completion"
	"github.com/mdiez/promptly/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	llama = catalog.Model{ID: "meta-llama/llama-3.2-3b-instruct:free", Name: "Llama 3.2", Free: true}
	gpt   = catalog.Model{ID: "openai/gpt-3.5-turbo", Name: "GPT-3.5"}
)

// recordingCompleter remembers every request it receives.
type recordingCompleter struct {
	mu       sync.Mutex
	requests []completion.Request
	resp     completion.Response
	err      error
}

func (r *recordingCompleter) Complete(_ context.Context, req completion.Request) (completion.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests = append(r.requests, req)

	return r.resp, r.err
}

func newSession(rc *recordingCompleter) *session.Session {
	return session.New(rc, llama, completion.DefaultSettings())
}

func TestComplete(t *testing.T) {
	rc := &recordingCompleter{resp: completion.Response{Text: "Hello!"}}
	s := newSession(rc)

	resp, err := s.Complete(context.Background(), "Say hi")

	require.NoError(t, err)
	assert.Equal(t, "Hello!", resp.Text)

	require.Len(t, rc.requests, 1)
	req := rc.requests[0]
	assert.Equal(t, "Say hi", req.Prompt)
	assert.Equal(t, llama.ID, req.Model)
	assert.Equal(t, completion.DefaultSettings(), req.Settings)
}

func TestComplete_EmptyPrompt(t *testing.T) {
	rc := &recordingCompleter{}
	s := newSession(rc)

	_, err := s.Complete(context.Background(), "   ")

	require.Error(t, err)
	assert.Equal(t, completion.KindInvalidInput, completion.KindOf(err))
	assert.Empty(t, rc.requests, "invalid prompts must not reach the completer")
}

func TestComplete_PromptTooLong(t *testing.T) {
	rc := &recordingCompleter{}
	s := newSession(rc)

	_, err := s.Complete(context.Background(), strings.Repeat("x", completion.MaxPromptLen+1))

	require.Error(t, err)
	assert.Equal(t, completion.KindInvalidInput, completion.KindOf(err))
	assert.Empty(t, rc.requests)
}

func TestComplete_UsesCurrentModelAndSettings(t *testing.T) {
	rc := &recordingCompleter{resp: completion.Response{Text: "ok"}}
	s := newSession(rc)

	s.SetModel(gpt)
	require.NoError(t, s.SetSettings(completion.Settings{Temperature: 0.2, MaxTokens: 64}))

	_, err := s.Complete(context.Background(), "hello")
	require.NoError(t, err)

	require.Len(t, rc.requests, 1)
	assert.Equal(t, gpt.ID, rc.requests[0].Model)
	assert.InDelta(t, 0.2, rc.requests[0].Settings.Temperature, 1e-9)
	assert.Equal(t, 64, rc.requests[0].Settings.MaxTokens)
}

func TestComplete_PropagatesError(t *testing.T) {
	rc := &recordingCompleter{err: completion.QuotaExceeded(402, "no credits")}
	s := newSession(rc)

	_, err := s.Complete(context.Background(), "hello")

	require.Error(t, err)
	assert.Equal(t, completion.KindQuotaExceeded, completion.KindOf(err))
}

func TestComplete_FailureDoesNotPoisonSession(t *testing.T) {
	rc := &recordingCompleter{err: completion.NetworkFailure(0, "request failed", nil)}
	s := newSession(rc)

	_, err := s.Complete(context.Background(), "first")
	require.Error(t, err)

	rc.err = nil
	rc.resp = completion.Response{Text: "second answer"}

	resp, err := s.Complete(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, "second answer", resp.Text)
}

func TestComplete_RejectsConcurrentCall(t *testing.T) {
	started := make(chan struct{})
	unblock := make(chan struct{})

	blocking := completion.CompleterFunc(func(_ context.Context, _ completion.Request) (completion.Response, error) {
		close(started)
		<-unblock

		return completion.Response{Text: "done"}, nil
	})

	s := session.New(blocking, llama, completion.DefaultSettings())

	done := make(chan error, 1)
	go func() {
		_, err := s.Complete(context.Background(), "slow one")
		done <- err
	}()

	<-started

	_, err := s.Complete(context.Background(), "too eager")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already active")

	close(unblock)
	require.NoError(t, <-done)
}

func TestSetSettings_Invalid(t *testing.T) {
	s := newSession(&recordingCompleter{})

	err := s.SetSettings(completion.Settings{Temperature: 5, MaxTokens: 100})

	require.Error(t, err)
	assert.Equal(t, completion.KindInvalidInput, completion.KindOf(err))
	assert.Equal(t, completion.DefaultSettings(), s.Settings(), "rejected settings must not stick")
}

func TestModelAccessors(t *testing.T) {
	s := newSession(&recordingCompleter{})

	assert.Equal(t, llama, s.Model())

	s.SetModel(gpt)
	assert.Equal(t, gpt, s.Model())
}
