package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdiez/promptly/pkg/completion"
)

func TestCompletionErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "missing credential",
			err:  completion.MissingCredential("no API key configured"),
			want: "API key problem. Check your OPENROUTER_API_KEY.",
		},
		{
			name: "unauthorized",
			err:  completion.NetworkFailure(401, "unauthorized", nil),
			want: "API key problem. Check your OPENROUTER_API_KEY.",
		},
		{
			name: "forbidden",
			err:  completion.NetworkFailure(403, "forbidden", nil),
			want: "API key problem. Check your OPENROUTER_API_KEY.",
		},
		{
			name: "rate limited",
			err:  completion.NetworkFailure(429, "too many requests", nil),
			want: "Too many requests. Wait and try again.",
		},
		{
			name: "out of credits",
			err:  completion.QuotaExceeded(402, "payment required"),
			want: "Not enough credits.",
		},
		{
			name: "no connectivity",
			err:  completion.NetworkFailure(0, "request failed", errors.New("dial tcp: no route to host")),
			want: "Can't connect to internet.",
		},
		{
			name: "server error",
			err:  completion.NetworkFailure(500, "unexpected status 500", nil),
			want: "API error: 500.",
		},
		{
			name: "invalid input passes through",
			err:  completion.InvalidInput("prompt is empty"),
			want: "prompt is empty",
		},
		{
			name: "malformed response",
			err:  completion.MalformedResponse("no choices returned", nil),
			want: "The model returned an unusable response. Try again.",
		},
		{
			name: "unclassified error reads as connectivity",
			err:  errors.New("boom"),
			want: "Can't connect to internet.",
		},
		{
			name: "wrapped error keeps its kind",
			err:  fmt.Errorf("session: %w", completion.QuotaExceeded(402, "payment required")),
			want: "Not enough credits.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, completionErrorText(tt.err))
		})
	}
}
