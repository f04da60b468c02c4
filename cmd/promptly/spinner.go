package main

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// thinkingMessages rotate on the spinner line while a completion is running.
var thinkingMessages = []string{
	"Thinking...",
	"Brewing a response...",
	"Crunching tokens...",
	"Assembling words...",
	"Consulting the model...",
	"Weaving thoughts...",
	"Warming up neurons...",
	"Exploring possibilities...",
}

// spinnerFrames are braille characters for smooth animation.
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// spinner displays an animated indicator with rotating phrases while a
// request is in flight. Safe to Start and Stop from the same goroutine that
// prints around it.
type spinner struct {
	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
}

func newSpinner() *spinner {
	return &spinner{}
}

// Start begins the spinner animation in a background goroutine.
func (s *spinner) Start() {
	s.mu.Lock()
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	go s.run()
}

func (s *spinner) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	frame := 0
	msgIdx := rand.IntN(len(thinkingMessages)) //nolint:gosec // cosmetic randomness
	changeTick := 0

	for {
		select {
		case <-s.stopCh:
			s.clearLine()
			return
		case <-ticker.C:
			f := spinnerFrames[frame%len(spinnerFrames)]
			msg := thinkingMessages[msgIdx]
			fmt.Printf("\r  %s%s %s%s\033[K", ansiDim, f, msg, ansiReset)

			frame++
			changeTick++
			if changeTick >= 30 { // change message every ~3 seconds
				msgIdx = (msgIdx + 1) % len(thinkingMessages)
				changeTick = 0
			}
		}
	}
}

// Stop terminates the spinner goroutine and clears the line. Safe to call
// more than once.
func (s *spinner) Stop() {
	s.mu.Lock()
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	if stopCh == nil {
		return
	}

	select {
	case <-stopCh:
		return // already stopped
	default:
	}

	close(stopCh)
	<-doneCh
}

func (s *spinner) clearLine() {
	fmt.Print("\r\033[K")
}
