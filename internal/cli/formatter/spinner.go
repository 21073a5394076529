package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Braille dot spinner frames.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a message on one terminal line while a slow call runs.
type Spinner struct {
	mu      sync.Mutex
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
}

func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the animation. Call Stop to end it.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(s.out, "\r  %s %s", StylePurple.Render(frame), Dim(s.message))
				i++
			}
		}
	}()
}

// Stop ends the animation and clears the line. It is safe to call twice.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stop:
		return
	default:
		close(s.stop)
	}
	<-s.done
}

// StartSpinner starts a spinner on out and returns its stop function.
func StartSpinner(out io.Writer, message string) func() {
	s := NewSpinner(out, message)
	s.Start()
	return s.Stop
}
