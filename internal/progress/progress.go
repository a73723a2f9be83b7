package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Tracker renders a spinner with a counter while files are fingerprinted.
type Tracker struct {
	w         io.Writer
	total     int
	current   int
	message   string
	mu        sync.Mutex
	startTime time.Time
	done      chan bool
}

func NewTracker(w io.Writer, total int, message string) *Tracker {
	p := &Tracker{
		w:         w,
		total:     total,
		message:   message,
		startTime: time.Now(),
		done:      make(chan bool),
	}
	go p.render()
	return p
}

func (p *Tracker) render() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	frame := 0

	for {
		select {
		case <-p.done:
			p.mu.Lock()
			elapsed := time.Since(p.startTime)
			rate := 0.0
			if s := elapsed.Seconds(); s > 0 {
				rate = float64(p.current) / s
			}
			fmt.Fprintf(p.w, "\r✓ %s (%d files, %s, %.1f files/s)          \n",
				p.message, p.current, elapsed.Round(time.Millisecond), rate)
			p.mu.Unlock()
			return

		case <-ticker.C:
			p.mu.Lock()
			if p.total > 0 {
				percent := float64(p.current) / float64(p.total) * 100
				fmt.Fprintf(p.w, "\r%s %s [%d/%d] %.0f%%  ",
					spinner[frame%len(spinner)],
					p.message,
					p.current,
					p.total,
					percent)
			} else {
				fmt.Fprintf(p.w, "\r%s %s [%d files]  ",
					spinner[frame%len(spinner)],
					p.message,
					p.current)
			}
			p.mu.Unlock()
			frame++
		}
	}
}

func (p *Tracker) Increment() {
	p.mu.Lock()
	p.current++
	p.mu.Unlock()
}

func (p *Tracker) Finish() {
	close(p.done)
	time.Sleep(1 * time.Millisecond)
}
