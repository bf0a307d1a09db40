// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar prints rollout progress to a terminal. Unlike a
// concurrent bar, all drawing happens in the calling goroutine: the
// rollout loop is already synchronous and step-wise, so redrawing on
// Increment keeps the display exact without extra goroutines.
type ProgressBar struct {
	out io.Writer

	// width is the number of characters the filled portion spans at
	// 100%
	width int

	// max is the number of Increment calls that bring the bar to 100%
	max     int
	current int

	started time.Time
	closed  bool
}

// New returns a new progress bar that is width characters wide and
// reaches 100% after max Increment() calls.
func New(out io.Writer, width, max int) *ProgressBar {
	return &ProgressBar{
		out:     out,
		width:   width,
		max:     max,
		started: time.Now(),
	}
}

// Increment advances the internal progress counter by n and redraws
// the bar. Each time an iteration is performed, Increment should be
// called.
func (p *ProgressBar) Increment(n int) {
	if p.closed {
		panic("increment: increment on closed progress bar")
	}
	p.current += n
	if p.current > p.max {
		p.current = p.max
	}
	p.draw()
}

// Close finishes the progress bar, jumping to the next line after the
// printed bar.
func (p *ProgressBar) Close() {
	if p.closed {
		panic("close: close on closed progress bar")
	}
	p.closed = true
	fmt.Fprintln(p.out)
}

func (p *ProgressBar) draw() {
	var bar strings.Builder
	bar.WriteByte('|')

	filled := int(float64(p.current) / float64(p.max) * float64(p.width))
	for i := 0; i < p.width; i++ {
		if i < filled {
			bar.WriteString("█")
		} else {
			bar.WriteByte(' ')
		}
	}

	elapsed := time.Since(p.started).Round(time.Second)
	fmt.Fprintf(p.out, "\r\033[K%v| [%.2f%% | elapsed: %v]", bar.String(),
		float64(p.current)/float64(p.max)*100, elapsed)
}
