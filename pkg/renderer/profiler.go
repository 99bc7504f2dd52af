package renderer

import (
	"log/slog"
	"time"
)

// Timer tracks a single start/end interval. A Timer that has been started
// but not yet ended reports Duration() as the time-so-far.
type Timer struct {
	start   time.Time
	end     time.Time
	running bool
}

// Start begins (or restarts) the timer.
func (t *Timer) Start() {
	t.start = timeNow()
	t.running = true
	t.end = time.Time{}
}

// End stops the timer.
func (t *Timer) End() {
	if !t.running {
		return
	}
	t.end = timeNow()
	t.running = false
}

// Duration returns the elapsed time, or false if the timer was never
// started.
func (t *Timer) Duration() (time.Duration, bool) {
	if t.start.IsZero() {
		return 0, false
	}
	if t.running {
		return timeNow().Sub(t.start), true
	}
	return t.end.Sub(t.start), true
}

// timeNow is a var so tests could substitute it; production code always
// uses time.Now.
var timeNow = time.Now

// Profiler owns the four timers a renderer reports progress through, per
// spec.md §4.6: frame, prepare, render, sample.
type Profiler struct {
	Frame   Timer
	Prepare Timer
	Render  Timer
	Sample  Timer

	log *slog.Logger
}

// NewProfiler returns a Profiler that logs timing summaries through the
// given structured logger. A nil logger falls back to slog.Default().
func NewProfiler(log *slog.Logger) *Profiler {
	if log == nil {
		log = slog.Default()
	}
	return &Profiler{log: log}
}

// LogFrameComplete emits a structured summary of the four timers once a
// frame finishes, the way the CLI entry points report render progress.
func (p *Profiler) LogFrameComplete(sampleCount int) {
	frame, _ := p.Frame.Duration()
	prepare, _ := p.Prepare.Duration()
	render, _ := p.Render.Duration()
	p.log.Info("frame complete",
		"samples", sampleCount,
		"frame_ms", frame.Milliseconds(),
		"prepare_ms", prepare.Milliseconds(),
		"render_ms", render.Milliseconds(),
	)
}
