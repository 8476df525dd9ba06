package sim

import "github.com/olivier-w/rundash/internal/ring"

// Loop advances the simulated vehicle once per scheduled frame.
// It is not safe for concurrent use: all calls, including the scheduled
// callbacks, must come from the goroutine that owns the Scheduler.
type Loop struct {
	opts  Options
	sched Scheduler

	speed    float64
	accel    int // increments applied so far; speed is derived from it
	distance float64
	running  bool
	path     *ring.Buffer[Point]
	cursor   Point
	steps    int

	pending    Handle
	hasPending bool

	displays []Display
	drawings []Drawing
	leds     []LEDs
}

// New creates a stopped Loop in its initial state. Zero fields in opts take
// their DefaultOptions values.
func New(sched Scheduler, opts Options) *Loop {
	opts = opts.withDefaults()
	return &Loop{
		opts:   opts,
		sched:  sched,
		path:   ring.New[Point](opts.PathLimit),
		cursor: opts.Start,
	}
}

// Options returns the effective options.
func (l *Loop) Options() Options { return l.opts }

// AddDisplay registers a readout consumer.
func (l *Loop) AddDisplay(d Display) { l.displays = append(l.displays, d) }

// AddDrawing registers a path consumer.
func (l *Loop) AddDrawing(d Drawing) { l.drawings = append(l.drawings, d) }

// AddLEDs registers a speed bar consumer.
func (l *Loop) AddLEDs(d LEDs) { l.leds = append(l.leds, d) }

// Running reports whether frames are being scheduled.
func (l *Loop) Running() bool { return l.running }

// Start begins scheduling frames. Calling it while running has no effect.
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.scheduleNext()
}

// Stop halts the loop and cancels the pending frame, if any.
func (l *Loop) Stop() {
	l.running = false
	if l.hasPending {
		l.sched.Cancel(l.pending)
		l.hasPending = false
		l.pending = 0
	}
}

// Reset stops the loop, restores the initial state and notifies every
// consumer.
func (l *Loop) Reset() {
	l.Stop()
	l.speed = 0
	l.accel = 0
	l.distance = 0
	l.steps = 0
	l.path.Clear()
	l.cursor = l.opts.Start
	l.notify()
}

// Step advances the state by one frame and schedules the next one. It does
// nothing while the loop is stopped.
func (l *Loop) Step() {
	if !l.running {
		return
	}

	if l.speed < l.opts.MaxSpeed {
		l.accel++
		l.speed = min(float64(l.accel)*l.opts.SpeedIncrement, l.opts.MaxSpeed)
	}
	l.distance += l.speed * l.opts.DistanceFactor

	l.cursor = l.opts.advanceCursor(l.cursor)
	l.path.Push(l.cursor)
	l.steps++

	l.notify()

	if l.running {
		l.scheduleNext()
	}
}

// Snapshot returns a copy of the current state.
func (l *Loop) Snapshot() State {
	return State{
		Speed:    l.speed,
		Distance: l.distance,
		Running:  l.running,
		Path:     l.path.Items(),
		Cursor:   l.cursor,
		Steps:    l.steps,
	}
}

// ActiveSegments returns the lit LED count for the current speed.
func (l *Loop) ActiveSegments() int {
	return LitSegments(l.speed, l.opts.MaxSpeed, l.opts.Segments)
}

func (l *Loop) scheduleNext() {
	if l.hasPending {
		return
	}
	l.pending = l.sched.ScheduleNext(l.frame)
	l.hasPending = true
}

// frame is the scheduled callback.
func (l *Loop) frame() {
	l.hasPending = false
	l.pending = 0
	l.Step()
}

func (l *Loop) notify() {
	for _, d := range l.displays {
		d.ShowReadout(l.speed, l.distance)
	}
	if len(l.drawings) > 0 {
		path := l.path.Items()
		for i, d := range l.drawings {
			p := path
			if i > 0 {
				p = append([]Point(nil), path...)
			}
			d.DrawPath(p, l.cursor)
		}
	}
	active := l.ActiveSegments()
	for _, d := range l.leds {
		d.SetLEDs(active, l.opts.Segments)
	}
}
