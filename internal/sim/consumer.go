package sim

// Display receives the numeric readouts after every change.
type Display interface {
	ShowReadout(speed, distance float64)
}

// Drawing receives the bounded path (oldest first) and the cursor. The path
// slice is a copy owned by the receiver.
type Drawing interface {
	DrawPath(path []Point, cursor Point)
}

// LEDs receives the speed bar state: active of segments are lit.
type LEDs interface {
	SetLEDs(active, segments int)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(speed, distance float64)

func (f DisplayFunc) ShowReadout(speed, distance float64) { f(speed, distance) }

// DrawingFunc adapts a function to Drawing.
type DrawingFunc func(path []Point, cursor Point)

func (f DrawingFunc) DrawPath(path []Point, cursor Point) { f(path, cursor) }

// LEDFunc adapts a function to LEDs.
type LEDFunc func(active, segments int)

func (f LEDFunc) SetLEDs(active, segments int) { f(active, segments) }
