// Package sim owns the simulated vehicle: its speed, accumulated distance and
// the serpentine path it traces across the field. The Loop advances that state
// one frame at a time through a Scheduler and pushes every change to its
// consumers.
package sim

// Point is a position on the field, in field units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State is a copy of the loop's mutable state.
type State struct {
	Speed    float64 `json:"speed"`    // km/h
	Distance float64 `json:"distance"` // arbitrary unit
	Running  bool    `json:"running"`
	Path     []Point `json:"path"` // oldest first
	Cursor   Point   `json:"cursor"`
	Steps    int     `json:"steps"`
}

// Options configures the field and the per-step constants.
type Options struct {
	Width  float64 // field width
	Height float64 // field height
	Margin float64 // first column/row and distance kept from the far edges

	Start Point // cursor position after a reset

	SpeedIncrement float64 // km/h added per step
	MaxSpeed       float64 // km/h
	DistanceFactor float64 // distance gained per step is speed * DistanceFactor
	ColumnStep     float64 // horizontal advance per step
	RowStep        float64 // vertical advance on wrap
	PathLimit      int     // points kept before the oldest is evicted

	Segments int // LED segment count
}

// DefaultOptions returns the standard dashboard field and constants.
func DefaultOptions() Options {
	return Options{
		Width:          800,
		Height:         400,
		Margin:         50,
		Start:          Point{X: 50, Y: 150},
		SpeedIncrement: 0.1,
		MaxSpeed:       10,
		DistanceFactor: 0.01,
		ColumnStep:     2,
		RowStep:        20,
		PathLimit:      200,
		Segments:       10,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	if o.Start == (Point{}) {
		o.Start = d.Start
	}
	if o.SpeedIncrement <= 0 {
		o.SpeedIncrement = d.SpeedIncrement
	}
	if o.MaxSpeed <= 0 {
		o.MaxSpeed = d.MaxSpeed
	}
	if o.DistanceFactor <= 0 {
		o.DistanceFactor = d.DistanceFactor
	}
	if o.ColumnStep <= 0 {
		o.ColumnStep = d.ColumnStep
	}
	if o.RowStep <= 0 {
		o.RowStep = d.RowStep
	}
	if o.PathLimit <= 0 {
		o.PathLimit = d.PathLimit
	}
	if o.Segments <= 0 {
		o.Segments = d.Segments
	}
	return o
}

// advanceCursor moves p one column to the right, wrapping to the next row at
// the right bound and back to the first row at the bottom bound.
func (o Options) advanceCursor(p Point) Point {
	p.X += o.ColumnStep
	if p.X > o.Width-o.Margin {
		p.X = o.Margin
		p.Y += o.RowStep
		if p.Y > o.Height-o.Margin {
			p.Y = o.Margin
		}
	}
	return p
}
