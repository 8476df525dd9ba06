package ui

// LoopStatus is the run state shown in the status line.
type LoopStatus int

const (
	StatusStopped LoopStatus = iota
	StatusRunning
)

func statusOf(running bool) LoopStatus {
	if running {
		return StatusRunning
	}
	return StatusStopped
}

// String returns the name of the status.
func (s LoopStatus) String() string {
	switch s {
	case StatusRunning:
		return "running"
	default:
		return "stopped"
	}
}

// Icon returns a visual indicator for the status.
func (s LoopStatus) Icon() string {
	switch s {
	case StatusRunning:
		return "▶"
	default:
		return "■"
	}
}
