package sim

import "slices"

// Handle identifies one scheduled frame callback. The zero Handle is never
// issued.
type Handle uint64

// Scheduler runs a callback on the next display frame.
type Scheduler interface {
	ScheduleNext(fn func()) Handle
	Cancel(h Handle)
}

// ManualScheduler queues callbacks until Fire is called. It drives the loop
// in tests and in the headless and server runners, which call Fire from
// their own ticker.
type ManualScheduler struct {
	next    Handle
	pending map[Handle]func()
}

// NewManualScheduler returns an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[Handle]func())}
}

func (s *ManualScheduler) ScheduleNext(fn func()) Handle {
	s.next++
	s.pending[s.next] = fn
	return s.next
}

func (s *ManualScheduler) Cancel(h Handle) {
	delete(s.pending, h)
}

// Pending returns the number of callbacks waiting for a frame.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// Fire runs every callback that was pending when it was called, in the order
// they were scheduled. Callbacks scheduled while firing wait for the next
// frame. It returns the number of callbacks run.
func (s *ManualScheduler) Fire() int {
	handles := make([]Handle, 0, len(s.pending))
	for h := range s.pending {
		handles = append(handles, h)
	}
	slices.Sort(handles)

	ran := 0
	for _, h := range handles {
		fn, ok := s.pending[h]
		if !ok {
			// cancelled by an earlier callback in this frame
			continue
		}
		delete(s.pending, h)
		fn()
		ran++
	}
	return ran
}

// FireN fires n frames and returns the total number of callbacks run.
func (s *ManualScheduler) FireN(n int) int {
	total := 0
	for range n {
		total += s.Fire()
	}
	return total
}
