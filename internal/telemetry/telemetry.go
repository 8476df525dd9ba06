// Package telemetry connects the dashboard to a telemetry backend: an HTTP
// client for the sensor and history endpoints, a poller that fetches both on
// fixed cadences, and the backend server itself.
package telemetry

import "time"

// Reading is the latest sensor value reported by the backend.
type Reading struct {
	Speed    float64 `json:"speed"`    // km/h
	Distance float64 `json:"distance"` // arbitrary unit
}

// Record is one history sample.
type Record struct {
	Speed    float64   `json:"speed"`
	Distance float64   `json:"distance"`
	Time     time.Time `json:"time"`
}

// History is the backend's bounded record list for the current run.
type History struct {
	RunID   string   `json:"run_id"`
	Records []Record `json:"records"`
}

// Speeds returns the speed series, oldest first.
func (h History) Speeds() []float64 {
	out := make([]float64, len(h.Records))
	for i, r := range h.Records {
		out[i] = r.Speed
	}
	return out
}

// Distances returns the distance series, oldest first.
func (h History) Distances() []float64 {
	out := make([]float64, len(h.Records))
	for i, r := range h.Records {
		out[i] = r.Distance
	}
	return out
}
