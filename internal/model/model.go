package model

import "math"

// Event is a single record of the kernel trace stream. Only the four fields
// below are consumed by the analysis engine; anything else the trace carried
// is kept in Attrs and passed through unread.
type Event struct {
	// Timestamp is in seconds with a fractional part. NaN marks a record
	// that carried no timestamp.
	Timestamp float64
	// Name is the syscall-like event tag, empty when absent.
	Name string
	// Device is an opaque device identifier, empty when absent.
	Device string
	// Pathname is the filesystem path the event touched, empty when absent.
	Pathname string
	Attrs    map[string]any
}

// HasTimestamp reports whether the event carried a timestamp.
func (e *Event) HasTimestamp() bool {
	return !math.IsNaN(e.Timestamp)
}

// NetEvent is a single record of the TCP/UDP side stream. The engine only
// reads its timestamp.
type NetEvent struct {
	Timestamp float64
}

// SensitiveRecord is an opaque record of the sensitive-path side stream.
// The default sensitivity probe does not consult it; it is accepted for
// probes derived from the trace itself.
type SensitiveRecord map[string]any

// DeviceCategories maps a device identifier to a category tag. The engine
// accepts it for renderer use but does not read it.
type DeviceCategories map[string]string

// TraceInput bundles the event stream and its side streams for one analysis.
type TraceInput struct {
	Events    []Event
	NetEvents []NetEvent
	Sensitive []SensitiveRecord
	Dev2Cat   DeviceCategories
}

// WindowRecord is the per-window aggregate handed to the renderer sinks.
// Field names are frozen; renderers consume this shape verbatim.
type WindowRecord struct {
	WindowID          int            `json:"window_id"`
	StartEvent        int            `json:"start_event"`
	EndEvent          int            `json:"end_event"`
	EventCount        int            `json:"event_count"`
	Categories        map[string]int `json:"categories"`
	UniqueDevices     int            `json:"unique_devices"`
	Devices           []string       `json:"devices"`
	SensitiveAccesses int            `json:"sensitive_accesses"`
	NetworkActivity   int            `json:"network_activity"`
	DominantCategory  string         `json:"dominant_category"`
}

// AnalysisResult is the full output of one analysis run. A run over a
// missing or empty event stream yields the "no data" form: zero windows,
// zero total events, categories echoed.
type AnalysisResult struct {
	Windows     []WindowRecord `json:"windows"`
	Categories  []string       `json:"categories"`
	TotalEvents int            `json:"total_events"`
}

// NoData reports whether the result is the empty-stream success value.
func (r *AnalysisResult) NoData() bool {
	return r.TotalEvents == 0
}
