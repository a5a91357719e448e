package model

// SensitivityProbe decides whether a trace event touched a sensitive
// resource. The probe is a pluggable seam: the default implementation
// matches a static path-prefix set, but a caller may substitute a predicate
// derived from the sensitive-path side stream.
type SensitivityProbe interface {
	Sensitive(e *Event) bool
}
