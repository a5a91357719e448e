package classify

import (
	"strings"

	"slicedroid/internal/model"
)

// DefaultSensitivePrefixes returns the built-in sensitive-path prefix set.
func DefaultSensitivePrefixes() []string {
	return []string{"/data/data/", "/system/", "/proc/", "/dev/"}
}

// PrefixProbe implements model.SensitivityProbe by matching an event's path
// against a fixed prefix set. An event without a path is never sensitive.
type PrefixProbe struct {
	prefixes []string
}

// NewPrefixProbe creates a probe for the given prefixes; a nil slice falls
// back to the defaults.
func NewPrefixProbe(prefixes []string) *PrefixProbe {
	if prefixes == nil {
		prefixes = DefaultSensitivePrefixes()
	}
	return &PrefixProbe{prefixes: prefixes}
}

// Sensitive reports whether the event's path contains any configured prefix.
func (p *PrefixProbe) Sensitive(e *model.Event) bool {
	if e.Pathname == "" {
		return false
	}
	for _, prefix := range p.prefixes {
		if strings.Contains(e.Pathname, prefix) {
			return true
		}
	}
	return false
}
