package model

// Classifier maps a trace event to exactly one tag from an ordered category
// vocabulary. Implementations must be pure and total: every event yields a
// tag, unknown events fall back to the vocabulary's catch-all.
type Classifier interface {
	// Categorize returns the category tag for a single event.
	Categorize(e *Event) string

	// Categories returns the vocabulary in declaration order. The order is
	// significant: dominant-category ties break in favor of the
	// earlier-declared tag.
	Categories() []string
}
