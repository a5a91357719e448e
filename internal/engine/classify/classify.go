package classify

import (
	"strings"

	"slicedroid/internal/model"
)

// CategoryOther is the catch-all tag for events no rule matches. Every
// vocabulary must contain it; the default vocabulary declares it last.
const CategoryOther = "other"

// Rule is one entry of the classification table: an event whose lowercased
// tag contains Pattern is assigned Category. Rules are evaluated in
// declaration order and the first match wins, so the table itself is the
// extension point for custom taxonomies.
type Rule struct {
	Pattern  string
	Category string
}

// DefaultRules returns the built-in classification table.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "read", Category: "read"},
		{Pattern: "pread", Category: "read"},
		{Pattern: "write", Category: "write"},
		{Pattern: "pwrite", Category: "write"},
		{Pattern: "ioctl", Category: "ioctl"},
		{Pattern: "binder", Category: "binder"},
		{Pattern: "tcp", Category: "network"},
		{Pattern: "udp", Category: "network"},
		{Pattern: "socket", Category: "network"},
		{Pattern: "inet", Category: "network"},
	}
}

// DefaultCategories returns the default vocabulary in its canonical order.
func DefaultCategories() []string {
	return []string{"read", "write", "ioctl", "binder", "network", CategoryOther}
}

// TableClassifier implements model.Classifier with an ordered rule table.
type TableClassifier struct {
	rules      []Rule
	categories []string
}

// New creates a classifier from a rule table and a vocabulary. Nil arguments
// fall back to the defaults.
func New(rules []Rule, categories []string) *TableClassifier {
	if rules == nil {
		rules = DefaultRules()
	}
	if categories == nil {
		categories = DefaultCategories()
	}
	return &TableClassifier{rules: rules, categories: categories}
}

// Default creates a classifier with the built-in table and vocabulary.
func Default() *TableClassifier {
	return New(nil, nil)
}

// Categorize maps an event tag to its category. Events without a tag, and
// tags no rule matches, are categorized as other.
func (c *TableClassifier) Categorize(e *model.Event) string {
	if e.Name == "" {
		return CategoryOther
	}
	tag := strings.ToLower(e.Name)
	for _, r := range c.rules {
		if strings.Contains(tag, r.Pattern) {
			return r.Category
		}
	}
	return CategoryOther
}

// Categories returns a copy of the vocabulary in declaration order.
func (c *TableClassifier) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}
