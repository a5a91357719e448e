package analyzer

import (
	"fmt"

	"slicedroid/internal/engine/classify"
	"slicedroid/internal/engine/correlate"
	"slicedroid/internal/engine/window"
	"slicedroid/internal/model"
)

// Config carries the analysis parameters. Zero values take the defaults
// below before validation runs.
type Config struct {
	WindowSize int      `yaml:"window_size" json:"window_size"`
	WindowStep int      `yaml:"window_step" json:"window_step"`
	Categories []string `yaml:"categories" json:"categories"`
}

// DefaultConfig returns the stock configuration: windows of 1000 events
// sliding by 800 with the default vocabulary.
func DefaultConfig() Config {
	return Config{
		WindowSize: 1000,
		WindowStep: 800,
		Categories: classify.DefaultCategories(),
	}
}

// ApplyDefaults fills unset fields from DefaultConfig. It serves the
// config-file loader, where an absent field decodes as zero; Analyze itself
// validates strictly, so an explicit zero step is rejected instead of
// silently becoming the default.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	if c.WindowSize == 0 {
		c.WindowSize = def.WindowSize
	}
	if c.WindowStep == 0 {
		c.WindowStep = def.WindowStep
	}
	if len(c.Categories) == 0 {
		c.Categories = def.Categories
	}
}

// Validate rejects window geometries the windower cannot honor. A step
// above the size would skip events; a step below one would never advance.
func (c Config) Validate() error {
	if c.WindowSize < 2 {
		return fmt.Errorf("%w: window_size must be >= 2, got %d", model.ErrInvalidConfig, c.WindowSize)
	}
	if c.WindowStep < 1 {
		return fmt.Errorf("%w: window_step must be >= 1, got %d", model.ErrInvalidConfig, c.WindowStep)
	}
	if c.WindowStep > c.WindowSize {
		return fmt.Errorf("%w: window_step %d exceeds window_size %d", model.ErrInvalidConfig, c.WindowStep, c.WindowSize)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: empty category vocabulary", model.ErrInvalidConfig)
	}
	for _, cat := range c.Categories {
		if cat == classify.CategoryOther {
			return nil
		}
	}
	return fmt.Errorf("%w: vocabulary must contain the %q category", model.ErrInvalidConfig, classify.CategoryOther)
}

// Analyzer is the top-level entry of the engine. It is stateless across
// runs and safe to share: every Analyze call builds its own windower and
// correlator and touches nothing but its arguments.
type Analyzer struct {
	classifier model.Classifier
	probe      model.SensitivityProbe
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithClassifier substitutes the event classifier. The classifier's
// vocabulary should match the config's categories; out-of-vocabulary
// results are folded into the catch-all.
func WithClassifier(c model.Classifier) Option {
	return func(a *Analyzer) { a.classifier = c }
}

// WithProbe substitutes the sensitivity probe, e.g. one derived from the
// sensitive-path side stream.
func WithProbe(p model.SensitivityProbe) Option {
	return func(a *Analyzer) { a.probe = p }
}

// New creates an Analyzer with the default classifier and probe unless
// options override them.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		probe: classify.NewPrefixProbe(nil),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the windowed analysis over one trace input. A nil input or
// an empty event stream yields the no-data success value, not an error.
func (a *Analyzer) Analyze(input *model.TraceInput, cfg Config) (*model.AnalysisResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if input == nil || len(input.Events) == 0 {
		return &model.AnalysisResult{
			Windows:     []model.WindowRecord{},
			Categories:  cfg.Categories,
			TotalEvents: 0,
		}, nil
	}

	classifier := a.classifier
	if classifier == nil {
		classifier = classify.New(classify.DefaultRules(), cfg.Categories)
	}

	wcfg := window.Config{
		Size:       cfg.WindowSize,
		Step:       cfg.WindowStep,
		Categories: cfg.Categories,
	}
	w := window.New(wcfg, classifier, a.probe, correlate.New(input.NetEvents))
	records := w.Slide(input.Events)

	for _, rec := range records {
		sum := 0
		for _, n := range rec.Categories {
			sum += n
		}
		if sum != rec.EventCount {
			return nil, fmt.Errorf("window %d: category counts sum to %d, want %d", rec.WindowID, sum, rec.EventCount)
		}
	}

	return &model.AnalysisResult{
		Windows:     records,
		Categories:  cfg.Categories,
		TotalEvents: len(input.Events),
	}, nil
}
