package window

import (
	"slicedroid/internal/engine/classify"
	"slicedroid/internal/model"
)

// Config carries the windowing parameters. Validation happens in the driver;
// the windower assumes Size >= 2, 1 <= Step <= Size and a non-empty
// vocabulary containing the catch-all category.
type Config struct {
	Size       int
	Step       int
	Categories []string
}

// Windower slides fixed-length windows over the event stream and computes
// the per-window aggregates. One Windower serves one analysis run; it holds
// no state between calls.
type Windower struct {
	cfg        Config
	classifier model.Classifier
	probe      model.SensitivityProbe
	corr       model.NetCorrelator
}

// New creates a windower over the given collaborators.
func New(cfg Config, classifier model.Classifier, probe model.SensitivityProbe, corr model.NetCorrelator) *Windower {
	return &Windower{
		cfg:        cfg,
		classifier: classifier,
		probe:      probe,
		corr:       corr,
	}
}

// Slide emits the ordered window records for the event stream. Windows start
// every Step events and nominally span Size events; emission stops at the
// first prospective window shorter than ceil(Size/2), so a short tail is
// dropped rather than reported with misleading per-window stats.
func (w *Windower) Slide(events []model.Event) []model.WindowRecord {
	n := len(events)
	floor := (w.cfg.Size + 1) / 2

	records := make([]model.WindowRecord, 0, n/w.cfg.Step+1)
	for i := 0; ; i += w.cfg.Step {
		end := i + w.cfg.Size
		if end > n {
			end = n
		}
		if end-i < floor {
			break
		}

		rec := w.analyzeWindow(events[i:end])
		rec.WindowID = i / w.cfg.Step
		rec.StartEvent = i
		rec.EndEvent = end
		records = append(records, rec)
	}
	return records
}

// analyzeWindow computes the aggregates for one contiguous window. The
// returned record lacks the index metadata, which Slide attaches.
func (w *Windower) analyzeWindow(events []model.Event) model.WindowRecord {
	counts := make(map[string]int, len(w.cfg.Categories))
	for _, c := range w.cfg.Categories {
		counts[c] = 0
	}

	devices := make([]string, 0)
	seen := make(map[string]struct{})
	sensitive := 0

	for i := range events {
		e := &events[i]

		c := w.classifier.Categorize(e)
		if _, ok := counts[c]; !ok {
			// Safety net for classifiers whose table maps outside the
			// configured vocabulary.
			c = classify.CategoryOther
		}
		counts[c]++

		if e.Device != "" {
			if _, dup := seen[e.Device]; !dup {
				seen[e.Device] = struct{}{}
				devices = append(devices, e.Device)
			}
		}

		if w.probe.Sensitive(e) {
			sensitive++
		}
	}

	return model.WindowRecord{
		EventCount:        len(events),
		Categories:        counts,
		UniqueDevices:     len(devices),
		Devices:           devices,
		SensitiveAccesses: sensitive,
		NetworkActivity:   w.networkActivity(events),
		DominantCategory:  w.dominant(counts),
	}
}

// networkActivity counts net events inside the window's time bounds. A
// missing endpoint timestamp defaults to 0; when neither endpoint has one,
// the window has no usable bounds and correlates to nothing.
func (w *Windower) networkActivity(events []model.Event) int {
	t0, t1 := 0.0, 0.0
	bounded := false
	if first := &events[0]; first.HasTimestamp() {
		t0 = first.Timestamp
		bounded = true
	}
	if last := &events[len(events)-1]; last.HasTimestamp() {
		t1 = last.Timestamp
		bounded = true
	}
	if !bounded {
		return 0
	}
	return w.corr.Count(t0, t1)
}

// dominant returns the category with the maximum count. Iterating the
// vocabulary in declaration order makes ties resolve to the
// earlier-declared category.
func (w *Windower) dominant(counts map[string]int) string {
	best := -1
	dominant := ""
	for _, c := range w.cfg.Categories {
		if counts[c] > best {
			best = counts[c]
			dominant = c
		}
	}
	return dominant
}
