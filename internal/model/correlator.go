package model

// NetCorrelator answers interval-count queries over the network side
// stream: how many net events fall inside the closed interval [t0, t1].
type NetCorrelator interface {
	Count(t0, t1 float64) int
}
