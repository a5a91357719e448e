package correlate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"slicedroid/internal/model"
)

func netEvents(ts ...float64) []model.NetEvent {
	evs := make([]model.NetEvent, len(ts))
	for i, t := range ts {
		evs[i] = model.NetEvent{Timestamp: t}
	}
	return evs
}

func TestCount(t *testing.T) {
	ix := New(netEvents(5, 15, 25))

	cases := []struct {
		name   string
		t0, t1 float64
		want   int
	}{
		{"interior", 10, 20, 1},
		{"all", 0, 30, 3},
		{"none below", 0, 4, 0},
		{"none above", 26, 40, 0},
		{"closed at both ends", 5, 25, 3},
		{"point hit", 15, 15, 1},
		{"point miss", 16, 16, 0},
		{"inverted", 20, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ix.Count(tc.t0, tc.t1))
		})
	}
}

func TestCountEmptyStream(t *testing.T) {
	ix := New(nil)
	assert.Equal(t, 0, ix.Count(0, 100))
}

func TestNaNTimestampsExcluded(t *testing.T) {
	ix := New(netEvents(5, math.NaN(), 15, math.NaN()))
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, 2, ix.Count(0, 20))
}

func TestUnorderedStreamIsSorted(t *testing.T) {
	ix := New(netEvents(25, 5, 15))
	assert.Equal(t, 2, ix.Count(5, 15))
}

func TestDuplicateTimestamps(t *testing.T) {
	ix := New(netEvents(10, 10, 10, 20))
	assert.Equal(t, 3, ix.Count(10, 10))
	assert.Equal(t, 4, ix.Count(10, 20))
}
