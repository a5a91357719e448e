package trace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicedroid/internal/engine/analyzer"
	"slicedroid/internal/model"
)

func TestDecodeBareArray(t *testing.T) {
	input, cfg, err := Decode([]byte(`[{"event":"read","device":7,"timestamp":1.5}]`))
	require.NoError(t, err)
	assert.Nil(t, cfg)

	require.Len(t, input.Events, 1)
	ev := input.Events[0]
	assert.Equal(t, "read", ev.Name)
	assert.Equal(t, "7", ev.Device)
	assert.Equal(t, 1.5, ev.Timestamp)
}

func TestDecodeAliasPrecedence(t *testing.T) {
	// kdevs_trace wins over events when both are present.
	data := []byte(`{
		"kdevs_trace": [{"event":"ioctl"}],
		"events": [{"event":"read"},{"event":"write"}]
	}`)
	input, _, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, input.Events, 1)
	assert.Equal(t, "ioctl", input.Events[0].Name)
}

func TestDecodeEventsAlias(t *testing.T) {
	input, _, err := Decode([]byte(`{"events": [{"event":"read"}]}`))
	require.NoError(t, err)
	require.Len(t, input.Events, 1)
}

func TestDecodeMissingStream(t *testing.T) {
	input, _, err := Decode([]byte(`{"tcp_trace": [{"timestamp": 1}]}`))
	require.NoError(t, err)
	assert.Empty(t, input.Events)
	require.Len(t, input.NetEvents, 1)
	assert.Equal(t, 1.0, input.NetEvents[0].Timestamp)
}

func TestDecodeSideStreams(t *testing.T) {
	data := []byte(`{
		"events": [{"event":"read","pathname":"/proc/self/maps"}],
		"tcp_trace": [{"timestamp": 3.25, "dst": "10.0.0.1"}, {"len": 40}],
		"sensitive_trace": [{"pathname": "/data/data/com.x"}],
		"dev2cat": {"7": "camera"}
	}`)
	input, _, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, input.NetEvents, 2)
	assert.Equal(t, 3.25, input.NetEvents[0].Timestamp)
	assert.True(t, math.IsNaN(input.NetEvents[1].Timestamp), "missing timestamp must decode to NaN")

	require.Len(t, input.Sensitive, 1)
	assert.Equal(t, model.DeviceCategories{"7": "camera"}, input.Dev2Cat)
}

func TestDecodeConfigOverride(t *testing.T) {
	data := []byte(`{
		"events": [{"event":"read"}],
		"config": {"window_size": 4, "window_step": 2}
	}`)
	_, override, err := Decode(data)
	require.NoError(t, err)
	require.NotNil(t, override)

	base := analyzer.DefaultConfig()
	cfg := override.Apply(base)
	assert.Equal(t, 4, cfg.WindowSize)
	assert.Equal(t, 2, cfg.WindowStep)
	assert.Equal(t, base.Categories, cfg.Categories)
}

func TestDecodeConfigOverrideExplicitZeroStep(t *testing.T) {
	// A literal step of 0 is a misconfiguration and must survive the merge
	// so validation can reject it.
	data := []byte(`{"events": [], "config": {"window_step": 0}}`)
	_, override, err := Decode(data)
	require.NoError(t, err)
	require.NotNil(t, override)

	cfg := override.Apply(analyzer.DefaultConfig())
	assert.Equal(t, 0, cfg.WindowStep)
	assert.ErrorIs(t, cfg.Validate(), model.ErrInvalidConfig)
}

func TestDecodeConfigNotARecord(t *testing.T) {
	_, _, err := Decode([]byte(`{"events": [], "config": {"window_size": "big"}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestDecodeNilOverrideApply(t *testing.T) {
	var override *ConfigOverride
	base := analyzer.DefaultConfig()
	assert.Equal(t, base, override.Apply(base))
}

func TestDecodeAttrsPassThrough(t *testing.T) {
	input, _, err := Decode([]byte(`[{"event":"read","pid":42,"comm":"app"}]`))
	require.NoError(t, err)
	require.Len(t, input.Events, 1)
	attrs := input.Events[0].Attrs
	require.NotNil(t, attrs)
	assert.Contains(t, attrs, "pid")
	assert.Contains(t, attrs, "comm")
}

func TestDecodeStringDevice(t *testing.T) {
	input, _, err := Decode([]byte(`[{"event":"read","device":"mmcblk0"}]`))
	require.NoError(t, err)
	assert.Equal(t, "mmcblk0", input.Events[0].Device)
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"scalar payload", `42`},
		{"string payload", `"events"`},
		{"stream not a sequence", `{"events": {"event":"read"}}`},
		{"element not a record", `[1, 2, 3]`},
		{"kdevs not a sequence", `{"kdevs_trace": "nope"}`},
		{"net stream not a sequence", `{"events": [], "tcp_trace": 7}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tc.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrMalformedInput)
		})
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	input, cfg, err := Decode([]byte("  \n"))
	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Empty(t, input.Events)
}
