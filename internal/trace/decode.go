// Package trace decodes raw analysis payloads into the typed input model.
// All input alternation lives here: the event stream may arrive under
// "kdevs_trace", under "events", or as a bare array, and is resolved once
// before the engine ever sees it.
package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"slicedroid/internal/engine/analyzer"
	"slicedroid/internal/model"
)

// payload mirrors the object form of an analysis request. Every field is
// optional; raw messages defer decoding until the alias is resolved.
type payload struct {
	KdevsTrace     json.RawMessage `json:"kdevs_trace"`
	Events         json.RawMessage `json:"events"`
	TCPTrace       json.RawMessage `json:"tcp_trace"`
	SensitiveTrace json.RawMessage `json:"sensitive_trace"`
	Dev2Cat        json.RawMessage `json:"dev2cat"`
	Config         json.RawMessage `json:"config"`
}

// ConfigOverride is the per-request windowing override. Pointer fields
// distinguish an absent field from an explicit zero, so a literal step of
// 0 reaches validation and is rejected instead of silently defaulting.
type ConfigOverride struct {
	WindowSize *int     `json:"window_size"`
	WindowStep *int     `json:"window_step"`
	Categories []string `json:"categories"`
}

// Apply merges the override into a base config. A nil receiver leaves the
// base untouched.
func (o *ConfigOverride) Apply(cfg analyzer.Config) analyzer.Config {
	if o == nil {
		return cfg
	}
	if o.WindowSize != nil {
		cfg.WindowSize = *o.WindowSize
	}
	if o.WindowStep != nil {
		cfg.WindowStep = *o.WindowStep
	}
	if len(o.Categories) != 0 {
		cfg.Categories = o.Categories
	}
	return cfg
}

// Decode parses a raw payload into the typed trace input plus an optional
// per-request config override. The payload is either a bare event array or
// an object carrying the streams under their field names.
func Decode(data []byte) (*model.TraceInput, *ConfigOverride, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return &model.TraceInput{}, nil, nil
	}

	input := &model.TraceInput{}

	if trimmed[0] == '[' {
		events, err := DecodeEvents(trimmed)
		if err != nil {
			return nil, nil, err
		}
		input.Events = events
		return input, nil, nil
	}

	if trimmed[0] != '{' {
		return nil, nil, fmt.Errorf("%w: payload is neither an object nor a sequence", model.ErrMalformedInput)
	}

	var p payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", model.ErrMalformedInput, err)
	}

	// First present alias wins for the event stream; a missing stream is
	// the no-data case, not an error.
	stream := p.KdevsTrace
	if stream == nil {
		stream = p.Events
	}
	if stream != nil {
		events, err := DecodeEvents(stream)
		if err != nil {
			return nil, nil, err
		}
		input.Events = events
	}

	if p.TCPTrace != nil {
		netEvents, err := DecodeNetEvents(p.TCPTrace)
		if err != nil {
			return nil, nil, err
		}
		input.NetEvents = netEvents
	}

	if p.SensitiveTrace != nil {
		if err := json.Unmarshal(p.SensitiveTrace, &input.Sensitive); err != nil {
			return nil, nil, fmt.Errorf("%w: sensitive_trace: %v", model.ErrMalformedInput, err)
		}
	}

	if p.Dev2Cat != nil {
		if err := json.Unmarshal(p.Dev2Cat, &input.Dev2Cat); err != nil {
			return nil, nil, fmt.Errorf("%w: dev2cat: %v", model.ErrMalformedInput, err)
		}
	}

	var override *ConfigOverride
	if p.Config != nil {
		override = &ConfigOverride{}
		if err := json.Unmarshal(p.Config, override); err != nil {
			return nil, nil, fmt.Errorf("%w: config: %v", model.ErrInvalidConfig, err)
		}
	}

	return input, override, nil
}

// DecodeEvents parses an event stream. Each element must be a record;
// unknown fields are carried through in Attrs unread.
func DecodeEvents(data []byte) ([]model.Event, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: event stream is not a sequence", model.ErrMalformedInput)
	}

	events := make([]model.Event, 0, len(items))
	for i, item := range items {
		ev, err := DecodeEvent(item)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d is not a record", model.ErrMalformedInput, i)
		}
		events = append(events, ev)
	}
	return events, nil
}

// DecodeEvent parses a single event record.
func DecodeEvent(data []byte) (model.Event, error) {
	obj, err := decodeRecord(data)
	if err != nil {
		return model.Event{}, err
	}

	ev := model.Event{Timestamp: math.NaN()}
	for k, v := range obj {
		switch k {
		case "timestamp":
			if f, ok := asFloat(v); ok {
				ev.Timestamp = f
			}
		case "event":
			if s, ok := v.(string); ok {
				ev.Name = s
			}
		case "device":
			ev.Device = asIdentifier(v)
		case "pathname":
			if s, ok := v.(string); ok {
				ev.Pathname = s
			}
		default:
			if ev.Attrs == nil {
				ev.Attrs = make(map[string]any)
			}
			ev.Attrs[k] = v
		}
	}
	return ev, nil
}

// DecodeNetEvents parses the TCP/UDP side stream. Only timestamps are
// extracted; records without one get NaN and are excluded downstream.
func DecodeNetEvents(data []byte) ([]model.NetEvent, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: tcp_trace is not a sequence", model.ErrMalformedInput)
	}

	netEvents := make([]model.NetEvent, 0, len(items))
	for i, item := range items {
		obj, err := decodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("%w: net event %d is not a record", model.ErrMalformedInput, i)
		}
		ts := math.NaN()
		if f, ok := asFloat(obj["timestamp"]); ok {
			ts = f
		}
		netEvents = append(netEvents, model.NetEvent{Timestamp: ts})
	}
	return netEvents, nil
}

// decodeRecord parses one JSON object, keeping numbers as json.Number so
// device identifiers survive untouched.
func decodeRecord(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func asFloat(v any) (float64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// asIdentifier renders a device identifier opaquely: numbers keep their
// literal form, strings pass through, anything else is treated as absent.
func asIdentifier(v any) string {
	switch id := v.(type) {
	case json.Number:
		return id.String()
	case string:
		return id
	default:
		return ""
	}
}
