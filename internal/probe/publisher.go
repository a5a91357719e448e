package probe

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"slicedroid/internal/config"
	"slicedroid/internal/model"
)

// Publisher streams trace events to a NATS subject as JSON records, one
// message per event.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(cfg config.ProbeConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.NATSURL)
	return &Publisher{nc: nc, subject: cfg.Subject}, nil
}

// Publish serializes one trace event and publishes it to the configured
// subject.
func (p *Publisher) Publish(e *model.Event) error {
	data, err := EncodeEvent(e)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, data)
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}

// EncodeEvent serializes a trace event to its wire form: one flat JSON
// record, pass-through attributes at the top level next to the consumed
// fields, absent fields absent rather than zeroed. The form round-trips
// through trace.DecodeEvent.
func EncodeEvent(e *model.Event) ([]byte, error) {
	obj := make(map[string]any, len(e.Attrs)+4)
	for k, v := range e.Attrs {
		obj[k] = v
	}
	if e.HasTimestamp() {
		obj["timestamp"] = e.Timestamp
	}
	if e.Name != "" {
		obj["event"] = e.Name
	}
	if e.Device != "" {
		obj["device"] = e.Device
	}
	if e.Pathname != "" {
		obj["pathname"] = e.Pathname
	}
	return json.Marshal(obj)
}
