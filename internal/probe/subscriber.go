package probe

import (
	"log"

	"github.com/nats-io/nats.go"

	"slicedroid/internal/config"
	"slicedroid/internal/model"
	"slicedroid/internal/trace"
)

// EventHandler is a function that processes a received trace event.
type EventHandler func(e model.Event)

// Subscriber is responsible for subscribing to a NATS subject and decoding
// trace events from its messages.
type Subscriber struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string
}

// NewSubscriber creates a new NATS subscriber.
func NewSubscriber(cfg config.ProbeConfig) (*Subscriber, error) {
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.NATSURL)
	return &Subscriber{nc: nc, subject: cfg.Subject}, nil
}

// Start subscribes to the configured subject and feeds decoded events to
// the handler. Messages that do not decode as event records are dropped
// with a log line.
func (s *Subscriber) Start(handler EventHandler) error {
	sub, err := s.nc.Subscribe(s.subject, func(msg *nats.Msg) {
		ev, err := trace.DecodeEvent(msg.Data)
		if err != nil {
			log.Printf("Error decoding trace event: %v", err)
			return
		}
		handler(ev)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	log.Printf("Subscribed to '%s'. Waiting for trace events...", s.subject)
	return nil
}

// Close unsubscribes and closes the NATS connection.
func (s *Subscriber) Close() {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	if s.nc != nil {
		s.nc.Close()
		log.Println("NATS connection closed.")
	}
}
