package testutil

import (
	"context"
	"sync"

	"github.com/clinic-voice/backend/internal/events"
)

// Publisher records published events per stream.
type Publisher struct {
	mu        sync.Mutex
	Published map[string][]events.Event
	Err       error
}

func NewPublisher() *Publisher {
	return &Publisher{Published: make(map[string][]events.Event)}
}

func (p *Publisher) Publish(_ context.Context, stream string, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Published[stream] = append(p.Published[stream], event)
	return nil
}

func (p *Publisher) Events(stream string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.Published[stream]...)
}

// Subscriber hands events published through Deliver to subscribed handlers.
type Subscriber struct {
	mu       sync.Mutex
	handlers map[string][]func(events.Event)
}

func NewSubscriber() *Subscriber {
	return &Subscriber{handlers: make(map[string][]func(events.Event))}
}

func (s *Subscriber) Subscribe(_ context.Context, stream string, handler func(events.Event)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[stream] = append(s.handlers[stream], handler)
	return nil
}

// Deliver calls every handler subscribed to stream.
func (s *Subscriber) Deliver(stream string, event events.Event) {
	s.mu.Lock()
	hs := append(([]func(events.Event))(nil), s.handlers[stream]...)
	s.mu.Unlock()
	for _, h := range hs {
		h(event)
	}
}
