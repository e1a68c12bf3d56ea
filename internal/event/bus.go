// Package event provides the gateway's pub/sub bus, built on watermill's
// in-process gochannel transport.
package event

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Type identifies a gateway event.
type Type string

const (
	CallbackRegistered Type = "callback.registered"
	CallbackConsumed   Type = "callback.consumed"
	RequestRejected    Type = "request.rejected"
)

// Event is what subscribers receive. Payload is the JSON encoding of the
// value passed to Publish.
type Event struct {
	Type    Type
	Payload json.RawMessage
}

// Bus fans events out to subscribers per event type. Each event type maps
// to a watermill topic; subscribers run on their own goroutine.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates a bus ready for publishing.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NopLogger{},
		),
	}
}

// Publish encodes data as JSON and delivers it to all subscribers of t.
func (b *Bus) Publish(t Type, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.pubsub.Publish(string(t), msg)
}

// Subscribe invokes fn for every event of type t until ctx is canceled or
// the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, t Type, fn func(Event)) error {
	ch, err := b.pubsub.Subscribe(ctx, string(t))
	if err != nil {
		return err
	}
	go func() {
		for msg := range ch {
			fn(Event{Type: t, Payload: json.RawMessage(msg.Payload)})
			msg.Ack()
		}
	}()
	return nil
}

// Close shuts down the underlying pub/sub and all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
