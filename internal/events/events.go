// Package events carries entity change notifications from the services to
// live subscribers such as the /api/events websocket.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topic is the single topic all entity changes are published on.
const Topic = "entities"

type Kind string

const (
	KindProject     Kind = "project"
	KindFile        Kind = "file"
	KindChatMessage Kind = "chat_message"
	KindConnector   Kind = "connector"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event describes one committed mutation. Record holds the JSON of the entity
// after the change and is empty for deletions.
type Event struct {
	Kind      Kind            `json:"kind"`
	Action    Action          `json:"action"`
	ID        string          `json:"id"`
	ProjectID string          `json:"projectId,omitempty"`
	Record    json.RawMessage `json:"record,omitempty"`
	At        time.Time       `json:"at"`
}

// New builds an event, encoding record when it is non-nil.
func New(kind Kind, action Action, id string, record any) Event {
	e := Event{Kind: kind, Action: action, ID: id, At: time.Now().UTC()}
	if record != nil {
		if b, err := json.Marshal(record); err == nil {
			e.Record = b
		}
	}
	return e
}

// Publisher is what the services depend on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Bus is an in-process fan-out of events. Events published while nobody is
// subscribed are dropped. Each subscriber sees events in publish order.
type Bus struct {
	pubsub *gochannel.GoChannel
	// stall bounds how long a publish waits on a subscriber whose buffer is full.
	stall time.Duration
}

const (
	subscriberBuffer = 256
	defaultStall     = 5 * time.Second
)

func NewBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Bus{
		// Without the ack barrier gochannel hands every message to its own
		// goroutine and subscribers may observe them reordered.
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            subscriberBuffer,
			BlockPublishUntilSubscriberAck: true,
		}, logger),
		stall: defaultStall,
	}
}

func (b *Bus) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return b.pubsub.Publish(Topic, msg)
}

// Subscribe streams events until ctx is done; the channel is then closed.
// Messages are acked once buffered, so publishers only wait on a consumer
// whose buffer is full. A consumer that stays full for longer than the
// stall bound is disconnected rather than skipped, so a reader never sees a
// gap in the stream.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, error) {
	ctx, cancel := context.WithCancel(ctx)
	msgs, err := b.pubsub.Subscribe(ctx, Topic)
	if err != nil {
		cancel()
		return nil, err
	}
	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		defer cancel()
		for msg := range msgs {
			var e Event
			if err := json.Unmarshal(msg.Payload, &e); err != nil {
				msg.Ack()
				continue
			}
			select {
			case out <- e:
				msg.Ack()
				continue
			default:
			}

			timer := time.NewTimer(b.stall)
			select {
			case out <- e:
				timer.Stop()
				msg.Ack()
			case <-timer.C:
				msg.Ack()
				return
			case <-ctx.Done():
				timer.Stop()
				msg.Ack()
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
