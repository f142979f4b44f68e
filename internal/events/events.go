package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Topics published by the services after a successful commit.
const (
	TopicUserRegistered  = "user.registered"
	TopicUserDeleted     = "user.deleted"
	TopicTicketPurchased = "ticket.purchased"
	TopicTicketCancelled = "ticket.cancelled"
)

// Topics lists every topic, used by the audit subscriber.
var Topics = []string{TopicUserRegistered, TopicUserDeleted, TopicTicketPurchased, TopicTicketCancelled}

type UserRegistered struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type UserDeleted struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type TicketPurchased struct {
	TicketID   int64 `json:"ticket_id"`
	TravelID   int64 `json:"travel_id"`
	UserID     int64 `json:"user_id"`
	SeatNumber int   `json:"seat_number"`
	Price      int64 `json:"price"`
}

type TicketCancelled struct {
	TicketID int64 `json:"ticket_id"`
	TravelID int64 `json:"travel_id"`
	UserID   int64 `json:"user_id"`
}

// Envelope wraps every payload on the wire.
type Envelope struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher is what the services depend on.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// Bus publishes domain events on an in-process watermill pub/sub.
type Bus struct {
	pubSub *gochannel.GoChannel
	log    *zap.Logger
	now    func() time.Time
}

func NewBus(l *zap.Logger) *Bus {
	if l == nil {
		l = zap.NewNop()
	}
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, NewLoggerAdapter(l)),
		log:    l,
		now:    time.Now,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	env := Envelope{
		ID:         uuid.NewString(),
		Topic:      topic,
		OccurredAt: b.now().UTC(),
		Payload:    raw,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", topic, err)
	}
	msg := message.NewMessage(env.ID, body)
	msg.SetContext(ctx)
	return b.pubSub.Publish(topic, msg)
}

// Subscribe returns the raw message channel for topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, topic)
}

// Close stops the pub/sub and closes subscriber channels.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}

// RunAudit consumes every topic and writes one log line per event until ctx is done.
// handle may be nil; it receives each decoded envelope after logging.
func (b *Bus) RunAudit(ctx context.Context, handle func(Envelope)) error {
	var wg sync.WaitGroup
	for _, topic := range Topics {
		ch, err := b.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		wg.Add(1)
		go func(ch <-chan *message.Message) {
			defer wg.Done()
			for msg := range ch {
				var env Envelope
				if err := json.Unmarshal(msg.Payload, &env); err != nil {
					b.log.Warn("audit: undecodable event", zap.String("message_uuid", msg.UUID), zap.Error(err))
					msg.Ack()
					continue
				}
				b.log.Info("audit",
					zap.String("event_id", env.ID),
					zap.String("topic", env.Topic),
					zap.Time("occurred_at", env.OccurredAt),
					zap.ByteString("payload", env.Payload),
				)
				if handle != nil {
					handle(env)
				}
				msg.Ack()
			}
		}(ch)
	}
	wg.Wait()
	return nil
}
