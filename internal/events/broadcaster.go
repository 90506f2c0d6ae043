package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

const subscriberBufferSize = 16

// Broadcaster fans transfer events out to in-process subscribers and,
// when configured, to an external event exchange. Delivery is best-effort
// and non-durable: a full subscriber channel drops the event and a
// subscriber that joins late never sees history. The transfer record store
// remains the durable source of truth.
type Broadcaster struct {
	mu        sync.Mutex
	nextID    int
	subs      map[int]chan TransferEvent
	publisher QueuePublisher
}

// NewBroadcaster creates a broadcaster. publisher may be nil, in which case
// events are only delivered in-process.
func NewBroadcaster(publisher QueuePublisher) *Broadcaster {
	return &Broadcaster{
		subs:      make(map[int]chan TransferEvent),
		publisher: publisher,
	}
}

// Subscribe registers a listener for all events published after this call.
// The returned cancel function must be called to release the subscription.
func (b *Broadcaster) Subscribe() (<-chan TransferEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan TransferEvent, subscriberBufferSize)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber and forwards it to
// the external exchange. It never blocks and never fails: a poller must not
// stall because a listener is slow or the broker is down.
func (b *Broadcaster) Publish(ctx context.Context, event TransferEvent) {
	b.mu.Lock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			log.Ctx(ctx).Warn().
				Str("sourceTxHash", event.SourceTxHash).
				Str("eventType", string(event.Type)).
				Msg("subscriber channel full, dropping event")
		}
	}
	b.mu.Unlock()

	if b.publisher == nil {
		return
	}

	routingKey, body, err := marshalWireMessage(event)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to marshal transfer event")
		return
	}
	if err := b.publisher.Publish(ctx, routingKey, body); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("sourceTxHash", event.SourceTxHash).
			Str("eventType", string(event.Type)).
			Msg("failed to publish transfer event to exchange")
	}
}

func marshalWireMessage(event TransferEvent) (string, []byte, error) {
	if event.Type == EventCreated {
		body, err := json.Marshal(TransferCreatedMessage{
			SourceTxHash: event.SourceTxHash,
			Status:       event.Status.ToString(),
		})
		return TransferCreatedRoutingKey, body, err
	}

	body, err := json.Marshal(TransferUpdatedMessage{
		SourceTxHash:       event.SourceTxHash,
		Status:             event.Status.ToString(),
		DestinationTxHash:  event.DestinationTxHash,
		BridgingDurationMs: event.BridgingDurationMs,
	})
	return TransferUpdatedRoutingKey, body, err
}

// Ping reports the health of the external publisher connection, if any.
func (b *Broadcaster) Ping() error {
	if b.publisher == nil {
		return nil
	}
	return b.publisher.Ping()
}

// Stop tears down the external publisher connection, if any. In-process
// subscribers keep their channels until they cancel.
func (b *Broadcaster) Stop() error {
	if b.publisher == nil {
		return nil
	}
	return b.publisher.Stop()
}
