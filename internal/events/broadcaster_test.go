package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
)

const testTxHash = "A1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B2"

type capturedMessage struct {
	routingKey string
	body       []byte
}

type fakePublisher struct {
	messages   []capturedMessage
	publishErr error
	pingErr    error
	stopped    bool
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, body []byte) error {
	f.messages = append(f.messages, capturedMessage{routingKey: routingKey, body: body})
	return f.publishErr
}

func (f *fakePublisher) Ping() error { return f.pingErr }

func (f *fakePublisher) Stop() error {
	f.stopped = true
	return nil
}

func TestBroadcasterDeliversToSubscribers(t *testing.T) {
	b := NewBroadcaster(nil)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(context.Background(), TransferEvent{
		Type:         EventSettled,
		SourceTxHash: testTxHash,
		Status:       types.Settled,
	})

	event := <-ch
	assert.Equal(t, EventSettled, event.Type)
	assert.Equal(t, testTxHash, event.SourceTxHash)
}

func TestBroadcasterLateSubscriberMissesHistory(t *testing.T) {
	b := NewBroadcaster(nil)

	b.Publish(context.Background(), TransferEvent{Type: EventCreated, SourceTxHash: testTxHash})

	ch, cancel := b.Subscribe()
	defer cancel()

	select {
	case event := <-ch:
		t.Fatalf("late subscriber received replayed event: %v", event)
	default:
	}
}

func TestBroadcasterDropsWhenSubscriberFull(t *testing.T) {
	b := NewBroadcaster(nil)
	ch, cancel := b.Subscribe()
	defer cancel()

	// Fill the subscriber buffer and keep publishing; the publisher must
	// not block and the overflow is dropped.
	for i := 0; i < subscriberBufferSize+5; i++ {
		b.Publish(context.Background(), TransferEvent{Type: EventSettled, SourceTxHash: testTxHash})
	}

	delivered := 0
	for {
		select {
		case <-ch:
			delivered++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBufferSize, delivered)
}

func TestBroadcasterUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster(nil)
	ch, cancel := b.Subscribe()

	cancel()
	_, open := <-ch
	assert.False(t, open)

	// A second cancel is a no-op.
	cancel()
}

func TestBroadcasterForwardsToPublisher(t *testing.T) {
	publisher := &fakePublisher{}
	b := NewBroadcaster(publisher)

	b.Publish(context.Background(), TransferEvent{
		Type:         EventCreated,
		SourceTxHash: testTxHash,
		Status:       types.Pending,
	})

	duration := int64(7000)
	destTxHash := "0xdeadbeef"
	b.Publish(context.Background(), TransferEvent{
		Type:               EventArrived,
		SourceTxHash:       testTxHash,
		Status:             types.Arrived,
		DestinationTxHash:  &destTxHash,
		BridgingDurationMs: &duration,
	})

	require.Len(t, publisher.messages, 2)
	assert.Equal(t, TransferCreatedRoutingKey, publisher.messages[0].routingKey)
	assert.Equal(t, TransferUpdatedRoutingKey, publisher.messages[1].routingKey)

	var updated TransferUpdatedMessage
	require.NoError(t, json.Unmarshal(publisher.messages[1].body, &updated))
	assert.Equal(t, "arrived", updated.Status)
	require.NotNil(t, updated.BridgingDurationMs)
	assert.Equal(t, int64(7000), *updated.BridgingDurationMs)
}

func TestBroadcasterPublisherFailureDoesNotAffectSubscribers(t *testing.T) {
	publisher := &fakePublisher{publishErr: context.DeadlineExceeded}
	b := NewBroadcaster(publisher)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(context.Background(), TransferEvent{Type: EventSettled, SourceTxHash: testTxHash})

	event := <-ch
	assert.Equal(t, EventSettled, event.Type)
}

func TestBroadcasterPingAndStopWithoutPublisher(t *testing.T) {
	b := NewBroadcaster(nil)
	assert.NoError(t, b.Ping())
	assert.NoError(t, b.Stop())
}

func TestBroadcasterStopTearsDownPublisher(t *testing.T) {
	publisher := &fakePublisher{}
	b := NewBroadcaster(publisher)
	require.NoError(t, b.Stop())
	assert.True(t, publisher.stopped)
}
