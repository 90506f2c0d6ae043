package events

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/config"
)

// QueuePublisher is the external fan-out half of the broadcaster, regardless
// of the underlying broker.
type QueuePublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Ping() error
	Stop() error
}

type AmqpPublisher struct {
	exchangeName string
	connection   *amqp.Connection
	channel      *amqp.Channel
}

func NewAmqpPublisher(cfg *config.EventsConfig) (*AmqpPublisher, error) {
	amqpURI := fmt.Sprintf(
		"amqp://%s:%s@%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Url,
	)
	conn, err := amqp.Dial(amqpURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to event broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Fanout exchange: every bound UI consumer sees every event, and events
	// published while no consumer is bound are simply dropped.
	err = ch.ExchangeDeclare(
		cfg.ExchangeName,
		"fanout",
		false, // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.ExchangeName, err)
	}

	return &AmqpPublisher{
		exchangeName: cfg.ExchangeName,
		connection:   conn,
		channel:      ch,
	}, nil
}

func (p *AmqpPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	return p.channel.PublishWithContext(
		ctx,
		p.exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   uuid.New().String(),
			Body:        body,
		},
	)
}

func (p *AmqpPublisher) Ping() error {
	if p.connection.IsClosed() {
		return fmt.Errorf("event broker connection is closed")
	}
	return nil
}

func (p *AmqpPublisher) Stop() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.connection.Close()
}

var _ QueuePublisher = (*AmqpPublisher)(nil)
