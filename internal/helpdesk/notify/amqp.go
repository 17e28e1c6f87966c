package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "helpdesk.events"

	// RoutingKeyRequestCreated is used for new help request events.
	RoutingKeyRequestCreated = "help_request.created"
)

// Event is the JSON body published for an external push worker.
type Event struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Tokens []string          `json:"tokens"`
	Data   map[string]string `json:"data,omitempty"`
	SentAt string            `json:"sentAt"`
}

// AMQPSink publishes notifications to a RabbitMQ topic exchange instead of
// calling the push API itself.
type AMQPSink struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPSink(url, exchange string) (*AMQPSink, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPSink{conn: conn, ch: ch, exchange: exchange}, nil
}

func (s *AMQPSink) Send(ctx context.Context, tokens []string, msg Message) error {
	b, err := json.Marshal(Event{
		Type:   msg.Data["type"],
		Title:  msg.Title,
		Body:   msg.Body,
		Tokens: tokens,
		Data:   msg.Data,
		SentAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return s.ch.PublishWithContext(ctx, s.exchange, RoutingKeyRequestCreated, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
	})
}

func (s *AMQPSink) Close() error {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
