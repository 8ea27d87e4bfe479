package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/theirongolddev/spendlens/internal/model"
)

const publishTimeout = 5 * time.Second

// Message is the JSON body published for each notification.
type Message struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Priority    string            `json:"priority"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	TriggerDate time.Time         `json:"trigger_date"`
	ActionData  map[string]string `json:"action_data,omitempty"`
}

// NewMessage converts a notification to its wire form.
func NewMessage(n model.Notification) Message {
	return Message{
		ID:          n.ID,
		Type:        string(n.Type),
		Priority:    string(n.Priority),
		Title:       n.Title,
		Message:     n.Message,
		TriggerDate: n.TriggerDate.UTC(),
		ActionData:  n.ActionData,
	}
}

// ToJSON encodes the message.
func (m Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Publisher publishes notifications to a RabbitMQ direct exchange. The
// queue is bound with its own name as routing key.
type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewPublisher dials url and declares the durable exchange, queue and binding.
func NewPublisher(url, exchange, queue string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
		logger:   logger,
	}
	if err := p.setup(); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return p, nil
}

func (p *Publisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = p.channel.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := p.channel.QueueBind(p.queue, p.queue, p.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// SaveNotification publishes n as a persistent JSON message.
func (p *Publisher) SaveNotification(ctx context.Context, n model.Notification) error {
	body, err := NewMessage(n).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		p.queue,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    n.ID,
			Type:         string(n.Type),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.DebugContext(ctx, "published notification",
		"id", n.ID,
		"type", n.Type,
		"exchange", p.exchange,
		"queue", p.queue)
	return nil
}

// Close closes the channel and connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
