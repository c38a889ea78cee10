package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"stem_tutor_backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Type string

const (
	AnswerEvaluated Type = "answer.evaluated"
	LevelAdvanced   Type = "level.advanced"
	LevelChanged    Type = "level.changed"
)

// Event 学习事件，以 JSON 形式发布到 topic exchange
type Event struct {
	Type       Type                   `json:"type"`
	UserID     uint                   `json:"userId"`
	OccurredAt time.Time              `json:"occurredAt"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, evt *Event) error
	Close() error
}

type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Log.Info("Event publisher initialized", zap.String("exchange", exchange))
	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, evt *Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,       // exchange
		string(evt.Type), // routing key
		false,            // mandatory
		false,            // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    evt.OccurredAt,
			Body:         body,
			Headers: amqp091.Table{
				"event_type": string(evt.Type),
				"user_id":    int64(evt.UserID),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			logger.Log.Warn("Error closing RabbitMQ channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}

// NoopPublisher 事件关闭时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *Event) error { return nil }
func (NoopPublisher) Close() error { return nil }

// RecordingPublisher 在内存中保存事件，测试用
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []Event
}

func (r *RecordingPublisher) Publish(_ context.Context, evt *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, *evt)
	return nil
}

func (r *RecordingPublisher) Close() error { return nil }

func (r *RecordingPublisher) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]Type, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Type)
	}
	return types
}

// New 根据配置创建发布器；未启用时返回 NoopPublisher
func New(enabled bool, url, exchange string) (Publisher, error) {
	if !enabled || url == "" {
		return NoopPublisher{}, nil
	}
	return NewAMQPPublisher(url, exchange)
}
