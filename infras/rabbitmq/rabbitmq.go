package rabbitmq

//go:generate go run go.uber.org/mock/mockgen -source=./rabbitmq.go -destination=./mocks/rabbitmq_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"conroom/config"
	"conroom/shared/constant"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const exchangeKind = "topic"

// Publisher publishes JSON payloads to a durable topic exchange.
type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, value any) error
	Close() error
}

type publisherImpl struct {
	mu       sync.Mutex
	url      string
	exchange string
	conn     *amqp.Connection
	ch       *amqp.Channel
}

// New returns a publisher that dials lazily on first publish and redials
// after a failed publish, so a broker outage never blocks start-up.
func New(config *config.Config) Publisher {
	return &publisherImpl{
		url:      config.Events.RabbitMQ.URL,
		exchange: config.Events.RabbitMQ.Exchange,
	}
}

func (p *publisherImpl) channel() (*amqp.Channel, error) {
	if p.ch != nil && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}

	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(p.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	log.Info().Str("exchange", p.exchange).Msg("Connected to RabbitMQ")

	p.conn = conn
	p.ch = ch

	return ch, nil
}

func (p *publisherImpl) PublishJSON(ctx context.Context, routingKey string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal rabbitmq payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		log.Error().Err(err).Str("exchange", p.exchange).Msg("RabbitMQ unavailable")

		return err
	}

	err = ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  constant.ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		p.reset()

		return fmt.Errorf("publish to rabbitmq: %w", err)
	}

	return nil
}

func (p *publisherImpl) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}

	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *publisherImpl) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reset()

	return nil
}
