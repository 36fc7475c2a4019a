package order_events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"shop/internal/entities"
)

const defaultPublishTimeout = time.Second

type Publisher struct {
	producer producer
	topic    string
	timeout  time.Duration
}

type Option func(*Publisher)

// WithTimeout ограничивает ожидание подтверждения брокера. Ноль отключает
// собственный таймаут, остаётся только дедлайн контекста.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Publisher) {
		p.timeout = timeout
	}
}

func New(producer producer, topic string, opts ...Option) *Publisher {
	p := &Publisher{
		producer: producer,
		topic:    topic,
		timeout:  defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishOrderEvent пишет событие с ключом order_id: все события одного заказа
// попадают в одну партицию и читаются по порядку.
// SyncProducer не принимает контекст, поэтому отправка идёт в отдельной горутине
// и по истечении дедлайна вызывающий получает ошибку, не дожидаясь ретраев sarama.
func (p *Publisher) PublishOrderEvent(ctx context.Context, event entities.OrderEvent) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}

	env := toEnvelope(event)

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.OrderID, 10)),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(env.EventType)},
			{Key: []byte("event_id"), Value: []byte(env.EventID)},
		},
		Timestamp: env.OccurredAt,
	}

	sent := make(chan error, 1)
	go func() {
		_, _, err := p.producer.SendMessage(msg)
		sent <- err
	}()

	select {
	case err = <-sent:
	case <-ctx.Done():
		EventsPublishedTotal.WithLabelValues(env.EventType, "timeout").Inc()
		return fmt.Errorf("send order event %s for order %d: %w", env.EventType, event.OrderID, ctx.Err())
	}
	if err != nil {
		EventsPublishedTotal.WithLabelValues(env.EventType, "error").Inc()
		return fmt.Errorf("send order event %s for order %d: %w", env.EventType, event.OrderID, err)
	}

	EventsPublishedTotal.WithLabelValues(env.EventType, "ok").Inc()
	return nil
}
