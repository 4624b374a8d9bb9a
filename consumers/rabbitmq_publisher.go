package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"rentals-api/dto"
)

// RabbitMQPublisher sends property events to the queue the consumer reads.
type RabbitMQPublisher struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	logger     *zap.Logger
}

func NewRabbitMQPublisher(rabbitURL, queueName string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	conn, ch, queue, err := openQueue(rabbitURL, queueName, logger)
	if err != nil {
		return nil, err
	}
	return &RabbitMQPublisher{connection: conn, channel: ch, queueName: queue, logger: logger}, nil
}

// Publish sends the event as a persistent JSON message.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event dto.PropertyEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding property event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		"",          // default exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing property event: %w", err)
	}

	p.logger.Debug("Published property event",
		zap.String("action", event.Action), zap.String("property_id", event.PropertyID))
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.logger.Info("Closing RabbitMQ publisher")
	return closeQueue(p.connection, p.channel)
}
