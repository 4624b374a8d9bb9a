package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"rentals-api/dto"
)

const handleTimeout = 30 * time.Second

// PropertyEventHandler applies one property event.
type PropertyEventHandler interface {
	Handle(ctx context.Context, event dto.PropertyEvent) error
}

// RabbitMQConsumer reads property events and hands them to the index
// service, one message at a time.
type RabbitMQConsumer struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	handler    PropertyEventHandler
	logger     *zap.Logger
}

func NewRabbitMQConsumer(rabbitURL, queueName string, handler PropertyEventHandler, logger *zap.Logger) (*RabbitMQConsumer, error) {
	conn, ch, queue, err := openQueue(rabbitURL, queueName, logger)
	if err != nil {
		return nil, err
	}

	return &RabbitMQConsumer{
		connection: conn,
		channel:    ch,
		queueName:  queue,
		handler:    handler,
		logger:     logger,
	}, nil
}

// Start consumes until ctx is cancelled. It returns an error if the broker
// closes the delivery channel first.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	// One unacknowledged message at a time
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Consumer registered, waiting for messages", zap.String("queue", c.queueName))
	return c.consume(ctx, msgs)
}

func (c *RabbitMQConsumer) consume(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("delivery channel closed by broker")
			}
			c.processMessage(ctx, msg)
		}
	}
}

// processMessage acks handled messages, drops malformed ones and requeues
// those whose handling failed.
func (c *RabbitMQConsumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event dto.PropertyEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Warn("Dropping malformed message", zap.ByteString("body", msg.Body), zap.Error(err))
		c.nack(msg, false)
		return
	}
	if !event.Valid() {
		c.logger.Warn("Dropping unknown property event",
			zap.String("action", event.Action), zap.String("property_id", event.PropertyID))
		c.nack(msg, false)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	if err := c.handler.Handle(ctx, event); err != nil {
		c.logger.Error("Error processing message, requeueing",
			zap.String("action", event.Action), zap.String("property_id", event.PropertyID), zap.Error(err))
		c.nack(msg, true)
		return
	}

	c.logger.Debug("Processed message",
		zap.String("action", event.Action), zap.String("property_id", event.PropertyID))
	if err := msg.Ack(false); err != nil {
		c.logger.Error("Error acknowledging message", zap.Error(err))
	}
}

func (c *RabbitMQConsumer) nack(msg amqp.Delivery, requeue bool) {
	if err := msg.Nack(false, requeue); err != nil {
		c.logger.Error("Error rejecting message", zap.Error(err))
	}
}

func (c *RabbitMQConsumer) Close() error {
	c.logger.Info("Closing RabbitMQ consumer")
	return closeQueue(c.connection, c.channel)
}
