package consumers

import (
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const defaultQueue = "properties_queue"

// openQueue connects, opens a channel and declares the durable queue shared
// by the publisher and the consumer.
func openQueue(rabbitURL, queueName string, logger *zap.Logger) (*amqp.Connection, *amqp.Channel, string, error) {
	if queueName == "" {
		queueName = defaultQueue
	}

	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, "", fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, "", fmt.Errorf("failed to declare queue: %w", err)
	}

	logger.Info("RabbitMQ queue declared", zap.String("queue", queueName))
	return conn, ch, queueName, nil
}

// closeQueue closes the channel, then the connection, and reports both
// failures.
func closeQueue(conn *amqp.Connection, ch *amqp.Channel) error {
	var errs []error

	if ch != nil {
		if err := ch.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ: %v", errs)
	}
	return nil
}
