package rabbitmq

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/go-faster/errors"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// DefaultQueue is used when Config.Queue is empty.
const DefaultQueue = "product_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	lg      *zap.Logger

	mu sync.Mutex // serializes publishes on channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the event queue.
func NewClient(cfg Config, lg *zap.Logger) (*Client, error) {
	queue := cfg.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}

	if _, err := declare(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declare %s", queue)
	}

	lg.Info("RabbitMQ client connected", zap.String("queue", queue))

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   queue,
		lg:      lg,
	}, nil
}

func declare(ch *amqp.Channel, queue string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close channel"))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close connection"))
		}
	}
	if len(errs) > 0 {
		return errors.Errorf("close RabbitMQ client: %v", errs)
	}
	return nil
}

// Publish marshals payload to JSON and sends it to the event queue. The
// routing key is carried in the message type so consumers can dispatch on it.
func (c *Client) Publish(routingKey string, payload interface{}) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         routingKey,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return errors.Wrapf(err, "publish %s", routingKey)
	}

	c.lg.Debug("Event published", zap.String("type", routingKey), zap.Int("bytes", len(body)))
	return nil
}

// Consume delivers messages from the event queue to handler on a separate
// goroutine. A message is acked when handler returns nil and requeued
// otherwise.
func (c *Client) Consume(handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return errors.Wrap(err, "register consumer")
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				c.lg.Warn("Event handling failed",
					zap.Uint64("delivery_tag", msg.DeliveryTag),
					zap.Error(err),
				)
				if err := msg.Nack(false, true); err != nil {
					c.lg.Error("Nack failed", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
				}
				continue
			}
			if err := msg.Ack(false); err != nil {
				c.lg.Error("Ack failed", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
			}
		}
	}()

	return nil
}
