package broker

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Reader is the subset of *kafka.Reader used by the consumer.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Handler receives the raw value of every consumed message.
// A returned error is logged; the message is not redelivered.
type Handler func(ctx context.Context, payload []byte) error

// Consumer pulls messages from a Reader and passes them to a Handler.
type Consumer struct {
	reader  Reader
	topic   string
	handler Handler
	logger  *zap.Logger

	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewConsumer creates a consumer for topic.
func NewConsumer(reader Reader, topic string, handler Handler, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader:     reader,
		topic:      topic,
		handler:    handler,
		logger:     logger.With(zap.String("topic", topic)),
		minBackoff: time.Second,
		maxBackoff: 10 * time.Second,
	}
}

// Run consumes until ctx is cancelled, then closes the reader.
// Read errors are retried with exponential backoff.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Error("Failed to close kafka reader", zap.Error(err))
		}
	}()
	c.logger.Info("Consumer started")

	backoff := c.minBackoff
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("Consumer stopped")
				return nil
			}
			c.logger.Error("Failed to read message", zap.Error(err), zap.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
				if backoff < c.maxBackoff {
					backoff *= 2
					if backoff > c.maxBackoff {
						backoff = c.maxBackoff
					}
				}
				continue
			case <-ctx.Done():
				c.logger.Info("Consumer stopped")
				return nil
			}
		}
		backoff = c.minBackoff

		if err := c.handler(ctx, msg.Value); err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Consumer stopped")
				return nil
			}
			c.logger.Error("Failed to hand off message",
				zap.Error(err),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
		}
	}
}
