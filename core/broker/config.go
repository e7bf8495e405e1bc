package broker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config holds configuration for the Kafka consumer.
type Config struct {
	// Brokers is the list of bootstrap servers (comma separated in the environment).
	Brokers []string `mapstructure:"brokers" default:"localhost:9092"`
	// Topic is the topic carrying temperature payloads.
	Topic string `mapstructure:"topic" default:"temperatures"`
	// GroupID is the consumer group used for offset tracking.
	GroupID string `mapstructure:"group_id" default:"temperatures-group"`
	// MinBytes is the minimum batch size the broker should return.
	MinBytes int `mapstructure:"min_bytes" default:"1"`
	// MaxBytes is the maximum batch size the broker should return.
	MaxBytes int `mapstructure:"max_bytes" default:"10000000"`
	// CommitInterval is how often consumed offsets are committed.
	CommitInterval time.Duration `mapstructure:"commit_interval" default:"1s"`
	// StartOffset selects where a new group starts reading (first, last).
	StartOffset string `mapstructure:"start_offset" default:"last"`
}

// Validate checks the consumer configuration.
func (c Config) Validate() error {
	if len(c.brokers()) == 0 {
		return errors.New("no kafka brokers configured")
	}
	if strings.TrimSpace(c.Topic) == "" {
		return errors.New("kafka topic must not be empty")
	}
	if strings.TrimSpace(c.GroupID) == "" {
		return errors.New("kafka group id must not be empty")
	}
	if c.MinBytes < 1 || c.MaxBytes < c.MinBytes {
		return fmt.Errorf("invalid kafka batch bounds min=%d max=%d", c.MinBytes, c.MaxBytes)
	}
	if _, err := c.startOffset(); err != nil {
		return err
	}
	return nil
}

// NewReader builds a kafka-go group reader from the configuration.
func NewReader(cfg Config) (*kafka.Reader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	offset, _ := cfg.startOffset()
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.brokers(),
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		StartOffset:    offset,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		CommitInterval: cfg.CommitInterval,
	}), nil
}

func (c Config) brokers() []string {
	out := make([]string, 0, len(c.Brokers))
	for _, b := range c.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c Config) startOffset() (int64, error) {
	switch strings.ToLower(c.StartOffset) {
	case "", "last":
		return kafka.LastOffset, nil
	case "first":
		return kafka.FirstOffset, nil
	default:
		return 0, fmt.Errorf("invalid kafka start offset %q", c.StartOffset)
	}
}
