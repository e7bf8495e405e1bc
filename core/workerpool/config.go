package workerpool

import "fmt"

// Config holds configuration for the worker pool.
type Config struct {
	// Threads is the number of workers processing payloads concurrently.
	Threads int `mapstructure:"threads" default:"4"`
	// QueueSize is the number of payloads that may wait for a free worker.
	QueueSize int `mapstructure:"queue_size" default:"1024"`
}

// Validate checks the pool bounds.
func (c Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("worker threads must be positive, got %d", c.Threads)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("worker queue size must not be negative, got %d", c.QueueSize)
	}
	return nil
}
