package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	kafka "github.com/segmentio/kafka-go"

	"github.com/mandi2mandi/marketguard/internal/pkg/config"
)

// MessageWriter is the subset of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher keeps one writer per topic and retries failed writes with
// exponential backoff.
type KafkaPublisher struct {
	Writers     map[string]MessageWriter
	RetryConfig config.RetryConfig

	sleep func(ctx context.Context, d time.Duration) error
}

// NewKafkaPublisher creates writers for the given topics. Defaults:
// 5 attempts, 100ms base delay, 10s cap.
func NewKafkaPublisher(brokers []string, topics []string, retryConfig config.RetryConfig) *KafkaPublisher {
	writers := make(map[string]MessageWriter, len(topics))
	for _, t := range topics {
		writers[t] = &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  t,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		}
	}
	return newPublisher(writers, retryConfig)
}

func newPublisher(writers map[string]MessageWriter, retryConfig config.RetryConfig) *KafkaPublisher {
	if retryConfig.MaxAttempts == 0 {
		retryConfig.MaxAttempts = 5
	}
	if retryConfig.BaseDelay == 0 {
		retryConfig.BaseDelay = 100 * time.Millisecond
	}
	if retryConfig.MaxDelay == 0 {
		retryConfig.MaxDelay = 10 * time.Second
	}
	return &KafkaPublisher{
		Writers:     writers,
		RetryConfig: retryConfig,
		sleep:       config.SleepContext,
	}
}

// Publish marshals message to JSON and writes it to topic, keyed by key so
// events for the same transaction land on the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, message any) error {
	writer, ok := p.Writers[topic]
	if !ok {
		return fmt.Errorf("no writer configured for topic %s", topic)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	msg := kafka.Message{Key: []byte(key), Value: data}
	return p.publishWithRetry(ctx, writer, msg, topic)
}

func (p *KafkaPublisher) publishWithRetry(ctx context.Context, writer MessageWriter, msg kafka.Message, topic string) error {
	var lastErr error

	for attempt := 0; attempt < p.RetryConfig.MaxAttempts; attempt++ {
		err := writer.WriteMessages(ctx, msg)
		if err == nil {
			if attempt > 0 {
				log.Infof("[Kafka Publisher] Message published to topic '%s' after %d attempts", topic, attempt+1)
			}
			return nil
		}

		lastErr = err

		if attempt == p.RetryConfig.MaxAttempts-1 {
			break
		}

		delay := p.RetryConfig.Backoff(attempt)
		log.Warnf("[Kafka Publisher] Retry %d/%d for topic '%s' after %v: %v",
			attempt+1, p.RetryConfig.MaxAttempts, topic, delay, err)

		if err := p.sleep(ctx, delay); err != nil {
			return fmt.Errorf("context cancelled during retry: %w", err)
		}
	}

	return fmt.Errorf("failed to publish message to topic '%s' after %d attempts: %w",
		topic, p.RetryConfig.MaxAttempts, lastErr)
}

// Close closes every writer and returns the first error.
func (p *KafkaPublisher) Close() error {
	var first error
	for topic, w := range p.Writers {
		if err := w.Close(); err != nil && first == nil {
			first = fmt.Errorf("close writer for %s: %w", topic, err)
		}
	}
	return first
}
