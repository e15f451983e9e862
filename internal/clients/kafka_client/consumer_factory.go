package kafka_client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var consumerRegistry = make(map[string]func(context.Context, *kafka.Consumer))

func RegisterConsumer(topic string, consumerFunc func(context.Context, *kafka.Consumer)) {
	consumerRegistry[topic] = consumerFunc
}

func newConsumer(cfg KafkaConfig, topic string) (*kafka.Consumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"group.id":           cfg.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return nil, fmt.Errorf("[ConsumerFactory] Failed to create consumer: %w", err)
	}

	if err := c.SubscribeTopics([]string{topic}, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("[ConsumerFactory] Failed to subscribe to %s: %w", topic, err)
	}
	return c, nil
}

// StartConsumers runs one consumer goroutine per registered topic and blocks
// until every handler returns.
func StartConsumers(ctx context.Context, cfg KafkaConfig) error {
	if len(consumerRegistry) == 0 {
		return fmt.Errorf("[ConsumerFactory] No consumers registered")
	}

	var wg sync.WaitGroup
	for topic, consumerFunc := range consumerRegistry {
		consumerFunc := consumerFunc
		consumer, err := newConsumer(cfg, topic)
		if err != nil {
			return err
		}

		slog.Info("[ConsumerFactory] Starting consumer for topic...",
			slog.String("topic", topic))

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer consumer.Close()
			consumerFunc(ctx, consumer)
		}()
	}

	wg.Wait()
	return nil
}
