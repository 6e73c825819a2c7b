package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher fans events out to every gateway instance subscribed to the channel.
type RedisPublisher struct {
	client redis.UniversalClient
	log    *zap.Logger
}

func NewRedisPublisher(client redis.UniversalClient, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	receivers, err := p.client.Publish(ctx, channel, data).Result()
	if err != nil {
		return err
	}
	p.log.Debug("event published", zap.String("type", event.Type), zap.Int64("receivers", receivers))
	return nil
}

type RedisSubscriber struct {
	client redis.UniversalClient
	log    *zap.Logger
}

func NewRedisSubscriber(client redis.UniversalClient, log *zap.Logger) *RedisSubscriber {
	return &RedisSubscriber{client: client, log: log}
}

// Subscribe returns once redis has confirmed the subscription. handler runs on a single
// goroutine until ctx is done.
func (s *RedisSubscriber) Subscribe(ctx context.Context, channel string, handler func(Event)) error {
	pubsub := s.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}
	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					s.log.Error("failed to unmarshal event", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				if event.Type == "" {
					s.log.Warn("dropping untyped event", zap.String("channel", msg.Channel))
					continue
				}
				handler(event)
			}
		}
	}()

	return nil
}
