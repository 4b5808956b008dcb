package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisRelay publishes events on a Redis channel and feeds every message on
// that channel back into a hub.
type RedisRelay struct {
	client  *redis.Client
	channel string
}

// NewRedisRelay connects to url and checks the connection
func NewRedisRelay(ctx context.Context, url, channel string) (*RedisRelay, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisRelay{client: client, channel: channel}, nil
}

// Send implements Relay
func (r *RedisRelay) Send(e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.client.Publish(context.Background(), r.channel, payload).Err()
}

// Attach subscribes to the channel and delivers into hub until ctx ends.
func (r *RedisRelay) Attach(ctx context.Context, hub *Hub) {
	pubsub := r.client.Subscribe(ctx, r.channel)
	hub.SetRelay(r)

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				hub.SetRelay(nil)
				return
			case msg, ok := <-ch:
				if !ok {
					hub.SetRelay(nil)
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					log.Printf("[REALTIME] Dropping malformed event: %v", err)
					continue
				}
				hub.Deliver(e)
			}
		}
	}()
	log.Printf("[REALTIME] Relaying events through redis channel %s", r.channel)
}

// Close releases the redis connection
func (r *RedisRelay) Close() error {
	return r.client.Close()
}
