package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/s3-uploads-api/internal/config"
	"github.com/s3-uploads-api/internal/logger"
)

// SettingsChannel carries a message every time the stored settings change.
const SettingsChannel = "s3-uploads:settings"

type Client struct {
	Client *redis.Client
}

// NewClient creates a new Redis client
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{Client: client}, nil
}

// PublishSettingsChanged notifies every subscribed process.
func (c *Client) PublishSettingsChanged(ctx context.Context) error {
	return c.Client.Publish(ctx, SettingsChannel, time.Now().UTC().Format(time.RFC3339Nano)).Err()
}

// SubscribeSettings calls onChange for every settings message until ctx is
// done. It blocks.
func (c *Client) SubscribeSettings(ctx context.Context, log *logger.Logger, onChange func(context.Context)) {
	pubsub := c.Client.Subscribe(ctx, SettingsChannel)
	defer pubsub.Close()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.ErrorWith("failed to receive settings message", err, nil)
			time.Sleep(1 * time.Second)
			continue
		}

		log.Infof("settings changed at %s, refreshing", msg.Payload)
		onChange(ctx)
	}
}

func (c *Client) Close() error {
	return c.Client.Close()
}
