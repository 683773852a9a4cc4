package cache

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
)

// Config holds connection parameters for the view cache.
type Config struct {
	Addrs    []string
	Password string
}

// NewClient creates a rueidis client and checks connectivity.
func NewClient(ctx context.Context, cfg Config) (rueidis.Client, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}
