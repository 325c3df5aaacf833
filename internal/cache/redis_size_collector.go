package cache

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tamarabusta/Aerolineas/internal/metrics"
)

// StartRedisSizeCollector periodically samples used_memory from INFO and
// publishes it as a gauge.
func StartRedisSizeCollector(ctx context.Context, client *redis.Client, interval time.Duration, logger *log.Logger) {
	if client == nil {
		return
	}
	if logger == nil {
		logger = log.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		update := func() {
			info, err := client.Info(ctx, "memory").Result()
			if err != nil {
				metrics.IncRedisError("get")
				return
			}
			for _, line := range strings.Split(info, "\n") {
				line = strings.TrimSpace(line)
				if strings.HasPrefix(line, "used_memory:") {
					v := strings.TrimSpace(strings.TrimPrefix(line, "used_memory:"))
					n, err := strconv.ParseInt(v, 10, 64)
					if err == nil {
						metrics.SetRedisCacheSizeBytes(n)
					}
					return
				}
			}
		}

		update()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				update()
			}
		}
	}()
}
