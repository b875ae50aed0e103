package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"nutrilog/internal/vision"
)

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisClient() (*RedisClient, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	// Test connection
	_, err = client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// StoreAnalysis caches a successful vision analysis keyed by image digest.
func (r *RedisClient) StoreAnalysis(imageDigest string, analysis vision.Analysis, duration time.Duration) error {
	key := fmt.Sprintf("analysis:%s", imageDigest)

	jsonData, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	err = r.client.Set(r.ctx, key, jsonData, duration).Err()
	if err != nil {
		return fmt.Errorf("failed to store analysis in Redis: %w", err)
	}

	return nil
}

// GetAnalysis returns a cached analysis for the image digest, if present.
func (r *RedisClient) GetAnalysis(imageDigest string) (vision.Analysis, bool, error) {
	key := fmt.Sprintf("analysis:%s", imageDigest)

	data, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return vision.Analysis{}, false, nil // Key doesn't exist
		}
		return vision.Analysis{}, false, fmt.Errorf("failed to get analysis from Redis: %w", err)
	}

	var analysis vision.Analysis
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		return vision.Analysis{}, false, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	return analysis, true, nil
}

// Get Redis status
func (r *RedisClient) GetStatus() (map[string]interface{}, error) {
	info, err := r.client.Info(r.ctx).Result()
	if err != nil {
		return nil, err
	}

	stats := r.client.PoolStats()

	return map[string]interface{}{
		"connected":    true,
		"hits":         stats.Hits,
		"misses":       stats.Misses,
		"active_conns": stats.TotalConns,
		"redis_info":   info,
	}, nil
}
