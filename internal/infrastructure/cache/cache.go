package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"bar-catalog/internal/infrastructure/config"
	"bar-catalog/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 快取鍵
const (
	KeyCocktailAvailability = "availability:cocktails"
	KeyLowStock             = "availability:low_stock"
)

// Service 快取服務（redis 後端，停用時所有操作皆為 no-op）
type Service struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewService 創建快取服務
func NewService(cfg *config.CacheConfig) (*Service, error) {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return &Service{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("快取服務已初始化",
		zap.String("addr", cfg.Addr),
		zap.Duration("ttl", cfg.TTL),
	)

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// GetJSON 獲取快取並反序列化，回傳是否命中
func (s *Service) GetJSON(ctx context.Context, key string, v interface{}) (bool, error) {
	if s == nil || !s.config.Enabled || s.client == nil {
		return false, nil
	}

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			common.LogCacheMiss("snapshot", key)
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache: %w", err)
	}

	common.LogCacheHit("snapshot", key)
	return true, nil
}

// SetJSON 序列化後寫入快取（帶 TTL）
func (s *Service) SetJSON(ctx context.Context, key string, v interface{}) error {
	if s == nil || !s.config.Enabled || s.client == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Invalidate 使指定的快取鍵失效；目錄寫入後呼叫
func (s *Service) Invalidate(ctx context.Context, keys ...string) {
	if s == nil || !s.config.Enabled || s.client == nil || len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		common.LogWarn("快取失效操作失敗",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

// Close 關閉快取連線
func (s *Service) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
