package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mines-backend/internal/config"
	"mines-backend/internal/models"
)

// RedisService backs the ledger and the request rate limiter.
type RedisService struct {
	client *redis.Client
}

func NewRedisService(ctx context.Context, cfg config.RedisConfig) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisService{client: client}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisService) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	txKey := fmt.Sprintf(KeyTransaction, tx.ID)

	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, txKey, data, TTLTransaction)
	pipe.ZAdd(ctx, KeyTransactions, redis.Z{
		Score:  float64(tx.CreatedAt.UnixNano()),
		Member: tx.ID,
	})
	// Keep only the newest MaxHistory transactions indexed.
	pipe.ZRemRangeByRank(ctx, KeyTransactions, 0, -(MaxHistory + 1))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// GetTransactions returns up to limit entries, newest first. Entries whose
// payload expired or is unreadable are skipped.
func (s *RedisService) GetTransactions(ctx context.Context, limit int64) ([]*models.Transaction, error) {
	limit = clampHistoryLimit(limit)

	txIDs, err := s.client.ZRevRange(ctx, KeyTransactions, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction IDs: %w", err)
	}
	if len(txIDs) == 0 {
		return []*models.Transaction{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(txIDs))
	for i, txID := range txIDs {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf(KeyTransaction, txID))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pipeline execution failed: %w", err)
	}

	transactions := make([]*models.Transaction, 0, len(cmds))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}

		var tx models.Transaction
		if err := json.Unmarshal([]byte(data), &tx); err != nil {
			continue
		}
		transactions = append(transactions, &tx)
	}

	return transactions, nil
}

// CheckRateLimit counts one request of action for client in a fixed window
// and reports whether it is still within limit.
func (s *RedisService) CheckRateLimit(ctx context.Context, client, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, client, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisService) ClearRateLimit(ctx context.Context, client, action string) error {
	key := fmt.Sprintf(KeyRateLimit, client, action)
	return s.client.Del(ctx, key).Err()
}

func (s *RedisService) DeleteTransaction(ctx context.Context, txID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, fmt.Sprintf(KeyTransaction, txID))
	pipe.ZRem(ctx, KeyTransactions, txID)
	_, err := pipe.Exec(ctx)
	return err
}
