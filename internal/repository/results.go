package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
)

const resultsKey = "results"

var ErrNoResults = errors.New("no archived results")

type ResultRepository interface {
	Record(ctx context.Context, result *entity.MatchResult) error
	Recent(ctx context.Context, limit int64) ([]*entity.MatchResult, error)
}

type dbResults struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResults{
		client: client,
	}
}

// Record - prepends a finished match to the archive list.
func (that *dbResults) Record(ctx context.Context, result *entity.MatchResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err = that.client.LPush(ctx, resultsKey, resultJSON).Err(); err != nil {
		return fmt.Errorf("failed to push result: %w", err)
	}

	return nil
}

// Recent - returns the most recently archived results, newest first.
func (that *dbResults) Recent(ctx context.Context, limit int64) ([]*entity.MatchResult, error) {
	raw, err := that.client.LRange(ctx, resultsKey, 0, limit-1).Result()

	if errors.Is(err, redis.Nil) || len(raw) == 0 {
		return nil, ErrNoResults
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	results := make([]*entity.MatchResult, 0, len(raw))

	for _, item := range raw {
		var result entity.MatchResult
		if err = json.Unmarshal([]byte(item), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}

		results = append(results, &result)
	}

	return results, nil
}
