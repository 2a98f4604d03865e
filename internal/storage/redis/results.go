// Package redis stores finished battle results in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/config"
	"github.com/cory-johannsen/gridtactics/internal/session"
)

const (
	recentKey   = "gridtactics:results:recent"
	tallyPrefix = "gridtactics:results:tally:"
)

// NewClient builds a go-redis client from cfg. Redis connects lazily, so this
// never fails; call Ping to check reachability.
//
// Precondition: cfg.Addr must not be empty.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{Addr: cfg.Addr, DB: cfg.DB})
}

// ResultStore keeps the most recent results in a capped list and a per
// battlefield outcome tally.
type ResultStore struct {
	client goredis.Cmdable
	ttl    time.Duration
	max    int64
	logger *zap.Logger
}

var _ session.ResultRecorder = (*ResultStore)(nil)

// NewResultStore returns a store over client. ttl of zero keeps keys forever.
//
// Precondition: client must not be nil; max must be >= 1.
func NewResultStore(client goredis.Cmdable, ttl time.Duration, max int64, logger *zap.Logger) (*ResultStore, error) {
	if client == nil {
		return nil, errors.New("redis: client is required")
	}
	if max < 1 {
		return nil, fmt.Errorf("redis: max results must be >= 1, got %d", max)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultStore{client: client, ttl: ttl, max: max, logger: logger}, nil
}

// Record pushes r onto the recent list, trims the list and bumps the tally,
// all in one transaction.
//
// Postcondition: The recent list holds at most max entries, newest first.
func (s *ResultStore) Record(ctx context.Context, r session.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}
	tally := tallyPrefix + r.Battlefield
	_, err = s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.LPush(ctx, recentKey, data)
		p.LTrim(ctx, recentKey, 0, s.max-1)
		p.HIncrBy(ctx, tally, r.Outcome, 1)
		if s.ttl > 0 {
			p.Expire(ctx, recentKey, s.ttl)
			p.Expire(ctx, tally, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("recording result %s: %w", r.SessionID, err)
	}
	s.logger.Debug("result recorded", zap.String("session", r.SessionID), zap.String("outcome", r.Outcome))
	return nil
}

// Recent returns up to n results, newest first.
func (s *ResultStore) Recent(ctx context.Context, n int64) ([]session.Result, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := s.client.LRange(ctx, recentKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading recent results: %w", err)
	}
	out := make([]session.Result, 0, len(raw))
	for _, item := range raw {
		var r session.Result
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, fmt.Errorf("decoding result: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Tally returns outcome counts for battlefield, e.g. {"victory": 3, "defeat": 1}.
func (s *ResultStore) Tally(ctx context.Context, battlefield string) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, tallyPrefix+battlefield).Result()
	if err != nil {
		return nil, fmt.Errorf("reading tally for %q: %w", battlefield, err)
	}
	out := make(map[string]int64, len(raw))
	for outcome, v := range raw {
		var n int64
		if _, err := fmt.Sscan(v, &n); err != nil {
			return nil, fmt.Errorf("tally %q/%q: %w", battlefield, outcome, err)
		}
		out[outcome] = n
	}
	return out, nil
}
