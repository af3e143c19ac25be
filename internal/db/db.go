package db

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(dbURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)

	if err != nil {
		return nil, err
	}

	cfg.MaxConns = 5

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)

	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)

	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Connect keeps retrying the database until it answers, backing off
// exponentially between attempts. Gives up only when ctx is cancelled.
func Connect(ctx context.Context, log *slog.Logger, dbURL string) (*pgxpool.Pool, error) {
	attempt := 0

	for {
		pool, err := NewPool(dbURL)

		if err == nil {
			if attempt > 0 {
				log.Info("database connected after retries", "attempts", attempt+1)
			}
			return pool, nil
		}

		delay := connectBackoff(attempt)
		log.Error("database connection failed, retrying", "err", err, "attempt", attempt+1, "retry_in", delay.String())
		attempt++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func connectBackoff(attempt int) time.Duration {
	base := 2 * time.Second
	capDelay := 1 * time.Minute

	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt)))

	if delay > capDelay || delay < 0 {
		delay = capDelay
	}

	// small jitter (0–250ms) to avoid thundering herd
	delay += time.Duration(rand.Intn(250)) * time.Millisecond
	return delay
}
