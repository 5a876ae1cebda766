/*
Package catalog
File: source.go
Description:
    Source is how the shop obtains its catalog. HTTPSource downloads
    item.json from Data Dragon, retrying transient failures, then runs it
    through Decode and Build.
*/

package catalog

//go:generate go tool mockgen -destination=./mocks/source_mock.go -package=mocks . Source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/everforgeworks/rift-armory/internal/game"
)

// Source yields a validated, filtered, price-sorted catalog.
type Source interface {
	Load(ctx context.Context) ([]game.Item, error)
}

// ErrFetch wraps transport failures and non-200 responses.
var ErrFetch = errors.New("catalog fetch failed")

// HTTPSource loads item.json over HTTP.
type HTTPSource struct {
	URL        string
	Client     *http.Client
	Attempts   int           // Total tries, at least 1
	RetryDelay time.Duration // Wait between tries, doubled after each failure
	Filter     FilterOptions
	Logger     *zap.Logger
}

// Load fetches, validates and filters the catalog.
// Validation errors are not retried; the payload will not change.
func (s *HTTPSource) Load(ctx context.Context) ([]game.Item, error) {
	payload, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := Decode(payload)
	if err != nil {
		return nil, err
	}

	items := Build(entries, s.Filter)
	s.logger().Info("catalog loaded",
		zap.Int("decoded", len(entries)),
		zap.Int("items", len(items)),
	)
	return items, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	attempts := s.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := s.RetryDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		payload, err := s.fetchOnce(ctx)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		s.logger().Warn("catalog fetch attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrFetch, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, lastErr
}

func (s *HTTPSource) fetchOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrFetch, resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	return payload, nil
}

func (s *HTTPSource) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
