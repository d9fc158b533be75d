package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/fjod/clothify/internal/domain"
	"github.com/fjod/clothify/pkg/circuitbreaker"
	"github.com/fjod/clothify/pkg/logger"
	"golang.org/x/sync/singleflight"
)

const (
	maxCatalogBytes = 10 << 20
	defaultTimeout  = 10 * time.Second
)

// HTTPSource fetches the catalog document with a GET on every call. Concurrent
// calls share one in-flight request; nothing is cached between calls. The shared
// request outlives any single caller and is bounded by the client timeout.
type HTTPSource struct {
	url     string
	client  *http.Client
	breaker *circuitbreaker.Breaker[[]domain.Product]
	sfg     singleflight.Group
}

func NewHTTPSource(url string, client *http.Client, cb circuitbreaker.Settings) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if cb.Name == "" {
		cb.Name = "catalog"
	}
	if cb.OnStateChange == nil {
		cb.OnStateChange = func(name, from, to string) {
			logger.L().WithField("breaker", name).Warnf("circuit breaker %s -> %s", from, to)
		}
	}
	return &HTTPSource{
		url:     url,
		client:  client,
		breaker: circuitbreaker.New[[]domain.Product](cb),
	}
}

// Products returns ctx.Err() when the caller goes away before the fetch
// completes; the fetch itself keeps running for the other callers.
func (s *HTTPSource) Products(ctx context.Context) ([]domain.Product, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.sfg.DoChan(s.url, func() (interface{}, error) {
		return s.breaker.Execute(func() ([]domain.Product, error) {
			return s.fetch(fetchCtx)
		})
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			logger.FromContext(ctx).WithError(res.Err).Error("failed to load products")
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, res.Err)
		}
		// the slice is shared by every caller of the flight
		return slices.Clone(res.Val.([]domain.Product)), nil
	}
}

func (s *HTTPSource) fetch(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return decode(io.LimitReader(resp.Body, maxCatalogBytes))
}
