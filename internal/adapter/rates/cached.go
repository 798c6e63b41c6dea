package rates

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/usecase"
)

// DefaultRateTTL bounds how long a cached quote may be served.
const DefaultRateTTL = 5 * time.Minute

// CachedResolver wraps a RateResolver with a cache. Quote lookups are on
// every exchange path, so a short TTL keeps them cheap without serving
// stale rates for long.
type CachedResolver struct {
	next  usecase.RateResolver
	cache usecase.Cache
	ttl   time.Duration
}

// NewCachedResolver creates a caching wrapper around a resolver.
func NewCachedResolver(next usecase.RateResolver, cache usecase.Cache) *CachedResolver {
	return &CachedResolver{
		next:  next,
		cache: cache,
		ttl:   DefaultRateTTL,
	}
}

// WithTTL overrides the cache TTL.
func (r *CachedResolver) WithTTL(ttl time.Duration) *CachedResolver {
	if ttl > 0 {
		r.ttl = ttl
	}
	return r
}

// Rate returns a cached conversion factor, falling through to the wrapped
// resolver on a miss. Cache failures degrade to uncached lookups.
func (r *CachedResolver) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	key := "rate:" + from + ":" + to

	if cached, err := r.cache.Get(ctx, key); err == nil {
		if rate, err := decimal.NewFromString(string(cached)); err == nil {
			return rate, nil
		}
	}

	rate, err := r.next.Rate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	_ = r.cache.Set(ctx, key, []byte(rate.String()), r.ttl)

	return rate, nil
}
