package marketcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"skinledger/core/pricing"
)

// ErrCorruptEntry marks a cache file that exists but cannot be decoded.
// It never escapes Get: a corrupt entry is degraded to a miss.
var ErrCorruptEntry = errors.New("corrupt cache entry")

// Fetcher retrieves a fresh market document from the market data
// provider collaborator.
type Fetcher interface {
	FetchDocument(ctx context.Context, market, provider string) (pricing.Document, error)
}

// Config holds configuration for the market price cache.
type Config struct {
	// Dir is the cache directory; empty selects the platform cache dir.
	Dir string `mapstructure:"dir" default:""`
	// TTLMinutes is how long a cached document stays fresh.
	TTLMinutes int `mapstructure:"ttl_minutes" default:"60"`
}

// cachedMarket is the persisted form of one (market, provider) entry.
type cachedMarket struct {
	Document     pricing.Document `json:"document"`
	FetchedAtUTC time.Time        `json:"fetched_at_utc"`
}

// Cache is a per-(market, provider) document store with TTL-based
// refresh. One JSON file per key lives under the cache directory.
type Cache struct {
	dir     string
	ttl     time.Duration
	fetcher Fetcher
	log     *zap.Logger

	// now is injected for TTL tests.
	now func() time.Time

	sf singleflight.Group
}

// New creates a cache. When cfg.Dir is empty the platform user cache
// directory is used.
func New(cfg Config, fetcher Fetcher, log *zap.Logger) (*Cache, error) {
	dir := cfg.Dir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
		dir = filepath.Join(base, "skinledger")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Cache{
		dir:     dir,
		ttl:     ttl,
		fetcher: fetcher,
		log:     log,
		now:     time.Now,
	}, nil
}

// Get returns the cached document for (market, provider) when it is
// younger than the TTL, refreshing it from the provider otherwise. A
// corrupt existing entry is logged and treated as a miss; only a failed
// refetch is an error.
func (c *Cache) Get(ctx context.Context, market, provider string) (pricing.Document, error) {
	if entry, err := c.load(market, provider); err == nil {
		if c.now().UTC().Sub(entry.FetchedAtUTC) < c.ttl {
			return entry.Document, nil
		}
	} else if errors.Is(err, ErrCorruptEntry) {
		c.log.Warn("discarding corrupt market cache entry",
			zap.String("market", market),
			zap.String("provider", provider),
			zap.Error(err))
	}

	key := market + "|" + provider
	result, err, _ := c.sf.Do(key, func() (any, error) {
		doc, err := c.fetcher.FetchDocument(ctx, market, provider)
		if err != nil {
			return nil, fmt.Errorf("fetch market %s from %s: %w", market, provider, err)
		}
		if err := c.store(market, provider, doc); err != nil {
			return nil, err
		}
		return doc, nil
	})
	if err != nil {
		return pricing.Document{}, err
	}
	return result.(pricing.Document), nil
}

// path returns the cache file for one (market, provider) key.
func (c *Cache) path(market, provider string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s.json", market, provider))
}

func (c *Cache) load(market, provider string) (cachedMarket, error) {
	data, err := os.ReadFile(c.path(market, provider))
	if err != nil {
		if os.IsNotExist(err) {
			return cachedMarket{}, err
		}
		return cachedMarket{}, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	var entry cachedMarket
	if err := json.Unmarshal(data, &entry); err != nil {
		return cachedMarket{}, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	if entry.FetchedAtUTC.IsZero() {
		return cachedMarket{}, fmt.Errorf("%w: missing fetch timestamp", ErrCorruptEntry)
	}
	return entry, nil
}

func (c *Cache) store(market, provider string, doc pricing.Document) error {
	entry := cachedMarket{Document: doc, FetchedAtUTC: c.now().UTC()}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := os.WriteFile(c.path(market, provider), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}
