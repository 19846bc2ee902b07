package refdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/peggalex/rchkChampionships/internal/constants"
	"github.com/peggalex/rchkChampionships/internal/metrics"
)

// ErrUnknownReference is returned when an id is still unknown after a forced
// reload of the static data.
var ErrUnknownReference = errors.New("unknown reference id")

// Source provides the static reference documents and per-account icons.
type Source interface {
	LatestVersion(ctx context.Context) (string, error)
	Champions(ctx context.Context, version string) (map[int]string, error)
	SummonerSpells(ctx context.Context, version string) (map[int]string, error)
	Keystones(ctx context.Context, version string) (map[int]string, error)
	SummonerIcon(ctx context.Context, region string, accountID int64) (int, error)
}

type snapshot struct {
	version   string
	loadedAt  time.Time
	champions map[int]string
	spells    map[int]string
	keystones map[int]string
}

// Cache is the process-wide reference data, loaded lazily and reloaded when
// the version goes stale or an id is missing. It is safe for concurrent use.
type Cache struct {
	source  Source
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
	logger  zerolog.Logger

	mu    sync.RWMutex
	data  *snapshot
	group singleflight.Group
}

func NewCache(source Source, ttl time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Cache {
	return &Cache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		metrics: m,
		logger:  logger,
	}
}

func (c *Cache) current() *snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

func (c *Cache) stale(s *snapshot) bool {
	return s == nil || c.now().Sub(s.loadedAt) >= c.ttl
}

// Version returns the league version the static data was loaded for,
// reloading when stale or when force is set.
func (c *Cache) Version(ctx context.Context, force bool) (string, error) {
	s, err := c.load(ctx, force)
	if err != nil {
		return "", err
	}
	return s.version, nil
}

func (c *Cache) Champion(ctx context.Context, id int) (string, error) {
	return c.lookup(ctx, "champion", id, func(s *snapshot) map[int]string { return s.champions })
}

func (c *Cache) Spell(ctx context.Context, id int) (string, error) {
	return c.lookup(ctx, "summoner spell", id, func(s *snapshot) map[int]string { return s.spells })
}

// Keystone returns the keystone icon path relative to the Data Dragon image
// root.
func (c *Cache) Keystone(ctx context.Context, id int) (string, error) {
	return c.lookup(ctx, "keystone", id, func(s *snapshot) map[int]string { return s.keystones })
}

// SummonerIcon is not cached: icons change whenever a player picks a new one.
func (c *Cache) SummonerIcon(ctx context.Context, region string, accountID int64) (int, error) {
	return c.source.SummonerIcon(ctx, region, accountID)
}

func (c *Cache) lookup(ctx context.Context, kind string, id int, table func(*snapshot) map[int]string) (string, error) {
	s, err := c.load(ctx, false)
	if err != nil {
		return "", err
	}
	if v, ok := table(s)[id]; ok {
		return v, nil
	}

	c.logger.Debug().Str("kind", kind).Int("id", id).Msg("reference miss, forcing reload")
	s, err = c.load(ctx, true)
	if err != nil {
		return "", err
	}
	if v, ok := table(s)[id]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s %d", ErrUnknownReference, kind, id)
}

// load returns the current snapshot, reloading it when needed. Concurrent
// reloads collapse into one. The shared fetch is detached from any single
// caller's context; each caller stops waiting when its own context ends.
func (c *Cache) load(ctx context.Context, force bool) (*snapshot, error) {
	if s := c.current(); !force && !c.stale(s) {
		return s, nil
	}

	key := "load"
	if force {
		key = "reload"
	}
	ch := c.group.DoChan(key, func() (any, error) {
		if s := c.current(); !force && !c.stale(s) {
			return s, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ExternalAPITimeout)
		defer cancel()
		return c.fetch(fetchCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*snapshot), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for reference data: %w", ctx.Err())
	}
}

func (c *Cache) fetch(ctx context.Context) (*snapshot, error) {
	version, err := c.source.LatestVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch league version: %w", err)
	}

	s := &snapshot{version: version}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.champions, err = c.source.Champions(gCtx, version)
		return err
	})
	g.Go(func() (err error) {
		s.spells, err = c.source.SummonerSpells(gCtx, version)
		return err
	})
	g.Go(func() (err error) {
		s.keystones, err = c.source.Keystones(gCtx, version)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch static data for %s: %w", version, err)
	}
	s.loadedAt = c.now()

	c.mu.Lock()
	c.data = s
	c.mu.Unlock()

	c.metrics.RefdataLoaded()
	c.logger.Info().
		Str("version", version).
		Int("champions", len(s.champions)).
		Int("spells", len(s.spells)).
		Int("keystones", len(s.keystones)).
		Msg("reference data loaded")

	return s, nil
}
