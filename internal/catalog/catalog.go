// Package catalog serves the dataset list from a configured source, caching
// it for a fixed time and collapsing concurrent loads into one read.
package catalog

import (
	"context"
	"sync"
	"time"

	"dataportal/domain/dataset"
	"dataportal/internal/errors"
	"dataportal/internal/logging"
	"dataportal/ports"

	"golang.org/x/sync/singleflight"
)

var logger = logging.Default.With("catalog")

// LoadTimeout bounds one read of the underlying source.
const LoadTimeout = time.Minute

// Catalog is a caching ports.DatasetSource
type Catalog struct {
	source ports.DatasetSource
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	records  []dataset.Record
	loadedAt time.Time
	loaded   bool
}

var _ ports.DatasetSource = (*Catalog)(nil)

// New creates a catalog. A ttl of zero disables caching.
func New(source ports.DatasetSource, ttl time.Duration) *Catalog {
	return &Catalog{source: source, ttl: ttl, now: time.Now}
}

// ListDatasets returns the cached record list, reloading it when stale.
// Callers must not modify the returned slice.
func (c *Catalog) ListDatasets(ctx context.Context) ([]dataset.Record, error) {
	if records, ok := c.cached(); ok {
		return records, nil
	}

	ch := c.group.DoChan("datasets", func() (interface{}, error) {
		if records, ok := c.cached(); ok {
			return records, nil
		}
		// The load is shared, so it must outlive the caller that started it.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()

		start := c.now()
		records, err := c.source.ListDatasets(loadCtx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load datasets")
		}

		c.mu.Lock()
		c.records = records
		c.loadedAt = c.now()
		c.loaded = true
		c.mu.Unlock()

		logger.Info("loaded %d datasets in %s", len(records), c.now().Sub(start))
		return records, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debug("dataset load shared between concurrent callers")
		}
		return res.Val.([]dataset.Record), nil
	}
}

func (c *Catalog) cached() ([]dataset.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded || c.ttl <= 0 || c.now().Sub(c.loadedAt) >= c.ttl {
		return nil, false
	}
	return c.records, true
}

// Invalidate drops the cached list; the next call reloads it
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.loaded = false
}

// Find returns the dataset with the given name
func (c *Catalog) Find(ctx context.Context, name string) (dataset.Record, error) {
	records, err := c.ListDatasets(ctx)
	if err != nil {
		return dataset.Record{}, err
	}
	for _, rec := range records {
		if rec.DatasetName == name {
			return rec, nil
		}
	}
	return dataset.Record{}, errors.NotFound("dataset " + name)
}
