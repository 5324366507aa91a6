package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/observability/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	queryProducts = "products"
	queryProduct  = "product"

	prefetchTimeout = 10 * time.Second
	// loadTimeout bounds a shared upstream fetch, which outlives the caller
	// that started it.
	loadTimeout = 30 * time.Second
)

// ListKey is the cache key of the list query for an optional category.
func ListKey(categoryID *int64) string {
	if categoryID == nil {
		return queryProducts + "|all"
	}
	return queryProducts + "|" + strconv.FormatInt(*categoryID, 10)
}

// DetailKey is the cache key of the detail query.
func DetailKey(id string) string {
	return queryProduct + "|" + id
}

// Reader caches list and detail queries in front of another Reader.
// Concurrent loads of one key share a single upstream call. A list load
// that started before InvalidateLists never writes its result back.
type Reader struct {
	next    domain.Reader
	store   Store
	ttl     time.Duration
	metrics *metrics.CacheMetrics
	log     *zap.Logger

	group    singleflight.Group
	inflight sync.WaitGroup

	genMu   sync.RWMutex
	listGen uint64
}

func NewReader(next domain.Reader, store Store, ttl time.Duration, m *metrics.CacheMetrics, log *zap.Logger) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{
		next:    next,
		store:   store,
		ttl:     ttl,
		metrics: m,
		log:     log.Named("catalog.cache"),
	}
}

func (r *Reader) List(ctx context.Context, categoryID *int64) ([]domain.ListItem, error) {
	return load(ctx, r, queryProducts, ListKey(categoryID), func(ctx context.Context) ([]domain.ListItem, error) {
		return r.next.List(ctx, categoryID)
	})
}

func (r *Reader) GetByID(ctx context.Context, id string) (*domain.Detail, error) {
	return load(ctx, r, queryProduct, DetailKey(id), func(ctx context.Context) (*domain.Detail, error) {
		return r.next.GetByID(ctx, id)
	})
}

// Prefetch warms the detail query in the background, as the storefront
// does when a product card is hovered or focused.
func (r *Reader) Prefetch(ctx context.Context, id string) {
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), prefetchTimeout)
		defer cancel()
		if _, err := r.GetByID(ctx, id); err != nil {
			r.log.Debug("prefetch failed", zap.String("product_id", id), zap.Error(err))
		}
	}()
}

// Wait blocks until every started prefetch finished.
func (r *Reader) Wait() {
	r.inflight.Wait()
}

// InvalidateLists drops every cached list so a new product shows up.
func (r *Reader) InvalidateLists(ctx context.Context) {
	r.genMu.Lock()
	r.listGen++
	r.genMu.Unlock()
	if err := r.store.DeletePrefix(ctx, queryProducts+"|"); err != nil {
		r.log.Warn("invalidate product lists", zap.Error(err))
	}
}

// WrapCreator invalidates cached lists after every successful create.
func (r *Reader) WrapCreator(next domain.Creator) domain.Creator {
	return &invalidatingCreator{next: next, reader: r}
}

type invalidatingCreator struct {
	next   domain.Creator
	reader *Reader
}

func (c *invalidatingCreator) Create(ctx context.Context, req domain.CreateRequest) (*domain.Product, error) {
	created, err := c.next.Create(ctx, req)
	if err == nil {
		c.reader.InvalidateLists(ctx)
	}
	return created, err
}

func load[T any](ctx context.Context, r *Reader, query, key string, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	ok, err := r.store.Get(ctx, key, &cached)
	if err != nil {
		r.log.Warn("read cache get", zap.String("key", key), zap.Error(err))
	}
	if ok && err == nil {
		r.metrics.Hit(query)
		return cached, nil
	}
	r.metrics.Miss(query)

	gen, versioned := r.generation(query)
	flightKey := key
	if versioned {
		flightKey = key + "#" + strconv.FormatUint(gen, 10)
	}

	ch := r.group.DoChan(flightKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		val, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}

		r.genMu.RLock()
		defer r.genMu.RUnlock()
		if versioned && r.listGen != gen {
			r.log.Debug("read cache skip stale list", zap.String("key", key))
			return val, nil
		}
		if err := r.store.Set(fetchCtx, key, val, r.ttl); err != nil {
			r.log.Warn("read cache set", zap.String("key", key), zap.Error(err))
		}
		return val, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// generation returns the list generation for list queries. Other queries
// are not versioned.
func (r *Reader) generation(query string) (uint64, bool) {
	if query != queryProducts {
		return 0, false
	}
	r.genMu.RLock()
	defer r.genMu.RUnlock()
	return r.listGen, true
}

var _ domain.Reader = (*Reader)(nil)
