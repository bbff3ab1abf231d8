// Package service implements the thumbnail resolution pipeline: a
// cache-aside read over the object store with an asynchronous
// regeneration fallback coordinated through the search index and the
// work queue.
package service

import (
	"context"
	"net/http"
	"time"

	"github.com/jonesrussell/north-cloud/thumbnailer/internal/config"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/domain"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/logger"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/metrics"
)

// ThumbnailStore checks existence of, and issues signed read access
// to, cached thumbnails.
type ThumbnailStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	SignedURL(ctx context.Context, id string) (string, error)
}

// SourceFinder looks up the search hit for an identifier. A missing
// document is (nil, nil), not an error.
type SourceFinder interface {
	FetchHit(ctx context.Context, id string) (*domain.SearchHit, error)
}

// Dispatcher enqueues a regeneration job for an identifier and its
// validated source image URL.
type Dispatcher interface {
	Dispatch(ctx context.Context, id, sourceURL string) error
}

// Resolution is the terminal outcome of one request. The HTTP layer
// maps it 1:1 onto a response; no state leaks past it.
type Resolution struct {
	Status   int
	Location string
	Headers  map[string]string

	cacheHit bool
}

// Resolver composes the pipeline into the per-request state machine:
// parse, check cache, serve from cache or fall back to the search
// index and dispatch regeneration. It holds no per-request state and
// is safe for concurrent use.
type Resolver struct {
	store      ThumbnailStore
	finder     SourceFinder
	dispatcher Dispatcher
	cfg        *config.Config
	log        logger.Logger
	metrics    *metrics.Metrics
	dispatched *recentSet // nil when deduplication is disabled

	now func() time.Time
}

// NewResolver creates a resolver over the given backends.
func NewResolver(
	store ThumbnailStore,
	finder SourceFinder,
	dispatcher Dispatcher,
	cfg *config.Config,
	log logger.Logger,
	m *metrics.Metrics,
) *Resolver {
	var dispatched *recentSet
	if cfg.Dispatch.DedupeTTL > 0 {
		dispatched = newRecentSet(cfg.Dispatch.DedupeTTL)
	}

	return &Resolver{
		store:      store,
		finder:     finder,
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        log,
		metrics:    m,
		dispatched: dispatched,
		now:        time.Now,
	}
}

// Resolve runs the state machine for one request path. Every path
// terminates in a Resolution; backend faults become 502 terminals and
// never propagate as errors. Pure negative results (bad identifier, no
// cached object and no usable candidate) are 404 terminals and are not
// treated as errors.
func (r *Resolver) Resolve(ctx context.Context, path string) *Resolution {
	start := r.now()
	res := r.resolve(ctx, path)
	r.metrics.ResolveDuration.Observe(r.now().Sub(start).Seconds())
	r.metrics.Resolutions.WithLabelValues(outcomeFor(res)).Inc()
	return res
}

func (r *Resolver) resolve(ctx context.Context, path string) *Resolution {
	id, ok := domain.ParseItemID(path)
	if !ok {
		r.log.Debug("no identifier in path", logger.String("path", path))
		return notFound()
	}

	exists, err := r.store.Exists(ctx, id)
	if err != nil {
		r.log.Error("object store existence check failed",
			logger.String("id", id),
			logger.String("backend", "object_store"),
			logger.Error(err),
		)
		return badGateway()
	}

	if exists {
		r.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return r.serveFromCache(ctx, id)
	}
	r.metrics.CacheLookups.WithLabelValues("miss").Inc()

	return r.serveFallback(ctx, id)
}

// serveFromCache answers a cache hit with a redirect to a signed store
// URL. Hits are durable, so downstream caches may hold them for the
// long freshness window.
func (r *Resolver) serveFromCache(ctx context.Context, id string) *Resolution {
	signed, err := r.store.SignedURL(ctx, id)
	if err != nil {
		r.log.Error("signed URL mint failed",
			logger.String("id", id),
			logger.String("backend", "object_store"),
			logger.Error(err),
		)
		return badGateway()
	}

	return &Resolution{
		Status:   http.StatusFound,
		Location: signed,
		Headers:  domain.CacheHeaders(r.cfg.Thumbnails.HitTTL, r.now()),
		cacheHit: true,
	}
}

// serveFallback handles the miss path: look up the item's source
// image, dispatch regeneration, and redirect the client to the
// original image as a provisional result.
func (r *Resolver) serveFallback(ctx context.Context, id string) *Resolution {
	hit, err := r.finder.FetchHit(ctx, id)
	if err != nil {
		r.log.Error("search index lookup failed",
			logger.String("id", id),
			logger.String("backend", "search_index"),
			logger.Error(err),
		)
		return badGateway()
	}

	sourceURL, ok := hit.ImageURL()
	if !ok {
		r.log.Debug("item has no displayable image", logger.String("id", id))
		return notFound()
	}

	if degraded := r.dispatch(ctx, id, sourceURL); degraded != nil {
		return degraded
	}

	// The real thumbnail should replace this response soon, so it must
	// not be cached long downstream.
	return &Resolution{
		Status:   http.StatusFound,
		Location: sourceURL,
		Headers:  domain.CacheHeaders(r.cfg.Thumbnails.MissTTL, r.now()),
	}
}

// dispatch enqueues the regeneration job. It returns a non-nil
// Resolution only when the enqueue failed and configuration escalates
// that to a fatal terminal; otherwise enqueue failures are degraded
// mode — logged, counted, and the fallback response still served.
func (r *Resolver) dispatch(ctx context.Context, id, sourceURL string) *Resolution {
	if r.dispatched != nil && !r.dispatched.mark(id, r.now()) {
		r.metrics.DispatchesSuppressed.Inc()
		r.log.Debug("regeneration recently dispatched, skipping",
			logger.String("id", id),
		)
		return nil
	}

	if err := r.dispatcher.Dispatch(ctx, id, sourceURL); err != nil {
		r.metrics.DispatchFailures.Inc()
		r.log.Error("regeneration enqueue failed",
			logger.String("id", id),
			logger.String("backend", "queue"),
			logger.Bool("fatal", r.cfg.Dispatch.FailOnEnqueueError),
			logger.Error(err),
		)
		if r.cfg.Dispatch.FailOnEnqueueError {
			return badGateway()
		}
	}

	return nil
}

func outcomeFor(res *Resolution) string {
	switch res.Status {
	case http.StatusFound:
		if res.cacheHit {
			return metrics.OutcomeHit
		}
		return metrics.OutcomeFallback
	case http.StatusNotFound:
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

func notFound() *Resolution {
	return &Resolution{Status: http.StatusNotFound}
}

func badGateway() *Resolution {
	return &Resolution{Status: http.StatusBadGateway}
}
