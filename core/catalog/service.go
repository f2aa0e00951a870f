// Package catalog serves the public track group listing.
package catalog

import (
	"context"
	"errors"
	"time"

	"trackcatalog/cache"
	"trackcatalog/logger"
	"trackcatalog/model"
)

// ErrNotImplemented marks operations with no defined behavior yet.
var ErrNotImplemented = errors.New("not implemented")

// TrackGroupLister is the read side of the track group repository.
type TrackGroupLister interface {
	ListPublished(ctx context.Context) ([]model.TrackGroup, error)
}

// ListingCache stores a computed listing between requests. Set is passed
// the generation returned by the Get that missed, so a listing read before
// an invalidation is not stored after it.
type ListingCache interface {
	Get(ctx context.Context) ([]model.TrackGroupSummary, cache.Generation, error)
	Set(ctx context.Context, gen cache.Generation, summaries []model.TrackGroupSummary) error
}

// Service answers listing requests from the repository, optionally
// reading through a cache.
type Service struct {
	repo  TrackGroupLister
	cache ListingCache
}

// NewService creates a Service. listingCache may be nil.
func NewService(repo TrackGroupLister, listingCache ListingCache) *Service {
	return &Service{repo: repo, cache: listingCache}
}

// ListTrackGroups returns published track groups that have tracks, most
// recent release first. Cache failures degrade to a database read.
func (s *Service) ListTrackGroups(ctx context.Context) ([]model.TrackGroupSummary, error) {
	var gen cache.Generation
	if s.cache != nil {
		summaries, g, err := s.cache.Get(ctx)
		if err == nil {
			logger.Debug("Track group listing served from cache", logger.Int("count", len(summaries)))
			return summaries, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn("Track group listing cache read failed", logger.ErrorField(err))
		}
		gen = g
	}

	start := time.Now()
	groups, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	summaries := model.Summaries(groups)
	logger.Debug("Track group listing loaded",
		logger.Int("count", len(summaries)),
		logger.Duration("elapsed", time.Since(start)),
	)

	// No generation means the cache was unreachable; skip the write.
	if s.cache != nil && gen != "" {
		if err := s.cache.Set(ctx, gen, summaries); err != nil {
			logger.Warn("Track group listing cache write failed", logger.ErrorField(err))
		}
	}
	return summaries, nil
}

// CreateTrackGroup has no agreed contract: ownership and validation rules
// are undecided, so it always reports ErrNotImplemented.
func (s *Service) CreateTrackGroup(ctx context.Context) error {
	return ErrNotImplemented
}
