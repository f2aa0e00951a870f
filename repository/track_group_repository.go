package repository

import (
	"context"
	"fmt"

	"trackcatalog/model"

	"gorm.io/gorm"
)

// TieBreak decides the order of track groups sharing a release date.
type TieBreak string

const (
	TieBreakIDDesc TieBreak = "id_desc" // newest row first
	TieBreakIDAsc  TieBreak = "id_asc"
	TieBreakNone   TieBreak = "none" // whatever the database returns
)

// ParseTieBreak accepts the values of TRACK_GROUP_TIE_BREAK.
func ParseTieBreak(s string) (TieBreak, error) {
	switch tb := TieBreak(s); tb {
	case TieBreakIDDesc, TieBreakIDAsc, TieBreakNone:
		return tb, nil
	case "":
		return TieBreakIDDesc, nil
	default:
		return "", fmt.Errorf("unknown track group tie-break %q", s)
	}
}

// TrackGroupRepository defines track group persistence.
type TrackGroupRepository interface {
	// Create inserts a track group together with its tracks.
	Create(ctx context.Context, tg *model.TrackGroup) error

	// ListPublished returns the groups visible in the public listing:
	// published and owning at least one track, most recent release first.
	ListPublished(ctx context.Context) ([]model.TrackGroup, error)
}

// GormTrackGroupRepository is the GORM implementation.
type GormTrackGroupRepository struct {
	db       *gorm.DB
	tieBreak TieBreak
}

// NewGormTrackGroupRepository creates a repository ordering ties by tieBreak.
func NewGormTrackGroupRepository(db *gorm.DB, tieBreak TieBreak) *GormTrackGroupRepository {
	return &GormTrackGroupRepository{db: db, tieBreak: tieBreak}
}

// Create inserts tg and any tracks attached to it.
func (r *GormTrackGroupRepository) Create(ctx context.Context, tg *model.TrackGroup) error {
	if err := r.db.WithContext(ctx).Create(tg).Error; err != nil {
		return fmt.Errorf("failed to create track group %q: %w", tg.URLSlug, err)
	}
	return nil
}

// ListPublished never returns a nil slice on success.
func (r *GormTrackGroupRepository) ListPublished(ctx context.Context) ([]model.TrackGroup, error) {
	hasTracks := r.db.Model(&model.Track{}).
		Select("1").
		Where("tracks.track_group_id = track_groups.id")

	q := r.db.WithContext(ctx).
		Model(&model.TrackGroup{}).
		Preload("Artist").
		Where("track_groups.published = ?", true).
		Where("EXISTS (?)", hasTracks).
		Order("track_groups.release_date DESC")

	switch r.tieBreak {
	case TieBreakIDAsc:
		q = q.Order("track_groups.id ASC")
	case TieBreakNone:
	default:
		q = q.Order("track_groups.id DESC")
	}

	groups := make([]model.TrackGroup, 0)
	if err := q.Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list published track groups: %w", err)
	}
	return groups, nil
}
