// Package fixtures creates catalog rows for tests and for the seed command.
package fixtures

import (
	"context"
	"fmt"
	"time"

	"trackcatalog/db"
	"trackcatalog/model"
	"trackcatalog/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plain-text password of every fixture user.
const DefaultPassword = "test1234"

const (
	DefaultTrackGroupTitle = "A Track Group"
	DefaultTrackGroupSlug  = "a-track-group"
)

// CreateUser inserts a user with a bcrypt-hashed DefaultPassword.
func CreateUser(ctx context.Context, gdb *gorm.DB, email string) (*model.User, error) {
	// MinCost keeps suites that create a user per test fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &model.User{Email: email, Name: "Test User", PasswordHash: string(hash)}
	if err := gdb.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", email, err)
	}
	return user, nil
}

// CreateArtist inserts an artist owned by userID with a unique slug.
func CreateArtist(ctx context.Context, gdb *gorm.DB, userID uint) (*model.Artist, error) {
	artist := &model.Artist{
		UserID:  userID,
		Name:    "Test Artist",
		URLSlug: "test-artist-" + uuid.NewString()[:8],
	}
	if err := gdb.WithContext(ctx).Create(artist).Error; err != nil {
		return nil, fmt.Errorf("failed to create artist for user %d: %w", userID, err)
	}
	return artist, nil
}

// TrackGroupOption overrides a default of CreateTrackGroup.
type TrackGroupOption func(*model.TrackGroup)

func WithTitle(title string) TrackGroupOption {
	return func(tg *model.TrackGroup) { tg.Title = title }
}

func WithURLSlug(slug string) TrackGroupOption {
	return func(tg *model.TrackGroup) { tg.URLSlug = slug }
}

func WithReleaseDate(t time.Time) TrackGroupOption {
	return func(tg *model.TrackGroup) { tg.ReleaseDate = t.UTC() }
}

func WithPublished(published bool) TrackGroupOption {
	return func(tg *model.TrackGroup) { tg.Published = published }
}

// WithTracks replaces the default single track. An empty list creates a
// group without tracks.
func WithTracks(tracks ...model.Track) TrackGroupOption {
	return func(tg *model.TrackGroup) { tg.Tracks = tracks }
}

// CreateTrackGroup inserts a published group with one track, released now,
// then applies opts. It writes through the repository, so gdb may be a
// transaction.
func CreateTrackGroup(ctx context.Context, gdb *gorm.DB, artistID uint, opts ...TrackGroupOption) (*model.TrackGroup, error) {
	tg := model.NewTrackGroup(artistID, DefaultTrackGroupTitle, DefaultTrackGroupSlug, time.Now())
	tg.Tracks = []model.Track{{Title: "A Track", Order: 1}}
	for _, opt := range opts {
		opt(tg)
	}
	repo := repository.NewGormTrackGroupRepository(gdb, repository.TieBreakIDDesc)
	if err := repo.Create(ctx, tg); err != nil {
		return nil, err
	}
	return tg, nil
}

// ClearTables removes every catalog row; run it before each test case.
func ClearTables(ctx context.Context, gdb *gorm.DB) error {
	return db.ClearTables(ctx, gdb)
}
