package model

import "time"

// TrackGroup is a publishable collection of tracks, such as an album.
//
// Published carries no database default: GORM skips zero values for
// columns with a default, which would silently turn false into true.
// NewTrackGroup applies the "published unless told otherwise" default.
type TrackGroup struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ArtistID    uint      `gorm:"not null;uniqueIndex:idx_track_groups_artist_slug,priority:1" json:"artistId"`
	Artist      *Artist   `json:"artist,omitempty"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	URLSlug     string    `gorm:"column:url_slug;size:255;not null;uniqueIndex:idx_track_groups_artist_slug,priority:2" json:"urlSlug"`
	ReleaseDate time.Time `gorm:"not null;index" json:"releaseDate"`
	Published   bool      `gorm:"not null;index" json:"published"`
	Tracks      []Track   `gorm:"constraint:OnDelete:CASCADE" json:"tracks,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTrackGroup returns a published group for the given artist.
func NewTrackGroup(artistID uint, title, urlSlug string, releaseDate time.Time) *TrackGroup {
	return &TrackGroup{
		ArtistID:    artistID,
		Title:       title,
		URLSlug:     urlSlug,
		ReleaseDate: releaseDate.UTC(),
		Published:   true,
	}
}

// ArtistSummary is the artist as embedded in listing results.
type ArtistSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	URLSlug string `json:"urlSlug"`
}

// TrackGroupSummary is one entry of the public trackGroups listing.
type TrackGroupSummary struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	URLSlug     string         `json:"urlSlug"`
	ReleaseDate time.Time      `json:"releaseDate"`
	Published   bool           `json:"published"`
	Artist      *ArtistSummary `json:"artist,omitempty"`
}

// Summary converts the group into its listing form. Artist is only
// populated when it was preloaded.
func (tg *TrackGroup) Summary() TrackGroupSummary {
	s := TrackGroupSummary{
		ID:          tg.ID,
		Title:       tg.Title,
		URLSlug:     tg.URLSlug,
		ReleaseDate: tg.ReleaseDate,
		Published:   tg.Published,
	}
	if tg.Artist != nil {
		s.Artist = &ArtistSummary{
			ID:      tg.Artist.ID,
			Name:    tg.Artist.Name,
			URLSlug: tg.Artist.URLSlug,
		}
	}
	return s
}

// Summaries converts a slice of groups, always returning a non-nil slice
// so an empty listing encodes as [].
func Summaries(groups []TrackGroup) []TrackGroupSummary {
	out := make([]TrackGroupSummary, 0, len(groups))
	for i := range groups {
		out = append(out, groups[i].Summary())
	}
	return out
}
