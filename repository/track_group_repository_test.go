package repository_test

import (
	"context"
	"testing"
	"time"

	"trackcatalog/db/dbtest"
	"trackcatalog/fixtures"
	"trackcatalog/model"
	"trackcatalog/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedArtist(t *testing.T, gdb *gorm.DB) *model.Artist {
	t.Helper()
	ctx := context.Background()
	user, err := fixtures.CreateUser(ctx, gdb, "test@testcom")
	require.NoError(t, err)
	artist, err := fixtures.CreateArtist(ctx, gdb, user.ID)
	require.NoError(t, err)
	return artist
}

func ids(groups []model.TrackGroup) []uint {
	out := make([]uint, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.ID)
	}
	return out
}

func TestParseTieBreak(t *testing.T) {
	tb, err := repository.ParseTieBreak("")
	require.NoError(t, err)
	assert.Equal(t, repository.TieBreakIDDesc, tb)

	tb, err = repository.ParseTieBreak("id_asc")
	require.NoError(t, err)
	assert.Equal(t, repository.TieBreakIDAsc, tb)

	_, err = repository.ParseTieBreak("title")
	assert.Error(t, err)
}

func TestListPublished_Empty(t *testing.T) {
	repo := repository.NewGormTrackGroupRepository(dbtest.Open(t), repository.TieBreakIDDesc)

	groups, err := repo.ListPublished(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestListPublished_Filters(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	artist := seedArtist(t, gdb)

	visible, err := fixtures.CreateTrackGroup(ctx, gdb, artist.ID, fixtures.WithURLSlug("visible"))
	require.NoError(t, err)
	_, err = fixtures.CreateTrackGroup(ctx, gdb, artist.ID, fixtures.WithURLSlug("no-tracks"), fixtures.WithTracks())
	require.NoError(t, err)
	_, err = fixtures.CreateTrackGroup(ctx, gdb, artist.ID, fixtures.WithURLSlug("draft"), fixtures.WithPublished(false))
	require.NoError(t, err)
	_, err = fixtures.CreateTrackGroup(ctx, gdb, artist.ID, fixtures.WithURLSlug("empty-draft"),
		fixtures.WithPublished(false), fixtures.WithTracks())
	require.NoError(t, err)

	groups, err := repository.NewGormTrackGroupRepository(gdb, repository.TieBreakIDDesc).ListPublished(ctx)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, visible.ID, groups[0].ID)
	require.NotNil(t, groups[0].Artist, "artist is preloaded")
	assert.Equal(t, artist.Name, groups[0].Artist.Name)
}

func TestListPublished_OrderedByReleaseDateDesc(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	artist := seedArtist(t, gdb)

	oldest, err := fixtures.CreateTrackGroup(ctx, gdb, artist.ID, fixtures.WithURLSlug("oldest"),
		fixtures.WithReleaseDate(time.Date(2022, 11, 28, 12, 52, 8, 206e6, time.UTC)))
	require.NoError(t, err)
	mostRecent, err := fixtures.CreateTrackGroup(ctx, gdb, artist.ID, fixtures.WithURLSlug("recent"),
		fixtures.WithReleaseDate(time.Date(2024, 11, 28, 12, 52, 8, 206e6, time.UTC)))
	require.NoError(t, err)
	middle, err := fixtures.CreateTrackGroup(ctx, gdb, artist.ID, fixtures.WithURLSlug("middle"),
		fixtures.WithReleaseDate(time.Date(2023, 11, 28, 12, 52, 8, 206e6, time.UTC)))
	require.NoError(t, err)

	groups, err := repository.NewGormTrackGroupRepository(gdb, repository.TieBreakIDDesc).ListPublished(ctx)
	require.NoError(t, err)

	assert.Equal(t, []uint{mostRecent.ID, middle.ID, oldest.ID}, ids(groups))
	for i := 1; i < len(groups); i++ {
		assert.False(t, groups[i].ReleaseDate.After(groups[i-1].ReleaseDate))
	}
}

func TestListPublished_TieBreak(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	artist := seedArtist(t, gdb)

	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first, err := fixtures.CreateTrackGroup(ctx, gdb, artist.ID, fixtures.WithURLSlug("first"), fixtures.WithReleaseDate(same))
	require.NoError(t, err)
	second, err := fixtures.CreateTrackGroup(ctx, gdb, artist.ID, fixtures.WithURLSlug("second"), fixtures.WithReleaseDate(same))
	require.NoError(t, err)

	desc, err := repository.NewGormTrackGroupRepository(gdb, repository.TieBreakIDDesc).ListPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID, first.ID}, ids(desc))

	asc, err := repository.NewGormTrackGroupRepository(gdb, repository.TieBreakIDAsc).ListPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID, second.ID}, ids(asc))

	none, err := repository.NewGormTrackGroupRepository(gdb, repository.TieBreakNone).ListPublished(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, ids(none))
}

func TestListPublished_Idempotent(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	artist := seedArtist(t, gdb)
	for _, slug := range []string{"a", "b", "c"} {
		_, err := fixtures.CreateTrackGroup(ctx, gdb, artist.ID, fixtures.WithURLSlug(slug))
		require.NoError(t, err)
	}
	repo := repository.NewGormTrackGroupRepository(gdb, repository.TieBreakIDDesc)

	first, err := repo.ListPublished(ctx)
	require.NoError(t, err)
	second, err := repo.ListPublished(ctx)
	require.NoError(t, err)

	assert.Equal(t, ids(first), ids(second))
}

func TestCreate(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	artist := seedArtist(t, gdb)
	repo := repository.NewGormTrackGroupRepository(gdb, repository.TieBreakIDDesc)

	tg := model.NewTrackGroup(artist.ID, "Debut", "debut", time.Now())
	tg.Tracks = []model.Track{{Title: "Intro", Order: 1}, {Title: "Outro", Order: 2}}
	require.NoError(t, repo.Create(ctx, tg))
	assert.NotZero(t, tg.ID)

	var count int64
	require.NoError(t, gdb.Model(&model.Track{}).Where("track_group_id = ?", tg.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	dup := model.NewTrackGroup(artist.ID, "Debut again", "debut", time.Now())
	assert.Error(t, repo.Create(ctx, dup))
}
