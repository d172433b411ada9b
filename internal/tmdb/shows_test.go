package tmdb

import (
	"context"
	"testing"

	"github.com/lepinkainen/tmdbstash/internal/errors"
	"github.com/lepinkainen/tmdbstash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowAccessors(t *testing.T) {
	client, fake, _ := newTestClient(t)
	fake.AddShow(testutil.ShowFixture{
		ID:           42,
		Name:         "The Answer",
		Overview:     "Deep thought.",
		FirstAirDate: "2020-01-02",
		PosterPath:   "/poster.jpg",
		Seasons:      2,
		Networks:     []testutil.NamedFixture{{ID: 49, Name: "HBO", LogoPath: "/hbo.png"}},
		Genres:       []testutil.NamedFixture{{ID: 18, Name: "Drama"}},
		Videos: []testutil.VideoFixture{
			{ID: "v1", Key: "abc", Name: "Trailer"},
			{ID: "v2", Key: "def", Name: "Teaser", Type: "Teaser"},
		},
		Cast: []testutil.CastFixture{
			{ID: 1000, Name: "Jane Doe", Character: "Ada", ProfilePath: "/jane.jpg"},
			{ID: 1001, Name: "John Roe"},
		},
	})
	ctx := context.Background()

	details, err := client.ShowDetails(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, details.ID)
	assert.Equal(t, "The Answer", details.DisplayName())
	assert.Equal(t, "2020-01-02", details.AirDate())
	require.NotNil(t, details.PosterPath)
	assert.Equal(t, "/poster.jpg", *details.PosterPath)
	assert.Equal(t, 2, details.NumberOfSeasons)
	require.Len(t, details.Networks, 1)
	assert.Equal(t, "HBO", details.Networks[0].Name)
	assert.Equal(t, []Genre{{ID: 18, Name: "Drama"}}, details.Genres)

	videos, err := client.ShowVideos(ctx, 42)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "abc", videos[0].Key)
	assert.Equal(t, "Teaser", videos[1].Type)

	cast, err := client.ShowCredits(ctx, 42)
	require.NoError(t, err)
	require.Len(t, cast, 2)
	require.NotNil(t, cast[0].ProfilePath)
	assert.Equal(t, "/jane.jpg", *cast[0].ProfilePath)
	assert.Nil(t, cast[1].ProfilePath)
}

func TestPersonAndSeasonImages(t *testing.T) {
	client, fake, _ := newTestClient(t)
	fake.AddPersonImages(1000, "/a.jpg", "/b.jpg")
	fake.AddSeasonImages(42, 1, "/s1.jpg")
	fake.SetRaw("/tv/42/season/2/images", `{"id":2}`)
	ctx := context.Background()

	profiles, err := client.PersonImages(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "/a.jpg", profiles[0].FilePath)

	posters, err := client.SeasonImages(ctx, 42, 1)
	require.NoError(t, err)
	assert.Len(t, posters, 1)

	posters, err = client.SeasonImages(ctx, 42, 2)
	require.NoError(t, err, "posters is optional")
	assert.Empty(t, posters)
}

func TestAccessors_MissingRequiredField(t *testing.T) {
	client, fake, _ := newTestClient(t)
	fake.SetRaw("/tv/7", `{"name":"no id"}`)
	fake.SetRaw("/tv/7/videos", `{"id":7}`)
	fake.SetRaw("/tv/7/credits", `{"id":7,"cast":null}`)
	fake.SetRaw("/person/3/images", `{"id":3,"stills":[]}`)
	ctx := context.Background()

	_, err := client.ShowDetails(ctx, 7)
	assert.True(t, errors.IsMalformedResponseError(err), "details: %v", err)

	_, err = client.ShowVideos(ctx, 7)
	assert.True(t, errors.IsMalformedResponseError(err), "videos: %v", err)
	assert.Contains(t, err.Error(), `missing "results"`)

	_, err = client.ShowCredits(ctx, 7)
	assert.True(t, errors.IsMalformedResponseError(err), "credits: %v", err)

	_, err = client.PersonImages(ctx, 3)
	assert.True(t, errors.IsMalformedResponseError(err), "images: %v", err)
}

func TestAccessors_WrongShapeIsMalformed(t *testing.T) {
	client, fake, _ := newTestClient(t)
	fake.SetRaw("/tv/8/videos", `{"results":"nope"}`)
	fake.SetRaw("/tv/8/credits", `[1,2,3]`)
	ctx := context.Background()

	_, err := client.ShowVideos(ctx, 8)
	assert.True(t, errors.IsMalformedResponseError(err))

	_, err = client.ShowCredits(ctx, 8)
	assert.True(t, errors.IsMalformedResponseError(err))
}

func TestAccessors_UpstreamErrorPropagates(t *testing.T) {
	client, _, _ := newTestClient(t)

	_, err := client.ShowVideos(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.IsUpstreamFetchError(err))
	assert.Contains(t, err.Error(), "HTTP 404")
}
