package tmdb

import (
	"context"
	"encoding/json"

	"github.com/lepinkainen/tmdbstash/internal/errors"
)

// ShowDetails fetches /tv/{id}.
func (c *Client) ShowDetails(ctx context.Context, showID int) (*ShowDetails, error) {
	endpoint := c.endpoint("/tv/%d", showID)
	raw, err := c.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var details ShowDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, errors.NewMalformedResponseError(endpoint, err)
	}
	if details.ID == 0 {
		return nil, errors.NewMissingFieldError(endpoint, "id")
	}
	return &details, nil
}

// ShowVideos fetches /tv/{id}/videos and returns .results.
func (c *Client) ShowVideos(ctx context.Context, showID int) ([]Video, error) {
	return fetchList[Video](ctx, c, c.endpoint("/tv/%d/videos", showID), "results", true)
}

// ShowCredits fetches /tv/{id}/credits and returns .cast.
func (c *Client) ShowCredits(ctx context.Context, showID int) ([]CastMember, error) {
	return fetchList[CastMember](ctx, c, c.endpoint("/tv/%d/credits", showID), "cast", true)
}

// PersonImages fetches /person/{id}/images and returns .profiles.
func (c *Client) PersonImages(ctx context.Context, personID int) ([]Image, error) {
	return fetchList[Image](ctx, c, c.endpoint("/person/%d/images", personID), "profiles", true)
}

// SeasonImages fetches /tv/{id}/season/{n}/images and returns .posters,
// which may be absent.
func (c *Client) SeasonImages(ctx context.Context, showID, season int) ([]Image, error) {
	return fetchList[Image](ctx, c, c.endpoint("/tv/%d/season/%d/images", showID, season), "posters", false)
}

// fetchList unwraps one list field from an envelope object. A missing or
// null field is a MalformedResponseError when required, an empty list
// otherwise.
func fetchList[T any](ctx context.Context, c *Client, endpoint, field string, required bool) ([]T, error) {
	raw, err := c.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.NewMalformedResponseError(endpoint, err)
	}

	value, ok := envelope[field]
	if !ok || string(value) == "null" {
		if required {
			return nil, errors.NewMissingFieldError(endpoint, field)
		}
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, errors.NewMalformedResponseError(endpoint, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
