package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeTMDBToken is the bearer token the fake upstream accepts.
const FakeTMDBToken = "test-tmdb-token"

// NamedFixture is a network or genre.
type NamedFixture struct {
	ID       int
	Name     string
	LogoPath string
}

// VideoFixture is one entry of /tv/{id}/videos.
type VideoFixture struct {
	ID          string
	Key         string
	Name        string
	Site        string
	Type        string
	PublishedAt string
}

// CastFixture is one entry of /tv/{id}/credits.
type CastFixture struct {
	ID          int
	Name        string
	Character   string
	Gender      int
	ProfilePath string
}

// ShowFixture describes everything the fake serves for one show.
type ShowFixture struct {
	ID           int
	Name         string
	Overview     string
	FirstAirDate string
	PosterPath   string
	Homepage     string
	Seasons      int
	Networks     []NamedFixture
	Genres       []NamedFixture
	Videos       []VideoFixture
	Cast         []CastFixture
}

// FakeTMDB is an httptest server answering a subset of the TMDB v3 API from
// registered fixtures. Unregistered paths return 404.
type FakeTMDB struct {
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string][]byte
	failures map[string]int
	requests map[string]int
}

// NewFakeTMDB starts a fake upstream that is closed when the test completes.
func NewFakeTMDB(t *testing.T) *FakeTMDB {
	t.Helper()

	f := &FakeTMDB{
		routes:   make(map[string][]byte),
		failures: make(map[string]int),
		requests: make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.server.Close)
	return f
}

// URL is the base URL to configure the client with.
func (f *FakeTMDB) URL() string {
	return f.server.URL
}

// Client returns the server's HTTP client.
func (f *FakeTMDB) Client() *http.Client {
	return f.server.Client()
}

func (f *FakeTMDB) serveHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests[r.URL.Path]++
	body, ok := f.routes[r.URL.Path]
	status, failing := f.failures[r.URL.Path]
	f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+FakeTMDBToken {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
		return
	}

	switch {
	case failing:
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"status_message":"injected failure"}`))
	case !ok:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	default:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}
}

// SetJSON registers v, marshalled as JSON, as the response for path.
func (f *FakeTMDB) SetJSON(path string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("fake tmdb fixture for %s: %v", path, err))
	}
	f.SetRaw(path, string(data))
}

// SetRaw registers a literal response body for path.
func (f *FakeTMDB) SetRaw(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = []byte(body)
}

// Fail makes every request to path answer with status.
func (f *FakeTMDB) Fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = status
}

// Recover removes an injected failure.
func (f *FakeTMDB) Recover(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, path)
}

// FailShow makes every endpoint of a show fail with status.
func (f *FakeTMDB) FailShow(id int, status int) {
	for _, path := range ShowPaths(id) {
		f.Fail(path, status)
	}
}

// Requests returns how many requests reached path.
func (f *FakeTMDB) Requests(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

// TotalRequests returns the number of requests served so far.
func (f *FakeTMDB) TotalRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.requests {
		total += n
	}
	return total
}

// ShowPaths lists the per-show endpoints used by scene aggregation.
func ShowPaths(id int) []string {
	return []string{
		fmt.Sprintf("/tv/%d", id),
		fmt.Sprintf("/tv/%d/videos", id),
		fmt.Sprintf("/tv/%d/credits", id),
	}
}

// AddShow registers details, videos and credits for a show.
func (f *FakeTMDB) AddShow(show ShowFixture) {
	networks := make([]map[string]any, 0, len(show.Networks))
	for _, n := range show.Networks {
		network := map[string]any{"id": n.ID, "name": n.Name, "logo_path": nil}
		if n.LogoPath != "" {
			network["logo_path"] = n.LogoPath
		}
		networks = append(networks, network)
	}

	genres := make([]map[string]any, 0, len(show.Genres))
	for _, g := range show.Genres {
		genres = append(genres, map[string]any{"id": g.ID, "name": g.Name})
	}

	details := map[string]any{
		"id":                show.ID,
		"name":              show.Name,
		"overview":          show.Overview,
		"first_air_date":    show.FirstAirDate,
		"homepage":          show.Homepage,
		"number_of_seasons": show.Seasons,
		"networks":          networks,
		"genres":            genres,
	}
	if show.PosterPath != "" {
		details["poster_path"] = show.PosterPath
	}

	videos := make([]map[string]any, 0, len(show.Videos))
	for _, v := range show.Videos {
		site := v.Site
		if site == "" {
			site = "YouTube"
		}
		kind := v.Type
		if kind == "" {
			kind = "Trailer"
		}
		videos = append(videos, map[string]any{
			"id":           v.ID,
			"key":          v.Key,
			"name":         v.Name,
			"site":         site,
			"type":         kind,
			"published_at": v.PublishedAt,
		})
	}

	cast := make([]map[string]any, 0, len(show.Cast))
	for _, c := range show.Cast {
		member := map[string]any{
			"id":           c.ID,
			"name":         c.Name,
			"character":    c.Character,
			"gender":       c.Gender,
			"profile_path": nil,
		}
		if c.ProfilePath != "" {
			member["profile_path"] = c.ProfilePath
		}
		cast = append(cast, member)
	}

	paths := ShowPaths(show.ID)
	f.SetJSON(paths[0], details)
	f.SetJSON(paths[1], map[string]any{"id": show.ID, "results": videos})
	f.SetJSON(paths[2], map[string]any{"id": show.ID, "cast": cast})
}

// AddPersonImages registers /person/{id}/images with the given file paths.
func (f *FakeTMDB) AddPersonImages(personID int, filePaths ...string) {
	f.SetJSON(fmt.Sprintf("/person/%d/images", personID), map[string]any{
		"id":       personID,
		"profiles": imageFixtures(filePaths),
	})
}

// AddSeasonImages registers /tv/{id}/season/{n}/images with poster paths.
func (f *FakeTMDB) AddSeasonImages(showID, season int, filePaths ...string) {
	f.SetJSON(fmt.Sprintf("/tv/%d/season/%d/images", showID, season), map[string]any{
		"id":      season,
		"posters": imageFixtures(filePaths),
	})
}

func imageFixtures(filePaths []string) []map[string]any {
	images := make([]map[string]any, 0, len(filePaths))
	for _, p := range filePaths {
		images = append(images, map[string]any{"file_path": p, "width": 500, "height": 750})
	}
	return images
}
