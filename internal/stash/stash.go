// Package stash defines the Stash-shaped entities served over GraphQL and
// the deterministic mapping from TMDB records onto them.
package stash

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ImageBaseURL prefixes TMDB image paths.
	ImageBaseURL = "https://image.tmdb.org/t/p/original"

	youtubeWatchURL      = "https://www.youtube.com/watch?v="
	youtubeThumbnailURL  = "https://img.youtube.com/vi/%s/0.jpg"
	tmdbPersonPageURL    = "https://www.themoviedb.org/person/%d"
	tmdbShowPageURL      = "https://www.themoviedb.org/tv/%d"
	sceneIDPrefix        = "scene-"
	galleryIDPrefix      = "gallery-"
	seasonGallerySegment = "-s"
)

// ScenePaths holds the media URLs of a scene.
type ScenePaths struct {
	Screenshot *string
	Stream     *string
}

// Scene is one show video.
type Scene struct {
	ID         string
	ShowID     int
	Title      string
	Details    *string
	Date       *string
	URLs       []string
	Paths      ScenePaths
	Performers []Performer
	Studio     *Studio
	Tags       []Tag
	Groups     []Group
}

// Performer is one cast member.
type Performer struct {
	ID             string
	Name           string
	Disambiguation *string
	Gender         *string
	ImagePath      *string
	URLs           []string
}

// Studio is a show network.
type Studio struct {
	ID        string
	Name      string
	ImagePath *string
}

// Tag is a show genre.
type Tag struct {
	ID   string
	Name string
}

// Group is a show.
type Group struct {
	ID             string
	Name           string
	Date           *string
	Synopsis       *string
	FrontImagePath *string
	URLs           []string
	Studio         *Studio
	Tags           []Tag
	Seasons        int
}

// ImageFile is one image of a gallery.
type ImageFile struct {
	Path   string
	Width  int
	Height int
}

// Gallery is a set of images for a performer or a show season.
type Gallery struct {
	ID    string
	Title *string
	Files []ImageFile
}

// SceneID derives the scene id for a show video.
func SceneID(showID int, videoID string) string {
	return fmt.Sprintf("%s%d-%s", sceneIDPrefix, showID, videoID)
}

// ParseSceneID splits a scene id into its show id and video id.
func ParseSceneID(id string) (int, string, bool) {
	rest, ok := strings.CutPrefix(id, sceneIDPrefix)
	if !ok {
		return 0, "", false
	}
	show, video, ok := strings.Cut(rest, "-")
	if !ok || video == "" {
		return 0, "", false
	}
	showID, err := strconv.Atoi(show)
	if err != nil || showID <= 0 {
		return 0, "", false
	}
	return showID, video, true
}

// PerformerGalleryID derives the gallery id for a person's profile images.
func PerformerGalleryID(personID int) string {
	return fmt.Sprintf("%s%d", galleryIDPrefix, personID)
}

// SeasonGalleryID derives the gallery id for a season's posters.
func SeasonGalleryID(showID, season int) string {
	return fmt.Sprintf("%s%d%s%d", galleryIDPrefix, showID, seasonGallerySegment, season)
}

// ParseNumericID parses the numeric ids used by performers, studios, tags
// and groups. Only positive integers are valid.
func ParseNumericID(id string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ImageURL turns a TMDB file path into an absolute URL.
func ImageURL(path string) string {
	return ImageBaseURL + path
}

func imageURLPtr(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := ImageURL(*path)
	return &u
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
