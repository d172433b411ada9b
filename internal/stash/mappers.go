package stash

import (
	"fmt"
	"strconv"

	"github.com/lepinkainen/tmdbstash/internal/tmdb"
)

// TMDB gender codes.
var genders = map[int]string{
	1: "FEMALE",
	2: "MALE",
	3: "NON_BINARY",
}

// SceneFromVideo maps a video onto a scene without relations.
func SceneFromVideo(video tmdb.Video, showID int) Scene {
	screenshot := fmt.Sprintf(youtubeThumbnailURL, video.Key)
	var date *string
	if len(video.PublishedAt) >= 10 {
		date = stringPtr(video.PublishedAt[:10])
	}

	return Scene{
		ID:     SceneID(showID, video.ID),
		ShowID: showID,
		Title:  video.Name,
		Date:   date,
		URLs:   []string{youtubeWatchURL + video.Key},
		Paths:  ScenePaths{Screenshot: &screenshot},
	}
}

// PerformerFromCast maps a cast member onto a performer.
func PerformerFromCast(member tmdb.CastMember) Performer {
	p := Performer{
		ID:             strconv.Itoa(member.ID),
		Name:           member.Name,
		Disambiguation: stringPtr(member.Character),
		ImagePath:      imageURLPtr(member.ProfilePath),
		URLs:           []string{fmt.Sprintf(tmdbPersonPageURL, member.ID)},
	}
	if g, ok := genders[member.Gender]; ok {
		p.Gender = &g
	}
	return p
}

// StudioFromNetwork maps a network onto a studio.
func StudioFromNetwork(network tmdb.Network) Studio {
	return Studio{
		ID:        strconv.Itoa(network.ID),
		Name:      network.Name,
		ImagePath: imageURLPtr(network.LogoPath),
	}
}

// TagFromGenre maps a genre onto a tag.
func TagFromGenre(genre tmdb.Genre) Tag {
	return Tag{ID: strconv.Itoa(genre.ID), Name: genre.Name}
}

// StudiosFromShow maps every network of a show, in upstream order.
func StudiosFromShow(details tmdb.ShowDetails) []Studio {
	studios := make([]Studio, 0, len(details.Networks))
	for _, n := range details.Networks {
		studios = append(studios, StudioFromNetwork(n))
	}
	return studios
}

// TagsFromShow maps every genre of a show, in upstream order.
func TagsFromShow(details tmdb.ShowDetails) []Tag {
	tags := make([]Tag, 0, len(details.Genres))
	for _, g := range details.Genres {
		tags = append(tags, TagFromGenre(g))
	}
	return tags
}

// PerformersFromCast maps a cast list, in billing order.
func PerformersFromCast(cast []tmdb.CastMember) []Performer {
	performers := make([]Performer, 0, len(cast))
	for _, member := range cast {
		performers = append(performers, PerformerFromCast(member))
	}
	return performers
}

// GroupFromShow maps show details onto a group. The first network becomes
// the group studio.
func GroupFromShow(details tmdb.ShowDetails) Group {
	g := Group{
		ID:             strconv.Itoa(details.ID),
		Name:           details.DisplayName(),
		Date:           stringPtr(details.AirDate()),
		Synopsis:       stringPtr(details.Overview),
		FrontImagePath: imageURLPtr(details.PosterPath),
		Tags:           TagsFromShow(details),
		Seasons:        details.NumberOfSeasons,
	}
	if details.Homepage != "" {
		g.URLs = append(g.URLs, details.Homepage)
	}
	g.URLs = append(g.URLs, fmt.Sprintf(tmdbShowPageURL, details.ID))

	if len(details.Networks) > 0 {
		studio := StudioFromNetwork(details.Networks[0])
		g.Studio = &studio
	}
	return g
}

// BuildScenes turns one show's videos into scenes. Every scene carries the
// whole cast, the show's first network, its genres and the show as group.
func BuildScenes(showID int, videos []tmdb.Video, cast []tmdb.CastMember, details tmdb.ShowDetails) []Scene {
	performers := PerformersFromCast(cast)
	group := GroupFromShow(details)

	scenes := make([]Scene, 0, len(videos))
	for _, video := range videos {
		scene := SceneFromVideo(video, showID)
		scene.Performers = performers
		scene.Studio = group.Studio
		scene.Tags = group.Tags
		scene.Groups = []Group{group}
		scenes = append(scenes, scene)
	}
	return scenes
}

// PerformerGallery collects a person's profile images.
func PerformerGallery(personID int, images []tmdb.Image) Gallery {
	return Gallery{
		ID:    PerformerGalleryID(personID),
		Files: imageFiles(images),
	}
}

// SeasonGallery collects a season's posters.
func SeasonGallery(showID, season int, images []tmdb.Image) Gallery {
	title := fmt.Sprintf("Season %d", season)
	return Gallery{
		ID:    SeasonGalleryID(showID, season),
		Title: &title,
		Files: imageFiles(images),
	}
}

func imageFiles(images []tmdb.Image) []ImageFile {
	files := make([]ImageFile, 0, len(images))
	for _, img := range images {
		files = append(files, ImageFile{
			Path:   ImageURL(img.FilePath),
			Width:  img.Width,
			Height: img.Height,
		})
	}
	return files
}
