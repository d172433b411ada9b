package tmdb

// Video is one entry of /tv/{id}/videos.
type Video struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

// CastMember is one entry of /tv/{id}/credits cast.
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	Gender      int     `json:"gender"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
}

// Image is one entry of an image list (profiles, posters).
type Image struct {
	FilePath string `json:"file_path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Network is the broadcaster of a show.
type Network struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	LogoPath *string `json:"logo_path"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ShowDetails is the /tv/{id} response.
type ShowDetails struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Title            string    `json:"title"`
	Overview         string    `json:"overview"`
	FirstAirDate     string    `json:"first_air_date"`
	ReleaseDate      string    `json:"release_date"`
	Homepage         string    `json:"homepage"`
	PosterPath       *string   `json:"poster_path"`
	BackdropPath     *string   `json:"backdrop_path"`
	Status           string    `json:"status"`
	Networks         []Network `json:"networks"`
	Genres           []Genre   `json:"genres"`
	NumberOfEpisodes int       `json:"number_of_episodes"`
	NumberOfSeasons  int       `json:"number_of_seasons"`
	EpisodeRunTime   []int     `json:"episode_run_time"`
}

// DisplayName returns the show name, falling back to the movie-style title.
func (d ShowDetails) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Title
}

// AirDate returns the first air date, falling back to the release date.
func (d ShowDetails) AirDate() string {
	if d.FirstAirDate != "" {
		return d.FirstAirDate
	}
	return d.ReleaseDate
}
