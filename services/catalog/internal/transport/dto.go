package transport

import "time"

type CreateMovieRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ReleaseDate *time.Time `json:"release_date"`
	Duration    int        `json:"duration"`
	Rating      int        `json:"rating"`
	MovieURL    string     `json:"movie_url"`
	PosterURL   string     `json:"poster_url"`
	TrailerURL  string     `json:"trailer_url"`
	BackdropURL string     `json:"backdrop_url"`
	GenreIDs    []uint     `json:"genre_ids"`
}

type PatchMovieRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	ReleaseDate *time.Time `json:"release_date"`
	Duration    *int       `json:"duration"`
	Rating      *int       `json:"rating"`
	MovieURL    *string    `json:"movie_url"`
	PosterURL   *string    `json:"poster_url"`
	TrailerURL  *string    `json:"trailer_url"`
	BackdropURL *string    `json:"backdrop_url"`
}

type CreateGenreRequest struct {
	Name string `json:"name"`
}

type CreateActorRequest struct {
	Name      string     `json:"name"`
	BirthDate *time.Time `json:"birth_date"`
	PhotoURL  string     `json:"photo_url"`
	Biography string     `json:"biography"`
}

type CastEntryRequest struct {
	ActorID  uint   `json:"actor_id"`
	RoleName string `json:"role_name"`
}
