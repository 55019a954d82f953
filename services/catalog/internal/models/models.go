package models

import "time"

type Movie struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"not null;index"           json:"title"`
	Description string     `gorm:"type:text"                json:"description"`
	ReleaseDate *time.Time `json:"release_date"`
	Duration    int        `json:"duration"` // minutes
	Rating      int        `json:"rating"`   // 1..10
	MovieURL    string     `json:"movie_url"`
	PosterURL   string     `json:"poster_url"`
	TrailerURL  string     `json:"trailer_url"`
	BackdropURL string     `json:"backdrop_url"`

	Genres []Genre `gorm:"many2many:movie_genres" json:"genres,omitempty"`
}

type Genre struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type Actor struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"not null"                 json:"name"`
	BirthDate *time.Time `json:"birth_date"`
	PhotoURL  string     `json:"photo_url"`
	Biography string     `gorm:"type:text" json:"biography"`
}

// MovieActor links a movie to an actor together with the character played.
type MovieActor struct {
	MovieID  uint   `gorm:"primaryKey" json:"movie_id"`
	ActorID  uint   `gorm:"primaryKey" json:"actor_id"`
	RoleName string `json:"role_name"`
}

type Favorite struct {
	UserID  uint `gorm:"primaryKey" json:"user_id"`
	MovieID uint `gorm:"primaryKey" json:"movie_id"`
}

type WatchlistItem struct {
	UserID  uint `gorm:"primaryKey" json:"user_id"`
	MovieID uint `gorm:"primaryKey" json:"movie_id"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the auth service's table; the catalog only reads it to
// resolve principals and gate admin mutations.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique"     json:"username"`
	Role     string `json:"role"`
}
