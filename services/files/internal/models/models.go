package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the auth service's table for principal resolution.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique"     json:"username"`
	Role     string `json:"role"`
}

// Movie is a read-only slice of the catalog's table: the files service
// only needs the object key of the video.
type Movie struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `json:"title"`
	MovieURL string `json:"movie_url"`
}
