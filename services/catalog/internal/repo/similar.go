package repo

import (
	"context"
)

// SimilarMovie is a projection returned by the recommendation query.
type SimilarMovie struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Rating    int    `json:"rating"`
	PosterURL string `json:"poster_url"`
	Tier      int    `json:"-"`
}

// Candidates are ranked in two tiers: movies sharing a genre with a close
// rating come first, then anything within a wider rating band. A movie that
// qualifies for both tiers keeps its best one.
const similarMoviesSQL = `
SELECT id, title, rating, poster_url, MIN(tier) AS tier
FROM (
    SELECT m.id, m.title, m.rating, m.poster_url, 1 AS tier
    FROM movies m
    JOIN movie_genres mg ON mg.movie_id = m.id
    WHERE mg.genre_id IN (SELECT genre_id FROM movie_genres WHERE movie_id = ?)
      AND m.id <> ?
      AND ABS(m.rating - ?) <= 1
    UNION ALL
    SELECT m.id, m.title, m.rating, m.poster_url, 2 AS tier
    FROM movies m
    WHERE m.id <> ?
      AND ABS(m.rating - ?) <= 2
) candidates
GROUP BY id, title, rating, poster_url
ORDER BY tier, ABS(rating - ?), id
LIMIT ?`

func (r *GormRepo) SimilarMovies(ctx context.Context, movieID uint, limit int) ([]SimilarMovie, error) {
	movie, err := r.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	var out []SimilarMovie
	err = r.DB.WithContext(ctx).Raw(similarMoviesSQL,
		movieID, movieID, movie.Rating,
		movieID, movie.Rating,
		movie.Rating, limit,
	).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
