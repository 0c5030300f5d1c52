package catalog

import (
	"context"
	"fmt"

	"cinefill/internal/genre"
)

// CountGenres returns the number of genre rows across the whole catalog.
func (s *Store) CountGenres(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM movie_genres").Scan(&count); err != nil {
		return 0, fmt.Errorf("count genres: %w", err)
	}
	return count, nil
}

// GenresFor returns the genres of one record in stored order.
func (s *Store) GenresFor(ctx context.Context, movieID int64) ([]genre.Genre, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT genre FROM movie_genres WHERE movie_id = ? ORDER BY position", movieID)
	if err != nil {
		return nil, fmt.Errorf("list genres for movie %d: %w", movieID, err)
	}
	defer rows.Close()

	var genres []genre.Genre
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, genre.Genre(value))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}
	return genres, nil
}

// ReplaceGenres deletes every genre row of movieID and inserts genres in one
// transaction. Duplicate values are stored once.
func (s *Store) ReplaceGenres(ctx context.Context, movieID int64, genres []genre.Genre) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin genre tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM movie_genres WHERE movie_id = ?", movieID); err != nil {
			return fmt.Errorf("delete genres for movie %d: %w", movieID, err)
		}
		stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO movie_genres (movie_id, genre, position) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare genre insert: %w", err)
		}
		defer stmt.Close()
		for position, g := range genres {
			if _, err := stmt.ExecContext(ctx, movieID, string(g), position); err != nil {
				return fmt.Errorf("insert genre %s for movie %d: %w", g, movieID, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit genres for movie %d: %w", movieID, err)
		}
		return nil
	})
}
