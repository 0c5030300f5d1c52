package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when an update targets a missing record.
	ErrNotFound = errors.New("movie not found")
	// ErrDuplicateRegistryID is returned when a registry id is already taken.
	ErrDuplicateRegistryID = errors.New("registry id already assigned")
)

// Insert stores a new record and assigns its ID.
func (s *Store) Insert(ctx context.Context, movie *Movie) error {
	if movie == nil {
		return errors.New("movie is nil")
	}
	if strings.TrimSpace(movie.Title) == "" {
		return errors.New("movie title is required")
	}
	now := time.Now().UTC()
	movie.CreatedAt = now
	movie.UpdatedAt = now
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO movies (registry_id, title, english_title, overview, poster_path, backdrop_path,
             release_date, runtime, nation, rating, directors_json, cast_json, matched, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableString(movie.RegistryID),
		movie.Title,
		nullableString(movie.EnglishTitle),
		nullableString(movie.Overview),
		nullableString(movie.PosterPath),
		nullableString(movie.BackdropPath),
		nullableDate(movie.ReleaseDate),
		movie.Runtime,
		nullableString(movie.Nation),
		nullableString(movie.Rating),
		encodeList(movie.Directors),
		encodeList(movie.Cast),
		boolToInt(movie.Matched),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateRegistryID, movie.RegistryID)
		}
		return fmt.Errorf("insert movie: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read movie id: %w", err)
	}
	movie.ID = id
	return nil
}

// Get fetches a record by ID. It returns nil without error when absent.
func (s *Store) Get(ctx context.Context, id int64) (*Movie, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id)
	movie, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	return movie, nil
}

// FindByRegistryID fetches a record by registry id. It returns nil without
// error when absent.
func (s *Store) FindByRegistryID(ctx context.Context, registryID string) (*Movie, error) {
	registryID = strings.TrimSpace(registryID)
	if registryID == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE registry_id = ?", registryID)
	movie, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find movie by registry id %s: %w", registryID, err)
	}
	return movie, nil
}

// Update persists every column of movie.
func (s *Store) Update(ctx context.Context, movie *Movie) error {
	if movie == nil {
		return errors.New("movie is nil")
	}
	movie.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE movies
         SET registry_id = ?, title = ?, english_title = ?, overview = ?, poster_path = ?,
             backdrop_path = ?, release_date = ?, runtime = ?, nation = ?, rating = ?,
             directors_json = ?, cast_json = ?, matched = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(movie.RegistryID),
		movie.Title,
		nullableString(movie.EnglishTitle),
		nullableString(movie.Overview),
		nullableString(movie.PosterPath),
		nullableString(movie.BackdropPath),
		nullableDate(movie.ReleaseDate),
		movie.Runtime,
		nullableString(movie.Nation),
		nullableString(movie.Rating),
		encodeList(movie.Directors),
		encodeList(movie.Cast),
		boolToInt(movie.Matched),
		movie.UpdatedAt.Format(time.RFC3339Nano),
		movie.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateRegistryID, movie.RegistryID)
		}
		return fmt.Errorf("update movie %d: %w", movie.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update movie %d: %w", movie.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update movie %d: %w", movie.ID, ErrNotFound)
	}
	return nil
}

// ListWithRegistryID returns every record whose registry id column is set,
// including whitespace-only ids, ordered by ID.
func (s *Store) ListWithRegistryID(ctx context.Context) ([]*Movie, error) {
	return s.list(ctx, "SELECT "+movieColumns+" FROM movies WHERE registry_id IS NOT NULL ORDER BY id")
}

// ListMissingMetadata returns records with a non-blank registry id and at
// least one blank poster, backdrop or overview, ordered by ID.
func (s *Store) ListMissingMetadata(ctx context.Context) ([]*Movie, error) {
	return s.list(ctx, `SELECT `+movieColumns+` FROM movies
        WHERE registry_id IS NOT NULL AND TRIM(registry_id) <> ''
          AND (COALESCE(TRIM(poster_path), '') = ''
            OR COALESCE(TRIM(backdrop_path), '') = ''
            OR COALESCE(TRIM(overview), '') = '')
        ORDER BY id`)
}

// List returns every record ordered by ID.
func (s *Store) List(ctx context.Context) ([]*Movie, error) {
	return s.list(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY id")
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*Movie, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var movies []*Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
