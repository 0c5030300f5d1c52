package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const movieColumns = "id, registry_id, title, english_title, overview, poster_path, backdrop_path, release_date, runtime, nation, rating, directors_json, cast_json, matched, created_at, updated_at"

const releaseDateLayout = "2006-01-02"

func scanMovie(scanner interface{ Scan(dest ...any) error }) (*Movie, error) {
	var (
		id           int64
		registryID   sql.NullString
		title        string
		englishTitle sql.NullString
		overview     sql.NullString
		posterPath   sql.NullString
		backdropPath sql.NullString
		releaseRaw   sql.NullString
		runtime      sql.NullInt64
		nation       sql.NullString
		rating       sql.NullString
		directorsRaw sql.NullString
		castRaw      sql.NullString
		matched      sql.NullInt64
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&registryID,
		&title,
		&englishTitle,
		&overview,
		&posterPath,
		&backdropPath,
		&releaseRaw,
		&runtime,
		&nation,
		&rating,
		&directorsRaw,
		&castRaw,
		&matched,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	movie := &Movie{
		ID:           id,
		RegistryID:   registryID.String,
		Title:        title,
		EnglishTitle: englishTitle.String,
		Overview:     overview.String,
		PosterPath:   posterPath.String,
		BackdropPath: backdropPath.String,
		Runtime:      int(runtime.Int64),
		Nation:       nation.String,
		Rating:       rating.String,
		Directors:    decodeList(directorsRaw.String),
		Cast:         decodeList(castRaw.String),
		Matched:      matched.Valid && matched.Int64 != 0,
	}
	if releaseRaw.Valid {
		if release, err := time.Parse(releaseDateLayout, releaseRaw.String); err == nil {
			movie.ReleaseDate = &release
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		movie.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		movie.UpdatedAt = updated
	}
	return movie, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableDate(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return value.Format(releaseDateLayout)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func encodeList(values []string) any {
	if len(values) == 0 {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return string(data)
}

func decodeList(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
