package catalog

import (
	"strings"
	"time"
)

// Movie is a locally stored catalog record.
type Movie struct {
	ID           int64      `json:"id"`
	RegistryID   string     `json:"registryId,omitempty"`
	Title        string     `json:"title"`
	EnglishTitle string     `json:"englishTitle,omitempty"`
	Overview     string     `json:"overview,omitempty"`
	PosterPath   string     `json:"posterPath,omitempty"`
	BackdropPath string     `json:"backdropPath,omitempty"`
	ReleaseDate  *time.Time `json:"releaseDate,omitempty"`
	Runtime      int        `json:"runtime,omitempty"`
	Nation       string     `json:"nation,omitempty"`
	Rating       string     `json:"rating,omitempty"`
	Directors    []string   `json:"directors,omitempty"`
	Cast         []string   `json:"cast,omitempty"`
	Matched      bool       `json:"matched"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// HasRegistryID reports whether the record carries a non-blank registry id.
func (m *Movie) HasRegistryID() bool {
	return m != nil && strings.TrimSpace(m.RegistryID) != ""
}

// MissingPoster reports whether the poster path is blank.
func (m *Movie) MissingPoster() bool {
	return strings.TrimSpace(m.PosterPath) == ""
}

// MissingMetadata reports whether any of poster, backdrop or overview is blank.
func (m *Movie) MissingMetadata() bool {
	return m.MissingPoster() ||
		strings.TrimSpace(m.BackdropPath) == "" ||
		strings.TrimSpace(m.Overview) == ""
}
