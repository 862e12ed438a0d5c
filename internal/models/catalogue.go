package models

import (
	"fmt"
	"regexp"
	"time"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidSlug reports whether s is a well-formed category or genre slug.
func ValidSlug(s string) bool {
	return len(s) <= 50 && slugPattern.MatchString(s)
}

// Category groups titles, e.g. "Books" or "Films".
type Category struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(256);not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(50);not null"`
}

// Genre is a tag shared by many titles.
type Genre struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(256);not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(50);not null"`
}

// Title is a catalogued work that users review.
type Title struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(256);not null;index"`
	Description *string   `gorm:"type:text"`
	Year        int       `gorm:"not null;index"`
	CategoryID  *uint     `gorm:"index"`
	Category    *Category `gorm:"constraint:OnDelete:SET NULL;"`
	Genres      []Genre   `gorm:"many2many:genre_titles;"`
}

// GenreTitle is the explicit join row between titles and genres.
type GenreTitle struct {
	TitleID uint `gorm:"primaryKey;index"`
	GenreID uint `gorm:"primaryKey;index"`
}

// ValidateYear rejects release years in the future.
func ValidateYear(year int, now time.Time) error {
	if year > now.Year() {
		return fmt.Errorf("year %d is later than the current year", year)
	}
	return nil
}
