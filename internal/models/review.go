package models

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

// Review is a user's scored opinion of a title. A user reviews a title at
// most once; the unique index on (title_id, author_id) enforces it.
type Review struct {
	ID       uint      `gorm:"primaryKey"`
	TitleID  uint      `gorm:"not null;uniqueIndex:idx_reviews_title_author"`
	Title    *Title    `gorm:"constraint:OnDelete:CASCADE;"`
	AuthorID uint      `gorm:"not null;uniqueIndex:idx_reviews_title_author"`
	Author   *User     `gorm:"constraint:OnDelete:CASCADE;"`
	Text     string    `gorm:"type:text;not null"`
	Score    int       `gorm:"not null;check:chk_reviews_score,score >= 1 AND score <= 10"`
	PubDate  time.Time `gorm:"not null;index;autoCreateTime"`
}

// Comment belongs to a review and is removed with it.
type Comment struct {
	ID       uint      `gorm:"primaryKey"`
	ReviewID uint      `gorm:"not null;index"`
	Review   *Review   `gorm:"constraint:OnDelete:CASCADE;"`
	AuthorID uint      `gorm:"not null;index"`
	Author   *User     `gorm:"constraint:OnDelete:CASCADE;"`
	Text     string    `gorm:"type:text;not null"`
	PubDate  time.Time `gorm:"not null;index;autoCreateTime"`
}
