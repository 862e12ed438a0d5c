package handlers

import (
	"time"

	"yamdb/internal/models"
	"yamdb/internal/services"
)

type titleResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Rating      *int             `json:"rating"`
	Description *string          `json:"description"`
	Genre       []models.Genre   `json:"genre"`
	Category    *models.Category `json:"category"`
}

func newTitleResponse(v services.TitleView) titleResponse {
	genres := v.Genres
	if genres == nil {
		genres = []models.Genre{}
	}
	return titleResponse{
		ID:          v.ID,
		Name:        v.Name,
		Year:        v.Year,
		Rating:      v.Rating,
		Description: v.Description,
		Genre:       genres,
		Category:    v.Category,
	}
}

type reviewResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func newReviewResponse(r *models.Review) reviewResponse {
	return reviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  authorName(r.Author),
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

type commentResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func newCommentResponse(cm *models.Comment) commentResponse {
	return commentResponse{
		ID:      cm.ID,
		Text:    cm.Text,
		Author:  authorName(cm.Author),
		PubDate: cm.PubDate,
	}
}

func authorName(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
