package dto

import (
	"time"

	"github.com/kodeclass/kodex-api/internal/models"
)

// AnnouncementSaveRequest is shared by create and update.
type AnnouncementSaveRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
	Pinned  bool   `json:"pinned"`
}

// AnnouncementResponse is the client view of an announcement.
type AnnouncementResponse struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Pinned     bool      `json:"pinned"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewAnnouncementResponse converts an Announcement model into a DTO. A
// missing author name degrades to a placeholder rather than failing.
func NewAnnouncementResponse(model models.Announcement) AnnouncementResponse {
	author := model.Author.FullName
	if author == "" {
		author = "Unknown"
	}

	return AnnouncementResponse{
		ID:         model.ID,
		Title:      model.Title,
		Content:    model.Content,
		Pinned:     model.Pinned,
		AuthorName: author,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewAnnouncementResponseSlice converts announcement models into DTOs.
func NewAnnouncementResponseSlice(items []models.Announcement) []AnnouncementResponse {
	responses := make([]AnnouncementResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewAnnouncementResponse(item))
	}
	return responses
}
