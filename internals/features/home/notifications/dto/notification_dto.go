package dto

import (
	"time"

	"jobmarket_backend/internals/features/home/notifications/model"
)

type NotificationResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Link      *string   `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(m model.NotificationModel) NotificationResponse {
	return NotificationResponse{
		ID:        m.ID,
		Type:      m.Type,
		Message:   m.Message,
		Link:      m.Link,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func FromModels(list []model.NotificationModel) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
