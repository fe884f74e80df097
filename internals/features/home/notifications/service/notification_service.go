package service

import (
	"context"
	"log"
	"strings"
	"time"

	database "jobmarket_backend/internals/databases"
	"jobmarket_backend/internals/features/home/notifications/model"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

// Notification is one message addressed to a single user.
type Notification struct {
	UserID  int64
	Type    string
	Message string
	Link    *string
}

// Notifier delivers side-effect notifications. Callers go through Send so a
// delivery failure never fails the operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Send delivers n and only logs when delivery fails.
func Send(ctx context.Context, notifier Notifier, n Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, n); err != nil {
		log.Printf("[WARN] notification %s for user %d not stored: %v", n.Type, n.UserID, err)
	}
}

type NotificationService struct {
	store database.Store
	now   func() time.Time
}

func NewNotificationService(store database.Store) *NotificationService {
	return &NotificationService{store: store, now: time.Now}
}

// Notify stores the notification as unread.
func (s *NotificationService) Notify(ctx context.Context, n Notification) error {
	if n.UserID <= 0 || strings.TrimSpace(n.Type) == "" || strings.TrimSpace(n.Message) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "notification requires user, type and message")
	}
	_, err := s.store.Insert(ctx, "notifications", map[string]any{
		"user_id":    n.UserID,
		"type":       n.Type,
		"message":    n.Message,
		"link":       n.Link,
		"is_read":    false,
		"created_at": s.now().UTC(),
	})
	return err
}

func (s *NotificationService) ListForUser(ctx context.Context, userID int64, unreadOnly bool, p helper.Paging) ([]model.NotificationModel, int64, error) {
	where := map[string]any{"user_id": userID}
	filter := ""
	if unreadOnly {
		where["is_read"] = false
		filter = " AND is_read = @is_read"
	}

	total, err := s.store.Count(ctx, "notifications", where)
	if err != nil {
		return nil, 0, helper.StorageError("count notifications", err)
	}

	items := make([]model.NotificationModel, 0)
	err = s.store.Select(ctx, &items, `
		SELECT * FROM notifications
		WHERE user_id = @user_id`+filter+`
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`, map[string]any{
		"user_id": userID,
		"is_read": false,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
	if err != nil {
		return nil, 0, helper.StorageError("list notifications", err)
	}
	return items, total, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	n, err := s.store.Count(ctx, "notifications", map[string]any{"user_id": userID, "is_read": false})
	if err != nil {
		return 0, helper.StorageError("count unread notifications", err)
	}
	return n, nil
}

// MarkRead only touches the caller's own notification.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	exists, err := s.store.Exists(ctx, "notifications", map[string]any{"id": notificationID, "user_id": userID})
	if err != nil {
		return helper.StorageError("mark notification as read", err)
	}
	if !exists {
		return helper.NotFoundOrDenied("notification")
	}
	if _, err := s.store.Update(ctx, "notifications",
		map[string]any{"is_read": true},
		map[string]any{"id": notificationID, "user_id": userID},
	); err != nil {
		return helper.StorageError("mark notification as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.store.Update(ctx, "notifications",
		map[string]any{"is_read": true},
		map[string]any{"user_id": userID, "is_read": false},
	)
	if err != nil {
		return 0, helper.StorageError("mark notifications as read", err)
	}
	return n, nil
}
