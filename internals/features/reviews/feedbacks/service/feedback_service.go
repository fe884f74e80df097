package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	database "jobmarket_backend/internals/databases"
	notifModel "jobmarket_backend/internals/features/home/notifications/model"
	notifService "jobmarket_backend/internals/features/home/notifications/service"
	appModel "jobmarket_backend/internals/features/jobs/applications/model"
	"jobmarket_backend/internals/features/reviews/feedbacks/dto"
	"jobmarket_backend/internals/features/reviews/feedbacks/model"
	userModel "jobmarket_backend/internals/features/users/users/model"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

const (
	MsgInvalidRating   = "rating must be a whole number between 1 and 5"
	MsgNotWorkedWith   = "you can only review companies you have worked with"
	MsgAlreadyReviewed = "you have already reviewed this publisher"
)

const feedbackViewSelect = `
	SELECT f.*,
		s.first_name || ' ' || s.last_name AS reviewer_name,
		COALESCE(p.company_name, p.first_name || ' ' || p.last_name) AS publisher_name,
		j.title AS job_title
	FROM feedbacks f
	JOIN users s ON s.id = f.student_id
	JOIN users p ON p.id = f.publisher_id
	LEFT JOIN jobs j ON j.id = f.job_id`

type FeedbackService struct {
	store    database.Store
	notifier notifService.Notifier
	now      func() time.Time
}

func NewFeedbackService(store database.Store, notifier notifService.Notifier) *FeedbackService {
	return &FeedbackService{store: store, notifier: notifier, now: time.Now}
}

// ValidateRating accepts only whole numbers in [1,5]; nothing is clamped.
func ValidateRating(r float64) (int, error) {
	if math.IsNaN(r) || r != math.Trunc(r) || r < model.MinRating || r > model.MaxRating {
		return 0, helper.BadRequest(MsgInvalidRating)
	}
	return int(r), nil
}

func validateReview(review *string) (*string, error) {
	if review == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*review)
	if len([]rune(v)) > model.MaxReviewLength {
		return nil, helper.BadRequest(fmt.Sprintf("review must be at most %d characters", model.MaxReviewLength))
	}
	return &v, nil
}

// =======================
// Create
// =======================

func (s *FeedbackService) Create(ctx context.Context, studentID int64, req dto.CreateFeedbackRequest) (*model.FeedbackModel, error) {
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	rating, err := ValidateRating(req.Rating)
	if err != nil {
		return nil, err
	}
	review, err := validateReview(req.Review)
	if err != nil {
		return nil, err
	}

	var publisher userModel.UserModel
	found, err := s.store.SelectOne(ctx, &publisher, `SELECT * FROM users WHERE id = @id`, map[string]any{"id": req.PublisherID})
	if err != nil {
		return nil, helper.StorageError("create review", err)
	}
	if !found || publisher.Role != userModel.RolePublisher {
		return nil, fiber.NewError(fiber.StatusNotFound, "publisher not found")
	}

	var student userModel.UserModel
	found, err = s.store.SelectOne(ctx, &student, `SELECT * FROM users WHERE id = @id`, map[string]any{"id": studentID})
	if err != nil {
		return nil, helper.StorageError("create review", err)
	}
	if !found || student.Role != userModel.RoleStudent {
		return nil, fiber.NewError(fiber.StatusNotFound, "student not found")
	}

	dup, err := s.store.Exists(ctx, "feedbacks", map[string]any{
		"student_id":   studentID,
		"publisher_id": req.PublisherID,
		"job_id":       req.JobID,
	})
	if err != nil {
		return nil, helper.StorageError("create review", err)
	}
	if dup {
		return nil, helper.Conflict(MsgAlreadyReviewed)
	}

	if req.JobID != nil {
		worked, err := s.workedTogether(ctx, studentID, req.PublisherID, *req.JobID)
		if err != nil {
			return nil, helper.StorageError("create review", err)
		}
		if !worked {
			return nil, helper.BadRequest(MsgNotWorkedWith)
		}
	}

	now := s.now().UTC()
	id, err := s.store.Insert(ctx, "feedbacks", map[string]any{
		"student_id":   studentID,
		"publisher_id": req.PublisherID,
		"job_id":       req.JobID,
		"rating":       rating,
		"review":       review,
		"is_anonymous": req.IsAnonymous,
		"status":       model.FeedbackStatusActive,
		"created_at":   now,
		"updated_at":   now,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, helper.Conflict(MsgAlreadyReviewed)
		}
		return nil, helper.StorageError("create review", err)
	}

	msg := fmt.Sprintf("You received a new %d-star review", rating)
	if !req.IsAnonymous {
		msg = fmt.Sprintf("%s left you a %d-star review", student.FullName(), rating)
	}
	notifService.Send(ctx, s.notifier, notifService.Notification{
		UserID:  req.PublisherID,
		Type:    notifModel.TypeNewReview,
		Message: msg,
		Link:    link("/publisher/reviews/%d", id),
	})

	return &model.FeedbackModel{
		ID:          id,
		StudentID:   studentID,
		PublisherID: req.PublisherID,
		JobID:       req.JobID,
		Rating:      rating,
		Review:      review,
		IsAnonymous: req.IsAnonymous,
		Status:      model.FeedbackStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// workedTogether requires the job to belong to the publisher and the student
// to hold an accepted application on it.
func (s *FeedbackService) workedTogether(ctx context.Context, studentID, publisherID, jobID int64) (bool, error) {
	var n int64
	_, err := s.store.SelectOne(ctx, &n, `
	SELECT COUNT(*) FROM applications a
	JOIN jobs j ON j.id = a.job_id
	WHERE a.student_id = @student_id
		AND a.job_id = @job_id
		AND a.status = @status
		AND j.publisher_id = @publisher_id`, map[string]any{
		"student_id":   studentID,
		"job_id":       jobID,
		"status":       appModel.ApplicationStatusAccepted,
		"publisher_id": publisherID,
	})
	return n > 0, err
}

// =======================
// Author edits
// =======================

func (s *FeedbackService) Update(ctx context.Context, studentID, feedbackID int64, req dto.UpdateFeedbackRequest) (*model.FeedbackModel, error) {
	fb, err := s.authored(ctx, studentID, feedbackID)
	if err != nil {
		return nil, err
	}
	if !fb.IsActive() {
		return nil, helper.BadRequest("only active reviews can be edited")
	}

	fields := map[string]any{}
	if req.Rating != nil {
		r, err := ValidateRating(*req.Rating)
		if err != nil {
			return nil, err
		}
		fields["rating"] = r
		fb.Rating = r
	}
	if req.Review != nil {
		review, err := validateReview(req.Review)
		if err != nil {
			return nil, err
		}
		fields["review"] = *review
		fb.Review = review
	}
	if req.IsAnonymous != nil {
		fields["is_anonymous"] = *req.IsAnonymous
		fb.IsAnonymous = *req.IsAnonymous
	}
	if len(fields) == 0 {
		return fb, nil
	}
	fb.UpdatedAt = s.now().UTC()
	fields["updated_at"] = fb.UpdatedAt

	if _, err := s.store.Update(ctx, "feedbacks", fields, map[string]any{"id": feedbackID}); err != nil {
		return nil, helper.StorageError("update review", err)
	}
	return fb, nil
}

// Delete is the author's soft delete.
func (s *FeedbackService) Delete(ctx context.Context, studentID, feedbackID int64) error {
	fb, err := s.authored(ctx, studentID, feedbackID)
	if err != nil {
		return err
	}
	if fb.Status == model.FeedbackStatusDeleted {
		return nil
	}
	return s.setStatus(ctx, fb, model.FeedbackStatusDeleted)
}

// =======================
// Moderation
// =======================

// Moderate hides or deletes any review and tells its author.
func (s *FeedbackService) Moderate(ctx context.Context, feedbackID int64, req dto.ModerateRequest) (*model.FeedbackModel, error) {
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	var fb model.FeedbackModel
	found, err := s.store.SelectOne(ctx, &fb, `SELECT * FROM feedbacks WHERE id = @id`, map[string]any{"id": feedbackID})
	if err != nil {
		return nil, helper.StorageError("moderate review", err)
	}
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, "review not found")
	}

	target := model.FeedbackStatusHidden
	if req.Action == "delete" {
		target = model.FeedbackStatusDeleted
	}
	if fb.Status == target {
		return &fb, nil
	}
	if err := s.setStatus(ctx, &fb, target); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Your review was %s by a moderator", target)
	if req.Reason != nil && strings.TrimSpace(*req.Reason) != "" {
		msg += ": " + strings.TrimSpace(*req.Reason)
	}
	notifService.Send(ctx, s.notifier, notifService.Notification{
		UserID:  fb.StudentID,
		Type:    notifModel.TypeReviewModerated,
		Message: msg,
	})
	return &fb, nil
}

func (s *FeedbackService) setStatus(ctx context.Context, fb *model.FeedbackModel, status string) error {
	if !model.CanTransition(fb.Status, status) {
		return helper.BadRequest(fmt.Sprintf("cannot change review from %s to %s", fb.Status, status))
	}
	now := s.now().UTC()
	if _, err := s.store.Update(ctx, "feedbacks",
		map[string]any{"status": status, "updated_at": now},
		map[string]any{"id": fb.ID},
	); err != nil {
		return helper.StorageError("update review status", err)
	}
	fb.Status = status
	fb.UpdatedAt = now
	return nil
}

// =======================
// Reads
// =======================

// ListForPublisher returns the publisher's active reviews, newest first.
func (s *FeedbackService) ListForPublisher(ctx context.Context, publisherID int64, p helper.Paging) ([]dto.FeedbackView, int64, error) {
	where := map[string]any{"publisher_id": publisherID, "status": model.FeedbackStatusActive}
	total, err := s.store.Count(ctx, "feedbacks", where)
	if err != nil {
		return nil, 0, helper.StorageError("list reviews", err)
	}
	items := make([]dto.FeedbackView, 0)
	if err := s.store.Select(ctx, &items, feedbackViewSelect+`
	WHERE f.publisher_id = @publisher_id AND f.status = @status
	ORDER BY f.created_at DESC, f.id DESC
	LIMIT @limit OFFSET @offset`, map[string]any{
		"publisher_id": publisherID,
		"status":       model.FeedbackStatusActive,
		"limit":        p.Limit,
		"offset":       p.Offset,
	}); err != nil {
		return nil, 0, helper.StorageError("list reviews", err)
	}
	return maskAnonymous(items), total, nil
}

// ListByStudent shows an author every review they still have, hidden ones included.
func (s *FeedbackService) ListByStudent(ctx context.Context, studentID int64) ([]dto.FeedbackView, error) {
	items := make([]dto.FeedbackView, 0)
	if err := s.store.Select(ctx, &items, feedbackViewSelect+`
	WHERE f.student_id = @student_id AND f.status <> @deleted
	ORDER BY f.created_at DESC, f.id DESC`, map[string]any{
		"student_id": studentID,
		"deleted":    model.FeedbackStatusDeleted,
	}); err != nil {
		return nil, helper.StorageError("list reviews", err)
	}
	return items, nil
}

// ListAll is the moderation queue; status "" means every status.
func (s *FeedbackService) ListAll(ctx context.Context, status string, p helper.Paging) ([]dto.FeedbackView, int64, error) {
	where := map[string]any{}
	cond := ""
	if status != "" {
		where["status"] = status
		cond = "\n\tWHERE f.status = @status"
	}
	total, err := s.store.Count(ctx, "feedbacks", where)
	if err != nil {
		return nil, 0, helper.StorageError("list reviews", err)
	}
	items := make([]dto.FeedbackView, 0)
	if err := s.store.Select(ctx, &items, feedbackViewSelect+cond+`
	ORDER BY f.created_at DESC, f.id DESC
	LIMIT @limit OFFSET @offset`, map[string]any{
		"status": status,
		"limit":  p.Limit,
		"offset": p.Offset,
	}); err != nil {
		return nil, 0, helper.StorageError("list reviews", err)
	}
	return items, total, nil
}

func (s *FeedbackService) CountByStudent(ctx context.Context, studentID int64) (int64, error) {
	var n int64
	if _, err := s.store.SelectOne(ctx, &n,
		`SELECT COUNT(*) FROM feedbacks WHERE student_id = @student_id AND status <> @deleted`,
		map[string]any{"student_id": studentID, "deleted": model.FeedbackStatusDeleted}); err != nil {
		return 0, helper.StorageError("count reviews", err)
	}
	return n, nil
}

// GetPublisherRatingStats aggregates the active reviews on every call.
func (s *FeedbackService) GetPublisherRatingStats(ctx context.Context, publisherID int64) (*dto.RatingStats, error) {
	type row struct {
		Rating int   `gorm:"column:rating"`
		N      int64 `gorm:"column:n"`
	}
	var rows []row
	if err := s.store.Select(ctx, &rows, `
	SELECT rating, COUNT(*) AS n FROM feedbacks
	WHERE publisher_id = @publisher_id AND status = @status
	GROUP BY rating`, map[string]any{
		"publisher_id": publisherID,
		"status":       model.FeedbackStatusActive,
	}); err != nil {
		return nil, helper.StorageError("load rating stats", err)
	}

	stats := &dto.RatingStats{PublisherID: publisherID, Histogram: make(map[int]int64, model.MaxRating)}
	for r := model.MinRating; r <= model.MaxRating; r++ {
		stats.Histogram[r] = 0
	}
	var sum int64
	for _, r := range rows {
		stats.Histogram[r.Rating] += r.N
		stats.Count += r.N
		sum += int64(r.Rating) * r.N
		if stats.Min == 0 || r.Rating < stats.Min {
			stats.Min = r.Rating
		}
		if r.Rating > stats.Max {
			stats.Max = r.Rating
		}
	}
	if stats.Count > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.Count)*100) / 100
	}
	return stats, nil
}

func (s *FeedbackService) authored(ctx context.Context, studentID, feedbackID int64) (*model.FeedbackModel, error) {
	var fb model.FeedbackModel
	found, err := s.store.SelectOne(ctx, &fb,
		`SELECT * FROM feedbacks WHERE id = @id AND student_id = @student_id`,
		map[string]any{"id": feedbackID, "student_id": studentID})
	if err != nil {
		return nil, helper.StorageError("load review", err)
	}
	if !found {
		return nil, helper.NotFoundOrDenied("review")
	}
	return &fb, nil
}

func maskAnonymous(items []dto.FeedbackView) []dto.FeedbackView {
	for i := range items {
		if items[i].IsAnonymous {
			items[i].ReviewerName = nil
			items[i].StudentID = 0
		}
	}
	return items
}

func link(format string, args ...any) *string {
	s := fmt.Sprintf(format, args...)
	return &s
}
