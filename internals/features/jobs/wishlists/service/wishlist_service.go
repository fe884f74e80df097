package service

import (
	"context"
	"log"
	"time"

	database "jobmarket_backend/internals/databases"
	jobModel "jobmarket_backend/internals/features/jobs/jobs/model"
	"jobmarket_backend/internals/features/jobs/wishlists/dto"
	userModel "jobmarket_backend/internals/features/users/users/model"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

const MsgAlreadyInWishlist = "job is already in your wishlist"

type WishlistService struct {
	store database.Store
	now   func() time.Time
}

func NewWishlistService(store database.Store) *WishlistService {
	return &WishlistService{store: store, now: time.Now}
}

func (s *WishlistService) Add(ctx context.Context, studentID, jobID int64) error {
	var job jobModel.JobModel
	found, err := s.store.SelectOne(ctx, &job, `SELECT * FROM jobs WHERE id = @id`, map[string]any{"id": jobID})
	if err != nil {
		return helper.StorageError("add to wishlist", err)
	}
	if !found || !job.IsActive() {
		return fiber.NewError(fiber.StatusNotFound, "job not found or inactive")
	}

	isStudent, err := s.store.Exists(ctx, "users", map[string]any{"id": studentID, "role": userModel.RoleStudent})
	if err != nil {
		return helper.StorageError("add to wishlist", err)
	}
	if !isStudent {
		return fiber.NewError(fiber.StatusNotFound, "student not found")
	}

	in, err := s.IsInWishlist(ctx, studentID, jobID)
	if err != nil {
		return err
	}
	if in {
		return helper.Conflict(MsgAlreadyInWishlist)
	}

	if _, err := s.store.Insert(ctx, "wishlists", map[string]any{
		"student_id": studentID,
		"job_id":     jobID,
		"created_at": s.now().UTC(),
	}); err != nil {
		if database.IsUniqueViolation(err) {
			return helper.Conflict(MsgAlreadyInWishlist)
		}
		return helper.StorageError("add to wishlist", err)
	}
	return nil
}

func (s *WishlistService) Remove(ctx context.Context, studentID, jobID int64) error {
	n, err := s.store.Delete(ctx, "wishlists", map[string]any{"student_id": studentID, "job_id": jobID})
	if err != nil {
		return helper.StorageError("remove from wishlist", err)
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusNotFound, "job is not in your wishlist")
	}
	return nil
}

// Toggle adds the job when absent and removes it when present.
func (s *WishlistService) Toggle(ctx context.Context, studentID, jobID int64) (*dto.ToggleResult, error) {
	in, err := s.IsInWishlist(ctx, studentID, jobID)
	if err != nil {
		return nil, err
	}
	res := &dto.ToggleResult{}
	if in {
		if err := s.Remove(ctx, studentID, jobID); err != nil {
			return nil, err
		}
		res.Action = dto.ActionRemoved
	} else {
		if err := s.Add(ctx, studentID, jobID); err != nil {
			return nil, err
		}
		res.Action = dto.ActionAdded
		res.InWishlist = true
	}
	if res.WishlistSize, err = s.Count(ctx, studentID); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *WishlistService) IsInWishlist(ctx context.Context, studentID, jobID int64) (bool, error) {
	ok, err := s.store.Exists(ctx, "wishlists", map[string]any{"student_id": studentID, "job_id": jobID})
	if err != nil {
		return false, helper.StorageError("check wishlist", err)
	}
	return ok, nil
}

func (s *WishlistService) ListByStudent(ctx context.Context, studentID int64, p helper.Paging) ([]dto.WishlistItem, int64, error) {
	total, err := s.Count(ctx, studentID)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.WishlistItem, 0)
	err = s.store.Select(ctx, &items, `
	SELECT w.*,
		j.title AS job_title,
		j.status AS job_status,
		j.job_type AS job_type,
		j.payment_range AS payment_range,
		u.company_name AS company_name
	FROM wishlists w
	JOIN jobs j ON j.id = w.job_id
	JOIN users u ON u.id = j.publisher_id
	WHERE w.student_id = @student_id
	ORDER BY w.created_at DESC, w.id DESC
	LIMIT @limit OFFSET @offset`, map[string]any{
		"student_id": studentID,
		"limit":      p.Limit,
		"offset":     p.Offset,
	})
	if err != nil {
		return nil, 0, helper.StorageError("list wishlist", err)
	}
	return items, total, nil
}

func (s *WishlistService) Count(ctx context.Context, studentID int64) (int64, error) {
	n, err := s.store.Count(ctx, "wishlists", map[string]any{"student_id": studentID})
	if err != nil {
		return 0, helper.StorageError("count wishlist", err)
	}
	return n, nil
}

// Cleanup drops entries whose job is gone or no longer active.
func (s *WishlistService) Cleanup(ctx context.Context) (int64, error) {
	n, err := s.store.Exec(ctx, `
	DELETE FROM wishlists
	WHERE job_id NOT IN (SELECT id FROM jobs WHERE status = @status)`,
		map[string]any{"status": jobModel.JobStatusActive})
	if err != nil {
		return 0, helper.StorageError("clean up wishlists", err)
	}
	if n > 0 {
		log.Printf("[INFO] wishlist cleanup removed %d stale entries", n)
	}
	return n, nil
}
