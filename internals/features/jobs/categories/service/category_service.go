package service

import (
	"context"
	"time"

	database "jobmarket_backend/internals/databases"
	"jobmarket_backend/internals/features/jobs/categories/dto"
	"jobmarket_backend/internals/features/jobs/categories/model"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

const (
	msgCategoryExists  = "category name already exists"
	msgCategoryHasJobs = "cannot delete category that has jobs associated with it"
)

type CategoryService struct {
	store database.Store
	now   func() time.Time
}

func NewCategoryService(store database.Store) *CategoryService {
	return &CategoryService{store: store, now: time.Now}
}

func (s *CategoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*model.JobCategoryModel, error) {
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, req.Name, 0)
	if err != nil {
		return nil, helper.StorageError("create category", err)
	}
	if taken {
		return nil, helper.Conflict(msgCategoryExists)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	now := s.now().UTC()
	id, err := s.store.Insert(ctx, "job_categories", map[string]any{
		"name":        req.Name,
		"description": req.Description,
		"is_active":   active,
		"created_at":  now,
		"updated_at":  now,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, helper.Conflict(msgCategoryExists)
		}
		return nil, helper.StorageError("create category", err)
	}
	return s.GetByID(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, id int64, req dto.UpdateCategoryRequest) (*model.JobCategoryModel, error) {
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": s.now().UTC()}
	if req.Name != nil {
		taken, err := s.nameTaken(ctx, *req.Name, id)
		if err != nil {
			return nil, helper.StorageError("update category", err)
		}
		if taken {
			return nil, helper.Conflict(msgCategoryExists)
		}
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if _, err := s.store.Update(ctx, "job_categories", fields, map[string]any{"id": id}); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, helper.Conflict(msgCategoryExists)
		}
		return nil, helper.StorageError("update category", err)
	}
	return s.GetByID(ctx, id)
}

// Delete refuses while any job, whatever its status, still references the category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.store.Count(ctx, "jobs", map[string]any{"category_id": id})
	if err != nil {
		return helper.StorageError("delete category", err)
	}
	if n > 0 {
		return helper.BadRequest(msgCategoryHasJobs)
	}
	if _, err := s.store.Delete(ctx, "job_categories", map[string]any{"id": id}); err != nil {
		return helper.StorageError("delete category", err)
	}
	return nil
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (*model.JobCategoryModel, error) {
	var m model.JobCategoryModel
	found, err := s.store.SelectOne(ctx, &m, `SELECT * FROM job_categories WHERE id = @id`, map[string]any{"id": id})
	if err != nil {
		return nil, helper.StorageError("load category", err)
	}
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, "category not found")
	}
	return &m, nil
}

func (s *CategoryService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.store.Exists(ctx, "job_categories", map[string]any{"id": id})
}

func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]model.JobCategoryModel, error) {
	query := `SELECT * FROM job_categories ORDER BY name ASC`
	if activeOnly {
		query = `SELECT * FROM job_categories WHERE is_active = @active ORDER BY name ASC`
	}
	items := make([]model.JobCategoryModel, 0)
	if err := s.store.Select(ctx, &items, query, map[string]any{"active": true}); err != nil {
		return nil, helper.StorageError("list categories", err)
	}
	return items, nil
}

// ListWithJobCounts returns every category with its total and active job counts.
func (s *CategoryService) ListWithJobCounts(ctx context.Context) ([]dto.CategoryWithCount, error) {
	items := make([]dto.CategoryWithCount, 0)
	err := s.store.Select(ctx, &items, `
		SELECT c.*,
			COUNT(j.id) AS job_count,
			COALESCE(SUM(CASE WHEN j.status = @active THEN 1 ELSE 0 END), 0) AS active_job_count
		FROM job_categories c
		LEFT JOIN jobs j ON j.category_id = c.id
		GROUP BY c.id, c.name, c.description, c.is_active, c.created_at, c.updated_at
		ORDER BY c.name ASC`, map[string]any{"active": "active"})
	if err != nil {
		return nil, helper.StorageError("list categories", err)
	}
	return items, nil
}

func (s *CategoryService) nameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var ids []int64
	err := s.store.Select(ctx, &ids,
		`SELECT id FROM job_categories WHERE LOWER(name) = LOWER(@name)`,
		map[string]any{"name": name})
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id != exceptID {
			return true, nil
		}
	}
	return false, nil
}
