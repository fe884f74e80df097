package service

import (
	"context"
	"strings"
	"time"

	database "jobmarket_backend/internals/databases"
	appModel "jobmarket_backend/internals/features/jobs/applications/model"
	"jobmarket_backend/internals/features/jobs/jobs/dto"
	"jobmarket_backend/internals/features/jobs/jobs/model"
	userModel "jobmarket_backend/internals/features/users/users/model"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

const jobViewSelect = `
	SELECT j.*,
		u.company_name AS company_name,
		u.first_name || ' ' || u.last_name AS publisher_name,
		c.name AS category_name
	FROM jobs j
	JOIN users u ON u.id = j.publisher_id
	LEFT JOIN job_categories c ON c.id = j.category_id`

type JobService struct {
	store database.Store
	now   func() time.Time
}

func NewJobService(store database.Store) *JobService {
	return &JobService{store: store, now: time.Now}
}

// =======================
// Write side
// =======================

func (s *JobService) Create(ctx context.Context, publisherID int64, req dto.CreateJobRequest) (*dto.JobView, error) {
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := s.checkDeadline(req.Deadline); err != nil {
		return nil, err
	}
	if err := s.checkPublisher(ctx, publisherID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	vacancies := 1
	if req.Vacancies != nil {
		vacancies = *req.Vacancies
	}
	status := model.JobStatusActive
	if req.Status != nil {
		status = *req.Status
	}
	now := s.now().UTC()
	id, err := s.store.Insert(ctx, "jobs", map[string]any{
		"publisher_id":  publisherID,
		"title":         req.Title,
		"description":   req.Description,
		"category_id":   req.CategoryID,
		"job_type":      req.JobType,
		"payment_range": req.PaymentRange,
		"location":      req.Location,
		"requirements":  req.Requirements,
		"benefits":      req.Benefits,
		"deadline":      utcPtr(req.Deadline),
		"start_date":    utcPtr(req.StartDate),
		"vacancies":     vacancies,
		"status":        status,
		"created_at":    now,
		"updated_at":    now,
	})
	if err != nil {
		return nil, helper.StorageError("create job", err)
	}
	return s.GetByID(ctx, id)
}

func (s *JobService) Update(ctx context.Context, publisherID, jobID int64, req dto.UpdateJobRequest) (*dto.JobView, error) {
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, s.store, publisherID, jobID); err != nil {
		return nil, err
	}
	if err := s.checkDeadline(req.Deadline); err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": s.now().UTC()}
	setString(fields, "title", req.Title)
	setString(fields, "description", req.Description)
	setString(fields, "job_type", req.JobType)
	setString(fields, "payment_range", req.PaymentRange)
	setString(fields, "location", req.Location)
	setString(fields, "requirements", req.Requirements)
	setString(fields, "benefits", req.Benefits)
	setString(fields, "status", req.Status)
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *req.CategoryID
	}
	if req.Deadline != nil {
		fields["deadline"] = req.Deadline.UTC()
	}
	if req.StartDate != nil {
		fields["start_date"] = req.StartDate.UTC()
	}
	if req.Vacancies != nil {
		fields["vacancies"] = *req.Vacancies
	}

	if _, err := s.store.Update(ctx, "jobs", fields, map[string]any{"id": jobID, "publisher_id": publisherID}); err != nil {
		return nil, helper.StorageError("update job", err)
	}
	return s.GetByID(ctx, jobID)
}

// Delete removes the job together with its applications and wishlist rows.
func (s *JobService) Delete(ctx context.Context, publisherID, jobID int64) error {
	return s.store.Transaction(ctx, func(tx database.Store) error {
		if _, err := s.owned(ctx, tx, publisherID, jobID); err != nil {
			return err
		}
		return DeleteCascade(ctx, tx, jobID)
	})
}

// DeleteCascade hard-deletes a job's dependants and then the job itself.
// It must run inside a transaction.
func DeleteCascade(ctx context.Context, tx database.Store, jobID int64) error {
	if _, err := tx.Delete(ctx, "applications", map[string]any{"job_id": jobID}); err != nil {
		return helper.StorageError("delete job applications", err)
	}
	if _, err := tx.Delete(ctx, "wishlists", map[string]any{"job_id": jobID}); err != nil {
		return helper.StorageError("delete job wishlist entries", err)
	}
	if _, err := tx.Delete(ctx, "jobs", map[string]any{"id": jobID}); err != nil {
		return helper.StorageError("delete job", err)
	}
	return nil
}

// ChangeStatus is the owning publisher's status switch.
func (s *JobService) ChangeStatus(ctx context.Context, publisherID, jobID int64, status string) (*dto.JobView, error) {
	if err := helper.ValidateStruct(dto.ChangeStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, s.store, publisherID, jobID); err != nil {
		return nil, err
	}
	return s.setStatus(ctx, jobID, status)
}

// AdminChangeStatus skips the ownership check.
func (s *JobService) AdminChangeStatus(ctx context.Context, jobID int64, status string) (*dto.JobView, error) {
	if err := helper.ValidateStruct(dto.ChangeStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.setStatus(ctx, jobID, status)
}

func (s *JobService) setStatus(ctx context.Context, jobID int64, status string) (*dto.JobView, error) {
	if _, err := s.store.Update(ctx, "jobs",
		map[string]any{"status": status, "updated_at": s.now().UTC()},
		map[string]any{"id": jobID},
	); err != nil {
		return nil, helper.StorageError("change job status", err)
	}
	return s.GetByID(ctx, jobID)
}

// =======================
// Read side
// =======================

func (s *JobService) GetByID(ctx context.Context, jobID int64) (*dto.JobView, error) {
	var v dto.JobView
	found, err := s.store.SelectOne(ctx, &v, jobViewSelect+`
	WHERE j.id = @id`, map[string]any{"id": jobID})
	if err != nil {
		return nil, helper.StorageError("load job", err)
	}
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, "job not found")
	}
	return &v, nil
}

// GetOwned returns the job only when publisherID owns it.
func (s *JobService) GetOwned(ctx context.Context, publisherID, jobID int64) (*model.JobModel, error) {
	return s.owned(ctx, s.store, publisherID, jobID)
}

func (s *JobService) Search(ctx context.Context, f dto.SearchFilter, p helper.Paging) ([]dto.JobView, int64, error) {
	conds := make([]string, 0, 6)
	params := map[string]any{"limit": p.Limit, "offset": p.Offset}

	if f.Status != "" {
		conds = append(conds, "j.status = @status")
		params["status"] = f.Status
	}
	if f.CategoryID > 0 {
		conds = append(conds, "j.category_id = @category_id")
		params["category_id"] = f.CategoryID
	}
	if f.PublisherID > 0 {
		conds = append(conds, "j.publisher_id = @publisher_id")
		params["publisher_id"] = f.PublisherID
	}
	if t := strings.TrimSpace(f.JobType); t != "" {
		conds = append(conds, "j.job_type = @job_type")
		params["job_type"] = t
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		conds = append(conds, "LOWER(j.location) LIKE @location")
		params["location"] = "%" + strings.ToLower(loc) + "%"
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		conds = append(conds, "(LOWER(j.title) LIKE @keyword OR LOWER(j.description) LIKE @keyword)")
		params["keyword"] = "%" + strings.ToLower(kw) + "%"
	}

	where := ""
	if len(conds) > 0 {
		where = "\n\tWHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if _, err := s.store.SelectOne(ctx, &total, `SELECT COUNT(*) FROM jobs j`+where, params); err != nil {
		return nil, 0, helper.StorageError("search jobs", err)
	}

	items := make([]dto.JobView, 0)
	err := s.store.Select(ctx, &items, jobViewSelect+where+`
	ORDER BY j.created_at DESC, j.id DESC
	LIMIT @limit OFFSET @offset`, params)
	if err != nil {
		return nil, 0, helper.StorageError("search jobs", err)
	}
	return items, total, nil
}

func (s *JobService) ListByPublisher(ctx context.Context, publisherID int64, status string, p helper.Paging) ([]dto.JobView, int64, error) {
	return s.Search(ctx, dto.SearchFilter{PublisherID: publisherID, Status: status}, p)
}

// StatusCounts groups jobs by status; publisherID 0 counts every job.
func (s *JobService) StatusCounts(ctx context.Context, publisherID int64) (map[string]int64, error) {
	type row struct {
		Status string `gorm:"column:status"`
		N      int64  `gorm:"column:n"`
	}
	query := `SELECT status, COUNT(*) AS n FROM jobs GROUP BY status`
	if publisherID > 0 {
		query = `SELECT status, COUNT(*) AS n FROM jobs WHERE publisher_id = @publisher_id GROUP BY status`
	}
	var rows []row
	if err := s.store.Select(ctx, &rows, query, map[string]any{"publisher_id": publisherID}); err != nil {
		return nil, helper.StorageError("count jobs", err)
	}
	out := make(map[string]int64, len(model.JobStatuses))
	for _, st := range model.JobStatuses {
		out[st] = 0
	}
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

// =======================
// Derived
// =======================

func (s *JobService) AcceptedCount(ctx context.Context, jobID int64) (int64, error) {
	n, err := s.store.Count(ctx, "applications", map[string]any{
		"job_id": jobID,
		"status": appModel.ApplicationStatusAccepted,
	})
	if err != nil {
		return 0, helper.StorageError("count accepted applications", err)
	}
	return n, nil
}

// HasAvailablePositions compares accepted applications with vacancies. It is
// informational; applying is never blocked by it.
func (s *JobService) HasAvailablePositions(ctx context.Context, jobID int64) (bool, error) {
	job, err := s.GetByID(ctx, jobID)
	if err != nil {
		return false, err
	}
	accepted, err := s.AcceptedCount(ctx, jobID)
	if err != nil {
		return false, err
	}
	return accepted < int64(job.Vacancies), nil
}

// =======================
// Guards
// =======================

func (s *JobService) owned(ctx context.Context, store database.Store, publisherID, jobID int64) (*model.JobModel, error) {
	var job model.JobModel
	found, err := store.SelectOne(ctx, &job,
		`SELECT * FROM jobs WHERE id = @id AND publisher_id = @publisher_id`,
		map[string]any{"id": jobID, "publisher_id": publisherID})
	if err != nil {
		return nil, helper.StorageError("load job", err)
	}
	if !found {
		return nil, helper.NotFoundOrDenied("job")
	}
	return &job, nil
}

func (s *JobService) checkDeadline(deadline *time.Time) error {
	if deadline != nil && !deadline.After(s.now()) {
		return helper.BadRequest("deadline must be in the future")
	}
	return nil
}

func (s *JobService) checkPublisher(ctx context.Context, publisherID int64) error {
	ok, err := s.store.Exists(ctx, "users", map[string]any{"id": publisherID, "role": userModel.RolePublisher})
	if err != nil {
		return helper.StorageError("load publisher", err)
	}
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "publisher not found")
	}
	return nil
}

func (s *JobService) checkCategory(ctx context.Context, categoryID int64) error {
	ok, err := s.store.Exists(ctx, "job_categories", map[string]any{"id": categoryID})
	if err != nil {
		return helper.StorageError("load category", err)
	}
	if !ok {
		return helper.BadRequest("category not found")
	}
	return nil
}

func setString(fields map[string]any, col string, v *string) {
	if v != nil {
		fields[col] = *v
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
