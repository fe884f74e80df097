package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	database "jobmarket_backend/internals/databases"
	notifModel "jobmarket_backend/internals/features/home/notifications/model"
	notifService "jobmarket_backend/internals/features/home/notifications/service"
	"jobmarket_backend/internals/features/jobs/applications/dto"
	"jobmarket_backend/internals/features/jobs/applications/model"
	jobModel "jobmarket_backend/internals/features/jobs/jobs/model"
	userModel "jobmarket_backend/internals/features/users/users/model"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

const (
	MsgAlreadyApplied  = "you have already applied for this job"
	MsgJobNotAvailable = "job not found or inactive"
	MsgStudentNotFound = "student not found"

	maxProposalLength = 1000
)

const applicationViewSelect = `
	SELECT a.*,
		j.title AS job_title,
		j.status AS job_status,
		j.publisher_id AS publisher_id,
		p.company_name AS company_name,
		s.first_name || ' ' || s.last_name AS student_name,
		s.email AS student_email
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN users p ON p.id = j.publisher_id
	JOIN users s ON s.id = a.student_id`

type ApplicationService struct {
	store    database.Store
	notifier notifService.Notifier
	now      func() time.Time
}

func NewApplicationService(store database.Store, notifier notifService.Notifier) *ApplicationService {
	return &ApplicationService{store: store, notifier: notifier, now: time.Now}
}

// =======================
// Create
// =======================

// Create applies studentID to jobID. The guards run in a fixed order:
// duplicate application, job availability, applicant role.
func (s *ApplicationService) Create(ctx context.Context, studentID, jobID int64, proposal *string) (*model.ApplicationModel, error) {
	if proposal != nil {
		p := strings.TrimSpace(*proposal)
		if len([]rune(p)) > maxProposalLength {
			return nil, helper.BadRequest(fmt.Sprintf("proposal must be at most %d characters", maxProposalLength))
		}
		proposal = &p
	}

	applied, err := s.store.Exists(ctx, "applications", map[string]any{"student_id": studentID, "job_id": jobID})
	if err != nil {
		return nil, helper.StorageError("create application", err)
	}
	if applied {
		return nil, helper.Conflict(MsgAlreadyApplied)
	}

	var job jobModel.JobModel
	found, err := s.store.SelectOne(ctx, &job, `SELECT * FROM jobs WHERE id = @id`, map[string]any{"id": jobID})
	if err != nil {
		return nil, helper.StorageError("create application", err)
	}
	if !found || !job.IsActive() {
		return nil, fiber.NewError(fiber.StatusNotFound, MsgJobNotAvailable)
	}

	var student userModel.UserModel
	found, err = s.store.SelectOne(ctx, &student, `SELECT * FROM users WHERE id = @id`, map[string]any{"id": studentID})
	if err != nil {
		return nil, helper.StorageError("create application", err)
	}
	if !found || student.Role != userModel.RoleStudent {
		return nil, fiber.NewError(fiber.StatusNotFound, MsgStudentNotFound)
	}

	now := s.now().UTC()
	id, err := s.store.Insert(ctx, "applications", map[string]any{
		"student_id": studentID,
		"job_id":     jobID,
		"proposal":   proposal,
		"status":     model.ApplicationStatusPending,
		"applied_at": now,
		"updated_at": now,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, helper.Conflict(MsgAlreadyApplied)
		}
		return nil, helper.StorageError("create application", err)
	}

	notifService.Send(ctx, s.notifier, notifService.Notification{
		UserID:  job.PublisherID,
		Type:    notifModel.TypeNewApplication,
		Message: fmt.Sprintf("%s applied for your job %q", student.FullName(), job.Title),
		Link:    link("/publisher/jobs/%d/applications", jobID),
	})

	return &model.ApplicationModel{
		ID:        id,
		StudentID: studentID,
		JobID:     jobID,
		Proposal:  proposal,
		Status:    model.ApplicationStatusPending,
		AppliedAt: now,
		UpdatedAt: now,
	}, nil
}

// =======================
// Transitions
// =======================

// UpdateStatus moves an application owned (through its job) by publisherID.
// Setting the current status again is a silent no-op.
func (s *ApplicationService) UpdateStatus(ctx context.Context, publisherID, applicationID int64, status string) (*dto.ApplicationView, error) {
	if !model.IsKnownStatus(status) {
		return nil, helper.BadRequest("invalid application status")
	}

	app, err := s.ownedByPublisher(ctx, publisherID, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status == status {
		return app, nil
	}
	if app.IsFinal() {
		return nil, helper.BadRequest(fmt.Sprintf("application has already been %s", app.Status))
	}
	if !model.CanTransition(app.Status, status) {
		return nil, helper.BadRequest(fmt.Sprintf("cannot change application from %s to %s", app.Status, status))
	}

	now := s.now().UTC()
	n, err := s.store.Update(ctx, "applications",
		map[string]any{"status": status, "updated_at": now},
		map[string]any{"id": applicationID, "status": app.Status},
	)
	if err != nil {
		return nil, helper.StorageError("update application status", err)
	}
	if n == 0 {
		return nil, helper.Conflict("application was changed by another request, reload and retry")
	}
	previous := app.Status
	app.Status = status
	app.UpdatedAt = now

	notifService.Send(ctx, s.notifier, notifService.Notification{
		UserID:  app.StudentID,
		Type:    notifModel.TypeApplicationStatusUpdated,
		Message: statusMessage(app.JobTitle, previous, status),
		Link:    link("/applications/%d", app.ID),
	})
	return app, nil
}

func (s *ApplicationService) Accept(ctx context.Context, publisherID, applicationID int64) (*dto.ApplicationView, error) {
	return s.UpdateStatus(ctx, publisherID, applicationID, model.ApplicationStatusAccepted)
}

func (s *ApplicationService) Reject(ctx context.Context, publisherID, applicationID int64) (*dto.ApplicationView, error) {
	return s.UpdateStatus(ctx, publisherID, applicationID, model.ApplicationStatusRejected)
}

func (s *ApplicationService) MarkAsViewed(ctx context.Context, publisherID, applicationID int64) (*dto.ApplicationView, error) {
	return s.UpdateStatus(ctx, publisherID, applicationID, model.ApplicationStatusViewed)
}

// Withdraw lets a student pull an application nobody has looked at yet.
func (s *ApplicationService) Withdraw(ctx context.Context, studentID, applicationID int64) error {
	var app model.ApplicationModel
	found, err := s.store.SelectOne(ctx, &app,
		`SELECT * FROM applications WHERE id = @id AND student_id = @student_id`,
		map[string]any{"id": applicationID, "student_id": studentID})
	if err != nil {
		return helper.StorageError("withdraw application", err)
	}
	if !found {
		return helper.NotFoundOrDenied("application")
	}
	if app.Status != model.ApplicationStatusPending {
		return helper.BadRequest("only pending applications can be withdrawn")
	}
	n, err := s.store.Delete(ctx, "applications", map[string]any{"id": applicationID, "status": model.ApplicationStatusPending})
	if err != nil {
		return helper.StorageError("withdraw application", err)
	}
	if n == 0 {
		return helper.BadRequest("only pending applications can be withdrawn")
	}
	return nil
}

// =======================
// Reads
// =======================

// GetByID is visible to the applicant and to the job's publisher.
func (s *ApplicationService) GetByID(ctx context.Context, viewerID, applicationID int64) (*dto.ApplicationView, error) {
	var v dto.ApplicationView
	found, err := s.store.SelectOne(ctx, &v, applicationViewSelect+`
	WHERE a.id = @id AND (a.student_id = @viewer OR j.publisher_id = @viewer)`,
		map[string]any{"id": applicationID, "viewer": viewerID})
	if err != nil {
		return nil, helper.StorageError("load application", err)
	}
	if !found {
		return nil, helper.NotFoundOrDenied("application")
	}
	return &v, nil
}

func (s *ApplicationService) ListByJob(ctx context.Context, publisherID, jobID int64, status string, p helper.Paging) ([]dto.ApplicationView, int64, error) {
	owns, err := s.store.Exists(ctx, "jobs", map[string]any{"id": jobID, "publisher_id": publisherID})
	if err != nil {
		return nil, 0, helper.StorageError("list applications", err)
	}
	if !owns {
		return nil, 0, helper.NotFoundOrDenied("job")
	}
	return s.list(ctx, "a.job_id = @job_id", map[string]any{"job_id": jobID}, status, p)
}

func (s *ApplicationService) ListByStudent(ctx context.Context, studentID int64, status string, p helper.Paging) ([]dto.ApplicationView, int64, error) {
	return s.list(ctx, "a.student_id = @student_id", map[string]any{"student_id": studentID}, status, p)
}

// ListForPublisher lists applications across every job the publisher owns.
func (s *ApplicationService) ListForPublisher(ctx context.Context, publisherID int64, status string, p helper.Paging) ([]dto.ApplicationView, int64, error) {
	return s.list(ctx, "j.publisher_id = @publisher_id", map[string]any{"publisher_id": publisherID}, status, p)
}

func (s *ApplicationService) list(ctx context.Context, cond string, params map[string]any, status string, p helper.Paging) ([]dto.ApplicationView, int64, error) {
	where := "\n\tWHERE " + cond
	if status != "" {
		where += " AND a.status = @status"
		params["status"] = status
	}
	params["limit"] = p.Limit
	params["offset"] = p.Offset

	var total int64
	if _, err := s.store.SelectOne(ctx, &total, `
	SELECT COUNT(*) FROM applications a
	JOIN jobs j ON j.id = a.job_id`+where, params); err != nil {
		return nil, 0, helper.StorageError("list applications", err)
	}

	items := make([]dto.ApplicationView, 0)
	if err := s.store.Select(ctx, &items, applicationViewSelect+where+`
	ORDER BY a.applied_at DESC, a.id DESC
	LIMIT @limit OFFSET @offset`, params); err != nil {
		return nil, 0, helper.StorageError("list applications", err)
	}
	return items, total, nil
}

// StatusCounts groups applications by status for one student (studentID > 0),
// one publisher's jobs (publisherID > 0) or the whole platform.
func (s *ApplicationService) StatusCounts(ctx context.Context, studentID, publisherID int64) (map[string]int64, error) {
	type row struct {
		Status string `gorm:"column:status"`
		N      int64  `gorm:"column:n"`
	}
	query := `SELECT a.status AS status, COUNT(*) AS n FROM applications a`
	switch {
	case studentID > 0:
		query += ` WHERE a.student_id = @student_id`
	case publisherID > 0:
		query += ` JOIN jobs j ON j.id = a.job_id WHERE j.publisher_id = @publisher_id`
	}
	query += "\n\tGROUP BY a.status"

	var rows []row
	if err := s.store.Select(ctx, &rows, query, map[string]any{
		"student_id":   studentID,
		"publisher_id": publisherID,
	}); err != nil {
		return nil, helper.StorageError("count applications", err)
	}
	out := map[string]int64{
		model.ApplicationStatusPending:  0,
		model.ApplicationStatusViewed:   0,
		model.ApplicationStatusAccepted: 0,
		model.ApplicationStatusRejected: 0,
	}
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

func (s *ApplicationService) ownedByPublisher(ctx context.Context, publisherID, applicationID int64) (*dto.ApplicationView, error) {
	var v dto.ApplicationView
	found, err := s.store.SelectOne(ctx, &v, applicationViewSelect+`
	WHERE a.id = @id AND j.publisher_id = @publisher_id`,
		map[string]any{"id": applicationID, "publisher_id": publisherID})
	if err != nil {
		return nil, helper.StorageError("load application", err)
	}
	if !found {
		return nil, helper.NotFoundOrDenied("application")
	}
	return &v, nil
}

func statusMessage(jobTitle, from, to string) string {
	switch to {
	case model.ApplicationStatusViewed:
		return fmt.Sprintf("Your application for %q has been viewed by the publisher", jobTitle)
	case model.ApplicationStatusAccepted:
		return fmt.Sprintf("Congratulations! Your application for %q has been accepted", jobTitle)
	case model.ApplicationStatusRejected:
		return fmt.Sprintf("Your application for %q was not selected", jobTitle)
	}
	return fmt.Sprintf("Your application for %q changed from %s to %s", jobTitle, from, to)
}

func link(format string, args ...any) *string {
	s := fmt.Sprintf(format, args...)
	return &s
}
