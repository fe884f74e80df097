package service

import (
	"context"
	"testing"
	"time"

	"jobmarket_backend/internals/databases/dbtest"
	"jobmarket_backend/internals/features/jobs/jobs/dto"
	helper "jobmarket_backend/internals/helpers"
)

func validJob(categoryID int64) dto.CreateJobRequest {
	return dto.CreateJobRequest{
		Title:        "Backend intern",
		Description:  "Write Go services",
		CategoryID:   categoryID,
		JobType:      "internship",
		PaymentRange: "500-800",
	}
}

func TestCreateJobValidation(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewJobService(store)
	ctx := context.Background()

	pub := dbtest.User(t, store, "publisher")
	student := dbtest.User(t, store, "student")
	cat := dbtest.Category(t, store, "Engineering")

	past := time.Now().Add(-time.Hour)
	zero := 0

	tests := []struct {
		name      string
		publisher int64
		mutate    func(r *dto.CreateJobRequest)
		code      int
	}{
		{"missing title", pub, func(r *dto.CreateJobRequest) { r.Title = "   " }, 400},
		{"missing payment range", pub, func(r *dto.CreateJobRequest) { r.PaymentRange = "" }, 400},
		{"past deadline", pub, func(r *dto.CreateJobRequest) { r.Deadline = &past }, 400},
		{"zero vacancies", pub, func(r *dto.CreateJobRequest) { r.Vacancies = &zero }, 400},
		{"unknown category", pub, func(r *dto.CreateJobRequest) { r.CategoryID = cat + 100 }, 400},
		{"not a publisher", student, func(r *dto.CreateJobRequest) {}, 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validJob(cat)
			tt.mutate(&req)
			_, err := svc.Create(ctx, tt.publisher, req)
			if got := helper.ErrorCode(err); got != tt.code {
				t.Fatalf("expected %d, got %d (%v)", tt.code, got, err)
			}
		})
	}

	if n := dbtest.Count(t, store, "jobs", nil); n != 0 {
		t.Fatalf("no job should be stored, got %d", n)
	}
}

func TestCreateJobDefaults(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewJobService(store)

	pub := dbtest.User(t, store, "publisher")
	cat := dbtest.Category(t, store, "Engineering")

	job, err := svc.Create(context.Background(), pub, validJob(cat))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if job.Vacancies != 1 || job.Status != "active" {
		t.Fatalf("unexpected defaults: vacancies=%d status=%s", job.Vacancies, job.Status)
	}
	if job.CategoryName == nil || *job.CategoryName != "Engineering" {
		t.Fatalf("category name not joined: %+v", job.CategoryName)
	}
	if job.CompanyName == nil || *job.CompanyName == "" {
		t.Fatalf("company name not joined")
	}
}

func TestOtherPublisherCannotTouchJob(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewJobService(store)
	ctx := context.Background()

	owner := dbtest.User(t, store, "publisher")
	other := dbtest.User(t, store, "publisher")
	cat := dbtest.Category(t, store, "Engineering")
	jobID := dbtest.Job(t, store, owner, cat, "active")

	title := "Hijacked"
	_, err := svc.Update(ctx, other, jobID, dto.UpdateJobRequest{Title: &title})
	if helper.ErrorMessage(err) != "job not found or access denied" {
		t.Fatalf("expected access denied, got %v", err)
	}
	if err := svc.Delete(ctx, other, jobID); helper.ErrorCode(err) != 404 {
		t.Fatalf("expected 404 on delete, got %v", err)
	}
	if _, err := svc.ChangeStatus(ctx, other, jobID, "inactive"); helper.ErrorCode(err) != 404 {
		t.Fatalf("expected 404 on status change, got %v", err)
	}

	job, err := svc.AdminChangeStatus(ctx, jobID, "expired")
	if err != nil {
		t.Fatalf("admin status change: %v", err)
	}
	if job.Status != "expired" {
		t.Fatalf("expected expired, got %s", job.Status)
	}
}

func TestDeleteJobCascades(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewJobService(store)
	ctx := context.Background()

	pub := dbtest.User(t, store, "publisher")
	s1 := dbtest.User(t, store, "student")
	s2 := dbtest.User(t, store, "student")
	cat := dbtest.Category(t, store, "Engineering")
	jobID := dbtest.Job(t, store, pub, cat, "active")
	keep := dbtest.Job(t, store, pub, cat, "active")

	dbtest.Application(t, store, s1, jobID, "pending")
	dbtest.Application(t, store, s2, jobID, "accepted")
	dbtest.Application(t, store, s1, keep, "pending")
	if _, err := store.Insert(ctx, "wishlists", map[string]any{
		"student_id": s2, "job_id": jobID, "created_at": time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed wishlist: %v", err)
	}

	if err := svc.Delete(ctx, pub, jobID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := dbtest.Count(t, store, "applications", map[string]any{"job_id": jobID}); n != 0 {
		t.Fatalf("applications left behind: %d", n)
	}
	if n := dbtest.Count(t, store, "wishlists", map[string]any{"job_id": jobID}); n != 0 {
		t.Fatalf("wishlist rows left behind: %d", n)
	}
	if n := dbtest.Count(t, store, "applications", map[string]any{"job_id": keep}); n != 1 {
		t.Fatalf("other job's applications touched: %d", n)
	}
}

func TestHasAvailablePositions(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewJobService(store)
	ctx := context.Background()

	pub := dbtest.User(t, store, "publisher")
	s1 := dbtest.User(t, store, "student")
	cat := dbtest.Category(t, store, "Engineering")
	jobID := dbtest.Job(t, store, pub, cat, "active")

	ok, err := svc.HasAvailablePositions(ctx, jobID)
	if err != nil || !ok {
		t.Fatalf("expected open position, got %v %v", ok, err)
	}
	dbtest.Application(t, store, s1, jobID, "accepted")
	ok, err = svc.HasAvailablePositions(ctx, jobID)
	if err != nil || ok {
		t.Fatalf("expected job to be full, got %v %v", ok, err)
	}
}

func TestSearchFilters(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewJobService(store)
	ctx := context.Background()

	pub := dbtest.User(t, store, "publisher")
	eng := dbtest.Category(t, store, "Engineering")
	design := dbtest.Category(t, store, "Design")

	req := validJob(eng)
	req.Title = "Golang developer"
	if _, err := svc.Create(ctx, pub, req); err != nil {
		t.Fatalf("create: %v", err)
	}
	dbtest.Job(t, store, pub, design, "active")
	dbtest.Job(t, store, pub, eng, "inactive")

	p := helper.NewPaging(1, 10, 10, 100)

	items, total, err := svc.Search(ctx, dto.SearchFilter{Status: "active", Keyword: "GOLANG"}, p)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Title != "Golang developer" {
		t.Fatalf("keyword search: total=%d items=%+v", total, items)
	}

	_, total, err = svc.Search(ctx, dto.SearchFilter{CategoryID: eng}, p)
	if err != nil || total != 2 {
		t.Fatalf("category search: total=%d err=%v", total, err)
	}

	counts, err := svc.StatusCounts(ctx, pub)
	if err != nil {
		t.Fatalf("status counts: %v", err)
	}
	if counts["active"] != 2 || counts["inactive"] != 1 || counts["expired"] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestStatusCountsAcrossPublishers(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewJobService(store)
	cat := dbtest.Category(t, store, "Engineering")
	a := dbtest.User(t, store, "publisher")
	b := dbtest.User(t, store, "publisher")
	dbtest.Job(t, store, a, cat, "active")
	dbtest.Job(t, store, b, cat, "active")
	dbtest.Job(t, store, b, cat, "expired")

	all, err := svc.StatusCounts(context.Background(), 0)
	if err != nil {
		t.Fatalf("platform counts: %v", err)
	}
	if all["active"] != 2 || all["expired"] != 1 || all["pending"] != 0 {
		t.Fatalf("unexpected counts: %v", all)
	}
	own, err := svc.StatusCounts(context.Background(), a)
	if err != nil || own["active"] != 1 || own["expired"] != 0 {
		t.Fatalf("publisher counts = %v, %v", own, err)
	}
}
