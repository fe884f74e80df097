package service

import (
	"context"
	"testing"

	"jobmarket_backend/internals/databases/dbtest"
	"jobmarket_backend/internals/features/jobs/categories/dto"
	helper "jobmarket_backend/internals/helpers"
)

func TestCreateCategory(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewCategoryService(store)
	ctx := context.Background()

	m, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "  Engineering "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.Name != "Engineering" || !m.IsActive {
		t.Fatalf("unexpected category: %+v", m)
	}

	_, err = svc.Create(ctx, dto.CreateCategoryRequest{Name: "engineering"})
	if helper.ErrorCode(err) != 409 {
		t.Fatalf("expected 409 for duplicate name, got %v", err)
	}

	_, err = svc.Create(ctx, dto.CreateCategoryRequest{Name: "x"})
	if helper.ErrorCode(err) != 400 {
		t.Fatalf("expected 400 for short name, got %v", err)
	}
}

func TestUpdateCategoryKeepsOwnName(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewCategoryService(store)
	ctx := context.Background()

	a := dbtest.Category(t, store, "Design")
	dbtest.Category(t, store, "Writing")

	name := "Design"
	inactive := false
	m, err := svc.Update(ctx, a, dto.UpdateCategoryRequest{Name: &name, IsActive: &inactive})
	if err != nil {
		t.Fatalf("update with own name: %v", err)
	}
	if m.IsActive {
		t.Fatalf("expected category to be inactive")
	}

	taken := "Writing"
	if _, err := svc.Update(ctx, a, dto.UpdateCategoryRequest{Name: &taken}); helper.ErrorCode(err) != 409 {
		t.Fatalf("expected 409, got %v", err)
	}

	active, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Writing" {
		t.Fatalf("expected only Writing to be active, got %+v", active)
	}
}

func TestDeleteCategoryWithJobsIsRejected(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewCategoryService(store)
	ctx := context.Background()

	pub := dbtest.User(t, store, "publisher")
	cat := dbtest.Category(t, store, "Engineering")
	for i := 0; i < 3; i++ {
		dbtest.Job(t, store, pub, cat, "active")
	}

	err := svc.Delete(ctx, cat)
	if helper.ErrorCode(err) != 400 || helper.ErrorMessage(err) != msgCategoryHasJobs {
		t.Fatalf("expected guard error, got %v", err)
	}
	if n := dbtest.Count(t, store, "job_categories", map[string]any{"id": cat}); n != 1 {
		t.Fatalf("category row should persist, count=%d", n)
	}

	counts, err := svc.ListWithJobCounts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if len(counts) != 1 || counts[0].JobCount != 3 || counts[0].ActiveJobCount != 3 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	empty := dbtest.Category(t, store, "Empty")
	if err := svc.Delete(ctx, empty); err != nil {
		t.Fatalf("delete empty category: %v", err)
	}
	if _, err := svc.GetByID(ctx, empty); helper.ErrorCode(err) != 404 {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}

func TestListAllIncludesInactive(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewCategoryService(store)
	ctx := context.Background()
	dbtest.Category(t, store, "Design")
	hidden := dbtest.Category(t, store, "Archive")
	if _, err := store.Update(ctx, "job_categories", map[string]any{"is_active": false}, map[string]any{"id": hidden}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Archive" {
		t.Fatalf("unexpected list: %+v", all)
	}
	active, err := svc.List(ctx, true)
	if err != nil || len(active) != 1 || active[0].Name != "Design" {
		t.Fatalf("active list = %+v, %v", active, err)
	}
}
