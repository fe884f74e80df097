package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	database "jobmarket_backend/internals/databases"
)

var seq atomic.Int64

func insert(t *testing.T, store database.Store, table string, fields map[string]any) int64 {
	t.Helper()
	id, err := store.Insert(context.Background(), table, fields)
	if err != nil {
		t.Fatalf("seed %s: %v", table, err)
	}
	return id
}

// User inserts an active user with the given role and returns its id.
func User(t *testing.T, store database.Store, role string) int64 {
	t.Helper()
	n := seq.Add(1)
	now := time.Now().UTC()
	fields := map[string]any{
		"email":       fmt.Sprintf("%s%d@example.test", role, n),
		"first_name":  fmt.Sprintf("First%d", n),
		"last_name":   fmt.Sprintf("Last%d", n),
		"role":        role,
		"status":      "active",
		"is_verified": false,
		"created_at":  now,
		"updated_at":  now,
	}
	if role == "publisher" {
		fields["company_name"] = fmt.Sprintf("Company %d", n)
	}
	return insert(t, store, "users", fields)
}

func Category(t *testing.T, store database.Store, name string) int64 {
	t.Helper()
	now := time.Now().UTC()
	return insert(t, store, "job_categories", map[string]any{
		"name":       name,
		"is_active":  true,
		"created_at": now,
		"updated_at": now,
	})
}

// Job inserts a job owned by publisherID with one vacancy.
func Job(t *testing.T, store database.Store, publisherID, categoryID int64, status string) int64 {
	t.Helper()
	n := seq.Add(1)
	now := time.Now().UTC()
	return insert(t, store, "jobs", map[string]any{
		"publisher_id":  publisherID,
		"title":         fmt.Sprintf("Job %d", n),
		"description":   "Build things",
		"category_id":   categoryID,
		"job_type":      "part_time",
		"payment_range": "100-200",
		"vacancies":     1,
		"status":        status,
		"created_at":    now,
		"updated_at":    now,
	})
}

func Application(t *testing.T, store database.Store, studentID, jobID int64, status string) int64 {
	t.Helper()
	now := time.Now().UTC()
	return insert(t, store, "applications", map[string]any{
		"student_id": studentID,
		"job_id":     jobID,
		"status":     status,
		"applied_at": now,
		"updated_at": now,
	})
}

// Count is a fatal-on-error shortcut for Store.Count.
func Count(t *testing.T, store database.Store, table string, where map[string]any) int64 {
	t.Helper()
	n, err := store.Count(context.Background(), table, where)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
