package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestBuildWhereQuotesColumns(t *testing.T) {
	named := map[string]any{}
	cond, err := buildWhere(map[string]any{"status": "active", "role": "student", "deleted_at": nil}, named)
	if err != nil {
		t.Fatal(err)
	}
	want := ` WHERE "deleted_at" IS NULL AND "role" = @w_role AND "status" = @w_status`
	if cond != want {
		t.Fatalf("cond = %q, want %q", cond, want)
	}
	if len(named) != 2 || named["w_role"] != "student" {
		t.Fatalf("named = %v", named)
	}

	if _, err := buildWhere(map[string]any{`status" OR 1=1 --`: 1}, map[string]any{}); err == nil {
		t.Fatal("unchecked identifier must be rejected")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pgx unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pgx foreign key", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite", errors.New("UNIQUE constraint failed: wishlists.student_id, wishlists.job_id"), true},
		{"other", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		if got := IsUniqueViolation(tt.err); got != tt.want {
			t.Errorf("%s: IsUniqueViolation = %v, want %v", tt.name, got, tt.want)
		}
	}
}
