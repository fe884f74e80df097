package categories

import (
	"testing"

	"jobmarket_backend/internals/databases/dbtest"
	"jobmarket_backend/internals/features/jobs/categories/model"
)

func TestSeedCategoriesIsIdempotent(t *testing.T) {
	db := dbtest.NewDB(t)

	created, err := SeedCategoriesFromJSON(db, "")
	if err != nil {
		t.Fatal(err)
	}
	if created != 8 {
		t.Fatalf("created = %d, want 8", created)
	}

	created, err = SeedCategoriesFromJSON(db, "")
	if err != nil {
		t.Fatal(err)
	}
	if created != 0 {
		t.Fatalf("second run created = %d, want 0", created)
	}

	var n int64
	if err := db.Model(&model.JobCategoryModel{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 8 {
		t.Fatalf("rows = %d, want 8", n)
	}
}

func TestSeedCategoriesSkipsBlankAndRejectsBadJSON(t *testing.T) {
	db := dbtest.NewDB(t)

	created, err := SeedCategories(db, []byte(`[{"name":"  "},{"name":" Logistics "}]`))
	if err != nil || created != 1 {
		t.Fatalf("created = %d, err = %v; want 1, nil", created, err)
	}
	var row model.JobCategoryModel
	if err := db.Where("name = ?", "Logistics").First(&row).Error; err != nil {
		t.Fatalf("trimmed name not stored: %v", err)
	}
	if !row.IsActive {
		t.Fatal("seeded categories should be active")
	}

	if _, err := SeedCategories(db, []byte(`{not json`)); err == nil {
		t.Fatal("bad JSON should fail")
	}
}
