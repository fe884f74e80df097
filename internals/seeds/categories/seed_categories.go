package categories

import (
	_ "embed"
	"log"
	"os"
	"strings"
	"time"

	"jobmarket_backend/internals/features/jobs/categories/model"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed data_categories.json
var defaultCategories []byte

type CategorySeed struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// SeedCategoriesFromJSON reads filePath, or the bundled list when filePath is empty.
func SeedCategoriesFromJSON(db *gorm.DB, filePath string) (int64, error) {
	data := defaultCategories
	if filePath != "" {
		log.Println("[INFO] reading category seed file:", filePath)
		b, err := os.ReadFile(filePath)
		if err != nil {
			return 0, err
		}
		data = b
	}
	return SeedCategories(db, data)
}

// SeedCategories inserts the categories in data that do not exist yet and
// returns how many were created. Existing names are left untouched.
func SeedCategories(db *gorm.DB, data []byte) (int64, error) {
	var seeds []CategorySeed
	if err := sonic.Unmarshal(data, &seeds); err != nil {
		return 0, err
	}

	var created int64
	now := time.Now().UTC()
	for _, seed := range seeds {
		name := strings.TrimSpace(seed.Name)
		if name == "" {
			continue
		}
		row := model.JobCategoryModel{
			Name:        name,
			Description: seed.Description,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			log.Printf("[ERROR] seed category %q: %v", name, res.Error)
			return created, res.Error
		}
		if res.RowsAffected == 0 {
			log.Printf("[INFO] category %q exists, skipping", name)
			continue
		}
		created += res.RowsAffected
	}
	log.Printf("[INFO] seeded %d job categories", created)
	return created, nil
}
