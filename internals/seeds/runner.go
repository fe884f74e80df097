package seeds

import (
	"log"

	"jobmarket_backend/internals/seeds/categories"

	"gorm.io/gorm"
)

// RunAllSeeds loads reference data. categoryFile overrides the bundled
// category list when set.
func RunAllSeeds(db *gorm.DB, categoryFile string) error {
	//* Job categories
	if _, err := categories.SeedCategoriesFromJSON(db, categoryFile); err != nil {
		log.Printf("[ERROR] category seed failed: %v", err)
		return err
	}
	return nil
}
