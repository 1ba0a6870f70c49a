package seeds

import (
	"log"

	"schoolku_backend/internals/seeds/demo"

	"gorm.io/gorm"
)

func RunAllSeeds(db *gorm.DB) error {
	log.Println("📥 Seed: école démo")
	if _, err := demo.SeedDemo(db); err != nil {
		return err
	}
	return nil
}
