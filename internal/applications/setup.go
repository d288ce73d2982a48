package applications

import (
	"log"

	"github.com/DepositEase/DE-Backend/internal/db"
)

// Init migrates the applications table. Must run after catalog.Init so the
// products table exists for the cascade foreign key.
func Init() {
	if err := db.EnsureSchema(db.DB, "catalog"); err != nil {
		log.Fatal("Failed to ensure schema catalog: ", err)
	}

	if err := db.DB.AutoMigrate(&Application{}); err != nil {
		log.Fatal("Failed to auto-migrate applications table: ", err)
	}

	// Serves both the status-filtered newest-first listing and the dashboard
	// pending count
	if err := db.DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_applications_status_created
		ON catalog.applications (status, created_at DESC);
	`).Error; err != nil {
		log.Fatal("Failed to create idx_applications_status_created: ", err)
	}

	log.Println("Applications module initialized")
}
