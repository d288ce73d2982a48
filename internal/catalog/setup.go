package catalog

import (
	"log"

	"github.com/DepositEase/DE-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "catalog"); err != nil {
		log.Fatal("Failed to ensure schema catalog: ", err)
	}

	if err := db.DB.AutoMigrate(&Bank{}, &Product{}); err != nil {
		log.Fatal("Failed to auto-migrate catalog tables: ", err)
	}

	log.Println("Catalog module initialized")
}
