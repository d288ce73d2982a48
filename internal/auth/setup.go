package auth

import (
	"log"

	"github.com/DepositEase/DE-Backend/internal/config"
	"github.com/DepositEase/DE-Backend/internal/db"
	"golang.org/x/crypto/bcrypt"
)

var (
	hashCost = bcrypt.DefaultCost
	tokens   *Issuer
)

// Init migrates the auth schema and wires the signing secret and bcrypt cost
// from config. The returned Issuer is handed to the other modules so nothing
// reads the secret ambiently after startup.
func Init(cfg config.Config) *Issuer {
	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		log.Fatal("Failed to ensure schema app_auth: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension: ", err)
	}

	if err := db.DB.AutoMigrate(&Admin{}); err != nil {
		log.Fatal("Failed to auto-migrate auth tables: ", err)
	}

	hashCost = cfg.BcryptCost
	tokens = NewIssuer(cfg.SessionSecret, cfg.SessionTTL)
	return tokens
}
