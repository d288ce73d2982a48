package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Bank is a financial institution offering deposit products.
type Bank struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name          string    `gorm:"uniqueIndex;not null" json:"name"`
	Description   string    `json:"description,omitempty"`
	LogoURL       string    `json:"logo_url,omitempty"`
	Website       string    `json:"website,omitempty"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Email         string    `json:"email,omitempty"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Products []Product `gorm:"foreignKey:BankID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
}

func (Bank) TableName() string {
	return "catalog.banks"
}

// Product is a deposit instrument offered by exactly one bank.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	BankID       uuid.UUID `gorm:"type:uuid;not null;index" json:"bank_id"`
	Name         string    `gorm:"not null" json:"name"`
	Type         string    `gorm:"not null;index" json:"type"` // Fixed Deposit, DPS, etc.
	InterestRate float64   `gorm:"not null" json:"interest_rate"`
	MinDeposit   float64   `gorm:"not null" json:"min_deposit"`
	Tenure       string    `gorm:"not null" json:"tenure"` // e.g. "12 months"

	ProductOverview     string         `json:"product_overview,omitempty"`
	KeyFeatures         pq.StringArray `gorm:"type:text[]" json:"key_features,omitempty"`
	WithdrawalRules     string         `json:"withdrawal_rules,omitempty"`
	EligibilityCriteria string         `json:"eligibility_criteria,omitempty"`
	RequiredDocuments   pq.StringArray `gorm:"type:text[]" json:"required_documents,omitempty"`

	MaxDeposit                 *float64 `json:"max_deposit,omitempty"`
	CompoundingFrequency       string   `json:"compounding_frequency,omitempty"` // Monthly, Quarterly, Yearly
	PrematureWithdrawalPenalty string   `json:"premature_withdrawal_penalty,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Bank Bank `gorm:"foreignKey:BankID" json:"bank,omitempty"`
}

func (Product) TableName() string {
	return "catalog.products"
}
