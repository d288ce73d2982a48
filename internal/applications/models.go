package applications

import (
	"time"

	"github.com/DepositEase/DE-Backend/internal/catalog"
	"github.com/google/uuid"
)

// Application is a customer submission against a deposit product. It starts
// out pending and is moved to approved or rejected exactly once by an admin
// review.
type Application struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`

	ApplicantName string `gorm:"not null" json:"applicant_name"`
	Phone         string `gorm:"not null" json:"phone"`
	Email         string `json:"email,omitempty"`
	NIDNumber     string `json:"nid_number,omitempty"`
	Address       string `json:"address,omitempty"`

	DepositAmount  float64 `gorm:"not null" json:"deposit_amount"`
	TenureSelected string  `gorm:"not null" json:"tenure_selected"`
	Status         string  `gorm:"not null;default:'pending'" json:"status"`
	Notes          string  `json:"notes,omitempty"`

	ReviewedBy string     `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product catalog.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (Application) TableName() string {
	return "catalog.applications"
}
