package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/DepositEase/DE-Backend/internal/db"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// parsePagination reads skip/limit query params with the public-catalog
// defaults (skip 0, limit 100).
func parsePagination(r *http.Request) (skip int, limit int, err error) {
	skip, limit = 0, 100
	if s := r.URL.Query().Get("skip"); s != "" {
		skip, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, err
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil {
			return 0, 0, err
		}
	}
	return skip, limit, nil
}

// ListBanks returns all banks with their products, oldest first
func ListBanks(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		http.Error(w, "Invalid pagination format", http.StatusBadRequest)
		return
	}

	var banks []Bank
	if err := db.DB.Preload("Products").
		Order("created_at ASC").
		Offset(skip).Limit(limit).
		Find(&banks).Error; err != nil {
		http.Error(w, "Failed to fetch banks: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(banks)
}

// GetBank returns a single bank with its products
func GetBank(w http.ResponseWriter, r *http.Request) {
	bankID := chi.URLParam(r, "bank_id")

	var bank Bank
	if err := db.DB.Preload("Products").First(&bank, "id = ?", bankID).Error; err != nil {
		http.Error(w, "Bank not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bank)
}

// ListBankProducts returns all products offered by one bank
func ListBankProducts(w http.ResponseWriter, r *http.Request) {
	bankID := chi.URLParam(r, "bank_id")

	var bank Bank
	if err := db.DB.First(&bank, "id = ?", bankID).Error; err != nil {
		http.Error(w, "Bank not found", http.StatusNotFound)
		return
	}

	var products []Product
	if err := db.DB.Where("bank_id = ?", bank.ID).
		Order("created_at ASC").
		Find(&products).Error; err != nil {
		http.Error(w, "Failed to fetch products: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

// CreateBank creates a new bank (admin only)
func CreateBank(w http.ResponseWriter, r *http.Request) {
	var bank Bank
	if err := json.NewDecoder(r.Body).Decode(&bank); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if bank.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	var existing Bank
	if err := db.DB.First(&existing, "name = ?", bank.Name).Error; err == nil {
		http.Error(w, "Bank name already exists", http.StatusConflict)
		return
	}

	if err := db.DB.Create(&bank).Error; err != nil {
		http.Error(w, "Failed to create bank: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(bank)
}

// UpdateBank applies a partial update to a bank (admin only). Only fields
// present in the body overwrite stored values.
func UpdateBank(w http.ResponseWriter, r *http.Request) {
	bankID := chi.URLParam(r, "bank_id")

	var bank Bank
	if err := db.DB.First(&bank, "id = ?", bankID).Error; err != nil {
		http.Error(w, "Bank not found", http.StatusNotFound)
		return
	}

	var updates struct {
		Name          *string `json:"name,omitempty"`
		Description   *string `json:"description,omitempty"`
		LogoURL       *string `json:"logo_url,omitempty"`
		Website       *string `json:"website,omitempty"`
		ContactNumber *string `json:"contact_number,omitempty"`
		Email         *string `json:"email,omitempty"`
		IsActive      *bool   `json:"is_active,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updateMap := make(map[string]interface{})
	if updates.Name != nil {
		updateMap["name"] = *updates.Name
	}
	if updates.Description != nil {
		updateMap["description"] = *updates.Description
	}
	if updates.LogoURL != nil {
		updateMap["logo_url"] = *updates.LogoURL
	}
	if updates.Website != nil {
		updateMap["website"] = *updates.Website
	}
	if updates.ContactNumber != nil {
		updateMap["contact_number"] = *updates.ContactNumber
	}
	if updates.Email != nil {
		updateMap["email"] = *updates.Email
	}
	if updates.IsActive != nil {
		updateMap["is_active"] = *updates.IsActive
	}

	if err := db.DB.Model(&bank).Updates(updateMap).Error; err != nil {
		http.Error(w, "Failed to update bank: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := db.DB.First(&bank, "id = ?", bankID).Error; err != nil {
		http.Error(w, "Failed to fetch updated bank: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bank)
}

// DeleteBank deletes a bank together with its products and their applications
// in one transaction (admin only). Nothing is visible half-deleted.
func DeleteBank(w http.ResponseWriter, r *http.Request) {
	bankID := chi.URLParam(r, "bank_id")

	tx := db.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
		return
	}

	var bank Bank
	if err := tx.First(&bank, "id = ?", bankID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Bank not found", http.StatusNotFound)
		return
	}

	// Delete applications of this bank's products first
	if err := tx.Exec(`
		DELETE FROM catalog.applications
		WHERE product_id IN (SELECT id FROM catalog.products WHERE bank_id = ?)
	`, bank.ID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to delete applications: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := tx.Delete(&Product{}, "bank_id = ?", bank.ID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to delete products: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := tx.Delete(&Bank{}, "id = ?", bank.ID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to delete bank: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Failed to commit: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateProduct creates a new product under an existing bank (admin only).
// The required numeric fields are pointers in the input struct so an absent
// interest_rate or min_deposit is told apart from a literal 0.
func CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input struct {
		BankID                     uuid.UUID      `json:"bank_id"`
		Name                       string         `json:"name"`
		Type                       string         `json:"type"`
		InterestRate               *float64       `json:"interest_rate"`
		MinDeposit                 *float64       `json:"min_deposit"`
		Tenure                     string         `json:"tenure"`
		ProductOverview            string         `json:"product_overview"`
		KeyFeatures                pq.StringArray `json:"key_features"`
		WithdrawalRules            string         `json:"withdrawal_rules"`
		EligibilityCriteria        string         `json:"eligibility_criteria"`
		RequiredDocuments          pq.StringArray `json:"required_documents"`
		MaxDeposit                 *float64       `json:"max_deposit"`
		CompoundingFrequency       string         `json:"compounding_frequency"`
		PrematureWithdrawalPenalty string         `json:"premature_withdrawal_penalty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if input.BankID == uuid.Nil || input.Name == "" || input.Type == "" ||
		input.InterestRate == nil || input.MinDeposit == nil || input.Tenure == "" {
		http.Error(w, "bank_id, name, type, interest_rate, min_deposit and tenure are required", http.StatusBadRequest)
		return
	}

	var bank Bank
	if err := db.DB.First(&bank, "id = ?", input.BankID).Error; err != nil {
		http.Error(w, "Bank not found", http.StatusNotFound)
		return
	}

	product := Product{
		BankID:                     input.BankID,
		Name:                       input.Name,
		Type:                       input.Type,
		InterestRate:               *input.InterestRate,
		MinDeposit:                 *input.MinDeposit,
		Tenure:                     input.Tenure,
		ProductOverview:            input.ProductOverview,
		KeyFeatures:                input.KeyFeatures,
		WithdrawalRules:            input.WithdrawalRules,
		EligibilityCriteria:        input.EligibilityCriteria,
		RequiredDocuments:          input.RequiredDocuments,
		MaxDeposit:                 input.MaxDeposit,
		CompoundingFrequency:       input.CompoundingFrequency,
		PrematureWithdrawalPenalty: input.PrematureWithdrawalPenalty,
	}

	if err := db.DB.Create(&product).Error; err != nil {
		http.Error(w, "Failed to create product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
}

// ListProducts returns products with optional type and bank_id filters
func ListProducts(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		http.Error(w, "Invalid pagination format", http.StatusBadRequest)
		return
	}

	query := db.DB.Model(&Product{}).Preload("Bank")

	if productType := r.URL.Query().Get("type"); productType != "" {
		query = query.Where("type = ?", productType)
	}
	if bankID := r.URL.Query().Get("bank_id"); bankID != "" {
		query = query.Where("bank_id = ?", bankID)
	}

	var products []Product
	if err := query.Order("created_at ASC").
		Offset(skip).Limit(limit).
		Find(&products).Error; err != nil {
		http.Error(w, "Failed to fetch products: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

// GetProduct returns a single product with its bank
func GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var product Product
	if err := db.DB.Preload("Bank").First(&product, "id = ?", productID).Error; err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// UpdateProduct applies a partial update to a product (admin only)
func UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var product Product
	if err := db.DB.First(&product, "id = ?", productID).Error; err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	var updates struct {
		Name                       *string         `json:"name,omitempty"`
		Type                       *string         `json:"type,omitempty"`
		InterestRate               *float64        `json:"interest_rate,omitempty"`
		MinDeposit                 *float64        `json:"min_deposit,omitempty"`
		Tenure                     *string         `json:"tenure,omitempty"`
		ProductOverview            *string         `json:"product_overview,omitempty"`
		KeyFeatures                *pq.StringArray `json:"key_features,omitempty"`
		WithdrawalRules            *string         `json:"withdrawal_rules,omitempty"`
		EligibilityCriteria        *string         `json:"eligibility_criteria,omitempty"`
		RequiredDocuments          *pq.StringArray `json:"required_documents,omitempty"`
		MaxDeposit                 *float64        `json:"max_deposit,omitempty"`
		CompoundingFrequency       *string         `json:"compounding_frequency,omitempty"`
		PrematureWithdrawalPenalty *string         `json:"premature_withdrawal_penalty,omitempty"`
		IsActive                   *bool           `json:"is_active,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updateMap := make(map[string]interface{})
	if updates.Name != nil {
		updateMap["name"] = *updates.Name
	}
	if updates.Type != nil {
		updateMap["type"] = *updates.Type
	}
	if updates.InterestRate != nil {
		updateMap["interest_rate"] = *updates.InterestRate
	}
	if updates.MinDeposit != nil {
		updateMap["min_deposit"] = *updates.MinDeposit
	}
	if updates.Tenure != nil {
		updateMap["tenure"] = *updates.Tenure
	}
	if updates.ProductOverview != nil {
		updateMap["product_overview"] = *updates.ProductOverview
	}
	if updates.KeyFeatures != nil {
		updateMap["key_features"] = *updates.KeyFeatures
	}
	if updates.WithdrawalRules != nil {
		updateMap["withdrawal_rules"] = *updates.WithdrawalRules
	}
	if updates.EligibilityCriteria != nil {
		updateMap["eligibility_criteria"] = *updates.EligibilityCriteria
	}
	if updates.RequiredDocuments != nil {
		updateMap["required_documents"] = *updates.RequiredDocuments
	}
	if updates.MaxDeposit != nil {
		updateMap["max_deposit"] = *updates.MaxDeposit
	}
	if updates.CompoundingFrequency != nil {
		updateMap["compounding_frequency"] = *updates.CompoundingFrequency
	}
	if updates.PrematureWithdrawalPenalty != nil {
		updateMap["premature_withdrawal_penalty"] = *updates.PrematureWithdrawalPenalty
	}
	if updates.IsActive != nil {
		updateMap["is_active"] = *updates.IsActive
	}

	if err := db.DB.Model(&product).Updates(updateMap).Error; err != nil {
		http.Error(w, "Failed to update product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := db.DB.First(&product, "id = ?", productID).Error; err != nil {
		http.Error(w, "Failed to fetch updated product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// DeleteProduct deletes a product and its applications in one transaction
// (admin only)
func DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	tx := db.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
		return
	}

	var product Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	if err := tx.Exec(`DELETE FROM catalog.applications WHERE product_id = ?`, product.ID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to delete applications: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := tx.Delete(&Product{}, "id = ?", product.ID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to delete product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Failed to commit: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
