package applications

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/DepositEase/DE-Backend/internal/catalog"
	"github.com/DepositEase/DE-Backend/internal/db"
	"github.com/DepositEase/DE-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

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

// CreateApplication records a public submission against a product. The input
// struct admits only applicant-supplied fields, so status and review stamps
// can't be set from the body; every application starts out pending.
func CreateApplication(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ProductID      uuid.UUID `json:"product_id"`
		ApplicantName  string    `json:"applicant_name"`
		Phone          string    `json:"phone"`
		Email          string    `json:"email"`
		NIDNumber      string    `json:"nid_number"`
		Address        string    `json:"address"`
		DepositAmount  *float64  `json:"deposit_amount"`
		TenureSelected string    `json:"tenure_selected"`
		Notes          string    `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Pointer field distinguishes an absent deposit_amount from a literal 0
	if input.ProductID == uuid.Nil || input.ApplicantName == "" ||
		input.Phone == "" || input.DepositAmount == nil || input.TenureSelected == "" {
		http.Error(w, "product_id, applicant_name, phone, deposit_amount and tenure_selected are required", http.StatusBadRequest)
		return
	}

	var product catalog.Product
	if err := db.DB.First(&product, "id = ?", input.ProductID).Error; err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	application := Application{
		ProductID:      input.ProductID,
		ApplicantName:  input.ApplicantName,
		Phone:          input.Phone,
		Email:          input.Email,
		NIDNumber:      input.NIDNumber,
		Address:        input.Address,
		DepositAmount:  *input.DepositAmount,
		TenureSelected: input.TenureSelected,
		Notes:          input.Notes,
		Status:         StatusPending,
	}

	if err := db.DB.Create(&application).Error; err != nil {
		http.Error(w, "Failed to create application: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(application)
}

// ListApplications returns applications newest first, optionally filtered by
// status
func ListApplications(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		http.Error(w, "Invalid pagination format", http.StatusBadRequest)
		return
	}

	query := db.DB.Model(&Application{})

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var apps []Application
	if err := query.Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&apps).Error; err != nil {
		http.Error(w, "Failed to fetch applications: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apps)
}

// GetApplication returns a single application
func GetApplication(w http.ResponseWriter, r *http.Request) {
	applicationID := chi.URLParam(r, "application_id")

	var application Application
	if err := db.DB.First(&application, "id = ?", applicationID).Error; err != nil {
		http.Error(w, "Application not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(application)
}

// UpdateApplication applies a partial update (admin only). A status change is
// a review: it must move pending to approved or rejected, and it stamps
// reviewed_at and reviewed_by in the same write.
func UpdateApplication(w http.ResponseWriter, r *http.Request) {
	applicationID := chi.URLParam(r, "application_id")

	var application Application
	if err := db.DB.First(&application, "id = ?", applicationID).Error; err != nil {
		http.Error(w, "Application not found", http.StatusNotFound)
		return
	}

	var updates struct {
		Status     *string `json:"status,omitempty"`
		Notes      *string `json:"notes,omitempty"`
		ReviewedBy *string `json:"reviewed_by,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updateMap := make(map[string]interface{})
	if updates.Notes != nil {
		updateMap["notes"] = *updates.Notes
	}

	if updates.Status != nil {
		if !IsTerminalStatus(*updates.Status) {
			http.Error(w, "Status must be approved or rejected", http.StatusBadRequest)
			return
		}
		if !CanTransition(application.Status, *updates.Status) {
			http.Error(w, "Application already reviewed", http.StatusConflict)
			return
		}

		reviewer := ""
		if updates.ReviewedBy != nil {
			reviewer = *updates.ReviewedBy
		}
		if reviewer == "" {
			// Fall back to the admin who holds the session
			if username, ok := utils.GetUsernameFromContext(r.Context()); ok {
				reviewer = username
			}
		}

		updateMap["status"] = *updates.Status
		updateMap["reviewed_by"] = reviewer
		updateMap["reviewed_at"] = time.Now()
	}

	if err := db.DB.Model(&application).Updates(updateMap).Error; err != nil {
		http.Error(w, "Failed to update application: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := db.DB.First(&application, "id = ?", applicationID).Error; err != nil {
		http.Error(w, "Failed to fetch updated application: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(application)
}

// DeleteApplication removes an application (admin only)
func DeleteApplication(w http.ResponseWriter, r *http.Request) {
	applicationID := chi.URLParam(r, "application_id")

	var application Application
	if err := db.DB.First(&application, "id = ?", applicationID).Error; err != nil {
		http.Error(w, "Application not found", http.StatusNotFound)
		return
	}

	if err := db.DB.Delete(&application).Error; err != nil {
		http.Error(w, "Failed to delete application: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DashboardHandler computes the admin dashboard counts fresh on every call
// (admin only)
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	var totalBanks, totalProducts, pendingApplications, approvedToday int64

	if err := db.DB.Model(&catalog.Bank{}).Count(&totalBanks).Error; err != nil {
		http.Error(w, "Failed to count banks: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := db.DB.Model(&catalog.Product{}).Count(&totalProducts).Error; err != nil {
		http.Error(w, "Failed to count products: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := db.DB.Model(&Application{}).
		Where("status = ?", StatusPending).
		Count(&pendingApplications).Error; err != nil {
		http.Error(w, "Failed to count pending applications: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Approvals since local midnight
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.DB.Model(&Application{}).
		Where("status = ? AND reviewed_at >= ?", StatusApproved, startOfDay).
		Count(&approvedToday).Error; err != nil {
		http.Error(w, "Failed to count approvals: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{
		"total_banks":          totalBanks,
		"total_products":       totalProducts,
		"pending_applications": pendingApplications,
		"approved_today":       approvedToday,
	})
}
