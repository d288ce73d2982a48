package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/DepositEase/DE-Backend/internal/db"
	"github.com/DepositEase/DE-Backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username does not exist, so an
// unknown-user login burns the same bcrypt work as a wrong-password login.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("depositease-timing-pad"), bcrypt.DefaultCost)

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	// Dedicated input struct so the body can't set model fields like
	// created_at or last_login
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	// Check if request has username & password
	if input.Username == "" || input.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	// Check if username is taken
	var existing Admin
	err = db.DB.First(&existing, "username = ?", input.Username).Error
	if err == nil {
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	}

	hashed, err := HashPassword(input.Password, hashCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	admin := Admin{
		ID:           uuid.NewString(),
		Username:     input.Username,
		PasswordHash: hashed,
	}

	if err := db.DB.Create(&admin).Error; err != nil {
		http.Error(w, "Failed to register admin", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"id":       admin.ID,
		"username": admin.Username,
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		http.Error(w, "Invalid Data", http.StatusBadRequest)
		return
	}

	var admin Admin
	err = db.DB.First(&admin, "username = ?", input.Username).Error
	if err != nil {
		// Same cost and same response as a wrong password
		_ = CheckPassword(string(dummyHash), input.Password)
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	if err := CheckPassword(admin.PasswordHash, input.Password); err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	// Best effort; a failed stamp must not block an otherwise valid login
	now := time.Now()
	db.DB.Model(&admin).Update("last_login", now)

	token, err := tokens.Issue(admin.Username)
	if err != nil {
		http.Error(w, "Server error issuing session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	})

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Login successful")
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless, so there is nothing to delete server-side. An old
	// cookie value replayed after logout stays valid until its exp passes.
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

type MeResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsernameFromContext(r.Context())
	if !ok {
		http.Error(w, "Failed reading session from context", http.StatusInternalServerError)
		return
	}

	var admin Admin
	if err := db.DB.First(&admin, "username = ?", username).Error; err != nil {
		http.Error(w, "Couldn't find admin", http.StatusNotFound)
		return
	}

	response := MeResponse{
		ID:        admin.ID,
		Username:  admin.Username,
		CreatedAt: admin.CreatedAt,
		LastLogin: admin.LastLogin,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
