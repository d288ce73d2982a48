package applications_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/DepositEase/DE-Backend/internal/applications"
	"github.com/DepositEase/DE-Backend/internal/auth"
	"github.com/DepositEase/DE-Backend/internal/catalog"
	"github.com/DepositEase/DE-Backend/internal/config"
	"github.com/DepositEase/DE-Backend/internal/db"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var dbAvailable bool
var testServer *httptest.Server

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		os.Exit(m.Run())
	}

	if os.Getenv("SESSION_SECRET") == "" {
		os.Setenv("SESSION_SECRET", "integration-test-secret")
	}
	os.Setenv("BCRYPT_COST", fmt.Sprint(bcrypt.MinCost))

	db.Connect()
	dbAvailable = true

	cfg := config.Load()
	tokens := auth.Init(cfg)
	catalog.Init()
	applications.Init()

	r := chi.NewRouter()
	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/banks", catalog.BankRoutes(tokens))
	r.Mount("/products", catalog.ProductRoutes(tokens))
	r.Mount("/applications", applications.SetupRoutes(tokens))
	r.Mount("/stats", applications.StatsRoutes(tokens))

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

type dashboard struct {
	TotalBanks          int64 `json:"total_banks"`
	TotalProducts       int64 `json:"total_products"`
	PendingApplications int64 `json:"pending_applications"`
	ApprovedToday       int64 `json:"approved_today"`
}

type fixture struct {
	client   *http.Client
	username string
	bank     catalog.Bank
	product  catalog.Product
}

func drain(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func postJSON(t *testing.T, client *http.Client, path string, payload any, wantStatus int, out any) {
	t.Helper()
	body, _ := json.Marshal(payload)
	resp, err := client.Post(testServer.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	respBody := drain(t, resp)
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: expected %d, got %d; body: %s", path, wantStatus, resp.StatusCode, respBody)
	}
	if out != nil {
		if err := json.Unmarshal([]byte(respBody), out); err != nil {
			t.Fatalf("POST %s: invalid JSON response: %s", path, respBody)
		}
	}
}

func putJSON(t *testing.T, client *http.Client, path string, payload any) (*http.Response, string) {
	t.Helper()
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPut, testServer.URL+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT %s: %v", path, err)
	}
	return resp, drain(t, resp)
}

// newFixture registers an admin, logs in, and seeds one bank with one product
// for the test to apply against. Everything is cleaned up afterwards.
func newFixture(t *testing.T) fixture {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	client := &http.Client{Jar: jar}

	username := fmt.Sprintf("reviewer_%s", uuid.New().String()[:8])
	creds, _ := json.Marshal(map[string]string{"username": username, "password": "TestPass123!"})

	resp, err := client.Post(testServer.URL+"/auth/register", "application/json", bytes.NewReader(creds))
	if err != nil {
		t.Fatalf("POST /auth/register: %v", err)
	}
	drain(t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register failed: %d", resp.StatusCode)
	}
	t.Cleanup(func() {
		db.DB.Where("username = ?", username).Delete(&auth.Admin{})
	})

	resp, err = client.Post(testServer.URL+"/auth/login", "application/json", bytes.NewReader(creds))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	drain(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var bank catalog.Bank
	postJSON(t, client, "/banks", map[string]any{
		"name": fmt.Sprintf("Review Bank %s", uuid.New().String()[:8]),
	}, http.StatusCreated, &bank)
	t.Cleanup(func() {
		db.DB.Exec(`DELETE FROM catalog.applications WHERE product_id IN
			(SELECT id FROM catalog.products WHERE bank_id = ?)`, bank.ID)
		db.DB.Where("bank_id = ?", bank.ID).Delete(&catalog.Product{})
		db.DB.Where("id = ?", bank.ID).Delete(&catalog.Bank{})
	})

	var product catalog.Product
	postJSON(t, client, "/products", map[string]any{
		"bank_id":       bank.ID,
		"name":          "Premium FD",
		"type":          "Fixed Deposit",
		"interest_rate": 6.75,
		"min_deposit":   25000,
		"tenure":        "12 months",
	}, http.StatusCreated, &product)

	return fixture{client: client, username: username, bank: bank, product: product}
}

// submitApplication files an application through the public endpoint, without
// any session cookie.
func submitApplication(t *testing.T, productID uuid.UUID) applications.Application {
	t.Helper()
	var app applications.Application
	postJSON(t, http.DefaultClient, "/applications", map[string]any{
		"product_id":      productID,
		"applicant_name":  "Kamal Hassan",
		"phone":           "01712345678",
		"email":           "kamal@example.com",
		"deposit_amount":  50000,
		"tenure_selected": "12 months",
	}, http.StatusCreated, &app)
	return app
}

func fetchDashboard(t *testing.T, client *http.Client) dashboard {
	t.Helper()
	resp, err := client.Get(testServer.URL + "/stats/dashboard")
	if err != nil {
		t.Fatalf("GET /stats/dashboard: %v", err)
	}
	body := drain(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d; body: %s", resp.StatusCode, body)
	}
	var d dashboard
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		t.Fatalf("dashboard: invalid JSON: %s", body)
	}
	return d
}

// TestReviewLifecycle walks the full flow: a public applicant files against a
// seeded product, the dashboard picks it up as pending, an admin approves it,
// and the cascade delete of the bank removes the whole subtree.
func TestReviewLifecycle(t *testing.T) {
	fx := newFixture(t)

	before := fetchDashboard(t, fx.client)

	app := submitApplication(t, fx.product.ID)
	if app.Status != applications.StatusPending {
		t.Fatalf("expected new application pending, got %q", app.Status)
	}
	if app.ReviewedBy != "" || app.ReviewedAt != nil {
		t.Error("expected no review stamp on a fresh application")
	}

	mid := fetchDashboard(t, fx.client)
	if got := mid.PendingApplications - before.PendingApplications; got != 1 {
		t.Errorf("expected pending count to rise by 1, rose by %d", got)
	}

	resp, body := putJSON(t, fx.client, "/applications/"+app.ID.String(), map[string]any{
		"status": applications.StatusApproved,
		"notes":  "verified over phone",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d; body: %s", resp.StatusCode, body)
	}

	var approved applications.Application
	if err := json.Unmarshal([]byte(body), &approved); err != nil {
		t.Fatalf("approve: invalid JSON: %s", body)
	}
	if approved.Status != applications.StatusApproved {
		t.Errorf("expected status approved, got %q", approved.Status)
	}
	if approved.ReviewedBy != fx.username {
		t.Errorf("expected reviewed_by %q, got %q", fx.username, approved.ReviewedBy)
	}
	if approved.ReviewedAt == nil {
		t.Error("expected reviewed_at to be stamped")
	}
	if approved.Notes != "verified over phone" {
		t.Errorf("expected notes to persist, got %q", approved.Notes)
	}

	after := fetchDashboard(t, fx.client)
	if after.PendingApplications != before.PendingApplications {
		t.Errorf("expected pending count back to baseline %d, got %d",
			before.PendingApplications, after.PendingApplications)
	}
	if got := after.ApprovedToday - before.ApprovedToday; got != 1 {
		t.Errorf("expected approved_today to rise by 1, rose by %d", got)
	}

	req, _ := http.NewRequest(http.MethodDelete, testServer.URL+"/banks/"+fx.bank.ID.String(), nil)
	delResp, err := fx.client.Do(req)
	if err != nil {
		t.Fatalf("DELETE /banks: %v", err)
	}
	drain(t, delResp)
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 from bank delete, got %d", delResp.StatusCode)
	}

	appResp, err := http.Get(testServer.URL + "/applications/" + app.ID.String())
	if err != nil {
		t.Fatalf("GET /applications/{id}: %v", err)
	}
	drain(t, appResp)
	if appResp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for cascaded application, got %d", appResp.StatusCode)
	}
}

// TestReviewIsTerminal verifies the one-way state machine: once reviewed, an
// application rejects further status changes.
func TestReviewIsTerminal(t *testing.T) {
	fx := newFixture(t)
	app := submitApplication(t, fx.product.ID)

	resp, body := putJSON(t, fx.client, "/applications/"+app.ID.String(),
		map[string]any{"status": applications.StatusRejected})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reject: expected 200, got %d; body: %s", resp.StatusCode, body)
	}

	resp, _ = putJSON(t, fx.client, "/applications/"+app.ID.String(),
		map[string]any{"status": applications.StatusApproved})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 re-reviewing a rejected application, got %d", resp.StatusCode)
	}

	resp, _ = putJSON(t, fx.client, "/applications/"+app.ID.String(),
		map[string]any{"status": applications.StatusPending})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for non-terminal target status, got %d", resp.StatusCode)
	}
}

// TestSubmittedStatusIgnored verifies the public create cannot smuggle in a
// pre-approved status or review stamp.
func TestSubmittedStatusIgnored(t *testing.T) {
	fx := newFixture(t)

	var app applications.Application
	postJSON(t, http.DefaultClient, "/applications", map[string]any{
		"product_id":      fx.product.ID,
		"applicant_name":  "Eve Mallory",
		"phone":           "01800000000",
		"deposit_amount":  99999,
		"tenure_selected": "36 months",
		"status":          applications.StatusApproved,
		"reviewed_by":     "nobody",
	}, http.StatusCreated, &app)

	if app.Status != applications.StatusPending {
		t.Errorf("expected forced pending status, got %q", app.Status)
	}
	if app.ReviewedBy != "" || app.ReviewedAt != nil {
		t.Error("expected review fields cleared on create")
	}
}

// TestApplicationMissingDepositRejected verifies that an otherwise complete
// submission without a deposit_amount is rejected rather than stored as 0.
func TestApplicationMissingDepositRejected(t *testing.T) {
	fx := newFixture(t)

	name := fmt.Sprintf("No Deposit %s", uuid.New().String()[:8])
	body, _ := json.Marshal(map[string]any{
		"product_id":      fx.product.ID,
		"applicant_name":  name,
		"phone":           "01712345678",
		"tenure_selected": "12 months",
	})
	resp, err := http.Post(testServer.URL+"/applications", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /applications: %v", err)
	}
	respBody := drain(t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing deposit_amount, got %d; body: %s", resp.StatusCode, respBody)
	}

	var count int64
	if err := db.DB.Model(&applications.Application{}).
		Where("applicant_name = ?", name).Count(&count).Error; err != nil {
		t.Fatalf("count applications: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no row after rejected create, found %d", count)
	}
}

// TestApplicationUnknownProductRejected verifies the write-time foreign key
// check on the public submission endpoint.
func TestApplicationUnknownProductRejected(t *testing.T) {
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	body, _ := json.Marshal(map[string]any{
		"product_id":      uuid.New().String(),
		"applicant_name":  "Nobody",
		"phone":           "01900000000",
		"deposit_amount":  1000,
		"tenure_selected": "6 months",
	})
	resp, err := http.Post(testServer.URL+"/applications", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /applications: %v", err)
	}
	respBody := drain(t, resp)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product_id, got %d; body: %s", resp.StatusCode, respBody)
	}
}

// TestReviewRequiresSession verifies the review endpoint is gated.
func TestReviewRequiresSession(t *testing.T) {
	fx := newFixture(t)
	app := submitApplication(t, fx.product.ID)

	body, _ := json.Marshal(map[string]any{"status": applications.StatusApproved})
	req, _ := http.NewRequest(http.MethodPut, testServer.URL+"/applications/"+app.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /applications: %v", err)
	}
	drain(t, resp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", resp.StatusCode)
	}

	dashResp, err := http.Get(testServer.URL + "/stats/dashboard")
	if err != nil {
		t.Fatalf("GET /stats/dashboard: %v", err)
	}
	drain(t, dashResp)
	if dashResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 dashboard without session, got %d", dashResp.StatusCode)
	}
}

// TestApplicationsNewestFirst verifies listing order: most recent submissions
// come back first.
func TestApplicationsNewestFirst(t *testing.T) {
	fx := newFixture(t)

	first := submitApplication(t, fx.product.ID)
	second := submitApplication(t, fx.product.ID)
	third := submitApplication(t, fx.product.ID)

	resp, err := http.Get(testServer.URL + "/applications?limit=100")
	if err != nil {
		t.Fatalf("GET /applications: %v", err)
	}
	body := drain(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", resp.StatusCode, body)
	}

	var list []applications.Application
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatalf("invalid JSON: %s", body)
	}

	positions := map[uuid.UUID]int{}
	for i, a := range list {
		positions[a.ID] = i
	}
	p1, ok1 := positions[first.ID]
	p2, ok2 := positions[second.ID]
	p3, ok3 := positions[third.ID]
	if !ok1 || !ok2 || !ok3 {
		t.Fatalf("expected all three submissions in the listing")
	}
	if !(p3 < p2 && p2 < p1) {
		t.Errorf("expected newest-first order, got positions %d, %d, %d", p1, p2, p3)
	}
}
