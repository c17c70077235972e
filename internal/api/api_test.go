package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/marlowe/cadastr/internal/auth"
	"github.com/marlowe/cadastr/internal/files"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/registry"
	"github.com/marlowe/cadastr/internal/store"
)

// testEnv sets up a temp SQLite DB, uploads store, services, and router.
func testEnv(t *testing.T) (http.Handler, *auth.Service) {
	t.Helper()

	dbFile, err := os.CreateTemp("", "cadastr-api-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	uploads, err := files.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	authSvc := auth.NewService(db, "test-secret-for-api-tests", 15*time.Minute, 24*time.Hour)
	reg := registry.NewService(db, nil)
	return NewRouter(authSvc, reg, uploads, nil), authSvc
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// signUpAndIn registers a user and returns its access token.
func signUpAndIn(t *testing.T, router http.Handler, email, role string) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/auth/signup", "", map[string]string{
		"email": email, "password": "password123", "full_name": "Test User", "role": role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s = %d, body = %s", email, w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodPost, "/auth/signin", "", map[string]string{
		"email": email, "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signin %s = %d, body = %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Tokens.AccessToken
}

// adminToken bootstraps an admin and signs it in.
func adminToken(t *testing.T, router http.Handler, svc *auth.Service) string {
	t.Helper()
	if _, err := svc.BootstrapAdmin(context.Background(), "admin@registry.example.com", "password123"); err != nil {
		t.Fatal(err)
	}
	w := do(t, router, http.MethodPost, "/auth/signin", "", map[string]string{
		"email": "admin@registry.example.com", "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin signin = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Tokens.AccessToken
}

func TestSignUpSignInMe(t *testing.T) {
	router, _ := testEnv(t)

	token := signUpAndIn(t, router, "jane@example.com", "landowner")

	w := do(t, router, http.MethodGet, "/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me = %d", w.Code)
	}
	var resp SessionResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Profile == nil || resp.Profile.Email != "jane@example.com" {
		t.Errorf("profile = %+v", resp.Profile)
	}
	if resp.Landing != auth.LandingLandowner {
		t.Errorf("landing = %q, want landowner", resp.Landing)
	}
}

func TestSignUpValidation(t *testing.T) {
	router, _ := testEnv(t)

	cases := []map[string]string{
		{"email": "not-an-email", "password": "password123", "full_name": "A", "role": "public"},
		{"email": "a@example.com", "password": "short", "full_name": "A", "role": "public"},
		{"email": "a@example.com", "password": "password123", "full_name": "A", "role": "admin"},
		{"email": "a@example.com", "password": "password123", "full_name": "", "role": "public"},
	}
	for i, body := range cases {
		w := do(t, router, http.MethodPost, "/auth/signup", "", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400 (body %s)", i, w.Code, w.Body.String())
		}
	}
}

func TestAuthRequired(t *testing.T) {
	router, _ := testEnv(t)

	for _, path := range []string{"/me", "/lands", "/documents", "/transactions", "/notifications", "/dashboard"} {
		w := do(t, router, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, w.Code)
		}
	}

	w := do(t, router, http.MethodGet, "/me", "bogus-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bogus token = %d, want 401", w.Code)
	}
}

func TestRefreshAndSignOut(t *testing.T) {
	router, _ := testEnv(t)
	signUpAndIn(t, router, "r@example.com", "public")

	w := do(t, router, http.MethodPost, "/auth/signin", "", map[string]string{
		"email": "r@example.com", "password": "password123",
	})
	var signin struct {
		Tokens struct {
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &signin)

	w = do(t, router, http.MethodPost, "/auth/refresh", "", map[string]string{
		"refresh_token": signin.Tokens.RefreshToken,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh = %d, body = %s", w.Code, w.Body.String())
	}
	var refreshed struct {
		Tokens struct {
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &refreshed)

	// The rotated-out token is rejected.
	w = do(t, router, http.MethodPost, "/auth/refresh", "", map[string]string{
		"refresh_token": signin.Tokens.RefreshToken,
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("reused refresh = %d, want 401", w.Code)
	}

	w = do(t, router, http.MethodPost, "/auth/signout", "", map[string]string{
		"refresh_token": refreshed.Tokens.RefreshToken,
	})
	if w.Code != http.StatusNoContent {
		t.Errorf("signout = %d, want 204", w.Code)
	}
	w = do(t, router, http.MethodPost, "/auth/refresh", "", map[string]string{
		"refresh_token": refreshed.Tokens.RefreshToken,
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh after signout = %d, want 401", w.Code)
	}
}

func TestLandLifecycle(t *testing.T) {
	router, authSvc := testEnv(t)
	ownerTok := signUpAndIn(t, router, "owner@example.com", "landowner")
	adminTok := adminToken(t, router, authSvc)

	// Landowner registers a parcel; it starts pending.
	w := do(t, router, http.MethodPost, "/lands", ownerTok, map[string]any{
		"title": "Plot A", "location": "Main St", "size": 640.0, "zoning": "residential",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create land = %d, body = %s", w.Code, w.Body.String())
	}
	var land models.LandRecord
	_ = json.Unmarshal(w.Body.Bytes(), &land)
	if land.OwnershipStatus != models.OwnershipPending {
		t.Errorf("status = %q, want pending", land.OwnershipStatus)
	}

	// Owner requests verification.
	w = do(t, router, http.MethodPost, fmt.Sprintf("/lands/%s/verification-request", land.ID), ownerTok, nil)
	if w.Code != http.StatusAccepted {
		t.Errorf("verification request = %d, want 202", w.Code)
	}

	// Owner cannot verify their own record.
	w = do(t, router, http.MethodPut, fmt.Sprintf("/lands/%s/status", land.ID), ownerTok, map[string]string{
		"status": "verified",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("owner transition = %d, want 403", w.Code)
	}

	// Admin verifies it.
	w = do(t, router, http.MethodPut, fmt.Sprintf("/lands/%s/status", land.ID), adminTok, map[string]string{
		"status": "verified",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin transition = %d, body = %s", w.Code, w.Body.String())
	}
	var verified models.LandRecord
	_ = json.Unmarshal(w.Body.Bytes(), &verified)
	if verified.OwnershipStatus != models.OwnershipVerified {
		t.Errorf("status = %q, want verified", verified.OwnershipStatus)
	}

	// The owner now has notifications (status change).
	w = do(t, router, http.MethodGet, "/notifications?unread=true", ownerTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("notifications = %d", w.Code)
	}
	var ns struct {
		Notifications []models.Notification `json:"notifications"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &ns)
	if len(ns.Notifications) == 0 {
		t.Error("owner has no notifications after verification")
	}

	// Verified records appear in anonymous search.
	w = do(t, router, http.MethodGet, "/search?q=Plot", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d", w.Code)
	}
	var hits struct {
		Results []store.LandSearchResult `json:"results"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &hits)
	if len(hits.Results) != 1 {
		t.Errorf("search hits = %d, want 1", len(hits.Results))
	}

	// Listing with mine=true returns only the caller's records.
	w = do(t, router, http.MethodGet, "/lands?mine=true", ownerTok, nil)
	var list struct {
		Lands []models.LandRecord `json:"lands"`
		Total int                 `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 {
		t.Errorf("mine total = %d, want 1", list.Total)
	}
}

func TestDocumentFlow(t *testing.T) {
	router, authSvc := testEnv(t)
	ownerTok := signUpAndIn(t, router, "owner@example.com", "landowner")
	otherTok := signUpAndIn(t, router, "other@example.com", "landowner")
	adminTok := adminToken(t, router, authSvc)

	w := do(t, router, http.MethodPost, "/lands", ownerTok, map[string]any{
		"title": "Plot B", "location": "East Rd", "size": 200.0,
	})
	var land models.LandRecord
	_ = json.Unmarshal(w.Body.Bytes(), &land)

	// Owner submits a deed.
	w = do(t, router, http.MethodPost, "/documents", ownerTok, map[string]any{
		"land_record_id": land.ID, "document_type": "deed", "document_url": "/files/deed.pdf",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit = %d, body = %s", w.Code, w.Body.String())
	}
	var doc models.OwnershipDocument
	_ = json.Unmarshal(w.Body.Bytes(), &doc)
	if doc.Status != models.DocumentPending {
		t.Errorf("status = %q", doc.Status)
	}

	// A different landowner cannot submit against this land.
	w = do(t, router, http.MethodPost, "/documents", otherTok, map[string]any{
		"land_record_id": land.ID, "document_type": "deed", "document_url": "/files/x.pdf",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign submit = %d, want 403", w.Code)
	}

	// Nor read the submitted document; existence is masked as 404.
	w = do(t, router, http.MethodGet, "/documents/"+doc.ID.String(), otherTok, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign get = %d, want 404", w.Code)
	}

	// Document listing is visibility-filtered.
	w = do(t, router, http.MethodGet, "/documents", otherTok, nil)
	var docs struct {
		Documents []models.OwnershipDocument `json:"documents"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &docs)
	if len(docs.Documents) != 0 {
		t.Errorf("foreign list sees %d documents, want 0", len(docs.Documents))
	}

	// Only admins review.
	w = do(t, router, http.MethodPut, fmt.Sprintf("/documents/%s/review", doc.ID), ownerTok, map[string]string{
		"status": "approved",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("owner review = %d, want 403", w.Code)
	}
	w = do(t, router, http.MethodPut, fmt.Sprintf("/documents/%s/review", doc.ID), adminTok, map[string]string{
		"status": "approved", "notes": "checks out",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin review = %d, body = %s", w.Code, w.Body.String())
	}
	var reviewed models.OwnershipDocument
	_ = json.Unmarshal(w.Body.Bytes(), &reviewed)
	if reviewed.Status != models.DocumentApproved {
		t.Errorf("reviewed status = %q", reviewed.Status)
	}
}

func TestTransactionEndpoints(t *testing.T) {
	router, authSvc := testEnv(t)
	fromTok := signUpAndIn(t, router, "from@example.com", "landowner")
	strangerTok := signUpAndIn(t, router, "stranger@example.com", "landowner")
	adminTok := adminToken(t, router, authSvc)

	w := do(t, router, http.MethodPost, "/lands", fromTok, map[string]any{
		"title": "Plot C", "location": "West Ln", "size": 320.0,
	})
	var land models.LandRecord
	_ = json.Unmarshal(w.Body.Bytes(), &land)

	// Read back the owner id via /me.
	w = do(t, router, http.MethodGet, "/me", fromTok, nil)
	var me SessionResponse
	_ = json.Unmarshal(w.Body.Bytes(), &me)

	w = do(t, router, http.MethodPost, "/transactions", fromTok, map[string]any{
		"land_record_id": land.ID, "from_owner_id": me.Profile.ID, "transaction_type": "sale",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create transaction = %d, body = %s", w.Code, w.Body.String())
	}
	var tx models.Transaction
	_ = json.Unmarshal(w.Body.Bytes(), &tx)

	// Strangers see nothing.
	w = do(t, router, http.MethodGet, "/transactions", strangerTok, nil)
	var list struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Transactions) != 0 {
		t.Errorf("stranger sees %d transactions", len(list.Transactions))
	}

	// Admin moves the lifecycle.
	w = do(t, router, http.MethodPut, fmt.Sprintf("/transactions/%s/status", tx.ID), adminTok, map[string]string{
		"status": "completed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("set status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestZoningLawsAdminOnly(t *testing.T) {
	router, authSvc := testEnv(t)
	userTok := signUpAndIn(t, router, "u@example.com", "public")
	adminTok := adminToken(t, router, authSvc)

	body := map[string]string{"zone_type": "residential", "description": "Housing", "regulations": "Max 3 floors."}

	w := do(t, router, http.MethodPost, "/zoning-laws", userTok, body)
	if w.Code != http.StatusForbidden {
		t.Errorf("user create = %d, want 403", w.Code)
	}

	w = do(t, router, http.MethodPost, "/zoning-laws", adminTok, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("admin create = %d, body = %s", w.Code, w.Body.String())
	}
	var z models.ZoningLaw
	_ = json.Unmarshal(w.Body.Bytes(), &z)

	// Reads are open, no token needed.
	w = do(t, router, http.MethodGet, "/zoning-laws", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous list = %d", w.Code)
	}
	var laws struct {
		ZoningLaws []models.ZoningLaw `json:"zoning_laws"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &laws)
	if len(laws.ZoningLaws) != 1 {
		t.Errorf("laws = %d, want 1", len(laws.ZoningLaws))
	}

	w = do(t, router, http.MethodDelete, "/zoning-laws/"+z.ID.String(), adminTok, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	router, authSvc := testEnv(t)
	userTok := signUpAndIn(t, router, "n@example.com", "public")
	adminTok := adminToken(t, router, authSvc)

	w := do(t, router, http.MethodGet, "/me", userTok, nil)
	var me SessionResponse
	_ = json.Unmarshal(w.Body.Bytes(), &me)

	// Only admins post notifications.
	body := map[string]any{"user_id": me.Profile.ID, "title": "Hello", "message": "Welcome.", "type": "info"}
	w = do(t, router, http.MethodPost, "/notifications", userTok, body)
	if w.Code != http.StatusForbidden {
		t.Errorf("user send = %d, want 403", w.Code)
	}
	for i := 0; i < 2; i++ {
		w = do(t, router, http.MethodPost, "/notifications", adminTok, body)
		if w.Code != http.StatusCreated {
			t.Fatalf("admin send = %d, body = %s", w.Code, w.Body.String())
		}
	}

	w = do(t, router, http.MethodGet, "/notifications?unread=true", userTok, nil)
	var ns struct {
		Notifications []models.Notification `json:"notifications"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &ns)
	if len(ns.Notifications) != 2 {
		t.Fatalf("unread = %d, want 2", len(ns.Notifications))
	}

	w = do(t, router, http.MethodPut, fmt.Sprintf("/notifications/%s/read", ns.Notifications[0].ID), userTok, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("mark read = %d, want 204", w.Code)
	}

	w = do(t, router, http.MethodPut, "/notifications/read-all", userTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("read-all = %d", w.Code)
	}
	var updated struct {
		Updated int `json:"updated"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Updated != 1 {
		t.Errorf("updated = %d, want 1", updated.Updated)
	}
}

// upload posts one multipart file and returns the decoded response.
func upload(t *testing.T, router http.Handler, token, filename, content string) (stored, url string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload = %d, body = %s", w.Code, w.Body.String())
	}
	var up struct {
		Filename string `json:"filename"`
		URL      string `json:"url"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &up)
	return up.Filename, up.URL
}

func TestUploadAndServeFile(t *testing.T) {
	router, _ := testEnv(t)
	token := signUpAndIn(t, router, "up@example.com", "landowner")

	stored, url := upload(t, router, token, "deed.pdf", "%PDF-1.4 test")
	if !strings.HasPrefix(url, files.URLPrefix) || !strings.HasSuffix(url, "-deed.pdf") {
		t.Errorf("url = %q", url)
	}
	if url != files.URLPrefix+stored {
		t.Errorf("url %q does not match stored name %q", url, stored)
	}

	// Serve it back. The router under test is mounted at /api in entry,
	// so the serving path here is the URL minus that mount prefix.
	resp := do(t, router, http.MethodGet, strings.TrimPrefix(url, "/api"), token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("serve = %d", resp.Code)
	}
	if resp.Body.String() != "%PDF-1.4 test" {
		t.Errorf("served body = %q", resp.Body.String())
	}

	// Missing file is 404.
	resp = do(t, router, http.MethodGet, "/files/nothing.pdf", token, nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("missing file = %d, want 404", resp.Code)
	}
}

func TestUploadSameNameKeepsBothFiles(t *testing.T) {
	router, _ := testEnv(t)
	aliceTok := signUpAndIn(t, router, "alice@example.com", "landowner")
	malloryTok := signUpAndIn(t, router, "mallory@example.com", "public")

	_, aliceURL := upload(t, router, aliceTok, "deed.pdf", "alice original deed")
	_, malloryURL := upload(t, router, malloryTok, "deed.pdf", "mallory content")

	if aliceURL == malloryURL {
		t.Fatalf("second upload reused url %q", aliceURL)
	}

	// Alice's stored content is untouched by the second upload.
	resp := do(t, router, http.MethodGet, strings.TrimPrefix(aliceURL, "/api"), aliceTok, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("serve alice = %d", resp.Code)
	}
	if resp.Body.String() != "alice original deed" {
		t.Errorf("alice's file = %q, want original content", resp.Body.String())
	}

	resp = do(t, router, http.MethodGet, strings.TrimPrefix(malloryURL, "/api"), malloryTok, nil)
	if resp.Body.String() != "mallory content" {
		t.Errorf("second file = %q", resp.Body.String())
	}
}

func TestDashboardEndpoint(t *testing.T) {
	router, authSvc := testEnv(t)
	adminTok := adminToken(t, router, authSvc)
	userTok := signUpAndIn(t, router, "d@example.com", "public")

	w := do(t, router, http.MethodGet, "/dashboard", adminTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin dashboard = %d", w.Code)
	}
	var d registry.Dashboard
	_ = json.Unmarshal(w.Body.Bytes(), &d)
	if d.Role != "admin" {
		t.Errorf("role = %q", d.Role)
	}

	w = do(t, router, http.MethodGet, "/dashboard", userTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("public dashboard = %d", w.Code)
	}
}
