package routes

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/evn/shiftpass_backend/config"
	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/evn/shiftpass_backend/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

const testSecret = "test-secret"

type apiEnv struct {
	t      *testing.T
	db     *sql.DB
	router *chi.Mux
	auth   *jwtauth.JWTAuth
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	database := testutil.NewDB(t)
	cfg := &config.Config{JwtSecret: testSecret, TxTimeout: 5 * time.Second, WorkerCacheTTL: time.Minute}
	return &apiEnv{
		t:      t,
		db:     database,
		router: Setup(cfg, database, nil),
		auth:   jwtauth.New("HS256", []byte(testSecret), nil),
	}
}

func (a *apiEnv) do(method, path, email string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		_, token, err := a.auth.Encode(map[string]interface{}{
			"email": email,
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		if err != nil {
			a.t.Fatalf("failed to encode token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	api := newAPI(t)
	rec := api.do(http.MethodGet, "/health", "", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestRequiresToken(t *testing.T) {
	api := newAPI(t)
	for _, path := range []string{"/api/shifts/pass/offered", "/api/shifts", "/api/locations"} {
		if rec := api.do(http.MethodGet, path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestShiftPassFlow(t *testing.T) {
	api := newAPI(t)
	owner := testutil.SeedUser(t, api.db, "Owner", "owner@example.com")
	u1 := testutil.SeedUser(t, api.db, "U1", "u1@example.com")
	u2 := testutil.SeedUser(t, api.db, "U2", "u2@example.com")
	clinicA := testutil.SeedLocation(t, api.db, "Clinic A", owner.ID)
	clinicB := testutil.SeedLocation(t, api.db, "Clinic B", u2.ID)
	s := testutil.SeedShift(t, api.db, owner.ID, clinicA.ID, testutil.Day(9, 0), testutil.Day(17, 0), 100)

	rec := api.do(http.MethodPost, "/api/shifts/pass", owner.Email, models.ShiftPassRequest{
		ShiftID:      s.ID,
		OfferedUsers: []string{u1.ID, u2.ID},
	})
	expectStatus(t, rec, http.StatusOK)
	pass := decode[models.ShiftPass](t, rec)
	if !pass.Active || len(pass.OfferedUsers) != 2 || pass.LocationName != "Clinic A" {
		t.Fatalf("unexpected pass %+v", pass)
	}

	rec = api.do(http.MethodPost, "/api/shifts/pass", owner.Email, models.ShiftPassRequest{
		ShiftID:      s.ID,
		OfferedUsers: []string{u1.ID},
	})
	expectStatus(t, rec, http.StatusConflict)

	// Заблокированную смену нельзя менять обычным путём.
	rec = api.do(http.MethodPut, fmt.Sprintf("/api/shifts/%d", s.ID), owner.Email, models.ShiftRequest{
		StartTime: testutil.Day(10, 0), EndTime: testutil.Day(18, 0), Value: 1, LocationID: clinicA.ID,
	})
	expectStatus(t, rec, http.StatusConflict)

	rec = api.do(http.MethodGet, "/api/shifts/pass/offered", u1.Email, nil)
	expectStatus(t, rec, http.StatusOK)
	if offered := decode[[]models.ShiftPass](t, rec); len(offered) != 1 || offered[0].ID != pass.ID {
		t.Errorf("expected U1 to see the offer, got %+v", offered)
	}

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/shifts/pass/%d", pass.ID), u1.Email, nil)
	expectStatus(t, rec, http.StatusOK)

	rec = api.do(http.MethodPost, fmt.Sprintf("/api/shifts/pass/%d/accept?location_id=%d", pass.ID, clinicB.ID), owner.Email, nil)
	expectStatus(t, rec, http.StatusForbidden)

	rec = api.do(http.MethodPost, fmt.Sprintf("/api/shifts/pass/%d/accept?location_id=%d", pass.ID, clinicB.ID), u2.Email, nil)
	expectStatus(t, rec, http.StatusOK)
	accepted := decode[models.ShiftPass](t, rec)
	if accepted.Active || accepted.FinalUser == nil || accepted.FinalUser.Email != u2.Email {
		t.Fatalf("unexpected accepted pass %+v", accepted)
	}

	rec = api.do(http.MethodPost, fmt.Sprintf("/api/shifts/pass/%d/accept?location_id=%d", pass.ID, clinicA.ID), u1.Email, nil)
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	rec = api.do(http.MethodGet, "/api/shifts", u2.Email, nil)
	expectStatus(t, rec, http.StatusOK)
	shifts := decode[[]models.Shift](t, rec)
	if len(shifts) != 1 || shifts[0].LocationName != "Clinic B" || shifts[0].Value != 100 {
		t.Errorf("unexpected shifts for U2 %+v", shifts)
	}

	rec = api.do(http.MethodGet, "/api/shifts/pass/created", owner.Email, nil)
	expectStatus(t, rec, http.StatusOK)
	if created := decode[[]models.ShiftPass](t, rec); len(created) != 1 {
		t.Errorf("expected one created pass, got %d", len(created))
	}

	rec = api.do(http.MethodDelete, fmt.Sprintf("/api/shifts/pass/%d", pass.ID), owner.Email, nil)
	expectStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestCancelShiftPass(t *testing.T) {
	api := newAPI(t)
	owner := testutil.SeedUser(t, api.db, "Owner", "owner@example.com")
	u1 := testutil.SeedUser(t, api.db, "U1", "u1@example.com")
	loc := testutil.SeedLocation(t, api.db, "Clinic A", owner.ID)
	s := testutil.SeedShift(t, api.db, owner.ID, loc.ID, testutil.Day(9, 0), testutil.Day(17, 0), 100)

	rec := api.do(http.MethodPost, "/api/shifts/pass", owner.Email, models.ShiftPassRequest{
		ShiftID: s.ID, OfferedUsers: []string{u1.ID},
	})
	expectStatus(t, rec, http.StatusOK)
	pass := decode[models.ShiftPass](t, rec)

	rec = api.do(http.MethodDelete, fmt.Sprintf("/api/shifts/pass/%d", pass.ID), u1.Email, nil)
	expectStatus(t, rec, http.StatusForbidden)

	rec = api.do(http.MethodDelete, fmt.Sprintf("/api/shifts/pass/%d", pass.ID), owner.Email, nil)
	expectStatus(t, rec, http.StatusOK)
	res := decode[models.ShiftPassActionResponse](t, rec)
	if res.ShiftPassID != pass.ID || res.OriginalShiftID != s.ID || res.UserEmail != owner.Email ||
		res.Message != "Shift Pass deleted successfully" {
		t.Errorf("unexpected action response %+v", res)
	}

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/shifts/pass/%d", pass.ID), owner.Email, nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = api.do(http.MethodDelete, fmt.Sprintf("/api/shifts/%d", s.ID), owner.Email, nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestBadInput(t *testing.T) {
	api := newAPI(t)
	owner := testutil.SeedUser(t, api.db, "Owner", "owner@example.com")
	loc := testutil.SeedLocation(t, api.db, "Clinic A", owner.ID)
	s := testutil.SeedShift(t, api.db, owner.ID, loc.ID, testutil.Day(9, 0), testutil.Day(17, 0), 100)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"missing shift id", http.MethodPost, "/api/shifts/pass", map[string]any{"offered_users": []string{}}, http.StatusBadRequest},
		{"empty candidate set", http.MethodPost, "/api/shifts/pass", models.ShiftPassRequest{ShiftID: s.ID}, http.StatusBadRequest},
		{"unknown shift", http.MethodPost, "/api/shifts/pass", models.ShiftPassRequest{ShiftID: 9999}, http.StatusNotFound},
		{"bad pass id", http.MethodGet, "/api/shifts/pass/abc", nil, http.StatusBadRequest},
		{"missing location id", http.MethodPost, "/api/shifts/pass/1/accept", nil, http.StatusBadRequest},
		{"unknown pass", http.MethodPost, "/api/shifts/pass/9999/accept?location_id=1", nil, http.StatusNotFound},
		{"end before start", http.MethodPost, "/api/shifts", models.ShiftRequest{
			StartTime: testutil.Day(17, 0), EndTime: testutil.Day(9, 0), LocationID: loc.ID,
		}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, owner.Email, tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/shifts/pass", strings.NewReader("{"))
	_, token, _ := api.auth.Encode(map[string]interface{}{"email": owner.Email})
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestExportAndLocations(t *testing.T) {
	api := newAPI(t)
	owner := testutil.SeedUser(t, api.db, "Owner", "owner@example.com")
	testutil.SeedLocation(t, api.db, "Clinic A", owner.ID)

	rec := api.do(http.MethodGet, "/api/shifts/pass/export", owner.Email, nil)
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentTypeForTest {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Error("expected a zip-based XLSX body")
	}

	rec = api.do(http.MethodGet, "/api/locations", owner.Email, nil)
	expectStatus(t, rec, http.StatusOK)
	if locs := decode[[]models.Location](t, rec); len(locs) != 1 || locs[0].Name != "Clinic A" {
		t.Errorf("unexpected locations %+v", locs)
	}
}

const xlsxContentTypeForTest = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func TestProfileAndUsers(t *testing.T) {
	api := newAPI(t)
	owner := testutil.SeedUser(t, api.db, "Owner", "owner@example.com")
	testutil.SeedUser(t, api.db, "U1", "u1@example.com")

	rec := api.do(http.MethodGet, "/api/profile", "OWNER@example.com", nil)
	expectStatus(t, rec, http.StatusOK)
	if me := decode[models.User](t, rec); me.ID != owner.ID {
		t.Errorf("expected profile of %s, got %+v", owner.ID, me)
	}

	rec = api.do(http.MethodGet, "/api/profile", "ghost@example.com", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = api.do(http.MethodGet, "/api/users", owner.Email, nil)
	expectStatus(t, rec, http.StatusOK)
	if users := decode[[]models.UserSummary](t, rec); len(users) != 2 || users[0].Email != "owner@example.com" {
		t.Errorf("unexpected users %+v", users)
	}
}
