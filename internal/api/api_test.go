// internal/api/api_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"listing-wizard/internal/common/auth"
	"listing-wizard/internal/common/database"
	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/models"
	"listing-wizard/internal/wizard"
	"listing-wizard/internal/wizard/listing"
	"listing-wizard/internal/wizard/verification"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockIdentityLookup struct {
	mock.Mock
}

func (m *MockIdentityLookup) LookupIdentity(ctx context.Context, userID string) (models.Identity, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Identity), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) UserInfo(ctx context.Context, bearer string) (models.Identity, error) {
	args := m.Called(ctx, bearer)
	return args.Get(0).(models.Identity), args.Error(1)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Recent(ctx context.Context, userID, flow string, limit int) ([]models.WizardEvent, error) {
	args := m.Called(ctx, userID, flow, limit)
	events, _ := args.Get(0).([]models.WizardEvent)
	return events, args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testAPI struct {
	srv *httptest.Server
	mr  *miniredis.Miniredis
}

func setupAPI(t *testing.T, identities IdentityLookup, verifier TokenVerifier, history EventHistory) *testAPI {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logger.NewTestLogger(t)
	submitNothing := wizard.SubmitterFunc[listing.State](func(context.Context, listing.State) error { return nil })
	verifyNothing := wizard.SubmitterFunc[verification.State](func(context.Context, verification.State) error { return nil })

	registry := NewRegistry(
		SessionEnv{KV: database.NewRedisFromClient(rdb), KeyPrefix: "wizard", Logger: log},
		identities,
		Bind(listing.NewFlow(), submitNothing, listing.DecodePatch),
		Bind(verification.NewFlow(), verifyNothing, verification.DecodePatch),
	)
	h := NewWizardHandler(registry, history, 1<<20, log)
	srv := httptest.NewServer(NewRouter(h, verifier, nil, log))
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, mr: mr}
}

func (a *testAPI) do(t *testing.T, method, path, user string, body []byte, contentType string) (int, map[string]interface{}) {
	req, err := http.NewRequest(method, a.srv.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (a *testAPI) json(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	return a.do(t, method, path, "user-1", []byte(body), "application/json")
}

func multipartFile(t *testing.T, name string, data []byte) ([]byte, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func view(t *testing.T, body map[string]interface{}) map[string]interface{} {
	v, ok := body["view"].(map[string]interface{})
	require.True(t, ok, "response has no view: %v", body)
	return v
}

// ==========================
// Session Lifecycle Tests
// ==========================

func TestOpen_ReturnsSameSession(t *testing.T) {
	lookup := &MockIdentityLookup{}
	lookup.On("LookupIdentity", mock.Anything, "user-1").
		Return(models.Identity{UserID: "user-1", Email: "jane@example.com", FirstName: "Jane"}, nil).Once()
	a := setupAPI(t, lookup, nil, nil)

	status, body := a.json(t, http.MethodPost, "/api/v1/wizards/verification", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["resumed"])
	first := view(t, body)
	sections := first["sections"].(map[string]interface{})
	personal := sections["personalInfo"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", personal["email"])

	status, body = a.json(t, http.MethodPost, "/api/v1/wizards/verification", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, first["sessionId"], view(t, body)["sessionId"])
	lookup.AssertExpectations(t)
}

func TestRequestErrors(t *testing.T) {
	a := setupAPI(t, nil, nil, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		user       string
		wantStatus int
		wantCode   string
	}{
		{name: "missing user", method: http.MethodPost, path: "/api/v1/wizards/listing", wantStatus: http.StatusUnauthorized},
		{name: "unknown flow", method: http.MethodPost, path: "/api/v1/wizards/payments", user: "user-1", wantStatus: http.StatusNotFound, wantCode: "UNKNOWN_FLOW"},
		{name: "not opened", method: http.MethodGet, path: "/api/v1/wizards/listing", user: "user-1", wantStatus: http.StatusNotFound, wantCode: "SESSION_NOT_FOUND"},
		{name: "cancel unopened", method: http.MethodDelete, path: "/api/v1/wizards/listing", user: "user-1", wantStatus: http.StatusNotFound, wantCode: "SESSION_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := a.do(t, tt.method, tt.path, tt.user, nil, "")
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
			}
		})
	}
}

func TestCancel_KeepsDraft(t *testing.T) {
	a := setupAPI(t, nil, nil, nil)
	a.json(t, http.MethodPost, "/api/v1/wizards/listing", "")

	status, _ := a.json(t, http.MethodPatch, "/api/v1/wizards/listing/sections/propertyBasics", `{"propertyName":"Lakeview Inn"}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = a.json(t, http.MethodPost, "/api/v1/wizards/listing/save", "")
	require.Equal(t, http.StatusNoContent, status)
	assert.True(t, a.mr.Exists("wizard:draft:listing:user-1"))

	status, _ = a.json(t, http.MethodDelete, "/api/v1/wizards/listing", "")
	require.Equal(t, http.StatusNoContent, status)
	status, _ = a.json(t, http.MethodGet, "/api/v1/wizards/listing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.True(t, a.mr.Exists("wizard:draft:listing:user-1"))

	status, body := a.json(t, http.MethodPost, "/api/v1/wizards/listing", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["resumed"])
	basics := view(t, body)["sections"].(map[string]interface{})["propertyBasics"].(map[string]interface{})
	assert.Equal(t, "Lakeview Inn", basics["propertyName"])
}

// ==========================
// Input Tests
// ==========================

func TestUpdateSection(t *testing.T) {
	a := setupAPI(t, nil, nil, nil)
	a.json(t, http.MethodPost, "/api/v1/wizards/listing", "")

	status, body := a.json(t, http.MethodPatch, "/api/v1/wizards/listing/sections/location", `{"postalCode":"m5v3l9"}`)
	require.Equal(t, http.StatusOK, status)
	loc := body["sections"].(map[string]interface{})["location"].(map[string]interface{})
	assert.Equal(t, "M5V 3L9", loc["postalCode"])

	status, body = a.json(t, http.MethodPatch, "/api/v1/wizards/listing/sections/location", `{"planet":"Mars"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_PATCH", body["code"])
}

func TestBlurAndValidate(t *testing.T) {
	a := setupAPI(t, nil, nil, nil)
	a.json(t, http.MethodPost, "/api/v1/wizards/verification", "")
	a.json(t, http.MethodPatch, "/api/v1/wizards/verification/sections/personalInfo", `{"mobileNumber":"+1 416-555-01"}`)

	status, body := a.json(t, http.MethodPost, "/api/v1/wizards/verification/blur", `{"field":"personalInfo.mobileNumber"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Mobile number must be 11 digits", body["message"])

	status, body = a.json(t, http.MethodPost, "/api/v1/wizards/verification/validate", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["valid"])
	errs := view(t, body)["errors"].(map[string]interface{})
	assert.Equal(t, "Legal full name is required", errs["personalInfo.legalFullName"])

	status, _ = a.json(t, http.MethodPost, "/api/v1/wizards/verification/blur", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAttach(t *testing.T) {
	a := setupAPI(t, nil, nil, nil)
	a.json(t, http.MethodPost, "/api/v1/wizards/listing", "")

	body, ct := multipartFile(t, "front.png", pngBytes)
	status, out := a.do(t, http.MethodPost, "/api/v1/wizards/listing/attachments/details.photos", "user-1", body, ct)
	require.Equal(t, http.StatusOK, status)
	photos := out["sections"].(map[string]interface{})["details"].(map[string]interface{})["photos"].([]interface{})
	require.Len(t, photos, 1)
	photo := photos[0].(map[string]interface{})
	assert.Equal(t, "front.png", photo["fileName"])
	assert.True(t, strings.HasPrefix(photo["previewUrl"].(string), "data:image/png;base64,"), "the view carries the preview")
	assert.NotContains(t, photo, "handle")

	for i := 1; i < 10; i++ {
		body, ct = multipartFile(t, "more.png", pngBytes)
		status, _ = a.do(t, http.MethodPost, "/api/v1/wizards/listing/attachments/details.photos", "user-1", body, ct)
		require.Equal(t, http.StatusOK, status)
	}
	body, ct = multipartFile(t, "eleventh.png", pngBytes)
	status, out = a.do(t, http.MethodPost, "/api/v1/wizards/listing/attachments/details.photos", "user-1", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "You can upload up to 10 photos", out["message"])

	body, ct = multipartFile(t, "notes.txt", []byte("hello there, not an image"))
	status, out = a.do(t, http.MethodPost, "/api/v1/wizards/listing/attachments/details.photos", "user-1", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "ATTACHMENT_REJECTED", out["code"])
	assert.Equal(t, "Please upload an image file (JPEG, PNG, GIF or WebP)", out["message"])

	body, ct = multipartFile(t, "x.png", pngBytes)
	status, out = a.do(t, http.MethodPost, "/api/v1/wizards/listing/attachments/basics.logo", "user-1", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_PATCH", out["code"])
}

// ==========================
// Navigation Tests
// ==========================

func TestNavigationAndSubmit(t *testing.T) {
	a := setupAPI(t, nil, nil, nil)
	a.json(t, http.MethodPost, "/api/v1/wizards/listing", "")

	status, body := a.json(t, http.MethodPost, "/api/v1/wizards/listing/next", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["moved"], "the details gate blocks an empty form")

	status, body = a.json(t, http.MethodPost, "/api/v1/wizards/listing/back", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["moved"])

	status, body = a.json(t, http.MethodPost, "/api/v1/wizards/listing/submit", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["submitted"])
	assert.Equal(t, "Please review your details before submitting", view(t, body)["submitError"])
}

// ==========================
// Auth and Audit Tests
// ==========================

func TestAuth_BearerToken(t *testing.T) {
	verifier := &MockVerifier{}
	verifier.On("UserInfo", mock.Anything, "good").
		Return(models.Identity{UserID: "user-9", Email: "sam@example.com"}, nil)
	verifier.On("UserInfo", mock.Anything, "").
		Return(models.Identity{}, auth.ErrUnauthenticated)
	a := setupAPI(t, nil, verifier, nil)

	req, err := http.NewRequest(http.MethodPost, a.srv.URL+"/api/v1/wizards/listing", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, _ := a.do(t, http.MethodPost, "/api/v1/wizards/listing", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestEvents(t *testing.T) {
	history := &MockHistory{}
	history.On("Recent", mock.Anything, "user-1", "listing", 5).
		Return([]models.WizardEvent{{Flow: "listing", Type: models.EventDraftSaved}}, nil)
	a := setupAPI(t, nil, nil, history)

	req, err := http.NewRequest(http.MethodGet, a.srv.URL+"/api/v1/wizards/listing/events?limit=5", nil)
	require.NoError(t, err)
	req.Header.Set("X-User-ID", "user-1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events []models.WizardEvent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, models.EventDraftSaved, events[0].Type)

	noAudit := setupAPI(t, nil, nil, nil)
	status, _ := noAudit.do(t, http.MethodGet, "/api/v1/wizards/listing/events", "user-1", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthz(t *testing.T) {
	log := logger.NewNoOpLogger()
	h := NewWizardHandler(NewRegistry(SessionEnv{}, nil), nil, 1<<20, log)
	router := NewRouter(h, nil, map[string]HealthFunc{
		"redis": func(context.Context) error { return nil },
	}, log)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
}
