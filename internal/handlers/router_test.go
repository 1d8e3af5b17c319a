package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/holidays"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/middleware"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/services"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type apiFixture struct {
	db     *gorm.DB
	router *gin.Engine
	now    time.Time
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db)
	calendar := holidays.NewCalendar(repos.Holiday, holidays.NewMemoryCache(), time.Hour)

	f := &apiFixture{db: db, now: testutil.Date(2025, time.March, 5)}
	svcs := services.NewServices(repos, calendar, nil, func() time.Time { return f.now })
	f.router = NewRouter(NewHandlers(svcs), RouterOptions{JWTSecret: testSecret})
	return f
}

func token(t *testing.T, groupID uint) string {
	t.Helper()
	claims := middleware.Claims{
		UserID:  7,
		GroupID: groupID,
		Email:   "admin@inmobiliaria.test",
		Role:    "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token(t, testutil.GroupID))

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func (f *apiFixture) recordID(t *testing.T, month, year int) uint {
	t.Helper()
	w, body := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/monthly-records?month=%d&year=%d", month, year), nil)
	require.Equal(t, http.StatusOK, w.Code)
	records := body["records"].([]any)
	require.Len(t, records, 1)
	return uint(records[0].(map[string]any)["id"].(float64))
}

func TestHealthIsPublic(t *testing.T) {
	f := newAPI(t)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	f := newAPI(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/debts", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/debts", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, 0))
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/debts", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentFlow(t *testing.T) {
	f := newAPI(t)
	testutil.CreateContract(t, f.db, testutil.ContractOptions{})
	id := f.recordID(t, 3, 2025)

	w, _ := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/monthly-records/%d/payments", id), map[string]any{
		"payment": map[string]any{"payment_date": "05/03/2025", "amount": 1000},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/v1/monthly-records/999/payments", map[string]any{
		"payment_date": "2025-03-05", "amount": 1000,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/v1/monthly-records/abc/payments", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/monthly-records/%d/payments", id), map[string]any{
		"payment": map[string]any{"payment_date": "2025-03-05", "amount": 100000, "method": "TRANSFERENCIA"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, body)

	var rec models.MonthlyRecord
	require.NoError(t, f.db.First(&rec, id).Error)
	assert.Equal(t, models.RecordStatusComplete, rec.Status)
}

func TestPaymentBlockedByDebt(t *testing.T) {
	f := newAPI(t)
	testutil.CreateContract(t, f.db, testutil.ContractOptions{})
	march := f.recordID(t, 3, 2025)

	f.now = testutil.Date(2025, time.April, 1)
	w, body := f.do(t, http.MethodPost, "/api/v1/monthly-close", map[string]any{"month": 3, "year": 2025})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), body["created"])

	april := f.recordID(t, 4, 2025)
	w, body = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/monthly-records/%d/payments", april), map[string]any{
		"payment_date": "2025-04-02", "amount": 50000,
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.NotEmpty(t, body["error"])
	debts := body["debts"].([]any)
	require.Len(t, debts, 1)
	assert.Equal(t, float64(march), debts[0].(map[string]any)["monthly_record_id"])

	w, body = f.do(t, http.MethodGet, "/api/v1/debts?status=OPEN", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
}

func TestMonthlyCloseValidation(t *testing.T) {
	f := newAPI(t)

	w, _ := f.do(t, http.MethodPost, "/api/v1/monthly-close", map[string]any{"month": 13, "year": 2025})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodGet, "/api/v1/monthly-close/preview?month=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := f.do(t, http.MethodGet, "/api/v1/monthly-close/preview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["month"])
	assert.Equal(t, float64(2025), body["year"])
}
