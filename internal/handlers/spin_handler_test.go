package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheeldeal/wheeldeal-backend/api/routes"
	"github.com/wheeldeal/wheeldeal-backend/internal/config"
	"github.com/wheeldeal/wheeldeal-backend/internal/handlers"
	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories/memory"
	"github.com/wheeldeal/wheeldeal-backend/internal/services"
	"github.com/wheeldeal/wheeldeal-backend/internal/utils"
	"github.com/wheeldeal/wheeldeal-backend/internal/wheel"
)

type testEnv struct {
	router   *gin.Engine
	store    *memory.Store
	cfg      *config.Config
	merchant *models.Merchant
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600

	store := memory.NewStore()
	merchant := &models.Merchant{
		Name:   "Corner Cafe",
		Active: true,
		Wheel: []models.WheelOption{
			{Label: "Free Coffee", Weight: 1},
			{Label: "10% Off", Weight: 3},
		},
	}
	require.NoError(t, store.Create(context.Background(), merchant))

	selector := wheel.NewSelector(rand.NewSource(1))
	spinService := services.NewSpinService(store, store, store, store, selector, 3, 7, time.UTC)
	reportService := services.NewReportService(store, store, 1.0, 0.7, time.UTC)

	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(services.NewAuthService(store.Staff(), cfg)),
		MerchantHandler:   handlers.NewMerchantHandler(services.NewMerchantService(store)),
		SpinHandler:       handlers.NewSpinHandler(spinService),
		RedemptionHandler: handlers.NewRedemptionHandler(spinService),
		DashboardHandler:  handlers.NewDashboardHandler(reportService, time.UTC),
	})
	return &testEnv{router: router, store: store, cfg: cfg, merchant: merchant}
}

func (e *testEnv) spin(t *testing.T, userID string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(gin.H{"merchantId": e.merchant.ID.Hex()})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/spins", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func (e *testEnv) staffToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWT("staff-1", e.merchant.ID.Hex(), "staff", e.cfg)
	require.NoError(t, err)
	return token
}

func TestSpinEndpointIssuesUntilQuotaExhausted(t *testing.T) {
	env := newTestEnv(t)

	for _, wantRemaining := range []float64{2, 1, 0} {
		recorder := env.spin(t, "user-1")
		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Regexp(t, `^WD-[A-Z0-9]{6}$`, body["code"])
		assert.Equal(t, wantRemaining, body["remaining"])
	}

	recorder := env.spin(t, "user-1")
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
}

func TestSpinEndpointRequiresUserIdentity(t *testing.T) {
	env := newTestEnv(t)

	body, _ := json.Marshal(gin.H{"merchantId": env.merchant.ID.Hex()})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/spins", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestSpinEndpointUnknownMerchant(t *testing.T) {
	env := newTestEnv(t)

	body, _ := json.Marshal(gin.H{"merchantId": "64b0c0ffee0000000000dead"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/spins", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestQuotaEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.spin(t, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spins/quota?merchantId="+env.merchant.ID.Hex(), nil)
	req.Header.Set("X-User-ID", "user-1")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["remaining"])
}

func TestRedemptionEndpointLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.staffToken(t)

	recorder := env.spin(t, "user-1")
	require.Equal(t, http.StatusCreated, recorder.Code)
	var issued map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &issued))
	code := issued["code"].(string)

	redeem := func(code string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(gin.H{"code": code})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/redemptions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		return rec
	}

	rec := redeem(code)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, []any{"Free Coffee", "10% Off"}, result["prizeLabel"])

	assert.Equal(t, http.StatusConflict, redeem(code).Code)
	assert.Equal(t, http.StatusNotFound, redeem("WD-ZZZZZZ").Code)
}

func TestRedemptionEndpointRequiresStaffToken(t *testing.T) {
	env := newTestEnv(t)

	body, _ := json.Marshal(gin.H{"code": "WD-ABC123"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/redemptions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestDashboardSummaryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.staffToken(t)

	env.spin(t, "user-1")
	env.spin(t, "user-2")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var summary map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &summary))
	assert.Equal(t, float64(2), summary["totalSpins"])
	assert.Equal(t, env.merchant.ID.Hex(), summary["merchantId"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary?lastDays=7", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder = httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &summary))
	assert.Len(t, summary["days"], 7)
	assert.Equal(t, float64(2), summary["totalSpins"])
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	register := func(email, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(gin.H{"email": email, "password": password, "merchantId": env.merchant.ID.Hex()})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusCreated, register("clerk@cafe.example", "hunter22").Code)

	body, _ := json.Marshal(gin.H{"email": "clerk@cafe.example", "password": "hunter22"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var login map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &login))
	assert.NotEmpty(t, login["token"])
}
