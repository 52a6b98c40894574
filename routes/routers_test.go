package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"market/controllers"
	"market/models"
	"market/services"
	"market/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Code int             `json:"code"`
	Mess string          `json:"mess"`
	Data json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := logger.Nop{}
	tokens := services.NewTokenService("secret", time.Hour, "market")
	auth := services.NewAuthService(services.AuthServiceOptions{DB: db, Tokens: tokens, Logger: log})
	users := services.NewUserService(db, log)
	catalog := services.NewCatalogService(db, nil, log)
	reviews := services.NewReviewService(db, nil, log)

	r := gin.New()
	SetupRoutes(r, Handlers{
		Auth:      controllers.NewAuthController(auth, users),
		Services:  controllers.NewServiceController(catalog, reviews),
		Discounts: &controllers.DiscountController{},
		Bookings:  &controllers.BookingController{},
		Chat:      &controllers.ChatController{},
		Locations: &controllers.LocationController{},
		Uploads:   &controllers.UploadController{},
		Admin:     &controllers.AdminController{},
		WS:        controllers.NewWSController(melody.New(), log),
	}, tokens)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func registerAndLogin(t *testing.T, r *gin.Engine, email string, role int) string {
	t.Helper()
	code, _ := do(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "User " + email, "email": email, "password": "password123", "role": role,
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"identifier": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func TestPing(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouteGuards(t *testing.T) {
	r := newTestRouter(t)
	customer := registerAndLogin(t, r, "c@example.com", 0)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"profile needs token", http.MethodGet, "/api/v1/me", "", http.StatusUnauthorized},
		{"profile with token", http.MethodGet, "/api/v1/me", customer, http.StatusOK},
		{"customer cannot create service", http.MethodPost, "/api/v1/services", customer, http.StatusForbidden},
		{"customer cannot create discount", http.MethodPost, "/api/v1/discounts", customer, http.StatusForbidden},
		{"admin area", http.MethodGet, "/api/v1/admin/users", customer, http.StatusForbidden},
		{"admin jobs", http.MethodPost, "/api/v1/admin/jobs/cancel-expired-discounts", "", http.StatusUnauthorized},
		{"bookings need token", http.MethodGet, "/api/v1/bookings", "", http.StatusUnauthorized},
		{"ws needs token", http.MethodGet, "/api/v1/ws", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := do(t, r, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestProviderPublishesService(t *testing.T) {
	r := newTestRouter(t)
	provider := registerAndLogin(t, r, "p@example.com", 1)

	code, env := do(t, r, http.MethodPost, "/api/v1/services", provider, gin.H{
		"name": "Cắt tóc nam", "category": "Beauty", "price": 150, "duration": 30,
	})
	require.Equal(t, http.StatusCreated, code, env.Mess)
	var created models.Service
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "cat-toc-nam", created.Slug)

	code, env = do(t, r, http.MethodGet, "/api/v1/services", "", nil)
	require.Equal(t, http.StatusOK, code)
	var list []models.Service
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	code, _ = do(t, r, http.MethodGet, fmt.Sprintf("/api/v1/services/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusOK, code)
}
