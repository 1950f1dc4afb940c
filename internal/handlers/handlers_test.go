package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/seidik/internal/config"
	"github.com/example/seidik/internal/database"
	"github.com/example/seidik/internal/models"
	"github.com/example/seidik/internal/routes"
	"github.com/example/seidik/internal/utils"
)

// memoryBlacklist replaces the Redis-backed blacklist in tests.
type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: map[string]bool{}}
}

func (b *memoryBlacklist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = true
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[jti], nil
}

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		AppPort:         "0",
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		RememberMeTTL:   30 * 24 * time.Hour,
		UploadDir:       t.TempDir(),
	}

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	routes.Register(app, db, cfg, newMemoryBlacklist())

	return &testEnv{app: app, db: db, cfg: cfg}
}

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Timestamp  string          `json:"timestamp"`
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, headers map[string]string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp, decodeEnvelope(t, resp)
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode envelope from %s: %v", raw, err)
	}
	return env
}

func (e *testEnv) post(t *testing.T, path string, body interface{}) (*http.Response, envelope) {
	return e.request(t, http.MethodPost, path, body, nil)
}

func (e *testEnv) get(t *testing.T, path string, headers map[string]string) (*http.Response, envelope) {
	return e.request(t, http.MethodGet, path, nil, headers)
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("failed to decode data %s: %v", env.Data, err)
	}
}

// registerCustomer runs registration step 1 and returns the email used.
func (e *testEnv) registerCustomer(t *testing.T, email, customerType string) {
	t.Helper()

	resp, env := e.post(t, "/api/accounts/register", fiber.Map{
		"customer_type":    customerType,
		"first_name":       "Test",
		"last_name":        "Customer",
		"email":            email,
		"password":         "str0ngpass",
		"confirm_password": "str0ngpass",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register returned %d: %s", resp.StatusCode, env.Message)
	}
}

func (e *testEnv) addAddress(t *testing.T, path, email string) (*http.Response, envelope) {
	t.Helper()
	return e.post(t, path, fiber.Map{
		"email":          email,
		"address_line_1": "12 Main Road",
		"city":           "Cape Town",
		"postal_code":    "8001",
		"province":       "Western Cape",
	})
}

// latestOTP reads the most recent code straight from the ledger.
func (e *testEnv) latestOTP(t *testing.T, email string) string {
	t.Helper()

	var otp models.OTP
	if err := e.db.Where("email = ?", email).Order("created_at desc").First(&otp).Error; err != nil {
		t.Fatalf("no otp found for %s: %v", email, err)
	}
	return otp.Code
}

func (e *testEnv) otpCount(t *testing.T, email string) int64 {
	t.Helper()

	var count int64
	if err := e.db.Model(&models.OTP{}).Where("email = ?", email).Count(&count).Error; err != nil {
		t.Fatalf("otp count failed: %v", err)
	}
	return count
}

// verifyAndLogin completes verification and returns the access and refresh tokens.
func (e *testEnv) verifyAndLogin(t *testing.T, email string) (string, string) {
	t.Helper()

	resp, env := e.post(t, "/api/accounts/verify-email", fiber.Map{
		"email": email,
		"otp":   e.latestOTP(t, email),
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("verify-email returned %d: %s", resp.StatusCode, env.Message)
	}

	resp, env = e.post(t, "/api/accounts/login", fiber.Map{
		"email":    email,
		"password": "str0ngpass",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login returned %d: %s", resp.StatusCode, env.Message)
	}

	var data struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	decodeData(t, env, &data)
	if data.Access == "" || data.Refresh == "" {
		t.Fatal("expected both tokens in login response")
	}
	return data.Access, data.Refresh
}

// registerRetail walks a retail customer through the full flow to verified.
func (e *testEnv) registerRetail(t *testing.T, email string) {
	t.Helper()

	e.registerCustomer(t, email, "Retail")
	if resp, env := e.addAddress(t, "/api/accounts/register/billing-address", email); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("billing address returned %d: %s", resp.StatusCode, env.Message)
	}
	if resp, env := e.addAddress(t, "/api/accounts/register/delivery-address", email); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("delivery address returned %d: %s", resp.StatusCode, env.Message)
	}
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
