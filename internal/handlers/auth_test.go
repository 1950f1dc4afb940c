package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestLoginRequiresVerification(t *testing.T) {
	env := newTestEnv(t)
	email := "unverified@example.com"

	env.registerCustomer(t, email, "Retail")

	resp, body := env.post(t, "/api/accounts/login", fiber.Map{
		"email":    email,
		"password": "str0ngpass",
	})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if body.Message != "Email not verified. Please verify your email first." {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestLoginUniformInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	email := "login@example.com"

	env.registerRetail(t, email)
	env.post(t, "/api/accounts/verify-email", fiber.Map{"email": email, "otp": env.latestOTP(t, email)})

	// Unknown email and wrong password must be indistinguishable.
	resp, body := env.post(t, "/api/accounts/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "str0ngpass",
	})
	if resp.StatusCode != fiber.StatusUnauthorized || body.Message != "Invalid credentials" {
		t.Fatalf("unknown email: got %d %q", resp.StatusCode, body.Message)
	}

	resp, body = env.post(t, "/api/accounts/login", fiber.Map{
		"email":    email,
		"password": "wrongpass1",
	})
	if resp.StatusCode != fiber.StatusUnauthorized || body.Message != "Invalid credentials" {
		t.Fatalf("wrong password: got %d %q", resp.StatusCode, body.Message)
	}
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)
	email := "inactive@example.com"

	env.registerRetail(t, email)
	env.post(t, "/api/accounts/verify-email", fiber.Map{"email": email, "otp": env.latestOTP(t, email)})

	env.db.Exec("UPDATE customers SET is_active = ? WHERE email = ?", false, email)

	resp, body := env.post(t, "/api/accounts/login", fiber.Map{
		"email":    email,
		"password": "str0ngpass",
	})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if body.Message != "Account is deactivated" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestLoginReturnsUserSummary(t *testing.T) {
	env := newTestEnv(t)
	email := "summary@example.com"

	env.registerRetail(t, email)

	access, refresh := env.verifyAndLogin(t, email)
	if access == refresh {
		t.Fatal("access and refresh tokens should differ")
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	email := "logout@example.com"

	env.registerRetail(t, email)
	access, refresh := env.verifyAndLogin(t, email)

	resp, body := env.request(t, "POST", "/api/accounts/logout", fiber.Map{"refresh": refresh}, bearer(access))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout returned %d: %s", resp.StatusCode, body.Message)
	}

	// Revoked token can no longer refresh.
	resp, body = env.post(t, "/api/accounts/token/refresh", fiber.Map{"refresh": refresh})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d: %s", resp.StatusCode, body.Message)
	}

	// Repeated logout with the same token reports it invalid.
	resp, body = env.request(t, "POST", "/api/accounts/logout", fiber.Map{"refresh": refresh}, bearer(access))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 on replayed logout, got %d", resp.StatusCode)
	}
}

func TestRefreshMintsNewAccessToken(t *testing.T) {
	env := newTestEnv(t)
	email := "refresh@example.com"

	env.registerRetail(t, email)
	_, refresh := env.verifyAndLogin(t, email)

	resp, body := env.post(t, "/api/accounts/token/refresh", fiber.Map{"refresh": refresh})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("refresh returned %d: %s", resp.StatusCode, body.Message)
	}

	var data struct {
		Access string `json:"access"`
	}
	decodeData(t, body, &data)
	if data.Access == "" {
		t.Fatal("expected a new access token")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	env := newTestEnv(t)
	email := "refresh-access@example.com"

	env.registerRetail(t, email)
	access, _ := env.verifyAndLogin(t, email)

	resp, body := env.post(t, "/api/accounts/token/refresh", fiber.Map{"refresh": access})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for access token, got %d: %s", resp.StatusCode, body.Message)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.get(t, "/api/accounts/profile", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp, _ = env.get(t, "/api/accounts/profile", bearer("garbage"))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", resp.StatusCode)
	}
}
