package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"jobmarket_backend/internals/constants"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

var fixedNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func sign(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
	handlers = append(handlers, func(c *fiber.Ctx) error {
		id, _ := c.Locals(helper.LocUserID).(int64)
		return c.JSON(fiber.Map{"id": id, "role": helper.GetUserRole(c)})
	})
	app.Get("/", handlers...)
	return app
}

func status(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	opts := Options{Secret: testSecret, Now: func() time.Time { return fixedNow }}
	valid := jwt.MapClaims{"id": 7, "role": "student", "exp": fixedNow.Add(time.Hour).Unix()}

	tests := []struct {
		name  string
		opts  Options
		token string
		want  int
	}{
		{"valid token", opts, sign(t, jwt.SigningMethodHS256, valid), 200},
		{"string id", opts, sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"id": "7", "exp": fixedNow.Add(time.Hour).Unix()}), 200},
		{"missing token", opts, "", 401},
		{"missing token optional", Options{Secret: testSecret, Optional: true}, "", 200},
		{"expired", opts, sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"id": 7, "exp": fixedNow.Add(-time.Minute).Unix()}), 401},
		{"within skew", opts, sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"id": 7, "exp": fixedNow.Add(-10 * time.Second).Unix()}), 200},
		{"no exp", opts, sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"id": 7}), 401},
		{"zero id", opts, sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"id": 0, "exp": fixedNow.Add(time.Hour).Unix()}), 401},
		{"wrong algorithm", opts, sign(t, jwt.SigningMethodHS384, valid), 401},
		{"garbage", opts, "not.a.token", 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status(t, newApp(AuthMiddleware(tt.opts)), tt.token); got != tt.want {
				t.Fatalf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAuthMiddlewareCookieFallback(t *testing.T) {
	app := newApp(AuthMiddleware(Options{Secret: testSecret, Now: func() time.Time { return fixedNow }}))
	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderCookie, "access_token="+sign(t, jwt.SigningMethodHS256,
		jwt.MapClaims{"id": 3, "exp": fixedNow.Add(time.Hour).Unix()}))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

type fakeAccount struct {
	role    string
	blocked bool
	caps    []string
}

func (f fakeAccount) Role() string { return f.role }
func (f fakeAccount) Blocked() bool { return f.blocked }
func (f fakeAccount) CanAccess(capability string) bool {
	for _, c := range f.caps {
		if c == capability {
			return true
		}
	}
	return false
}

func withUser(id int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, id)
		return c.Next()
	}
}

func TestLoadAccountAndGuards(t *testing.T) {
	accounts := map[int64]fakeAccount{
		0: {role: "visitor", caps: []string{constants.PermViewJobs}},
		1: {role: "student", caps: []string{constants.PermApplyJobs}},
		2: {role: "publisher", blocked: true},
	}
	resolve := func(_ context.Context, id int64) (Capable, error) {
		acc, ok := accounts[id]
		if !ok {
			return nil, fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return acc, nil
	}

	tests := []struct {
		name     string
		handlers []fiber.Handler
		want     int
	}{
		{"student with capability", []fiber.Handler{withUser(1), LoadAccount(resolve), RequireCapability(constants.PermApplyJobs)}, 200},
		{"student without capability", []fiber.Handler{withUser(1), LoadAccount(resolve), RequireCapability(constants.PermCreateJobs)}, 403},
		{"visitor without id", []fiber.Handler{LoadAccount(resolve), RequireCapability(constants.PermViewJobs)}, 200},
		{"blocked account", []fiber.Handler{withUser(2), LoadAccount(resolve)}, 403},
		{"unknown user", []fiber.Handler{withUser(99), LoadAccount(resolve)}, 401},
		{"capability without account", []fiber.Handler{RequireCapability(constants.PermViewJobs)}, 401},
		{"role allowed", []fiber.Handler{withUser(1), LoadAccount(resolve), OnlyRoles("", "student", "admin")}, 200},
		{"role denied", []fiber.Handler{withUser(1), LoadAccount(resolve), OnlyRoles("admins only", "admin")}, 403},
		{"role missing", []fiber.Handler{OnlyRoles("", "admin")}, 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status(t, newApp(tt.handlers...), ""); got != tt.want {
				t.Fatalf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadAccountPassesRequestDeadline(t *testing.T) {
	var sawDeadline bool
	resolve := func(ctx context.Context, id int64) (Capable, error) {
		_, sawDeadline = ctx.Deadline()
		return fakeAccount{role: "visitor"}, nil
	}
	withDeadline := func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
	if got := status(t, newApp(withDeadline, LoadAccount(resolve)), ""); got != 200 {
		t.Fatalf("status = %d, want 200", got)
	}
	if !sawDeadline {
		t.Fatal("resolver should receive the request's user context")
	}
}
