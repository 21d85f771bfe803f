package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCharge_Environments(t *testing.T) {
	q := Quota{Action: "test", Limit: 1, Window: time.Minute}
	tests := []struct {
		name        string
		env         string
		wantAllowed bool
		wantErr     bool
	}{
		{name: "unset env is not enforced", env: "", wantAllowed: true},
		{name: "test env is not enforced", env: "test", wantAllowed: true},
		{name: "development env is not enforced", env: "development", wantAllowed: true},
		{name: "production without redis errors", env: "production", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)

			verdict, err := Charge(context.Background(), nil, q, "user:1")
			if tt.wantErr {
				assert.ErrorIs(t, err, errNoCounterStore)
				assert.False(t, verdict.Allowed)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, verdict.Allowed)
		})
	}
}

func TestCharge_CountsWithinWindow(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()
	q := Quota{Action: "likes", Limit: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		verdict, err := Charge(ctx, rdb, q, "user:a")
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	}
	verdict, err := Charge(ctx, rdb, q, "user:a")
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Greater(t, verdict.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, verdict.RetryAfter, time.Minute)

	// Other callers keep their own count.
	verdict, err = Charge(ctx, rdb, q, "user:b")
	require.NoError(t, err)
	assert.True(t, verdict.Allowed)

	mr.FastForward(time.Minute + time.Second)
	verdict, err = Charge(ctx, rdb, q, "user:a")
	require.NoError(t, err)
	assert.True(t, verdict.Allowed)
}

func TestCharge_RepairsKeyWithoutExpiry(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr, rdb := newMiniRedis(t)
	require.NoError(t, mr.Set("quota:likes:user:a", "5"))

	verdict, err := Charge(context.Background(), rdb, Quota{Action: "likes", Limit: 2, Window: time.Minute}, "user:a")
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, time.Minute, mr.TTL("quota:likes:user:a"))
}

func TestThrottle(t *testing.T) {
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	t.Run("not enforced in test env", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		app := fiber.New()
		app.Get("/test", Throttle(nil, Quota{Limit: 1, Window: time.Minute}), ok)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("lenient quota lets requests through without redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := fiber.New()
		app.Get("/test", Throttle(nil, Quota{Limit: 1, Window: time.Minute}), ok)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("strict quota turns requests away without redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := fiber.New()
		app.Post("/upload", Throttle(nil, Quota{Limit: 1, Window: time.Minute, Strict: true}), ok)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/upload", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("over quota returns 429 with retry-after per user", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, rdb := newMiniRedis(t)

		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", c.Get("X-User"))
			return c.Next()
		})
		app.Post("/like", Throttle(rdb, Quota{Action: "likes", Limit: 1, Window: time.Minute}), ok)

		send := func(user string) *http.Response {
			req := httptest.NewRequest(http.MethodPost, "/like", nil)
			req.Header.Set("X-User", user)
			resp, err := app.Test(req)
			require.NoError(t, err)
			_ = resp.Body.Close()
			return resp
		}

		assert.Equal(t, http.StatusOK, send("alice").StatusCode)
		limited := send("alice")
		assert.Equal(t, http.StatusTooManyRequests, limited.StatusCode)
		assert.Equal(t, "60", limited.Header.Get(fiber.HeaderRetryAfter))
		assert.Equal(t, http.StatusOK, send("bob").StatusCode)
	})
}
