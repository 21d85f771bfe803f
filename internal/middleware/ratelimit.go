package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"heirloom/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var errNoCounterStore = errors.New("rate limit counter store not configured")

// Quota caps how often one caller may perform an action.
type Quota struct {
	Action string
	Limit  int
	Window time.Duration
	// Strict turns requests away with 503 while the counter store is down.
	// Lenient quotas let them through unmetered.
	Strict bool
}

// Verdict is the outcome of charging one request against a Quota.
type Verdict struct {
	Allowed    bool
	RetryAfter time.Duration
}

func quotasEnforced() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development":
		return false
	}
	return true
}

// Charge counts one request by caller against q in a fixed window keyed in Redis.
// Quotas are not enforced when APP_ENV is unset, "test" or "development".
func Charge(ctx context.Context, rdb *redis.Client, q Quota, caller string) (Verdict, error) {
	if !quotasEnforced() {
		return Verdict{Allowed: true}, nil
	}
	if rdb == nil {
		return Verdict{}, errNoCounterStore
	}

	key := fmt.Sprintf("quota:%s:%s", q.Action, caller)
	var count *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return Verdict{}, err
	}

	remaining := ttl.Val()
	if remaining < 0 {
		// First hit in this window, or a key left without expiry.
		if err := rdb.PExpire(ctx, key, q.Window).Err(); err != nil {
			return Verdict{}, err
		}
		remaining = q.Window
	}
	if count.Val() <= int64(q.Limit) {
		return Verdict{Allowed: true}, nil
	}
	return Verdict{RetryAfter: remaining}, nil
}

// callerKey prefers the authenticated user so one family member behind a
// shared address does not exhaust the quota of the others.
func callerKey(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(string); ok && uid != "" {
		return "user:" + uid
	}
	return "ip:" + c.IP()
}

// Throttle enforces q on every request that reaches it.
// Over-quota requests get 429 with a Retry-After header in whole seconds.
func Throttle(rdb *redis.Client, q Quota) fiber.Handler {
	return func(c *fiber.Ctx) error {
		action := q.Action
		if action == "" {
			action = c.Path()
		}
		scoped := q
		scoped.Action = action

		verdict, err := Charge(c.UserContext(), rdb, scoped, callerKey(c))
		if err != nil {
			if !q.Strict {
				return c.Next()
			}
			Logger.WarnContext(c.UserContext(), "quota counter unavailable",
				slog.String("action", action),
				slog.String("error", err.Error()),
			)
			return models.RespondWithError(c, fiber.StatusServiceUnavailable, &models.AppError{
				Code:    models.CodeStorageFailure,
				Message: "Request quota cannot be checked right now",
			})
		}

		if !verdict.Allowed {
			secs := int(math.Ceil(verdict.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
			return models.RespondWithError(c, fiber.StatusTooManyRequests, &models.AppError{
				Code:    models.CodeRateLimited,
				Message: "Too many requests, try again later",
			})
		}
		return c.Next()
	}
}
