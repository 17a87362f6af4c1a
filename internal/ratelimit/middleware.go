package ratelimit

import (
	"fmt"
	"strings"
	"time"

	"github.com/craftfolio/api/internal/config"
	"github.com/craftfolio/api/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

// Class selects a route-class policy from the config.
type Class string

const (
	ClassStandard Class = "standard"
	ClassAuth     Class = "auth"
	ClassAI       Class = "ai"
	ClassPublic   Class = "public"
)

// Limiter builds Fiber middleware enforcing per-route-class limits against a
// Store.
type Limiter struct {
	store  Store
	cfg    config.RateLimitConfig
	log    *logger.Logger
	prefix string
}

func NewLimiter(store Store, cfg config.RateLimitConfig, log *logger.Logger) *Limiter {
	return &Limiter{
		store:  store,
		cfg:    cfg,
		log:    log,
		prefix: "rl",
	}
}

func (l *Limiter) policy(class Class) config.RateLimitPolicy {
	switch class {
	case ClassAuth:
		return l.cfg.Auth
	case ClassAI:
		return l.cfg.AI
	case ClassPublic:
		return l.cfg.Public
	default:
		return l.cfg.Standard
	}
}

// clientIP extracts the caller address from the forwarded-for header (first
// entry) or the direct-IP header. "unknown" when neither is present.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip := c.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return "unknown"
}

// Key derives the counter key: prefix:scope:identifier:path. The user scope
// applies only when the policy is per-user and an identity was resolved by
// the auth middleware; every other request falls back to the ip scope.
func (l *Limiter) Key(c *fiber.Ctx, policy config.RateLimitPolicy) string {
	scope := "ip"
	identifier := clientIP(c)
	if policy.PerUser {
		if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
			scope = "user"
			identifier = userID
		}
	}
	return fmt.Sprintf("%s:%s:%s:%s", l.prefix, scope, identifier, c.Path())
}

// Handle returns middleware enforcing the policy of the given route class.
func (l *Limiter) Handle(class Class) fiber.Handler {
	policy := l.policy(class)
	return func(c *fiber.Ctx) error {
		if !l.cfg.Enabled {
			return c.Next()
		}

		key := l.Key(c, policy)
		result, err := l.store.Check(c.Context(), key, policy.Max, policy.Window)
		if err != nil {
			// Store errors never fail the pipeline.
			if l.log != nil {
				l.log.Warn(c.UserContext()).WithMeta(map[string]string{"error": err.Error()}).Logs("Rate limit check failed, allowing request")
			}
			return c.Next()
		}

		if !result.Allowed {
			retryAfter := int(time.Until(result.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			setRateHeaders(c, result)
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", retryAfter))
			if l.log != nil {
				l.log.Warn(c.UserContext()).WithMeta(map[string]string{"key": key}).Logs("Rate limit exceeded")
			}
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Try again later.",
				"code":  "RATE_LIMIT_EXCEEDED",
			})
		}

		err = c.Next()
		// Attach the counters without altering the handler's body or status.
		setRateHeaders(c, result)
		return err
	}
}

func setRateHeaders(c *fiber.Ctx, r Result) {
	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", r.Limit))
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", r.Remaining))
	c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", r.ResetAt.Unix()))
}
