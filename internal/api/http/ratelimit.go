package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"golang.org/x/time/rate"

	apperrors "github.com/spec-kit/staff-portal/pkg/util"
)

const (
	bucketTTL     = 5 * time.Minute
	sweepInterval = time.Minute
)

// RateLimit is a token bucket per client IP. Idle buckets are swept lazily.
func RateLimit(perSecond, burst int) fiber.Handler {
	type bucket struct {
		lim *rate.Limiter
		ts  time.Time
	}
	var (
		mu        sync.Mutex
		buckets   = make(map[string]*bucket)
		lastSweep = time.Now()
	)

	return func(c *fiber.Ctx) error {
		// map keys outlive the request buffer
		ip := utils.CopyString(c.IP())
		if ip == "" {
			ip = "unknown"
		}
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > sweepInterval {
			for k, b := range buckets {
				if now.Sub(b.ts) > bucketTTL {
					delete(buckets, k)
				}
			}
			lastSweep = now
		}
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
			buckets[ip] = b
		}
		b.ts = now
		allowed := b.lim.Allow()
		mu.Unlock()

		if !allowed {
			return apperrors.NewDomainError(apperrors.CodeTooManyAttempts, "rate limit exceeded", fiber.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}
