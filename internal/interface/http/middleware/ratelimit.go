package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
	"github.com/xiebiao/bookadmin/pkg/response"
)

// IPRateLimiter 按客户端IP的令牌桶限流
type IPRateLimiter struct {
	limit      rate.Limit
	burst      int
	idleTTL    time.Duration
	sweepEvery uint64

	mu       sync.Mutex
	limiters map[string]*visitor
	calls    uint64
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter rps为每秒补充的令牌数，burst为桶容量
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:    10 * time.Minute,
		sweepEvery: 1024,
		limiters:   make(map[string]*visitor),
		now:        time.Now,
	}
}

// Allow 消耗ip的一个令牌
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Cleanup 清理idleTTL内没有请求的IP
func (l *IPRateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idleTTL)
	removed := 0
	for ip, v := range l.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
			removed++
		}
	}
	return removed
}

// countCall 记录一次请求，每sweepEvery次返回true
func (l *IPRateLimiter) countCall() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.calls%l.sweepEvery == 0
}

// Middleware 超出限额返回429
func (l *IPRateLimiter) Middleware(resp *response.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 被拒绝的请求也计入清理周期
		if l.countCall() {
			l.Cleanup()
		}

		if !l.Allow(c.ClientIP()) {
			resp.Error(c, apperrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
