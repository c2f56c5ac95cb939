package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"dogpass-api/internal/platform/httpx"
	"dogpass-api/internal/platform/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decide si la clave (IP del cliente) puede seguir.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LocalLimiter es un token bucket por clave, en memoria del proceso.
// Las claves sin uso por más de idleAfter se descartan (su bucket ya
// estaría lleno de nuevo).
type LocalLimiter struct {
	mu        sync.Mutex
	entries   map[string]*localEntry
	rate      rate.Limit
	burst     int
	idleAfter time.Duration
	lastSweep time.Time

	now func() time.Time
}

type localEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter permite perMinute requests por minuto y clave (con ráfaga = perMinute).
func NewLocalLimiter(perMinute int) *LocalLimiter {
	if perMinute <= 0 {
		perMinute = 20
	}
	return &LocalLimiter{
		entries:   make(map[string]*localEntry),
		rate:      rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		idleAfter: 2 * time.Minute,
		now:       time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleAfter {
		l.sweep(now)
	}

	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{lim: rate.NewLimiter(l.rate, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1), nil
}

// Len es la cantidad de claves vivas.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *LocalLimiter) sweep(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) >= l.idleAfter {
			delete(l.entries, k)
		}
	}
	l.lastSweep = now
}

// RedisLimiter es una ventana fija compartida entre instancias.
type RedisLimiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string) *RedisLimiter {
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = "rl"
	}
	return &RedisLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, err
	}

	var count int64
	switch v := res.(type) {
	case int64:
		count = v
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return false, err
		}
		count = n
	default:
		return false, fmt.Errorf("unexpected redis script result type %T", res)
	}
	return count <= int64(l.limit), nil
}

// RateLimit responde 429 cuando el limiter rechaza. Si el limiter falla
// (redis caído) deja pasar con failOpen, o responde 503.
func RateLimit(l Limiter, log logger.Logger, failOpen bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			ok, err := l.Allow(r.Context(), key)
			if err != nil {
				log.Warn("rate limiter error", map[string]any{"err": err, "path": r.URL.Path})
				if failOpen {
					next.ServeHTTP(w, r)
					return
				}
				httpx.Message(w, http.StatusServiceUnavailable, "rate limiter unavailable")
				return
			}
			if !ok {
				log.Warn("rate limit exceeded", map[string]any{"client": key, "path": r.URL.Path})
				w.Header().Set("Retry-After", "60")
				httpx.Message(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey usa la IP resuelta por ClientIP; sin ese middleware, el peer TCP.
func clientKey(r *http.Request) string {
	if ip, ok := GetClientIP(r.Context()); ok {
		return ip
	}
	return peerHost(r.RemoteAddr)
}
