package rate_limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*clientLimiter)
	mu       sync.Mutex

	// Registrations run inference and two remote writes, so the per-IP
	// budget is deliberately small.
	perSecond rate.Limit = 2
	burst               = 5
)

// SetLimits overrides the per-IP budget; called once at startup.
func SetLimits(perSec float64, b int) {
	mu.Lock()
	defer mu.Unlock()
	perSecond = rate.Limit(perSec)
	burst = b
}

// GetVisitor returns the limiter for an IP, creating it on first sight.
func GetVisitor(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(perSecond, burst)
		visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// StartVisitorCleanupLoop evicts limiters for IPs idle longer than five
// minutes. Run as a goroutine.
func StartVisitorCleanupLoop() {
	for {
		time.Sleep(time.Minute)
		mu.Lock()
		for ip, v := range visitors {
			if time.Since(v.lastSeen) > 5*time.Minute {
				delete(visitors, ip)
			}
		}
		mu.Unlock()
	}
}

// CleanupAllVisitors resets the visitor map; test helper.
func CleanupAllVisitors() {
	mu.Lock()
	defer mu.Unlock()
	visitors = make(map[string]*clientLimiter)
}
