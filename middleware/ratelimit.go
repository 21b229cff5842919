package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/thansetan/holi/helper"
)

type RateLimit struct {
	store                     *sync.Map
	keyGetter                 func(r *http.Request) string
	maxVisitCount             uint64
	duration, cleanupDuration time.Duration
	stop                      chan struct{}
	stopOnce                  sync.Once
}

type visitor struct {
	mu          *sync.RWMutex
	windowStart time.Time
	count       uint64
}

func NewRateLimit(maxVisitCount uint64, duration, cleanupDuration time.Duration, keyGetter func(*http.Request) string) *RateLimit {
	if keyGetter == nil {
		keyGetter = RemoteIP
	}
	rl := new(RateLimit)
	rl.maxVisitCount = maxVisitCount
	rl.duration = duration
	rl.cleanupDuration = cleanupDuration
	rl.keyGetter = keyGetter
	rl.store = new(sync.Map)
	rl.stop = make(chan struct{})
	go rl.cleanup()

	return rl
}

// RemoteIP keys clients by the host part of the request's remote address.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Handle limits requests with one of the given methods. Any other method
// passes through uncounted. With no methods every request is counted.
func (rl *RateLimit) Handle(next http.Handler, methods ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limited(r.Method, methods) {
			next.ServeHTTP(w, r)
			return
		}
		key := rl.keyGetter(r)
		valAny, _ := rl.store.LoadOrStore(key, &visitor{
			windowStart: time.Now(),
			mu:          new(sync.RWMutex),
		})
		val := valAny.(*visitor)

		val.mu.Lock()
		if time.Since(val.windowStart) > rl.duration {
			val.count = 0
			val.windowStart = time.Now()
		}

		if val.count >= rl.maxVisitCount {
			val.mu.Unlock()
			helper.WriteMessage(w, http.StatusTooManyRequests, "slow down, the moon isn't going anywhere!")
			return
		}
		val.count++
		val.mu.Unlock()

		next.ServeHTTP(w, r)
	}
}

func limited(method string, methods []string) bool {
	if len(methods) == 0 {
		return true
	}
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

// Stop ends the background sweep of expired visitors. It is safe to call
// more than once.
func (rl *RateLimit) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimit) cleanup() {
	ticker := time.NewTicker(rl.cleanupDuration)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimit) sweep() {
	rl.store.Range(func(key, value any) bool {
		v := value.(*visitor)
		v.mu.RLock()
		windowPassed := time.Since(v.windowStart) > rl.duration
		v.mu.RUnlock()
		if windowPassed {
			rl.store.Delete(key)
		}

		return true
	})
}
