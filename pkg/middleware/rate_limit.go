package middleware

import (
	"net/http"
	"sync"
	"time"

	"mensa/pkg/logger"
)

// StudentExtractor pulls the requesting student's id out of the request so the
// limiter can throttle per student rather than per IP.
type StudentExtractor func(r *http.Request) string

type StudentRateLimiter struct {
	mu        sync.RWMutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor StudentExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewStudentRateLimiter(limit int, window time.Duration, extractor StudentExtractor, log *logger.Logger) *StudentRateLimiter {
	limiter := &StudentRateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *StudentRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for student, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, student)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *StudentRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *StudentRateLimiter) Allow(studentID string) bool {
	if studentID == "" {
		return true
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := make([]time.Time, 0, len(rl.requests[studentID]))
	for _, ts := range rl.requests[studentID] {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[studentID] = valid
		return false
	}

	rl.requests[studentID] = append(valid, now)
	return true
}

// DefaultStudentExtractor reads the student id from the X-Student-ID header,
// which the identity-mapping layer in front of this service sets.
func DefaultStudentExtractor(r *http.Request) string {
	return r.Header.Get("X-Student-ID")
}

func StudentRateLimit(limiter *StudentRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			studentID := ""
			if limiter.extractor != nil {
				studentID = limiter.extractor(r)
			}

			if studentID == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(studentID) {
				rejectRateLimited(w, limiter.log, r, studentID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectRateLimited(w http.ResponseWriter, log *logger.Logger, r *http.Request, studentID string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Rate limit exceeded",
		"request_id", requestID,
		"student_id", studentID,
		"path", r.URL.Path,
		"method", r.Method,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"Too many requests, please slow down"}`))
}
