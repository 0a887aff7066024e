package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/veracitylabs/veracity/internal/config"
	"github.com/veracitylabs/veracity/internal/store"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	apiKeyKey    contextKey = "api_key"
)

// keyHolder lets authMiddleware expose the resolved key to outer
// middleware without rebuilding the context chain.
type keyHolder struct {
	key *config.APIKey
}

// responseWriter captures the status code for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// keyFrom returns the authenticated API key, or an anonymous key when auth
// is disabled.
func keyFrom(ctx context.Context) *config.APIKey {
	if holder, ok := ctx.Value(apiKeyKey).(*keyHolder); ok && holder.key != nil {
		return holder.key
	}
	return &config.APIKey{Name: "anonymous", Tier: "free"}
}

// loggingMiddleware assigns a request ID and logs each request with its
// outcome and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := fmt.Sprintf("req_%d", start.UnixNano())
		atomic.AddInt64(&s.totalRequests, 1)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		ctx = context.WithValue(ctx, apiKeyKey, &keyHolder{})
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r.WithContext(ctx))

		duration := time.Since(start)
		s.logger.WithRequestID(requestID).Info("Request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.statusCode),
			zap.Duration("duration", duration))

		if s.store != nil {
			entry := store.RequestLog{
				APIKeyName:   keyFrom(ctx).Name,
				Endpoint:     r.URL.Path,
				StatusCode:   rw.statusCode,
				ResponseTime: duration.Seconds(),
			}
			go func() {
				logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := s.store.LogRequest(logCtx, entry); err != nil {
					s.logger.Warn("Failed to log request", zap.Error(err))
				}
			}()
		}
	})
}

// authMiddleware validates the API key from the Authorization header or
// the api_key query parameter.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.config.Auth.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		provided := extractAPIKey(r)
		if provided == "" {
			writeError(w, http.StatusUnauthorized, "API key required: use Authorization: Bearer <key> or ?api_key=<key>")
			return
		}

		key := s.lookupKey(provided)
		if key == nil {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		if holder, ok := r.Context().Value(apiKeyKey).(*keyHolder); ok {
			holder.key = key
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware enforces the authenticated key's hourly budget.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := keyFrom(r.Context())
		if !s.limiter.Allow(key.Key, key.RateLimit) {
			s.logger.Warn("Rate limit exceeded",
				zap.String("api_key_name", key.Name),
				zap.String("tier", key.Tier))
			writeError(w, http.StatusTooManyRequests,
				fmt.Sprintf("rate limit exceeded for tier %q (%d requests/hour)", key.Tier, key.RateLimit))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractAPIKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
		return ""
	}
	return r.URL.Query().Get("api_key")
}

func (s *Server) lookupKey(provided string) *config.APIKey {
	for i := range s.config.Auth.Keys {
		key := &s.config.Auth.Keys[i]
		if subtle.ConstantTimeCompare([]byte(key.Key), []byte(provided)) == 1 {
			return key
		}
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message, Status: status})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
