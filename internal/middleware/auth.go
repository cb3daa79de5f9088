package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"leadgram-backend/internal/config"
	"leadgram-backend/internal/utils"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDFromContext returns the owner id resolved by AuthMiddleware.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// devMockUserID stands in for a Telegram login when ENVIRONMENT=development.
const devMockUserID = "123456789"

type Middleware struct {
	Config       *config.Config
	rateLimiters sync.Map
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{Config: cfg}
}

// AuthMiddleware resolves the owner id. Telegram WebApp init data is checked
// first, then a JWT bearer token; in development a mock user is substituted
// so the frontend can run without a bot token. Handlers downstream must only
// ever use this resolved id, never one supplied in the request body.
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if initData := r.Header.Get("X-Telegram-Init-Data"); initData != "" {
			userID, err := utils.ValidateTelegramInitData(initData, m.Config.TelegramBotToken, time.Now())
			if err == nil {
				next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
				return
			}
		}

		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			userID, err := m.parseToken(authHeader)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
				return
			}
		}

		if m.Config.Environment == "development" {
			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), devMockUserID)))
			return
		}

		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized: Invalid or missing authentication")
	})
}

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func (m *Middleware) parseToken(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid authorization format")
	}
	return utils.ParseUserIDFromToken(parts[1], m.Config.JWTSecret)
}

func (m *Middleware) CORS(next http.Handler) http.Handler {
	allowed := m.Config.AllowedOrigins
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin, allowed) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(allowed) == 1 && allowed[0] == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Telegram-Init-Data")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true // non-browser clients
	}
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// simple token bucket per IP
type limiter struct {
	tokens     int
	lastRefill time.Time
}

func (m *Middleware) RateLimitMiddleware(next http.Handler) http.Handler {
	const (
		maxTokens    = 60
		refillPeriod = time.Minute
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := strings.Split(r.RemoteAddr, ":")[0]

		val, _ := m.rateLimiters.LoadOrStore(ip, &limiter{tokens: maxTokens, lastRefill: time.Now()})
		lim := val.(*limiter)

		now := time.Now()
		if since := now.Sub(lim.lastRefill); since > refillPeriod {
			lim.tokens = maxTokens
			lim.lastRefill = now
		}

		if lim.tokens <= 0 {
			utils.ErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		lim.tokens--

		next.ServeHTTP(w, r)
	})
}
