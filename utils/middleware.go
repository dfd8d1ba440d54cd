package utils

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thyagolima23/cozinha-backend/metrics"
	"github.com/thyagolima23/cozinha-backend/model"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextRequestID = "request_id"

	HeaderRequestID = "X-Request-Id"
)

var errTokenFormat = errors.New("invalid token format")

// Authenticator resolves a bearer token into the cook it was issued to.
type Authenticator interface {
	Authenticate(token string) (model.Identity, error)
}

// CookMiddleware rejects requests without a valid bearer token and stores
// the authenticated cook in the gin context.
func CookMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token não fornecido"})
			return
		}

		id, err := identityFromHeader(auth, authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido ou expirado"})
			return
		}
		setIdentity(c, id)

		c.Next()
	}
}

// OptionalCookMiddleware lets anonymous requests through, but a request that
// does carry an Authorization header must carry a valid one.
func OptionalCookMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		id, err := identityFromHeader(auth, authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido ou expirado"})
			return
		}
		setIdentity(c, id)

		c.Next()
	}
}

func identityFromHeader(auth Authenticator, authHeader string) (model.Identity, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return model.Identity{}, errTokenFormat
	}
	return auth.Authenticate(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
}

func setIdentity(c *gin.Context, id model.Identity) {
	c.Set(ContextUserID, id.CookID)
	c.Set(ContextUserEmail, id.Email)
}

// CurrentCook returns the cook authenticated for this request, if any.
func CurrentCook(c *gin.Context) (model.Identity, bool) {
	cookID := c.GetUint(ContextUserID)
	if cookID == 0 {
		return model.Identity{}, false
	}
	return model.Identity{CookID: cookID, Email: c.GetString(ContextUserEmail)}, true
}

// RequestID propagates the caller's X-Request-Id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		logger.LogAttrs(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("route", routeOf(c)),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("client_ip", c.ClientIP()),
			slog.String("request_id", c.GetString(ContextRequestID)),
		)
	}
}

// Metrics records RED metrics per matched route. Unmatched paths share a
// single label value to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		route := routeOf(c)
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
