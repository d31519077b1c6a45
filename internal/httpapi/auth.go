package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/abhisek/lessonroom/internal/logger"
)

const (
	ctxUserID   = "lessonroom.user_id"
	ctxClientID = "lessonroom.client_id"

	// HeaderClientID names the browser profile whose resume keys are used.
	HeaderClientID = "X-Client-ID"
)

// Authenticator verifies HS256 bearer tokens issued by the identity
// provider. The token subject is the user id.
type Authenticator struct {
	secret  []byte
	devUser string
	log     *logger.Logger
}

// NewAuthenticator creates an Authenticator. When devUser is set, requests
// without a bearer token are treated as that user.
func NewAuthenticator(secret, devUser string, log *logger.Logger) *Authenticator {
	if log == nil {
		log = logger.Nop()
	}
	return &Authenticator{secret: []byte(secret), devUser: devUser, log: log.With("middleware", "auth")}
}

// IssueToken signs a token for userID. Used by tests and local tooling.
func IssueToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// UserID verifies tokenString and returns its subject.
func (a *Authenticator) UserID(tokenString string) (string, error) {
	if len(a.secret) == 0 {
		return "", fmt.Errorf("token verification is not configured")
	}
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !tok.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}

// RequireAuth resolves the user and client of every request.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID string
		if token := bearerToken(c); token != "" {
			id, err := a.UserID(token)
			if err != nil {
				a.log.Debug("rejected token", "error", err)
				RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing or invalid token"))
				return
			}
			userID = id
		} else if a.devUser != "" {
			userID = a.devUser
		} else {
			RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing or invalid token"))
			return
		}

		clientID := strings.TrimSpace(c.GetHeader(HeaderClientID))
		if clientID == "" {
			RespondError(c, http.StatusBadRequest, "missing_client_id", fmt.Errorf("%s header is required", HeaderClientID))
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxClientID, clientID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func userID(c *gin.Context) string   { return c.GetString(ctxUserID) }
func clientID(c *gin.Context) string { return c.GetString(ctxClientID) }
