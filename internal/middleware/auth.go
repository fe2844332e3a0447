package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/doktor-na-dohled/booking-api/pkg/errors"
	"github.com/doktor-na-dohled/booking-api/pkg/httputil"
)

const (
	// ContextUserID is where the authenticated user's id lands after
	// Authenticate.
	ContextUserID = "userID"

	msgMissingToken = "Chybí autentizační token"
	msgUnknownUser  = "Nepodařilo se identifikovat uživatele"
)

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Authenticate verifies the bearer token and sets the patient id in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized(msgMissingToken, nil))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondWithError(c, apperrors.Unauthorized(msgMissingToken, nil))
			c.Abort()
			return
		}

		userID, err := m.parseSubject(parts[1])
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthorized(msgUnknownUser, err))
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID.String())
		c.Next()
	}
}

func (m *AuthMiddleware) parseSubject(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(sub)
}

// UserID extracts the authenticated user id set by Authenticate.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(ContextUserID)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
