package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "spendlog/internal/errors"
)

const (
	tokenIssuer = "spendlog-api"
	userIDKey   = "userID"
)

// JWTClaims represents the claims in the JWT. The subject is the chat user
// ID the token was issued to.
type JWTClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an HS256 access token for userID valid for ttl.
func GenerateAccessToken(secret string, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken validates tokenString and returns the user ID it was
// issued to.
func ParseAccessToken(secret, tokenString string) (int64, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid or expired token")
	}
	if claims.TokenType != "access" {
		return 0, fmt.Errorf("token is not an access token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token subject %q is not a user id", claims.Subject)
	}
	return userID, nil
}

// AuthMiddleware verifies the bearer token and sets the user ID in the
// context. A non-empty allowlist admits only the listed users.
func AuthMiddleware(secret string, allowed []int64) gin.HandlerFunc {
	allow := make(map[int64]bool, len(allowed))
	for _, id := range allowed {
		allow[id] = true
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			writeError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		userID, err := ParseAccessToken(secret, parts[1])
		if err != nil {
			writeError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		if len(allow) > 0 && !allow[userID] {
			writeError(c, apperrors.ErrForbidden)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user ID set by AuthMiddleware.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
