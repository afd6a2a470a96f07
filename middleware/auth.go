package middleware

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ValidateToken parses the Authorization header and puts user_id (uint) and
// is_staff (bool) into the request context. Registration and token issuance
// live in a separate identity service; this API only verifies.
func ValidateToken(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		c.Abort()
		return
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return
	}
	c.Set("user_id", uint(userID))

	isStaff, _ := claims["is_staff"].(bool)
	c.Set("is_staff", isStaff)

	c.Next()
}

// RequireStaff gates admin-only endpoints. Must run after ValidateToken.
func RequireStaff(c *gin.Context) {
	if !c.GetBool("is_staff") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
		c.Abort()
		return
	}
	c.Next()
}

// UserID returns the authenticated user id set by ValidateToken.
func UserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}

// IsStaff reports whether the authenticated user carries the staff claim.
func IsStaff(c *gin.Context) bool {
	return c.GetBool("is_staff")
}
