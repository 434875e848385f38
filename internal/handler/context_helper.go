package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/davideferri/interro-risk-api/internal/middleware"
	"github.com/davideferri/interro-risk-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// studentScope resolves whose risk perspective a request wants: an explicit
// student_id query wins, otherwise a student-role caller sees their own.
func studentScope(c *gin.Context) string {
	if studentID := c.Query("student_id"); studentID != "" {
		return studentID
	}
	if claims := claimsFromContext(c); claims != nil {
		return claims.StudentID
	}
	return ""
}
