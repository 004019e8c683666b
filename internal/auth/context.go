package auth

import "github.com/gin-gonic/gin"

// GetProfessionalID returns the authenticated professional's ID or empty string.
func GetProfessionalID(c *gin.Context) string {
	if v, ok := c.Get("professionalID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetProfessionalEmail returns the authenticated professional's email or empty string.
func GetProfessionalEmail(c *gin.Context) string {
	if v, ok := c.Get("professionalEmail"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
