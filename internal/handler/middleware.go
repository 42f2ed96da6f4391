package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tuitionpay/internal/models"
	"tuitionpay/internal/service"
)

const customerContextKey = "customer"

// RequireSession resolves the bearer token to a customer and aborts with
// 401 otherwise. Every screen past login re-validates against the server.
func RequireSession(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := auth.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(customerContextKey, customer)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentCustomer(c *gin.Context) *models.Customer {
	v, ok := c.Get(customerContextKey)
	if !ok {
		return nil
	}
	customer, _ := v.(*models.Customer)
	return customer
}
