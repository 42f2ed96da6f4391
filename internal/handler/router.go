package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tuitionpay/internal/config"
	"tuitionpay/internal/service"
)

func NewRouter(cfg *config.Config, h *HTTPHandler, auth service.AuthService) *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true

	// Dev-grade CORS: the campus portal runs the frontend from file:// or
	// a local static server.
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.POST("/login", h.HandleLogin)

	authed := router.Group("/")
	authed.Use(RequireSession(auth))
	{
		authed.POST("/logout", h.HandleLogout)

		authed.GET("/students/:id/debt", h.HandleStudentDebt)

		payments := authed.Group("/payments")
		{
			payments.POST("", h.HandlePaymentLookup)
			payments.POST("/:id/confirm", h.HandlePaymentConfirm)
			payments.POST("/:id/verify", h.HandlePaymentVerify)
			payments.POST("/:id/cancel", h.HandlePaymentCancel)
		}

		authed.GET("/transactions", h.HandleTransactionList)
		authed.GET("/transactions/:id", h.HandleTransactionDetail)
		authed.GET("/transactions/:id/receipt", h.HandleReceiptDownload)
	}

	return router
}
