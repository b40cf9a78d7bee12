package main

import (
	"net/http"

	"paygate-telemetry/internal/auth"
	"paygate-telemetry/internal/paygate"
	"paygate-telemetry/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to
// internal modules; every protected route goes through the interceptor.
func registerRoutes(r *gin.Engine, ic *telemetry.Interceptor, verifier auth.Verifier) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		// Plain interception: identity extraction + recording, no gating.
		v1.POST("/echo", ic.Wrap(func(c *gin.Context, tc *telemetry.Context) error {
			c.JSON(http.StatusOK, gin.H{
				"verified_wallet":      tc.VerifiedWallet(),
				"self_reported_wallet": tc.SelfReportedWallet(),
				"client_id":            tc.ClientID(),
				"session_id":           tc.SessionID(),
			})
			return nil
		}))

		// Signed-wallet variant: the handler only runs for callers with a
		// valid wallet token and is guaranteed a non-empty address.
		v1.GET("/me", auth.RequireSignedWallet(ic, verifier, func(c *gin.Context, tc *telemetry.Context, wallet string) error {
			c.JSON(http.StatusOK, gin.H{"wallet": wallet})
			return nil
		}))

		// Payment-wrapped variant: shape validation, then payment
		// verification and settlement sequenced around the handler.
		type orderRequest struct {
			Item     string `json:"item" binding:"required"`
			Quantity int    `json:"quantity" binding:"required,min=1"`
		}
		v1.POST("/orders", paygate.WithPayment(ic, paygate.UpstreamGate{}, func(c *gin.Context, tc *telemetry.Context, body orderRequest) error {
			c.JSON(http.StatusCreated, gin.H{
				"item":     body.Item,
				"quantity": body.Quantity,
				"payer":    tc.VerifiedWallet(),
			})
			return nil
		}))
	}
}
