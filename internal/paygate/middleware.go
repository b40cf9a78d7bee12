package paygate

import (
	"context"
	"errors"
	"net/http"

	"paygate-telemetry/internal/telemetry"
	"paygate-telemetry/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PaidHandler receives the validated request body alongside the telemetry
// context.
type PaidHandler[T any] func(c *gin.Context, tc *telemetry.Context, body T) error

// WithPayment wraps a handler with request-shape validation and payment
// sequencing on top of the telemetry interceptor.
//
// Order per request: bind/validate the JSON body (400 on failure), ask the
// gate to verify payment (402 challenge on failure or timeout), run the
// handler, then settle. Settlement is suppressed when the handler fails or
// the request context has been cancelled; a settlement failure after a
// successful handler is logged and never alters the response.
func WithPayment[T any](ic *telemetry.Interceptor, gate Gate, h PaidHandler[T]) gin.HandlerFunc {
	return ic.Wrap(func(c *gin.Context, tc *telemetry.Context) error {
		var body T
		if err := c.ShouldBindJSON(&body); err != nil {
			return telemetry.NewStatusError(http.StatusBadRequest, "invalid request body")
		}

		rc, err := gate.Verify(c.Request.Context(), c.Request)
		if err != nil {
			msg := "payment required"
			if errors.Is(err, context.DeadlineExceeded) {
				msg = "payment verification timed out"
			}
			return &telemetry.ChallengeError{
				Status: http.StatusPaymentRequired,
				Body:   gin.H{"error": msg},
			}
		}
		if rc.Payer != "" {
			tc.AssertVerifiedWallet(rc.Payer)
		}

		if err := h(c, tc, body); err != nil {
			// Handler failed: do not settle.
			return err
		}
		if c.Request.Context().Err() != nil {
			// Request cancelled under the handler: do not settle.
			return nil
		}

		if err := gate.Settle(c.Request.Context(), rc); err != nil {
			logger.FromGin(c).Error("payment settlement failed",
				"err", err, "reference", rc.Reference, "invocation_id", tc.InvocationID())
		}
		return nil
	})
}
