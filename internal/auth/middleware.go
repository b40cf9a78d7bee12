package auth

import (
	"net/http"
	"strings"

	"paygate-telemetry/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// HeaderWalletToken carries the signed wallet token.
const HeaderWalletToken = "X-Wallet-Token"

// WalletHandler is a route that is guaranteed a verified wallet: the
// wallet argument is never empty when the handler runs.
type WalletHandler func(c *gin.Context, tc *telemetry.Context, wallet string) error

// RequireSignedWallet wraps a handler that must only run for callers
// presenting a valid signed wallet token.
//
// A missing or invalid token short-circuits to a 401 challenge without
// invoking the inner handler; the challenge itself still produces an
// invocation record (verified field absent). On success the telemetry
// context is seeded with the verified address before the handler runs.
func RequireSignedWallet(ic *telemetry.Interceptor, v Verifier, h WalletHandler) gin.HandlerFunc {
	return ic.Wrap(func(c *gin.Context, tc *telemetry.Context) error {
		raw := strings.TrimSpace(c.GetHeader(HeaderWalletToken))
		if raw == "" {
			return &telemetry.ChallengeError{
				Status: http.StatusUnauthorized,
				Body:   gin.H{"error": "wallet token required"},
			}
		}

		wallet, err := v.Verify(raw)
		if err != nil {
			return &telemetry.ChallengeError{
				Status: http.StatusUnauthorized,
				Body:   gin.H{"error": "invalid wallet token"},
			}
		}

		tc.AssertVerifiedWallet(wallet)
		return h(c, tc, strings.ToLower(wallet))
	})
}
