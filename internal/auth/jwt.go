package auth

import (
	"errors"
	"strings"
	"time"

	"paygate-telemetry/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verifier checks a raw signed-identity header value and returns the
// wallet address it binds, or an error when the proof does not hold.
// Implementations other than the JWT Manager (API-key lookups, session
// schemes) plug in here with equal trust weight.
type Verifier interface {
	Verify(raw string) (string, error)
}

// Claims is the only supported wallet-token claims shape. The wallet
// address travels as the registered subject.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and verifies signed wallet tokens (HS256).
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.TokenSecret == "" {
		return nil, errors.New("AUTH_TOKEN_SECRET is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Manager{
		secret:   []byte(cfg.TokenSecret),
		issuer:   cfg.TokenIssuer,
		audience: cfg.TokenAudience,
		ttl:      ttl,
	}, nil
}

// Issue signs a token binding the given wallet address.
func (m *Manager) Issue(now time.Time, wallet string) (string, error) {
	wallet = strings.ToLower(strings.TrimSpace(wallet))
	if wallet == "" {
		return "", errors.New("wallet address is required")
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   wallet,
			Issuer:    m.issuer,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify parses and validates a wallet token and returns the bound
// address, lower-cased.
func (m *Manager) Verify(raw string) (string, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second), // clock skew tolerance
	)

	_, err := parser.ParseWithClaims(strings.TrimSpace(raw), &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}

	opts := []jwt.ParserOption{
		jwt.WithLeeway(30 * time.Second),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}
	if err := jwt.NewValidator(opts...).Validate(claims.RegisteredClaims); err != nil {
		return "", err
	}

	wallet := strings.ToLower(strings.TrimSpace(claims.Subject))
	if wallet == "" {
		return "", errors.New("wallet subject missing")
	}
	return wallet, nil
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
