// Package embed signs the short-lived tokens the analytics dashboard needs
// to render an embedded dashboard.
package embed

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"trialfinder/internal/trials/models"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = time.Hour

// Resource names the embedded dashboard.
type Resource struct {
	Dashboard int `json:"dashboard"`
}

// Claims is the payload the dashboard server expects: the resource to show,
// locked parameters, and an expiry.
type Claims struct {
	Resource Resource       `json:"resource"`
	Params   map[string]any `json:"params"`
	jwt.RegisteredClaims
}

// Signer issues HS256 embedding tokens for one dashboard.
type Signer struct {
	secret      []byte
	dashboardID int
	ttl         time.Duration
}

func NewSigner(secret string, dashboardID int, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{
		secret:      []byte(secret),
		dashboardID: dashboardID,
		ttl:         ttl,
	}
}

// Issue signs a token valid from now until now plus the signer's TTL.
func (s *Signer) Issue(now time.Time) (*models.EmbedToken, error) {
	expiresAt := now.Add(s.ttl).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Resource: Resource{Dashboard: s.dashboardID},
		Params:   map[string]any{},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &models.EmbedToken{
		Token:       signed,
		DashboardID: s.dashboardID,
		ExpiresAt:   expiresAt,
	}, nil
}
