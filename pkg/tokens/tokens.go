package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSignature covers every decode failure: a bad signature, an
// unexpected signing method or an unparsable payload.
var ErrInvalidSignature = errors.New("invalid token signature")

// AccessTTL is the access token lifetime. It is deliberately short; an
// active session is kept alive by the transparent refresh path instead.
const AccessTTL = 3 * time.Minute

type Claims struct {
	jwt.RegisteredClaims
}

// Codec issues and decodes signed access tokens. Decode verifies the
// signature only: expiry is checked by the caller, which needs to tell a
// forged token apart from a merely expired one.
type Codec struct {
	Secret []byte
	TTL    time.Duration
}

func NewCodec(secret []byte) *Codec {
	return &Codec{Secret: secret, TTL: AccessTTL}
}

func (c *Codec) Issue(subject string) (string, time.Time, error) {
	exp := time.Now().Add(c.TTL)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (c *Codec) Decode(raw string) (*Claims, error) {
	var claims Claims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	tkn, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.Secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidSignature
	}
	return &claims, nil
}

// Expired reports whether the claims carry an expiry in the past. Claims
// without an expiry are treated as expired; Issue always sets one.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.Time.Before(now)
}
