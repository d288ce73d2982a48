package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every way a presented token can fail: bad signature,
// unexpected algorithm, malformed payload, missing subject, or expiry. Callers
// never learn which, and protected endpoints treat all of them as a missing
// session.
var ErrInvalidToken = errors.New("invalid session token")

// Issuer mints and validates signed session tokens. Tokens are stateless:
// validity is a pure function of the HMAC signature and the exp claim. There
// is no revocation store, so logout cannot cut an outstanding token short —
// it stays valid until natural expiry.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// TTL reports the configured token lifetime. The login handler uses it to set
// the cookie MaxAge so the cookie and the token expire together.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs an HS256 token carrying the admin username as the subject.
func (i *Issuer) Issue(username string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Validate parses and verifies a presented token string and returns the
// subject username. Garbage input returns ErrInvalidToken, never a panic.
func (i *Issuer) Validate(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject anything but HMAC so a crafted "alg" header can't downgrade
		// verification.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
