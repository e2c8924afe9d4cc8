package auth

import (
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/franchise-service/internal/domain"
)

// Decode failure modes. Both demote the caller to anonymous at the
// authentication layer; they are distinguished for callers that care.
var (
	ErrMalformedToken   = jwt.ErrTokenMalformed
	ErrInvalidSignature = jwt.ErrTokenSignatureInvalid
	ErrMissingSubject   = jwt.ErrTokenInvalidSubject
)

// TokenCodec signs and verifies identity tokens. It is stateless: a token
// carries no expiry claim, and revocation is handled entirely by the
// session store, never by the codec.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec builds a codec over the process-wide signing secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Claims describes the JWT payload: an identity snapshot.
type Claims struct {
	Name  string        `json:"name"`
	Email string        `json:"email"`
	Roles []domain.Role `json:"roles"`
	jwt.RegisteredClaims
}

// Issue signs a token for the identity. The jti claim makes every issued
// token distinct, so two logins for the same user never collide.
func (tc *TokenCodec) Issue(identity domain.Identity) (string, error) {
	if identity.IsAnonymous() {
		return "", ErrMissingSubject
	}
	claims := &Claims{
		Name:  identity.Name,
		Email: identity.Email,
		Roles: identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatInt(identity.ID, 10),
			IssuedAt: jwt.NewNumericDate(time.Now()),
			ID:       uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Decode verifies the signature and reconstructs the identity. It never
// consults external state.
func (tc *TokenCodec) Decode(tokenStr string) (domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrMalformedToken
		}
		return tc.secret, nil
	})
	if err != nil {
		return domain.Identity{}, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, ErrMalformedToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return domain.Identity{}, ErrMissingSubject
	}

	return domain.Identity{
		ID:    id,
		Name:  claims.Name,
		Email: claims.Email,
		Roles: claims.Roles,
	}, nil
}
