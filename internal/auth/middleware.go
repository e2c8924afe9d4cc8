package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/franchise-service/internal/domain"
	"github.com/spec-kit/franchise-service/internal/repository"
)

const identityKey = "auth_identity"

// SessionAuthenticator resolves bearer tokens into identities. A token is
// honored only when it decodes with a valid signature and its session
// record is still active; every other outcome demotes the request to
// Anonymous rather than failing it.
type SessionAuthenticator struct {
	codec    *TokenCodec
	sessions repository.SessionRepository
}

// NewSessionAuthenticator constructs the authenticator.
func NewSessionAuthenticator(codec *TokenCodec, sessions repository.SessionRepository) *SessionAuthenticator {
	return &SessionAuthenticator{codec: codec, sessions: sessions}
}

// Handle runs once per inbound request, before any route logic, and
// attaches the resolved identity to the request context.
func (a *SessionAuthenticator) Handle(c *fiber.Ctx) error {
	identity := a.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if !identity.IsAnonymous() {
		c.Locals(identityKey, identity)
	}
	return c.Next()
}

// Authenticate resolves a raw Authorization header value. Decode and
// session-liveness failures are expected and absorbed into Anonymous.
func (a *SessionAuthenticator) Authenticate(ctx context.Context, rawHeader string) domain.Identity {
	token, ok := BearerToken(rawHeader)
	if !ok {
		return domain.Identity{}
	}

	identity, err := a.codec.Decode(token)
	if err != nil {
		return domain.Identity{}
	}

	active, err := a.sessions.IsActive(ctx, token)
	if err != nil || !active {
		return domain.Identity{}
	}
	return identity
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// IdentityFromContext retrieves the identity resolved for this request.
// Returns Anonymous when authentication did not succeed.
func IdentityFromContext(c *fiber.Ctx) domain.Identity {
	if identity, ok := c.Locals(identityKey).(domain.Identity); ok {
		return identity
	}
	return domain.Identity{}
}
