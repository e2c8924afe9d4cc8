package auth

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/franchise-service/internal/domain"
)

type fakeSessionStore struct {
	mu     sync.Mutex
	active map[string]int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{active: make(map[string]int64)}
}

func (f *fakeSessionStore) Record(_ context.Context, token string, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active[token] = userID
	return nil
}

func (f *fakeSessionStore) IsActive(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.active[token]
	return ok, nil
}

func (f *fakeSessionStore) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, token)
	return nil
}

func TestBearerToken(t *testing.T) {
	t.Run("extracts token", func(t *testing.T) {
		token, ok := BearerToken("Bearer abc.def.ghi")
		require.True(t, ok)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("prefix is case-insensitive", func(t *testing.T) {
		_, ok := BearerToken("bearer abc")
		assert.True(t, ok)
	})

	t.Run("missing or wrong prefix", func(t *testing.T) {
		for _, header := range []string{"", "abc", "Basic abc", "Bearer ", "Bearer"} {
			_, ok := BearerToken(header)
			assert.False(t, ok, "header %q", header)
		}
	})
}

func TestSessionAuthenticator_Authenticate(t *testing.T) {
	codec := NewTokenCodec("test-secret")
	identity := domain.Identity{ID: 11, Name: "a", Email: "a@x.com", Roles: []domain.Role{domain.RoleDiner}}

	t.Run("valid token with active session resolves identity", func(t *testing.T) {
		sessions := newFakeSessionStore()
		authenticator := NewSessionAuthenticator(codec, sessions)

		token, err := codec.Issue(identity)
		require.NoError(t, err)
		require.NoError(t, sessions.Record(context.Background(), token, identity.ID))

		resolved := authenticator.Authenticate(context.Background(), "Bearer "+token)
		assert.Equal(t, identity, resolved)
		assert.True(t, resolved.HasRole(domain.RoleDiner))
	})

	t.Run("revoked session demotes to anonymous although decode succeeds", func(t *testing.T) {
		sessions := newFakeSessionStore()
		authenticator := NewSessionAuthenticator(codec, sessions)

		token, err := codec.Issue(identity)
		require.NoError(t, err)
		require.NoError(t, sessions.Record(context.Background(), token, identity.ID))
		require.NoError(t, sessions.Revoke(context.Background(), token))

		decoded, err := codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, identity.ID, decoded.ID)

		resolved := authenticator.Authenticate(context.Background(), "Bearer "+token)
		assert.True(t, resolved.IsAnonymous())
	})

	t.Run("missing header is anonymous", func(t *testing.T) {
		authenticator := NewSessionAuthenticator(codec, newFakeSessionStore())
		assert.True(t, authenticator.Authenticate(context.Background(), "").IsAnonymous())
	})

	t.Run("tampered token is anonymous", func(t *testing.T) {
		sessions := newFakeSessionStore()
		authenticator := NewSessionAuthenticator(codec, sessions)

		token, err := codec.Issue(identity)
		require.NoError(t, err)
		require.NoError(t, sessions.Record(context.Background(), token, identity.ID))

		resolved := authenticator.Authenticate(context.Background(), "Bearer "+token[:len(token)-2]+"xx")
		assert.True(t, resolved.IsAnonymous())
	})
}

func TestSessionAuthenticator_Handle(t *testing.T) {
	codec := NewTokenCodec("test-secret")
	sessions := newFakeSessionStore()
	authenticator := NewSessionAuthenticator(codec, sessions)

	app := fiber.New()
	app.Get("/whoami", authenticator.Handle, func(c *fiber.Ctx) error {
		identity := IdentityFromContext(c)
		if identity.IsAnonymous() {
			return c.SendString("anonymous")
		}
		return c.SendString(identity.Email)
	})

	identity := domain.Identity{ID: 5, Email: "f@jwt.com", Roles: []domain.Role{domain.RoleFranchisee}}
	token, err := codec.Issue(identity)
	require.NoError(t, err)
	require.NoError(t, sessions.Record(context.Background(), token, identity.ID))

	t.Run("attaches identity to request context", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "f@jwt.com", string(body))
	})

	t.Run("request without header proceeds as anonymous", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "anonymous", string(body))
	})
}
