package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/franchise-service/internal/api/dto"
	"github.com/spec-kit/franchise-service/internal/auth"
	"github.com/spec-kit/franchise-service/internal/domain"
	"github.com/spec-kit/franchise-service/internal/service"
)

type stubFranchiseRepo struct {
	franchises []domain.Franchise
}

func (s *stubFranchiseRepo) Create(context.Context, *domain.Franchise) error { return nil }
func (s *stubFranchiseRepo) Delete(context.Context, int64) error             { return nil }
func (s *stubFranchiseRepo) AddAdmin(context.Context, int64, int64) error    { return nil }

func (s *stubFranchiseRepo) GetByID(_ context.Context, id int64) (*domain.Franchise, error) {
	for _, franchise := range s.franchises {
		if franchise.ID == id {
			return &franchise, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubFranchiseRepo) List(context.Context) ([]domain.Franchise, error) {
	return append([]domain.Franchise(nil), s.franchises...), nil
}

func (s *stubFranchiseRepo) ListByAdmin(_ context.Context, userID int64) ([]domain.Franchise, error) {
	var result []domain.Franchise
	for _, franchise := range s.franchises {
		for _, adminID := range franchise.AdminIDs {
			if adminID == userID {
				result = append(result, franchise)
				break
			}
		}
	}
	return result, nil
}

func (s *stubFranchiseRepo) AdminIDs(_ context.Context, franchiseID int64) ([]int64, error) {
	franchise, err := s.GetByID(context.Background(), franchiseID)
	if err != nil {
		return nil, err
	}
	return franchise.AdminIDs, nil
}

type stubStoreRepo struct{}

func (s *stubStoreRepo) Create(context.Context, *domain.Store) error { return nil }
func (s *stubStoreRepo) Delete(context.Context, int64, int64) error  { return nil }
func (s *stubStoreRepo) ListByFranchise(context.Context, int64) ([]domain.Store, error) {
	return nil, nil
}

type stubSessionRepo struct {
	mu     sync.Mutex
	active map[string]int64
}

func (s *stubSessionRepo) Record(_ context.Context, token string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[token] = userID
	return nil
}

func (s *stubSessionRepo) IsActive(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[token]
	return ok, nil
}

func (s *stubSessionRepo) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, token)
	return nil
}

func TestFranchiseHandler_List_AdminMembershipVisibility(t *testing.T) {
	svc := service.NewFranchiseService(service.FranchiseDependencies{
		FranchiseRepo: &stubFranchiseRepo{franchises: []domain.Franchise{
			{ID: 1, Name: "pizzaPocket", AdminIDs: []int64{4}},
		}},
		StoreRepo: &stubStoreRepo{},
	})

	codec := auth.NewTokenCodec("test-secret")
	sessions := &stubSessionRepo{active: make(map[string]int64)}
	authenticator := auth.NewSessionAuthenticator(codec, sessions)

	app := fiber.New()
	handler := NewFranchiseHandler(svc)
	app.Get("/api/franchise", authenticator.Handle, handler.List)

	login := func(t *testing.T, identity domain.Identity) string {
		t.Helper()
		token, err := codec.Issue(identity)
		require.NoError(t, err)
		require.NoError(t, sessions.Record(context.Background(), token, identity.ID))
		return token
	}

	list := func(t *testing.T, token string) ([]dto.FranchiseResponse, string) {
		t.Helper()
		req := httptest.NewRequest("GET", "/api/franchise", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var listed []dto.FranchiseResponse
		require.NoError(t, json.Unmarshal(body, &listed))
		return listed, string(body)
	}

	t.Run("global admin sees the admin id set", func(t *testing.T) {
		token := login(t, domain.Identity{ID: 9, Email: "a@jwt.com", Roles: []domain.Role{domain.RoleAdmin}})

		listed, raw := list(t, token)
		require.Len(t, listed, 1)
		assert.Equal(t, []int64{4}, listed[0].AdminIDs)
		assert.Contains(t, raw, "admin_ids")
	})

	t.Run("diner does not", func(t *testing.T) {
		token := login(t, domain.Identity{ID: 3, Email: "d@jwt.com", Roles: []domain.Role{domain.RoleDiner}})

		listed, raw := list(t, token)
		require.Len(t, listed, 1)
		assert.Empty(t, listed[0].AdminIDs)
		assert.NotContains(t, raw, "admin_ids")
	})

	t.Run("anonymous does not", func(t *testing.T) {
		listed, raw := list(t, "")
		require.Len(t, listed, 1)
		assert.Empty(t, listed[0].AdminIDs)
		assert.NotContains(t, raw, "admin_ids")
	})
}
