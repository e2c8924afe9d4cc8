package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/franchise-service/internal/auth"
	"github.com/spec-kit/franchise-service/internal/domain"
	"github.com/spec-kit/franchise-service/internal/repository"
	apperrors "github.com/spec-kit/franchise-service/pkg/util"
)

// FranchiseService implements franchise and store operations. Every
// mutation routes through auth.AuthorizeResourceAction; no handler or
// repository re-implements the admin-or-owner condition.
type FranchiseService struct {
	franchises repository.FranchiseRepository
	stores     repository.StoreRepository
	users      repository.UserRepository
}

// FranchiseDependencies encapsulates repo requirements for the service.
type FranchiseDependencies struct {
	FranchiseRepo repository.FranchiseRepository
	StoreRepo     repository.StoreRepository
	UserRepo      repository.UserRepository
}

// NewFranchiseService builds the service.
func NewFranchiseService(deps FranchiseDependencies) *FranchiseService {
	return &FranchiseService{
		franchises: deps.FranchiseRepo,
		stores:     deps.StoreRepo,
		users:      deps.UserRepo,
	}
}

// CreateFranchise creates a franchise and grants its admin set. Admin only:
// an empty owner set means no ownership can satisfy the check.
func (s *FranchiseService) CreateFranchise(ctx context.Context, identity domain.Identity, name string, adminEmails []string) (*domain.Franchise, error) {
	if err := auth.AuthorizeResourceAction(identity, nil, "create franchise"); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.NewValidationError("franchise name is required", nil)
	}

	admins := make([]*domain.User, 0, len(adminEmails))
	for _, email := range adminEmails {
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewValidationError("unknown admin email", map[string]any{"email": email})
			}
			return nil, err
		}
		admins = append(admins, user)
	}

	franchise := &domain.Franchise{Name: name}
	if err := s.franchises.Create(ctx, franchise); err != nil {
		return nil, err
	}

	for _, admin := range admins {
		if err := s.franchises.AddAdmin(ctx, franchise.ID, admin.ID); err != nil {
			return nil, err
		}
		franchise.AdminIDs = append(franchise.AdminIDs, admin.ID)

		if !admin.Identity().HasRole(domain.RoleFranchisee) {
			admin.Roles = append(admin.Roles, domain.RoleFranchisee)
			if err := s.users.Update(ctx, admin); err != nil {
				return nil, err
			}
		}
	}
	return franchise, nil
}

// DeleteFranchise removes a franchise and, via cascade, its admin set and
// stores. Admin only.
func (s *FranchiseService) DeleteFranchise(ctx context.Context, identity domain.Identity, franchiseID int64) error {
	if err := auth.AuthorizeResourceAction(identity, nil, "delete franchise"); err != nil {
		return err
	}
	if err := s.franchises.Delete(ctx, franchiseID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("franchise", map[string]any{"id": franchiseID})
		}
		return err
	}
	return nil
}

// ListFranchises returns all franchises with their stores. Readable by
// anyone, including anonymous callers.
func (s *FranchiseService) ListFranchises(ctx context.Context) ([]domain.Franchise, error) {
	franchises, err := s.franchises.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range franchises {
		stores, err := s.stores.ListByFranchise(ctx, franchises[i].ID)
		if err != nil {
			return nil, err
		}
		franchises[i].Stores = stores
	}
	return franchises, nil
}

// GetUserFranchises returns the franchises a user administers. Self-or-admin.
func (s *FranchiseService) GetUserFranchises(ctx context.Context, identity domain.Identity, userID int64) ([]domain.Franchise, error) {
	if err := auth.AuthorizeResourceAction(identity, []int64{userID}, "list user franchises"); err != nil {
		return nil, err
	}
	franchises, err := s.franchises.ListByAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range franchises {
		stores, err := s.stores.ListByFranchise(ctx, franchises[i].ID)
		if err != nil {
			return nil, err
		}
		franchises[i].Stores = stores
	}
	return franchises, nil
}

// CreateStore adds a store to a franchise. Permitted for global admins and
// members of the franchise's admin set.
func (s *FranchiseService) CreateStore(ctx context.Context, identity domain.Identity, franchiseID int64, name string) (*domain.Store, error) {
	owners, err := s.franchiseOwners(ctx, franchiseID)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeResourceAction(identity, owners, "create store"); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.NewValidationError("store name is required", nil)
	}

	store := &domain.Store{FranchiseID: franchiseID, Name: name}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// DeleteStore removes a store. Same authorization as CreateStore.
func (s *FranchiseService) DeleteStore(ctx context.Context, identity domain.Identity, franchiseID, storeID int64) error {
	owners, err := s.franchiseOwners(ctx, franchiseID)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeResourceAction(identity, owners, "delete store"); err != nil {
		return err
	}
	if err := s.stores.Delete(ctx, franchiseID, storeID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("store", map[string]any{"id": storeID})
		}
		return err
	}
	return nil
}

func (s *FranchiseService) franchiseOwners(ctx context.Context, franchiseID int64) ([]int64, error) {
	franchise, err := s.franchises.GetByID(ctx, franchiseID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("franchise", map[string]any{"id": franchiseID})
		}
		return nil, err
	}
	return franchise.AdminIDs, nil
}
