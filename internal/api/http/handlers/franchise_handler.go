package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/franchise-service/internal/api/dto"
	"github.com/spec-kit/franchise-service/internal/auth"
	"github.com/spec-kit/franchise-service/internal/domain"
	"github.com/spec-kit/franchise-service/internal/service"
	apperrors "github.com/spec-kit/franchise-service/pkg/util"
)

// FranchiseHandler exposes franchise and store endpoints.
type FranchiseHandler struct {
	franchises *service.FranchiseService
}

// NewFranchiseHandler constructs handler.
func NewFranchiseHandler(franchiseService *service.FranchiseService) *FranchiseHandler {
	return &FranchiseHandler{franchises: franchiseService}
}

// List handles GET /api/franchise.
func (h *FranchiseHandler) List(c *fiber.Ctx) error {
	franchises, err := h.franchises.ListFranchises(c.UserContext())
	if err != nil {
		return err
	}

	// Admin membership is only disclosed to global admins.
	includeAdmins := auth.IdentityFromContext(c).HasRole(domain.RoleAdmin)
	return c.JSON(toFranchiseResponses(franchises, includeAdmins))
}

// ListForUser handles GET /api/franchise/:userId.
func (h *FranchiseHandler) ListForUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid user id", nil)
	}

	identity := auth.IdentityFromContext(c)
	franchises, err := h.franchises.GetUserFranchises(c.UserContext(), identity, userID)
	if err != nil {
		return err
	}
	return c.JSON(toFranchiseResponses(franchises, true))
}

// Create handles POST /api/franchise.
func (h *FranchiseHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateFranchiseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	identity := auth.IdentityFromContext(c)
	franchise, err := h.franchises.CreateFranchise(c.UserContext(), identity, req.Name, req.Admins)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(toFranchiseResponse(*franchise, true))
}

// Delete handles DELETE /api/franchise/:franchiseId.
func (h *FranchiseHandler) Delete(c *fiber.Ctx) error {
	franchiseID, err := strconv.ParseInt(c.Params("franchiseId"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid franchise id", nil)
	}

	identity := auth.IdentityFromContext(c)
	if err := h.franchises.DeleteFranchise(c.UserContext(), identity, franchiseID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "franchise deleted"})
}

// CreateStore handles POST /api/franchise/:franchiseId/store.
func (h *FranchiseHandler) CreateStore(c *fiber.Ctx) error {
	franchiseID, err := strconv.ParseInt(c.Params("franchiseId"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid franchise id", nil)
	}

	var req dto.CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	identity := auth.IdentityFromContext(c)
	store, err := h.franchises.CreateStore(c.UserContext(), identity, franchiseID, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(toStoreResponse(*store))
}

// DeleteStore handles DELETE /api/franchise/:franchiseId/store/:storeId.
func (h *FranchiseHandler) DeleteStore(c *fiber.Ctx) error {
	franchiseID, err := strconv.ParseInt(c.Params("franchiseId"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid franchise id", nil)
	}
	storeID, err := strconv.ParseInt(c.Params("storeId"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid store id", nil)
	}

	identity := auth.IdentityFromContext(c)
	if err := h.franchises.DeleteStore(c.UserContext(), identity, franchiseID, storeID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "store deleted"})
}

func toFranchiseResponse(franchise domain.Franchise, includeAdmins bool) dto.FranchiseResponse {
	resp := dto.FranchiseResponse{
		ID:        franchise.ID,
		Name:      franchise.Name,
		Stores:    make([]dto.StoreResponse, 0, len(franchise.Stores)),
		CreatedAt: franchise.CreatedAt,
	}
	if includeAdmins {
		resp.AdminIDs = franchise.AdminIDs
	}
	for _, store := range franchise.Stores {
		resp.Stores = append(resp.Stores, toStoreResponse(store))
	}
	return resp
}

func toFranchiseResponses(franchises []domain.Franchise, includeAdmins bool) []dto.FranchiseResponse {
	result := make([]dto.FranchiseResponse, 0, len(franchises))
	for _, franchise := range franchises {
		result = append(result, toFranchiseResponse(franchise, includeAdmins))
	}
	return result
}

func toStoreResponse(store domain.Store) dto.StoreResponse {
	return dto.StoreResponse{
		ID:          store.ID,
		FranchiseID: store.FranchiseID,
		Name:        store.Name,
	}
}
