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

// UsersHandler exposes the credential lifecycle endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /api/auth.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	})
}

// Login handles PUT /api/auth.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	user, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	})
}

// Logout handles DELETE /api/auth.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), c.Get(fiber.HeaderAuthorization)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "logout successful"})
}

// Me handles GET /api/user/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	identity := auth.IdentityFromContext(c)
	if err := auth.RequireAuthenticated(identity); err != nil {
		return err
	}

	user, err := h.auth.GetUser(c.UserContext(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(toUserResponse(user))
}

// Update handles PUT /api/user/:userId.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid user id", nil)
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	identity := auth.IdentityFromContext(c)
	user, token, err := h.auth.UpdateUser(c.UserContext(), identity, userID, req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	})
}

func toUserResponse(user *domain.User) dto.UserResponse {
	roles := make([]string, len(user.Roles))
	for i, role := range user.Roles {
		roles[i] = string(role)
	}
	return dto.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Roles: roles,
	}
}
