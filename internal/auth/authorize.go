package auth

import (
	"github.com/spec-kit/franchise-service/internal/domain"
	apperrors "github.com/spec-kit/franchise-service/pkg/util"
)

// RequireAuthenticated fails when no authenticated identity is present.
func RequireAuthenticated(identity domain.Identity) error {
	if identity.IsAnonymous() {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

// AuthorizeResourceAction decides whether the identity may perform the
// action on a resource administered by the given owner set. Permitted iff
// the identity holds the admin role or its id is a member of the set; the
// admin role is the only ownership bypass. A resource keyed by the caller's
// own id is expressed as owners = {identity.ID}, which covers self-access.
func AuthorizeResourceAction(identity domain.Identity, owners []int64, action string) error {
	if err := RequireAuthenticated(identity); err != nil {
		return err
	}
	if identity.HasRole(domain.RoleAdmin) {
		return nil
	}
	for _, id := range owners {
		if id == identity.ID {
			return nil
		}
	}
	return apperrors.NewForbidden("unable to " + action)
}
