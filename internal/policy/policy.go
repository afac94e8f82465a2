// Package policy holds the role and ownership decisions applied before any
// mutation. Handlers call these functions first; services call them again
// where the decision depends on stored rows.
package policy

import (
	"gamereviews/internal/auth"
	apperrors "gamereviews/internal/errors"
	"gamereviews/internal/model"
)

// Actions recorded in decision metrics.
const (
	ActionCatalogWrite = "catalog_write"
	ActionReviewCreate = "review_create"
	ActionReviewUpdate = "review_update"
	ActionReviewDelete = "review_delete"
	ActionLogout       = "logout"
)

// RequireRole fails with ErrUnauthenticated for anonymous callers and with
// ErrForbidden when the caller holds none of roles.
func RequireRole(p *auth.Principal, action string, roles ...string) error {
	if p == nil {
		recordDecision(action, effectUnauthenticated)
		return apperrors.Unauthenticated("Authentication is required.")
	}
	for _, role := range roles {
		if p.Role == role {
			recordDecision(action, effectAllow)
			return nil
		}
	}
	recordDecision(action, effectDeny)
	return apperrors.Forbidden("This action requires one of the roles: %v.", roles)
}

// CanMutateCatalog allows only Admin to create, update or delete genres and games.
func CanMutateCatalog(p *auth.Principal) error {
	return RequireRole(p, ActionCatalogWrite, model.RoleAdmin)
}

// CanWriteReviews allows any signed-in User or Admin to submit reviews.
func CanWriteReviews(p *auth.Principal, action string) error {
	return RequireRole(p, action, model.RoleUser, model.RoleAdmin)
}

// IsOwner reports whether p owns review. Anonymous callers own nothing.
func IsOwner(p *auth.Principal, review *model.Review) bool {
	return p != nil && p.UserID != 0 && review.UserID == p.UserID
}

// ResolveReviewOwner returns the user id a new or edited review is stored
// under. Non-admins always get their own mapped id, whatever they asked for.
// Admins get requested when it is positive and fallback otherwise.
func ResolveReviewOwner(p *auth.Principal, requested, fallback int) int {
	if p.IsAdmin() && requested > 0 {
		return requested
	}
	if p.IsAdmin() {
		return fallback
	}
	return p.UserID
}

// CanModifyReview allows Admin, or the review's owner, to edit or delete it.
func CanModifyReview(p *auth.Principal, review *model.Review, action string) error {
	if p == nil {
		recordDecision(action, effectUnauthenticated)
		return apperrors.Unauthenticated("Authentication is required.")
	}
	if p.IsAdmin() {
		recordDecision(action, effectAllow)
		return nil
	}
	if p.UserID == 0 {
		recordDecision(action, effectDeny)
		return apperrors.Forbidden("Unable to determine user identity.")
	}
	if review.UserID != p.UserID {
		recordDecision(action, effectDeny)
		if action == ActionReviewDelete {
			return apperrors.Forbidden("You can only delete your own reviews. Admins can delete any review.")
		}
		return apperrors.Forbidden("You can only edit your own reviews.")
	}
	recordDecision(action, effectAllow)
	return nil
}
