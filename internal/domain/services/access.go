package services

import (
	"context"

	"tailor/internal/domain/models"
)

// Authorizer resolves whether an actor may act on a project at a required
// access level. Resolution order: project owner has full access; otherwise
// a collaborator row with a sufficient level allows; otherwise denied.
//
// Actors with no relationship to a project get ErrNotFound rather than
// ErrForbidden so unauthorized callers cannot probe for project existence.
// ErrForbidden is reserved for actors who can already see the project but
// hold an insufficient level.
type Authorizer interface {
	Authorize(ctx context.Context, actorID, projectID string, required models.AccessLevel) error
	// AuthorizeBranch resolves the branch first, then authorizes against
	// its project. Returns the branch so callers avoid a second load.
	AuthorizeBranch(ctx context.Context, actorID, branchID string, required models.AccessLevel) (*models.Branch, error)
}
