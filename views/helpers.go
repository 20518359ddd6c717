package views

import (
	"context"

	"github.com/AdamBeresnev/wc-bracket/internal/middleware"
	users "github.com/AdamBeresnev/wc-bracket/internal/user"
)

// GetUser returns the signed-in owner of the request, nil for anonymous visitors.
// Saved brackets and /api/me are keyed on it.
func GetUser(ctx context.Context) *users.User {
	return middleware.GetAuthenticatedUser(ctx)
}
