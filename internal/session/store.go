package session

import (
	"context"

	"github.com/jinitha01/ecom-demo/internal/domain"
)

// Store is the opaque per-visitor key-value store holding the session cart.
// Get on a session with no cart returns an empty cart, not an error — carts
// are created implicitly on first access.
type Store interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	Set(ctx context.Context, sessionID string, cart domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
