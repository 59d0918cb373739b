package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a user to a product they saved for later.
// The (user, product) pair is unique.
type WishlistItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	// Product is joined in for list responses, never persisted here.
	Product *Product `json:"product,omitempty"`
}
