// Package store holds the banner persistence seam. Banners carry the one
// cross-entity invariant in the system (at most one active at a time), so
// unlike the plain collection handlers they go through an interface with a
// transactional Mongo implementation and an in-memory implementation.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

var ErrBannerNotFound = errors.New("banner not found")

// BannerUpdate is a partial update; nil fields keep their value.
type BannerUpdate struct {
	Title    *string
	Image    *string
	Link     *string
	IsActive *bool
}

// BannerStore enforces the single-active invariant on every activation path:
// all other banners are deactivated before the target becomes active, in that
// order, so there is never a moment with two active banners.
type BannerStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Banner, error)
	Create(ctx context.Context, banner models.Banner) (models.Banner, error)
	Update(ctx context.Context, id primitive.ObjectID, update BannerUpdate) (models.Banner, error)
	Toggle(ctx context.Context, id primitive.ObjectID) (models.Banner, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
