package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// memoryBannerStore mirrors the Mongo store's transition ordering without a
// database. Used by tests and local development.
type memoryBannerStore struct {
	mu      sync.Mutex
	banners []models.Banner
}

func NewMemoryBannerStore() BannerStore {
	return &memoryBannerStore{}
}

func (s *memoryBannerStore) List(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Banner, 0, len(s.banners))
	for _, banner := range s.banners {
		if activeOnly && !banner.IsActive {
			continue
		}
		out = append(out, banner)
	}
	return out, nil
}

func (s *memoryBannerStore) Get(ctx context.Context, id primitive.ObjectID) (models.Banner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, banner := range s.banners {
		if banner.ID == id {
			return banner, nil
		}
	}
	return models.Banner{}, ErrBannerNotFound
}

func (s *memoryBannerStore) Create(ctx context.Context, banner models.Banner) (models.Banner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	banner.ID = primitive.NewObjectID()
	banner.CreatedAt = now
	banner.UpdatedAt = now

	if banner.IsActive {
		s.deactivateAllExceptLocked(primitive.NilObjectID)
	}
	s.banners = append(s.banners, banner)
	return banner, nil
}

func (s *memoryBannerStore) Update(ctx context.Context, id primitive.ObjectID, update BannerUpdate) (models.Banner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := -1
	for i := range s.banners {
		if s.banners[i].ID == id {
			target = i
			break
		}
	}
	if target < 0 {
		return models.Banner{}, ErrBannerNotFound
	}

	// Deactivate the others before the target becomes active.
	if update.IsActive != nil && *update.IsActive {
		s.deactivateAllExceptLocked(id)
	}

	banner := &s.banners[target]
	if update.Title != nil {
		banner.Title = *update.Title
	}
	if update.Image != nil {
		banner.Image = *update.Image
	}
	if update.Link != nil {
		banner.Link = *update.Link
	}
	if update.IsActive != nil {
		banner.IsActive = *update.IsActive
	}
	banner.UpdatedAt = time.Now()
	return *banner, nil
}

func (s *memoryBannerStore) Toggle(ctx context.Context, id primitive.ObjectID) (models.Banner, error) {
	banner, err := s.Get(ctx, id)
	if err != nil {
		return models.Banner{}, err
	}

	next := !banner.IsActive
	return s.Update(ctx, id, BannerUpdate{IsActive: &next})
}

func (s *memoryBannerStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, banner := range s.banners {
		if banner.ID == id {
			s.banners = append(s.banners[:i], s.banners[i+1:]...)
			return nil
		}
	}
	return ErrBannerNotFound
}

func (s *memoryBannerStore) deactivateAllExceptLocked(keep primitive.ObjectID) {
	for i := range s.banners {
		if s.banners[i].ID != keep {
			s.banners[i].IsActive = false
		}
	}
}
