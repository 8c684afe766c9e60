package store

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func activeCount(t *testing.T, s BannerStore) (int, primitive.ObjectID) {
	t.Helper()
	banners, err := s.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	count := 0
	var activeID primitive.ObjectID
	for _, banner := range banners {
		if banner.IsActive {
			count++
			activeID = banner.ID
		}
	}
	return count, activeID
}

func TestCreateActiveDeactivatesPreviousActive(t *testing.T) {
	s := NewMemoryBannerStore()
	ctx := context.Background()

	a, err := s.Create(ctx, models.Banner{Title: "A", Image: "/uploads/banners/a.png", IsActive: true})
	if err != nil {
		t.Fatalf("create A returned error: %v", err)
	}
	b, err := s.Create(ctx, models.Banner{Title: "B", Image: "/uploads/banners/b.png", IsActive: true})
	if err != nil {
		t.Fatalf("create B returned error: %v", err)
	}

	gotA, _ := s.Get(ctx, a.ID)
	gotB, _ := s.Get(ctx, b.ID)
	if gotA.IsActive {
		t.Fatal("expected A to be deactivated after B was created active")
	}
	if !gotB.IsActive {
		t.Fatal("expected B to be active")
	}
}

func TestAtMostOneActiveAfterAnySequence(t *testing.T) {
	s := NewMemoryBannerStore()
	ctx := context.Background()

	ids := make([]primitive.ObjectID, 0, 4)
	for _, title := range []string{"A", "B", "C", "D"} {
		banner, err := s.Create(ctx, models.Banner{Title: title, Image: "/uploads/banners/x.png", IsActive: title != "C"})
		if err != nil {
			t.Fatalf("create %s returned error: %v", title, err)
		}
		ids = append(ids, banner.ID)
	}

	active := true
	ops := []func() error{
		func() error { _, err := s.Toggle(ctx, ids[2]); return err },
		func() error { _, err := s.Update(ctx, ids[0], BannerUpdate{IsActive: &active}); return err },
		func() error { _, err := s.Toggle(ctx, ids[0]); return err },
		func() error { _, err := s.Toggle(ctx, ids[3]); return err },
		func() error { _, err := s.Update(ctx, ids[1], BannerUpdate{IsActive: &active}); return err },
		func() error { return s.Delete(ctx, ids[3]) },
	}
	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("op %d returned error: %v", i, err)
		}
		if count, _ := activeCount(t, s); count > 1 {
			t.Fatalf("op %d left %d active banners", i, count)
		}
	}

	count, activeID := activeCount(t, s)
	if count != 1 {
		t.Fatalf("expected exactly one active banner, got %d", count)
	}
	if activeID != ids[1] {
		t.Fatalf("expected B to be the active banner")
	}
}

func TestToggleOffLeavesZeroActive(t *testing.T) {
	s := NewMemoryBannerStore()
	ctx := context.Background()

	banner, err := s.Create(ctx, models.Banner{Title: "Solo", Image: "/uploads/banners/s.png", IsActive: true})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	toggled, err := s.Toggle(ctx, banner.ID)
	if err != nil {
		t.Fatalf("toggle returned error: %v", err)
	}
	if toggled.IsActive {
		t.Fatal("expected toggle to deactivate the banner")
	}
	if count, _ := activeCount(t, s); count != 0 {
		t.Fatal("expected zero active banners")
	}
}

func TestUpdateWithoutActivationKeepsOthers(t *testing.T) {
	s := NewMemoryBannerStore()
	ctx := context.Background()

	a, _ := s.Create(ctx, models.Banner{Title: "A", Image: "/uploads/banners/a.png", IsActive: true})
	b, _ := s.Create(ctx, models.Banner{Title: "B", Image: "/uploads/banners/b.png"})

	title := "B renamed"
	if _, err := s.Update(ctx, b.ID, BannerUpdate{Title: &title}); err != nil {
		t.Fatalf("update returned error: %v", err)
	}

	gotA, _ := s.Get(ctx, a.ID)
	if !gotA.IsActive {
		t.Fatal("renaming an inactive banner must not touch the active one")
	}
}

func TestGetUnknownBannerReturnsNotFound(t *testing.T) {
	s := NewMemoryBannerStore()
	if _, err := s.Get(context.Background(), primitive.NewObjectID()); err != ErrBannerNotFound {
		t.Fatalf("expected ErrBannerNotFound, got %v", err)
	}
}
