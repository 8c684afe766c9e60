package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type mongoBannerStore struct {
	db *mongo.Database
}

func NewMongoBannerStore(db *mongo.Database) BannerStore {
	return &mongoBannerStore{db: db}
}

func (s *mongoBannerStore) collection() *mongo.Collection {
	return s.db.Collection("banners")
}

func (s *mongoBannerStore) List(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	banners := make([]models.Banner, 0)
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

func (s *mongoBannerStore) Get(ctx context.Context, id primitive.ObjectID) (models.Banner, error) {
	var banner models.Banner
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&banner)
	if err == mongo.ErrNoDocuments {
		return models.Banner{}, ErrBannerNotFound
	}
	if err != nil {
		return models.Banner{}, err
	}
	return banner, nil
}

// Create inserts the banner. When it arrives active, all currently active
// banners are deactivated first, inside one transaction.
func (s *mongoBannerStore) Create(ctx context.Context, banner models.Banner) (models.Banner, error) {
	now := time.Now()
	banner.CreatedAt = now
	banner.UpdatedAt = now

	if !banner.IsActive {
		res, err := s.collection().InsertOne(ctx, banner)
		if err != nil {
			return models.Banner{}, err
		}
		banner.ID = res.InsertedID.(primitive.ObjectID)
		return banner, nil
	}

	session, err := s.db.Client().StartSession()
	if err != nil {
		return models.Banner{}, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := s.collection().UpdateMany(
			sessCtx,
			bson.M{"isActive": true},
			bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}},
		); err != nil {
			return nil, err
		}

		res, err := s.collection().InsertOne(sessCtx, banner)
		if err != nil {
			return nil, err
		}
		banner.ID = res.InsertedID.(primitive.ObjectID)
		return nil, nil
	})
	if err != nil {
		return models.Banner{}, err
	}
	return banner, nil
}

// Update applies a partial update. An update flipping isActive to true
// deactivates every other banner first, in the same transaction.
func (s *mongoBannerStore) Update(ctx context.Context, id primitive.ObjectID, update BannerUpdate) (models.Banner, error) {
	set := bson.M{"updatedAt": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	if update.Link != nil {
		set["link"] = *update.Link
	}
	if update.IsActive != nil {
		set["isActive"] = *update.IsActive
	}

	if update.IsActive == nil || !*update.IsActive {
		return s.applyUpdate(ctx, id, set)
	}

	session, err := s.db.Client().StartSession()
	if err != nil {
		return models.Banner{}, err
	}
	defer session.EndSession(ctx)

	var updated models.Banner
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := s.collection().UpdateMany(
			sessCtx,
			bson.M{"isActive": true, "_id": bson.M{"$ne": id}},
			bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
		); err != nil {
			return nil, err
		}

		banner, err := s.applyUpdate(sessCtx, id, set)
		if err != nil {
			return nil, err
		}
		updated = banner
		return nil, nil
	})
	if err != nil {
		return models.Banner{}, err
	}
	return updated, nil
}

func (s *mongoBannerStore) applyUpdate(ctx context.Context, id primitive.ObjectID, set bson.M) (models.Banner, error) {
	var updated models.Banner
	err := s.collection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return models.Banner{}, ErrBannerNotFound
	}
	if err != nil {
		return models.Banner{}, err
	}
	return updated, nil
}

// Toggle flips the active flag. The inactive-to-active direction goes through
// Update so the deactivate-others ordering is shared.
func (s *mongoBannerStore) Toggle(ctx context.Context, id primitive.ObjectID) (models.Banner, error) {
	banner, err := s.Get(ctx, id)
	if err != nil {
		return models.Banner{}, err
	}

	next := !banner.IsActive
	return s.Update(ctx, id, BannerUpdate{IsActive: &next})
}

func (s *mongoBannerStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrBannerNotFound
	}
	return nil
}
