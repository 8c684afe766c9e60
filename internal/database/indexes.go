package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	skuIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().
			SetName("sku_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"sku": bson.M{
					"$exists": true,
				},
			}),
	}

	log.Println("EnsureProductIndexes: creating sku_unique index")
	_, err := indexes.CreateOne(ctx, skuIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: sku index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: sku_unique index created")
	return nil
}

func EnsureBrandIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("brands").Indexes()

	nameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
		Options: options.Index().
			SetName("name_unique").
			SetUnique(true),
	}

	log.Println("EnsureBrandIndexes: creating name_unique index")
	_, err := indexes.CreateOne(ctx, nameIndex)
	if err != nil {
		log.Println("EnsureBrandIndexes: name index error:", err)
		return err
	}
	log.Println("EnsureBrandIndexes: name_unique index created")
	return nil
}

// EnsureBannerIndexes installs a partial unique index on isActive=true, so
// the database itself rejects a second active banner even if two requests
// race between the deactivate and activate statements.
func EnsureBannerIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("banners").Indexes()

	activeIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "isActive", Value: 1}},
		Options: options.Index().
			SetName("single_active").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"isActive": true,
			}),
	}

	log.Println("EnsureBannerIndexes: creating single_active index")
	_, err := indexes.CreateOne(ctx, activeIndex)
	if err != nil {
		log.Println("EnsureBannerIndexes: single_active index error:", err)
		return err
	}
	log.Println("EnsureBannerIndexes: single_active index created")
	return nil
}

func EnsureCurrencyRateIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("currency_rates").Indexes()

	codeIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "currencyCode", Value: 1}},
		Options: options.Index().
			SetName("currency_code_unique").
			SetUnique(true),
	}

	log.Println("EnsureCurrencyRateIndexes: creating currency_code_unique index")
	_, err := indexes.CreateOne(ctx, codeIndex)
	if err != nil {
		log.Println("EnsureCurrencyRateIndexes: currency code index error:", err)
		return err
	}
	log.Println("EnsureCurrencyRateIndexes: currency_code_unique index created")
	return nil
}
