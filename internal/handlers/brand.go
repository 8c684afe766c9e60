package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type BrandCreateRequest struct {
	Name string `json:"name" binding:"required"`
	Logo string `json:"logo" binding:"required"`
	Path string `json:"path" binding:"required,internalpath"`
}

type BrandUpdateRequest struct {
	Name *string `json:"name"`
	Logo *string `json:"logo"`
	Path *string `json:"path" binding:"omitempty,internalpath"`
}

// GET /brands
// productCount is derived per brand from the products collection.
func GetBrands(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /brands"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().
			SetSort(bson.D{{Key: "name", Value: 1}})

		cursor, err := db.Collection("brands").Find(ctx, bson.M{}, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		brands := make([]models.Brand, 0)
		if err := cursor.All(ctx, &brands); err != nil {
			respondError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		for i := range brands {
			count, err := countBrandProducts(ctx, db, brands[i].Name)
			if err != nil {
				respondError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			brands[i].ProductCount = count
		}

		respondData(c, http.StatusOK, gin.H{"brands": brands})
	}
}

// POST /admin/brands
func CreateBrand(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/brands"
		defer handlePanic(c, route)

		var req BrandCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		brand := models.Brand{
			Name:      strings.TrimSpace(req.Name),
			Logo:      strings.TrimSpace(req.Logo),
			Path:      req.Path,
			CreatedAt: now,
			UpdatedAt: now,
		}

		result, err := db.Collection("brands").InsertOne(ctx, brand)
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, http.StatusConflict, route, "brand already exists")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		brand.ID = result.InsertedID.(primitive.ObjectID)
		respondData(c, http.StatusCreated, gin.H{"brand": brand})
	}
}

// PUT /admin/brands/:id
func UpdateBrand(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/brands/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req BrandUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		update := bson.M{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondError(c, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			update["name"] = name
		}
		if req.Logo != nil {
			logo := strings.TrimSpace(*req.Logo)
			if logo == "" {
				respondError(c, http.StatusBadRequest, route, "logo cannot be empty")
				return
			}
			update["logo"] = logo
		}
		if req.Path != nil {
			update["path"] = *req.Path
		}

		if len(update) == 0 {
			respondError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var previous models.Brand
		err = db.Collection("brands").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": id},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.Before),
			).
			Decode(&previous)

		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "brand not found")
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, http.StatusConflict, route, "brand already exists")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// A rename carries over to the denormalized brand name on products.
		if req.Name != nil && previous.Name != update["name"] {
			_, err = db.Collection("products").UpdateMany(
				ctx,
				bson.M{"brand": previous.Name},
				bson.M{"$set": bson.M{"brand": update["name"]}},
			)
			if err != nil {
				respondError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		}

		var updated models.Brand
		err = db.Collection("brands").FindOne(ctx, bson.M{"_id": id}).Decode(&updated)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// A replaced logo leaves the old file orphaned.
		if req.Logo != nil && previous.Logo != updated.Logo {
			if err := safeDeleteUpload(previous.Logo); err != nil {
				log.Printf("[%s] stale logo cleanup: %v", route, err)
			}
		}

		respondData(c, http.StatusOK, gin.H{"brand": updated})
	}
}

// DELETE /admin/brands/:id
// Deleting a brand with products is permitted; the message warns that the
// association is removed from those products.
func DeleteBrand(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/brands/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var brand models.Brand
		err = db.Collection("brands").FindOne(ctx, bson.M{"_id": id}).Decode(&brand)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "brand not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		productCount, err := countBrandProducts(ctx, db, brand.Name)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if _, err := db.Collection("brands").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := safeDeleteUpload(brand.Logo); err != nil {
			log.Printf("[%s] logo cleanup: %v", route, err)
		}

		if productCount > 0 {
			_, err = db.Collection("products").UpdateMany(
				ctx,
				bson.M{"brand": brand.Name},
				bson.M{"$unset": bson.M{"brand": ""}},
			)
			if err != nil {
				respondError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			respondMessage(c, http.StatusOK, fmt.Sprintf(
				"brand deleted, association removed from %d products", productCount,
			))
			return
		}

		respondMessage(c, http.StatusOK, "brand deleted")
	}
}

func countBrandProducts(ctx context.Context, db *mongo.Database, brandName string) (int64, error) {
	return db.Collection("products").CountDocuments(ctx, bson.M{
		"brand":     brandName,
		"isDeleted": bson.M{"$ne": true},
	})
}
