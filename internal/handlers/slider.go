package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type SliderCreateRequest struct {
	Title     string `json:"title" binding:"required"`
	Subtitle  string `json:"subtitle"`
	Image     string `json:"image" binding:"required"`
	Link      string `json:"link"`
	SortOrder int    `json:"sortOrder"`
	IsActive  bool   `json:"isActive"`
}

type SliderUpdateRequest struct {
	Title     *string `json:"title"`
	Subtitle  *string `json:"subtitle"`
	Image     *string `json:"image"`
	Link      *string `json:"link"`
	SortOrder *int    `json:"sortOrder"`
	IsActive  *bool   `json:"isActive"`
}

// GET /sliders (public: active, ordered by sortOrder)
func GetSliders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /sliders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "createdAt", Value: 1}})
		cursor, err := db.Collection("sliders").Find(ctx, bson.M{"isActive": true}, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		sliders := []models.Slider{}
		if err := cursor.All(ctx, &sliders); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{"sliders": sliders})
	}
}

// GET /admin/sliders
func GetAllSliders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/sliders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "createdAt", Value: 1}})
		cursor, err := db.Collection("sliders").Find(ctx, bson.M{}, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		sliders := []models.Slider{}
		if err := cursor.All(ctx, &sliders); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{"sliders": sliders})
	}
}

// POST /admin/sliders
func CreateSlider(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/sliders"
		defer handlePanic(c, route)

		var req SliderCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		slider := models.Slider{
			ID:        primitive.NewObjectID(),
			Title:     req.Title,
			Subtitle:  req.Subtitle,
			Image:     req.Image,
			Link:      req.Link,
			SortOrder: req.SortOrder,
			IsActive:  req.IsActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := db.Collection("sliders").InsertOne(ctx, slider); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusCreated, gin.H{"slider": slider})
	}
}

// PUT /admin/sliders/:id
func UpdateSlider(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/sliders/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req SliderUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Title != nil {
			set["title"] = *req.Title
		}
		if req.Subtitle != nil {
			set["subtitle"] = *req.Subtitle
		}
		if req.Image != nil {
			set["image"] = *req.Image
		}
		if req.Link != nil {
			set["link"] = *req.Link
		}
		if req.SortOrder != nil {
			set["sortOrder"] = *req.SortOrder
		}
		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var previous models.Slider
		err = db.Collection("sliders").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.Before),
		).Decode(&previous)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "slider not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var slider models.Slider
		if err := db.Collection("sliders").FindOne(ctx, bson.M{"_id": id}).Decode(&slider); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// A replaced image leaves the old file orphaned.
		if req.Image != nil && previous.Image != slider.Image {
			if err := safeDeleteUpload(previous.Image); err != nil {
				log.Printf("[%s] stale image cleanup: %v", route, err)
			}
		}

		respondData(c, http.StatusOK, gin.H{"slider": slider})
	}
}

// DELETE /admin/sliders/:id
func DeleteSlider(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/sliders/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var slider models.Slider
		err = db.Collection("sliders").FindOne(ctx, bson.M{"_id": id}).Decode(&slider)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "slider not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if _, err := db.Collection("sliders").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := safeDeleteUpload(slider.Image); err != nil {
			log.Printf("[%s] image cleanup: %v", route, err)
		}

		respondMessage(c, http.StatusOK, "slider deleted")
	}
}
