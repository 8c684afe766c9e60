package handlers

import (
	"context"
	"log"
	"math"
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

type ProductCreateRequest struct {
	Name             string   `json:"name" binding:"required"`
	SKU              string   `json:"sku"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	CategoryID       string   `json:"categoryId"`
	Brand            string   `json:"brand"`
	Tags             []string `json:"tags"`
	Price            float64  `json:"price" binding:"gte=0"`
	ComparePrice     *float64 `json:"comparePrice" binding:"omitempty,gt=0"`
	Stock            int      `json:"stock" binding:"gte=0"`
	IsActive         *bool    `json:"isActive"`
	IsFeatured       bool     `json:"isFeatured"`
	IsDigital        bool     `json:"isDigital"`
	Images           []string `json:"images"`
}

type ProductUpdateRequest struct {
	Name             *string   `json:"name"`
	SKU              *string   `json:"sku"`
	ShortDescription *string   `json:"shortDescription"`
	Description      *string   `json:"description"`
	CategoryID       *string   `json:"categoryId"`
	Brand            *string   `json:"brand"`
	Tags             *[]string `json:"tags"`
	Price            *float64  `json:"price"`
	ComparePrice     *float64  `json:"comparePrice"`
	Stock            *int      `json:"stock"`
	IsActive         *bool     `json:"isActive"`
	IsFeatured       *bool     `json:"isFeatured"`
	IsDigital        *bool     `json:"isDigital"`
	Images           *[]string `json:"images"`
}

// GET /admin/products
func GetAllProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/products"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := bson.M{
			"isDeleted": bson.M{"$ne": true},
		}

		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["categoryId"] = category
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"sku": bson.M{"$regex": search, "$options": "i"}},
				{"categoryName": bson.M{"$regex": search, "$options": "i"}},
				{"shortDescription": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		if isActive := strings.TrimSpace(c.Query("isActive")); isActive != "" {
			filter["isActive"] = strings.EqualFold(isActive, "true")
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		totalPages := int64(0)
		if total > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("products").Find(ctx, filter, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		respondData(c, http.StatusOK, gin.H{
			"products": products,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

// POST /admin/products
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/products"
		defer handlePanic(c, route)

		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		categoryName, err := resolveCategoryName(ctx, db, req.CategoryID)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		now := time.Now()
		product := models.Product{
			Name:             strings.TrimSpace(req.Name),
			SKU:              strings.TrimSpace(req.SKU),
			ShortDescription: strings.TrimSpace(req.ShortDescription),
			Description:      strings.TrimSpace(req.Description),
			CategoryID:       strings.TrimSpace(req.CategoryID),
			CategoryName:     categoryName,
			Brand:            strings.TrimSpace(req.Brand),
			Tags:             models.StringList(req.Tags),
			Price:            req.Price,
			ComparePrice:     req.ComparePrice,
			Stock:            req.Stock,
			IsActive:         true,
			IsFeatured:       req.IsFeatured,
			IsDigital:        req.IsDigital,
			Images:           models.StringList(req.Images),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, http.StatusConflict, route, "sku already exists")
			return
		}
		if err != nil {
			log.Println("CreateProduct insert error:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		product.ID = res.InsertedID.(primitive.ObjectID)
		product.InStock = product.Stock > 0
		respondData(c, http.StatusCreated, gin.H{"product": product})
	}
}

// PUT /admin/products/:id (full or partial; absent fields keep their value)
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updateSet := bson.M{}
		updateUnset := bson.M{}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondError(c, http.StatusBadRequest, route, "name required")
				return
			}
			updateSet["name"] = name
		}
		if req.SKU != nil {
			sku := strings.TrimSpace(*req.SKU)
			if sku == "" {
				updateUnset["sku"] = ""
			} else {
				updateSet["sku"] = sku
			}
		}
		if req.ShortDescription != nil {
			updateSet["shortDescription"] = strings.TrimSpace(*req.ShortDescription)
		}
		if req.Description != nil {
			updateSet["description"] = strings.TrimSpace(*req.Description)
		}
		if req.CategoryID != nil {
			categoryName, err := resolveCategoryName(ctx, db, *req.CategoryID)
			if err != nil {
				respondError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			updateSet["categoryId"] = strings.TrimSpace(*req.CategoryID)
			updateSet["categoryName"] = categoryName
		}
		if req.Brand != nil {
			updateSet["brand"] = strings.TrimSpace(*req.Brand)
		}
		if req.Tags != nil {
			updateSet["tags"] = models.StringList(*req.Tags)
		}
		if req.Price != nil {
			if *req.Price < 0 {
				respondError(c, http.StatusBadRequest, route, "price must be zero or greater")
				return
			}
			updateSet["price"] = *req.Price
		}
		if req.ComparePrice != nil {
			if *req.ComparePrice <= 0 {
				updateUnset["comparePrice"] = ""
			} else {
				updateSet["comparePrice"] = *req.ComparePrice
			}
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				respondError(c, http.StatusBadRequest, route, "stock must be zero or greater")
				return
			}
			updateSet["stock"] = *req.Stock
		}
		if req.IsActive != nil {
			updateSet["isActive"] = *req.IsActive
		}
		if req.IsFeatured != nil {
			updateSet["isFeatured"] = *req.IsFeatured
		}
		if req.IsDigital != nil {
			updateSet["isDigital"] = *req.IsDigital
		}
		if req.Images != nil {
			updateSet["images"] = models.StringList(*req.Images)
		}

		if len(updateSet) == 0 && len(updateUnset) == 0 {
			respondError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}
		updateSet["updatedAt"] = time.Now()

		update := bson.M{"$set": updateSet}
		if len(updateUnset) > 0 {
			update["$unset"] = updateUnset
		}

		var updated models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{
				"_id":       id,
				"isDeleted": bson.M{"$ne": true},
			},
			update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)

		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, http.StatusConflict, route, "sku already exists")
			return
		}
		if err != nil {
			log.Println("UpdateProduct update error:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		updated.InStock = updated.Stock > 0
		respondData(c, http.StatusOK, gin.H{"product": updated})
	}
}

// DELETE /admin/products/:id (soft)
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		res, err := db.Collection("products").UpdateOne(
			ctx,
			bson.M{
				"_id":       id,
				"isDeleted": bson.M{"$ne": true},
			},
			bson.M{"$set": bson.M{
				"isDeleted": true,
				"deletedAt": now,
				"isActive":  false,
			}},
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, route, "product not found")
			return
		}

		respondMessage(c, http.StatusOK, "product deleted")
	}
}

func resolveCategoryName(ctx context.Context, db *mongo.Database, rawID string) (string, error) {
	value := strings.TrimSpace(rawID)
	if value == "" {
		return "", nil
	}

	objectID, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		// Legacy documents carried the category as an inline name.
		return value, nil
	}

	var category models.Category
	err = db.Collection("categories").FindOne(ctx, bson.M{"_id": objectID}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return "", errCategoryNotFound(value)
	}
	if err != nil {
		return "", err
	}
	return category.Name, nil
}

type categoryNotFoundError string

func errCategoryNotFound(id string) error { return categoryNotFoundError(id) }

func (e categoryNotFoundError) Error() string {
	return "category not found: " + string(e)
}
