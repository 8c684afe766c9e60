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

// GET /products
// Server-side filtering for the storefront: search, category and limit query
// params. Distinct from the in-memory admin list pipeline.
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := bson.M{
			"isActive":  bson.M{"$ne": false},
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

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}
		if c.Query("limit") != "" {
			findOptions.
				SetSkip((page - 1) * limit).
				SetLimit(limit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
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

		rate, err := displayRateFromQuery(ctx, db, c.Query("currency"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if rate != nil {
			if err := applyDisplayCurrency(products, *rate); err != nil {
				respondError(c, http.StatusInternalServerError, route, "currency conversion failed")
				return
			}
		}

		log.Printf("[%s] returning %d products", route, len(products))
		respondData(c, http.StatusOK, gin.H{
			"products": products,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

// GET /products/featured
func GetFeaturedProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/featured"
		defer handlePanic(c, route)

		filter := bson.M{
			"isActive":   true,
			"isFeatured": true,
			"isDeleted":  bson.M{"$ne": true},
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
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

		rate, err := displayRateFromQuery(ctx, db, c.Query("currency"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if rate != nil {
			if err := applyDisplayCurrency(products, *rate); err != nil {
				respondError(c, http.StatusInternalServerError, route, "currency conversion failed")
				return
			}
		}

		respondData(c, http.StatusOK, gin.H{"products": products})
	}
}

// GET /products/:id
func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":       id,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		product.InStock = product.Stock > 0

		rate, err := displayRateFromQuery(ctx, db, c.Query("currency"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if rate != nil {
			display, err := priceDisplay(product.Price, *rate)
			if err != nil {
				respondError(c, http.StatusInternalServerError, route, "currency conversion failed")
				return
			}
			product.DisplayPrice = &display
		}

		respondData(c, http.StatusOK, gin.H{"product": product})
	}
}

// displayRateFromQuery resolves the optional ?currency= query param to an
// active configured rate. Empty or NPR means prices stay in NPR and no
// conversion is attached.
func displayRateFromQuery(ctx context.Context, db *mongo.Database, code string) (*models.CurrencyRate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == "NPR" {
		return nil, nil
	}

	var rate models.CurrencyRate
	err := db.Collection("currency_rates").FindOne(ctx, bson.M{
		"currencyCode": code,
		"isActive":     true,
	}).Decode(&rate)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%s is not an available display currency", code)
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
