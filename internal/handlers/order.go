package handlers

import (
	"context"
	"errors"
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

type orderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type orderCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
	Note    string `json:"note"`
}

type orderCreateRequest struct {
	Items         []orderItemRequest   `json:"items" binding:"required,min=1,dive"`
	Customer      orderCustomerRequest `json:"customer" binding:"required"`
	PaymentMethod string               `json:"paymentMethod" binding:"required"`
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

var orderStatuses = map[string]struct{}{
	"pending":   {},
	"confirmed": {},
	"shipped":   {},
	"delivered": {},
	"cancelled": {},
}

type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string { return "product out of stock" }

type productUnavailableError struct {
	ProductID primitive.ObjectID
}

func (e productUnavailableError) Error() string { return "product not found" }

// POST /orders — prices and the total are recomputed from the product
// documents inside the transaction; client-sent prices are never trusted.
// Stock decrements are part of the same transaction, so a failing item rolls
// back the whole order.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req orderCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		if req.PaymentMethod != "cash" && req.PaymentMethod != "card" {
			respondError(c, http.StatusBadRequest, route, "invalid payment method")
			return
		}

		itemIDs := make([]primitive.ObjectID, 0, len(req.Items))
		for _, item := range req.Items {
			id, err := primitive.ObjectIDFromHex(item.ProductID)
			if err != nil {
				respondError(c, http.StatusBadRequest, route, "invalid productId")
				return
			}
			itemIDs = append(itemIDs, id)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		now := time.Now()
		order := models.Order{
			Customer: models.OrderCustomer{
				Name:    strings.TrimSpace(req.Customer.Name),
				Phone:   strings.TrimSpace(req.Customer.Phone),
				Address: strings.TrimSpace(req.Customer.Address),
				Note:    strings.TrimSpace(req.Customer.Note),
			},
			PaymentMethod: req.PaymentMethod,
			Currency:      "NPR",
			Status:        "pending",
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			items := make([]models.OrderItem, 0, len(req.Items))
			total := 0.0

			for i, reqItem := range req.Items {
				productID := itemIDs[i]

				var product models.Product
				err := db.Collection("products").FindOne(sessCtx, bson.M{
					"_id":       productID,
					"isActive":  true,
					"isDeleted": bson.M{"$ne": true},
				}).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productUnavailableError{ProductID: productID}
				}
				if err != nil {
					return nil, err
				}

				if !product.IsDigital && product.Stock < reqItem.Quantity {
					return nil, outOfStockError{
						ProductID: productID,
						Available: product.Stock,
						Requested: reqItem.Quantity,
					}
				}

				unitPrice := product.Price
				items = append(items, models.OrderItem{
					ProductID: productID,
					Name:      product.Name,
					Price:     unitPrice,
					Quantity:  reqItem.Quantity,
				})
				total += unitPrice * float64(reqItem.Quantity)

				if product.IsDigital {
					continue
				}

				res, err := db.Collection("products").UpdateOne(sessCtx,
					bson.M{
						"_id":       productID,
						"isDeleted": bson.M{"$ne": true},
						"stock":     bson.M{"$gte": reqItem.Quantity},
					},
					bson.M{"$inc": bson.M{"stock": -reqItem.Quantity}},
				)
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, outOfStockError{
						ProductID: productID,
						Available: product.Stock,
						Requested: reqItem.Quantity,
					}
				}
			}

			order.Items = items
			order.TotalPrice = total

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}
			return nil, nil
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "insufficient stock",
					"data": gin.H{
						"productId": stockErr.ProductID.Hex(),
						"available": stockErr.Available,
						"requested": stockErr.Requested,
					},
				})
				return
			}
			var unavailableErr productUnavailableError
			if errors.As(err, &unavailableErr) {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "product not available",
					"data":    gin.H{"productId": unavailableErr.ProductID.Hex()},
				})
				return
			}
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusCreated, gin.H{"order": order})
	}
}

// GET /admin/orders
func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		collection := db.Collection("orders")

		total, err := collection.CountDocuments(ctx, filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := collection.Find(ctx, filter, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		totalPages := int64(0)
		if limit > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}

		respondData(c, http.StatusOK, gin.H{
			"orders": orders,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

// PATCH /admin/orders/:id/status
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/orders/:id/status"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req orderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		if _, ok := orderStatuses[req.Status]; !ok {
			respondError(c, http.StatusBadRequest, route, "invalid status: "+req.Status)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{"order": order})
	}
}

// DELETE /admin/orders/:id
func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/orders/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, route, "order not found")
			return
		}

		respondMessage(c, http.StatusOK, "order deleted")
	}
}
