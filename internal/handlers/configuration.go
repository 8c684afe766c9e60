package handlers

import (
	"context"
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

type CurrencyRateCreateRequest struct {
	Country      string  `json:"country" binding:"required"`
	CurrencyCode string  `json:"currencyCode" binding:"required"`
	Symbol       string  `json:"symbol" binding:"required"`
	RateToNPR    float64 `json:"rateToNPR" binding:"required,gt=0"`
	IsActive     bool    `json:"isActive"`
}

type CurrencyRateUpdateRequest struct {
	Country      *string  `json:"country"`
	CurrencyCode *string  `json:"currencyCode"`
	Symbol       *string  `json:"symbol"`
	RateToNPR    *float64 `json:"rateToNPR" binding:"omitempty,gt=0"`
	IsActive     *bool    `json:"isActive"`
}

type DefaultCurrencyRequest struct {
	DefaultCurrency string `json:"defaultCurrency" binding:"required"`
}

// GET /configuration — the aggregate the storefront and admin both bootstrap
// from: the singleton configuration document plus every currency rate.
func GetConfiguration(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /configuration"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		configuration, err := loadConfiguration(ctx, db)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("currency_rates").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "currencyCode", Value: 1}}))
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		rates := []models.CurrencyRate{}
		if err := cursor.All(ctx, &rates); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{
			"configuration": configuration,
			"currencyRates": rates,
		})
	}
}

// PUT /admin/configuration/units — replaces the whole units document. The
// admin UI always sends the full document, so partial merge semantics are not
// needed here.
func UpdateUnits(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/configuration/units"
		defer handlePanic(c, route)

		var units models.UnitsConfig
		if err := c.ShouldBindJSON(&units); err != nil {
			respondValidationError(c, route, err)
			return
		}

		if msg := validateUnits(units); msg != "" {
			respondError(c, http.StatusBadRequest, route, msg)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		configuration, err := upsertConfiguration(ctx, db, bson.M{"units": units})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{"configuration": configuration})
	}
}

// PUT /admin/configuration/default-currency
func SetDefaultCurrency(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/configuration/default-currency"
		defer handlePanic(c, route)

		var req DefaultCurrencyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// The default must reference a configured rate; it does not have to
		// be an active one.
		count, err := db.Collection("currency_rates").CountDocuments(ctx, bson.M{"currencyCode": req.DefaultCurrency})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count == 0 {
			respondError(c, http.StatusBadRequest, route, req.DefaultCurrency+" is not a configured currency")
			return
		}

		configuration, err := upsertConfiguration(ctx, db, bson.M{"defaultCurrency": req.DefaultCurrency})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{"configuration": configuration})
	}
}

// POST /admin/configuration/currency-rates
func CreateCurrencyRate(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/configuration/currency-rates"
		defer handlePanic(c, route)

		var req CurrencyRateCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		rate := models.CurrencyRate{
			ID:           primitive.NewObjectID(),
			Country:      req.Country,
			CurrencyCode: strings.ToUpper(req.CurrencyCode),
			Symbol:       req.Symbol,
			RateToNPR:    req.RateToNPR,
			IsActive:     req.IsActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := db.Collection("currency_rates").InsertOne(ctx, rate); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusConflict, route, "a rate for "+rate.CurrencyCode+" already exists")
				return
			}
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusCreated, gin.H{"currencyRate": rate})
	}
}

// PUT /admin/configuration/currency-rates/:id
func UpdateCurrencyRate(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/configuration/currency-rates/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req CurrencyRateUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Country != nil {
			set["country"] = *req.Country
		}
		if req.CurrencyCode != nil {
			set["currencyCode"] = strings.ToUpper(*req.CurrencyCode)
		}
		if req.Symbol != nil {
			set["symbol"] = *req.Symbol
		}
		if req.RateToNPR != nil {
			set["rateToNPR"] = *req.RateToNPR
		}
		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Renaming the code the default currency points at would leave the
		// default dangling, same as deleting the rate.
		if req.CurrencyCode != nil {
			var existing models.CurrencyRate
			err := db.Collection("currency_rates").FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, route, "currency rate not found")
				return
			}
			if err != nil {
				respondError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if strings.ToUpper(*req.CurrencyCode) != existing.CurrencyCode {
				configuration, err := loadConfiguration(ctx, db)
				if err != nil {
					respondError(c, http.StatusInternalServerError, route, "db error")
					return
				}
				if configuration.DefaultCurrency == existing.CurrencyCode {
					respondError(c, http.StatusBadRequest, route,
						existing.CurrencyCode+" is the default currency, select another default before renaming it")
					return
				}
			}
		}

		var rate models.CurrencyRate
		err = db.Collection("currency_rates").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&rate)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "currency rate not found")
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, http.StatusConflict, route, "a rate for that currency code already exists")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{"currencyRate": rate})
	}
}

// DELETE /admin/configuration/currency-rates/:id — refuses to remove the rate
// the default currency points at.
func DeleteCurrencyRate(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/configuration/currency-rates/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var rate models.CurrencyRate
		err = db.Collection("currency_rates").FindOne(ctx, bson.M{"_id": id}).Decode(&rate)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "currency rate not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		configuration, err := loadConfiguration(ctx, db)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if configuration.DefaultCurrency == rate.CurrencyCode {
			respondError(c, http.StatusBadRequest, route,
				rate.CurrencyCode+" is the default currency, select another default before removing it")
			return
		}

		if _, err := db.Collection("currency_rates").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondMessage(c, http.StatusOK, "currency rate deleted")
	}
}

// validateUnits returns a message describing the first violation, or "".
func validateUnits(units models.UnitsConfig) string {
	categories := []struct {
		name         string
		list         []string
		defaultValue string
	}{
		{"weight", units.Weight, units.DefaultWeight},
		{"length", units.Length, units.DefaultLength},
		{"clothingSize", units.ClothingSize, units.DefaultClothingSize},
		{"volume", units.Volume, units.DefaultVolume},
		{"temperature", units.Temperature, units.DefaultTemperature},
	}
	for _, category := range categories {
		for _, unit := range category.list {
			if strings.TrimSpace(unit) == "" {
				return category.name + " contains an empty unit"
			}
		}
		if category.defaultValue == "" {
			continue
		}
		found := false
		for _, unit := range category.list {
			if unit == category.defaultValue {
				found = true
				break
			}
		}
		if !found {
			return "default " + category.name + " unit " + category.defaultValue + " is not in its list"
		}
	}
	return ""
}

func loadConfiguration(ctx context.Context, db *mongo.Database) (models.Configuration, error) {
	var configuration models.Configuration
	err := db.Collection("configuration").FindOne(ctx, bson.M{}).Decode(&configuration)
	if err == mongo.ErrNoDocuments {
		return defaultConfiguration(), nil
	}
	return configuration, err
}

// upsertConfiguration applies a partial $set to the singleton document,
// creating it from the defaults on first write.
func upsertConfiguration(ctx context.Context, db *mongo.Database, set bson.M) (models.Configuration, error) {
	seed := defaultConfiguration()
	setOnInsert := bson.M{}
	if _, ok := set["units"]; !ok {
		setOnInsert["units"] = seed.Units
	}
	if _, ok := set["defaultCurrency"]; !ok {
		setOnInsert["defaultCurrency"] = seed.DefaultCurrency
	}

	update := bson.M{"$set": set}
	if len(setOnInsert) > 0 {
		update["$setOnInsert"] = setOnInsert
	}

	var configuration models.Configuration
	err := db.Collection("configuration").FindOneAndUpdate(
		ctx,
		bson.M{},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&configuration)
	return configuration, err
}

func defaultConfiguration() models.Configuration {
	return models.Configuration{
		Units: models.UnitsConfig{
			Weight:       []string{"kg", "g", "lb"},
			Length:       []string{"m", "cm", "in"},
			ClothingSize: []string{"XS", "S", "M", "L", "XL"},
			Volume:       []string{"l", "ml"},
			Temperature:  []string{"C", "F"},

			DefaultWeight:       "kg",
			DefaultLength:       "cm",
			DefaultClothingSize: "M",
			DefaultVolume:       "l",
			DefaultTemperature:  "C",
		},
		DefaultCurrency: "NPR",
	}
}
