package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PriceDisplay is a derived, display-ready price in a configured currency.
// Never persisted; computed from the stored NPR amount on read.
type PriceDisplay struct {
	CurrencyCode string  `json:"currencyCode"`
	Symbol       string  `json:"symbol"`
	Amount       float64 `json:"amount"`
	Formatted    string  `json:"formatted"`
}

// CurrencyRate expresses "1 unit of CurrencyCode = RateToNPR Nepalese
// rupees". Display arithmetic must keep that direction; there is no implicit
// inversion anywhere.
type CurrencyRate struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Country      string             `bson:"country" json:"country"`
	CurrencyCode string             `bson:"currencyCode" json:"currencyCode"`
	Symbol       string             `bson:"symbol" json:"symbol"`
	RateToNPR    float64            `bson:"rateToNPR" json:"rateToNPR"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
