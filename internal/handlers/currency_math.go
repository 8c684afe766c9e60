package handlers

import (
	"fmt"
	"math"

	"backend/internal/models"
)

// Prices are stored in NPR. A rate expresses "1 unit of the foreign currency
// equals rateToNPR NPR", so converting a stored price into a foreign currency
// divides by the rate. There is no inversion anywhere else.

func convertFromNPR(amountNPR float64, rate models.CurrencyRate) (float64, error) {
	if rate.RateToNPR <= 0 {
		return 0, fmt.Errorf("rate for %s must be greater than 0", rate.CurrencyCode)
	}
	return amountNPR / rate.RateToNPR, nil
}

// roundMoney rounds to two decimal places for display. Stored values stay
// unrounded.
func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func formatPrice(amountNPR float64, rate models.CurrencyRate) (string, error) {
	converted, err := convertFromNPR(amountNPR, rate)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%.2f", rate.Symbol, roundMoney(converted)), nil
}

func priceDisplay(amountNPR float64, rate models.CurrencyRate) (models.PriceDisplay, error) {
	converted, err := convertFromNPR(amountNPR, rate)
	if err != nil {
		return models.PriceDisplay{}, err
	}
	formatted, err := formatPrice(amountNPR, rate)
	if err != nil {
		return models.PriceDisplay{}, err
	}
	return models.PriceDisplay{
		CurrencyCode: rate.CurrencyCode,
		Symbol:       rate.Symbol,
		Amount:       roundMoney(converted),
		Formatted:    formatted,
	}, nil
}

// applyDisplayCurrency attaches a derived display price to every product.
// Stored NPR prices are left untouched.
func applyDisplayCurrency(products []models.Product, rate models.CurrencyRate) error {
	for i := range products {
		display, err := priceDisplay(products[i].Price, rate)
		if err != nil {
			return err
		}
		products[i].DisplayPrice = &display
	}
	return nil
}
