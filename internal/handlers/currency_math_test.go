package handlers

import (
	"testing"

	"backend/internal/models"
)

func usdRate() models.CurrencyRate {
	return models.CurrencyRate{Country: "United States", CurrencyCode: "USD", Symbol: "$", RateToNPR: 133.5, IsActive: true}
}

func TestConvertFromNPRDividesByRate(t *testing.T) {
	got, err := convertFromNPR(267, usdRate())
	if err != nil {
		t.Fatalf("convertFromNPR returned error: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
}

func TestConvertRejectsNonPositiveRate(t *testing.T) {
	rate := usdRate()
	rate.RateToNPR = 0
	if _, err := convertFromNPR(100, rate); err == nil {
		t.Fatal("expected error for zero rate")
	}
	rate.RateToNPR = -5
	if _, err := convertFromNPR(100, rate); err == nil {
		t.Fatal("expected error for negative rate")
	}
}

func TestApplyDisplayCurrencyAttachesDerivedPrice(t *testing.T) {
	products := []models.Product{
		{Name: "A", Price: 267},
		{Name: "B", Price: 400.5},
	}

	if err := applyDisplayCurrency(products, usdRate()); err != nil {
		t.Fatalf("applyDisplayCurrency returned error: %v", err)
	}

	if products[0].DisplayPrice == nil || products[0].DisplayPrice.Amount != 2 {
		t.Fatalf("expected display amount 2, got %+v", products[0].DisplayPrice)
	}
	if products[1].DisplayPrice.Formatted != "$3.00" {
		t.Fatalf("expected $3.00, got %q", products[1].DisplayPrice.Formatted)
	}
	if products[0].DisplayPrice.CurrencyCode != "USD" {
		t.Fatalf("expected currency code USD, got %q", products[0].DisplayPrice.CurrencyCode)
	}
	if products[0].Price != 267 || products[1].Price != 400.5 {
		t.Fatal("stored NPR prices must not change")
	}
}

func TestFormatPriceUsesSymbolAndTwoDecimals(t *testing.T) {
	got, err := formatPrice(400.5, usdRate())
	if err != nil {
		t.Fatalf("formatPrice returned error: %v", err)
	}
	if got != "$3.00" {
		t.Fatalf("expected $3.00, got %s", got)
	}
}

func TestValidateUnitsDefaultMustBeMember(t *testing.T) {
	units := unitsFixture()
	units.DefaultWeight = "stone"
	if msg := validateUnits(units); msg == "" {
		t.Fatal("expected violation for default outside its list")
	}
}

func TestValidateUnitsRejectsEmptyEntry(t *testing.T) {
	units := unitsFixture()
	units.Length = append(units.Length, "  ")
	if msg := validateUnits(units); msg == "" {
		t.Fatal("expected violation for blank unit entry")
	}
}

func TestValidateUnitsAcceptsValidDocument(t *testing.T) {
	if msg := validateUnits(unitsFixture()); msg != "" {
		t.Fatalf("expected no violation, got %q", msg)
	}
}

func unitsFixture() models.UnitsConfig {
	return models.UnitsConfig{
		Weight:       []string{"kg", "g"},
		Length:       []string{"m", "cm"},
		ClothingSize: []string{"S", "M", "L"},
		Volume:       []string{"l", "ml"},
		Temperature:  []string{"C", "F"},

		DefaultWeight:       "kg",
		DefaultLength:       "cm",
		DefaultClothingSize: "M",
		DefaultVolume:       "l",
		DefaultTemperature:  "C",
	}
}
