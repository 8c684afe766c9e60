package client

import (
	"fmt"

	"backend/internal/models"
)

// ConfigState is the locally-held copy of the system configuration the admin
// dashboard edits. Mutations are applied optimistically and rolled back when
// the server rejects them.
type ConfigState struct {
	Units           models.UnitsConfig
	DefaultCurrency string
	Rates           []models.CurrencyRate
	Brands          []models.Brand
}

// Clone returns a deep copy suitable for snapshot/rollback.
func (s ConfigState) Clone() ConfigState {
	out := s
	out.Units = cloneUnits(s.Units)
	out.Rates = append([]models.CurrencyRate(nil), s.Rates...)
	out.Brands = append([]models.Brand(nil), s.Brands...)
	return out
}

func cloneUnits(u models.UnitsConfig) models.UnitsConfig {
	out := u
	out.Weight = append([]string(nil), u.Weight...)
	out.Length = append([]string(nil), u.Length...)
	out.ClothingSize = append([]string(nil), u.ClothingSize...)
	out.Volume = append([]string(nil), u.Volume...)
	out.Temperature = append([]string(nil), u.Temperature...)
	return out
}

// unitSlot resolves a unit category name to its list and default selection.
func unitSlot(units *models.UnitsConfig, category string) (*[]string, *string, error) {
	switch category {
	case "weight":
		return &units.Weight, &units.DefaultWeight, nil
	case "length":
		return &units.Length, &units.DefaultLength, nil
	case "clothingSize":
		return &units.ClothingSize, &units.DefaultClothingSize, nil
	case "volume":
		return &units.Volume, &units.DefaultVolume, nil
	case "temperature":
		return &units.Temperature, &units.DefaultTemperature, nil
	default:
		return nil, nil, fmt.Errorf("unknown unit category: %s", category)
	}
}
