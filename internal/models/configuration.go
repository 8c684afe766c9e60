package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// UnitsConfig holds the measurement unit lists and the selected default for
// each category. Defaults must be members of their lists; handlers enforce
// this on write.
type UnitsConfig struct {
	Weight       []string `bson:"weight" json:"weight"`
	Length       []string `bson:"length" json:"length"`
	ClothingSize []string `bson:"clothingSize" json:"clothingSize"`
	Volume       []string `bson:"volume" json:"volume"`
	Temperature  []string `bson:"temperature" json:"temperature"`

	DefaultWeight       string `bson:"defaultWeight" json:"defaultWeight"`
	DefaultLength       string `bson:"defaultLength" json:"defaultLength"`
	DefaultClothingSize string `bson:"defaultClothingSize" json:"defaultClothingSize"`
	DefaultVolume       string `bson:"defaultVolume" json:"defaultVolume"`
	DefaultTemperature  string `bson:"defaultTemperature" json:"defaultTemperature"`
}

// Configuration is the singleton system configuration document. Currency
// rates live in their own collection; DefaultCurrency references a rate by
// currency code.
type Configuration struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Units           UnitsConfig        `bson:"units" json:"units"`
	DefaultCurrency string             `bson:"defaultCurrency" json:"defaultCurrency"`
}
