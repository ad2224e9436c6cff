package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ConvoyStatus string

const (
	ConvoyStatusPreparation ConvoyStatus = "preparation"
	ConvoyStatusLoaded      ConvoyStatus = "loaded"
	ConvoyStatusProcessing  ConvoyStatus = "processing"
	ConvoyStatusDelivered   ConvoyStatus = "delivered"
)

// ValidConvoyStatus reports whether s is one of the known convoy statuses.
func ValidConvoyStatus(s string) bool {
	switch ConvoyStatus(s) {
	case ConvoyStatusPreparation, ConvoyStatusLoaded, ConvoyStatusProcessing, ConvoyStatusDelivered:
		return true
	}
	return false
}

type Convoy struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"_id"`

	Departure *time.Time `bson:"departure,omitempty" json:"departure,omitempty"`

	PickupName     string    `bson:"pickupName,omitempty" json:"pickupName,omitempty"`
	PickupGeometry *GeoPoint `bson:"pickupGeometry,omitempty" json:"pickupGeometry,omitempty"`

	// PickupNameSearch is the accent-folded, lowercased pickup name; text
	// search matches against it instead of the display name.
	PickupNameSearch string `bson:"pickupNameSearch,omitempty" json:"-"`

	DropoffName     string    `bson:"dropoffName,omitempty" json:"dropoffName,omitempty"`
	DropoffGeometry *GeoPoint `bson:"dropoffGeometry,omitempty" json:"dropoffGeometry,omitempty"`

	PlacesInCar   int    `bson:"placesInCar,omitempty" json:"placesInCar,omitempty"`
	LoadingVolume string `bson:"loadingVolume,omitempty" json:"loadingVolume,omitempty"`

	DriverID     bson.ObjectID `bson:"driver,omitempty" json:"driver,omitempty"`
	WhatsappLink string        `bson:"whatsappLink,omitempty" json:"whatsappLink,omitempty"`
	Status       ConvoyStatus  `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PopulatedConvoy is a convoy with its driver reference resolved.
type PopulatedConvoy struct {
	Convoy `bson:",inline"`
	Driver *PublicUser `bson:"driverDoc,omitempty" json:"driverDoc,omitempty"`
}
