package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type CollectStatus string

const (
	CollectStatusPreparation CollectStatus = "preparation"
	CollectStatusOngoing     CollectStatus = "ongoing"
	CollectStatusCompleted   CollectStatus = "completed"
)

// ValidCollectStatus reports whether s is one of the known collect statuses.
func ValidCollectStatus(s string) bool {
	switch CollectStatus(s) {
	case CollectStatusPreparation, CollectStatusOngoing, CollectStatusCompleted:
		return true
	}
	return false
}

type Collect struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"_id"`

	Date *time.Time `bson:"date,omitempty" json:"date,omitempty"`

	PickupName     string    `bson:"pickupName,omitempty" json:"pickupName,omitempty"`
	PickupGeometry *GeoPoint `bson:"pickupGeometry,omitempty" json:"pickupGeometry,omitempty"`

	LoadingVolume string `bson:"loadingVolume,omitempty" json:"loadingVolume,omitempty"`

	ConvoyID bson.ObjectID `bson:"convoy,omitempty" json:"convoy,omitempty"`
	UserID   bson.ObjectID `bson:"user,omitempty" json:"user,omitempty"`

	WhatsappLink string        `bson:"whatsappLink,omitempty" json:"whatsappLink,omitempty"`
	Status       CollectStatus `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PopulatedCollect is a collect with its user and convoy references resolved.
type PopulatedCollect struct {
	Collect `bson:",inline"`
	User    *PublicUser `bson:"userDoc,omitempty" json:"userDoc,omitempty"`
	Convoy  *Convoy     `bson:"convoyDoc,omitempty" json:"convoyDoc,omitempty"`
}
