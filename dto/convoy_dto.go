package dto

// ConvoyDTO covers both creation and partial update of a convoy: nil
// pointers mean "leave the field alone".
type ConvoyDTO struct {
	Departure       *string      `json:"departure"`
	PickupName      *string      `json:"pickupName"`
	PickupGeometry  *GeoPointDTO `json:"pickupGeometry"`
	DropoffName     *string      `json:"dropoffName"`
	DropoffGeometry *GeoPointDTO `json:"dropoffGeometry"`
	PlacesInCar     *int         `json:"placesInCar"`
	LoadingVolume   *string      `json:"loadingVolume"`
	Driver          *string      `json:"driver"`
	WhatsappLink    *string      `json:"whatsappLink"`
	Status          *string      `json:"status"`
}
