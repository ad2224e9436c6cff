package dto

// CollectDTO covers both creation and partial update of a collect: nil
// pointers mean "leave the field alone".
type CollectDTO struct {
	Date           *string      `json:"date"`
	PickupName     *string      `json:"pickupName"`
	PickupGeometry *GeoPointDTO `json:"pickupGeometry"`
	LoadingVolume  *string      `json:"loadingVolume"`
	User           *string      `json:"user"`
	Convoy         *string      `json:"convoy"`
	WhatsappLink   *string      `json:"whatsappLink"`
	Status         *string      `json:"status"`
}
