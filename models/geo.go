package models

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a well-formed Point geometry.
func NewGeoPoint(lon, lat float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

// IsValid reports whether the geometry is a usable Point.
func (p *GeoPoint) IsValid() bool {
	return p != nil && p.Type == "Point" && len(p.Coordinates) == 2
}
