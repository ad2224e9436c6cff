package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/convoisukraine/convoysbackend/models"
)

func TestBuildProximityFilter(t *testing.T) {
	filter := BuildProximityFilter(Proximity{
		Center:      models.NewGeoPoint(2.35, 48.85),
		MaxDistance: 3000,
	})

	near, ok := filter["$near"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, 3000, near["$maxDistance"])
	assert.Equal(t, 0, near["$minDistance"])

	geometry, ok := near["$geometry"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "Point", geometry["type"])
	assert.Equal(t, []float64{2.35, 48.85}, geometry["coordinates"])
}

func TestBuildProximityFilterDefaultsMaxDistance(t *testing.T) {
	filter := BuildProximityFilter(Proximity{Center: models.NewGeoPoint(0, 0)})
	near := filter["$near"].(bson.M)
	assert.Equal(t, DefaultMaxDistanceMeters, near["$maxDistance"])
}

func TestBuildConvoyFilterEmpty(t *testing.T) {
	assert.Empty(t, BuildConvoyFilter(ConvoyFilter{}))
}

func TestBuildConvoyFilterDateRange(t *testing.T) {
	min := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2022, 3, 31, 0, 0, 0, 0, time.UTC)

	// both bounds narrow the same field
	query := BuildConvoyFilter(ConvoyFilter{MinDate: &min, MaxDate: &max})
	assert.Equal(t, bson.M{"$gte": min, "$lte": max}, query["departure"])

	query = BuildConvoyFilter(ConvoyFilter{MinDate: &min})
	assert.Equal(t, bson.M{"$gte": min}, query["departure"])

	query = BuildConvoyFilter(ConvoyFilter{MaxDate: &max})
	assert.Equal(t, bson.M{"$lte": max}, query["departure"])
}

func TestBuildConvoyFilterCombined(t *testing.T) {
	driverID := bson.NewObjectID()
	query := BuildConvoyFilter(ConvoyFilter{
		DriverID: &driverID,
		Statuses: []string{"preparation", "loaded"},
		Near:     &Proximity{Center: models.NewGeoPoint(2.35, 48.85), MaxDistance: 3000},
	})

	assert.Equal(t, driverID, query["driver"])
	assert.Equal(t, bson.M{"$in": []string{"preparation", "loaded"}}, query["status"])
	assert.Contains(t, query, "pickupGeometry")
	assert.Len(t, query, 3)
}

func TestBuildConvoyFilterSearch(t *testing.T) {
	query := BuildConvoyFilter(ConvoyFilter{Search: "lviv"})
	assert.Equal(t, bson.M{"$regex": "^lviv"}, query["pickupNameSearch"])

	// regex metacharacters in user input must not leak into the pattern
	query = BuildConvoyFilter(ConvoyFilter{Search: "a.b"})
	assert.Equal(t, bson.M{"$regex": `^a\.b`}, query["pickupNameSearch"])
}

func TestBuildConvoyFilterIgnoresInvalidCenter(t *testing.T) {
	query := BuildConvoyFilter(ConvoyFilter{
		Near: &Proximity{Center: &models.GeoPoint{Type: "Point"}},
	})
	assert.NotContains(t, query, "pickupGeometry")
}

func TestBuildCollectFilter(t *testing.T) {
	userID := bson.NewObjectID()
	convoyID := bson.NewObjectID()
	min := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)

	query := BuildCollectFilter(CollectFilter{
		UserID:   &userID,
		ConvoyID: &convoyID,
		MinDate:  &min,
		Statuses: []string{"ongoing"},
		Near:     &Proximity{Center: models.NewGeoPoint(24.03, 49.84), MaxDistance: 500, MinDistance: 100},
	})

	assert.Equal(t, userID, query["user"])
	assert.Equal(t, convoyID, query["convoy"])
	assert.Equal(t, bson.M{"$gte": min}, query["date"])
	assert.Equal(t, bson.M{"$in": []string{"ongoing"}}, query["status"])

	near := query["pickupGeometry"].(bson.M)["$near"].(bson.M)
	assert.Equal(t, 500, near["$maxDistance"])
	assert.Equal(t, 100, near["$minDistance"])
}
