package store

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/convoisukraine/convoysbackend/models"
)

// DefaultMaxDistanceMeters bounds proximity searches when the caller does
// not supply a radius.
const DefaultMaxDistanceMeters = 3000

// Proximity describes a "within max, at least min" distance predicate
// around a center point.
type Proximity struct {
	Center      *models.GeoPoint
	MaxDistance int
	MinDistance int
}

// BuildProximityFilter translates a proximity predicate into a $near clause
// usable against a 2dsphere-indexed location field.
func BuildProximityFilter(p Proximity) bson.M {
	maxDistance := p.MaxDistance
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistanceMeters
	}
	return bson.M{
		"$near": bson.M{
			"$geometry": bson.M{
				"type":        "Point",
				"coordinates": p.Center.Coordinates,
			},
			"$maxDistance": maxDistance,
			"$minDistance": p.MinDistance,
		},
	}
}

// ConvoyFilter narrows a convoy listing. Zero values mean "no constraint".
// Search must already be normalized with utils.NormalizeSearch.
type ConvoyFilter struct {
	DriverID *bson.ObjectID
	MinDate  *time.Time
	MaxDate  *time.Time
	Statuses []string
	Search   string
	Near     *Proximity
}

// BuildConvoyFilter assembles the query document; all active predicates
// combine with logical AND. Both date bounds apply to the departure field
// as a single range.
func BuildConvoyFilter(f ConvoyFilter) bson.M {
	query := bson.M{}
	if f.DriverID != nil {
		query["driver"] = *f.DriverID
	}
	if rng := dateRange(f.MinDate, f.MaxDate); rng != nil {
		query["departure"] = rng
	}
	if len(f.Statuses) > 0 {
		query["status"] = bson.M{"$in": f.Statuses}
	}
	if f.Search != "" {
		query["pickupNameSearch"] = bson.M{"$regex": "^" + regexp.QuoteMeta(f.Search)}
	}
	if f.Near != nil && f.Near.Center.IsValid() {
		query["pickupGeometry"] = BuildProximityFilter(*f.Near)
	}
	return query
}

// CollectFilter narrows a collect listing. Zero values mean "no constraint".
type CollectFilter struct {
	UserID   *bson.ObjectID
	ConvoyID *bson.ObjectID
	MinDate  *time.Time
	MaxDate  *time.Time
	Statuses []string
	Near     *Proximity
}

// BuildCollectFilter assembles the query document for collect listings.
func BuildCollectFilter(f CollectFilter) bson.M {
	query := bson.M{}
	if f.UserID != nil {
		query["user"] = *f.UserID
	}
	if f.ConvoyID != nil {
		query["convoy"] = *f.ConvoyID
	}
	if rng := dateRange(f.MinDate, f.MaxDate); rng != nil {
		query["date"] = rng
	}
	if len(f.Statuses) > 0 {
		query["status"] = bson.M{"$in": f.Statuses}
	}
	if f.Near != nil && f.Near.Center.IsValid() {
		query["pickupGeometry"] = BuildProximityFilter(*f.Near)
	}
	return query
}

func dateRange(min, max *time.Time) bson.M {
	if min == nil && max == nil {
		return nil
	}
	rng := bson.M{}
	if min != nil {
		rng["$gte"] = *min
	}
	if max != nil {
		rng["$lte"] = *max
	}
	return rng
}
