package controllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/convoisukraine/convoysbackend/middleware"
	"github.com/convoisukraine/convoysbackend/models"
	"github.com/convoisukraine/convoysbackend/store"
	"github.com/convoisukraine/convoysbackend/utils"
)

// parseDateBounds reads the inclusive minDate/maxDate query bounds. Both may
// be present; they narrow the same field as one range.
func parseDateBounds(c *gin.Context) (min, max *time.Time, err error) {
	if v := c.Query("minDate"); v != "" {
		if min, err = utils.ParseDate(v); err != nil {
			return nil, nil, errors.New("invalid minDate")
		}
	}
	if v := c.Query("maxDate"); v != "" {
		if max, err = utils.ParseDate(v); err != nil {
			return nil, nil, errors.New("invalid maxDate")
		}
	}
	return min, max, nil
}

// parseProximity reads the proximity parameters. An explicit lon/lat pair
// wins; near=true falls back to the requester's stored location. Returns nil
// when no proximity search was asked for.
func parseProximity(c *gin.Context) (*store.Proximity, error) {
	var center *models.GeoPoint

	lon, hasLon := utils.ParseFloat(c.Query("lon"))
	lat, hasLat := utils.ParseFloat(c.Query("lat"))
	switch {
	case hasLon && hasLat:
		center = models.NewGeoPoint(lon, lat)
	case hasLon || hasLat:
		return nil, errors.New("lon and lat must both be provided")
	case c.Query("near") == "true":
		user, ok := middleware.CurrentUser(c)
		if !ok || !user.Location.IsValid() {
			return nil, errors.New("no stored location for proximity search")
		}
		center = user.Location
	default:
		return nil, nil
	}

	return &store.Proximity{
		Center:      center,
		MaxDistance: utils.ParseIntDefault(c.Query("maxDistance"), store.DefaultMaxDistanceMeters),
		MinDistance: utils.ParseIntDefault(c.Query("minDistance"), 0),
	}, nil
}

// parseStatuses validates the repeated status parameter against the
// accepted values; unknown statuses can never match anything.
func parseStatuses(c *gin.Context, valid func(string) bool) ([]string, error) {
	statuses := c.QueryArray("status")
	for _, s := range statuses {
		if !valid(s) {
			return nil, errors.New("invalid status: " + s)
		}
	}
	return statuses, nil
}
