package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/convoisukraine/convoysbackend/apierrors"
	"github.com/convoisukraine/convoysbackend/dto"
	"github.com/convoisukraine/convoysbackend/models"
	"github.com/convoisukraine/convoysbackend/store"
	"github.com/convoisukraine/convoysbackend/utils"
)

// ConvoysController owns the convoy CRUD and listing endpoints.
type ConvoysController struct {
	Convoys store.Convoys
}

func NewConvoysController(convoys store.Convoys) *ConvoysController {
	return &ConvoysController{Convoys: convoys}
}

// List handles GET /convoy with optional driverId, date range, status and
// proximity filters.
func (cc *ConvoysController) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter store.ConvoyFilter

		if v := c.Query("driverId"); v != "" {
			id, err := bson.ObjectIDFromHex(v)
			if err != nil {
				apierrors.BadRequest(c, errors.New("invalid driverId"))
				return
			}
			filter.DriverID = &id
		}

		min, max, err := parseDateBounds(c)
		if err != nil {
			apierrors.BadRequest(c, err)
			return
		}
		filter.MinDate, filter.MaxDate = min, max

		if filter.Statuses, err = parseStatuses(c, models.ValidConvoyStatus); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		if v := c.Query("search"); v != "" {
			filter.Search = utils.NormalizeSearch(v)
		}

		if filter.Near, err = parseProximity(c); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		convoys, err := cc.Convoys.List(c.Request.Context(), filter)
		if err != nil {
			apierrors.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": convoys})
	}
}

// Get handles GET /convoy/:_id.
func (cc *ConvoysController) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("_id"))
		if err != nil {
			apierrors.BadRequest(c, err)
			return
		}
		convoy, err := cc.Convoys.FindByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, apierrors.ErrNotFound) {
				apierrors.FailCode(c, http.StatusBadRequest, "Convoy not existing", apierrors.CodeNotFound)
				return
			}
			apierrors.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": convoy})
	}
}

// Create handles POST /convoy.
func (cc *ConvoysController) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ConvoyDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		convoy := &models.Convoy{}
		if err := applyConvoyDTO(convoy, &body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		if err := cc.Convoys.Create(c.Request.Context(), convoy); err != nil {
			apierrors.Internal(c)
			return
		}

		populated, err := cc.Convoys.FindByID(c.Request.Context(), convoy.ID)
		if err != nil {
			apierrors.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": populated})
	}
}

// Update handles PUT /convoy/:_id with partial field updates.
func (cc *ConvoysController) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("_id"))
		if err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		var body dto.ConvoyDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		ctx := c.Request.Context()
		existing, err := cc.Convoys.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, apierrors.ErrNotFound) {
				apierrors.FailCode(c, http.StatusBadRequest, "Convoy not existing", apierrors.CodeNotFound)
				return
			}
			apierrors.Internal(c)
			return
		}

		convoy := existing.Convoy
		if err := applyConvoyDTO(&convoy, &body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		if err := cc.Convoys.Save(ctx, &convoy); err != nil {
			apierrors.Internal(c)
			return
		}

		populated, err := cc.Convoys.FindByID(ctx, convoy.ID)
		if err != nil {
			apierrors.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": populated})
	}
}

// Delete handles DELETE /convoy/:_id.
func (cc *ConvoysController) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("_id"))
		if err != nil {
			apierrors.BadRequest(c, err)
			return
		}
		if err := cc.Convoys.Delete(c.Request.Context(), id); err != nil {
			apierrors.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// applyConvoyDTO copies the whitelisted fields present in the body onto the
// convoy document.
func applyConvoyDTO(convoy *models.Convoy, body *dto.ConvoyDTO) error {
	if body.Departure != nil {
		departure, err := utils.ParseDate(*body.Departure)
		if err != nil {
			return errors.New("invalid departure date")
		}
		convoy.Departure = departure
	}
	if body.PickupName != nil {
		convoy.PickupName = *body.PickupName
		convoy.PickupNameSearch = utils.NormalizeSearch(*body.PickupName)
	}
	if body.PickupGeometry != nil {
		convoy.PickupGeometry = models.NewGeoPoint(body.PickupGeometry.Coordinates[0], body.PickupGeometry.Coordinates[1])
	}
	if body.DropoffName != nil {
		convoy.DropoffName = *body.DropoffName
	}
	if body.DropoffGeometry != nil {
		convoy.DropoffGeometry = models.NewGeoPoint(body.DropoffGeometry.Coordinates[0], body.DropoffGeometry.Coordinates[1])
	}
	if body.PlacesInCar != nil {
		convoy.PlacesInCar = *body.PlacesInCar
	}
	if body.LoadingVolume != nil {
		convoy.LoadingVolume = *body.LoadingVolume
	}
	if body.Driver != nil {
		driverID, err := bson.ObjectIDFromHex(*body.Driver)
		if err != nil {
			return errors.New("invalid driver id")
		}
		convoy.DriverID = driverID
	}
	if body.WhatsappLink != nil {
		convoy.WhatsappLink = *body.WhatsappLink
	}
	if body.Status != nil {
		if !models.ValidConvoyStatus(*body.Status) {
			return errors.New("invalid status: " + *body.Status)
		}
		convoy.Status = models.ConvoyStatus(*body.Status)
	}
	return nil
}
