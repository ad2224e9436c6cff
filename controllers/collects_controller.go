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

// CollectsController owns the collect CRUD and listing endpoints.
type CollectsController struct {
	Collects store.Collects
}

func NewCollectsController(collects store.Collects) *CollectsController {
	return &CollectsController{Collects: collects}
}

// List handles GET /collect with optional userId, convoyId, date range,
// status and proximity filters.
func (cc *CollectsController) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter store.CollectFilter

		if v := c.Query("userId"); v != "" {
			id, err := bson.ObjectIDFromHex(v)
			if err != nil {
				apierrors.BadRequest(c, errors.New("invalid userId"))
				return
			}
			filter.UserID = &id
		}
		if v := c.Query("convoyId"); v != "" {
			id, err := bson.ObjectIDFromHex(v)
			if err != nil {
				apierrors.BadRequest(c, errors.New("invalid convoyId"))
				return
			}
			filter.ConvoyID = &id
		}

		min, max, err := parseDateBounds(c)
		if err != nil {
			apierrors.BadRequest(c, err)
			return
		}
		filter.MinDate, filter.MaxDate = min, max

		if filter.Statuses, err = parseStatuses(c, models.ValidCollectStatus); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		if filter.Near, err = parseProximity(c); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		collects, err := cc.Collects.List(c.Request.Context(), filter)
		if err != nil {
			apierrors.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": collects})
	}
}

// Get handles GET /collect/:_id.
func (cc *CollectsController) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("_id"))
		if err != nil {
			apierrors.BadRequest(c, err)
			return
		}
		collect, err := cc.Collects.FindByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, apierrors.ErrNotFound) {
				apierrors.FailCode(c, http.StatusBadRequest, "Collect not existing", apierrors.CodeNotFound)
				return
			}
			apierrors.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": collect})
	}
}

// Create handles POST /collect.
func (cc *CollectsController) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CollectDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		collect := &models.Collect{}
		if err := applyCollectDTO(collect, &body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		if err := cc.Collects.Create(c.Request.Context(), collect); err != nil {
			apierrors.Internal(c)
			return
		}

		populated, err := cc.Collects.FindByID(c.Request.Context(), collect.ID)
		if err != nil {
			apierrors.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": populated})
	}
}

// Update handles PUT /collect/:_id with partial field updates.
func (cc *CollectsController) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("_id"))
		if err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		var body dto.CollectDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		ctx := c.Request.Context()
		existing, err := cc.Collects.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, apierrors.ErrNotFound) {
				apierrors.FailCode(c, http.StatusBadRequest, "Collect not existing", apierrors.CodeNotFound)
				return
			}
			apierrors.Internal(c)
			return
		}

		collect := existing.Collect
		if err := applyCollectDTO(&collect, &body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		if err := cc.Collects.Save(ctx, &collect); err != nil {
			apierrors.Internal(c)
			return
		}

		populated, err := cc.Collects.FindByID(ctx, collect.ID)
		if err != nil {
			apierrors.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": populated})
	}
}

// Delete handles DELETE /collect/:_id.
func (cc *CollectsController) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("_id"))
		if err != nil {
			apierrors.BadRequest(c, err)
			return
		}
		if err := cc.Collects.Delete(c.Request.Context(), id); err != nil {
			apierrors.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// applyCollectDTO copies the whitelisted fields present in the body onto the
// collect document.
func applyCollectDTO(collect *models.Collect, body *dto.CollectDTO) error {
	if body.Date != nil {
		date, err := utils.ParseDate(*body.Date)
		if err != nil {
			return errors.New("invalid date")
		}
		collect.Date = date
	}
	if body.PickupName != nil {
		collect.PickupName = *body.PickupName
	}
	if body.PickupGeometry != nil {
		collect.PickupGeometry = models.NewGeoPoint(body.PickupGeometry.Coordinates[0], body.PickupGeometry.Coordinates[1])
	}
	if body.LoadingVolume != nil {
		collect.LoadingVolume = *body.LoadingVolume
	}
	if body.User != nil {
		userID, err := bson.ObjectIDFromHex(*body.User)
		if err != nil {
			return errors.New("invalid user id")
		}
		collect.UserID = userID
	}
	if body.Convoy != nil {
		convoyID, err := bson.ObjectIDFromHex(*body.Convoy)
		if err != nil {
			return errors.New("invalid convoy id")
		}
		collect.ConvoyID = convoyID
	}
	if body.WhatsappLink != nil {
		collect.WhatsappLink = *body.WhatsappLink
	}
	if body.Status != nil {
		if !models.ValidCollectStatus(*body.Status) {
			return errors.New("invalid status: " + *body.Status)
		}
		collect.Status = models.CollectStatus(*body.Status)
	}
	return nil
}
