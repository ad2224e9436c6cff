package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/convoisukraine/convoysbackend/apierrors"
	"github.com/convoisukraine/convoysbackend/dto"
	"github.com/convoisukraine/convoysbackend/models"
	"github.com/convoisukraine/convoysbackend/store"
)

type mockConvoys struct {
	mock.Mock
}

func (m *mockConvoys) List(ctx context.Context, filter store.ConvoyFilter) ([]models.PopulatedConvoy, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PopulatedConvoy), args.Error(1)
}

func (m *mockConvoys) FindByID(ctx context.Context, id bson.ObjectID) (*models.PopulatedConvoy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PopulatedConvoy), args.Error(1)
}

func (m *mockConvoys) Create(ctx context.Context, convoy *models.Convoy) error {
	return m.Called(ctx, convoy).Error(0)
}

func (m *mockConvoys) Save(ctx context.Context, convoy *models.Convoy) error {
	return m.Called(ctx, convoy).Error(0)
}

func (m *mockConvoys) Delete(ctx context.Context, id bson.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func serveConvoys(convoys *mockConvoys, method, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	ctrl := NewConvoysController(convoys)
	r := gin.New()
	r.GET("/convoy", ctrl.List())
	r.GET("/convoy/:_id", ctrl.Get())
	r.DELETE("/convoy/:_id", ctrl.Delete())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(rec, req)
	return rec
}

func TestListConvoysBuildsProximityFilter(t *testing.T) {
	convoys := new(mockConvoys)
	convoys.On("List", mock.Anything, mock.MatchedBy(func(f store.ConvoyFilter) bool {
		return f.Near != nil &&
			f.Near.Center.Coordinates[0] == 2.35 &&
			f.Near.Center.Coordinates[1] == 48.85 &&
			f.Near.MaxDistance == 3000
	})).Return([]models.PopulatedConvoy{}, nil)

	rec := serveConvoys(convoys, http.MethodGet, "/convoy?lon=2.35&lat=48.85")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"data":[]}`, rec.Body.String())
	convoys.AssertExpectations(t)
}

func TestListConvoysNormalizesSearch(t *testing.T) {
	convoys := new(mockConvoys)
	convoys.On("List", mock.Anything, mock.MatchedBy(func(f store.ConvoyFilter) bool {
		return f.Search == "przemysl"
	})).Return([]models.PopulatedConvoy{}, nil)

	rec := serveConvoys(convoys, http.MethodGet, "/convoy?search=Przemy%C5%9Bl")

	assert.Equal(t, http.StatusOK, rec.Code)
	convoys.AssertExpectations(t)
}

func TestListConvoysRejectsBadDriverID(t *testing.T) {
	rec := serveConvoys(new(mockConvoys), http.MethodGet, "/convoy?driverId=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetConvoyNotFound(t *testing.T) {
	convoys := new(mockConvoys)
	convoys.On("FindByID", mock.Anything, mock.Anything).Return(nil, apierrors.ErrNotFound)

	rec := serveConvoys(convoys, http.MethodGet, "/convoy/"+bson.NewObjectID().Hex())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Convoy not existing")
}

func TestDeleteConvoy(t *testing.T) {
	id := bson.NewObjectID()
	convoys := new(mockConvoys)
	convoys.On("Delete", mock.Anything, id).Return(nil)

	rec := serveConvoys(convoys, http.MethodDelete, "/convoy/"+id.Hex())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	convoys.AssertExpectations(t)
}

func TestApplyConvoyDTO(t *testing.T) {
	departure := "2022-03-15T08:00:00Z"
	pickup := "Paris"
	status := "loaded"
	driver := bson.NewObjectID()
	driverHex := driver.Hex()
	places := 3

	convoy := &models.Convoy{}
	body := dto.ConvoyDTO{
		Departure:   &departure,
		PickupName:  &pickup,
		PlacesInCar: &places,
		Driver:      &driverHex,
		Status:      &status,
	}
	require.NoError(t, applyConvoyDTO(convoy, &body))

	assert.Equal(t, "Paris", convoy.PickupName)
	assert.Equal(t, "paris", convoy.PickupNameSearch)
	assert.Equal(t, models.ConvoyStatusLoaded, convoy.Status)
	assert.Equal(t, driver, convoy.DriverID)
	assert.Equal(t, 3, convoy.PlacesInCar)
	require.NotNil(t, convoy.Departure)
	assert.Equal(t, 8, convoy.Departure.Hour())

	bad := "not-a-status"
	body.Status = &bad
	assert.Error(t, applyConvoyDTO(&models.Convoy{}, &body))
}
