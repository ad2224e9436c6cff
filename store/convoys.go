package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/convoisukraine/convoysbackend/apierrors"
	"github.com/convoisukraine/convoysbackend/models"
)

// Convoys persists convoy documents and resolves driver references the way
// the listing endpoints expect them.
type Convoys interface {
	List(ctx context.Context, filter ConvoyFilter) ([]models.PopulatedConvoy, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.PopulatedConvoy, error)
	Create(ctx context.Context, convoy *models.Convoy) error
	Save(ctx context.Context, convoy *models.Convoy) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

type mongoConvoys struct {
	col   *mongo.Collection
	users *mongo.Collection
}

func NewConvoys(col, users *mongo.Collection) Convoys {
	return &mongoConvoys{col: col, users: users}
}

func (s *mongoConvoys) List(ctx context.Context, filter ConvoyFilter) ([]models.PopulatedConvoy, error) {
	cursor, err := s.col.Find(ctx, BuildConvoyFilter(filter))
	if err != nil {
		return nil, err
	}
	var convoys []models.Convoy
	if err := cursor.All(ctx, &convoys); err != nil {
		return nil, err
	}

	drivers, err := s.loadDrivers(ctx, convoys)
	if err != nil {
		return nil, err
	}

	out := make([]models.PopulatedConvoy, 0, len(convoys))
	for _, convoy := range convoys {
		populated := models.PopulatedConvoy{Convoy: convoy}
		if d, ok := drivers[convoy.DriverID]; ok {
			populated.Driver = &d
		}
		out = append(out, populated)
	}
	return out, nil
}

func (s *mongoConvoys) FindByID(ctx context.Context, id bson.ObjectID) (*models.PopulatedConvoy, error) {
	var convoy models.Convoy
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&convoy); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	populated := models.PopulatedConvoy{Convoy: convoy}
	if !convoy.DriverID.IsZero() {
		var driver models.PublicUser
		err := s.users.FindOne(ctx, bson.M{"_id": convoy.DriverID}).Decode(&driver)
		if err == nil {
			populated.Driver = &driver
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}
	return &populated, nil
}

func (s *mongoConvoys) Create(ctx context.Context, convoy *models.Convoy) error {
	now := time.Now().UTC()
	convoy.ID = bson.NewObjectID()
	convoy.CreatedAt = now
	convoy.UpdatedAt = now
	_, err := s.col.InsertOne(ctx, convoy)
	return err
}

func (s *mongoConvoys) Save(ctx context.Context, convoy *models.Convoy) error {
	convoy.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": convoy.ID}, convoy)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apierrors.ErrNotFound
	}
	return nil
}

func (s *mongoConvoys) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// loadDrivers fetches the redacted user view for every distinct driver in
// one query, the same two-step resolution mongoose populate performs.
func (s *mongoConvoys) loadDrivers(ctx context.Context, convoys []models.Convoy) (map[bson.ObjectID]models.PublicUser, error) {
	ids := make([]bson.ObjectID, 0, len(convoys))
	seen := make(map[bson.ObjectID]bool)
	for _, convoy := range convoys {
		if !convoy.DriverID.IsZero() && !seen[convoy.DriverID] {
			seen[convoy.DriverID] = true
			ids = append(ids, convoy.DriverID)
		}
	}
	if len(ids) == 0 {
		return map[bson.ObjectID]models.PublicUser{}, nil
	}

	projection := options.Find().SetProjection(bson.M{"name": 1, "email": 1})
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, projection)
	if err != nil {
		return nil, err
	}
	var users []models.PublicUser
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	out := make(map[bson.ObjectID]models.PublicUser, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
