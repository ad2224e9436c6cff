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

// Collects persists pickup requests and resolves their user and convoy
// references.
type Collects interface {
	List(ctx context.Context, filter CollectFilter) ([]models.PopulatedCollect, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.PopulatedCollect, error)
	Create(ctx context.Context, collect *models.Collect) error
	Save(ctx context.Context, collect *models.Collect) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

type mongoCollects struct {
	col     *mongo.Collection
	users   *mongo.Collection
	convoys *mongo.Collection
}

func NewCollects(col, users, convoys *mongo.Collection) Collects {
	return &mongoCollects{col: col, users: users, convoys: convoys}
}

func (s *mongoCollects) List(ctx context.Context, filter CollectFilter) ([]models.PopulatedCollect, error) {
	cursor, err := s.col.Find(ctx, BuildCollectFilter(filter))
	if err != nil {
		return nil, err
	}
	var collects []models.Collect
	if err := cursor.All(ctx, &collects); err != nil {
		return nil, err
	}

	userIDs := make([]bson.ObjectID, 0, len(collects))
	convoyIDs := make([]bson.ObjectID, 0, len(collects))
	seenUser := make(map[bson.ObjectID]bool)
	seenConvoy := make(map[bson.ObjectID]bool)
	for _, collect := range collects {
		if !collect.UserID.IsZero() && !seenUser[collect.UserID] {
			seenUser[collect.UserID] = true
			userIDs = append(userIDs, collect.UserID)
		}
		if !collect.ConvoyID.IsZero() && !seenConvoy[collect.ConvoyID] {
			seenConvoy[collect.ConvoyID] = true
			convoyIDs = append(convoyIDs, collect.ConvoyID)
		}
	}

	users, err := s.loadUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	convoys, err := s.loadConvoys(ctx, convoyIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.PopulatedCollect, 0, len(collects))
	for _, collect := range collects {
		populated := models.PopulatedCollect{Collect: collect}
		if u, ok := users[collect.UserID]; ok {
			populated.User = &u
		}
		if cv, ok := convoys[collect.ConvoyID]; ok {
			populated.Convoy = &cv
		}
		out = append(out, populated)
	}
	return out, nil
}

func (s *mongoCollects) FindByID(ctx context.Context, id bson.ObjectID) (*models.PopulatedCollect, error) {
	var collect models.Collect
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&collect); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	populated := models.PopulatedCollect{Collect: collect}
	if !collect.UserID.IsZero() {
		var user models.PublicUser
		err := s.users.FindOne(ctx, bson.M{"_id": collect.UserID}).Decode(&user)
		if err == nil {
			populated.User = &user
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}
	if !collect.ConvoyID.IsZero() {
		var convoy models.Convoy
		err := s.convoys.FindOne(ctx, bson.M{"_id": collect.ConvoyID}).Decode(&convoy)
		if err == nil {
			populated.Convoy = &convoy
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}
	return &populated, nil
}

func (s *mongoCollects) Create(ctx context.Context, collect *models.Collect) error {
	now := time.Now().UTC()
	collect.ID = bson.NewObjectID()
	collect.CreatedAt = now
	collect.UpdatedAt = now
	_, err := s.col.InsertOne(ctx, collect)
	return err
}

func (s *mongoCollects) Save(ctx context.Context, collect *models.Collect) error {
	collect.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": collect.ID}, collect)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apierrors.ErrNotFound
	}
	return nil
}

func (s *mongoCollects) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *mongoCollects) loadUsers(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.PublicUser, error) {
	out := make(map[bson.ObjectID]models.PublicUser, len(ids))
	if len(ids) == 0 {
		return out, nil
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
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *mongoCollects) loadConvoys(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.Convoy, error) {
	out := make(map[bson.ObjectID]models.Convoy, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := s.convoys.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var convoys []models.Convoy
	if err := cursor.All(ctx, &convoys); err != nil {
		return nil, err
	}
	for _, cv := range convoys {
		out[cv.ID] = cv
	}
	return out, nil
}
