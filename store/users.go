package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/convoisukraine/convoysbackend/apierrors"
	"github.com/convoisukraine/convoysbackend/models"
	"github.com/convoisukraine/convoysbackend/utils"
)

// Users defines credential store operations.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	// FindByResetToken matches the exact token with an expiry still in the
	// future; expired or unknown tokens return ErrNotFound.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

type mongoUsers struct {
	col *mongo.Collection
}

// NewUsers builds a Mongo-backed credential store.
func NewUsers(col *mongo.Collection) Users {
	return &mongoUsers{col: col}
}

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": utils.NormalizeEmail(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *mongoUsers) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *mongoUsers) FindByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{
		"forgotPasswordResetToken":   token,
		"forgotPasswordResetExpires": bson.M{"$gt": now},
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *mongoUsers) Create(ctx context.Context, user *models.User) error {
	if err := hashIfChanged(user); err != nil {
		return err
	}
	now := time.Now().UTC()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := s.col.InsertOne(ctx, user)
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return apierrors.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *mongoUsers) Save(ctx context.Context, user *models.User) error {
	if err := hashIfChanged(user); err != nil {
		return err
	}
	user.UpdatedAt = time.Now().UTC()
	// Full-document replace: the reset flow relies on cleared token fields
	// actually disappearing, which $set updates would leave behind.
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return apierrors.ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return apierrors.ErrNotFound
	}
	return nil
}

func (s *mongoUsers) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// hashIfChanged replaces a staged plaintext password with its bcrypt hash.
// Every write path goes through here, so a plaintext password can never
// reach the database.
func hashIfChanged(user *models.User) error {
	if !user.PasswordChanged() {
		return nil
	}
	hash, err := utils.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hash
	user.ClearPasswordChanged()
	return nil
}
