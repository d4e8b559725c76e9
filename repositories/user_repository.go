package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bdaestates/bda_backend/config"
	"github.com/bdaestates/bda_backend/models"
	"github.com/bdaestates/bda_backend/utils"
)

type UserRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
	usernames  *mongo.Collection
}

func NewUserRepository(db *mongo.Client) *UserRepository {
	return &UserRepository{
		collection: config.GetCollection(db, "users"),
		counters:   config.GetCollection(db, "counters"),
		usernames:  config.GetCollection(db, "usernames"),
	}
}

// NextBdaID reserves the next BDA id through an atomic counter increment,
// so concurrent member creations can never be handed the same id
func (r *UserRepository) NextBdaID(ctx context.Context) (string, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "bdaId"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return "", err
	}

	return utils.FormatBdaID(counter.Seq), nil
}

// SaveUsernameMapping links a BDA id to its member id for non-email login
func (r *UserRepository) SaveUsernameMapping(ctx context.Context, bdaID, userID string) error {
	_, err := r.usernames.UpdateOne(
		ctx,
		bson.M{"_id": bdaID},
		bson.M{"$set": bson.M{"userId": userID}},
		options.Update().SetUpsert(true),
	)
	return err
}

// DeleteUsernameMapping removes the BDA id mapping
func (r *UserRepository) DeleteUsernameMapping(ctx context.Context, bdaID string) error {
	_, err := r.usernames.DeleteOne(ctx, bson.M{"_id": bdaID})
	return err
}

// ResolveBdaID returns the member id mapped to a BDA id
func (r *UserRepository) ResolveBdaID(ctx context.Context, bdaID string) (string, error) {
	var mapping models.UsernameMapping
	err := r.usernames.FindOne(ctx, bson.M{"_id": bdaID}).Decode(&mapping)
	if err != nil {
		return "", err
	}
	return mapping.UserID, nil
}

// FindByEmail looks a member up by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDOrBdaID resolves a member by ObjectID hex or by BDA id
func (r *UserRepository) FindByIDOrBdaID(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	if utils.IsBdaID(id) {
		err := r.collection.FindOne(ctx, bson.M{"bdaId": id}).Decode(&user)
		if err != nil {
			return nil, err
		}
		return &user, nil
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfilePicture patches the member's photo path
func (r *UserRepository) UpdateProfilePicture(ctx context.Context, userID primitive.ObjectID, profileURL string) error {
	update := bson.M{
		"$set": bson.M{
			"profilePic": profileURL,
			"updatedAt":  time.Now(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}
