package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"liarsbar-bot/internal/models"
)

const usersCollection = "users"

// UserRepository stores user documents in MongoDB, one document per Telegram
// user ID.
type UserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(client *mongo.Client, database string) *UserRepository {
	return &UserRepository{
		users: client.Database(database).Collection(usersCollection),
	}
}

// Get returns the user document for id, reporting found=false when no
// document exists.
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, bool, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	return &user, true, nil
}

// Create writes the whole user document. The caller checks existence first;
// two concurrent first-time starts can both reach this and the second write
// wins, replacing an identical default document.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, opts); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}
	return nil
}

// CreditReferral appends a referral entry under referrals.<refereeID> and
// increments the referrer's balance in a single update, so two referees
// racing through here both land their credit. Returns false when the
// referrer document does not exist.
func (r *UserRepository) CreditReferral(ctx context.Context, referrerID, refereeID string, entry models.ReferralEntry) (bool, error) {
	update := bson.M{
		"$inc": bson.M{"balance": entry.AddedValue},
		"$set": bson.M{"referrals." + refereeID: entry},
	}

	result, err := r.users.UpdateOne(ctx, bson.M{"_id": referrerID}, update)
	if err != nil {
		return false, fmt.Errorf("failed to credit referrer %s: %w", referrerID, err)
	}
	return result.MatchedCount > 0, nil
}
