package models

import (
	"time"
)

// User is one document in the `users` collection, keyed by the Telegram user ID
// in decimal string form. The field names are shared with the mini-app frontend,
// which reads the same documents.
type User struct {
	ID                string                   `bson:"_id"`
	UserImage         *string                  `bson:"userImage"`
	FirstName         string                   `bson:"firstName"`
	LastName          *string                  `bson:"lastName"`
	Username          *string                  `bson:"username"`
	LanguageCode      string                   `bson:"languageCode"`
	IsPremium         bool                     `bson:"isPremium"`
	Referrals         map[string]ReferralEntry `bson:"referrals"`
	Balance           int64                    `bson:"balance"`
	MineRate          float64                  `bson:"mineRate"`
	IsMining          bool                     `bson:"isMining"`
	MiningStartedTime *time.Time               `bson:"miningStartedTime"`
	Daily             DailyClaim               `bson:"daily"`
	Links             []string                 `bson:"links"`
	ReferredBy        *string                  `bson:"referredBy,omitempty"`
}

// ReferralEntry lives in the referrer's document under referrals.<refereeID>.
// Written once when the referee onboards, never updated afterwards.
type ReferralEntry struct {
	AddedValue int64   `bson:"addedValue"`
	FirstName  string  `bson:"firstName"`
	LastName   *string `bson:"lastName"`
	UserImage  *string `bson:"userImage"`
}

type DailyClaim struct {
	ClaimedTime *time.Time `bson:"claimedTime"`
	ClaimDay    int        `bson:"claimDay"`
}

// NewUser builds the default document for a first-time /start.
func NewUser(id, firstName string, lastName, username *string, languageCode string, isPremium bool, userImage *string) *User {
	return &User{
		ID:           id,
		UserImage:    userImage,
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		LanguageCode: languageCode,
		IsPremium:    isPremium,
		Referrals:    map[string]ReferralEntry{},
		Balance:      0,
		MineRate:     0.001,
		IsMining:     false,
		Daily:        DailyClaim{ClaimedTime: nil, ClaimDay: 0},
	}
}
