package onboarding

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"liarsbar-bot/internal/apperrors"
	"liarsbar-bot/internal/models"
)

const (
	bonusRegular = 100
	bonusPremium = 500

	referralPrefix = "ref_"

	// Signed image URLs are handed to the mini-app frontend and stored in the
	// user document, so they need to outlive any one session.
	signedURLValidity = 365 * 24 * time.Hour
)

const (
	welcomeTemplate = "Hi, %s! 👋\n\n" +
		"Welcome to Liars Bar! 🥳\n\n" +
		"Here you can earn coins by mining them!\n\n" +
		"Invite friends to earn more coins together, and level up faster 🚀"
	apologyMessage = "An error occurred. Please try again later."
	webAppButton   = "Open Liarsbar App"
)

// Platform is the slice of the Telegram Bot API onboarding talks to.
type Platform interface {
	ProfilePhotos(ctx context.Context, userID int64, limit int) (*telego.UserProfilePhotos, error)
	File(ctx context.Context, fileID string) (*telego.File, error)
	FileURL(filePath string) string
	SendMessage(ctx context.Context, chatID int64, text string, markup *telego.InlineKeyboardMarkup) error
}

// UserStore is the user-document persistence onboarding needs.
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, bool, error)
	Create(ctx context.Context, user *models.User) error
	CreditReferral(ctx context.Context, referrerID, refereeID string, entry models.ReferralEntry) (bool, error)
}

// ObjectStore persists profile images and mints signed read URLs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	SignedURL(key string, expiry time.Duration) (string, error)
}

// Fetcher downloads profile photo bytes over HTTP.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Service runs the one-time /start onboarding: user creation, profile image
// import and referral credit, followed by the welcome reply.
type Service struct {
	platform  Platform
	users     UserStore
	objects   ObjectStore
	fetcher   Fetcher
	webAppURL string
}

func NewService(platform Platform, users UserStore, objects ObjectStore, fetcher Fetcher, webAppURL string) *Service {
	return &Service{
		platform:  platform,
		users:     users,
		objects:   objects,
		fetcher:   fetcher,
		webAppURL: webAppURL,
	}
}

// HandleUpdate dispatches one Telegram update. Anything that is not a /start
// message is ignored; business failures never escape this method.
func (s *Service) HandleUpdate(ctx context.Context, update telego.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !isStartCommand(msg.Text) {
		return
	}
	s.handleStart(ctx, msg)
}

func (s *Service) handleStart(ctx context.Context, msg *telego.Message) {
	if err := s.onboard(ctx, msg); err != nil {
		log.Printf("Error in /start for user %d (%s): %v", msg.From.ID, apperrors.CategoryOf(err), err)
		if sendErr := s.platform.SendMessage(ctx, msg.Chat.ID, apologyMessage, nil); sendErr != nil {
			log.Printf("Failed to send failure reply to chat %d: %v", msg.Chat.ID, sendErr)
		}
	}
}

func (s *Service) onboard(ctx context.Context, msg *telego.Message) error {
	from := msg.From
	userID := strconv.FormatInt(from.ID, 10)

	_, exists, err := s.users.Get(ctx, userID)
	if err != nil {
		return apperrors.Database("get user", err)
	}

	// An existing user is never re-onboarded or re-credited, only greeted
	// again.
	if !exists {
		userImage, err := s.importProfileImage(ctx, from.ID)
		if err != nil {
			return err
		}

		user := models.NewUser(
			userID,
			from.FirstName,
			optional(from.LastName),
			optional(from.Username),
			from.LanguageCode,
			from.IsPremium,
			userImage,
		)

		if referrerID, ok := parseReferralToken(msg.Text); ok && referrerID != userID {
			applied, err := s.applyReferral(ctx, referrerID, user)
			if err != nil {
				return err
			}
			if applied {
				user.ReferredBy = &referrerID
			}
		}

		if err := s.users.Create(ctx, user); err != nil {
			return apperrors.Database("create user", err)
		}
	}

	welcome := fmt.Sprintf(welcomeTemplate, from.FirstName)
	if err := s.platform.SendMessage(ctx, msg.Chat.ID, welcome, s.startKeyboard()); err != nil {
		return apperrors.Platform("send welcome", err)
	}
	return nil
}

// importProfileImage copies the user's newest profile photo into object
// storage and returns a signed URL for it. No photo, or a failed download,
// yields no URL rather than an error.
func (s *Service) importProfileImage(ctx context.Context, userID int64) (*string, error) {
	photos, err := s.platform.ProfilePhotos(ctx, userID, 1)
	if err != nil {
		return nil, apperrors.Platform("get profile photos", err)
	}
	if photos.TotalCount == 0 || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return nil, nil
	}

	// Variants are ordered smallest to largest; take the best one.
	sizes := photos.Photos[0]
	fileID := sizes[len(sizes)-1].FileID

	file, err := s.platform.File(ctx, fileID)
	if err != nil {
		return nil, apperrors.Platform("get file", err)
	}

	data, err := s.fetcher.Fetch(ctx, s.platform.FileURL(file.FilePath))
	if err != nil {
		log.Printf("Profile photo download failed for user %d: %v", userID, err)
		return nil, nil
	}

	key := fmt.Sprintf("user_images/%d.jpg", userID)
	if err := s.objects.Upload(ctx, key, data, "image/jpeg"); err != nil {
		return nil, apperrors.Storage("upload profile image", err)
	}

	url, err := s.objects.SignedURL(key, signedURLValidity)
	if err != nil {
		return nil, apperrors.Storage("sign profile image url", err)
	}
	return &url, nil
}

// applyReferral credits the referrer for bringing in the given user. A
// missing referrer drops the referral silently.
func (s *Service) applyReferral(ctx context.Context, referrerID string, referee *models.User) (bool, error) {
	bonus := int64(bonusRegular)
	if referee.IsPremium {
		bonus = bonusPremium
	}

	entry := models.ReferralEntry{
		AddedValue: bonus,
		FirstName:  referee.FirstName,
		LastName:   referee.LastName,
		UserImage:  referee.UserImage,
	}

	applied, err := s.users.CreditReferral(ctx, referrerID, referee.ID, entry)
	if err != nil {
		return false, apperrors.Database("credit referral", err)
	}
	return applied, nil
}

func (s *Service) startKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(webAppButton).WithWebApp(&telego.WebAppInfo{URL: s.webAppURL}),
		),
	)
}

func isStartCommand(text string) bool {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return false
	}
	cmd := parts[0]
	return cmd == "/start" || strings.HasPrefix(cmd, "/start@")
}

// parseReferralToken extracts the referrer ID from "/start ref_<id>". The ID
// must parse as a positive integer before it is used as a document key;
// anything else is treated as no token at all.
func parseReferralToken(text string) (string, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 || !strings.HasPrefix(parts[1], referralPrefix) {
		return "", false
	}

	id := strings.TrimPrefix(parts[1], referralPrefix)
	if n, err := strconv.ParseInt(id, 10, 64); err != nil || n <= 0 {
		return "", false
	}
	return id, true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
