package telegram

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// Client wraps the telego bot with the handful of calls onboarding needs.
type Client struct {
	bot *telego.Bot
}

func NewClient(token string) (*Client, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &Client{bot: bot}, nil
}

func (c *Client) ProfilePhotos(ctx context.Context, userID int64, limit int) (*telego.UserProfilePhotos, error) {
	return c.bot.GetUserProfilePhotos(ctx, &telego.GetUserProfilePhotosParams{
		UserID: userID,
		Limit:  limit,
	})
}

func (c *Client) File(ctx context.Context, fileID string) (*telego.File, error) {
	return c.bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
}

// FileURL resolves a file path from GetFile into a downloadable URL on the
// Bot API file endpoint.
func (c *Client) FileURL(filePath string) string {
	return c.bot.FileDownloadURL(filePath)
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *telego.InlineKeyboardMarkup) error {
	msg := tu.Message(tu.ID(chatID), text)
	if markup != nil {
		msg = msg.WithReplyMarkup(markup)
	}
	if _, err := c.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// RegisterWebhook points Telegram at the given public URL. Called once at
// startup when WEBHOOK_URL is configured.
func (c *Client) RegisterWebhook(ctx context.Context, url string) error {
	if err := c.bot.SetWebhook(ctx, &telego.SetWebhookParams{URL: url}); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}
