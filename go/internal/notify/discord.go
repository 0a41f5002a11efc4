package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ErrInvalidWebhook is returned for webhook URLs without an id and token.
var ErrInvalidWebhook = errors.New("invalid discord webhook url")

// WebhookExecutor is satisfied by *discordgo.Session.
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts transitions to a channel webhook.
type DiscordNotifier struct {
	session   WebhookExecutor
	webhookID string
	token     string
	username  string
}

// ParseWebhookURL extracts the id and token from
// https://discord.com/api/webhooks/<id>/<token>.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", ErrInvalidWebhook
}

// NewDiscordNotifier creates a notifier for webhookURL. Webhooks need no bot
// token, so the session is unauthenticated.
func NewDiscordNotifier(webhookURL, username string) (*DiscordNotifier, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return newDiscordNotifier(session, id, token, username), nil
}

func newDiscordNotifier(session WebhookExecutor, id, token, username string) *DiscordNotifier {
	if username == "" {
		username = "Tournament"
	}
	return &DiscordNotifier{session: session, webhookID: id, token: token, username: username}
}

func (d *DiscordNotifier) Name() string { return "discord" }

func (d *DiscordNotifier) Notify(ctx context.Context, t Transition) error {
	_, err := d.session.WebhookExecute(d.webhookID, d.token, false, &discordgo.WebhookParams{
		Content:  Message(t),
		Username: d.username,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to execute discord webhook: %w", err)
	}
	return nil
}
