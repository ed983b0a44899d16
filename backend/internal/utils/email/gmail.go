package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/repospector/repospector/shared/config"
	"github.com/repospector/repospector/shared/logger"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Gmail sends through the Gmail API as the account that owns the refresh token.
type Gmail struct {
	config *config.Email
	svc    *gmail.Service
}

func NewGmail(ctx context.Context, cfg *config.Email) (*Gmail, error) {
	if cfg.GmailClientID == "" || cfg.GmailClientSecret == "" || cfg.GmailRefreshToken == "" {
		return nil, fmt.Errorf("gmail transport needs client id, client secret and refresh token")
	}
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}
	// the token source refreshes the access token on demand
	ts := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GmailRefreshToken})

	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Gmail{config: cfg, svc: svc}, nil
}

func (g *Gmail) IsCorrect(email string) error {
	return isCorrect(email)
}

func (g *Gmail) Send(ctx context.Context, recipientEmail, subject, htmlBody string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout(g.config))
	defer cancel()

	msg := buildMessage(g.config, recipientEmail, subject, htmlBody, time.Now())
	_, err := g.svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(msg),
	}).Context(ctx).Do()
	if err != nil {
		logger.Log.Error("gmail send failed", "error", err)
		return err
	}
	return nil
}
